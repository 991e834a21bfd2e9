package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department enum constants
const (
	DeptAdmin      = "Admin"
	DeptHR         = "HR"
	DeptFinance    = "Finance"
	DeptExecutive  = "Executive"
	DeptOperations = "Operations"
	DeptIT         = "IT"
)

// Staff represents a portal member in the staff directory. DisplayName is
// unique — the approval workflow resolves approvers by exact display name.
type Staff struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StaffCode   string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"staff_code"`
	DisplayName string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"display_name"`
	Email       string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Department  string         `gorm:"type:varchar(50);not null" json:"department"`
	Role        string         `gorm:"type:varchar(50);not null" json:"role"` // admin, manager, staff
	Password    string         `gorm:"type:varchar(255);not null" json:"-"`   // Omit password from JSON requests/responses
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

// IsAdmin reports whether this staff member holds administrative privilege.
func (s *Staff) IsAdmin() bool {
	return s.Role == "admin"
}

// RefreshToken stores long-lived tokens allowing staff to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StaffID   uuid.UUID `gorm:"type:uuid;not null;index" json:"staff_id"`
	Staff     Staff     `gorm:"foreignKey:StaffID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
