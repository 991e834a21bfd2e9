package model

import (
	"time"

	"github.com/google/uuid"
)

// LeaveType enum constants
const (
	LeaveTypeAnnual        = "ANNUAL"
	LeaveTypeSick          = "SICK"
	LeaveTypeMaternity     = "MATERNITY"
	LeaveTypeCompassionate = "COMPASSIONATE"
	LeaveTypeUnpaid        = "UNPAID"
)

// LeaveRequest is the single-approver counterpart of the requisition
// workflow: one status column, decided by an administrator.
type LeaveRequest struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StaffID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"staff_id"`
	StaffName string     `gorm:"type:varchar(255);not null" json:"staff_name"`
	LeaveType string     `gorm:"type:varchar(30);not null" json:"leave_type"`
	StartDate time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time  `gorm:"type:date;not null" json:"end_date"`
	Days      int        `gorm:"not null" json:"days"` // inclusive of both endpoints
	Reason    string     `gorm:"type:text" json:"reason"`
	Status    string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	DecidedBy *uuid.UUID `gorm:"type:uuid" json:"decided_by"`
	DecidedAt *time.Time `json:"decided_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
