package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateStaff = "CREATE_STAFF"
	ActionUpdateStaff = "UPDATE_STAFF"
	ActionDeleteStaff = "DELETE_STAFF"

	// Requisition workflow actions
	ActionSubmitRequisition = "SUBMIT_REQUISITION"
	ActionApproveSlot       = "APPROVE_REQUISITION_SLOT"
	ActionRejectSlot        = "REJECT_REQUISITION_SLOT"

	// Leave workflow actions
	ActionSubmitLeave  = "SUBMIT_LEAVE"
	ActionApproveLeave = "APPROVE_LEAVE"
	ActionRejectLeave  = "REJECT_LEAVE"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StaffID    *uuid.UUID `gorm:"type:uuid;index" json:"staff_id"` // Nullable gracefully if automated job
	Staff      *Staff     `gorm:"foreignKey:StaffID" json:"staff"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/req id)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
