package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestType enum constants
const (
	RequestTypeOpex  = "OPEX"
	RequestTypeCapex = "CAPEX"
)

// Slot and final status share one vocabulary
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// SlotRole enum constants — the four fixed approval slots on every requisition
const (
	SlotAdmin   = "ADMIN"
	SlotHR      = "HR"
	SlotFinance = "FINANCE"
	SlotMD      = "MD"
)

// SlotRoles lists the slots in their canonical review order.
var SlotRoles = []string{SlotAdmin, SlotHR, SlotFinance, SlotMD}

// Requisition is an OPEX/CAPEX expenditure request routed through four
// approval slots (Admin, HR, Finance, MD). FinalStatus is derived from the
// slot statuses and is never set directly.
type Requisition struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	RequesterID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"requester_id"`
	RequesterName string          `gorm:"type:varchar(255);not null" json:"requester_name"`
	RequestType   string          `gorm:"type:varchar(10);not null" json:"request_type"` // OPEX, CAPEX
	Description   string          `gorm:"type:text;not null" json:"description"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"` // quantity * unit_price
	Justification string          `gorm:"type:text" json:"justification"`
	SubmittedOn   time.Time       `gorm:"type:date;not null" json:"submitted_on"`

	// Approver identities are captured at submission time and immutable.
	// Matching during routing and decisions is by display name; the staff
	// UUID is carried alongside for the audit trail.
	AdminApproverID   uuid.UUID `gorm:"type:uuid;not null" json:"admin_approver_id"`
	AdminApprover     string    `gorm:"type:varchar(255);not null" json:"admin_approver"`
	AdminStatus       string    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"admin_status"`
	HRApproverID      uuid.UUID `gorm:"type:uuid;not null" json:"hr_approver_id"`
	HRApprover        string    `gorm:"type:varchar(255);not null" json:"hr_approver"`
	HRStatus          string    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"hr_status"`
	FinanceApproverID uuid.UUID `gorm:"type:uuid;not null" json:"finance_approver_id"`
	FinanceApprover   string    `gorm:"type:varchar(255);not null" json:"finance_approver"`
	FinanceStatus     string    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"finance_status"`
	MDApproverID      uuid.UUID `gorm:"type:uuid;not null" json:"md_approver_id"`
	MDApprover        string    `gorm:"type:varchar(255);not null" json:"md_approver"`
	MDStatus          string    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"md_status"`

	FinalStatus string    `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"final_status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Slot is a read view of one approval slot.
type Slot struct {
	Role         string    `json:"role"`
	ApproverID   uuid.UUID `json:"approver_id"`
	ApproverName string    `json:"approver_name"`
	Status       string    `json:"status"`
}

// Slots returns the four approval slots in canonical order.
func (r *Requisition) Slots() []Slot {
	return []Slot{
		{Role: SlotAdmin, ApproverID: r.AdminApproverID, ApproverName: r.AdminApprover, Status: r.AdminStatus},
		{Role: SlotHR, ApproverID: r.HRApproverID, ApproverName: r.HRApprover, Status: r.HRStatus},
		{Role: SlotFinance, ApproverID: r.FinanceApproverID, ApproverName: r.FinanceApprover, Status: r.FinanceStatus},
		{Role: SlotMD, ApproverID: r.MDApproverID, ApproverName: r.MDApprover, Status: r.MDStatus},
	}
}

// slotStatusField maps a slot role to its backing status column.
func (r *Requisition) slotStatusField(role string) *string {
	switch role {
	case SlotAdmin:
		return &r.AdminStatus
	case SlotHR:
		return &r.HRStatus
	case SlotFinance:
		return &r.FinanceStatus
	case SlotMD:
		return &r.MDStatus
	}
	return nil
}

// PendingSlotsFor returns the roles of every Pending slot whose approver
// display name exactly equals name. Matching is case-sensitive.
func (r *Requisition) PendingSlotsFor(name string) []string {
	var roles []string
	for _, s := range r.Slots() {
		if s.Status == StatusPending && s.ApproverName == name {
			roles = append(roles, s.Role)
		}
	}
	return roles
}

// SetSlotStatus writes status into the named slot. Unknown roles are ignored.
func (r *Requisition) SetSlotStatus(role, status string) {
	if field := r.slotStatusField(role); field != nil {
		*field = status
	}
}

// AggregateFinalStatus derives the final status from four slot statuses.
// A single rejection vetoes the requisition regardless of the other slots;
// approval requires all four. There is no quorum rule.
func AggregateFinalStatus(slots []Slot) string {
	approved := 0
	for _, s := range slots {
		switch s.Status {
		case StatusRejected:
			return StatusRejected
		case StatusApproved:
			approved++
		}
	}
	if approved == len(slots) {
		return StatusApproved
	}
	return StatusPending
}

// RecomputeFinalStatus refreshes FinalStatus from the current slot statuses.
func (r *Requisition) RecomputeFinalStatus() {
	r.FinalStatus = AggregateFinalStatus(r.Slots())
}

// ConsistentFinal reports whether the stored final status agrees with the
// slot statuses. A false result indicates the record was mutated outside the
// approval engine.
func (r *Requisition) ConsistentFinal() bool {
	return r.FinalStatus == AggregateFinalStatus(r.Slots())
}
