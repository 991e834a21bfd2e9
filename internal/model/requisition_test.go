package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func slotsWith(admin, hr, finance, md string) []Slot {
	return []Slot{
		{Role: SlotAdmin, ApproverName: "A", Status: admin},
		{Role: SlotHR, ApproverName: "B", Status: hr},
		{Role: SlotFinance, ApproverName: "C", Status: finance},
		{Role: SlotMD, ApproverName: "D", Status: md},
	}
}

func TestAggregateFinalStatus(t *testing.T) {
	cases := []struct {
		name     string
		slots    []Slot
		expected string
	}{
		{"all pending", slotsWith(StatusPending, StatusPending, StatusPending, StatusPending), StatusPending},
		{"partial approval stays pending", slotsWith(StatusApproved, StatusApproved, StatusPending, StatusPending), StatusPending},
		{"three approvals stay pending", slotsWith(StatusApproved, StatusApproved, StatusApproved, StatusPending), StatusPending},
		{"all approved", slotsWith(StatusApproved, StatusApproved, StatusApproved, StatusApproved), StatusApproved},
		{"single rejection vetoes", slotsWith(StatusPending, StatusRejected, StatusPending, StatusPending), StatusRejected},
		{"rejection beats three approvals", slotsWith(StatusApproved, StatusApproved, StatusApproved, StatusRejected), StatusRejected},
		{"rejection beats mix of pending and approved", slotsWith(StatusApproved, StatusRejected, StatusPending, StatusApproved), StatusRejected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AggregateFinalStatus(tc.slots))
		})
	}
}

func TestRecomputeFinalStatus(t *testing.T) {
	req := Requisition{
		AdminApprover: "Alice", AdminStatus: StatusPending,
		HRApprover: "Bob", HRStatus: StatusPending,
		FinanceApprover: "Carol", FinanceStatus: StatusPending,
		MDApprover: "Dave", MDStatus: StatusPending,
		FinalStatus: StatusPending,
	}

	req.SetSlotStatus(SlotAdmin, StatusApproved)
	req.RecomputeFinalStatus()
	assert.Equal(t, StatusPending, req.FinalStatus)

	req.SetSlotStatus(SlotHR, StatusApproved)
	req.SetSlotStatus(SlotFinance, StatusApproved)
	req.SetSlotStatus(SlotMD, StatusApproved)
	req.RecomputeFinalStatus()
	assert.Equal(t, StatusApproved, req.FinalStatus)
}

func TestPendingSlotsFor(t *testing.T) {
	req := Requisition{
		AdminApprover: "Alice", AdminStatus: StatusPending,
		HRApprover: "Alice", HRStatus: StatusPending,
		FinanceApprover: "Carol", FinanceStatus: StatusApproved,
		MDApprover: "Carol", MDStatus: StatusPending,
	}

	assert.Equal(t, []string{SlotAdmin, SlotHR}, req.PendingSlotsFor("Alice"))
	// Finance is already decided, only MD remains for Carol.
	assert.Equal(t, []string{SlotMD}, req.PendingSlotsFor("Carol"))
	assert.Empty(t, req.PendingSlotsFor("Nobody"))
	// Matching is case-sensitive.
	assert.Empty(t, req.PendingSlotsFor("alice"))
}

func TestSetSlotStatusIgnoresUnknownRole(t *testing.T) {
	req := Requisition{AdminStatus: StatusPending, HRStatus: StatusPending, FinanceStatus: StatusPending, MDStatus: StatusPending}
	req.SetSlotStatus("CEO", StatusApproved)
	for _, s := range req.Slots() {
		assert.Equal(t, StatusPending, s.Status)
	}
}

func TestConsistentFinal(t *testing.T) {
	req := Requisition{
		AdminStatus: StatusApproved, HRStatus: StatusApproved,
		FinanceStatus: StatusApproved, MDStatus: StatusApproved,
		FinalStatus: StatusApproved,
	}
	assert.True(t, req.ConsistentFinal())

	req.FinalStatus = StatusPending
	assert.False(t, req.ConsistentFinal())

	req.MDStatus = StatusRejected
	req.FinalStatus = StatusRejected
	assert.True(t, req.ConsistentFinal())
}
