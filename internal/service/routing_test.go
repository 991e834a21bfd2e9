package service

import (
	"testing"

	"staffportal/internal/model"

	"github.com/stretchr/testify/assert"
)

func pendingRequisition(id uint, admin, hr, finance, md string) model.Requisition {
	return model.Requisition{
		ID:            id,
		AdminApprover: admin, AdminStatus: model.StatusPending,
		HRApprover: hr, HRStatus: model.StatusPending,
		FinanceApprover: finance, FinanceStatus: model.StatusPending,
		MDApprover: md, MDStatus: model.StatusPending,
		FinalStatus: model.StatusPending,
	}
}

func TestPendingForMatchesByDisplayName(t *testing.T) {
	var resolver RoutingResolver
	candidates := []model.Requisition{
		pendingRequisition(1, "Alice", "Ben", "Cara", "Dan"),
		pendingRequisition(2, "Ben", "Cara", "Dan", "Erin"),
	}

	matched := resolver.PendingFor(Identity{Name: "Alice"}, candidates)
	assert.Len(t, matched, 1)
	assert.Equal(t, uint(1), matched[0].ID)

	matched = resolver.PendingFor(Identity{Name: "Ben"}, candidates)
	assert.Len(t, matched, 2)

	matched = resolver.PendingFor(Identity{Name: "Nobody"}, candidates)
	assert.Empty(t, matched)
}

func TestPendingForAdminSeesAll(t *testing.T) {
	var resolver RoutingResolver
	candidates := []model.Requisition{
		pendingRequisition(1, "Alice", "Ben", "Cara", "Dan"),
		pendingRequisition(2, "Ben", "Cara", "Dan", "Erin"),
	}

	matched := resolver.PendingFor(Identity{Name: "Unrelated Admin", IsAdmin: true}, candidates)
	assert.Len(t, matched, 2)
}

func TestPendingForDeduplicatesMultiSlotMatch(t *testing.T) {
	var resolver RoutingResolver
	// Alice holds Admin and Finance on the same requisition.
	candidates := []model.Requisition{
		pendingRequisition(1, "Alice", "Ben", "Alice", "Dan"),
	}

	matched := resolver.PendingFor(Identity{Name: "Alice"}, candidates)
	assert.Len(t, matched, 1)
}

func TestPendingForSkipsResolvedSlots(t *testing.T) {
	var resolver RoutingResolver

	req := pendingRequisition(1, "Alice", "Ben", "Cara", "Dan")
	req.AdminStatus = model.StatusApproved
	req.RecomputeFinalStatus()

	// Alice has already decided her only slot.
	matched := resolver.PendingFor(Identity{Name: "Alice"}, []model.Requisition{req})
	assert.Empty(t, matched)

	// Ben still owes a decision on the same requisition.
	matched = resolver.PendingFor(Identity{Name: "Ben"}, []model.Requisition{req})
	assert.Len(t, matched, 1)
}

func TestPendingForExcludesFinalizedRequisitions(t *testing.T) {
	var resolver RoutingResolver

	req := pendingRequisition(1, "Alice", "Ben", "Cara", "Dan")
	req.HRStatus = model.StatusRejected
	req.RecomputeFinalStatus()

	// Alice's slot is still Pending, but the requisition is finalized and no
	// longer surfaces in anyone's queue — admins included.
	matched := resolver.PendingFor(Identity{Name: "Alice"}, []model.Requisition{req})
	assert.Empty(t, matched)
	matched = resolver.PendingFor(Identity{Name: "Root", IsAdmin: true}, []model.Requisition{req})
	assert.Empty(t, matched)
}

func TestPendingForPreservesInputOrder(t *testing.T) {
	var resolver RoutingResolver
	candidates := []model.Requisition{
		pendingRequisition(3, "Alice", "Ben", "Cara", "Dan"),
		pendingRequisition(1, "Alice", "Erin", "Finn", "Gwen"),
		pendingRequisition(2, "Alice", "Hugh", "Iris", "Jack"),
	}

	matched := resolver.PendingFor(Identity{Name: "Alice"}, candidates)
	ids := make([]uint, 0, len(matched))
	for _, req := range matched {
		ids = append(ids, req.ID)
	}
	assert.Equal(t, []uint{3, 1, 2}, ids)
}
