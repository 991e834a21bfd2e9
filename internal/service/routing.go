package service

import (
	"staffportal/internal/model"

	"github.com/google/uuid"
)

// Identity is the acting identity performing a query or decision: the
// display name recorded in approval slots plus department, role and the
// administrative privilege flag from the staff directory.
type Identity struct {
	StaffID    uuid.UUID
	Name       string
	Department string
	Role       string
	IsAdmin    bool
}

// RoutingResolver determines which requisitions await a given identity's
// decision. Administrative privilege grants read access to every pending
// requisition; it does not let an admin decide slots they are not named in —
// that stays with the engine's name match.
type RoutingResolver struct{}

// PendingFor filters candidates down to the requisitions owing the identity
// a decision. A non-admin matches a requisition when at least one Pending
// slot carries their exact display name; each requisition appears once even
// if the identity is named in several of its slots. Input order is
// preserved.
func (RoutingResolver) PendingFor(identity Identity, candidates []model.Requisition) []model.Requisition {
	matched := make([]model.Requisition, 0, len(candidates))
	seen := make(map[uint]bool, len(candidates))

	for _, req := range candidates {
		if req.FinalStatus != model.StatusPending || seen[req.ID] {
			continue
		}
		if identity.IsAdmin || len(req.PendingSlotsFor(identity.Name)) > 0 {
			seen[req.ID] = true
			matched = append(matched, req)
		}
	}

	return matched
}
