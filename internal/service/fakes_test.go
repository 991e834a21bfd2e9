package service

import (
	"context"
	"sort"
	"sync"

	"staffportal/internal/model"
	"staffportal/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory fakes implementing the repository interfaces. The tx manager
// fake serializes whole transactions with one mutex, standing in for the
// row locks the real store takes.

type fakeTxManager struct {
	mu sync.Mutex
}

func (t *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type fakeRequisitionRepo struct {
	mu     sync.Mutex
	nextID uint
	items  map[uint]model.Requisition
}

func newFakeRequisitionRepo() *fakeRequisitionRepo {
	return &fakeRequisitionRepo{items: make(map[uint]model.Requisition)}
}

func (r *fakeRequisitionRepo) Create(ctx context.Context, req *model.Requisition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	req.ID = r.nextID
	r.items[req.ID] = *req
	return nil
}

func (r *fakeRequisitionRepo) FindByID(ctx context.Context, id uint) (*model.Requisition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &req, nil
}

func (r *fakeRequisitionRepo) FindByIDForUpdate(ctx context.Context, id uint) (*model.Requisition, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeRequisitionRepo) ListPendingFinal(ctx context.Context) ([]model.Requisition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Requisition
	for _, req := range r.items {
		if req.FinalStatus == model.StatusPending {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedOn.Equal(out[j].SubmittedOn) {
			return out[i].SubmittedOn.After(out[j].SubmittedOn)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *fakeRequisitionRepo) List(ctx context.Context, filter repository.RequisitionFilter, page, limit int) ([]model.Requisition, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Requisition
	for _, req := range r.items {
		if filter.FinalStatus != "" && req.FinalStatus != filter.FinalStatus {
			continue
		}
		if filter.RequesterID != uuid.Nil && req.RequesterID != filter.RequesterID {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeRequisitionRepo) Update(ctx context.Context, req *model.Requisition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[req.ID] = *req
	return nil
}

func (r *fakeRequisitionRepo) DeleteByRequester(ctx context.Context, requesterID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, req := range r.items {
		if req.RequesterID == requesterID {
			delete(r.items, id)
		}
	}
	return nil
}

// put stores a record verbatim, bypassing the engine. Used to seed
// corrupted state for integrity tests.
func (r *fakeRequisitionRepo) put(req model.Requisition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID > r.nextID {
		r.nextID = req.ID
	}
	r.items[req.ID] = req
}

type fakeStaffRepo struct {
	mu     sync.Mutex
	byName map[string]model.Staff
}

func newFakeStaffRepo(members ...model.Staff) *fakeStaffRepo {
	repo := &fakeStaffRepo{byName: make(map[string]model.Staff)}
	for _, m := range members {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		repo.byName[m.DisplayName] = m
	}
	return repo
}

func (r *fakeStaffRepo) Create(ctx context.Context, staff *model.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	r.byName[staff.DisplayName] = *staff
	return nil
}

func (r *fakeStaffRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.byName {
		if m.ID == id {
			staff := m
			return &staff, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStaffRepo) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.byName {
		if m.Email == email {
			staff := m
			return &staff, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStaffRepo) GetByDisplayName(ctx context.Context, name string) (*model.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff, ok := r.byName[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &staff, nil
}

func (r *fakeStaffRepo) List(ctx context.Context, page, limit int) ([]model.Staff, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Staff
	for _, m := range r.byName {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, int64(len(out)), nil
}

func (r *fakeStaffRepo) Update(ctx context.Context, staff *model.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[staff.DisplayName] = *staff
	return nil
}

func (r *fakeStaffRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, m := range r.byName {
		if m.ID == id {
			delete(r.byName, name)
		}
	}
	return nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (r *fakeAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.AuditLog, len(r.entries))
	copy(out, r.entries)
	return out, int64(len(out)), nil
}

type fakeLeaveRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]model.LeaveRequest
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{items: make(map[uuid.UUID]model.LeaveRequest)}
}

func (r *fakeLeaveRepo) Create(ctx context.Context, req *model.LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	r.items[req.ID] = *req
	return nil
}

func (r *fakeLeaveRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &req, nil
}

func (r *fakeLeaveRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeLeaveRepo) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]model.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.LeaveRequest
	for _, req := range r.items {
		if req.StaffID == staffID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeLeaveRepo) ListByStatus(ctx context.Context, status string, page, limit int) ([]model.LeaveRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.LeaveRequest
	for _, req := range r.items {
		if status == "" || req.Status == status {
			out = append(out, req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeLeaveRepo) Update(ctx context.Context, req *model.LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[req.ID] = *req
	return nil
}

func (r *fakeLeaveRepo) DeleteByStaff(ctx context.Context, staffID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, req := range r.items {
		if req.StaffID == staffID {
			delete(r.items, id)
		}
	}
	return nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]model.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]model.RefreshToken)}
}

func (r *fakeTokenRepo) Create(ctx context.Context, token *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.tokens[token.Token] = *token
	return nil
}

func (r *fakeTokenRepo) GetByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &stored, nil
}

func (r *fakeTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *fakeTokenRepo) DeleteByStaff(ctx context.Context, staffID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, stored := range r.tokens {
		if stored.StaffID == staffID {
			delete(r.tokens, key)
		}
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *fakePublisher) Publish(event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}
