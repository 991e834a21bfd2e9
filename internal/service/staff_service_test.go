package service

import (
	"context"
	"testing"
	"time"

	"staffportal/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staffFixture struct {
	svc             StaffService
	repo            *fakeStaffRepo
	tokenRepo       *fakeTokenRepo
	requisitionRepo *fakeRequisitionRepo
	leaveRepo       *fakeLeaveRepo
	auditRepo       *fakeAuditRepo
	admin           Identity
}

func newStaffFixture() *staffFixture {
	repo := newFakeStaffRepo()
	tokenRepo := newFakeTokenRepo()
	requisitionRepo := newFakeRequisitionRepo()
	leaveRepo := newFakeLeaveRepo()
	auditRepo := &fakeAuditRepo{}

	return &staffFixture{
		svc:             NewStaffService(repo, tokenRepo, requisitionRepo, leaveRepo, auditRepo, &fakeTxManager{}),
		repo:            repo,
		tokenRepo:       tokenRepo,
		requisitionRepo: requisitionRepo,
		leaveRepo:       leaveRepo,
		auditRepo:       auditRepo,
		admin:           Identity{StaffID: uuid.New(), Name: "Root Admin", Role: "admin", IsAdmin: true},
	}
}

func validCreateStaffRequest() CreateStaffRequest {
	return CreateStaffRequest{
		StaffCode:   "EMP-001",
		DisplayName: "Rita Vo",
		Email:       "rita@corp.local",
		Department:  model.DeptOperations,
		Role:        "staff",
		Password:    "s3cret-pass",
	}
}

func TestCreateStaff(t *testing.T) {
	f := newStaffFixture()
	ctx := context.Background()

	resp, err := f.svc.CreateStaff(ctx, f.admin, validCreateStaffRequest())
	require.NoError(t, err)
	assert.Equal(t, "Rita Vo", resp.DisplayName)
	assert.NotEqual(t, uuid.Nil, resp.ID)

	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, model.ActionCreateStaff, f.auditRepo.entries[0].Action)
}

func TestCreateStaffValidation(t *testing.T) {
	f := newStaffFixture()
	ctx := context.Background()

	_, err := f.svc.CreateStaff(ctx, f.admin, validCreateStaffRequest())
	require.NoError(t, err)

	var validationErr *ValidationError

	t.Run("duplicate display name", func(t *testing.T) {
		req := validCreateStaffRequest()
		req.Email = "rita2@corp.local"
		_, err := f.svc.CreateStaff(ctx, f.admin, req)
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("duplicate email", func(t *testing.T) {
		req := validCreateStaffRequest()
		req.DisplayName = "Rita Vo II"
		_, err := f.svc.CreateStaff(ctx, f.admin, req)
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("unknown department", func(t *testing.T) {
		req := validCreateStaffRequest()
		req.DisplayName = "Sam Poe"
		req.Email = "sam@corp.local"
		req.Department = "Marketing"
		_, err := f.svc.CreateStaff(ctx, f.admin, req)
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestLoginAndRefresh(t *testing.T) {
	f := newStaffFixture()
	ctx := context.Background()

	_, err := f.svc.CreateStaff(ctx, f.admin, validCreateStaffRequest())
	require.NoError(t, err)

	tokens, err := f.svc.Login(ctx, LoginStaffRequest{Email: "rita@corp.local", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	refreshed, err := f.svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.Login(ctx, LoginStaffRequest{Email: "rita@corp.local", Password: "wrong"})
		assert.Error(t, err)
	})

	t.Run("unknown refresh token", func(t *testing.T) {
		_, err := f.svc.Refresh(ctx, "deadbeef")
		assert.Error(t, err)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		require.NoError(t, f.svc.Logout(ctx, tokens.RefreshToken))
		_, err := f.svc.Refresh(ctx, tokens.RefreshToken)
		assert.Error(t, err)
	})
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	f := newStaffFixture()
	ctx := context.Background()

	resp, err := f.svc.CreateStaff(ctx, f.admin, validCreateStaffRequest())
	require.NoError(t, err)

	expired := &model.RefreshToken{
		StaffID:   resp.ID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, f.tokenRepo.Create(ctx, expired))

	_, err = f.svc.Refresh(ctx, "expired-token")
	assert.Error(t, err)
}

func TestResolveIdentity(t *testing.T) {
	f := newStaffFixture()
	ctx := context.Background()

	req := validCreateStaffRequest()
	req.Role = "admin"
	created, err := f.svc.CreateStaff(ctx, f.admin, req)
	require.NoError(t, err)

	identity, err := f.svc.ResolveIdentity(ctx, "Rita Vo")
	require.NoError(t, err)
	assert.Equal(t, created.ID, identity.StaffID)
	assert.Equal(t, "Rita Vo", identity.Name)
	assert.Equal(t, model.DeptOperations, identity.Department)
	assert.True(t, identity.IsAdmin)

	_, err = f.svc.ResolveIdentity(ctx, "Nobody")
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestUpdateStaff(t *testing.T) {
	f := newStaffFixture()
	ctx := context.Background()

	created, err := f.svc.CreateStaff(ctx, f.admin, validCreateStaffRequest())
	require.NoError(t, err)

	updated, err := f.svc.UpdateStaff(ctx, f.admin, created.ID.String(), UpdateStaffRequest{Department: model.DeptFinance, Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, model.DeptFinance, updated.Department)
	assert.Equal(t, "manager", updated.Role)

	t.Run("malformed id", func(t *testing.T) {
		var validationErr *ValidationError
		_, err := f.svc.UpdateStaff(ctx, f.admin, "not-a-uuid", UpdateStaffRequest{})
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.svc.UpdateStaff(ctx, f.admin, uuid.NewString(), UpdateStaffRequest{})
		assert.ErrorIs(t, err, ErrStaffNotFound)
	})
}

// Deleting a staff member removes their requisitions, leave requests and
// refresh tokens in the same transaction.
func TestDeleteStaffCascades(t *testing.T) {
	f := newStaffFixture()
	ctx := context.Background()

	created, err := f.svc.CreateStaff(ctx, f.admin, validCreateStaffRequest())
	require.NoError(t, err)
	staffID := created.ID

	require.NoError(t, f.requisitionRepo.Create(ctx, &model.Requisition{
		RequesterID: staffID, RequesterName: "Rita Vo", FinalStatus: model.StatusPending,
	}))
	require.NoError(t, f.leaveRepo.Create(ctx, &model.LeaveRequest{
		StaffID: staffID, StaffName: "Rita Vo", Status: model.StatusPending,
	}))
	require.NoError(t, f.tokenRepo.Create(ctx, &model.RefreshToken{
		StaffID: staffID, Token: "live-token", ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, f.svc.DeleteStaff(ctx, f.admin, staffID.String()))

	_, err = f.svc.GetStaffByID(ctx, staffID.String())
	assert.ErrorIs(t, err, ErrStaffNotFound)
	assert.Empty(t, f.requisitionRepo.items)
	assert.Empty(t, f.leaveRepo.items)
	assert.Empty(t, f.tokenRepo.tokens)

	last := f.auditRepo.entries[len(f.auditRepo.entries)-1]
	assert.Equal(t, model.ActionDeleteStaff, last.Action)
}

func TestDeleteStaffUnknown(t *testing.T) {
	f := newStaffFixture()
	err := f.svc.DeleteStaff(context.Background(), f.admin, uuid.NewString())
	assert.ErrorIs(t, err, ErrStaffNotFound)
}
