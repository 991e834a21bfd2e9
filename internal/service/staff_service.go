package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"staffportal/internal/model"
	"staffportal/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type CreateStaffRequest struct {
	StaffCode   string `json:"staff_code" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Department  string `json:"department" binding:"required"`
	Role        string `json:"role" binding:"required,oneof=admin manager staff"`
	Password    string `json:"password" binding:"required,min=6"`
}

type UpdateStaffRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email" binding:"omitempty,email"`
	Department  string `json:"department"`
	Role        string `json:"role" binding:"omitempty,oneof=admin manager staff"`
}

type LoginStaffRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// DTO for returning Staff without exposing sensitive data
type StaffResponse struct {
	ID          uuid.UUID `json:"id"`
	StaffCode   string    `json:"staff_code"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Department  string    `json:"department"`
	Role        string    `json:"role"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// StaffService is the staff directory and its authentication surface. The
// approval workflow consumes it through ResolveIdentity.
type StaffService interface {
	CreateStaff(ctx context.Context, actor Identity, req CreateStaffRequest) (*StaffResponse, error)
	Login(ctx context.Context, req LoginStaffRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ResolveIdentity(ctx context.Context, displayName string) (Identity, error)
	GetStaffByID(ctx context.Context, id string) (*StaffResponse, error)
	ListStaff(ctx context.Context, page, limit int) ([]StaffResponse, int64, error)
	UpdateStaff(ctx context.Context, actor Identity, id string, req UpdateStaffRequest) (*StaffResponse, error)
	DeleteStaff(ctx context.Context, actor Identity, id string) error
}

type staffService struct {
	repo            repository.StaffRepository
	tokenRepo       repository.RefreshTokenRepository
	requisitionRepo repository.RequisitionRepository
	leaveRepo       repository.LeaveRepository
	auditRepo       repository.AuditRepository
	txManager       repository.TransactionManager
}

func NewStaffService(
	repo repository.StaffRepository,
	tokenRepo repository.RefreshTokenRepository,
	requisitionRepo repository.RequisitionRepository,
	leaveRepo repository.LeaveRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) StaffService {
	return &staffService{
		repo:            repo,
		tokenRepo:       tokenRepo,
		requisitionRepo: requisitionRepo,
		leaveRepo:       leaveRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
	}
}

func validDepartment(department string) bool {
	switch department {
	case model.DeptAdmin, model.DeptHR, model.DeptFinance, model.DeptExecutive, model.DeptOperations, model.DeptIT:
		return true
	}
	return false
}

func mapToStaffResponse(staff *model.Staff) *StaffResponse {
	return &StaffResponse{
		ID:          staff.ID,
		StaffCode:   staff.StaffCode,
		DisplayName: staff.DisplayName,
		Email:       staff.Email,
		Department:  staff.Department,
		Role:        staff.Role,
		CreatedAt:   staff.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   staff.UpdatedAt.Format(time.RFC3339),
	}
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key"
	}
	return []byte(secret)
}

func (s *staffService) CreateStaff(ctx context.Context, actor Identity, req CreateStaffRequest) (*StaffResponse, error) {
	if !validDepartment(req.Department) {
		return nil, validationf("invalid department: %s", req.Department)
	}

	if _, err := s.repo.GetByDisplayName(ctx, req.DisplayName); err == nil {
		return nil, validationf("display name already exists")
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, validationf("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	staff := &model.Staff{
		StaffCode:   req.StaffCode,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Department:  req.Department,
		Role:        req.Role,
		Password:    string(hashedPassword),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.repo.Create(txCtx, staff); createErr != nil {
			return createErr
		}

		details, _ := json.Marshal(map[string]string{
			"display_name": req.DisplayName,
			"department":   req.Department,
			"role":         req.Role,
		})
		audit := &model.AuditLog{
			StaffID:    auditActor(actor),
			Action:     model.ActionCreateStaff,
			EntityID:   staff.ID.String(),
			EntityName: staff.DisplayName,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	return mapToStaffResponse(staff), nil
}

func (s *staffService) Login(ctx context.Context, req LoginStaffRequest) (*TokenResponse, error) {
	staff, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	accessToken, err := s.signAccessToken(staff)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	refreshToken, err := s.issueRefreshToken(ctx, staff.ID)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *staffService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	stored, err := s.tokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokenRepo.DeleteByToken(ctx, refreshToken)
		return nil, errors.New("refresh token expired")
	}

	staff, err := s.repo.GetByID(ctx, stored.StaffID)
	if err != nil {
		return nil, errors.New("staff member no longer exists")
	}

	accessToken, err := s.signAccessToken(staff)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *staffService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokenRepo.DeleteByToken(ctx, refreshToken)
}

// ResolveIdentity looks up a staff member by exact display name and returns
// the acting identity the workflow engine consumes.
func (s *staffService) ResolveIdentity(ctx context.Context, displayName string) (Identity, error) {
	staff, err := s.repo.GetByDisplayName(ctx, displayName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Identity{}, ErrStaffNotFound
		}
		return Identity{}, fmt.Errorf("failed to resolve identity: %w", err)
	}

	return Identity{
		StaffID:    staff.ID,
		Name:       staff.DisplayName,
		Department: staff.Department,
		Role:       staff.Role,
		IsAdmin:    staff.IsAdmin(),
	}, nil
}

func (s *staffService) GetStaffByID(ctx context.Context, id string) (*StaffResponse, error) {
	staffID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationf("invalid staff id: %s", id)
	}

	staff, err := s.repo.GetByID(ctx, staffID)
	if err != nil {
		return nil, ErrStaffNotFound
	}
	return mapToStaffResponse(staff), nil
}

func (s *staffService) ListStaff(ctx context.Context, page, limit int) ([]StaffResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	members, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StaffResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, *mapToStaffResponse(&m))
	}
	return responses, total, nil
}

func (s *staffService) UpdateStaff(ctx context.Context, actor Identity, id string, req UpdateStaffRequest) (*StaffResponse, error) {
	staffID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationf("invalid staff id: %s", id)
	}

	staff, err := s.repo.GetByID(ctx, staffID)
	if err != nil {
		return nil, ErrStaffNotFound
	}

	if req.Department != "" {
		if !validDepartment(req.Department) {
			return nil, validationf("invalid department: %s", req.Department)
		}
		staff.Department = req.Department
	}
	if req.Role != "" {
		staff.Role = req.Role
	}
	if req.DisplayName != "" && req.DisplayName != staff.DisplayName {
		if _, lookupErr := s.repo.GetByDisplayName(ctx, req.DisplayName); lookupErr == nil {
			return nil, validationf("display name already exists")
		}
		staff.DisplayName = req.DisplayName
	}
	if req.Email != "" && req.Email != staff.Email {
		if _, lookupErr := s.repo.GetByEmail(ctx, req.Email); lookupErr == nil {
			return nil, validationf("email already exists")
		}
		staff.Email = req.Email
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.repo.Update(txCtx, staff); updateErr != nil {
			return updateErr
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			StaffID:    auditActor(actor),
			Action:     model.ActionUpdateStaff,
			EntityID:   staff.ID.String(),
			EntityName: staff.DisplayName,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	return mapToStaffResponse(staff), nil
}

// DeleteStaff removes a staff member and cascades deletion of their
// requisitions and leave requests in the same transaction.
func (s *staffService) DeleteStaff(ctx context.Context, actor Identity, id string) error {
	staffID, err := uuid.Parse(id)
	if err != nil {
		return validationf("invalid staff id: %s", id)
	}

	staff, err := s.repo.GetByID(ctx, staffID)
	if err != nil {
		return ErrStaffNotFound
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.requisitionRepo.DeleteByRequester(txCtx, staffID); delErr != nil {
			return fmt.Errorf("failed to delete requisitions: %w", delErr)
		}
		if delErr := s.leaveRepo.DeleteByStaff(txCtx, staffID); delErr != nil {
			return fmt.Errorf("failed to delete leave requests: %w", delErr)
		}
		if delErr := s.tokenRepo.DeleteByStaff(txCtx, staffID); delErr != nil {
			return fmt.Errorf("failed to delete refresh tokens: %w", delErr)
		}
		if delErr := s.repo.Delete(txCtx, staffID); delErr != nil {
			return fmt.Errorf("failed to delete staff member: %w", delErr)
		}

		audit := &model.AuditLog{
			StaffID:    auditActor(actor),
			Action:     model.ActionDeleteStaff,
			EntityID:   staffID.String(),
			EntityName: staff.DisplayName,
			Details:    `{"deleted": true}`,
		}
		return s.auditRepo.Log(txCtx, audit)
	})
}

func (s *staffService) signAccessToken(staff *model.Staff) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        staff.ID.String(),
		"name":       staff.DisplayName,
		"department": staff.Department,
		"role":       staff.Role,
		"is_admin":   staff.IsAdmin(),
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret())
}

func (s *staffService) issueRefreshToken(ctx context.Context, staffID uuid.UUID) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.New("failed to generate refresh token")
	}
	token := hex.EncodeToString(raw)

	stored := &model.RefreshToken{
		StaffID:   staffID,
		Token:     token,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.tokenRepo.Create(ctx, stored); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return token, nil
}

// auditActor returns a pointer to the actor's staff ID, or nil when the
// action was not performed by a known staff member (e.g. bootstrap).
func auditActor(actor Identity) *uuid.UUID {
	if actor.StaffID == uuid.Nil {
		return nil
	}
	id := actor.StaffID
	return &id
}
