package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"staffportal/internal/model"
	"staffportal/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmitLeaveDTO struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=ANNUAL SICK MATERNITY COMPASSIONATE UNPAID"`
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type LeaveResponse struct {
	ID        string `json:"id"`
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name"`
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
}

// LeaveService is the single-approver leave workflow: any administrator may
// decide a pending request, and a decision is final.
type LeaveService interface {
	Submit(ctx context.Context, actor Identity, req SubmitLeaveDTO) (LeaveResponse, error)
	Decide(ctx context.Context, id string, actor Identity, decision string) (LeaveResponse, error)
	ListMine(ctx context.Context, actor Identity) ([]LeaveResponse, error)
	ListPending(ctx context.Context, page, limit int) ([]LeaveResponse, int64, error)
}

type leaveService struct {
	repo      repository.LeaveRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	publisher EventPublisher
}

func NewLeaveService(
	repo repository.LeaveRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	publisher EventPublisher,
) LeaveService {
	return &leaveService{
		repo:      repo,
		auditRepo: auditRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

const dateLayout = "2006-01-02"

func (s *leaveService) Submit(ctx context.Context, actor Identity, req SubmitLeaveDTO) (LeaveResponse, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return LeaveResponse{}, validationf("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return LeaveResponse{}, validationf("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return LeaveResponse{}, validationf("end_date must not precede start_date")
	}

	leave := model.LeaveRequest{
		StaffID:   actor.StaffID,
		StaffName: actor.Name,
		LeaveType: req.LeaveType,
		StartDate: start,
		EndDate:   end,
		Days:      int(end.Sub(start).Hours()/24) + 1,
		Reason:    req.Reason,
		Status:    model.StatusPending,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.repo.Create(txCtx, &leave); createErr != nil {
			return fmt.Errorf("failed to create leave request: %w", createErr)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			StaffID:    auditActor(actor),
			Action:     model.ActionSubmitLeave,
			EntityID:   leave.ID.String(),
			EntityName: leave.StaffName,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	return toLeaveResponse(leave), nil
}

func (s *leaveService) Decide(ctx context.Context, id string, actor Identity, decision string) (LeaveResponse, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return LeaveResponse{}, validationf("decision must be %s or %s", DecisionApprove, DecisionReject)
	}

	leaveID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, validationf("invalid leave request id: %s", id)
	}

	status := model.StatusApproved
	action := model.ActionApproveLeave
	if decision == DecisionReject {
		status = model.StatusRejected
		action = model.ActionRejectLeave
	}

	var updated model.LeaveRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		leave, findErr := s.repo.FindByIDForUpdate(txCtx, leaveID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrLeaveNotFound
			}
			return fmt.Errorf("failed to load leave request: %w", findErr)
		}

		if leave.Status != model.StatusPending {
			return ErrAlreadyDecided
		}

		now := time.Now()
		leave.Status = status
		leave.DecidedBy = auditActor(actor)
		leave.DecidedAt = &now

		if updateErr := s.repo.Update(txCtx, leave); updateErr != nil {
			return fmt.Errorf("failed to persist leave decision: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]string{"decision": decision})
		audit := &model.AuditLog{
			StaffID:    auditActor(actor),
			Action:     action,
			EntityID:   leave.ID.String(),
			EntityName: leave.StaffName,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return auditErr
		}

		updated = *leave
		return nil
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	if s.publisher != nil {
		s.publisher.Publish("leave_decided", toLeaveResponse(updated))
	}

	return toLeaveResponse(updated), nil
}

func (s *leaveService) ListMine(ctx context.Context, actor Identity) ([]LeaveResponse, error) {
	leaves, err := s.repo.ListByStaff(ctx, actor.StaffID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leave requests: %w", err)
	}

	result := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		result = append(result, toLeaveResponse(l))
	}
	return result, nil
}

func (s *leaveService) ListPending(ctx context.Context, page, limit int) ([]LeaveResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	leaves, total, err := s.repo.ListByStatus(ctx, model.StatusPending, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch pending leave requests: %w", err)
	}

	result := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		result = append(result, toLeaveResponse(l))
	}
	return result, total, nil
}

func toLeaveResponse(l model.LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:        l.ID.String(),
		StaffID:   l.StaffID.String(),
		StaffName: l.StaffName,
		LeaveType: l.LeaveType,
		StartDate: l.StartDate.Format(dateLayout),
		EndDate:   l.EndDate.Format(dateLayout),
		Days:      l.Days,
		Reason:    l.Reason,
		Status:    l.Status,
	}
}
