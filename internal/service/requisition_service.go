package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"staffportal/internal/model"
	"staffportal/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Decision enum constants
const (
	DecisionApprove = "APPROVE"
	DecisionReject  = "REJECT"
)

// --- DTOs ---

type SubmitRequisitionDTO struct {
	RequestType     string `json:"request_type" binding:"required,oneof=OPEX CAPEX"`
	Description     string `json:"description" binding:"required"`
	Quantity        int    `json:"quantity" binding:"required,min=1"`
	UnitPrice       string `json:"unit_price" binding:"required"` // decimal string
	Justification   string `json:"justification"`
	AdminApprover   string `json:"admin_approver" binding:"required"`
	HRApprover      string `json:"hr_approver" binding:"required"`
	FinanceApprover string `json:"finance_approver" binding:"required"`
	MDApprover      string `json:"md_approver" binding:"required"`
}

type SlotResponse struct {
	Role         string `json:"role"`
	ApproverName string `json:"approver_name"`
	Status       string `json:"status"`
}

type RequisitionResponse struct {
	ID            uint           `json:"id"`
	RequesterID   string         `json:"requester_id"`
	RequesterName string         `json:"requester_name"`
	RequestType   string         `json:"request_type"`
	Description   string         `json:"description"`
	Quantity      int            `json:"quantity"`
	UnitPrice     string         `json:"unit_price"`
	TotalAmount   string         `json:"total_amount"`
	Justification string         `json:"justification"`
	SubmittedOn   string         `json:"submitted_on"`
	Slots         []SlotResponse `json:"slots"`
	FinalStatus   string         `json:"final_status"`
}

// EventPublisher pushes workflow events to connected clients. Nil-safe from
// the service's point of view.
type EventPublisher interface {
	Publish(event string, payload interface{})
}

// --- Interface ---

// RequisitionService is the approval engine for OPEX/CAPEX requisitions.
// Submit and Decide return only after the change is durably written; a
// failed call leaves no partial state behind.
type RequisitionService interface {
	Submit(ctx context.Context, actor Identity, req SubmitRequisitionDTO) (RequisitionResponse, error)
	Decide(ctx context.Context, id uint, actor Identity, decision string) (RequisitionResponse, error)
	ListPendingFor(ctx context.Context, actor Identity) ([]RequisitionResponse, error)
	Get(ctx context.Context, id uint) (RequisitionResponse, error)
	ListByRequester(ctx context.Context, actor Identity, page, limit int) ([]RequisitionResponse, int64, error)
}

type requisitionService struct {
	repo      repository.RequisitionRepository
	staffRepo repository.StaffRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	resolver  RoutingResolver
	publisher EventPublisher
	logger    *zap.Logger
}

func NewRequisitionService(
	repo repository.RequisitionRepository,
	staffRepo repository.StaffRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	publisher EventPublisher,
	logger *zap.Logger,
) RequisitionService {
	return &requisitionService{
		repo:      repo,
		staffRepo: staffRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
	}
}

// --- Implementation ---

func (s *requisitionService) Submit(ctx context.Context, actor Identity, req SubmitRequisitionDTO) (RequisitionResponse, error) {
	if req.RequestType != model.RequestTypeOpex && req.RequestType != model.RequestTypeCapex {
		return RequisitionResponse{}, validationf("request_type must be %s or %s", model.RequestTypeOpex, model.RequestTypeCapex)
	}
	if req.Description == "" {
		return RequisitionResponse{}, validationf("description is required")
	}
	if req.Quantity < 1 {
		return RequisitionResponse{}, validationf("quantity must be at least 1")
	}

	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return RequisitionResponse{}, validationf("unit_price is not a valid decimal: %s", req.UnitPrice)
	}
	if unitPrice.IsNegative() {
		return RequisitionResponse{}, validationf("unit_price must not be negative")
	}

	totalAmount := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
	if !totalAmount.IsPositive() {
		return RequisitionResponse{}, validationf("total amount must be greater than zero")
	}

	// All four approvers must be named and present in the staff directory.
	approverNames := map[string]string{
		model.SlotAdmin:   req.AdminApprover,
		model.SlotHR:      req.HRApprover,
		model.SlotFinance: req.FinanceApprover,
		model.SlotMD:      req.MDApprover,
	}
	approvers := make(map[string]*model.Staff, len(approverNames))
	for role, name := range approverNames {
		if name == "" {
			return RequisitionResponse{}, validationf("%s approver is required", role)
		}
		staff, lookupErr := s.staffRepo.GetByDisplayName(ctx, name)
		if lookupErr != nil {
			if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				return RequisitionResponse{}, validationf("%s approver %q not found in staff directory", role, name)
			}
			return RequisitionResponse{}, fmt.Errorf("failed to resolve %s approver: %w", role, lookupErr)
		}
		approvers[role] = staff
	}

	now := time.Now()
	requisition := model.Requisition{
		RequesterID:       actor.StaffID,
		RequesterName:     actor.Name,
		RequestType:       req.RequestType,
		Description:       req.Description,
		Quantity:          req.Quantity,
		UnitPrice:         unitPrice,
		TotalAmount:       totalAmount,
		Justification:     req.Justification,
		SubmittedOn:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		AdminApproverID:   approvers[model.SlotAdmin].ID,
		AdminApprover:     approvers[model.SlotAdmin].DisplayName,
		AdminStatus:       model.StatusPending,
		HRApproverID:      approvers[model.SlotHR].ID,
		HRApprover:        approvers[model.SlotHR].DisplayName,
		HRStatus:          model.StatusPending,
		FinanceApproverID: approvers[model.SlotFinance].ID,
		FinanceApprover:   approvers[model.SlotFinance].DisplayName,
		FinanceStatus:     model.StatusPending,
		MDApproverID:      approvers[model.SlotMD].ID,
		MDApprover:        approvers[model.SlotMD].DisplayName,
		MDStatus:          model.StatusPending,
		FinalStatus:       model.StatusPending,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.repo.Create(txCtx, &requisition); createErr != nil {
			return fmt.Errorf("failed to create requisition: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"request_type": requisition.RequestType,
			"total_amount": requisition.TotalAmount.StringFixed(2),
			"approvers":    approverNames,
		})
		audit := &model.AuditLog{
			StaffID:    &requisition.RequesterID,
			Action:     model.ActionSubmitRequisition,
			EntityID:   strconv.FormatUint(uint64(requisition.ID), 10),
			EntityName: requisition.Description,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})

	if err != nil {
		return RequisitionResponse{}, err
	}

	s.logger.Info("requisition submitted",
		zap.Uint("requisition_id", requisition.ID),
		zap.String("requester", requisition.RequesterName),
		zap.String("total_amount", requisition.TotalAmount.StringFixed(2)),
	)
	s.publish("requisition_submitted", toRequisitionResponse(requisition))

	return toRequisitionResponse(requisition), nil
}

// Decide applies the decision to every Pending slot on the requisition whose
// approver name matches the acting identity, then recomputes the final
// status. The read-modify-write runs under a row lock so concurrent
// decisions on one requisition serialize.
func (s *requisitionService) Decide(ctx context.Context, id uint, actor Identity, decision string) (RequisitionResponse, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return RequisitionResponse{}, validationf("decision must be %s or %s", DecisionApprove, DecisionReject)
	}

	slotStatus := model.StatusApproved
	action := model.ActionApproveSlot
	if decision == DecisionReject {
		slotStatus = model.StatusRejected
		action = model.ActionRejectSlot
	}

	var updated model.Requisition
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		requisition, findErr := s.repo.FindByIDForUpdate(txCtx, id)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrRequisitionNotFound
			}
			return fmt.Errorf("failed to load requisition: %w", findErr)
		}

		if !requisition.ConsistentFinal() {
			s.logger.Error("requisition final status disagrees with slot statuses",
				zap.Uint("requisition_id", requisition.ID),
				zap.String("final_status", requisition.FinalStatus),
			)
			return &IntegrityError{RequisitionID: requisition.ID}
		}

		roles := requisition.PendingSlotsFor(actor.Name)
		if len(roles) == 0 {
			return ErrNoAuthorizedSlot
		}

		for _, role := range roles {
			requisition.SetSlotStatus(role, slotStatus)
		}
		requisition.RecomputeFinalStatus()

		if updateErr := s.repo.Update(txCtx, requisition); updateErr != nil {
			return fmt.Errorf("failed to persist decision: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"decision":     decision,
			"slots":        roles,
			"final_status": requisition.FinalStatus,
		})
		audit := &model.AuditLog{
			StaffID:    &actor.StaffID,
			Action:     action,
			EntityID:   strconv.FormatUint(uint64(requisition.ID), 10),
			EntityName: requisition.Description,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		updated = *requisition
		return nil
	})

	if err != nil {
		return RequisitionResponse{}, err
	}

	s.logger.Info("requisition decision recorded",
		zap.Uint("requisition_id", updated.ID),
		zap.String("approver", actor.Name),
		zap.String("decision", decision),
		zap.String("final_status", updated.FinalStatus),
	)
	s.publish("requisition_decided", toRequisitionResponse(updated))

	return toRequisitionResponse(updated), nil
}

// ListPendingFor returns the requisitions awaiting the acting identity's
// decision, newest submission first. Read-only.
func (s *requisitionService) ListPendingFor(ctx context.Context, actor Identity) ([]RequisitionResponse, error) {
	pending, err := s.repo.ListPendingFinal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending requisitions: %w", err)
	}

	matched := s.resolver.PendingFor(actor, pending)
	result := make([]RequisitionResponse, 0, len(matched))
	for _, req := range matched {
		result = append(result, toRequisitionResponse(req))
	}
	return result, nil
}

func (s *requisitionService) Get(ctx context.Context, id uint) (RequisitionResponse, error) {
	requisition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequisitionResponse{}, ErrRequisitionNotFound
		}
		return RequisitionResponse{}, fmt.Errorf("failed to load requisition: %w", err)
	}

	if !requisition.ConsistentFinal() {
		s.logger.Error("requisition final status disagrees with slot statuses",
			zap.Uint("requisition_id", requisition.ID),
			zap.String("final_status", requisition.FinalStatus),
		)
		return RequisitionResponse{}, &IntegrityError{RequisitionID: requisition.ID}
	}

	return toRequisitionResponse(*requisition), nil
}

func (s *requisitionService) ListByRequester(ctx context.Context, actor Identity, page, limit int) ([]RequisitionResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	filter := repository.RequisitionFilter{RequesterID: actor.StaffID}
	requisitions, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch requisitions: %w", err)
	}

	result := make([]RequisitionResponse, 0, len(requisitions))
	for _, req := range requisitions {
		result = append(result, toRequisitionResponse(req))
	}
	return result, total, nil
}

func (s *requisitionService) publish(event string, payload interface{}) {
	if s.publisher != nil {
		s.publisher.Publish(event, payload)
	}
}

// --- Helpers ---

func toRequisitionResponse(r model.Requisition) RequisitionResponse {
	slots := make([]SlotResponse, 0, 4)
	for _, slot := range r.Slots() {
		slots = append(slots, SlotResponse{
			Role:         slot.Role,
			ApproverName: slot.ApproverName,
			Status:       slot.Status,
		})
	}

	return RequisitionResponse{
		ID:            r.ID,
		RequesterID:   r.RequesterID.String(),
		RequesterName: r.RequesterName,
		RequestType:   r.RequestType,
		Description:   r.Description,
		Quantity:      r.Quantity,
		UnitPrice:     r.UnitPrice.StringFixed(2),
		TotalAmount:   r.TotalAmount.StringFixed(2),
		Justification: r.Justification,
		SubmittedOn:   r.SubmittedOn.Format("2006-01-02"),
		Slots:         slots,
		FinalStatus:   r.FinalStatus,
	}
}
