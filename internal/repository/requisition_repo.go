package repository

import (
	"context"

	"staffportal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequisitionFilter narrows List results. Zero values mean "no filter".
type RequisitionFilter struct {
	FinalStatus string
	RequesterID uuid.UUID
}

// RequisitionRepository is the persistent store for requisitions. Every
// write overwrites the full record for that identifier.
type RequisitionRepository interface {
	Create(ctx context.Context, req *model.Requisition) error
	FindByID(ctx context.Context, id uint) (*model.Requisition, error)
	// FindByIDForUpdate locks the row for the duration of the surrounding
	// transaction, serializing concurrent decisions on one requisition.
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Requisition, error)
	ListPendingFinal(ctx context.Context) ([]model.Requisition, error)
	List(ctx context.Context, filter RequisitionFilter, page, limit int) ([]model.Requisition, int64, error)
	Update(ctx context.Context, req *model.Requisition) error
	DeleteByRequester(ctx context.Context, requesterID uuid.UUID) error
}

type requisitionRepository struct {
	db *gorm.DB
}

func NewRequisitionRepository(db *gorm.DB) RequisitionRepository {
	return &requisitionRepository{db: db}
}

func (r *requisitionRepository) Create(ctx context.Context, req *model.Requisition) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requisitionRepository) FindByID(ctx context.Context, id uint) (*model.Requisition, error) {
	var req model.Requisition
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requisitionRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Requisition, error) {
	var req model.Requisition
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requisitionRepository) ListPendingFinal(ctx context.Context) ([]model.Requisition, error) {
	var reqs []model.Requisition
	if err := GetDB(ctx, r.db).
		Where("final_status = ?", model.StatusPending).
		Order("submitted_on DESC, id DESC").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *requisitionRepository) List(ctx context.Context, filter RequisitionFilter, page, limit int) ([]model.Requisition, int64, error) {
	var reqs []model.Requisition
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Requisition{})
	if filter.FinalStatus != "" {
		query = query.Where("final_status = ?", filter.FinalStatus)
	}
	if filter.RequesterID != uuid.Nil {
		query = query.Where("requester_id = ?", filter.RequesterID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("submitted_on DESC, id DESC").Offset(offset).Limit(limit).Find(&reqs).Error; err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}

func (r *requisitionRepository) Update(ctx context.Context, req *model.Requisition) error {
	return GetDB(ctx, r.db).Save(req).Error
}

func (r *requisitionRepository) DeleteByRequester(ctx context.Context, requesterID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("requester_id = ?", requesterID).Delete(&model.Requisition{}).Error
}
