package repository

import (
	"context"

	"staffportal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaveRepository interface {
	Create(ctx context.Context, req *model.LeaveRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID) ([]model.LeaveRequest, error)
	ListByStatus(ctx context.Context, status string, page, limit int) ([]model.LeaveRequest, int64, error)
	Update(ctx context.Context, req *model.LeaveRequest) error
	DeleteByStaff(ctx context.Context, staffID uuid.UUID) error
}

type leaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) Create(ctx context.Context, req *model.LeaveRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *leaveRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error) {
	var req model.LeaveRequest
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *leaveRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error) {
	var req model.LeaveRequest
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *leaveRepository) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]model.LeaveRequest, error) {
	var reqs []model.LeaveRequest
	if err := GetDB(ctx, r.db).
		Where("staff_id = ?", staffID).
		Order("start_date DESC").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *leaveRepository) ListByStatus(ctx context.Context, status string, page, limit int) ([]model.LeaveRequest, int64, error) {
	var reqs []model.LeaveRequest
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.LeaveRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reqs).Error; err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}

func (r *leaveRepository) Update(ctx context.Context, req *model.LeaveRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}

func (r *leaveRepository) DeleteByStaff(ctx context.Context, staffID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("staff_id = ?", staffID).Delete(&model.LeaveRequest{}).Error
}
