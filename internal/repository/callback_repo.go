package repository

import (
	"context"
	"fmt"

	"github.com/summitrentals/voice-service/internal/domain"
	"gorm.io/gorm"
)

// GormCallbackRepository implements CallbackRepository using GORM
type GormCallbackRepository struct {
	db *gorm.DB
}

// NewGormCallbackRepository creates a new GORM callback repository
func NewGormCallbackRepository(db *gorm.DB) *GormCallbackRepository {
	return &GormCallbackRepository{db: db}
}

// Create persists a new callback request
func (r *GormCallbackRepository) Create(ctx context.Context, req *domain.CallbackRequest) error {
	if req.Status == "" {
		req.Status = domain.CallbackStatusPending
	}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}

	return nil
}

// UpdateStatus transitions a callback request to a new status
func (r *GormCallbackRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	result := r.db.WithContext(ctx).Model(&domain.CallbackRequest{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update callback status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// ListPending returns pending callback requests for a client, oldest first
func (r *GormCallbackRepository) ListPending(ctx context.Context, clientID string) ([]*domain.CallbackRequest, error) {
	var requests []*domain.CallbackRequest
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND status = ?", clientID, domain.CallbackStatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending callbacks: %w", err)
	}

	return requests, nil
}
