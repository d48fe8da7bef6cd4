package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/summitrentals/voice-service/internal/domain"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GORM client repository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// GetByID retrieves a client by ID
func (r *GormClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	var client domain.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ? AND disabled = ?", id, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return &client, nil
}

// GetByPhoneLineID resolves a phone-line id to the client that owns it.
// Unmapped lines fall back to the default client so a misconfigured line
// still gets answered.
func (r *GormClientRepository) GetByPhoneLineID(ctx context.Context, phoneLineID string) (*domain.Client, error) {
	var line domain.PhoneLine
	err := r.db.WithContext(ctx).First(&line, "id = ?", phoneLineID).Error
	if err == nil {
		return r.GetByID(ctx, line.ClientID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve phone line %s: %w", phoneLineID, err)
	}

	return r.GetDefault(ctx)
}

// GetDefault retrieves the default client
func (r *GormClientRepository) GetDefault(ctx context.Context) (*domain.Client, error) {
	var client domain.Client
	if err := r.db.WithContext(ctx).First(&client, "is_default = ? AND disabled = ?", true, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get default client: %w", err)
	}

	return &client, nil
}
