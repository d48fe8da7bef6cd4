package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/summitrentals/voice-service/internal/domain"
	"gorm.io/gorm"
)

// GormContactRepository implements ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GORM contact repository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// GetByPhone retrieves a contact by phone number
func (r *GormContactRepository) GetByPhone(ctx context.Context, phone string) (*domain.Contact, error) {
	var contact domain.Contact
	if err := r.db.WithContext(ctx).First(&contact, "phone = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return &contact, nil
}

// Upsert merges a patch into the contact for the phone number, creating the
// row if needed. Concurrent merges for the same phone are last-writer-wins
// per field; the coalesce rule only guarantees nil never beats a value.
func (r *GormContactRepository) Upsert(ctx context.Context, phone string, patch domain.ContactPatch, callAt time.Time) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.WithContext(ctx).First(&contact, "phone = ?", phone).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load contact for merge: %w", err)
		}
		contact = domain.Contact{Phone: phone}
	}

	contact.Coalesce(patch)
	if !callAt.IsZero() {
		contact.RecordCall(callAt)
	}

	if err := r.db.WithContext(ctx).Save(&contact).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert contact: %w", err)
	}

	return &contact, nil
}
