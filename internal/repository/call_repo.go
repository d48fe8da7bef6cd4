package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/summitrentals/voice-service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCallRepository implements CallRepository using GORM
type GormCallRepository struct {
	db *gorm.DB
}

// NewGormCallRepository creates a new GORM call repository
func NewGormCallRepository(db *gorm.DB) *GormCallRepository {
	return &GormCallRepository{db: db}
}

// UpsertCall writes a call row keyed by the runtime call id. The same report
// can arrive more than once; the conflict clause keeps exactly one row with
// the latest values.
func (r *GormCallRepository) UpsertCall(ctx context.Context, call *domain.Call) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"caller_phone", "phone_line_id", "client_id",
			"started_at", "ended_at", "status", "ended_reason",
			"transcript", "summary", "success_score", "recording_url",
			"cost", "cost_breakdown", "updated_at",
		}),
	}).Create(call).Error
	if err != nil {
		return fmt.Errorf("failed to upsert call %s: %w", call.ID, err)
	}

	return nil
}

// GetByID retrieves a call by its runtime id
func (r *GormCallRepository) GetByID(ctx context.Context, id string) (*domain.Call, error) {
	var call domain.Call
	if err := r.db.WithContext(ctx).First(&call, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get call: %w", err)
	}

	return &call, nil
}

// UpsertStructuredData writes the structured analysis row for a call,
// idempotently by call id.
func (r *GormCallRepository) UpsertStructuredData(ctx context.Context, data *domain.StructuredCallData) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "call_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"caller_name", "caller_company", "intent",
			"equipment_discussed", "outcome", "follow_up_needed",
			"raw", "updated_at",
		}),
	}).Create(data).Error
	if err != nil {
		return fmt.Errorf("failed to upsert structured data for call %s: %w", data.CallID, err)
	}

	return nil
}
