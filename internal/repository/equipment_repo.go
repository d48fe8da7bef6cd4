package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/summitrentals/voice-service/internal/domain"
	"gorm.io/gorm"
)

// GormEquipmentRepository implements EquipmentRepository using GORM
type GormEquipmentRepository struct {
	db *gorm.DB
}

// NewGormEquipmentRepository creates a new GORM equipment repository
func NewGormEquipmentRepository(db *gorm.DB) *GormEquipmentRepository {
	return &GormEquipmentRepository{db: db}
}

// Search returns catalog entries whose name, category or description contains
// the query, case-insensitively. Ranking stays deliberately dumb; the
// conversational layer decides what to say about the matches.
func (r *GormEquipmentRepository) Search(ctx context.Context, query string) ([]*domain.Equipment, error) {
	pattern := "%" + strings.TrimSpace(query) + "%"

	var items []*domain.Equipment
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR category ILIKE ? OR description ILIKE ?", pattern, pattern, pattern).
		Order("name ASC").
		Limit(10).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search equipment: %w", err)
	}

	return items, nil
}
