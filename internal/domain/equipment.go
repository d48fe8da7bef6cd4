package domain

import (
	"time"
)

// Equipment is one rentable unit in the inventory catalog.
type Equipment struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Category    string    `json:"category" gorm:"type:varchar(128);index"`
	Description string    `json:"description" gorm:"type:text"`
	DailyRate   float64   `json:"daily_rate"`
	Available   bool      `json:"available" gorm:"default:true"`
	Quantity    int       `json:"quantity" gorm:"default:1"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for Equipment
func (Equipment) TableName() string {
	return "equipment"
}
