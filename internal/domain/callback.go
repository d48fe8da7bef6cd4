package domain

import (
	"time"
)

// CallbackRequest is created by the schedule_callback tool. The preferred
// time is kept as the caller-confirmed string, never re-parsed: the wording
// the caller agreed to is the promise the business has to keep.
type CallbackRequest struct {
	ID            string    `json:"id" gorm:"type:uuid;primary_key"`
	ClientID      string    `json:"client_id" gorm:"type:uuid;index;not null"`
	CallID        string    `json:"call_id" gorm:"type:varchar(64);index"`
	CallerName    string    `json:"caller_name" gorm:"type:varchar(255)"`
	CallerPhone   string    `json:"caller_phone" gorm:"type:varchar(32);not null"`
	PreferredTime string    `json:"preferred_time" gorm:"type:varchar(255);not null"`
	Reason        string    `json:"reason" gorm:"type:text"`
	Department    string    `json:"department" gorm:"type:varchar(64);not null"`
	Status        string    `json:"status" gorm:"type:varchar(32);default:'pending'"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for CallbackRequest
func (CallbackRequest) TableName() string {
	return "callback_requests"
}
