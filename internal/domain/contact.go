package domain

import (
	"time"
)

// Contact is the rolling per-caller aggregate, keyed by phone number.
type Contact struct {
	ID          string     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Phone       string     `json:"phone" gorm:"type:varchar(32);uniqueIndex;not null"`
	Name        string     `json:"name" gorm:"type:varchar(255)"`
	Company     string     `json:"company" gorm:"type:varchar(255)"`
	Status      string     `json:"status" gorm:"type:varchar(64)"`
	LastTopic   string     `json:"last_topic" gorm:"type:text"`
	CallCount   int        `json:"call_count" gorm:"default:0"`
	LastCallAt  *time.Time `json:"last_call_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}

// ContactPatch carries the fields of a contact update. Nil pointers mean
// "no new information"; a stored value is only ever replaced by a non-nil one.
type ContactPatch struct {
	Name      *string
	Company   *string
	Status    *string
	LastTopic *string
}

// Coalesce applies a patch to the contact. New non-nil values always win,
// nil values never erase what is already known.
func (c *Contact) Coalesce(p ContactPatch) {
	if p.Name != nil && *p.Name != "" {
		c.Name = *p.Name
	}
	if p.Company != nil && *p.Company != "" {
		c.Company = *p.Company
	}
	if p.Status != nil && *p.Status != "" {
		c.Status = *p.Status
	}
	if p.LastTopic != nil && *p.LastTopic != "" {
		c.LastTopic = *p.LastTopic
	}
}

// RecordCall bumps the rolling call aggregate after a completed call.
func (c *Contact) RecordCall(at time.Time) {
	c.CallCount++
	c.LastCallAt = &at
}
