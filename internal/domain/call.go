package domain

import (
	"time"
)

// Call represents one phone call as reported by the voice runtime.
// The row is created on first reference and upserted by ID afterwards,
// so repeated end-of-call reports never duplicate it.
type Call struct {
	ID             string     `json:"id" gorm:"type:varchar(64);primary_key"`
	CallerPhone    string     `json:"caller_phone" gorm:"type:varchar(32);index"`
	PhoneLineID    string     `json:"phone_line_id" gorm:"type:varchar(64);index"`
	ClientID       string     `json:"client_id" gorm:"type:uuid;index"`
	StartedAt      *time.Time `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at"`
	Status         string     `json:"status" gorm:"type:varchar(32)"`
	EndedReason    string     `json:"ended_reason" gorm:"type:varchar(128)"`
	Transcript     string     `json:"transcript" gorm:"type:text"`
	Summary        string     `json:"summary" gorm:"type:text"`
	SuccessScore   *int       `json:"success_score"`
	RecordingURL   string     `json:"recording_url" gorm:"type:text"`
	Cost           float64    `json:"cost"`
	CostBreakdown  JSONB      `json:"cost_breakdown" gorm:"type:jsonb"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for Call
func (Call) TableName() string {
	return "calls"
}

// StructuredCallData holds the post-call analysis extracted from the
// transcript by the runtime. Stored 1:1 with a Call, both flattened for
// querying and raw for anything the flat columns miss.
type StructuredCallData struct {
	ID                 string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CallID             string    `json:"call_id" gorm:"type:varchar(64);uniqueIndex;not null"`
	CallerName         string    `json:"caller_name" gorm:"type:varchar(255)"`
	CallerCompany      string    `json:"caller_company" gorm:"type:varchar(255)"`
	Intent             string    `json:"intent" gorm:"type:varchar(255)"`
	EquipmentDiscussed string    `json:"equipment_discussed" gorm:"type:text"`
	Outcome            string    `json:"outcome" gorm:"type:text"`
	FollowUpNeeded     bool      `json:"follow_up_needed"`
	Raw                JSONB     `json:"raw" gorm:"type:jsonb"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for StructuredCallData
func (StructuredCallData) TableName() string {
	return "structured_call_data"
}
