package domain

import (
	"time"
)

// Client represents a business account: its departments, feature flags and
// the externally provisioned assistant identity its calls run on.
type Client struct {
	ID string `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	// BusinessName is what the assistant introduces itself as.
	BusinessName string `json:"business_name" gorm:"type:varchar(255);not null"`
	// AssistantID is the opaque id of the permanent assistant configuration
	// provisioned on the voice runtime. Empty means the client cannot take calls.
	AssistantID string `json:"assistant_id" gorm:"type:varchar(128)"`
	// TransferNumbers maps department name -> E.164 destination number.
	TransferNumbers JSONB `json:"transfer_numbers" gorm:"type:jsonb"`
	// Features holds per-client feature flags (e.g. "sms_confirmations").
	Features  JSONB     `json:"features" gorm:"type:jsonb"`
	IsDefault bool      `json:"is_default" gorm:"default:false"`
	Disabled  bool      `json:"disabled" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for Client
func (Client) TableName() string {
	return "clients"
}

// DepartmentNumber resolves a department name to its configured transfer
// number. The lookup is case-insensitive on the stored keys being lowercase.
func (c *Client) DepartmentNumber(department string) (string, bool) {
	if c.TransferNumbers == nil {
		return "", false
	}
	v, ok := c.TransferNumbers[department]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// FeatureEnabled reports whether a boolean feature flag is set for the client.
func (c *Client) FeatureEnabled(name string) bool {
	if c.Features == nil {
		return false
	}
	v, ok := c.Features[name]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// PhoneLine maps a runtime phone-line id to the client that owns it.
// Lines without a mapping fall back to the default client.
type PhoneLine struct {
	ID        string    `json:"id" gorm:"type:varchar(64);primary_key"`
	ClientID  string    `json:"client_id" gorm:"type:uuid;index;not null"`
	Number    string    `json:"number" gorm:"type:varchar(32)"`
	Label     string    `json:"label" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for PhoneLine
func (PhoneLine) TableName() string {
	return "phone_lines"
}

// FeatureSMSConfirmations enables SMS confirmations after callback scheduling.
const FeatureSMSConfirmations = "sms_confirmations"
