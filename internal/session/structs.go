package session

import (
	"time"

	"github.com/summitrentals/voice-service/internal/domain"
	"github.com/summitrentals/voice-service/internal/tools"
)

// Webhook message types delivered by the voice runtime. The union is decoded
// by type tag; unknown tags are acknowledged and ignored so protocol
// evolution upstream never breaks live calls.
const (
	MessageTypeAssistantRequest   = "assistant-request"
	MessageTypeStatusUpdate       = "status-update"
	MessageTypeConversationUpdate = "conversation-update"
	MessageTypeSpeechUpdate       = "speech-update"
	MessageTypeToolCalls          = "tool-calls"
	MessageTypeEndOfCallReport    = "end-of-call-report"
)

// WebhookEnvelope is the outer shape of every webhook delivery.
type WebhookEnvelope struct {
	Message WebhookMessage `json:"message"`
}

// WebhookMessage is the tagged union of all message types. Only the fields
// relevant to the tagged type are populated.
type WebhookMessage struct {
	Type string `json:"type"`

	Call        *CallPayload  `json:"call,omitempty"`
	PhoneNumber *PhonePayload `json:"phoneNumber,omitempty"`

	// status-update
	Status string `json:"status,omitempty"`

	// tool-calls
	ToolCalls []tools.ToolCall `json:"toolCalls,omitempty"`

	// end-of-call-report
	EndedReason   string           `json:"endedReason,omitempty"`
	StartedAt     *time.Time       `json:"startedAt,omitempty"`
	EndedAt       *time.Time       `json:"endedAt,omitempty"`
	Artifact      *ArtifactPayload `json:"artifact,omitempty"`
	Analysis      *AnalysisPayload `json:"analysis,omitempty"`
	Summary       string           `json:"summary,omitempty"`
	Cost          float64          `json:"cost,omitempty"`
	CostBreakdown domain.JSONB     `json:"costBreakdown,omitempty"`
}

// CallPayload identifies the call a message belongs to.
type CallPayload struct {
	ID            string          `json:"id"`
	PhoneNumberID string          `json:"phoneNumberId,omitempty"`
	Customer      *CustomerInfo   `json:"customer,omitempty"`
	Monitor       *MonitorPayload `json:"monitor,omitempty"`
}

// CustomerInfo carries the caller's number.
type CustomerInfo struct {
	Number string `json:"number"`
}

// MonitorPayload carries the live-call-control handle.
type MonitorPayload struct {
	ControlURL string `json:"controlUrl,omitempty"`
}

// PhonePayload identifies the inbound phone line.
type PhonePayload struct {
	ID     string `json:"id"`
	Number string `json:"number,omitempty"`
}

// ArtifactPayload carries the call recording artifacts.
type ArtifactPayload struct {
	Transcript   string `json:"transcript,omitempty"`
	RecordingURL string `json:"recordingUrl,omitempty"`
}

// AnalysisPayload is the runtime's post-call analysis. StructuredData is the
// externally extracted structured result; an entry carrying an "error" key
// is the analyzer reporting its own failure and is not call data.
type AnalysisPayload struct {
	Summary           string       `json:"summary,omitempty"`
	SuccessEvaluation string       `json:"successEvaluation,omitempty"`
	StructuredData    domain.JSONB `json:"structuredData,omitempty"`
}

// AckResponse is the small acknowledgement for observational messages.
type AckResponse struct {
	Status string `json:"status"`
}

// Ack is the standard acknowledgement body.
func Ack() AckResponse {
	return AckResponse{Status: "ok"}
}

// AssistantResponse answers an assistant-request: the permanent assistant
// identity paired with a transient per-call override. Two plain records
// composed at call time — the base configuration lives on the runtime and is
// never re-provisioned per call.
type AssistantResponse struct {
	AssistantID        string              `json:"assistantId"`
	AssistantOverrides *AssistantOverrides `json:"assistantOverrides,omitempty"`
}

// AssistantOverrides carries the per-call personalization.
type AssistantOverrides struct {
	FirstMessage   string            `json:"firstMessage,omitempty"`
	VariableValues map[string]string `json:"variableValues,omitempty"`
	Model          *ModelOverride    `json:"model,omitempty"`
}

// ModelOverride layers per-call instructions over the base model config.
type ModelOverride struct {
	Messages []ModelMessage `json:"messages,omitempty"`
}

// ModelMessage is one chat message in the model override.
type ModelMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolCallResult is one entry of a sync tool response.
type ToolCallResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ToolCallResponse is the sync tool-execution response body.
type ToolCallResponse struct {
	Results []ToolCallResult `json:"results"`
}

// ErrorResponse is the machine-readable body for fatal configuration errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
