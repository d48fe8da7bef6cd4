// Package session is the webhook entry point: a state machine over the
// runtime's message types, keyed by call id. No state lives in-process
// between events; continuity across a call comes only from re-reading the
// call record store, so every transition must be independently appliable —
// reports repeat and assistant-request may never arrive for a misrouted line.
package session

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/summitrentals/voice-service/internal/domain"
	"github.com/summitrentals/voice-service/internal/prompts"
	"github.com/summitrentals/voice-service/internal/repository"
	"github.com/summitrentals/voice-service/internal/tools"
	"github.com/summitrentals/voice-service/pkg/logger"
	"go.uber.org/zap"
)

// Controller routes webhook messages for in-flight calls.
type Controller struct {
	clients    repository.ClientRepository
	calls      repository.CallRepository
	contacts   repository.ContactRepository
	assembler  *prompts.Assembler
	dispatcher *tools.Dispatcher

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

// NewController creates a session controller. The tool dispatcher is
// injected rather than constructed here so tests can substitute a fake
// registry.
func NewController(
	clients repository.ClientRepository,
	calls repository.CallRepository,
	contacts repository.ContactRepository,
	assembler *prompts.Assembler,
	dispatcher *tools.Dispatcher,
) *Controller {
	return &Controller{
		clients:    clients,
		calls:      calls,
		contacts:   contacts,
		assembler:  assembler,
		dispatcher: dispatcher,
		Now:        time.Now,
	}
}

// HandleWebhook processes one webhook delivery and returns the response
// body. A non-nil error means a fatal configuration problem: the HTTP layer
// answers non-200 and the runtime must not treat the call as configured.
// Everything else acknowledges, whatever happened internally.
func (c *Controller) HandleWebhook(ctx context.Context, msg *WebhookMessage) (interface{}, error) {
	switch msg.Type {
	case MessageTypeAssistantRequest:
		return c.handleAssistantRequest(ctx, msg)

	case MessageTypeToolCalls:
		return c.HandleToolCalls(ctx, msg), nil

	case MessageTypeEndOfCallReport:
		return c.handleEndOfCallReport(ctx, msg), nil

	case MessageTypeStatusUpdate, MessageTypeConversationUpdate, MessageTypeSpeechUpdate:
		c.logObservational(msg)
		return Ack(), nil

	default:
		// Unknown message types are acknowledged and ignored. Failing closed
		// on a new type would break every call after a runtime upgrade.
		logger.Base().Debug("ignoring unknown webhook message type", zap.String("type", msg.Type))
		return Ack(), nil
	}
}

// handleAssistantRequest resolves the call's client and returns the
// permanent assistant id paired with the per-call transient override.
func (c *Controller) handleAssistantRequest(ctx context.Context, msg *WebhookMessage) (interface{}, error) {
	lineID := phoneLineID(msg)
	callerPhone := callerPhone(msg)

	client, err := c.clients.GetByPhoneLineID(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve client for phone line %q: %w", lineID, err)
	}
	if client.AssistantID == "" {
		return nil, fmt.Errorf("client %s: %w", client.ID, domain.ErrAgentNotProvisioned)
	}

	cc := c.assembler.BuildContext(ctx, callerPhone, client)

	// Create the call row on first reference. Losing this write only costs
	// us an earlier timestamp; the end-of-call upsert recreates the row.
	if msg.Call != nil && msg.Call.ID != "" {
		now := c.Now()
		call := &domain.Call{
			ID:          msg.Call.ID,
			CallerPhone: callerPhone,
			PhoneLineID: lineID,
			ClientID:    client.ID,
			StartedAt:   &now,
			Status:      domain.CallStatusInProgress,
		}
		if err := c.calls.UpsertCall(ctx, call); err != nil {
			logger.Base().Warn("failed to record call start",
				zap.String("call_id", msg.Call.ID), zap.Error(err))
		}
	}

	logger.Base().Info("assistant request served",
		zap.String("client_id", client.ID),
		zap.String("phone_line_id", lineID),
		zap.Bool("after_hours", cc.AfterHours))

	return &AssistantResponse{
		AssistantID: client.AssistantID,
		AssistantOverrides: &AssistantOverrides{
			FirstMessage:   cc.FirstMessage,
			VariableValues: cc.Variables,
			Model: &ModelOverride{
				Messages: []ModelMessage{{Role: "system", Content: cc.Instructions()}},
			},
		},
	}, nil
}

// HandleToolCalls dispatches the tool invocation batch and shapes the
// response: sync tools answer with their result text, async tools with a
// bare ack, failures with a distinct error entry the assistant can react to.
func (c *Controller) HandleToolCalls(ctx context.Context, msg *WebhookMessage) interface{} {
	info := &tools.CallInfo{
		CallerPhone: callerPhone(msg),
	}
	if msg.Call != nil {
		info.CallID = msg.Call.ID
		if msg.Call.Monitor != nil {
			info.ControlURL = msg.Call.Monitor.ControlURL
		}
	}

	if client, err := c.clients.GetByPhoneLineID(ctx, phoneLineID(msg)); err == nil {
		info.Client = client
	} else {
		logger.Base().Warn("client resolution failed for tool call",
			zap.String("call_id", info.CallID), zap.Error(err))
	}

	outcome := c.dispatcher.Dispatch(ctx, msg.ToolCalls, info)

	if outcome.Err != nil {
		return &ToolCallResponse{Results: []ToolCallResult{{
			ToolCallID: outcome.ToolCallID,
			Error:      outcome.Err.Error(),
		}}}
	}
	if outcome.Async {
		return Ack()
	}
	return &ToolCallResponse{Results: []ToolCallResult{{
		ToolCallID: outcome.ToolCallID,
		Result:     outcome.Result,
	}}}
}

// handleEndOfCallReport persists the terminal call record. The report may be
// delivered more than once; the upsert keeps one row holding the latest
// delivery. Persistence failures are logged and swallowed: failing the ack
// would make the runtime retry a webhook whose side effects may already have
// partially happened.
func (c *Controller) handleEndOfCallReport(ctx context.Context, msg *WebhookMessage) interface{} {
	if msg.Call == nil || msg.Call.ID == "" {
		logger.Base().Warn("end-of-call report without call id, nothing to persist")
		return Ack()
	}

	phone := callerPhone(msg)
	lineID := phoneLineID(msg)

	call := &domain.Call{
		ID:            msg.Call.ID,
		CallerPhone:   phone,
		PhoneLineID:   lineID,
		StartedAt:     msg.StartedAt,
		EndedAt:       msg.EndedAt,
		Status:        domain.CallStatusEnded,
		EndedReason:   msg.EndedReason,
		Cost:          msg.Cost,
		CostBreakdown: msg.CostBreakdown,
	}
	if msg.Artifact != nil {
		call.Transcript = msg.Artifact.Transcript
		call.RecordingURL = msg.Artifact.RecordingURL
	}
	call.Summary = msg.Summary
	if msg.Analysis != nil {
		if msg.Analysis.Summary != "" {
			call.Summary = msg.Analysis.Summary
		}
		call.SuccessScore = parseSuccessScore(msg.Analysis.SuccessEvaluation)
	}
	if client, err := c.clients.GetByPhoneLineID(ctx, lineID); err == nil {
		call.ClientID = client.ID
	}

	if err := c.calls.UpsertCall(ctx, call); err != nil {
		logger.Base().Error("failed to persist end-of-call report",
			zap.String("call_id", call.ID), zap.Error(err))
		return Ack()
	}

	structured := extractStructuredData(msg.Analysis)
	if structured == nil {
		return Ack()
	}

	data := &domain.StructuredCallData{
		CallID:             call.ID,
		CallerName:         structuredField(structured, "caller_name", "callerName", "name"),
		CallerCompany:      structuredField(structured, "caller_company", "callerCompany", "company"),
		Intent:             structuredField(structured, "intent", "call_intent"),
		EquipmentDiscussed: structuredField(structured, "equipment_discussed", "equipmentDiscussed", "machine"),
		Outcome:            structuredField(structured, "outcome", "call_outcome"),
		FollowUpNeeded:     structuredBool(structured, "follow_up_needed", "followUpNeeded"),
		Raw:                structured,
	}
	if err := c.calls.UpsertStructuredData(ctx, data); err != nil {
		logger.Base().Error("failed to persist structured call data",
			zap.String("call_id", call.ID), zap.Error(err))
	}

	c.updateContact(ctx, phone, call, data)
	return Ack()
}

// updateContact folds the structured analysis into the caller's rolling
// aggregate. Concurrent updates for the same phone are acceptably racy:
// last writer wins per field, and coalesce only guarantees that absence
// never erases knowledge.
func (c *Controller) updateContact(ctx context.Context, phone string, call *domain.Call, data *domain.StructuredCallData) {
	if phone == "" {
		return
	}

	lastTopic := data.Intent
	if lastTopic == "" {
		lastTopic = call.Summary
	}

	patch := domain.ContactPatch{
		Name:      optional(data.CallerName),
		Company:   optional(data.CallerCompany),
		LastTopic: optional(lastTopic),
	}

	callAt := c.Now()
	if call.EndedAt != nil {
		callAt = *call.EndedAt
	}

	if _, err := c.contacts.Upsert(ctx, phone, patch, callAt); err != nil {
		logger.Base().Error("failed to update contact aggregate",
			zap.String("phone", phone), zap.Error(err))
	}
}

// logObservational surfaces failure artifacts embedded in observational
// updates. The messages themselves never block processing.
func (c *Controller) logObservational(msg *WebhookMessage) {
	lowered := strings.ToLower(msg.Status + " " + msg.EndedReason)
	if strings.Contains(lowered, "error") || strings.Contains(lowered, "failed") {
		logger.Base().Warn("observational update carries failure artifact",
			zap.String("type", msg.Type),
			zap.String("status", msg.Status),
			zap.String("ended_reason", msg.EndedReason))
		return
	}
	logger.Base().Debug("observational update",
		zap.String("type", msg.Type), zap.String("status", msg.Status))
}

// extractStructuredData returns the usable structured-analysis result, or
// nil when it is absent or is the analyzer reporting its own failure.
func extractStructuredData(analysis *AnalysisPayload) domain.JSONB {
	if analysis == nil || len(analysis.StructuredData) == 0 {
		return nil
	}
	if _, isErr := analysis.StructuredData["error"]; isErr {
		return nil
	}
	return analysis.StructuredData
}

var scoreFractionRe = regexp.MustCompile(`(\d{1,2})\s*/\s*10`)
var scoreLeadingRe = regexp.MustCompile(`^\s*(\d{1,2})\b`)

// parseSuccessScore pulls a 1–10 score out of free text such as "8/10" or
// "7 - caller got what they needed". Absence or junk yields nil, never a
// fabricated score.
func parseSuccessScore(evaluation string) *int {
	if evaluation == "" {
		return nil
	}

	var candidate string
	if m := scoreFractionRe.FindStringSubmatch(evaluation); m != nil {
		candidate = m[1]
	} else if m := scoreLeadingRe.FindStringSubmatch(evaluation); m != nil {
		candidate = m[1]
	} else {
		return nil
	}

	score, err := strconv.Atoi(candidate)
	if err != nil || score < 1 || score > 10 {
		return nil
	}
	return &score
}

func phoneLineID(msg *WebhookMessage) string {
	if msg.PhoneNumber != nil && msg.PhoneNumber.ID != "" {
		return msg.PhoneNumber.ID
	}
	if msg.Call != nil {
		return msg.Call.PhoneNumberID
	}
	return ""
}

func callerPhone(msg *WebhookMessage) string {
	if msg.Call != nil && msg.Call.Customer != nil {
		return msg.Call.Customer.Number
	}
	return ""
}

func structuredField(m domain.JSONB, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func structuredBool(m domain.JSONB, keys ...string) bool {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
