package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/summitrentals/voice-service/internal/domain"
	"github.com/summitrentals/voice-service/internal/repository"
	"github.com/summitrentals/voice-service/pkg/logger"
	"go.uber.org/zap"
)

// SMSSender sends the optional confirmation text after a callback is booked.
type SMSSender interface {
	Enabled() bool
	Send(to, body string) error
}

// CallbackApology is spoken when no client can be resolved for the callback.
// Mid-call silence is worse than an imperfect reply, so this degrades
// instead of raising.
const CallbackApology = "I'm sorry, I wasn't able to schedule that callback right now. Please call us back during business hours and we'll take care of you."

// CallbackTool persists a callback request and confirms it out loud.
type CallbackTool struct {
	callbacks repository.CallbackRepository
	clients   repository.ClientRepository
	sender    SMSSender
}

// NewCallbackTool creates the schedule_callback tool.
func NewCallbackTool(callbacks repository.CallbackRepository, clients repository.ClientRepository, sender SMSSender) *CallbackTool {
	return &CallbackTool{callbacks: callbacks, clients: clients, sender: sender}
}

// Definition returns the registry entry for schedule_callback (sync).
func (t *CallbackTool) Definition() *Definition {
	return &Definition{
		Name:    ToolNameScheduleCallback,
		Async:   false,
		Handler: t.Execute,
	}
}

// Execute persists a pending CallbackRequest and returns the spoken
// confirmation. The preferred time is stored exactly as the caller confirmed
// it; the row is the promise.
func (t *CallbackTool) Execute(ctx context.Context, args map[string]interface{}, info *CallInfo) (string, error) {
	name := strings.TrimSpace(stringArg(args, "name"))
	phone := strings.TrimSpace(stringArg(args, "phone"))
	preferredTime := strings.TrimSpace(stringArg(args, "preferred_time"))
	reason := strings.TrimSpace(stringArg(args, "reason"))
	department := strings.ToLower(strings.TrimSpace(stringArg(args, "department")))

	if phone == "" {
		phone = info.CallerPhone
	}
	if department == "" {
		department = "rentals"
	}
	if preferredTime == "" {
		return "What day and time works best for the callback?", nil
	}

	client := info.Client
	if client == nil {
		var err error
		client, err = t.clients.GetDefault(ctx)
		if err != nil {
			logger.Base().Error("no client resolvable for callback", zap.Error(err))
			return CallbackApology, nil
		}
	}

	req := &domain.CallbackRequest{
		ID:            uuid.NewString(),
		ClientID:      client.ID,
		CallID:        info.CallID,
		CallerName:    name,
		CallerPhone:   phone,
		PreferredTime: preferredTime,
		Reason:        reason,
		Department:    department,
		Status:        domain.CallbackStatusPending,
	}

	if err := t.callbacks.Create(ctx, req); err != nil {
		return "", fmt.Errorf("failed to save callback request: %w", err)
	}

	t.sendConfirmation(client, req)

	if name != "" {
		return fmt.Sprintf("You're all set, %s. Someone from our %s team will call you back at %s on %s.",
			name, department, phone, preferredTime), nil
	}
	return fmt.Sprintf("You're all set. Someone from our %s team will call you back at %s on %s.",
		department, phone, preferredTime), nil
}

// sendConfirmation fires the optional SMS confirmation. Best effort only;
// the callback row already exists and the spoken confirmation stands.
func (t *CallbackTool) sendConfirmation(client *domain.Client, req *domain.CallbackRequest) {
	if t.sender == nil || !t.sender.Enabled() || !client.FeatureEnabled(domain.FeatureSMSConfirmations) {
		return
	}

	body := fmt.Sprintf("%s: your callback is booked for %s. Reply to this number if anything changes.",
		client.BusinessName, req.PreferredTime)
	if err := t.sender.Send(req.CallerPhone, body); err != nil {
		logger.Base().Warn("callback confirmation SMS failed",
			zap.String("callback_id", req.ID), zap.Error(err))
	}
}

// NewStandardRegistry builds the production tool table: inventory lookup,
// department transfer and callback scheduling.
func NewStandardRegistry(
	equipment repository.EquipmentRepository,
	contacts repository.ContactRepository,
	callbacks repository.CallbackRepository,
	clients repository.ClientRepository,
	controller CallController,
	sender SMSSender,
) *Registry {
	r := NewRegistry()
	r.Register(NewInventoryTool(equipment).Definition())
	r.Register(NewTransferTool(contacts, controller).Definition())
	r.Register(NewCallbackTool(callbacks, clients, sender).Definition())
	return r
}
