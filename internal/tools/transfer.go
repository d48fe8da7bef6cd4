package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/summitrentals/voice-service/internal/domain"
	"github.com/summitrentals/voice-service/internal/repository"
	"github.com/summitrentals/voice-service/pkg/logger"
	"go.uber.org/zap"
)

// CallController is the live-call-control channel a transfer is issued on.
type CallController interface {
	Transfer(ctx context.Context, controlURL, destinationNumber, handoffBrief, callerMessage string) error
}

// TransferTool hands the live call to a human department. It is async: by
// the time we run, the runtime has already replied to the assistant, so all
// we owe the caller is that the transfer either happens or fails LOUDLY —
// a swallowed error here strands a live caller in silence.
type TransferTool struct {
	contacts   repository.ContactRepository
	controller CallController
}

// NewTransferTool creates the transfer_call tool.
func NewTransferTool(contacts repository.ContactRepository, controller CallController) *TransferTool {
	return &TransferTool{contacts: contacts, controller: controller}
}

// Definition returns the registry entry for transfer_call (async).
func (t *TransferTool) Definition() *Definition {
	return &Definition{
		Name:    ToolNameTransferCall,
		Async:   true,
		Handler: t.Execute,
	}
}

// Execute resolves the department number and issues the transfer.
func (t *TransferTool) Execute(ctx context.Context, args map[string]interface{}, info *CallInfo) (string, error) {
	department := strings.ToLower(strings.TrimSpace(stringArg(args, "department")))
	reason := strings.TrimSpace(stringArg(args, "reason"))

	if info.ControlURL == "" {
		return "", domain.ErrNoControlHandle
	}
	if info.Client == nil {
		return "", fmt.Errorf("transfer requested with no resolved client")
	}

	number, ok := info.Client.DepartmentNumber(department)
	if !ok {
		return "", fmt.Errorf("no transfer number configured for department %q", department)
	}

	brief := t.buildHandoffBrief(ctx, info, department, reason)
	callerMessage := fmt.Sprintf("Transferring you to our %s team now, one moment please.", department)

	if err := t.controller.Transfer(ctx, info.ControlURL, number, brief, callerMessage); err != nil {
		return "", fmt.Errorf("transfer to %s failed: %w", department, err)
	}

	return "", nil
}

// buildHandoffBrief assembles what is announced to the human picking up.
// A directory failure degrades to a generic brief; it never blocks the
// transfer itself.
func (t *TransferTool) buildHandoffBrief(ctx context.Context, info *CallInfo, department, reason string) string {
	brief := fmt.Sprintf("Incoming transfer to %s.", department)
	if reason != "" {
		brief += " Reason: " + reason + "."
	}

	if info.CallerPhone == "" {
		return brief
	}

	contact, err := t.contacts.GetByPhone(ctx, info.CallerPhone)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Base().Warn("handoff brief lookup failed",
				zap.String("phone", info.CallerPhone), zap.Error(err))
		}
		return brief + fmt.Sprintf(" Caller: %s, no history on file.", info.CallerPhone)
	}

	detail := fmt.Sprintf(" Caller: %s", info.CallerPhone)
	if contact.Name != "" {
		detail = fmt.Sprintf(" Caller: %s (%s)", contact.Name, info.CallerPhone)
	}
	if contact.Company != "" {
		detail += " from " + contact.Company
	}
	if contact.CallCount > 0 {
		detail += fmt.Sprintf(", %d prior calls", contact.CallCount)
	}
	return brief + detail + "."
}
