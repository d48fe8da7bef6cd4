package prompts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/summitrentals/voice-service/internal/domain"
	"github.com/summitrentals/voice-service/internal/hours"
	"github.com/summitrentals/voice-service/internal/repository"
	"github.com/summitrentals/voice-service/pkg/logger"
	"go.uber.org/zap"
)

// CallContext is the per-call conversational configuration the assembler
// produces: template variables for the assistant override, the opening line,
// and the after-hours flag the session layer keys tool availability on.
type CallContext struct {
	Variables    map[string]string
	FirstMessage string
	AfterHours   bool
}

// Assembler builds the per-call context from the caller directory and the
// business calendar. It never fabricates a value: anything it cannot derive
// from those two inputs renders as an explicit unknown marker, because the
// output feeds a generative model verbatim.
type Assembler struct {
	contacts repository.ContactRepository
	calendar *hours.Calendar

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

// NewAssembler creates a context assembler.
func NewAssembler(contacts repository.ContactRepository, calendar *hours.Calendar) *Assembler {
	return &Assembler{
		contacts: contacts,
		calendar: calendar,
		Now:      time.Now,
	}
}

// BuildContext assembles the conversational context for one inbound call.
// A caller-directory failure degrades to new-caller treatment rather than
// failing the webhook; losing personalization beats dropping the call.
func (a *Assembler) BuildContext(ctx context.Context, callerPhone string, client *domain.Client) *CallContext {
	var contact *domain.Contact
	if callerPhone != "" {
		c, err := a.contacts.GetByPhone(ctx, callerPhone)
		switch {
		case err == nil:
			contact = c
		case errors.Is(err, domain.ErrNotFound):
			// genuinely new caller
		default:
			logger.Base().Warn("caller directory lookup failed, treating as new caller",
				zap.String("phone", callerPhone), zap.Error(err))
		}
	}

	snap := a.calendar.At(a.Now())

	callerBlock := buildCallerBlock(contact, callerPhone)
	hoursBlock := buildHoursBlock(snap)

	vars := map[string]string{
		"businessName":    client.BusinessName,
		"callerPhone":     orUnknown(callerPhone),
		"callerName":      contactField(contact, func(c *domain.Contact) string { return c.Name }),
		"callerContext":   callerBlock,
		"businessHours":   hoursBlock,
		"currentTime":     snap.CurrentTime,
		"isOpen":          fmt.Sprintf("%t", snap.IsOpen),
		"tomorrowDate":    snap.TomorrowDate,
		"nextBusinessDay": snap.NextBusinessDay,
		"nextMonday":      snap.NextMonday,
		"nextTuesday":     snap.NextTuesday,
	}

	return &CallContext{
		Variables:    vars,
		FirstMessage: buildFirstMessage(client.BusinessName, contact, snap),
		AfterHours:   !snap.IsOpen,
	}
}

// Instructions renders the full per-call instruction text from the assembled
// variables, joined the same way regardless of caller or hour so the
// assistant always sees the same section layout.
func (c *CallContext) Instructions() string {
	policy := PromptOpenHours
	if c.AfterHours {
		policy = PromptAfterHours
	}

	return joinBlocks(
		fmt.Sprintf("You are the phone assistant for %s, an equipment rental company.", c.Variables["businessName"]),
		"CALLER CONTEXT:\n"+c.Variables["callerContext"],
		"BUSINESS HOURS:\n"+c.Variables["businessHours"],
		policy,
		PromptConversationRules,
	)
}

func buildCallerBlock(contact *domain.Contact, phone string) string {
	if contact == nil {
		return joinBlocks(
			NewCallerMarker,
			fmt.Sprintf("Caller phone: %s", orUnknown(phone)),
		)
	}

	lines := []string{
		"Returning caller:",
		fmt.Sprintf("Name: %s", orUnknown(contact.Name)),
		fmt.Sprintf("Company: %s", orUnknown(contact.Company)),
		fmt.Sprintf("Status: %s", orUnknown(contact.Status)),
		fmt.Sprintf("Last discussed: %s", orUnknown(contact.LastTopic)),
		fmt.Sprintf("Previous calls: %d", contact.CallCount),
		fmt.Sprintf("Phone: %s", orUnknown(phone)),
	}
	return strings.Join(lines, "\n")
}

func buildHoursBlock(snap hours.Snapshot) string {
	state := "OPEN"
	if !snap.IsOpen {
		state = "CLOSED"
	}

	lines := []string{
		fmt.Sprintf("The office is currently %s.", state),
		fmt.Sprintf("Current local time: %s", snap.CurrentTime),
		fmt.Sprintf("Posted hours: %s", snap.Schedule),
	}
	if !snap.IsOpen && snap.NextOpen != "" {
		lines = append(lines, fmt.Sprintf("We reopen %s.", snap.NextOpen))
	}

	lines = append(lines, "", "DATE REFERENCES (quote verbatim):")
	if snap.TomorrowDate != "" {
		lines = append(lines, fmt.Sprintf("Tomorrow: %s", snap.TomorrowDate))
	}
	lines = append(lines,
		fmt.Sprintf("Next business day: %s", snap.NextBusinessDay),
		fmt.Sprintf("Next Monday: %s", snap.NextMonday),
		fmt.Sprintf("Next Tuesday: %s", snap.NextTuesday),
	)
	return strings.Join(lines, "\n")
}

func buildFirstMessage(businessName string, contact *domain.Contact, snap hours.Snapshot) string {
	if !snap.IsOpen {
		msg := fmt.Sprintf("Thank you for calling %s. Our office is currently closed", businessName)
		if snap.NextOpen != "" {
			msg += fmt.Sprintf(" and we reopen %s", snap.NextOpen)
		}
		return msg + ". I can still check equipment availability or schedule a callback for you. How can I help?"
	}

	if contact != nil && contact.Name != "" {
		return fmt.Sprintf("Thank you for calling %s! Hi %s, good to hear from you again. How can I help you today?",
			businessName, contact.Name)
	}
	return fmt.Sprintf("Thank you for calling %s! How can I help you today?", businessName)
}

func contactField(contact *domain.Contact, get func(*domain.Contact) string) string {
	if contact == nil {
		return UnknownValue
	}
	return orUnknown(get(contact))
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return UnknownValue
	}
	return s
}

// joinBlocks joins non-empty text blocks with blank lines.
func joinBlocks(blocks ...string) string {
	var kept []string
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}
