package sms

import (
	"fmt"

	"github.com/summitrentals/voice-service/pkg/logger"
	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Service sends SMS confirmations through Twilio. If credentials are not
// configured the service is created disabled and every send becomes a no-op,
// so callers never have to branch on configuration.
type Service struct {
	client     *twilio.RestClient
	fromNumber string
	enabled    bool
}

// NewService creates an SMS service. Empty credentials disable it.
func NewService(accountSID, authToken, fromNumber string) *Service {
	if accountSID == "" || authToken == "" || fromNumber == "" {
		logger.Base().Warn("Twilio credentials not provided, SMS confirmations disabled")
		return &Service{enabled: false}
	}

	return &Service{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		fromNumber: fromNumber,
		enabled:    true,
	}
}

// Enabled reports whether the service can actually send.
func (s *Service) Enabled() bool {
	return s.enabled
}

// Send delivers one SMS to the given number.
func (s *Service) Send(to, body string) error {
	if !s.enabled {
		return nil
	}

	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	logger.Base().Info("SMS confirmation sent", zap.String("to", to))
	return nil
}
