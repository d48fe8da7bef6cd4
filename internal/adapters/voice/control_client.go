package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/summitrentals/voice-service/pkg/logger"
	"go.uber.org/zap"
)

// ControlClient issues live-call-control commands against the per-call
// control URL the voice runtime hands out with each call. The control URL is
// the only handle we ever hold on an in-progress call.
type ControlClient struct {
	httpClient *http.Client
}

// NewControlClient creates a live-call-control client.
func NewControlClient() *ControlClient {
	return &ControlClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// transferPayload is the control-channel command for a warm transfer.
type transferPayload struct {
	Type        string              `json:"type"`
	Destination transferDestination `json:"destination"`
	Content     string              `json:"content,omitempty"`
}

type transferDestination struct {
	Type    string `json:"type"`
	Number  string `json:"number"`
	Message string `json:"message,omitempty"`
}

// Transfer asks the runtime to transfer the live call to destinationNumber.
// callerMessage is spoken to the caller before the handoff; handoffBrief is
// announced to the human picking up. Any failure is returned loudly — a
// silently failed transfer strands a live caller.
func (c *ControlClient) Transfer(ctx context.Context, controlURL, destinationNumber, handoffBrief, callerMessage string) error {
	if controlURL == "" {
		return fmt.Errorf("transfer requested without control URL")
	}

	payload := transferPayload{
		Type: "transfer",
		Destination: transferDestination{
			Type:    "number",
			Number:  destinationNumber,
			Message: handoffBrief,
		},
		Content: callerMessage,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode transfer payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, controlURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("transfer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		logger.Base().Error("live-call-control transfer rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("destination", destinationNumber),
			zap.ByteString("body", respBody))
		return fmt.Errorf("transfer rejected by control channel: status %d", resp.StatusCode)
	}

	logger.Base().Info("call transfer issued",
		zap.String("destination", destinationNumber))
	return nil
}
