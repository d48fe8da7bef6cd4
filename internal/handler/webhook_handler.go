package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/summitrentals/voice-service/internal/domain"
	"github.com/summitrentals/voice-service/internal/session"
	"github.com/summitrentals/voice-service/pkg/logger"
	"go.uber.org/zap"
)

// WebhookHandler exposes the two runtime-facing endpoints: the lifecycle
// webhook and the tool-execution endpoint.
type WebhookHandler struct {
	controller *session.Controller
}

// NewWebhookHandler creates a webhook handler.
func NewWebhookHandler(controller *session.Controller) *WebhookHandler {
	return &WebhookHandler{controller: controller}
}

// HandleWebhook is the single lifecycle webhook POST. It answers 200 with a
// small body for everything except fatal configuration errors, which get a
// non-200 with a machine-readable message so the runtime surfaces them
// instead of retrying forever.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var envelope session.WebhookEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		writeJSON(w, http.StatusBadRequest, session.ErrorResponse{Error: "invalid webhook body"})
		return
	}

	body, err := h.controller.HandleWebhook(r.Context(), &envelope.Message)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrAgentNotProvisioned) {
			status = http.StatusUnprocessableEntity
		}
		logger.Base().Error("webhook failed",
			zap.String("type", envelope.Message.Type), zap.Error(err))
		writeJSON(w, status, session.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, body)
}

// HandleToolCalls is the tool-execution POST. Tool failures are carried
// inside the 200 response body as error results; the assistant needs to hear
// about them, not the runtime's retry logic.
func (h *WebhookHandler) HandleToolCalls(w http.ResponseWriter, r *http.Request) {
	var envelope session.WebhookEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		writeJSON(w, http.StatusBadRequest, session.ErrorResponse{Error: "invalid tool call body"})
		return
	}

	body := h.controller.HandleToolCalls(r.Context(), &envelope.Message)
	writeJSON(w, http.StatusOK, body)
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Base().Error("failed to encode response", zap.Error(err))
	}
}
