package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sunnyfiber/visitops/services/visit-service/internal/activation"
)

type ActivationHandler struct {
	svc    *activation.Service
	logger *slog.Logger
}

func NewActivationHandler(svc *activation.Service, logger *slog.Logger) *ActivationHandler {
	return &ActivationHandler{svc: svc, logger: logger}
}

type triggerActivationRequest struct {
	OrderID           string  `json:"orderId"`
	ServiceIdentifier string  `json:"serviceIdentifier"`
	ServiceType       string  `json:"serviceType"`
	AccountID         *string `json:"accountId"`
}

type activationAttemptResponse struct {
	ActivationAttemptID string  `json:"activationAttemptId"`
	Message             string  `json:"message"`
	Status              string  `json:"status"`
	Timestamp           string  `json:"timestamp"`
	ErrorCode           *string `json:"errorCode"`
}

func (h *ActivationHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req triggerActivationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	attempt, err := h.svc.Trigger(r.Context(),
		strings.TrimSpace(req.OrderID),
		strings.TrimSpace(req.ServiceIdentifier),
		strings.TrimSpace(req.ServiceType),
		req.AccountID,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttemptResponse(attempt))
}

func (h *ActivationHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	identifier := strings.TrimSpace(r.URL.Query().Get("id"))
	attempt, err := h.svc.Status(r.Context(), identifier)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttemptResponse(attempt))
}

func (h *ActivationHandler) writeError(w http.ResponseWriter, err error) {
	switch err.(type) {
	case *activation.ValidationError, *activation.InvalidServiceTypeError:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case *activation.AttemptNotFoundError:
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error("activation operation failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAttemptResponse(a activation.Attempt) activationAttemptResponse {
	return activationAttemptResponse{
		ActivationAttemptID: a.ActivationAttemptID,
		Message:             a.Message,
		Status:              a.Status,
		Timestamp:           a.Timestamp,
		ErrorCode:           a.ErrorCode,
	}
}
