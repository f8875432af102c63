package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sunnyfiber/visitops/services/visit-service/internal/model"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/scheduling"
	"golang.org/x/crypto/bcrypt"
)

// AdminHandler provisions slot inventory at runtime. The endpoint is guarded by
// a shared admin token whose bcrypt hash is supplied via configuration; with no
// hash configured the endpoint stays disabled.
type AdminHandler struct {
	svc       *scheduling.Service
	tokenHash []byte
	logger    *slog.Logger
}

func NewAdminHandler(svc *scheduling.Service, tokenHash string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		svc:       svc,
		tokenHash: []byte(strings.TrimSpace(tokenHash)),
		logger:    logger,
	}
}

type addSlotsRequest struct {
	Slots []adminSlotInput `json:"slots"`
}

type adminSlotInput struct {
	SlotID         string `json:"slotId"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	TechnicianType string `json:"technicianType"`
	PostalCode     string `json:"postalCode"`
}

type addSlotsResponse struct {
	Added    int `json:"added"`
	PoolSize int `json:"poolSize"`
}

func (h *AdminHandler) AddSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if len(h.tokenHash) == 0 {
		http.Error(w, "admin endpoints disabled", http.StatusServiceUnavailable)
		return
	}

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		http.Error(w, "missing or invalid Authorization header", http.StatusUnauthorized)
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if err := bcrypt.CompareHashAndPassword(h.tokenHash, []byte(token)); err != nil {
		http.Error(w, "invalid admin token", http.StatusUnauthorized)
		return
	}

	var req addSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if len(req.Slots) == 0 {
		http.Error(w, "slots required", http.StatusBadRequest)
		return
	}

	slots := make([]model.Slot, 0, len(req.Slots))
	for _, in := range req.Slots {
		in.SlotID = strings.TrimSpace(in.SlotID)
		if in.SlotID == "" {
			http.Error(w, "slotId required on every slot", http.StatusBadRequest)
			return
		}
		start, err := time.Parse(time.RFC3339, in.StartTime)
		if err != nil {
			http.Error(w, "invalid startTime for slot "+in.SlotID, http.StatusBadRequest)
			return
		}
		end, err := time.Parse(time.RFC3339, in.EndTime)
		if err != nil {
			http.Error(w, "invalid endTime for slot "+in.SlotID, http.StatusBadRequest)
			return
		}
		if !end.After(start) {
			http.Error(w, "endTime must be after startTime for slot "+in.SlotID, http.StatusBadRequest)
			return
		}
		technicianType := strings.TrimSpace(in.TechnicianType)
		if technicianType == "" {
			technicianType = model.DefaultTechnicianType
		}
		slots = append(slots, model.Slot{
			SlotID:         in.SlotID,
			StartTime:      start,
			EndTime:        end,
			TechnicianType: technicianType,
			PostalCode:     strings.TrimSpace(in.PostalCode),
		})
	}

	total := h.svc.AddSlots(slots)
	h.logger.Info("slots provisioned", "added", len(slots), "pool_size", total)
	writeJSON(w, http.StatusCreated, addSlotsResponse{Added: len(slots), PoolSize: total})
}
