package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sunnyfiber/visitops/services/visit-service/internal/model"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/scheduling"
)

// VisitHandler exposes the scheduling operations over JSON. Field names follow
// the agent-facing contract (camelCase), and optional fields serialize as
// explicit nulls.
type VisitHandler struct {
	svc    *scheduling.Service
	logger *slog.Logger
}

func NewVisitHandler(svc *scheduling.Service, logger *slog.Logger) *VisitHandler {
	return &VisitHandler{svc: svc, logger: logger}
}

type visitResponse struct {
	VisitID            string  `json:"visitId"`
	AccountID          string  `json:"accountId"`
	OrderID            string  `json:"orderId"`
	Status             string  `json:"status"`
	ScheduledStartTime string  `json:"scheduledStartTime"`
	ScheduledEndTime   string  `json:"scheduledEndTime"`
	TechnicianNotes    *string `json:"technicianNotes"`
	IssueDescription   *string `json:"issueDescription"`
}

type slotItem struct {
	SlotID         string `json:"slotId"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	TechnicianType string `json:"technicianType"`
	PostalCode     string `json:"postalCode,omitempty"`
}

type slotListResponse struct {
	Output []slotItem `json:"output"`
}

type scheduleVisitRequest struct {
	AccountID        string  `json:"accountId"`
	OrderID          string  `json:"orderId"`
	SlotID           string  `json:"slotId"`
	IssueDescription *string `json:"issueDescription"`
}

type rescheduleVisitRequest struct {
	AccountID       string  `json:"accountId"`
	NewSlotID       string  `json:"newSlotId"`
	OrderID         string  `json:"orderId"`
	OriginalVisitID string  `json:"originalVisitId"`
	ReasonForChange *string `json:"reasonForChange"`
}

type flagIssueRequest struct {
	AccountID               string `json:"accountId"`
	OrderID                 string `json:"orderId"`
	VisitID                 string `json:"visitId"`
	IssueSummary            string `json:"issueSummary"`
	RequestedFollowUpAction string `json:"requestedFollowUpAction"`
	CustomerReportedFailure bool   `json:"customerReportedFailure"`
}

type flagIssueResponse struct {
	FlagID  string `json:"flagId"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (h *VisitHandler) Details(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	visitID := strings.TrimSpace(r.URL.Query().Get("visitId"))
	appt, err := h.svc.VisitDetails(r.Context(), visitID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVisitResponse(appt))
}

func (h *VisitHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params := scheduling.FindSlotsParams{
		StartDate:  strings.TrimSpace(r.URL.Query().Get("startDate")),
		PostalCode: strings.TrimSpace(r.URL.Query().Get("postalCode")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("daysToSearch")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "daysToSearch must be an integer", http.StatusBadRequest)
			return
		}
		params.DaysToSearch = &days
	}

	slots, err := h.svc.FindSlots(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := slotListResponse{Output: make([]slotItem, 0, len(slots))}
	for _, s := range slots {
		resp.Output = append(resp.Output, slotItem{
			SlotID:         s.SlotID,
			StartTime:      s.StartTime.Format(time.RFC3339),
			EndTime:        s.EndTime.Format(time.RFC3339),
			TechnicianType: s.TechnicianType,
			PostalCode:     s.PostalCode,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *VisitHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req scheduleVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.ScheduleNewVisit(r.Context(), scheduling.ScheduleParams{
		AccountID:        strings.TrimSpace(req.AccountID),
		OrderID:          strings.TrimSpace(req.OrderID),
		SlotID:           strings.TrimSpace(req.SlotID),
		IssueDescription: req.IssueDescription,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVisitResponse(appt))
}

func (h *VisitHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req rescheduleVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.RescheduleVisit(r.Context(), scheduling.RescheduleParams{
		AccountID:       strings.TrimSpace(req.AccountID),
		NewSlotID:       strings.TrimSpace(req.NewSlotID),
		OrderID:         strings.TrimSpace(req.OrderID),
		OriginalVisitID: strings.TrimSpace(req.OriginalVisitID),
		ReasonForChange: req.ReasonForChange,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVisitResponse(appt))
}

func (h *VisitHandler) FlagIssue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req flagIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	flag, err := h.svc.FlagVisitIssue(r.Context(), scheduling.FlagIssueParams{
		AccountID:               strings.TrimSpace(req.AccountID),
		OrderID:                 strings.TrimSpace(req.OrderID),
		VisitID:                 strings.TrimSpace(req.VisitID),
		IssueSummary:            strings.TrimSpace(req.IssueSummary),
		RequestedFollowUpAction: strings.TrimSpace(req.RequestedFollowUpAction),
		CustomerReportedFailure: req.CustomerReportedFailure,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, flagIssueResponse{
		FlagID:  flag.FlagID,
		Message: flag.Message,
		Status:  flag.Status,
	})
}

func (h *VisitHandler) writeError(w http.ResponseWriter, err error) {
	switch err.(type) {
	case *scheduling.ValidationError:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case *scheduling.AppointmentNotFoundError, *scheduling.VisitNotFoundError,
		*scheduling.SlotNotFoundError, *scheduling.TechnicianVisitNotFoundError:
		http.Error(w, err.Error(), http.StatusNotFound)
	case *scheduling.DuplicateAppointmentError:
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("scheduling operation failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toVisitResponse(a model.Appointment) visitResponse {
	return visitResponse{
		VisitID:            a.VisitID,
		AccountID:          a.AccountID,
		OrderID:            a.OrderID,
		Status:             a.Status,
		ScheduledStartTime: a.ScheduledStartTime.Format(time.RFC3339),
		ScheduledEndTime:   a.ScheduledEndTime.Format(time.RFC3339),
		TechnicianNotes:    a.TechnicianNotes,
		IssueDescription:   a.IssueDescription,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
