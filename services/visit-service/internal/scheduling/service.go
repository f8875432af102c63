package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/events"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/model"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/orderindex"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/store"
)

const defaultIssueDescription = "New SunnyFiber Gigabit internet service installation and modem setup."

const flagAcknowledgement = "Thank you for flagging this. One of our technicians will review your issue and get back to you."

// Service owns the slot pool, the appointment ledger and the flag log. A single
// mutex serializes every operation across both collections, so a reschedule is
// observed either entirely or not at all.
type Service struct {
	mu     sync.Mutex
	slots  *store.SlotPool
	ledger *store.AppointmentLedger
	flags  *store.FlagLog
	orders orderindex.Provider
	events *events.Publisher
	logger *slog.Logger
}

func NewService(slots *store.SlotPool, ledger *store.AppointmentLedger, flags *store.FlagLog, orders orderindex.Provider, publisher *events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		slots:  slots,
		ledger: ledger,
		flags:  flags,
		orders: orders,
		events: publisher,
		logger: logger,
	}
}

// VisitDetails returns the appointment for the visit id. Reading never mutates
// state, so repeated calls return the same result.
func (s *Service) VisitDetails(ctx context.Context, visitID string) (model.Appointment, error) {
	if err := requireIdentifiers(map[string]string{"visitId": visitID}); err != nil {
		return model.Appointment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visitByID(visitID)
}

func (s *Service) visitByID(visitID string) (model.Appointment, error) {
	appt, ok := s.ledger.ByVisitID(visitID)
	if !ok {
		return model.Appointment{}, &AppointmentNotFoundError{VisitID: visitID}
	}
	return appt, nil
}

// FindSlots lists open slots whose start date falls within the search window.
// An empty result is a normal outcome, not an error.
func (s *Service) FindSlots(ctx context.Context, p FindSlotsParams) ([]model.Slot, error) {
	start, days, err := p.validate()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots.FindAvailable(start, days, p.PostalCode), nil
}

// ScheduleNewVisit books a slot for an order. The order must exist and belong
// to the account, the order must not already have an active appointment, and
// the slot must still be in the pool. Nothing is mutated until every check has
// passed.
func (s *Service) ScheduleNewVisit(ctx context.Context, p ScheduleParams) (model.Appointment, error) {
	if err := p.validate(); err != nil {
		return model.Appointment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.orders.AccountExists(ctx, p.AccountID)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("order index lookup: %w", err)
	}
	if !exists {
		return model.Appointment{}, &ValidationError{Message: fmt.Sprintf("Account ID %s does not exist in the system.", p.AccountID)}
	}

	order, ok, err := s.orders.Order(ctx, p.OrderID)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("order index lookup: %w", err)
	}
	if !ok {
		return model.Appointment{}, &ValidationError{Message: fmt.Sprintf("Order ID %s does not exist in the system.", p.OrderID)}
	}
	if order.AccountID != p.AccountID {
		return model.Appointment{}, &ValidationError{Message: fmt.Sprintf("Order ID %s does not belong to Account ID %s.", p.OrderID, p.AccountID)}
	}

	if _, occupied := s.ledger.ActiveByOrder(p.OrderID); occupied {
		return model.Appointment{}, &DuplicateAppointmentError{OrderID: p.OrderID}
	}

	slot, ok := s.slots.Reserve(p.SlotID)
	if !ok {
		return model.Appointment{}, &TechnicianVisitNotFoundError{SlotID: p.SlotID}
	}

	description := defaultIssueDescription
	if p.IssueDescription != nil {
		description = *p.IssueDescription
	}

	visitID := "VISIT-" + uuid.NewString()
	s.ledger.Insert(model.Appointment{
		VisitID:            visitID,
		SlotID:             slot.SlotID,
		AccountID:          p.AccountID,
		OrderID:            p.OrderID,
		Status:             model.StatusScheduled,
		ScheduledStartTime: slot.StartTime,
		ScheduledEndTime:   slot.EndTime,
		TechnicianNotes:    nil,
		IssueDescription:   &description,
	})

	s.logger.Info("visit scheduled", "visit_id", visitID, "order_id", p.OrderID, "slot_id", slot.SlotID)
	s.events.Publish(ctx, events.TopicVisitScheduled, p.OrderID, visitEvent{
		VisitID:   visitID,
		AccountID: p.AccountID,
		OrderID:   p.OrderID,
		SlotID:    slot.SlotID,
		StartTime: slot.StartTime.Format(time.RFC3339),
		EndTime:   slot.EndTime.Format(time.RFC3339),
	})

	return s.visitByID(visitID)
}

// RescheduleVisit moves an existing visit onto a new slot. The freed time range
// goes back into the pool and the replacement appointment takes the id
// "rescheduled_" + the original visit id, so the total slot count is unchanged.
func (s *Service) RescheduleVisit(ctx context.Context, p RescheduleParams) (model.Appointment, error) {
	if err := p.validate(); err != nil {
		return model.Appointment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ledger.HasAccount(p.AccountID) {
		return model.Appointment{}, &ValidationError{Message: fmt.Sprintf("Account ID %s does not exist in the system.", p.AccountID)}
	}

	original, ok := s.ledger.ByVisitID(p.OriginalVisitID)
	if !ok {
		return model.Appointment{}, &VisitNotFoundError{VisitID: p.OriginalVisitID}
	}
	if original.AccountID != p.AccountID {
		return model.Appointment{}, &ValidationError{Message: fmt.Sprintf("The appointment with visitId %s does not belong to account %s.", p.OriginalVisitID, p.AccountID)}
	}
	if original.Status == model.StatusCompleted {
		return model.Appointment{}, &ValidationError{Message: "Completed appointments cannot be rescheduled."}
	}

	newSlot, ok := s.slots.Reserve(p.NewSlotID)
	if !ok {
		return model.Appointment{}, &SlotNotFoundError{SlotID: p.NewSlotID}
	}

	// The original time range is free again; postal code is recovered from the
	// slot id when the old inventory encoded it there.
	s.slots.Release(model.Slot{
		SlotID:         original.SlotID,
		StartTime:      original.ScheduledStartTime,
		EndTime:        original.ScheduledEndTime,
		TechnicianType: model.DefaultTechnicianType,
	})

	newVisitID := "rescheduled_" + original.VisitID
	s.ledger.Replace(original.VisitID, model.Appointment{
		VisitID:            newVisitID,
		SlotID:             newSlot.SlotID,
		AccountID:          p.AccountID,
		OrderID:            p.OrderID,
		Status:             model.StatusScheduled,
		ScheduledStartTime: newSlot.StartTime,
		ScheduledEndTime:   newSlot.EndTime,
		TechnicianNotes:    p.ReasonForChange,
		IssueDescription:   original.IssueDescription,
	})

	s.logger.Info("visit rescheduled", "visit_id", newVisitID, "original_visit_id", original.VisitID, "slot_id", newSlot.SlotID)
	s.events.Publish(ctx, events.TopicVisitRescheduled, p.OrderID, visitEvent{
		VisitID:   newVisitID,
		AccountID: p.AccountID,
		OrderID:   p.OrderID,
		SlotID:    newSlot.SlotID,
		StartTime: newSlot.StartTime.Format(time.RFC3339),
		EndTime:   newSlot.EndTime.Format(time.RFC3339),
	})

	return s.visitByID(newVisitID)
}

// FlagVisitIssue records a problem report against a visit matched on the exact
// account/order/visit triple and appends the report to the technician notes.
func (s *Service) FlagVisitIssue(ctx context.Context, p FlagIssueParams) (model.IssueFlag, error) {
	if err := p.validate(); err != nil {
		return model.IssueFlag{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ledger.ByAccountOrderVisit(p.AccountID, p.OrderID, p.VisitID); !ok {
		return model.IssueFlag{}, &VisitNotFoundError{
			VisitID:   p.VisitID,
			AccountID: p.AccountID,
			OrderID:   p.OrderID,
		}
	}

	s.ledger.AppendNote(p.VisitID, p.IssueSummary+" "+p.RequestedFollowUpAction)

	flag := model.IssueFlag{
		FlagID:  "FLAG-" + uuid.NewString(),
		Message: flagAcknowledgement,
		Status:  "Logged for review",
	}
	s.flags.Append(flag)

	s.logger.Info("visit issue flagged", "flag_id", flag.FlagID, "visit_id", p.VisitID, "customer_reported", p.CustomerReportedFailure)
	s.events.Publish(ctx, events.TopicVisitIssueFlagged, p.VisitID, flagEvent{
		FlagID:                  flag.FlagID,
		VisitID:                 p.VisitID,
		AccountID:               p.AccountID,
		OrderID:                 p.OrderID,
		IssueSummary:            p.IssueSummary,
		RequestedFollowUpAction: p.RequestedFollowUpAction,
		CustomerReportedFailure: p.CustomerReportedFailure,
	})

	return flag, nil
}

// AddSlots bulk-inserts provisioned inventory, used by the admin endpoint.
func (s *Service) AddSlots(slots []model.Slot) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range slots {
		s.slots.Insert(slot)
	}
	return s.slots.Len()
}

type visitEvent struct {
	VisitID   string `json:"visit_id"`
	AccountID string `json:"account_id"`
	OrderID   string `json:"order_id"`
	SlotID    string `json:"slot_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type flagEvent struct {
	FlagID                  string `json:"flag_id"`
	VisitID                 string `json:"visit_id"`
	AccountID               string `json:"account_id"`
	OrderID                 string `json:"order_id"`
	IssueSummary            string `json:"issue_summary"`
	RequestedFollowUpAction string `json:"requested_follow_up_action"`
	CustomerReportedFailure bool   `json:"customer_reported_failure"`
}
