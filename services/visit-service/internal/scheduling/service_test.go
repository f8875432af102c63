package scheduling

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sunnyfiber/visitops/services/visit-service/internal/events"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/model"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/orderindex"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/store"
)

type fixture struct {
	svc    *Service
	pool   *store.SlotPool
	ledger *store.AppointmentLedger
	flags  *store.FlagLog
}

func newFixture(slots []model.Slot, appts []model.Appointment, orders []model.Order) fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pool := store.NewSlotPool(slots)
	ledger := store.NewAppointmentLedger(appts)
	flags := store.NewFlagLog()
	svc := NewService(pool, ledger, flags, orderindex.NewMemoryProvider(orders), events.NewPublisher("", logger), logger)
	return fixture{svc: svc, pool: pool, ledger: ledger, flags: flags}
}

func strptr(s string) *string { return &s }

func slotAt(id string, day int, hour int, postal string) model.Slot {
	start := time.Date(2026, 9, day, hour, 0, 0, 0, time.UTC)
	return model.Slot{
		SlotID:         id,
		StartTime:      start,
		EndTime:        start.Add(2 * time.Hour),
		TechnicianType: "ACTIVATION_INSTALL",
		PostalCode:     postal,
	}
}

var testOrders = []model.Order{
	{OrderID: "ORD-1", AccountID: "ACC-1", ServiceType: "INTERNET", ServiceIdentifier: "AA:BB:CC:11:22:33", ActivationStatus: "PENDING_SELF_ACTIVATION"},
	{OrderID: "ORD-2", AccountID: "ACC-2", ServiceType: "MOBILE", ServiceIdentifier: "8901123456789012345f", ActivationStatus: "PENDING_SELF_ACTIVATION"},
}

func TestScheduleNewVisit(t *testing.T) {
	f := newFixture([]model.Slot{slotAt("SLOT-94105-A", 2, 9, "94105")}, nil, testOrders)

	appt, err := f.svc.ScheduleNewVisit(context.Background(), ScheduleParams{
		AccountID: "ACC-1", OrderID: "ORD-1", SlotID: "SLOT-94105-A",
	})
	if err != nil {
		t.Fatalf("ScheduleNewVisit failed: %v", err)
	}
	if !strings.HasPrefix(appt.VisitID, "VISIT-") {
		t.Errorf("visit id %q missing VISIT- prefix", appt.VisitID)
	}
	if appt.Status != model.StatusScheduled {
		t.Errorf("status = %q, want scheduled", appt.Status)
	}
	if appt.TechnicianNotes != nil {
		t.Errorf("new visit should have nil technician notes, got %q", *appt.TechnicianNotes)
	}
	if appt.IssueDescription == nil || *appt.IssueDescription != "New SunnyFiber Gigabit internet service installation and modem setup." {
		t.Errorf("issue description = %v, want canonical default", appt.IssueDescription)
	}
	want := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	if !appt.ScheduledStartTime.Equal(want) {
		t.Errorf("start time = %v, want %v", appt.ScheduledStartTime, want)
	}
	if f.pool.Len() != 0 {
		t.Errorf("slot not consumed, pool has %d slots", f.pool.Len())
	}
}

func TestScheduleNewVisitIssueDescriptionOverride(t *testing.T) {
	for _, tc := range []struct {
		name string
		desc *string
		want string
	}{
		{"custom text", strptr("Repair drop cable"), "Repair drop cable"},
		{"explicit empty string kept", strptr(""), ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture([]model.Slot{slotAt("SLOT-94105-A", 2, 9, "94105")}, nil, testOrders)
			appt, err := f.svc.ScheduleNewVisit(context.Background(), ScheduleParams{
				AccountID: "ACC-1", OrderID: "ORD-1", SlotID: "SLOT-94105-A", IssueDescription: tc.desc,
			})
			if err != nil {
				t.Fatalf("ScheduleNewVisit failed: %v", err)
			}
			if appt.IssueDescription == nil || *appt.IssueDescription != tc.want {
				t.Errorf("issue description = %v, want %q", appt.IssueDescription, tc.want)
			}
		})
	}
}

func TestScheduleNewVisitOrderedChecks(t *testing.T) {
	slots := []model.Slot{slotAt("SLOT-94105-A", 2, 9, "94105")}

	for _, tc := range []struct {
		name    string
		params  ScheduleParams
		wantMsg string
	}{
		{
			"unknown account",
			ScheduleParams{AccountID: "ACC-404", OrderID: "ORD-1", SlotID: "SLOT-94105-A"},
			"Account ID ACC-404 does not exist in the system.",
		},
		{
			"unknown order",
			ScheduleParams{AccountID: "ACC-1", OrderID: "ORD-404", SlotID: "SLOT-94105-A"},
			"Order ID ORD-404 does not exist in the system.",
		},
		{
			"order belongs to another account",
			ScheduleParams{AccountID: "ACC-1", OrderID: "ORD-2", SlotID: "SLOT-94105-A"},
			"Order ID ORD-2 does not belong to Account ID ACC-1.",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(slots, nil, testOrders)
			_, err := f.svc.ScheduleNewVisit(context.Background(), tc.params)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", ve.Message, tc.wantMsg)
			}
			if f.pool.Len() != 1 || f.ledger.Len() != 0 {
				t.Error("failed validation must leave state untouched")
			}
		})
	}
}

func TestScheduleNewVisitMissingSlot(t *testing.T) {
	f := newFixture(nil, nil, testOrders)
	_, err := f.svc.ScheduleNewVisit(context.Background(), ScheduleParams{
		AccountID: "ACC-1", OrderID: "ORD-1", SlotID: "SLOT-GONE",
	})
	var nfe *TechnicianVisitNotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("err = %v, want TechnicianVisitNotFoundError", err)
	}
	if got, want := err.Error(), "No technician visit found for slotId: SLOT-GONE"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestScheduleNewVisitPerOrderExclusivity(t *testing.T) {
	f := newFixture([]model.Slot{
		slotAt("SLOT-94105-A", 2, 9, "94105"),
		slotAt("SLOT-94105-B", 2, 13, "94105"),
	}, nil, testOrders)

	if _, err := f.svc.ScheduleNewVisit(context.Background(), ScheduleParams{
		AccountID: "ACC-1", OrderID: "ORD-1", SlotID: "SLOT-94105-A",
	}); err != nil {
		t.Fatalf("first schedule failed: %v", err)
	}

	_, err := f.svc.ScheduleNewVisit(context.Background(), ScheduleParams{
		AccountID: "ACC-1", OrderID: "ORD-1", SlotID: "SLOT-94105-B",
	})
	var dup *DuplicateAppointmentError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateAppointmentError", err)
	}
	if got, want := err.Error(), "An appointment for orderId ORD-1 already exists. Please use reschedule_technician_visit to make changes."; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if f.pool.Len() != 1 {
		t.Errorf("second slot must remain available, pool has %d", f.pool.Len())
	}
}

func TestScheduleNewVisitAfterTerminalAppointment(t *testing.T) {
	for _, status := range []string{model.StatusCompleted, model.StatusCancelled} {
		t.Run(status, func(t *testing.T) {
			prior := model.Appointment{
				VisitID: "VISIT-OLD", SlotID: "SLOT-PAST", AccountID: "ACC-1", OrderID: "ORD-1",
				Status:             status,
				ScheduledStartTime: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
				ScheduledEndTime:   time.Date(2026, 8, 20, 11, 0, 0, 0, time.UTC),
			}
			f := newFixture([]model.Slot{slotAt("SLOT-94105-A", 2, 9, "94105")}, []model.Appointment{prior}, testOrders)

			if _, err := f.svc.ScheduleNewVisit(context.Background(), ScheduleParams{
				AccountID: "ACC-1", OrderID: "ORD-1", SlotID: "SLOT-94105-A",
			}); err != nil {
				t.Fatalf("terminal appointment must not block a new one: %v", err)
			}
		})
	}
}

func TestRescheduleVisit(t *testing.T) {
	desc := "Gigabit install"
	original := model.Appointment{
		VisitID: "VISIT-1", SlotID: "SLOT-94105-OLD", AccountID: "ACC-1", OrderID: "ORD-1",
		Status:             model.StatusScheduled,
		ScheduledStartTime: time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
		ScheduledEndTime:   time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC),
		IssueDescription:   &desc,
	}
	f := newFixture([]model.Slot{slotAt("SLOT-94107-NEW", 3, 9, "94107")}, []model.Appointment{original}, testOrders)
	poolBefore := f.pool.Len()

	appt, err := f.svc.RescheduleVisit(context.Background(), RescheduleParams{
		AccountID: "ACC-1", NewSlotID: "SLOT-94107-NEW", OrderID: "ORD-1", OriginalVisitID: "VISIT-1",
		ReasonForChange: strptr("User has a conflicting meeting."),
	})
	if err != nil {
		t.Fatalf("RescheduleVisit failed: %v", err)
	}

	if appt.VisitID != "rescheduled_VISIT-1" {
		t.Errorf("visit id = %q, want rescheduled_VISIT-1", appt.VisitID)
	}
	if appt.TechnicianNotes == nil || *appt.TechnicianNotes != "User has a conflicting meeting." {
		t.Errorf("notes = %v, want the reason for change", appt.TechnicianNotes)
	}
	if appt.IssueDescription == nil || *appt.IssueDescription != desc {
		t.Errorf("issue description = %v, want %q preserved", appt.IssueDescription, desc)
	}
	wantStart := time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)
	if !appt.ScheduledStartTime.Equal(wantStart) {
		t.Errorf("start time = %v, want new slot's %v", appt.ScheduledStartTime, wantStart)
	}

	// Slot conservation: the new slot left the pool and the freed range entered it.
	if f.pool.Len() != poolBefore {
		t.Errorf("pool size changed: %d -> %d", poolBefore, f.pool.Len())
	}
	released, ok := f.pool.Reserve("SLOT-94105-OLD")
	if !ok {
		t.Fatal("freed time range missing from pool")
	}
	if released.TechnicianType != model.DefaultTechnicianType {
		t.Errorf("released slot technician type = %q, want %q", released.TechnicianType, model.DefaultTechnicianType)
	}
	if !released.StartTime.Equal(original.ScheduledStartTime) || !released.EndTime.Equal(original.ScheduledEndTime) {
		t.Error("released slot must carry the original appointment's time range")
	}

	if _, ok := f.ledger.ByVisitID("VISIT-1"); ok {
		t.Error("original visit id still on the ledger")
	}
	if f.ledger.Len() != 1 {
		t.Errorf("ledger len = %d, want 1", f.ledger.Len())
	}
}

func TestRescheduleVisitPreservesEmptyIssueDescription(t *testing.T) {
	original := model.Appointment{
		VisitID: "VISIT-1", SlotID: "SLOT-OLD", AccountID: "ACC-1", OrderID: "ORD-1",
		Status:             model.StatusScheduled,
		ScheduledStartTime: time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
		ScheduledEndTime:   time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC),
		IssueDescription:   strptr(""),
	}
	f := newFixture([]model.Slot{slotAt("SLOT-NEW", 3, 9, "94107")}, []model.Appointment{original}, testOrders)

	appt, err := f.svc.RescheduleVisit(context.Background(), RescheduleParams{
		AccountID: "ACC-1", NewSlotID: "SLOT-NEW", OrderID: "ORD-1", OriginalVisitID: "VISIT-1",
	})
	if err != nil {
		t.Fatalf("RescheduleVisit failed: %v", err)
	}
	if appt.IssueDescription == nil || *appt.IssueDescription != "" {
		t.Errorf("empty issue description must be copied verbatim, got %v", appt.IssueDescription)
	}
	if appt.TechnicianNotes != nil {
		t.Errorf("no reason given, notes must be nil, got %q", *appt.TechnicianNotes)
	}
}

func TestRescheduleVisitFailuresLeaveStateUntouched(t *testing.T) {
	original := model.Appointment{
		VisitID: "VISIT-1", SlotID: "SLOT-OLD", AccountID: "ACC-1", OrderID: "ORD-1",
		Status:             model.StatusScheduled,
		ScheduledStartTime: time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
		ScheduledEndTime:   time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC),
	}
	intruder := model.Appointment{
		VisitID: "VISIT-2", SlotID: "SLOT-OTHER", AccountID: "ACC-2", OrderID: "ORD-2",
		Status:             model.StatusScheduled,
		ScheduledStartTime: time.Date(2026, 9, 2, 13, 0, 0, 0, time.UTC),
		ScheduledEndTime:   time.Date(2026, 9, 2, 15, 0, 0, 0, time.UTC),
	}

	for _, tc := range []struct {
		name    string
		params  RescheduleParams
		wantErr any
		wantMsg string
	}{
		{
			"unknown account",
			RescheduleParams{AccountID: "ACC-404", NewSlotID: "SLOT-NEW", OrderID: "ORD-1", OriginalVisitID: "VISIT-1"},
			&ValidationError{},
			"Account ID ACC-404 does not exist in the system.",
		},
		{
			"unknown visit",
			RescheduleParams{AccountID: "ACC-1", NewSlotID: "SLOT-NEW", OrderID: "ORD-1", OriginalVisitID: "VISIT-404"},
			&VisitNotFoundError{},
			"No appointment found for visitId: VISIT-404",
		},
		{
			"visit owned by another account",
			RescheduleParams{AccountID: "ACC-2", NewSlotID: "SLOT-NEW", OrderID: "ORD-1", OriginalVisitID: "VISIT-1"},
			&ValidationError{},
			"The appointment with visitId VISIT-1 does not belong to account ACC-2.",
		},
		{
			"missing new slot",
			RescheduleParams{AccountID: "ACC-1", NewSlotID: "SLOT-404", OrderID: "ORD-1", OriginalVisitID: "VISIT-1"},
			&SlotNotFoundError{},
			"The slotId: SLOT-404 is not available.",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture([]model.Slot{slotAt("SLOT-NEW", 3, 9, "94107")}, []model.Appointment{original, intruder}, testOrders)

			_, err := f.svc.RescheduleVisit(context.Background(), tc.params)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tc.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tc.wantMsg)
			}
			switch tc.wantErr.(type) {
			case *ValidationError:
				var e *ValidationError
				if !errors.As(err, &e) {
					t.Errorf("err type = %T, want ValidationError", err)
				}
			case *VisitNotFoundError:
				var e *VisitNotFoundError
				if !errors.As(err, &e) {
					t.Errorf("err type = %T, want VisitNotFoundError", err)
				}
			case *SlotNotFoundError:
				var e *SlotNotFoundError
				if !errors.As(err, &e) {
					t.Errorf("err type = %T, want SlotNotFoundError", err)
				}
			}

			if f.pool.Len() != 1 {
				t.Errorf("pool len = %d, want 1 (untouched)", f.pool.Len())
			}
			if got, ok := f.ledger.ByVisitID("VISIT-1"); !ok || got.SlotID != "SLOT-OLD" {
				t.Error("original appointment must be untouched after a failed reschedule")
			}
		})
	}
}

func TestRescheduleCompletedVisit(t *testing.T) {
	original := model.Appointment{
		VisitID: "VISIT-1", SlotID: "SLOT-OLD", AccountID: "ACC-1", OrderID: "ORD-1",
		Status:             model.StatusCompleted,
		ScheduledStartTime: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
		ScheduledEndTime:   time.Date(2026, 8, 20, 11, 0, 0, 0, time.UTC),
	}
	f := newFixture([]model.Slot{slotAt("SLOT-NEW", 3, 9, "94107")}, []model.Appointment{original}, testOrders)

	_, err := f.svc.RescheduleVisit(context.Background(), RescheduleParams{
		AccountID: "ACC-1", NewSlotID: "SLOT-NEW", OrderID: "ORD-1", OriginalVisitID: "VISIT-1",
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if ve.Message != "Completed appointments cannot be rescheduled." {
		t.Errorf("message = %q", ve.Message)
	}
}

func TestFlagVisitIssue(t *testing.T) {
	appt := model.Appointment{
		VisitID: "VISIT-1", SlotID: "SLOT-OLD", AccountID: "ACC-1", OrderID: "ORD-1",
		Status:             model.StatusScheduled,
		ScheduledStartTime: time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
		ScheduledEndTime:   time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC),
	}
	f := newFixture(nil, []model.Appointment{appt}, testOrders)

	flag, err := f.svc.FlagVisitIssue(context.Background(), FlagIssueParams{
		AccountID: "ACC-1", OrderID: "ORD-1", VisitID: "VISIT-1",
		IssueSummary:            "Modem has no signal after install.",
		RequestedFollowUpAction: "Dispatch technician again",
		CustomerReportedFailure: true,
	})
	if err != nil {
		t.Fatalf("FlagVisitIssue failed: %v", err)
	}
	if !strings.HasPrefix(flag.FlagID, "FLAG-") {
		t.Errorf("flag id %q missing FLAG- prefix", flag.FlagID)
	}
	if flag.Message != "Thank you for flagging this. One of our technicians will review your issue and get back to you." {
		t.Errorf("unexpected acknowledgement %q", flag.Message)
	}
	if flag.Status != "Logged for review" {
		t.Errorf("status = %q", flag.Status)
	}
	if f.flags.Len() != 1 {
		t.Errorf("flag log len = %d, want 1", f.flags.Len())
	}

	got, _ := f.ledger.ByVisitID("VISIT-1")
	if got.TechnicianNotes == nil || *got.TechnicianNotes != "Modem has no signal after install. Dispatch technician again" {
		t.Errorf("notes = %v", got.TechnicianNotes)
	}

	// A second report joins onto the first with " | ".
	if _, err := f.svc.FlagVisitIssue(context.Background(), FlagIssueParams{
		AccountID: "ACC-1", OrderID: "ORD-1", VisitID: "VISIT-1",
		IssueSummary:            "Still offline.",
		RequestedFollowUpAction: "Manager callback requested",
		CustomerReportedFailure: true,
	}); err != nil {
		t.Fatalf("second FlagVisitIssue failed: %v", err)
	}
	got, _ = f.ledger.ByVisitID("VISIT-1")
	want := "Modem has no signal after install. Dispatch technician again | Still offline. Manager callback requested"
	if got.TechnicianNotes == nil || *got.TechnicianNotes != want {
		t.Errorf("accumulated notes = %v, want %q", got.TechnicianNotes, want)
	}
}

func TestFlagVisitIssueTripleMismatch(t *testing.T) {
	appt := model.Appointment{
		VisitID: "VISIT-1", SlotID: "SLOT-OLD", AccountID: "ACC-1", OrderID: "ORD-1",
		Status:             model.StatusScheduled,
		ScheduledStartTime: time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
		ScheduledEndTime:   time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC),
	}
	f := newFixture(nil, []model.Appointment{appt}, testOrders)

	_, err := f.svc.FlagVisitIssue(context.Background(), FlagIssueParams{
		AccountID: "ACC-1", OrderID: "ORD-2", VisitID: "VISIT-1",
		IssueSummary:            "Mismatch",
		RequestedFollowUpAction: "None",
		CustomerReportedFailure: true,
	})
	var nfe *VisitNotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("err = %v, want VisitNotFoundError", err)
	}
	if got, want := err.Error(), "No viable visits found for account: ACC-1, order: ORD-2, visit: VISIT-1"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}

	got, _ := f.ledger.ByVisitID("VISIT-1")
	if got.TechnicianNotes != nil {
		t.Error("failed flag must not touch notes")
	}
	if f.flags.Len() != 0 {
		t.Error("failed flag must not be logged")
	}
}

func TestVisitDetails(t *testing.T) {
	notes := "left voicemail"
	appt := model.Appointment{
		VisitID: "VISIT-1", SlotID: "SLOT-OLD", AccountID: "ACC-1", OrderID: "ORD-1",
		Status:             model.StatusScheduled,
		ScheduledStartTime: time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
		ScheduledEndTime:   time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC),
		TechnicianNotes:    &notes,
	}
	f := newFixture(nil, []model.Appointment{appt}, testOrders)

	first, err := f.svc.VisitDetails(context.Background(), "VISIT-1")
	if err != nil {
		t.Fatalf("VisitDetails failed: %v", err)
	}
	second, err := f.svc.VisitDetails(context.Background(), "VISIT-1")
	if err != nil {
		t.Fatalf("repeated VisitDetails failed: %v", err)
	}
	if first.VisitID != second.VisitID || *first.TechnicianNotes != *second.TechnicianNotes {
		t.Error("reads must be idempotent")
	}

	_, err = f.svc.VisitDetails(context.Background(), "VISIT-404")
	var nfe *AppointmentNotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("err = %v, want AppointmentNotFoundError", err)
	}
	if got, want := err.Error(), "No appointment found for visitId: VISIT-404"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestFindSlots(t *testing.T) {
	slots := []model.Slot{
		slotAt("SLOT-94105-A", 1, 9, "94105"),
		slotAt("SLOT-94105-B", 8, 9, "94105"),  // last day of the default window
		slotAt("SLOT-94105-C", 9, 9, "94105"),  // one past it
		slotAt("SLOT-94107-A", 2, 9, "94107"),
		{SlotID: "SLOT-10001-LEGACY", StartTime: time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC), EndTime: time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC), TechnicianType: "ACTIVATION_INSTALL"},
	}
	f := newFixture(slots, nil, testOrders)
	ctx := context.Background()

	t.Run("default window is inclusive of both endpoints", func(t *testing.T) {
		got, err := f.svc.FindSlots(ctx, FindSlotsParams{StartDate: "2026-09-01"})
		if err != nil {
			t.Fatalf("FindSlots failed: %v", err)
		}
		if len(got) != 4 {
			t.Fatalf("got %d slots, want 4", len(got))
		}
		for _, s := range got {
			if s.SlotID == "SLOT-94105-C" {
				t.Error("slot one day past the window must be excluded")
			}
		}
	})

	t.Run("postal filter uses structured field", func(t *testing.T) {
		got, err := f.svc.FindSlots(ctx, FindSlotsParams{StartDate: "2026-09-01", PostalCode: "94107"})
		if err != nil {
			t.Fatalf("FindSlots failed: %v", err)
		}
		if len(got) != 1 || got[0].SlotID != "SLOT-94107-A" {
			t.Errorf("got %v, want only SLOT-94107-A", got)
		}
	})

	t.Run("postal filter falls back to legacy slot id segment", func(t *testing.T) {
		got, err := f.svc.FindSlots(ctx, FindSlotsParams{StartDate: "2026-09-01", PostalCode: "10001"})
		if err != nil {
			t.Fatalf("FindSlots failed: %v", err)
		}
		if len(got) != 1 || got[0].SlotID != "SLOT-10001-LEGACY" {
			t.Errorf("got %v, want only SLOT-10001-LEGACY", got)
		}
	})

	t.Run("empty result is success", func(t *testing.T) {
		got, err := f.svc.FindSlots(ctx, FindSlotsParams{StartDate: "2027-01-01"})
		if err != nil {
			t.Fatalf("FindSlots failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d slots, want none", len(got))
		}
	})

	t.Run("invalid start date", func(t *testing.T) {
		_, err := f.svc.FindSlots(ctx, FindSlotsParams{StartDate: "09/01/2026"})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
		if ve.Message != "Invalid start date format: 09/01/2026" {
			t.Errorf("message = %q", ve.Message)
		}
	})

	t.Run("daysToSearch bounds", func(t *testing.T) {
		for _, days := range []int{0, -1, 366} {
			d := days
			_, err := f.svc.FindSlots(ctx, FindSlotsParams{StartDate: "2026-09-01", DaysToSearch: &d})
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("days=%d: err = %v, want ValidationError", days, err)
			}
		}
		limit := 365
		if _, err := f.svc.FindSlots(ctx, FindSlotsParams{StartDate: "2026-09-01", DaysToSearch: &limit}); err != nil {
			t.Errorf("365 days must be accepted: %v", err)
		}
	})
}

func TestValidationRejectsBlankIdentifiers(t *testing.T) {
	f := newFixture(nil, nil, testOrders)
	ctx := context.Background()

	if _, err := f.svc.VisitDetails(ctx, "  "); err == nil {
		t.Error("blank visitId must be rejected")
	}
	if _, err := f.svc.ScheduleNewVisit(ctx, ScheduleParams{AccountID: "", OrderID: "ORD-1", SlotID: "S"}); err == nil {
		t.Error("blank accountId must be rejected")
	}
	if _, err := f.svc.RescheduleVisit(ctx, RescheduleParams{AccountID: "ACC-1", NewSlotID: "", OrderID: "ORD-1", OriginalVisitID: "V"}); err == nil {
		t.Error("blank newSlotId must be rejected")
	}
	if _, err := f.svc.FlagVisitIssue(ctx, FlagIssueParams{AccountID: "ACC-1", OrderID: "ORD-1", VisitID: "V", IssueSummary: " ", RequestedFollowUpAction: "x"}); err == nil {
		t.Error("blank issueSummary must be rejected")
	}
}
