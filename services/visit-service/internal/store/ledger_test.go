package store

import (
	"testing"
	"time"

	"github.com/sunnyfiber/visitops/services/visit-service/internal/model"
)

func appt(visitID, accountID, orderID, status string) model.Appointment {
	return model.Appointment{
		VisitID:            visitID,
		SlotID:             "SLOT-" + visitID,
		AccountID:          accountID,
		OrderID:            orderID,
		Status:             status,
		ScheduledStartTime: time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
		ScheduledEndTime:   time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC),
	}
}

func TestLedgerActiveByOrder(t *testing.T) {
	ledger := NewAppointmentLedger([]model.Appointment{
		appt("V1", "A1", "O1", model.StatusCompleted),
		appt("V2", "A1", "O1", model.StatusCancelled),
		appt("V3", "A1", "O2", model.StatusScheduled),
	})

	if _, ok := ledger.ActiveByOrder("O1"); ok {
		t.Error("terminal appointments must not count as active")
	}
	got, ok := ledger.ActiveByOrder("O2")
	if !ok || got.VisitID != "V3" {
		t.Errorf("ActiveByOrder(O2) = %v, %v", got, ok)
	}
}

func TestLedgerByAccountOrderVisit(t *testing.T) {
	ledger := NewAppointmentLedger([]model.Appointment{appt("V1", "A1", "O1", model.StatusScheduled)})

	if _, ok := ledger.ByAccountOrderVisit("A1", "O1", "V1"); !ok {
		t.Error("exact triple must match")
	}
	for _, triple := range [][3]string{
		{"A2", "O1", "V1"},
		{"A1", "O2", "V1"},
		{"A1", "O1", "V2"},
	} {
		if _, ok := ledger.ByAccountOrderVisit(triple[0], triple[1], triple[2]); ok {
			t.Errorf("partial triple %v must not match", triple)
		}
	}
}

func TestLedgerReplace(t *testing.T) {
	ledger := NewAppointmentLedger([]model.Appointment{appt("V1", "A1", "O1", model.StatusScheduled)})

	replacement := appt("rescheduled_V1", "A1", "O1", model.StatusScheduled)
	if !ledger.Replace("V1", replacement) {
		t.Fatal("Replace returned false for an existing visit")
	}
	if _, ok := ledger.ByVisitID("V1"); ok {
		t.Error("old visit still present after Replace")
	}
	if _, ok := ledger.ByVisitID("rescheduled_V1"); !ok {
		t.Error("replacement missing after Replace")
	}
	if ledger.Len() != 1 {
		t.Errorf("len = %d, want 1", ledger.Len())
	}

	if ledger.Replace("V404", replacement) {
		t.Error("Replace of a missing visit must return false")
	}
	if ledger.Len() != 1 {
		t.Error("failed Replace must not insert")
	}
}

func TestLedgerAppendNote(t *testing.T) {
	ledger := NewAppointmentLedger([]model.Appointment{appt("V1", "A1", "O1", model.StatusScheduled)})

	if !ledger.AppendNote("V1", "first note") {
		t.Fatal("AppendNote returned false")
	}
	got, _ := ledger.ByVisitID("V1")
	if got.TechnicianNotes == nil || *got.TechnicianNotes != "first note" {
		t.Fatalf("notes = %v", got.TechnicianNotes)
	}

	ledger.AppendNote("V1", "second note")
	got, _ = ledger.ByVisitID("V1")
	if *got.TechnicianNotes != "first note | second note" {
		t.Errorf("notes = %q, want pipe-joined accumulation", *got.TechnicianNotes)
	}

	if ledger.AppendNote("V404", "x") {
		t.Error("AppendNote on a missing visit must return false")
	}
}

func TestLedgerAppendNoteOntoEmptyString(t *testing.T) {
	a := appt("V1", "A1", "O1", model.StatusScheduled)
	empty := ""
	a.TechnicianNotes = &empty
	ledger := NewAppointmentLedger([]model.Appointment{a})

	ledger.AppendNote("V1", "note")
	got, _ := ledger.ByVisitID("V1")
	if *got.TechnicianNotes != "note" {
		t.Errorf("notes = %q, empty existing notes must not produce a leading separator", *got.TechnicianNotes)
	}
}
