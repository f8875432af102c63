package store

import "github.com/sunnyfiber/visitops/services/visit-service/internal/model"

// AppointmentLedger holds every appointment ever created, including completed
// and cancelled ones. Like SlotPool it relies on the caller for serialization.
type AppointmentLedger struct {
	appointments []model.Appointment
}

func NewAppointmentLedger(seed []model.Appointment) *AppointmentLedger {
	l := &AppointmentLedger{}
	l.appointments = append(l.appointments, seed...)
	return l
}

func (l *AppointmentLedger) ByVisitID(visitID string) (model.Appointment, bool) {
	for _, a := range l.appointments {
		if a.VisitID == visitID {
			return a, true
		}
	}
	return model.Appointment{}, false
}

// ActiveByOrder returns the appointment occupying the order, if any. Completed
// and cancelled appointments never match.
func (l *AppointmentLedger) ActiveByOrder(orderID string) (model.Appointment, bool) {
	for _, a := range l.appointments {
		if a.OrderID == orderID && a.Active() {
			return a, true
		}
	}
	return model.Appointment{}, false
}

// ByAccountOrderVisit matches on the exact identifier triple.
func (l *AppointmentLedger) ByAccountOrderVisit(accountID, orderID, visitID string) (model.Appointment, bool) {
	for _, a := range l.appointments {
		if a.AccountID == accountID && a.OrderID == orderID && a.VisitID == visitID {
			return a, true
		}
	}
	return model.Appointment{}, false
}

// HasAccount reports whether any appointment on record belongs to the account.
func (l *AppointmentLedger) HasAccount(accountID string) bool {
	for _, a := range l.appointments {
		if a.AccountID == accountID {
			return true
		}
	}
	return false
}

func (l *AppointmentLedger) Insert(a model.Appointment) {
	l.appointments = append(l.appointments, a)
}

// Replace removes the appointment identified by oldVisitID and inserts the
// replacement as one step. It returns false, without inserting, when the old
// visit is not on the ledger.
func (l *AppointmentLedger) Replace(oldVisitID string, replacement model.Appointment) bool {
	for i, a := range l.appointments {
		if a.VisitID == oldVisitID {
			l.appointments = append(l.appointments[:i], l.appointments[i+1:]...)
			l.appointments = append(l.appointments, replacement)
			return true
		}
	}
	return false
}

// AppendNote adds text to the visit's technician notes, joining onto any
// existing notes with " | " so earlier entries are preserved.
func (l *AppointmentLedger) AppendNote(visitID, text string) bool {
	for i := range l.appointments {
		if l.appointments[i].VisitID != visitID {
			continue
		}
		if existing := l.appointments[i].TechnicianNotes; existing != nil && *existing != "" {
			joined := *existing + " | " + text
			l.appointments[i].TechnicianNotes = &joined
		} else {
			note := text
			l.appointments[i].TechnicianNotes = &note
		}
		return true
	}
	return false
}

func (l *AppointmentLedger) Len() int {
	return len(l.appointments)
}

func (l *AppointmentLedger) Snapshot() []model.Appointment {
	out := make([]model.Appointment, len(l.appointments))
	copy(out, l.appointments)
	return out
}
