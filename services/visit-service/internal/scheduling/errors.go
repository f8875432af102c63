package scheduling

import "fmt"

// ValidationError covers rejected input and business-rule violations that the
// caller can fix by changing the request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AppointmentNotFoundError is returned by the visit-details lookup.
type AppointmentNotFoundError struct {
	VisitID string
}

func (e *AppointmentNotFoundError) Error() string {
	return fmt.Sprintf("No appointment found for visitId: %s", e.VisitID)
}

// VisitNotFoundError is returned by reschedule (visit id only) and by issue
// flagging (the full identifier triple).
type VisitNotFoundError struct {
	VisitID   string
	AccountID string
	OrderID   string
}

func (e *VisitNotFoundError) Error() string {
	if e.AccountID != "" || e.OrderID != "" {
		return fmt.Sprintf("No viable visits found for account: %s, order: %s, visit: %s", e.AccountID, e.OrderID, e.VisitID)
	}
	return fmt.Sprintf("No appointment found for visitId: %s", e.VisitID)
}

// SlotNotFoundError means the requested replacement slot is not in the pool.
type SlotNotFoundError struct {
	SlotID string
}

func (e *SlotNotFoundError) Error() string {
	return fmt.Sprintf("The slotId: %s is not available.", e.SlotID)
}

// TechnicianVisitNotFoundError means the slot chosen for a new visit is not in
// the pool. Kept separate from SlotNotFoundError because the two scheduling
// paths have always reported the miss differently.
type TechnicianVisitNotFoundError struct {
	SlotID string
}

func (e *TechnicianVisitNotFoundError) Error() string {
	return fmt.Sprintf("No technician visit found for slotId: %s", e.SlotID)
}

// DuplicateAppointmentError means the order already has an appointment that is
// neither completed nor cancelled.
type DuplicateAppointmentError struct {
	OrderID string
}

func (e *DuplicateAppointmentError) Error() string {
	return fmt.Sprintf("An appointment for orderId %s already exists. Please use reschedule_technician_visit to make changes.", e.OrderID)
}
