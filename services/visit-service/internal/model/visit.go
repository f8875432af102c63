package model

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// DefaultTechnicianType is stamped on slots released back to the pool.
const DefaultTechnicianType = "ACTIVATION_INSTALL"

type Slot struct {
	SlotID         string
	StartTime      time.Time
	EndTime        time.Time
	TechnicianType string
	PostalCode     string
}

// PostalArea returns the postal code the slot serves. Older inventory encodes it
// as the second dash-separated segment of the slot id (e.g. SLOT-94105-0815A);
// those ids are still honored when the structured field is empty.
func (s Slot) PostalArea() string {
	if s.PostalCode != "" {
		return s.PostalCode
	}
	parts := strings.Split(s.SlotID, "-")
	if len(parts) > 1 {
		return parts[1]
	}
	return ""
}

type Appointment struct {
	VisitID            string
	SlotID             string
	AccountID          string
	OrderID            string
	Status             string
	ScheduledStartTime time.Time
	ScheduledEndTime   time.Time
	TechnicianNotes    *string
	IssueDescription   *string
}

// Active reports whether the appointment still occupies its order; completed and
// cancelled appointments do not block new scheduling.
func (a Appointment) Active() bool {
	return a.Status != StatusCompleted && a.Status != StatusCancelled
}

type IssueFlag struct {
	FlagID  string
	Message string
	Status  string
}

// Order is the read-model of the order index this service consults; scheduling
// never mutates it, activation updates ActivationStatus only.
type Order struct {
	OrderID           string
	AccountID         string
	ServiceType       string
	OverallStatus     string
	ServiceIdentifier string
	ActivationStatus  string
}
