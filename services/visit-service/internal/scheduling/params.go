package scheduling

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultDaysToSearch = 7
	maxDaysToSearch     = 365
)

type FindSlotsParams struct {
	StartDate    string
	PostalCode   string
	DaysToSearch *int
}

func (p FindSlotsParams) validate() (time.Time, int, error) {
	if strings.TrimSpace(p.StartDate) == "" {
		return time.Time{}, 0, &ValidationError{Message: "startDate must be a non-empty string"}
	}
	start, err := time.Parse(time.DateOnly, p.StartDate)
	if err != nil {
		return time.Time{}, 0, &ValidationError{Message: fmt.Sprintf("Invalid start date format: %s", p.StartDate)}
	}
	days := defaultDaysToSearch
	if p.DaysToSearch != nil {
		days = *p.DaysToSearch
		if days <= 0 || days > maxDaysToSearch {
			return time.Time{}, 0, &ValidationError{Message: fmt.Sprintf("daysToSearch must be between 1 and %d", maxDaysToSearch)}
		}
	}
	return start, days, nil
}

type ScheduleParams struct {
	AccountID        string
	OrderID          string
	SlotID           string
	IssueDescription *string
}

func (p ScheduleParams) validate() error {
	return requireIdentifiers(map[string]string{
		"accountId": p.AccountID,
		"orderId":   p.OrderID,
		"slotId":    p.SlotID,
	})
}

type RescheduleParams struct {
	AccountID       string
	NewSlotID       string
	OrderID         string
	OriginalVisitID string
	ReasonForChange *string
}

func (p RescheduleParams) validate() error {
	return requireIdentifiers(map[string]string{
		"accountId":       p.AccountID,
		"newSlotId":       p.NewSlotID,
		"orderId":         p.OrderID,
		"originalVisitId": p.OriginalVisitID,
	})
}

type FlagIssueParams struct {
	AccountID               string
	OrderID                 string
	VisitID                 string
	IssueSummary            string
	RequestedFollowUpAction string
	CustomerReportedFailure bool
}

func (p FlagIssueParams) validate() error {
	return requireIdentifiers(map[string]string{
		"accountId":               p.AccountID,
		"orderId":                 p.OrderID,
		"visitId":                 p.VisitID,
		"issueSummary":            p.IssueSummary,
		"requestedFollowUpAction": p.RequestedFollowUpAction,
	})
}

func requireIdentifiers(fields map[string]string) error {
	// Deterministic order so the reported field is stable.
	order := []string{"accountId", "orderId", "slotId", "newSlotId", "originalVisitId", "visitId", "issueSummary", "requestedFollowUpAction"}
	for _, name := range order {
		value, ok := fields[name]
		if !ok {
			continue
		}
		if strings.TrimSpace(value) == "" {
			return &ValidationError{Message: fmt.Sprintf("%s must be a non-empty string", name)}
		}
	}
	return nil
}
