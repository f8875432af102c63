package seed

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sunnyfiber/visitops/services/visit-service/internal/model"
)

//go:embed defaults.json
var defaultsFS embed.FS

// Data is the startup state of the service: open slots, the order index read
// model, and any pre-existing appointments.
type Data struct {
	Slots        []model.Slot
	Orders       []model.Order
	Appointments []model.Appointment
}

type slotRecord struct {
	SlotID         string `json:"slotId"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	TechnicianType string `json:"technicianType"`
	PostalCode     string `json:"postalCode"`
}

// Field names follow the upstream order feed.
type orderRecord struct {
	OrderID           string `json:"order_id"`
	AccountID         string `json:"account_id"`
	ServiceType       string `json:"service_type"`
	OverallStatus     string `json:"overall_status"`
	ServiceIdentifier string `json:"service_identifier_for_activation"`
	ActivationStatus  string `json:"service_activation_status"`
}

type appointmentRecord struct {
	VisitID            string  `json:"visitId"`
	SlotID             string  `json:"slotId"`
	AccountID          string  `json:"accountId"`
	OrderID            string  `json:"orderId"`
	Status             string  `json:"status"`
	ScheduledStartTime string  `json:"scheduledStartTime"`
	ScheduledEndTime   string  `json:"scheduledEndTime"`
	TechnicianNotes    *string `json:"technicianNotes"`
	IssueDescription   *string `json:"issueDescription"`
}

type seedFile struct {
	Slots        []slotRecord        `json:"slots"`
	Orders       []orderRecord       `json:"orders"`
	Appointments []appointmentRecord `json:"appointments"`
}

// Default returns the embedded seed inventory.
func Default() (Data, error) {
	raw, err := defaultsFS.ReadFile("defaults.json")
	if err != nil {
		return Data{}, err
	}
	return parse(raw)
}

// SlotsFromFile loads a slot inventory override, e.g. one produced by the
// slotgen tool.
func SlotsFromFile(path string) ([]model.Slot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f seedFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse slot seed %s: %w", path, err)
	}
	return convertSlots(f.Slots)
}

// OrdersFromFile loads an order index override.
func OrdersFromFile(path string) ([]model.Order, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f seedFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse order seed %s: %w", path, err)
	}
	return convertOrders(f.Orders), nil
}

func parse(raw []byte) (Data, error) {
	var f seedFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return Data{}, fmt.Errorf("parse seed data: %w", err)
	}

	slots, err := convertSlots(f.Slots)
	if err != nil {
		return Data{}, err
	}

	var appts []model.Appointment
	for _, r := range f.Appointments {
		start, err := time.Parse(time.RFC3339, r.ScheduledStartTime)
		if err != nil {
			return Data{}, fmt.Errorf("appointment %s: bad scheduledStartTime: %w", r.VisitID, err)
		}
		end, err := time.Parse(time.RFC3339, r.ScheduledEndTime)
		if err != nil {
			return Data{}, fmt.Errorf("appointment %s: bad scheduledEndTime: %w", r.VisitID, err)
		}
		appts = append(appts, model.Appointment{
			VisitID:            r.VisitID,
			SlotID:             r.SlotID,
			AccountID:          r.AccountID,
			OrderID:            r.OrderID,
			Status:             r.Status,
			ScheduledStartTime: start,
			ScheduledEndTime:   end,
			TechnicianNotes:    r.TechnicianNotes,
			IssueDescription:   r.IssueDescription,
		})
	}

	return Data{
		Slots:        slots,
		Orders:       convertOrders(f.Orders),
		Appointments: appts,
	}, nil
}

func convertSlots(records []slotRecord) ([]model.Slot, error) {
	var slots []model.Slot
	for _, r := range records {
		start, err := time.Parse(time.RFC3339, r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("slot %s: bad startTime: %w", r.SlotID, err)
		}
		end, err := time.Parse(time.RFC3339, r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("slot %s: bad endTime: %w", r.SlotID, err)
		}
		technicianType := r.TechnicianType
		if technicianType == "" {
			technicianType = model.DefaultTechnicianType
		}
		slots = append(slots, model.Slot{
			SlotID:         r.SlotID,
			StartTime:      start,
			EndTime:        end,
			TechnicianType: technicianType,
			PostalCode:     r.PostalCode,
		})
	}
	return slots, nil
}

func convertOrders(records []orderRecord) []model.Order {
	var orders []model.Order
	for _, r := range records {
		orders = append(orders, model.Order{
			OrderID:           r.OrderID,
			AccountID:         r.AccountID,
			ServiceType:       r.ServiceType,
			OverallStatus:     r.OverallStatus,
			ServiceIdentifier: r.ServiceIdentifier,
			ActivationStatus:  r.ActivationStatus,
		})
	}
	return orders
}
