package seed

import "testing"

func TestDefault(t *testing.T) {
	data, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if len(data.Slots) == 0 {
		t.Error("embedded seed has no slots")
	}
	if len(data.Orders) == 0 {
		t.Error("embedded seed has no orders")
	}

	for _, s := range data.Slots {
		if s.SlotID == "" || s.TechnicianType == "" {
			t.Errorf("slot %+v missing required fields", s)
		}
		if !s.EndTime.After(s.StartTime) {
			t.Errorf("slot %s has a non-positive time range", s.SlotID)
		}
		if s.PostalArea() == "" {
			t.Errorf("slot %s has no postal area", s.SlotID)
		}
	}
	for _, o := range data.Orders {
		if o.OrderID == "" || o.AccountID == "" || o.ServiceIdentifier == "" {
			t.Errorf("order %+v missing required fields", o)
		}
	}
	for _, a := range data.Appointments {
		if a.VisitID == "" || a.Status == "" {
			t.Errorf("appointment %+v missing required fields", a)
		}
	}
}
