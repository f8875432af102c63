package store

import (
	"time"

	"github.com/sunnyfiber/visitops/services/visit-service/internal/model"
)

// SlotPool holds the open technician slots. It does no locking of its own; the
// scheduling service serializes all access together with the ledger.
type SlotPool struct {
	slots []model.Slot
}

func NewSlotPool(seed []model.Slot) *SlotPool {
	p := &SlotPool{}
	p.slots = append(p.slots, seed...)
	return p
}

// FindAvailable returns the slots whose start date falls within
// [start, start+days], both endpoints included, optionally narrowed to a postal
// code. The pool is not modified.
func (p *SlotPool) FindAvailable(start time.Time, days int, postalCode string) []model.Slot {
	from := start.Format(time.DateOnly)
	to := start.AddDate(0, 0, days).Format(time.DateOnly)

	var out []model.Slot
	for _, s := range p.slots {
		day := s.StartTime.Format(time.DateOnly)
		if day < from || day > to {
			continue
		}
		if postalCode != "" && s.PostalArea() != postalCode {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Reserve removes the slot from the pool and returns it. The second return is
// false when no slot carries the id, in which case the pool is untouched.
func (p *SlotPool) Reserve(slotID string) (model.Slot, bool) {
	for i, s := range p.slots {
		if s.SlotID == slotID {
			p.slots = append(p.slots[:i], p.slots[i+1:]...)
			return s, true
		}
	}
	return model.Slot{}, false
}

// Release puts a slot back into the pool, e.g. the freed time range of a
// rescheduled visit.
func (p *SlotPool) Release(s model.Slot) {
	p.slots = append(p.slots, s)
}

func (p *SlotPool) Insert(s model.Slot) {
	p.slots = append(p.slots, s)
}

func (p *SlotPool) Len() int {
	return len(p.slots)
}

func (p *SlotPool) Snapshot() []model.Slot {
	out := make([]model.Slot, len(p.slots))
	copy(out, p.slots)
	return out
}
