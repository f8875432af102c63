package orderindex

import (
	"context"
	"sync"

	"github.com/sunnyfiber/visitops/services/visit-service/internal/model"
)

// Provider is the read-only view of the order index that scheduling consults.
type Provider interface {
	// Order returns the order with the given id; the bool is false when the
	// index has no such order.
	Order(ctx context.Context, orderID string) (model.Order, bool, error)
	// AccountExists reports whether any order belongs to the account.
	AccountExists(ctx context.Context, accountID string) (bool, error)
}

// MemoryProvider serves orders from memory, seeded at startup. Activation
// mutates activation status through it, so it carries its own lock.
type MemoryProvider struct {
	mu     sync.RWMutex
	orders []model.Order
}

func NewMemoryProvider(seed []model.Order) *MemoryProvider {
	p := &MemoryProvider{}
	p.orders = append(p.orders, seed...)
	return p
}

func (p *MemoryProvider) Order(_ context.Context, orderID string) (model.Order, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, o := range p.orders {
		if o.OrderID == orderID {
			return o, true, nil
		}
	}
	return model.Order{}, false, nil
}

func (p *MemoryProvider) AccountExists(_ context.Context, accountID string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, o := range p.orders {
		if o.AccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

// OrderForActivation matches an order on the exact (orderID, serviceIdentifier,
// serviceType) triple the activation request names.
func (p *MemoryProvider) OrderForActivation(orderID, serviceIdentifier, serviceType string) (model.Order, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, o := range p.orders {
		if o.OrderID == orderID && o.ServiceIdentifier == serviceIdentifier && o.ServiceType == serviceType {
			return o, true
		}
	}
	return model.Order{}, false
}

func (p *MemoryProvider) OrderByServiceIdentifier(serviceIdentifier string) (model.Order, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, o := range p.orders {
		if o.ServiceIdentifier == serviceIdentifier {
			return o, true
		}
	}
	return model.Order{}, false
}

func (p *MemoryProvider) SetActivationStatus(orderID, status string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.orders {
		if p.orders[i].OrderID == orderID {
			p.orders[i].ActivationStatus = status
			return true
		}
	}
	return false
}
