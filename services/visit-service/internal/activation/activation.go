package activation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sunnyfiber/visitops/services/visit-service/internal/events"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/model"
)

const (
	StatusPendingSelfActivation = "PENDING_SELF_ACTIVATION"
	StatusInProgress            = "IN_PROGRESS"
	StatusCompleted             = "COMPLETED"
)

// ValidServiceTypes are the service categories the network platform can
// activate.
var ValidServiceTypes = []string{"MOBILE", "INTERNET", "IOT_DEVICE", "VOIP"}

const timestampLayout = "2006-01-02T15:04:05Z"

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type InvalidServiceTypeError struct {
	ServiceType string
}

func (e *InvalidServiceTypeError) Error() string {
	return fmt.Sprintf(`serviceType must be one of ["MOBILE", "INTERNET", "IOT_DEVICE", "VOIP"]. Got: %s`, e.ServiceType)
}

type AttemptNotFoundError struct {
	Identifier string
}

func (e *AttemptNotFoundError) Error() string {
	return fmt.Sprintf("No activation attempt found for activationAttemptIdOrServiceIdentifier: %s", e.Identifier)
}

// Store is the mutating order-index surface activation needs; scheduling never
// sees it.
type Store interface {
	OrderForActivation(orderID, serviceIdentifier, serviceType string) (model.Order, bool)
	OrderByServiceIdentifier(serviceIdentifier string) (model.Order, bool)
	SetActivationStatus(orderID, status string) bool
}

// Attempt is the caller-facing view of one activation request.
type Attempt struct {
	ActivationAttemptID string
	Message             string
	Status              string
	Timestamp           string
	ErrorCode           *string
}

type Service struct {
	store  Store
	events *events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store Store, publisher *events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		events: publisher,
		logger: logger,
		now:    time.Now,
	}
}

// Trigger starts activation for the service an order provisioned. The order is
// matched on the exact (orderId, serviceIdentifier, serviceType) triple and
// must still be pending self activation; it transitions to IN_PROGRESS.
func (s *Service) Trigger(ctx context.Context, orderID, serviceIdentifier, serviceType string, accountID *string) (Attempt, error) {
	for _, field := range []struct{ name, value string }{
		{"orderId", orderID},
		{"serviceIdentifier", serviceIdentifier},
		{"serviceType", serviceType},
	} {
		if strings.TrimSpace(field.value) == "" {
			return Attempt{}, &ValidationError{Message: fmt.Sprintf("%s must be a non-empty string", field.name)}
		}
	}
	if !validServiceType(serviceType) {
		return Attempt{}, &InvalidServiceTypeError{ServiceType: serviceType}
	}

	order, ok := s.store.OrderForActivation(orderID, serviceIdentifier, serviceType)
	if !ok {
		return Attempt{}, &ValidationError{Message: fmt.Sprintf("No viable order found for order: %s, serviceIdentifier: %s, serviceType: %s", orderID, serviceIdentifier, serviceType)}
	}
	if order.ActivationStatus != StatusPendingSelfActivation {
		return Attempt{}, &ValidationError{Message: fmt.Sprintf("Order %s is not in a pending self-activation state. Current status: %s", orderID, order.ActivationStatus)}
	}

	s.store.SetActivationStatus(order.OrderID, StatusInProgress)

	s.logger.Info("activation triggered", "order_id", order.OrderID, "service_type", serviceType)
	s.events.Publish(ctx, events.TopicActivationTriggered, order.OrderID, struct {
		OrderID           string  `json:"order_id"`
		ServiceIdentifier string  `json:"service_identifier"`
		ServiceType       string  `json:"service_type"`
		AccountID         *string `json:"account_id"`
	}{order.OrderID, order.ServiceIdentifier, serviceType, accountID})

	return Attempt{
		ActivationAttemptID: order.ServiceIdentifier,
		Message:             "Activation is in progress.",
		Status:              StatusInProgress,
		Timestamp:           s.now().UTC().Format(timestampLayout),
	}, nil
}

// Status reports the current activation state for the attempt id, which equals
// the service identifier the activation was started with.
func (s *Service) Status(_ context.Context, identifier string) (Attempt, error) {
	if strings.TrimSpace(identifier) == "" {
		return Attempt{}, &ValidationError{Message: "activationAttemptIdOrServiceIdentifier must be a non-empty string"}
	}

	order, ok := s.store.OrderByServiceIdentifier(identifier)
	if !ok {
		return Attempt{}, &AttemptNotFoundError{Identifier: identifier}
	}
	return Attempt{
		ActivationAttemptID: order.ServiceIdentifier,
		Message:             fmt.Sprintf("The current status is %s", order.ActivationStatus),
		Status:              order.ActivationStatus,
		Timestamp:           s.now().UTC().Format(timestampLayout),
	}, nil
}

func validServiceType(serviceType string) bool {
	for _, t := range ValidServiceTypes {
		if t == serviceType {
			return true
		}
	}
	return false
}
