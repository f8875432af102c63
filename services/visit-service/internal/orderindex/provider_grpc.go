//go:build protogen

package orderindex

import (
	"context"
	"time"

	"github.com/sunnyfiber/visitops/libs/grpcx"
	orderv1 "github.com/sunnyfiber/visitops/protos/gen/order/v1"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type grpcProvider struct {
	client orderv1.OrderIndexClient
}

// NewRemoteProvider dials the order-index service. An empty addr means the
// deployment has no remote index and the caller should fall back to the
// in-memory provider.
func NewRemoteProvider(addr string) (Provider, error) {
	if addr == "" {
		return nil, nil
	}
	conn, err := grpcx.Dial(context.Background(), addr, grpcx.DialOptions{Timeout: 3 * time.Second})
	if err != nil {
		return nil, err
	}
	return &grpcProvider{client: orderv1.NewOrderIndexClient(conn)}, nil
}

func (p *grpcProvider) Order(ctx context.Context, orderID string) (model.Order, bool, error) {
	resp, err := p.client.GetOrder(ctx, &orderv1.GetOrderRequest{OrderId: orderID})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.Order{}, false, nil
		}
		return model.Order{}, false, err
	}
	return model.Order{
		OrderID:           resp.GetOrderId(),
		AccountID:         resp.GetAccountId(),
		ServiceType:       resp.GetServiceType(),
		OverallStatus:     resp.GetOverallStatus(),
		ServiceIdentifier: resp.GetServiceIdentifier(),
		ActivationStatus:  resp.GetActivationStatus(),
	}, true, nil
}

func (p *grpcProvider) AccountExists(ctx context.Context, accountID string) (bool, error) {
	resp, err := p.client.AccountExists(ctx, &orderv1.AccountExistsRequest{AccountId: accountID})
	if err != nil {
		return false, err
	}
	return resp.GetExists(), nil
}
