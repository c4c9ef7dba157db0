package mock

import (
	"context"

	"github.com/fwojciec/deliver"
)

var _ deliver.DeliveryService = (*DeliveryService)(nil)

// DeliveryService is a mock implementation of deliver.DeliveryService.
type DeliveryService struct {
	CreateDeliveryFn func(ctx context.Context, d *deliver.Delivery) error
	FindDeliveriesFn func(ctx context.Context, filter deliver.DeliveryFilter) ([]*deliver.Delivery, error)
}

func (s *DeliveryService) CreateDelivery(ctx context.Context, d *deliver.Delivery) error {
	return s.CreateDeliveryFn(ctx, d)
}

func (s *DeliveryService) FindDeliveries(ctx context.Context, filter deliver.DeliveryFilter) ([]*deliver.Delivery, error) {
	return s.FindDeliveriesFn(ctx, filter)
}
