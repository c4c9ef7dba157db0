package deliver

import (
	"context"
	"time"
)

// Delivery statuses.
const (
	DeliveryPosted    = "posted"
	DeliveryFailed    = "failed"
	DeliveryCancelled = "cancelled"
)

// Delivery records the outcome of one submission to one destination.
type Delivery struct {
	ID          string    `json:"id"`
	ActionID    string    `json:"actionId"`
	Destination string    `json:"destination"`
	Kind        Kind      `json:"kind"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	StatusCode  int       `json:"statusCode"`
	PostID      string    `json:"postId"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`

	// Content is the submitted record as an EncodeContent envelope. Empty
	// when the pipeline failed before a record was built.
	Content []byte `json:"content,omitempty"`
}

// Validate returns an error if the delivery contains invalid fields.
func (d *Delivery) Validate() error {
	if d.ActionID == "" {
		return Errorf(EINVALID, "delivery action ID required")
	}
	if d.Destination == "" {
		return Errorf(EINVALID, "delivery destination required")
	}
	switch d.Status {
	case DeliveryPosted, DeliveryFailed, DeliveryCancelled:
	default:
		return Errorf(EINVALID, "invalid delivery status %q", d.Status)
	}
	return nil
}

// DeliveryService represents a service for recording delivery history.
type DeliveryService interface {
	// CreateDelivery records a delivery. ID and CreatedAt are assigned when
	// empty.
	CreateDelivery(ctx context.Context, d *Delivery) error

	// FindDeliveries retrieves deliveries matching the filter, newest first.
	FindDeliveries(ctx context.Context, filter DeliveryFilter) ([]*Delivery, error)
}

// DeliveryFilter represents a filter for FindDeliveries.
type DeliveryFilter struct {
	Destination *string `json:"destination"`
	ActionID    *string `json:"actionId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
