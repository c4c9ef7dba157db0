package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/deliver"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ deliver.DeliveryService = (*DeliveryService)(nil)

// DeliveryService implements deliver.DeliveryService using SQLite.
type DeliveryService struct {
	db *DB
}

// NewDeliveryService creates a new DeliveryService.
func NewDeliveryService(db *DB) *DeliveryService {
	return &DeliveryService{db: db}
}

// CreateDelivery records a delivery. ID and CreatedAt are assigned when
// empty.
func (s *DeliveryService) CreateDelivery(ctx context.Context, d *deliver.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO deliveries (id, action_id, destination, kind, url, title, status, status_code, post_id, message, created_at, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.ActionID, d.Destination, string(d.Kind), d.URL, d.Title, d.Status, d.StatusCode,
		d.PostID, d.Message, formatTime(d.CreatedAt), string(d.Content))

	return err
}

// FindDeliveries retrieves deliveries matching the filter, newest first.
func (s *DeliveryService) FindDeliveries(ctx context.Context, filter deliver.DeliveryFilter) ([]*deliver.Delivery, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, action_id, destination, kind, url, title, status, status_code, post_id, message, created_at, content
		FROM deliveries WHERE 1=1`)

	if filter.Destination != nil {
		query.WriteString(" AND destination = ?")
		args = append(args, *filter.Destination)
	}
	if filter.ActionID != nil {
		query.WriteString(" AND action_id = ?")
		args = append(args, *filter.ActionID)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	args = page(&query, args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []*deliver.Delivery
	for rows.Next() {
		var d deliver.Delivery
		var kind, createdAt, content string

		if err := rows.Scan(&d.ID, &d.ActionID, &d.Destination, &kind, &d.URL, &d.Title, &d.Status,
			&d.StatusCode, &d.PostID, &d.Message, &createdAt, &content); err != nil {
			return nil, err
		}
		d.Kind = deliver.Kind(kind)
		if content != "" {
			d.Content = []byte(content)
		}

		d.CreatedAt, err = parseTime("created_at", createdAt)
		if err != nil {
			return nil, err
		}

		deliveries = append(deliveries, &d)
	}

	return deliveries, rows.Err()
}
