package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/maillist/maillist/internal/model"
)

// Common errors for subscriber repository operations.
var (
	// ErrSubscriberNotFound is returned when no subscriber matches the identifier.
	ErrSubscriberNotFound = errors.New("subscriber not found")
)

// subscriberColumns selects a subscriber joined with the minimal owner
// projection. Only the owner's display name is resolved, never the full
// user record.
const subscriberColumns = `
	s.id, s.email, s.created, u.id, u.display_name
`

// CreateSubscriber inserts a new subscriber. ownerID may be empty for
// anonymous creations, in which case the owner column stays NULL.
func (r *Repository) CreateSubscriber(ctx context.Context, sub *model.Subscriber) error {
	query := `
		INSERT INTO subscribers (id, email, created, owner_id)
		VALUES ($1, $2, $3, $4)
	`

	var ownerID *string
	if sub.Owner != nil {
		ownerID = &sub.Owner.ID
	}

	_, err := r.pool.Exec(ctx, query,
		sub.ID,
		sub.Email,
		sub.Created,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to create subscriber: %w", err)
	}

	return nil
}

// GetSubscriberByID retrieves a subscriber by its ID, joined with the
// owner projection.
func (r *Repository) GetSubscriberByID(ctx context.Context, id string) (*model.Subscriber, error) {
	query := `
		SELECT ` + subscriberColumns + `
		FROM subscribers s
		LEFT JOIN users u ON u.id = s.owner_id
		WHERE s.id = $1
	`

	sub, err := scanSubscriber(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("failed to get subscriber by ID: %w", err)
	}

	return sub, nil
}

// ListSubscribers retrieves all subscribers, newest first.
// The descending creation-time order is fixed; ID breaks ties so the
// order is stable under equal timestamps.
func (r *Repository) ListSubscribers(ctx context.Context) ([]*model.Subscriber, error) {
	query := `
		SELECT ` + subscriberColumns + `
		FROM subscribers s
		LEFT JOIN users u ON u.id = s.owner_id
		ORDER BY s.created DESC, s.id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []*model.Subscriber
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscribers: %w", err)
	}

	return subs, nil
}

// UpdateSubscriber applies a partial update atomically at the store and
// returns the resulting row. Fields absent from the patch keep their
// stored value; id, created, and the owner binding are never touched.
func (r *Repository) UpdateSubscriber(ctx context.Context, id string, patch model.SubscriberPatch) (*model.Subscriber, error) {
	query := `
		WITH updated AS (
			UPDATE subscribers
			SET email = COALESCE($2, email)
			WHERE id = $1
			RETURNING id, email, created, owner_id
		)
		SELECT updated.id, updated.email, updated.created, u.id, u.display_name
		FROM updated
		LEFT JOIN users u ON u.id = updated.owner_id
	`

	sub, err := scanSubscriber(r.pool.QueryRow(ctx, query, id, patch.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("failed to update subscriber: %w", err)
	}

	return sub, nil
}

// DeleteSubscriber removes a subscriber permanently.
func (r *Repository) DeleteSubscriber(ctx context.Context, id string) error {
	query := `DELETE FROM subscribers WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSubscriberNotFound
	}

	return nil
}

// scanSubscriber scans a joined subscriber row into the domain model.
func scanSubscriber(row pgx.Row) (*model.Subscriber, error) {
	var (
		sub       model.Subscriber
		ownerID   *string
		ownerName *string
	)

	if err := row.Scan(&sub.ID, &sub.Email, &sub.Created, &ownerID, &ownerName); err != nil {
		return nil, err
	}

	if ownerID != nil {
		sub.Owner = &model.OwnerRef{ID: *ownerID}
		if ownerName != nil {
			sub.Owner.DisplayName = *ownerName
		}
	}

	return &sub, nil
}
