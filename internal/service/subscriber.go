// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/maillist/maillist/internal/metrics"
	"github.com/maillist/maillist/internal/model"
	"github.com/maillist/maillist/internal/repository"
)

// Service errors.
var (
	ErrSubscriberNotFound = errors.New("subscriber not found")
)

// SubscriberStore is the persistence boundary for subscribers.
// *repository.Repository satisfies it; tests substitute an in-memory fake.
type SubscriberStore interface {
	CreateSubscriber(ctx context.Context, sub *model.Subscriber) error
	GetSubscriberByID(ctx context.Context, id string) (*model.Subscriber, error)
	ListSubscribers(ctx context.Context) ([]*model.Subscriber, error)
	UpdateSubscriber(ctx context.Context, id string, patch model.SubscriberPatch) (*model.Subscriber, error)
	DeleteSubscriber(ctx context.Context, id string) error
}

// SubscriberService handles subscriber business logic.
type SubscriberService struct {
	store   SubscriberStore
	metrics metrics.Recorder
}

// NewSubscriberService creates a new SubscriberService.
func NewSubscriberService(store SubscriberStore, recorder metrics.Recorder) *SubscriberService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SubscriberService{
		store:   store,
		metrics: recorder,
	}
}

// CreateSubscriberInput defines input for creating a subscriber.
type CreateSubscriberInput struct {
	Email string
	// Owner is the authenticated identity of the creating request,
	// nil for anonymous callers. The binding set here is final.
	Owner *model.Identity
}

// Create validates and persists a new subscriber. The store assigns
// nothing: ID and creation time are fixed here, before the insert.
func (s *SubscriberService) Create(ctx context.Context, input CreateSubscriberInput) (*model.Subscriber, error) {
	sub := &model.Subscriber{
		ID:      newID(),
		Email:   strings.TrimSpace(input.Email),
		Created: time.Now().UTC(),
	}
	if input.Owner != nil {
		sub.Owner = &model.OwnerRef{
			ID:          input.Owner.UserID,
			DisplayName: input.Owner.DisplayName,
		}
	}

	if err := sub.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateSubscriber(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}

	s.metrics.IncSubscriberCreated()

	return sub, nil
}

// Get retrieves a subscriber by ID with its owner projection.
func (s *SubscriberService) Get(ctx context.Context, id string) (*model.Subscriber, error) {
	sub, err := s.store.GetSubscriberByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriberNotFound) {
			return nil, ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("get subscriber: %w", err)
	}
	return sub, nil
}

// List retrieves all subscribers, newest first.
func (s *SubscriberService) List(ctx context.Context) ([]*model.Subscriber, error) {
	start := time.Now()

	subs, err := s.store.ListSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}

	s.metrics.IncListServed()
	s.metrics.ObserveListDuration(time.Since(start))

	return subs, nil
}

// Update applies a partial update to a subscriber and returns the
// result. Fields absent from the patch keep their stored value; the
// store performs the merge atomically, so concurrent updates cannot
// clobber fields they did not touch.
func (s *SubscriberService) Update(ctx context.Context, id string, patch model.SubscriberPatch) (*model.Subscriber, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	if patch.Email != nil {
		trimmed := strings.TrimSpace(*patch.Email)
		patch.Email = &trimmed
	}

	// An empty payload merges nothing; return the current record.
	if patch.IsEmpty() {
		return s.Get(ctx, id)
	}

	sub, err := s.store.UpdateSubscriber(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriberNotFound) {
			return nil, ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("update subscriber: %w", err)
	}

	s.metrics.IncSubscriberUpdated()

	return sub, nil
}

// Delete removes a subscriber permanently.
func (s *SubscriberService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteSubscriber(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSubscriberNotFound) {
			return ErrSubscriberNotFound
		}
		return fmt.Errorf("delete subscriber: %w", err)
	}

	s.metrics.IncSubscriberDeleted()

	return nil
}

// newID generates a lexicographically sortable unique identifier.
func newID() string {
	return ulid.Make().String()
}
