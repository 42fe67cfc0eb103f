package client

import (
	"context"
	"errors"
)

// SuccessMessage is shown after a successful subscribe.
const SuccessMessage = "Thank you!"

// ErrNoCurrent is returned by operations that need a loaded current
// subscriber when none is set.
var ErrNoCurrent = errors.New("no current subscriber loaded")

// ListController maintains a locally cached, ordered list of
// subscribers mirroring the last List response, plus a "current" slot
// for single-subscriber pages. Creation deliberately never inserts into
// the local cache: the subscribe form shows a static confirmation
// instead of the updated list. Removals splice the exact cached element
// by identity once the server confirms the delete.
type ListController struct {
	client *Client

	// Items is the local cache of the last list fetch.
	Items []*Subscriber
	// Current is the subscriber loaded by FindOne.
	Current *Subscriber

	// Success holds the confirmation message after a create.
	Success string
	// Err holds the server's message after a failed call.
	Err string

	// Navigate, when set, is invoked with a path after operations that
	// leave the current page.
	Navigate func(path string)
}

// NewListController creates a controller backed by the given client.
func NewListController(c *Client) *ListController {
	return &ListController{client: c}
}

// Create submits a new subscriber built from the email field only.
// On success the local cache is left untouched and Success is set; on
// failure the server's message is surfaced in Err. No retry.
func (lc *ListController) Create(ctx context.Context, email string) error {
	lc.Success, lc.Err = "", ""

	if _, err := lc.client.Create(ctx, email); err != nil {
		lc.Err = messageOf(err)
		return err
	}

	lc.Success = SuccessMessage
	return nil
}

// Remove deletes a subscriber. With a non-nil item it deletes that
// cached element and, after the server confirms, splices it out of the
// local cache by identity comparison, not id equality. With nil it
// deletes the current subscriber and navigates back to the list.
func (lc *ListController) Remove(ctx context.Context, item *Subscriber) error {
	lc.Err = ""

	if item != nil {
		if _, err := lc.client.Delete(ctx, item.ID); err != nil {
			lc.Err = messageOf(err)
			return err
		}

		for i, cached := range lc.Items {
			if cached == item {
				lc.Items = append(lc.Items[:i], lc.Items[i+1:]...)
				break
			}
		}
		return nil
	}

	if lc.Current == nil {
		return ErrNoCurrent
	}

	if _, err := lc.client.Delete(ctx, lc.Current.ID); err != nil {
		lc.Err = messageOf(err)
		return err
	}

	lc.Current = nil
	lc.navigate("/subscribers")
	return nil
}

// Update sends the full current subscriber back to the server and, on
// success, navigates to its page.
func (lc *ListController) Update(ctx context.Context) error {
	lc.Err = ""

	if lc.Current == nil {
		return ErrNoCurrent
	}

	updated, err := lc.client.Update(ctx, lc.Current)
	if err != nil {
		lc.Err = messageOf(err)
		return err
	}

	lc.Current = updated
	lc.navigate("/subscribers/" + updated.ID)
	return nil
}

// Find replaces the entire local cache with a fresh list fetch.
func (lc *ListController) Find(ctx context.Context) error {
	lc.Err = ""

	items, err := lc.client.List(ctx)
	if err != nil {
		lc.Err = messageOf(err)
		return err
	}

	lc.Items = items
	return nil
}

// FindOne loads a single subscriber into the current slot.
func (lc *ListController) FindOne(ctx context.Context, id string) error {
	lc.Err = ""

	sub, err := lc.client.Get(ctx, id)
	if err != nil {
		lc.Err = messageOf(err)
		return err
	}

	lc.Current = sub
	return nil
}

func (lc *ListController) navigate(path string) {
	if lc.Navigate != nil {
		lc.Navigate(path)
	}
}

// messageOf extracts the displayable message from a client error.
func messageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
