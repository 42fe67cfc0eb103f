// Package client provides a Go client for the subscriber API and a
// list controller that keeps a local cache synchronized with server
// state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Subscriber mirrors the wire representation of a subscriber record.
type Subscriber struct {
	ID      string    `json:"_id"`
	Email   string    `json:"email"`
	Created time.Time `json:"created"`
	Owner   *Owner    `json:"owner,omitempty"`
}

// Owner is the projection of the owning user on a subscriber record.
type Owner struct {
	ID          string `json:"_id"`
	DisplayName string `json:"displayName"`
}

// APIError is a failure response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the subscriber API over HTTP.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithToken sets the bearer session token for authenticated calls.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the session token, e.g. after a signin.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Create submits a new subscriber. Only the email address is sent.
func (c *Client) Create(ctx context.Context, email string) (*Subscriber, error) {
	payload := map[string]string{"email": email}

	var sub Subscriber
	if err := c.do(ctx, http.MethodPost, "/subscribers", payload, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Get retrieves a single subscriber by ID.
func (c *Client) Get(ctx context.Context, id string) (*Subscriber, error) {
	var sub Subscriber
	if err := c.do(ctx, http.MethodGet, "/subscribers/"+id, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// List retrieves all subscribers, newest first.
func (c *Client) List(ctx context.Context) ([]*Subscriber, error) {
	var subs []*Subscriber
	if err := c.do(ctx, http.MethodGet, "/subscribers", nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Update sends the full subscriber object back to the server and
// returns the stored result.
func (c *Client) Update(ctx context.Context, sub *Subscriber) (*Subscriber, error) {
	var updated Subscriber
	if err := c.do(ctx, http.MethodPut, "/subscribers/"+sub.ID, sub, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a subscriber and returns its prior representation.
func (c *Client) Delete(ctx context.Context, id string) (*Subscriber, error) {
	var prior Subscriber
	if err := c.do(ctx, http.MethodDelete, "/subscribers/"+id, nil, &prior); err != nil {
		return nil, err
	}
	return &prior, nil
}

// do performs an HTTP round trip, mapping failure responses to APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// decodeError extracts the {message} envelope from a failure response.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
		apiErr.Message = envelope.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
