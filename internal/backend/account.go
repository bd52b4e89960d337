package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MinSearchQuery is the shortest location query worth sending.
const MinSearchQuery = 2

var ErrPollExhausted = errors.New("payment is being processed, credits will be added shortly")

// --------------------------------------------------
// Auth (proxied unchanged)
// --------------------------------------------------

func (c *Client) Register(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", body, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &out)
	return out, err
}

// User is the caller's profile as the backend stores it.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
	Credits int    `json:"credits"`
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// IsAdmin reports whether the caller carried by ctx is an admin.
func (c *Client) IsAdmin(ctx context.Context) (bool, error) {
	u, err := c.Me(ctx)
	if err != nil {
		return false, err
	}
	return u.IsAdmin, nil
}

// --------------------------------------------------
// Location search
// --------------------------------------------------

// SearchLocations returns the backend's matches as opaque JSON objects.
func (c *Client) SearchLocations(ctx context.Context, query string) ([]json.RawMessage, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchQuery {
		return []json.RawMessage{}, nil
	}

	var out struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/location/search?query="+url.QueryEscape(query), nil, &out); err != nil {
		return nil, err
	}
	if out.Results == nil {
		out.Results = []json.RawMessage{}
	}
	return out.Results, nil
}

// --------------------------------------------------
// Credits checkout
// --------------------------------------------------

type CheckoutStatus struct {
	Status       string `json:"status"`
	CreditsAdded int    `json:"credits_added"`
}

func (s CheckoutStatus) Terminal() bool {
	switch s.Status {
	case "completed", "expired", "failed":
		return true
	}
	return false
}

func (c *Client) CheckoutStatus(ctx context.Context, checkoutID string) (*CheckoutStatus, error) {
	var st CheckoutStatus
	if err := c.doJSON(ctx, http.MethodGet, "/credits/status/"+url.PathEscape(checkoutID), nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// PollCheckoutStatus asks for the checkout status until it is terminal, the
// attempts run out (ErrPollExhausted with the last status), a request fails,
// or ctx is done.
func (c *Client) PollCheckoutStatus(
	ctx context.Context,
	checkoutID string,
	interval time.Duration,
	maxAttempts int,
) (*CheckoutStatus, error) {

	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; ; attempt++ {
		st, err := c.CheckoutStatus(ctx, checkoutID)
		if err != nil {
			return nil, err
		}

		if st.Terminal() {
			return st, nil
		}

		if attempt >= maxAttempts {
			return st, ErrPollExhausted
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return st, ctx.Err()
		case <-timer.C:
		}
	}
}
