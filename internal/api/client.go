// Package api provides the client for the cadence budgeting data service.
// The service owns persistence; this client only fetches snapshots and
// submits mutations. It never retries internally.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cadence/internal/model"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	dateFormat     = "2006-01-02"
)

var (
	// ErrUnauthorized indicates the session token is expired or invalid.
	ErrUnauthorized = errors.New("api: unauthorized (session expired or invalid)")
	// ErrRateLimited indicates the service rate limit was hit.
	ErrRateLimited = errors.New("api: rate limited")
	// ErrUnavailable indicates the service could not be reached. Callers
	// decide whether to fall back to the local snapshot.
	ErrUnavailable = errors.New("api: service unavailable")
)

// Client talks to the budgeting REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given server. The token may be empty
// for auth-only calls.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{},
	}
}

// Register creates a user account and returns a session token.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", registerRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Login authenticates and returns a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListIncomes returns all income sources for the user.
func (c *Client) ListIncomes(ctx context.Context) ([]model.Income, error) {
	var incomes []model.Income
	if err := c.do(ctx, http.MethodGet, "/incomes", nil, &incomes); err != nil {
		return nil, err
	}
	return incomes, nil
}

// ListExpenses returns the expense set the server attributes to the given
// window, both ends inclusive.
func (c *Client) ListExpenses(ctx context.Context, start, end time.Time) ([]model.Expense, error) {
	q := url.Values{}
	q.Set("start", start.Format(dateFormat))
	q.Set("end", end.Format(dateFormat))

	var expenses []model.Expense
	if err := c.do(ctx, http.MethodGet, "/expenses?"+q.Encode(), nil, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// GetRatio returns the user's committed budget ratio.
func (c *Client) GetRatio(ctx context.Context) (model.Ratio, error) {
	var ratio model.Ratio
	if err := c.do(ctx, http.MethodGet, "/budget-ratio", nil, &ratio); err != nil {
		return model.Ratio{}, err
	}
	return ratio, nil
}

// UpdateRatio atomically replaces the budget ratio.
func (c *Client) UpdateRatio(ctx context.Context, ratio model.Ratio) error {
	return c.do(ctx, http.MethodPut, "/budget-ratio", ratio, nil)
}

// CreateIncome stores a new income and returns it with its assigned ID.
func (c *Client) CreateIncome(ctx context.Context, inc model.Income) (model.Income, error) {
	var created model.Income
	if err := c.do(ctx, http.MethodPost, "/incomes", inc, &created); err != nil {
		return model.Income{}, err
	}
	return created, nil
}

// SetMainIncome promotes the income to main. The server demotes any previous
// holder in the same transaction, so two incomes are never both main.
func (c *Client) SetMainIncome(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/incomes/"+url.PathEscape(id)+"/main", nil, nil)
}

// DeleteIncome removes an income source.
func (c *Client) DeleteIncome(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/incomes/"+url.PathEscape(id), nil, nil)
}

// CreateExpense stores a new expense and returns it with its assigned ID.
func (c *Client) CreateExpense(ctx context.Context, e model.Expense) (model.Expense, error) {
	var created model.Expense
	if err := c.do(ctx, http.MethodPost, "/expenses", e, &created); err != nil {
		return model.Expense{}, err
	}
	return created, nil
}

// DeleteExpense removes an expense.
func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/expenses/"+url.PathEscape(id), nil, nil)
}

// do performs one JSON request/response round trip.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("api: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("api: parsing response: %w", err)
		}
	}
	return nil
}

// apiError surfaces the server's error message when it sent one.
func apiError(status int, body []byte) error {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return fmt.Errorf("api: %s (status %d)", e.Error, status)
	}
	return fmt.Errorf("api: unexpected status %d", status)
}
