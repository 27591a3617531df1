package timesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("timesheet api: %d: %s", e.StatusCode, e.Message)
}

// Client talks to a timesheet service. The zero value is not usable; use
// NewClient. Token, when set, is sent as a bearer credential on every call.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithToken returns a copy of the client carrying the given bearer token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ============================================================================
// Setup & auth
// ============================================================================

func (c *Client) SetupStatus(ctx context.Context) (SetupStatusResponse, error) {
	var out SetupStatusResponse
	err := c.do(ctx, http.MethodGet, "/api/setup", nil, &out)
	return out, err
}

func (c *Client) CreateFirstAdmin(ctx context.Context, req SetupRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/setup", req, &out)
	return out, err
}

func (c *Client) RequestMagicLink(ctx context.Context, email string) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/magic-link", MagicLinkRequest{Email: email}, &out)
	return out, err
}

func (c *Client) ConsumeMagicLink(ctx context.Context, token string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodGet, "/api/auth/magic-link/"+url.PathEscape(token), nil, &out)
	return out, err
}

// ============================================================================
// Users, clients, projects
// ============================================================================

func (c *Client) ListUsers(ctx context.Context) (ListUsersResponse, error) {
	var out ListUsersResponse
	err := c.do(ctx, http.MethodGet, "/api/users", nil, &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (UserInfo, error) {
	var out UserInfo
	err := c.do(ctx, http.MethodPost, "/api/users", req, &out)
	return out, err
}

func (c *Client) ListClients(ctx context.Context) (ListClientsResponse, error) {
	var out ListClientsResponse
	err := c.do(ctx, http.MethodGet, "/api/clients", nil, &out)
	return out, err
}

func (c *Client) CreateClient(ctx context.Context, req CreateClientRequest) (ClientInfo, error) {
	var out ClientInfo
	err := c.do(ctx, http.MethodPost, "/api/clients", req, &out)
	return out, err
}

func (c *Client) ListProjects(ctx context.Context) (ListProjectsResponse, error) {
	var out ListProjectsResponse
	err := c.do(ctx, http.MethodGet, "/api/projects", nil, &out)
	return out, err
}

func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (ProjectInfo, error) {
	var out ProjectInfo
	err := c.do(ctx, http.MethodPost, "/api/projects", req, &out)
	return out, err
}

// ============================================================================
// Time entries & timesheet
// ============================================================================

func (c *Client) CreateTimeEntry(ctx context.Context, req CreateTimeEntryRequest) (TimeEntryInfo, error) {
	var out TimeEntryInfo
	err := c.do(ctx, http.MethodPost, "/api/time-entries", req, &out)
	return out, err
}

func (c *Client) BatchUpsert(ctx context.Context, entries []BatchEntry) error {
	return c.do(ctx, http.MethodPost, "/api/time-entries/batch", entries, nil)
}

func (c *Client) BulkDelete(ctx context.Context, req BulkDeleteRequest) (BulkDeleteResponse, error) {
	var out BulkDeleteResponse
	err := c.do(ctx, http.MethodPost, "/api/time-entries/bulk-delete", req, &out)
	return out, err
}

// Timesheet fetches the weekly grid for the week containing date
// (YYYY-MM-DD). An empty userID means the signed-in user.
func (c *Client) Timesheet(ctx context.Context, userID, date string) (TimesheetResponse, error) {
	q := url.Values{}
	if userID != "" {
		q.Set("user_id", userID)
	}
	q.Set("date", date)

	var out TimesheetResponse
	err := c.do(ctx, http.MethodGet, "/api/timesheet?"+q.Encode(), nil, &out)
	return out, err
}

func (c *Client) SubmitTimesheet(ctx context.Context, req SubmitTimesheetRequest) (TimesheetResponse, error) {
	var out TimesheetResponse
	err := c.do(ctx, http.MethodPost, "/api/timesheet", req, &out)
	return out, err
}
