// Package syncclient talks to the remote sync API. Sync is explicit and
// manual: nothing here is called from schedule mutations, and failures are
// returned to the caller without touching local state.
package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sovanreach/weekplan/internal/models"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken sets the bearer token used on protected routes.
func (c *Client) SetToken(token string) {
	c.token = token
}

// LoginResult carries the credential returned by a successful login.
type LoginResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// Register creates a new account on the server.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	resp, err := c.post(ctx, "/api/auth/register", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return apiError("register", resp)
	}
	return nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	resp, err := c.post(ctx, "/api/auth/login", body)
	if err != nil {
		return LoginResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return LoginResult{}, apiError("login", resp)
	}

	var result LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return LoginResult{}, fmt.Errorf("failed to decode login response: %w", err)
	}
	c.token = result.Token
	return result, nil
}

// SaveSchedule pushes the week schedule to the server, overwriting any
// previously saved copy.
func (c *Client) SaveSchedule(ctx context.Context, week models.WeekSchedule) error {
	body := map[string]models.WeekSchedule{"schedule": week}
	resp, err := c.post(ctx, "/api/schedule/save", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError("save schedule", resp)
	}
	return nil
}

// FetchSchedule retrieves the saved week schedule, or nil if the server has
// none for this user.
func (c *Client) FetchSchedule(ctx context.Context) (*models.WeekSchedule, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/schedule", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("fetch schedule", resp)
	}

	var result struct {
		Schedule *models.WeekSchedule `json:"schedule"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode schedule response: %w", err)
	}
	return result.Schedule, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	return c.http.Do(req)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func apiError(op string, resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("%s failed: %s (status %d)", op, payload.Error, resp.StatusCode)
	}
	return fmt.Errorf("%s failed with status %d", op, resp.StatusCode)
}
