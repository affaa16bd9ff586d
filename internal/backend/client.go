// HTTP client for the job-tracker backend consumed by the coordinator.
// Every request carries the bearer token; non-2xx responses surface as a
// typed APIError with the raw status and body, and nothing is retried.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go-autofill-automation/internal/profile"
	"go-autofill-automation/internal/store"
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx backend response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Body)
}

func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Login exchanges credentials for a bearer token and keeps it for
// subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	c.SetToken(resp.Token)
	return resp.Token, nil
}

// ResumeData fetches the candidate profile, optionally pinned to a resume
// version.
func (c *Client) ResumeData(ctx context.Context, versionID string) (*profile.CandidateProfile, error) {
	path := "/extension/resume-data"
	if versionID != "" {
		path += "?version_id=" + url.QueryEscape(versionID)
	}
	var p profile.CandidateProfile
	if err := c.do(ctx, http.MethodGet, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Template holds job-specific generated content.
type Template struct {
	CoverLetter string            `json:"cover_letter,omitempty"`
	Answers     map[string]string `json:"answers,omitempty"`
}

func (c *Client) ApplicationTemplate(ctx context.Context, jobID string) (*Template, error) {
	var t Template
	if err := c.do(ctx, http.MethodGet, "/extension/application-template/"+url.PathEscape(jobID), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) Settings(ctx context.Context) (*store.Settings, error) {
	var s store.Settings
	if err := c.do(ctx, http.MethodGet, "/extension/settings", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) UpdateSettings(ctx context.Context, s store.Settings) error {
	return c.do(ctx, http.MethodPatch, "/extension/settings", s, nil)
}

func (c *Client) LogActivity(ctx context.Context, e store.ActivityEntry) error {
	return c.do(ctx, http.MethodPost, "/extension/activity", e, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
