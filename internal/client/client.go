// Package client is a typed HTTP client for the quiz API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vaughan-dsouza/QuizGo/internal/models"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type AuthResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type ResultRequest struct {
	Score     int `json:"score"`
	Attempted int `json:"attempted"`
	Correct   int `json:"correct"`
	TimeTaken int `json:"timeTaken"`
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(tok string) Option {
	return func(c *Client) { c.token = tok }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken changes the bearer token used for subsequent calls.
func (c *Client) SetToken(tok string) {
	c.token = tok
}

func (c *Client) Token() string {
	return c.token
}

// ---------------------- AUTH ----------------------

// Register creates an account and remembers the returned token.
func (c *Client) Register(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, "/auth/register", email, password)
}

// Login remembers the returned token as well.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*models.PublicUser, error) {
	var out struct {
		User models.PublicUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ---------------------- RESULTS ----------------------

func (c *Client) SubmitResult(ctx context.Context, r ResultRequest) (*models.QuizResult, error) {
	var out struct {
		Result models.QuizResult `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/results", r, &out); err != nil {
		return nil, err
	}
	return &out.Result, nil
}

func (c *Client) Results(ctx context.Context) ([]models.QuizResult, error) {
	var out struct {
		Results []models.QuizResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/results", nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// ---------------------- ADMIN ----------------------

func (c *Client) AdminUsers(ctx context.Context) ([]models.PublicUser, error) {
	var out struct {
		Users []models.PublicUser `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) AdminResults(ctx context.Context) ([]models.ResultWithEmail, error) {
	var out struct {
		Results []models.ResultWithEmail `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/results", nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) UserResults(ctx context.Context, id string) (*models.PublicUser, []models.QuizResult, error) {
	var out struct {
		User    models.PublicUser   `json:"user"`
		Results []models.QuizResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/users/"+url.PathEscape(id)+"/results", nil, &out); err != nil {
		return nil, nil, err
	}
	return &out.User, out.Results, nil
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/ping", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ---------------------- TRANSPORT ----------------------

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
