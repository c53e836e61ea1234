package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/models"
)

// RemoteError is returned for any non-2xx answer of the remote API.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: remote API returned %d: %s", e.Op, e.StatusCode, strings.TrimSpace(e.Body))
}

// Unwrap maps the server's error message back onto the shared sentinels so
// callers can match a remote rejection with errors.Is.
func (e *RemoteError) Unwrap() error {
	var body struct {
		Error string `json:"error"`
	}
	msg := e.Body
	if json.Unmarshal([]byte(e.Body), &body) == nil && body.Error != "" {
		msg = body.Error
	}
	switch {
	case strings.Contains(msg, models.ErrUnknownUser.Error()):
		return models.ErrUnknownUser
	case strings.Contains(msg, models.ErrInvalidStatus.Error()):
		return models.ErrInvalidStatus
	case strings.Contains(msg, core.ErrMissingDate.Error()):
		return core.ErrMissingDate
	}
	return nil
}

// RemoteBackend talks to the HTTP API served by cmd/server.
type RemoteBackend struct {
	baseURL string
	client  *http.Client
	names   map[string]string
	logger  *zap.Logger
}

// NewRemoteBackend creates a backend for the API at baseURL.
func NewRemoteBackend(baseURL string, timeout time.Duration, names map[string]string, logger *zap.Logger) *RemoteBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		names:   names,
		logger:  logger,
	}
}

func (r *RemoteBackend) Mode() string { return core.ModeAPI }

// Ping checks that the API answers GET /api/ping.
func (r *RemoteBackend) Ping(ctx context.Context) error {
	return r.do(ctx, "ping", http.MethodGet, "/api/ping", nil, nil)
}

// Load fetches GET /api/data.
func (r *RemoteBackend) Load(ctx context.Context) (*models.TrackerState, error) {
	var raw json.RawMessage
	if err := r.do(ctx, "load", http.MethodGet, "/api/data", nil, &raw); err != nil {
		return nil, err
	}
	state, err := models.ParseState(raw)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return core.RemapNames(state, r.names), nil
}

// Mark posts to /api/mark.
func (r *RemoteBackend) Mark(ctx context.Context, date, user string, status models.Status) error {
	req := models.MarkRequest{Date: date, User: user, Status: status}
	return r.do(ctx, "mark", http.MethodPost, "/api/mark", req, nil)
}

// CloseDay posts to /api/close-day and returns the server's changed count.
func (r *RemoteBackend) CloseDay(ctx context.Context, date string) (int, error) {
	var resp models.CloseDayResponse
	if err := r.do(ctx, "close-day", http.MethodPost, "/api/close-day", models.CloseDayRequest{Date: date}, &resp); err != nil {
		return 0, err
	}
	return resp.Changed, nil
}

// InitUsers posts to /api/init.
func (r *RemoteBackend) InitUsers(ctx context.Context, users []string) error {
	if users == nil {
		users = []string{}
	}
	return r.do(ctx, "init", http.MethodPost, "/api/init", models.InitRequest{Users: users}, nil)
}

func (r *RemoteBackend) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		r.logger.Debug("Remote API rejected request", zap.String("op", op), zap.Int("status", resp.StatusCode))
		return &RemoteError{Op: op, StatusCode: resp.StatusCode, Body: string(text)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}
