// Package api talks to the remote persistence backend that stores games
// (/api/juegos) and reviews (/api/resenas).
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

	"gametracker/models"
)

const (
	gamesPath   = "/api/juegos"
	reviewsPath = "/api/resenas"

	maxBodyBytes = 8 << 20
)

// ErrNotFound is wrapped by *Error when the API answers 404.
var ErrNotFound = errors.New("not found")

// Error describes a failed API call.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether a manual retry may succeed: transport failures,
// 5xx answers and an open breaker.
func Retryable(err error) bool {
	if errors.Is(err, ErrCircuitOpen) {
		return true
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 0 || apiErr.StatusCode >= 500
	}
	return false
}

// StatusCode maps err to the status the BFF should answer with.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return apiErr.StatusCode
	}
	if errors.Is(err, ErrCircuitOpen) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *CircuitBreaker
}

// NewClient builds a client for baseURL. A nil breaker disables tripping.
func NewClient(baseURL string, timeout time.Duration, breaker *CircuitBreaker) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
	}
}

// BreakerState reports the breaker state for health checks.
func (c *Client) BreakerState() State {
	if c.breaker == nil {
		return StateClosed
	}
	return c.breaker.GetState()
}

// ==================== GAMES ====================

func (c *Client) ListGames(ctx context.Context) ([]models.RawGame, error) {
	var games []models.RawGame
	err := c.do(ctx, "list games", http.MethodGet, gamesPath, nil, &games)
	return games, err
}

func (c *Client) GetGame(ctx context.Context, id string) (models.RawGame, error) {
	var game models.RawGame
	err := c.do(ctx, "get game", http.MethodGet, itemPath(gamesPath, id), nil, &game)
	return game, err
}

func (c *Client) CreateGame(ctx context.Context, game models.RawGame) (models.RawGame, error) {
	var created models.RawGame
	err := c.do(ctx, "create game", http.MethodPost, gamesPath, game, &created)
	return created, err
}

func (c *Client) UpdateGame(ctx context.Context, id string, game models.RawGame) (models.RawGame, error) {
	var updated models.RawGame
	err := c.do(ctx, "update game", http.MethodPut, itemPath(gamesPath, id), game, &updated)
	return updated, err
}

// PatchGame sends only the given raw fields.
func (c *Client) PatchGame(ctx context.Context, id string, fields map[string]interface{}) (models.RawGame, error) {
	var updated models.RawGame
	err := c.do(ctx, "patch game", http.MethodPatch, itemPath(gamesPath, id), fields, &updated)
	return updated, err
}

func (c *Client) DeleteGame(ctx context.Context, id string) error {
	return c.do(ctx, "delete game", http.MethodDelete, itemPath(gamesPath, id), nil, nil)
}

// ==================== REVIEWS ====================

func (c *Client) ListReviews(ctx context.Context) ([]models.RawReview, error) {
	var reviews []models.RawReview
	err := c.do(ctx, "list reviews", http.MethodGet, reviewsPath, nil, &reviews)
	return reviews, err
}

func (c *Client) GetReview(ctx context.Context, id string) (models.RawReview, error) {
	var review models.RawReview
	err := c.do(ctx, "get review", http.MethodGet, itemPath(reviewsPath, id), nil, &review)
	return review, err
}

func (c *Client) CreateReview(ctx context.Context, review models.RawReview) (models.RawReview, error) {
	var created models.RawReview
	err := c.do(ctx, "create review", http.MethodPost, reviewsPath, review, &created)
	return created, err
}

func (c *Client) UpdateReview(ctx context.Context, id string, review models.RawReview) (models.RawReview, error) {
	var updated models.RawReview
	err := c.do(ctx, "update review", http.MethodPut, itemPath(reviewsPath, id), review, &updated)
	return updated, err
}

func (c *Client) PatchReview(ctx context.Context, id string, fields map[string]interface{}) (models.RawReview, error) {
	var updated models.RawReview
	err := c.do(ctx, "patch review", http.MethodPatch, itemPath(reviewsPath, id), fields, &updated)
	return updated, err
}

func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.do(ctx, "delete review", http.MethodDelete, itemPath(reviewsPath, id), nil, nil)
}

// ==================== TRANSPORT ====================

func itemPath(base, id string) string {
	return base + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, dest interface{}) error {
	call := func() error {
		return c.roundTrip(ctx, op, method, path, body, dest)
	}
	if c.breaker == nil {
		return call()
	}
	err := c.breaker.Execute(call, Retryable)
	if errors.Is(err, ErrCircuitOpen) {
		return &Error{Op: op, Err: err}
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Err: fmt.Errorf("failed to marshal body: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
		if resp.StatusCode == http.StatusNotFound {
			apiErr.Err = ErrNotFound
		}
		return apiErr
	}

	if dest == nil {
		return nil
	}
	if err := decode(data, dest); err != nil {
		return &Error{Op: op, StatusCode: http.StatusBadGateway, Message: "malformed response: " + err.Error()}
	}
	return nil
}

// decode accepts a bare payload or one wrapped as {"data": ...}.
func decode(data []byte, dest interface{}) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Data) > 0 {
			trimmed = envelope.Data
		}
	}
	return json.Unmarshal(trimmed, dest)
}

func errorMessage(data []byte, status int) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return http.StatusText(status)
}
