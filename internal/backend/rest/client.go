// Package rest implements the service.Service interface over the todos REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"todo/internal/config"
	"todo/internal/service"
)

const (
	// TodosPath is the collection endpoint relative to the base URL.
	TodosPath = "/api/todos"

	// RequestIDHeader carries a per-request correlation ID.
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 4 << 10
)

// RequestError is returned for non-2xx responses.
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	// Detail is the server's "detail" field, if any.
	Detail string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

var _ service.DetailedError = (*RequestError)(nil)

// ErrorDetail implements service.DetailedError.
func (e *RequestError) ErrorDetail() string {
	return e.Detail
}

// Is lets errors.Is(err, service.ErrNotFound) match 404 responses.
func (e *RequestError) Is(target error) bool {
	return target == service.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client implements service.Service using HTTP and JSON.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
	logger  *log.Logger
}

// New creates a client for the API configured in cfg.
func New(cfg *config.Config, logger *log.Logger) *Client {
	return NewWithHTTPClient(cfg.APIURL, cfg.Timeout.Duration, http.DefaultClient, logger)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, timeout time.Duration, httpClient *http.Client, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		timeout: timeout,
		logger:  logger,
	}
}

// ListTodos returns all todos in server order.
func (c *Client) ListTodos(ctx context.Context) ([]service.Todo, error) {
	var todos []service.Todo
	if err := c.do(ctx, http.MethodGet, c.collectionURL(), nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []service.Todo{}
	}
	return todos, nil
}

// CreateTodo creates a todo and returns the server's copy.
func (c *Client) CreateTodo(ctx context.Context, todo service.NewTodo) (service.Todo, error) {
	var created service.Todo
	if err := c.do(ctx, http.MethodPost, c.collectionURL(), todo, &created); err != nil {
		return service.Todo{}, err
	}
	return created, nil
}

// UpdateTodo sends the set fields of updates and returns the full updated todo.
func (c *Client) UpdateTodo(ctx context.Context, id int, updates service.TodoUpdate) (service.Todo, error) {
	var updated service.Todo
	if err := c.do(ctx, http.MethodPut, c.itemURL(id), updates, &updated); err != nil {
		return service.Todo{}, err
	}
	return updated, nil
}

// DeleteTodo deletes a todo. Any response body is ignored.
func (c *Client) DeleteTodo(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) collectionURL() string {
	return c.baseURL + TodosPath
}

func (c *Client) itemURL(id int) string {
	return c.baseURL + TodosPath + "/" + strconv.Itoa(id)
}

// do sends one request. body, if non-nil, is sent as JSON; out, if non-nil,
// receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request", "method", method, "url", url, "status", resp.StatusCode,
		"duration", time.Since(start), "request_id", reqID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newRequestError(method, url, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func newRequestError(method, url string, resp *http.Response) *RequestError {
	reqErr := &RequestError{Method: method, URL: url, StatusCode: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(data, &payload) == nil && len(payload.Detail) > 0 {
		var detail string
		if json.Unmarshal(payload.Detail, &detail) == nil {
			reqErr.Detail = detail
		} else {
			// Validation errors carry a structured detail.
			reqErr.Detail = string(payload.Detail)
		}
	}
	return reqErr
}

// wrapError gives transport errors a short message.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("request cancelled: %w", err)
	}
	return err
}
