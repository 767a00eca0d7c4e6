// Package client is the task manager front end: it talks to the task API and
// keeps a local mirror to fall back on when the API is unreachable.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	dom "Tasker/internal/domain"
	"Tasker/internal/dto"
)

// API is the subset of the task API the manager needs.
type API interface {
	List(ctx context.Context) ([]dom.Task, error)
	Create(ctx context.Context, req dto.CreateTaskRequest) (dom.Task, error)
	Update(ctx context.Context, id int64, req dto.UpdateTaskRequest) (dom.Task, error)
	Delete(ctx context.Context, id int64) error
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// HTTPClient calls the JSON API rooted at baseURL (e.g. http://localhost:5000/api/tasks).
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) List(ctx context.Context) ([]dom.Task, error) {
	var list []dom.Task
	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) Create(ctx context.Context, req dto.CreateTaskRequest) (dom.Task, error) {
	var t dom.Task
	err := c.do(ctx, http.MethodPost, c.baseURL, req, &t)
	return t, err
}

func (c *HTTPClient) Update(ctx context.Context, id int64, req dto.UpdateTaskRequest) (dom.Task, error) {
	var t dom.Task
	err := c.do(ctx, http.MethodPut, c.taskURL(id), req, &t)
	return t, err
}

func (c *HTTPClient) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.taskURL(id), nil, nil)
}

func (c *HTTPClient) taskURL(id int64) string {
	return c.baseURL + "/" + strconv.FormatInt(id, 10)
}

func (c *HTTPClient) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e dto.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Message}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
