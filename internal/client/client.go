package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nhle/todoboard/internal/model"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether err is a 401 response, meaning the
// caller needs to (re)authenticate.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// CreateTodoRequest is the body for creating a todo. Date, when set,
// becomes the todo's calendar date.
type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date,omitempty"`
}

// UpdateTodoRequest is a partial update; nil fields are left untouched
// by the server.
type UpdateTodoRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	Position    *int    `json:"position,omitempty"`
	Section     *string `json:"section,omitempty"`
}

// Client is a typed HTTP client for the todoboard API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a Client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.token
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, name, email, password string) (model.User, error) {
	var user model.User
	body := map[string]string{"name": name, "email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &user)
	return user, err
}

// Login verifies credentials and stores the issued session token on
// the client.
func (c *Client) Login(ctx context.Context, email, password string) (model.User, error) {
	var resp struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return model.User{}, err
	}
	c.token = resp.Token
	return resp.User, nil
}

// Logout discards the session token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.token = ""
	return err
}

// Session returns the account for the current session.
func (c *Client) Session(ctx context.Context) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &user)
	return user, err
}

// ListTodos fetches the caller's todos ordered by position.
func (c *Client) ListTodos(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	err := c.do(ctx, http.MethodGet, "/api/todos", nil, &todos)
	return todos, err
}

// CreateTodo creates a todo at the end of the caller's list.
func (c *Client) CreateTodo(ctx context.Context, req CreateTodoRequest) (model.Todo, error) {
	var todo model.Todo
	err := c.do(ctx, http.MethodPost, "/api/todos", req, &todo)
	return todo, err
}

// GetTodo fetches a single todo by id.
func (c *Client) GetTodo(ctx context.Context, id string) (model.Todo, error) {
	var todo model.Todo
	err := c.do(ctx, http.MethodGet, "/api/todos/"+id, nil, &todo)
	return todo, err
}

// UpdateTodo applies a partial update to a todo.
func (c *Client) UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (model.Todo, error) {
	var todo model.Todo
	err := c.do(ctx, http.MethodPatch, "/api/todos/"+id, req, &todo)
	return todo, err
}

// DeleteTodo removes a todo by id.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/todos/"+id, nil, nil)
}

// ReorderTodos submits the full new ordering; the server assigns each
// todo the position of its index in ids.
func (c *Client) ReorderTodos(ctx context.Context, ids []string) error {
	type entry struct {
		ID string `json:"id"`
	}
	entries := make([]entry, len(ids))
	for i, id := range ids {
		entries[i] = entry{ID: id}
	}
	body := map[string]interface{}{"todos": entries}
	return c.do(ctx, http.MethodPost, "/api/todos/reorder", body, nil)
}

// do performs one API request, attaching the bearer token and decoding
// the JSON response into out when it is non-nil. Non-2xx responses are
// returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&msg); decodeErr == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
