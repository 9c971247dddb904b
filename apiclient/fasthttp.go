package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskgo/client/api/transport"
	"github.com/taskgo/client/domain"
)

// Config holds the transport settings for the fasthttp-backed client.
type Config struct {
	BaseURL      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxConns     int
	// Dial overrides the TCP dialer; tests point it at an in-memory listener.
	Dial fasthttp.DialFunc
}

// HTTPClient implements Client over fasthttp.
type HTTPClient struct {
	baseURL string
	http    *fasthttp.Client
	logger  *zap.Logger
}

// NewHTTP builds a Client against cfg.BaseURL. Timeouts belong to the
// transport; callers apply no additional per-request deadlines.
func NewHTTP(cfg Config, logger *zap.Logger) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	hc := &fasthttp.Client{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if cfg.MaxConns > 0 {
		hc.MaxConnsPerHost = cfg.MaxConns
	}
	if cfg.Dial != nil {
		hc.Dial = cfg.Dial
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		logger:  logger,
	}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	body := transport.LoginRequest{Email: email, Password: password}
	var resp transport.LoginResponse
	if err := c.call(ctx, http.MethodPost, "/api/login", "", body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User.ID == 0 {
		return nil, domain.Transport("login response missing token or user", nil)
	}
	return &domain.Session{Token: resp.Token, User: resp.User}, nil
}

func (c *HTTPClient) Register(ctx context.Context, req transport.RegisterRequest) (*domain.User, error) {
	var resp transport.RegisterResponse
	if err := c.call(ctx, http.MethodPost, "/api/register", "", req, &resp); err != nil {
		return nil, err
	}
	if resp.User.ID == 0 {
		return nil, domain.Transport("register response missing user", nil)
	}
	return &resp.User, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	body := transport.ForgotPasswordRequest{Email: strings.TrimSpace(email)}
	var resp transport.MessageResponse
	if err := c.call(ctx, http.MethodPost, "/api/forgot-password", "", body, &resp); err != nil {
		return "", err
	}
	return resp.Message.String(), nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	// This endpoint returns the bare user record, not a wrapper.
	var user domain.User
	if err := c.call(ctx, http.MethodGet, "/api/user", token, nil, &user); err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, domain.Transport("current user response missing id", nil)
	}
	return &user, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, req transport.ProfileUpdateRequest) (*transport.UserPatch, error) {
	var resp transport.ProfileUpdateResponse
	if err := c.call(ctx, http.MethodPut, "/api/user/update", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, domain.Transport("profile update response missing user", nil)
	}
	return resp.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	var resp transport.MessageResponse
	return c.call(ctx, http.MethodPost, "/api/logout", token, nil, &resp)
}

func (c *HTTPClient) ListTasks(ctx context.Context, token string) ([]domain.Task, error) {
	var resp transport.TodosResponse
	if err := c.call(ctx, http.MethodGet, "/api/todos", token, nil, &resp); err != nil {
		return nil, err
	}
	// Server order is preserved; the client imposes no re-sorting.
	return resp.Todos, nil
}

func (c *HTTPClient) CreateTask(ctx context.Context, token string, req transport.TaskCreateRequest) (string, error) {
	var resp transport.MessageResponse
	if err := c.call(ctx, http.MethodPost, "/api/todos", token, req, &resp); err != nil {
		return "", err
	}
	return resp.Message.String(), nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, token string, id int64, req transport.TaskUpdateRequest) (string, error) {
	var resp transport.MessageResponse
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/api/todos/%d", id), token, req, &resp); err != nil {
		return "", err
	}
	return resp.Message.String(), nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, token string, id int64) error {
	var resp transport.MessageResponse
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/todos/%d", id), token, nil, &resp)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", "", nil, nil)
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// call performs one round trip and decodes the response into out (when out is
// non-nil). All error mapping for the package happens here.
func (c *HTTPClient) call(ctx context.Context, method, path, token string, in, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return domain.Transport("request canceled", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "encode request", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	start := time.Now()
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.http.DoDeadline(req, resp, deadline)
	} else {
		err = c.http.Do(req, resp)
	}
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("request_id", reqID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return domain.Transport("server unreachable", err)
	}

	status := resp.StatusCode()
	c.logger.Debug("request completed",
		zap.String("request_id", reqID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(start)))

	body := resp.Body()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		if out == nil || len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return domain.Transport("malformed response body", err)
		}
		return nil
	}

	return decodeFailure(status, body, token != "")
}

// decodeFailure maps a non-2xx response onto the error taxonomy. A 401 on an
// authenticated request is the universal session-invalid signal regardless of
// which operation triggered it.
func decodeFailure(status int, body []byte, authed bool) error {
	if authed && status == http.StatusUnauthorized {
		return domain.ErrSessionInvalid
	}
	var eb transport.ErrorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return domain.Transport(fmt.Sprintf("unexpected response (status %d)", status), err)
	}
	text := eb.JoinedText()
	if text == "" {
		text = fmt.Sprintf("request failed (status %d)", status)
	}
	return domain.Rejection(text)
}
