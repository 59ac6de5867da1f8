package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/domain"
	appLogger "github.com/fastygo/taskflow/pkg/logger"
	"github.com/fastygo/taskflow/repository"
)

const headerRequestID = "X-Request-ID"

// Doer is the part of *fasthttp.Client the repositories rely on.
type Doer interface {
	DoDeadline(req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time) error
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	text := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, fasthttp.StatusMessage(e.Status))
	if e.Message != "" {
		text += ": " + e.Message
	}
	return text
}

// ServerMessage returns the reason the remote store gave, if any.
func (e *StatusError) ServerMessage() string {
	return e.Message
}

// IsStatus reports whether err is a StatusError with the given status.
func IsStatus(err error, status int) bool {
	var sErr *StatusError
	return errors.As(err, &sErr) && sErr.Status == status
}

// Client issues JSON requests against the remote store.
type Client struct {
	http    Doer
	baseURL string
	creds   repository.CredentialSource
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient builds an unauthenticated client. Use WithCredentials for calls
// that need a bearer token.
func NewClient(doer Doer, baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger,
	}
}

// WithCredentials returns a copy of c that authenticates every call with the
// token supplied by creds.
func (c *Client) WithCredentials(creds repository.CredentialSource) *Client {
	clone := *c
	clone.creds = creds
	return &clone
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	reqID := appLogger.RequestID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set(headerRequestID, reqID)
	log := c.logger.With(zap.String("request_id", reqID), zap.String("method", method), zap.String("path", path))

	if c.creds != nil {
		token, err := c.creds.Credential()
		if err != nil {
			return err
		}
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	started := time.Now()
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		log.Debug("remote call failed", zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	log.Debug("remote call", zap.Int("status", status), zap.Duration("elapsed", time.Since(started)))

	if status < 200 || status >= 300 {
		return &StatusError{
			Method:  method,
			Path:    path,
			Status:  status,
			Message: transport.ParseError(resp.Body()),
		}
	}

	if out == nil {
		return nil
	}
	raw := bytes.TrimSpace(resp.Body())
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("decode %s %s response", method, path), err)
	}
	return nil
}

func segment(id domain.ID) string {
	return url.PathEscape(id.String())
}

// decodeCollection accepts either a bare JSON array or an object wrapping the
// array under key. A missing key yields an empty list.
func decodeCollection(raw json.RawMessage, key string) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "decode "+key, err)
		}
		return items, nil
	case '{':
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "decode "+key, err)
		}
		inner, ok := wrapped[key]
		if !ok {
			return nil, nil
		}
		return decodeCollection(inner, key)
	}
	return nil, domain.NewError(domain.ErrCodeInvalid, "unexpected "+key+" payload")
}

// Ping reports whether the remote store answers at all. Any HTTP status
// counts as reachable, since the probe carries no credentials.
func (c *Client) Ping(ctx context.Context) error {
	err := c.WithCredentials(nil).do(ctx, fasthttp.MethodGet, "/projects", nil, nil)
	var statusErr *StatusError
	if err == nil || errors.As(err, &statusErr) {
		return nil
	}
	return err
}
