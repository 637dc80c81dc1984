// Package transport translates abstract operation calls into authenticated
// network exchanges with the gift service and classifies their outcomes.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/client/session"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/errors"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/logger"
)

// FallbackErrorMessage is surfaced when a failing response carries no
// readable error or message field.
const FallbackErrorMessage = "Something went wrong. Please try again."

// NetworkErrorMessage is surfaced when the request got no response at all.
const NetworkErrorMessage = "Unable to reach the gift service."

// Options configures a single request.
type Options struct {
	Method  string
	Body    interface{}
	Headers map[string]string
}

// errorBody is the loose error shape servers respond with; either field may
// be present.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Executor issues a single network call at a time from the caller's point of
// view, tracking shared pending/error state behind a stale-response guard:
// each call gets a monotonically increasing sequence number and only the
// newest issued call may publish its outcome. A superseded call still returns
// its own result to its own caller.
type Executor struct {
	baseURL  string
	client   *http.Client
	sessions *session.Store
	log      logger.Logger

	mu      sync.Mutex
	seq     uint64
	pending bool
	lastErr string
}

func NewExecutor(baseURL string, timeout time.Duration, sessions *session.Store, log logger.Logger) *Executor {
	return &Executor{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		sessions: sessions,
		log:      log.WithFields(map[string]interface{}{"component": "transport"}),
	}
}

// Pending reports whether the newest issued request is still in flight.
func (e *Executor) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Err returns the error message of the newest settled request, or "" after a
// success.
func (e *Executor) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Do issues one request. Relative endpoints resolve against the configured
// base address; absolute addresses are used as-is. The session's auth header
// is merged into the outgoing headers, with caller-supplied headers taking
// precedence on conflict. On 2xx the raw body is returned; otherwise the
// error message extracted from the body (or the generic fallback) is both
// stored as the current error and returned.
func (e *Executor) Do(ctx context.Context, endpoint string, opts Options) ([]byte, error) {
	seq := e.begin()

	body, err := e.send(ctx, endpoint, opts)
	if err != nil {
		if errors.IsAuth(err) {
			// The server no longer honors the stored token; drop the
			// session so the caller lands unauthenticated instead of
			// re-sending the rejected credentials.
			e.sessions.Clear()
			e.log.Info("session cleared after auth rejection", map[string]interface{}{
				"endpoint": endpoint,
			})
		}
		e.settle(seq, errors.MessageOf(err))
		return nil, err
	}

	e.settle(seq, "")
	return body, nil
}

func (e *Executor) send(ctx context.Context, endpoint string, opts Options) ([]byte, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var reqBody io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, errors.NewValidationError("request payload could not be encoded")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.resolve(endpoint), reqBody)
	if err != nil {
		return nil, errors.NewNetworkError(NetworkErrorMessage, err)
	}

	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := e.sessions.AuthHeader(); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	// Caller headers win on conflict.
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.log.Warn("request failed before response", map[string]interface{}{
			"endpoint": endpoint,
			"error":    err.Error(),
		})
		return nil, errors.NewNetworkError(NetworkErrorMessage, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError(NetworkErrorMessage, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := extractErrorMessage(data)
		e.log.Warn("request failed", map[string]interface{}{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
			"message":  msg,
		})
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, errors.NewAuthError(msg)
		}
		return nil, errors.NewServerError(msg, resp.StatusCode)
	}

	return data, nil
}

func (e *Executor) resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return e.baseURL + endpoint
}

// begin issues a new sequence number and marks the visible state pending.
func (e *Executor) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	e.pending = true
	e.lastErr = ""
	return e.seq
}

// settle publishes an outcome only if it belongs to the newest issued call.
func (e *Executor) settle(seq uint64, errMsg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if seq != e.seq {
		// Stale response: a newer request owns the visible state.
		return
	}
	e.pending = false
	e.lastErr = errMsg
}

// extractErrorMessage pulls a human-readable message out of a failure body,
// preferring "error" over "message", with a generic fallback.
func extractErrorMessage(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return FallbackErrorMessage
}
