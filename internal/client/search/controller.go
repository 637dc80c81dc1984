// Package search orchestrates query validation, dispatch, and result state
// for the gift search.
package search

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/client/transport"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/errors"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/logger"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/models"
)

// DefaultLimit is the number of listings requested per search.
const DefaultLimit = 20

// MinQueryLength is the minimum sanitized query length accepted for dispatch.
const MinQueryLength = 2

// ErrQueryTooShort is the validation message surfaced for rejected queries.
const ErrQueryTooShort = "search query must be at least 2 characters"

// State is the controller's visible lifecycle state.
type State int

const (
	StateIdle State = iota
	StatePending
	StateResultsReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateResultsReady:
		return "results_ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Requester is the transport capability the controller depends on.
type Requester interface {
	Do(ctx context.Context, endpoint string, opts transport.Options) ([]byte, error)
}

// Controller validates and sanitizes raw queries, dispatches them, and holds
// the current result set plus the error/loading indicator. A new Submit
// supersedes any in-flight one: the older request's context is cancelled and
// its response, should it still arrive, is not allowed to publish state.
type Controller struct {
	exec Requester
	log  logger.Logger

	mu      sync.Mutex
	state   State
	results []models.GiftListing
	errMsg  string
	seq     uint64
	cancel  context.CancelFunc
}

func NewController(exec Requester, log logger.Logger) *Controller {
	return &Controller{
		exec:  exec,
		log:   log.WithFields(map[string]interface{}{"component": "search"}),
		state: StateIdle,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Results returns the current result set. Never nil.
func (c *Controller) Results() []models.GiftListing {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.results == nil {
		return []models.GiftListing{}
	}
	return c.results
}

// Err returns the current error message, or "" outside StateError.
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Submit sanitizes rawQuery and runs a search. Queries shorter than
// MinQueryLength after sanitization transition straight to StateError with a
// validation message and issue no network call. Any state may re-enter
// through a new Submit.
func (c *Controller) Submit(ctx context.Context, rawQuery string) ([]models.GiftListing, error) {
	sanitized := Sanitize(rawQuery)
	if utf8.RuneCountInString(sanitized) < MinQueryLength {
		c.mu.Lock()
		// A rejected submission still supersedes whatever is in flight:
		// cancel it and take over the sequence so its late response
		// cannot replace the validation error.
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		c.seq++
		c.state = StateError
		c.errMsg = ErrQueryTooShort
		c.results = []models.GiftListing{}
		c.mu.Unlock()
		return nil, errors.NewValidationError(ErrQueryTooShort)
	}

	reqCtx, seq := c.beginSearch(ctx)
	defer c.finishSearch(seq)

	c.log.Debug("dispatching search", map[string]interface{}{
		"query": sanitized,
		"seq":   seq,
	})

	data, err := c.exec.Do(reqCtx, "/search", transport.Options{
		Method: http.MethodPost,
		Body:   models.SearchRequest{Query: sanitized, Limit: DefaultLimit},
	})
	if err != nil {
		c.publishError(seq, errors.MessageOf(err))
		return nil, err
	}

	resp, err := models.DecodeSearchResponse(data)
	if err != nil {
		msg := transport.FallbackErrorMessage
		c.publishError(seq, msg)
		return nil, errors.NewServerError(msg, 0)
	}
	if !resp.Success && resp.Error != "" {
		c.publishError(seq, resp.Error)
		return nil, errors.NewServerError(resp.Error, 0)
	}

	c.publishResults(seq, resp.Recommendations)
	return resp.Recommendations, nil
}

// beginSearch cancels any in-flight search, issues a new sequence number, and
// moves the visible state to pending.
func (c *Controller) beginSearch(ctx context.Context) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.seq++
	c.state = StatePending
	c.errMsg = ""
	return reqCtx, c.seq
}

func (c *Controller) finishSearch(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq == c.seq && c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) publishResults(seq uint64, results []models.GiftListing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return
	}
	c.state = StateResultsReady
	c.results = results
	c.errMsg = ""
}

func (c *Controller) publishError(seq uint64, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return
	}
	c.state = StateError
	c.errMsg = msg
	c.results = []models.GiftListing{}
}

// disallowed holds the markup-like characters stripped before dispatch.
const disallowed = "<>\"'`\\"

// Sanitize trims surrounding whitespace and strips characters considered
// unsafe for transport.
func Sanitize(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(disallowed, r) {
			return -1
		}
		return r
	}, raw)
	return strings.TrimSpace(cleaned)
}
