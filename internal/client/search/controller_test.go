package search

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/client/transport"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/errors"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/logger"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/models"
)

type fakeRequester struct {
	calls   int64
	lastOps transport.Options
	lastURL string
	respond func(ctx context.Context, endpoint string, opts transport.Options) ([]byte, error)
}

func (f *fakeRequester) Do(ctx context.Context, endpoint string, opts transport.Options) ([]byte, error) {
	atomic.AddInt64(&f.calls, 1)
	f.lastOps = opts
	f.lastURL = endpoint
	return f.respond(ctx, endpoint, opts)
}

func searchBody(t *testing.T, listings []models.GiftListing) []byte {
	t.Helper()
	data, err := json.Marshal(models.SearchResponse{Success: true, Recommendations: listings})
	require.NoError(t, err)
	return data
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims whitespace", "  lego set  ", "lego set"},
		{"strips markup characters", `<script>"art"</script>`, "scriptart/script"},
		{"strips quotes and backslash", "dino\\'s `toys`", "dinos toys"},
		{"plain query unchanged", "drawing kit", "drawing kit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSubmit_ShortQueryRejectedWithoutDispatch(t *testing.T) {
	fake := &fakeRequester{respond: func(context.Context, string, transport.Options) ([]byte, error) {
		t.Fatal("no request should be issued")
		return nil, nil
	}}
	ctrl := NewController(fake, logger.NewNoOpLogger())

	for _, raw := range []string{"", " ", "a", " <b> "} {
		_, err := ctrl.Submit(context.Background(), raw)
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
		assert.Contains(t, err.Error(), "must be at least 2 characters")
		assert.Equal(t, StateError, ctrl.State())
		assert.Contains(t, ctrl.Err(), "must be at least 2 characters")
	}
	assert.Zero(t, atomic.LoadInt64(&fake.calls))
}

func TestSubmit_Success(t *testing.T) {
	listings := []models.GiftListing{{ID: "g1", Name: "Art Set", Rating: 4.8}}
	fake := &fakeRequester{}
	fake.respond = func(context.Context, string, transport.Options) ([]byte, error) {
		return searchBody(t, listings), nil
	}
	ctrl := NewController(fake, logger.NewNoOpLogger())

	got, err := ctrl.Submit(context.Background(), "  art supplies ")
	require.NoError(t, err)
	assert.Equal(t, listings, got)
	assert.Equal(t, StateResultsReady, ctrl.State())
	assert.Empty(t, ctrl.Err())
	assert.Equal(t, listings, ctrl.Results())

	assert.Equal(t, "/search", fake.lastURL)
	req, ok := fake.lastOps.Body.(models.SearchRequest)
	require.True(t, ok)
	assert.Equal(t, "art supplies", req.Query)
	assert.Equal(t, DefaultLimit, req.Limit)
}

func TestSubmit_EmptyResultsStillReady(t *testing.T) {
	fake := &fakeRequester{}
	fake.respond = func(context.Context, string, transport.Options) ([]byte, error) {
		return searchBody(t, nil), nil
	}
	ctrl := NewController(fake, logger.NewNoOpLogger())

	got, err := ctrl.Submit(context.Background(), "unobtainium")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, StateResultsReady, ctrl.State())
}

func TestSubmit_TransportErrorSetsErrorState(t *testing.T) {
	fake := &fakeRequester{}
	fake.respond = func(context.Context, string, transport.Options) ([]byte, error) {
		return nil, errors.NewNetworkError(transport.NetworkErrorMessage, nil)
	}
	ctrl := NewController(fake, logger.NewNoOpLogger())

	_, err := ctrl.Submit(context.Background(), "board games")
	require.Error(t, err)
	assert.Equal(t, StateError, ctrl.State())
	assert.Equal(t, transport.NetworkErrorMessage, ctrl.Err())
	assert.Empty(t, ctrl.Results())
}

func TestSubmit_ServerReportedFailure(t *testing.T) {
	fake := &fakeRequester{}
	fake.respond = func(context.Context, string, transport.Options) ([]byte, error) {
		return []byte(`{"success": false, "error": "knowledge base unavailable"}`), nil
	}
	ctrl := NewController(fake, logger.NewNoOpLogger())

	_, err := ctrl.Submit(context.Background(), "science kits")
	require.Error(t, err)
	assert.Equal(t, StateError, ctrl.State())
	assert.Equal(t, "knowledge base unavailable", ctrl.Err())
}

func TestSubmit_NewSearchCancelsPrevious(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	firstCtx := make(chan context.Context, 1)

	fake := &fakeRequester{}
	var call int64
	fake.respond = func(ctx context.Context, _ string, _ transport.Options) ([]byte, error) {
		if atomic.AddInt64(&call, 1) == 1 {
			firstCtx <- ctx
			close(started)
			<-release
			return nil, ctx.Err()
		}
		return searchBody(t, []models.GiftListing{{ID: "g2", Name: "Telescope"}}), nil
	}
	ctrl := NewController(fake, logger.NewNoOpLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl.Submit(context.Background(), "telescope for kids")
	}()
	<-started

	got, err := ctrl.Submit(context.Background(), "telescope for teens")
	require.NoError(t, err)
	require.Len(t, got, 1)

	ctx := <-firstCtx
	assert.Error(t, ctx.Err(), "superseded search context should be cancelled")

	close(release)
	<-done

	// The stale first search must not overwrite the newer result.
	assert.Equal(t, StateResultsReady, ctrl.State())
	assert.Empty(t, ctrl.Err())
	require.Len(t, ctrl.Results(), 1)
	assert.Equal(t, "g2", ctrl.Results()[0].ID)
}

func TestSubmit_ShortQuerySupersedesInFlightSearch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	firstCtx := make(chan context.Context, 1)

	fake := &fakeRequester{}
	fake.respond = func(ctx context.Context, _ string, _ transport.Options) ([]byte, error) {
		firstCtx <- ctx
		close(started)
		<-release
		return searchBody(t, []models.GiftListing{{ID: "g1", Name: "Slow Result"}}), nil
	}
	ctrl := NewController(fake, logger.NewNoOpLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl.Submit(context.Background(), "telescope for kids")
	}()
	<-started

	_, err := ctrl.Submit(context.Background(), "a")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, StateError, ctrl.State())

	ctx := <-firstCtx
	assert.Error(t, ctx.Err(), "rejected submission should cancel the in-flight search")

	close(release)
	<-done

	// The superseded search's response must not replace the validation error.
	assert.Equal(t, StateError, ctrl.State())
	assert.Contains(t, ctrl.Err(), "must be at least 2 characters")
	assert.Empty(t, ctrl.Results())
}
