package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContext_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reqCtx := NewRequestContextWithID(logger, "req-1", "/api/v1/temporal:parse", 7)
	reqCtx.Info(context.Background(), "parsed", slog.String("status", "resolved"))
	reqCtx.Error(context.Background(), "failed", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "user_id=7")
	assert.Contains(t, out, "route=/api/v1/temporal:parse")
	assert.Contains(t, out, "status=resolved")
	assert.Contains(t, out, "error=boom")
}

func TestNewRequestContext_GeneratesID(t *testing.T) {
	a := NewRequestContext(nil, "/", 1)
	b := NewRequestContextWithID(nil, "", "/", 1)
	assert.Len(t, a.RequestID, 36)
	assert.NotEqual(t, a.RequestID, b.RequestID)
	assert.NotNil(t, a.Logger)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	reqCtx := NewRequestContext(nil, "/", 3)
	ctx := WithRequestContext(context.Background(), reqCtx)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, reqCtx, got)

	fallback := slog.New(slog.DiscardHandler)
	assert.Same(t, fallback, LoggerFromContext(context.Background(), fallback))
	assert.NotNil(t, LoggerFromContext(context.Background(), nil))
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/b", 200, 10*time.Millisecond)
	m.RecordRequest("/b", 500, 30*time.Millisecond)
	m.RecordRequest("/a", 404, 5*time.Millisecond)
	m.RecordResolution(true)
	m.RecordResolution(true)
	m.RecordResolution(false)

	snap := m.Snapshot()
	assert.EqualValues(t, 3, snap.RequestTotal)
	assert.EqualValues(t, 1, snap.RequestFailed)
	assert.EqualValues(t, 2, snap.ResolvedTotal)
	assert.EqualValues(t, 1, snap.ClarificationTotal)
	assert.InDelta(t, 66.67, snap.SuccessRate(), 0.01)
	assert.InDelta(t, 66.67, snap.ResolutionRate(), 0.01)

	require.Len(t, snap.Routes, 2)
	assert.Equal(t, "/a", snap.Routes[0].Route)
	assert.Equal(t, "/b", snap.Routes[1].Route)
	assert.EqualValues(t, 20, snap.Routes[1].AverageDuration)
	assert.EqualValues(t, 1, snap.Routes[1].ErrorCount)

	m.Reset()
	snap = m.Snapshot()
	assert.Zero(t, snap.RequestTotal)
	assert.Empty(t, snap.Routes)
	assert.Equal(t, 100.0, snap.SuccessRate())
	assert.Equal(t, 0.0, snap.ResolutionRate())
}
