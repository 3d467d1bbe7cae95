package pkglog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureHandler struct {
	attrs map[string]slog.Value
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	if h.attrs == nil {
		h.attrs = make(map[string]slog.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.attrs[a.Key] = a.Value
		return true
	})
	return nil
}

func (h *captureHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *captureHandler) WithGroup(_ string) slog.Handler {
	return h
}

func TestContextHandlerAddsServiceAndCID(t *testing.T) {
	capture := &captureHandler{}
	handler := &contextHandler{Handler: capture, service: "gocovid"}

	ctx := SetCorrelationID(context.Background(), "cid-abc")
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)

	require.NoError(t, handler.Handle(ctx, rec))

	assert.Equal(t, "gocovid", capture.attrs["service"].String())
	assert.Equal(t, "cid-abc", capture.attrs["_cID"].String())
}

func TestContextHandlerSkipsInvalidCID(t *testing.T) {
	capture := &captureHandler{}
	handler := &contextHandler{Handler: capture, service: "gocovid"}

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)

	require.NoError(t, handler.Handle(context.Background(), rec))

	assert.NotContains(t, capture.attrs, "_cID")
}

func TestNewWritesRenamedKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "gocovid", slog.LevelInfo)

	logger.With("country", "usa").InfoContext(SetCorrelationID(context.Background(), "cid-1"), "fetched")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	for _, key := range []string{"ts", "severity", "service", "_cID", "country"} {
		assert.Contains(t, line, key)
	}
	assert.Equal(t, "gocovid", line["service"])
}
