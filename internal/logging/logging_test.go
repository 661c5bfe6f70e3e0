package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")

	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown", "k", "v")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "v", rec["k"])
}

func TestContextRoundTrip(t *testing.T) {
	l := Discard()
	ctx := IntoContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestFromContext_FallsBackToProcessLogger(t *testing.T) {
	prevSlog, prev := slog.Default(), fallback.Load()
	t.Cleanup(func() {
		fallback.Store(prev)
		slog.SetDefault(prevSlog)
	})

	var buf bytes.Buffer
	proc := NewWithWriter(&buf, "info").With("service", "bookshelf")
	SetDefault(proc)

	assert.Same(t, proc, FromContext(context.Background()))
	assert.Same(t, proc, FromContext(IntoContext(context.Background(), nil)))

	FromContext(context.Background()).Info("boot")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "bookshelf", rec["service"])
}
