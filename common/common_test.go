package common

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "headless", Coalesce("", "headless", "gl"))
	assert.Equal(t, 4, Coalesce(0, 4))
	assert.Equal(t, 8, Coalesce(8, 4))
	assert.Zero(t, Coalesce(0, 0))
	assert.Zero(t, Coalesce[int]())
}

func TestLoggerDefaultsToSilent(t *testing.T) {
	assert.NotNil(t, Logger())
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}

func TestSetLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	SetLogger(slog.New(slog.NewTextHandler(buf, nil)))
	t.Cleanup(func() { SetLogger(nil) })

	Logger().Info("hello", "n", 1)
	assert.Contains(t, buf.String(), "msg=hello n=1")

	SetLogger(nil)
	Logger().Info("dropped")
	assert.NotContains(t, buf.String(), "dropped")
}
