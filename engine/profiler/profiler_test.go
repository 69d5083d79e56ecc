package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickReportsAfterInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(
		WithInterval(time.Hour),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)

	assert.False(t, p.Tick())
	assert.Empty(t, buf.String())

	p.lastTime = time.Now().Add(-2 * time.Hour)
	assert.True(t, p.Tick())
	assert.Contains(t, buf.String(), "frame stats")
	assert.Contains(t, buf.String(), "fps=")
	assert.Greater(t, p.Last().FPS, 0.0)
	assert.Greater(t, p.Last().SysMB, 0.0)
	assert.Equal(t, 0, p.frameCount)
}

func TestNilLoggerKeepsDefault(t *testing.T) {
	p := NewProfiler(WithLogger(nil))
	assert.NotNil(t, p.logger)
}
