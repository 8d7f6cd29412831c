package render

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-chip8/chip8/video"
)

func TestLogBuffer(t *testing.T) {
	lb := NewLogBuffer(3)
	assert.Nil(t, lb.GetRecent(10))

	for _, msg := range []string{"a", "b", "c", "d"} {
		lb.Add(LogEntry{Message: msg})
	}

	assert.Equal(t, 3, lb.Len())

	recent := lb.GetRecent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].Message, "newest first")
	assert.Equal(t, "b", recent[2].Message, "oldest entry was overwritten")

	assert.Len(t, lb.GetRecent(2), 2)

	lb.Clear()
	assert.Equal(t, 0, lb.Len())
}

func TestLogBufferHandler(t *testing.T) {
	lb := NewLogBuffer(10)
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)

	logger := slog.New(NewLogBufferHandler(lb, level))
	logger.Debug("hidden")
	logger.Info("loaded", "bytes", 132)
	logger.With("component", "cpu").WithGroup("op").Warn("halted", "pc", 512)

	recent := lb.GetRecent(0)
	require.Len(t, recent, 2)
	assert.Equal(t, "halted component=cpu op.pc=512", recent[0].Message)
	assert.Equal(t, "loaded bytes=132", recent[1].Message)
	assert.Equal(t, slog.LevelWarn, recent[0].Level)

	level.Set(slog.LevelDebug)
	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestFormatLogEntry(t *testing.T) {
	entry := LogEntry{
		Time:    time.Date(2024, 1, 2, 13, 4, 5, 0, time.UTC),
		Level:   slog.LevelError,
		Message: "boom",
	}
	assert.Equal(t, "13:04:05 [ERR] boom", FormatLogEntry(entry))
}

func TestHalfBlock(t *testing.T) {
	tests := []struct {
		top, bottom uint32
		char        rune
	}{
		{video.PixelOn, video.PixelOn, '█'},
		{video.PixelOn, video.PixelOff, '▀'},
		{video.PixelOff, video.PixelOn, '▄'},
		{video.PixelOff, video.PixelOff, ' '},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.char, HalfBlock(tt.top, tt.bottom))
	}
}
