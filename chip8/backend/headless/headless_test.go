package headless_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

func TestHeadlessBackend(t *testing.T) {
	t.Run("normal operation", func(t *testing.T) {
		h := headless.New(3, headless.SnapshotConfig{})

		quitCalls := 0
		err := h.Init(backend.BackendConfig{
			Title:     "Test",
			Callbacks: backend.BackendCallbacks{OnQuit: func() { quitCalls++ }},
		})
		require.NoError(t, err)

		frame := video.NewFrameBuffer()

		for i := 0; i < 3; i++ {
			events, err := h.Update(frame)
			require.NoError(t, err)

			if i < 2 {
				// Should not quit before reaching max frames
				assert.Empty(t, events)
			} else {
				// Should send quit event on last frame
				require.Len(t, events, 1)
				assert.Equal(t, action.EmulatorQuit, events[0].Action)
				assert.Equal(t, event.Press, events[0].Type)
			}
		}

		assert.Equal(t, 3, h.FrameCount())
		assert.Equal(t, 1, quitCalls)
		assert.NoError(t, h.Cleanup())
	})

	t.Run("test pattern mode", func(t *testing.T) {
		h := headless.New(1, headless.SnapshotConfig{})

		err := h.Init(backend.BackendConfig{
			Title:       "Test",
			TestPattern: true,
		})
		require.NoError(t, err)

		// Should quit immediately in test pattern mode
		events, err := h.Update(video.NewFrameBuffer())
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, action.EmulatorQuit, events[0].Action)
	})

	t.Run("rejects non-positive frame count", func(t *testing.T) {
		h := headless.New(0, headless.SnapshotConfig{})
		assert.Error(t, h.Init(backend.BackendConfig{Title: "Test"}))
	})
}

func TestHeadlessSnapshots(t *testing.T) {
	dir := t.TempDir()

	config, err := headless.CreateSnapshotConfig(2, dir, "/roms/IBM Logo.ch8")
	require.NoError(t, err)
	assert.True(t, config.Enabled)
	assert.Equal(t, "IBM Logo", config.ROMName)

	h := headless.New(5, config)
	require.NoError(t, h.Init(backend.BackendConfig{Title: "Test"}))

	frame := video.NewFrameBuffer()
	frame.SetPixel(10, 10, true)
	for i := 0; i < 5; i++ {
		_, err := h.Update(frame)
		require.NoError(t, err)
	}

	// frames 2 and 4, plus the final frame
	snapshots := h.Snapshots()
	require.Len(t, snapshots, 3)
	for _, path := range snapshots {
		assert.Equal(t, dir, filepath.Dir(path))
		_, err := os.Stat(path)
		assert.NoError(t, err)
	}
}

func TestCreateSnapshotConfigDisabled(t *testing.T) {
	config, err := headless.CreateSnapshotConfig(0, "", "rom.ch8")
	require.NoError(t, err)
	assert.False(t, config.Enabled)
	assert.Empty(t, config.Directory)
}

func TestHeadlessImplementsBackend(t *testing.T) {
	// Compile-time check that headless.Backend implements backend.Backend
	var _ backend.Backend = (*headless.Backend)(nil)
}
