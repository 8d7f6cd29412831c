package chip8

import (
	"log/slog"

	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// TestPatternEmulator displays test patterns without actual emulation
type TestPatternEmulator struct {
	frameBuffer      *video.FrameBuffer
	pattern          video.TestPattern
	animationCounter int
	offset           int
	limiter          timing.Limiter
}

func NewTestPatternEmulator() *TestPatternEmulator {
	e := &TestPatternEmulator{
		frameBuffer: video.NewFrameBuffer(),
		pattern:     video.PatternCheckerboard,
		limiter:     timing.NewNoOpLimiter(),
	}
	video.DrawTestPattern(e.frameBuffer, e.pattern, 0)
	return e
}

// RunUntilFrame scrolls the current pattern by one pixel every few frames.
func (e *TestPatternEmulator) RunUntilFrame() error {
	e.animationCounter++
	if e.animationCounter%display.TestPatternAnimationFrames == 0 {
		e.offset++
		video.DrawTestPattern(e.frameBuffer, e.pattern, e.offset)
	}
	e.limiter.WaitForNextFrame()
	return nil
}

func (e *TestPatternEmulator) GetCurrentFrame() *video.FrameBuffer {
	return e.frameBuffer
}

func (e *TestPatternEmulator) HandleAction(act action.Action, pressed bool) {
	if act == action.EmulatorTestPatternCycle && pressed {
		e.CycleTestPattern()
	}
}

func (e *TestPatternEmulator) ExtractDebugData() *debug.CompleteDebugData {
	return &debug.CompleteDebugData{
		DebuggerState: debug.DebuggerRunning,
		Frames:        uint64(e.animationCounter),
	}
}

// CycleTestPattern switches to the next pattern and redraws it from the start.
func (e *TestPatternEmulator) CycleTestPattern() {
	e.pattern = (e.pattern + 1) % display.TestPatternCount
	e.offset = 0
	video.DrawTestPattern(e.frameBuffer, e.pattern, e.offset)
	slog.Info("Switched to test pattern", "pattern", e.pattern)
}

// Pattern returns the pattern currently displayed.
func (e *TestPatternEmulator) Pattern() video.TestPattern {
	return e.pattern
}

func (e *TestPatternEmulator) SetFrameLimiter(limiter timing.Limiter) {
	if limiter == nil {
		e.limiter = timing.NewNoOpLimiter()
	} else {
		e.limiter = limiter
	}
}

var _ Emulator = (*TestPatternEmulator)(nil)
