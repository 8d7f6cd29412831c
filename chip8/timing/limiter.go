package timing

import "time"

// Limiter controls frame rate timing for emulation.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

const (
	// TimerFrequency is the rate at which the delay and sound timers count down.
	// One host frame ticks the timers once.
	TimerFrequency = 60
	// DefaultCyclesPerFrame gives roughly 600 instructions per second.
	DefaultCyclesPerFrame = 10
)

// InstructionsPerSecond returns the effective clock for a given number of cycles per frame.
func InstructionsPerSecond(cyclesPerFrame int) int {
	return cyclesPerFrame * TimerFrequency
}

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Second / TimerFrequency
}
