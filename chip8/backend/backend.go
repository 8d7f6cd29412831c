package backend

import (
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend represents a complete emulator platform (rendering + input)
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, etc.)
// - Translating platform-specific input events to Actions
// - Handling backend-specific features (snapshots, debug panels)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update renders the frame and returns the input events collected since
	// the previous call, already translated to actions.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// ActionHandler is implemented by backends that react to emulator actions
// themselves, e.g. saving a snapshot of the last rendered frame.
type ActionHandler interface {
	HandleAction(act action.Action)
}

// InputEvent is a platform input translated to an action.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// DebugDataProvider exposes machine state to debug displays.
type DebugDataProvider interface {
	ExtractDebugData() *debug.CompleteDebugData
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title         string
	Scale         int
	ShowDebug     bool              // Backends may ignore unsupported features
	TestPattern   bool              // Frames come from a test pattern instead of a program
	SnapshotName  string            // Base name for snapshot files
	Callbacks     BackendCallbacks  // Callbacks for backend communication
	DebugProvider DebugDataProvider // Optional source of debug panel data
}

// BackendCallbacks allows backends to communicate with the emulator
type BackendCallbacks struct {
	// OnQuit is called when the platform requests shutdown (window close, signal).
	OnQuit func()
}

// NotifyQuit calls OnQuit if set.
func (c BackendCallbacks) NotifyQuit() {
	if c.OnQuit != nil {
		c.OnQuit()
	}
}

// QuitEvent is the event backends emit to stop the host loop.
func QuitEvent() InputEvent {
	return InputEvent{Action: action.EmulatorQuit, Type: event.Press}
}
