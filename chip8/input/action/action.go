package action

import "fmt"

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// CHIP-8 hexadecimal keypad, in key value order
	Chip8Key0 Action = iota
	Chip8Key1
	Chip8Key2
	Chip8Key3
	Chip8Key4
	Chip8Key5
	Chip8Key6
	Chip8Key7
	Chip8Key8
	Chip8Key9
	Chip8KeyA
	Chip8KeyB
	Chip8KeyC
	Chip8KeyD
	Chip8KeyE
	Chip8KeyF

	// Emulator features
	EmulatorDebugToggle
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorStepInstruction
	EmulatorTestPatternCycle
	EmulatorQuit

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions for help screens and input routing.
type Category int

const (
	CategoryKeypad Category = iota
	CategoryEmulator
	CategoryDebug
)

func (c Category) String() string {
	switch c {
	case CategoryKeypad:
		return "Keypad"
	case CategoryEmulator:
		return "Emulator"
	case CategoryDebug:
		return "Debug"
	default:
		return "Unknown"
	}
}

// Info describes an action.
type Info struct {
	Name        string
	Description string
	Category    Category
}

var infos = map[Action]Info{
	EmulatorDebugToggle:      {"DebugToggle", "Show or hide the debug panels", CategoryEmulator},
	EmulatorSnapshot:         {"Snapshot", "Save the current frame as PNG", CategoryEmulator},
	EmulatorPauseToggle:      {"PauseToggle", "Pause or resume execution", CategoryEmulator},
	EmulatorStepFrame:        {"StepFrame", "Run a single frame while paused", CategoryEmulator},
	EmulatorStepInstruction:  {"StepInstruction", "Run a single instruction while paused", CategoryEmulator},
	EmulatorTestPatternCycle: {"TestPatternCycle", "Show the next test pattern", CategoryEmulator},
	EmulatorQuit:             {"Quit", "Exit the emulator", CategoryEmulator},
	DebugLogLevelIncrease:    {"LogLevelIncrease", "Show more log output", CategoryDebug},
	DebugLogLevelDecrease:    {"LogLevelDecrease", "Show less log output", CategoryDebug},
}

// IsKeypad reports whether the action is one of the sixteen keypad keys.
func (a Action) IsKeypad() bool {
	return a >= Chip8Key0 && a <= Chip8KeyF
}

// Key returns the keypad value of a keypad action.
func (a Action) Key() (uint8, bool) {
	if !a.IsKeypad() {
		return 0, false
	}
	return uint8(a - Chip8Key0), true
}

// KeypadAction returns the action for a keypad value; only the low nibble is used.
func KeypadAction(key uint8) Action {
	return Chip8Key0 + Action(key&0x0F)
}

// GetInfo returns the name, description and category of an action.
func GetInfo(a Action) (Info, bool) {
	if key, ok := a.Key(); ok {
		return Info{
			Name:        fmt.Sprintf("Key%X", key),
			Description: fmt.Sprintf("Keypad key %X", key),
			Category:    CategoryKeypad,
		}, true
	}
	info, ok := infos[a]
	return info, ok
}

func (a Action) String() string {
	if info, ok := GetInfo(a); ok {
		return info.Name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}
