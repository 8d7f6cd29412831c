package input

import "github.com/valerio/go-chip8/chip8/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
//
// The keypad sits on the left of a QWERTY keyboard:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var DefaultKeyMap = map[string]action.Action{
	// CHIP-8 keypad
	"1": action.Chip8Key1,
	"2": action.Chip8Key2,
	"3": action.Chip8Key3,
	"4": action.Chip8KeyC,
	"q": action.Chip8Key4,
	"w": action.Chip8Key5,
	"e": action.Chip8Key6,
	"r": action.Chip8KeyD,
	"a": action.Chip8Key7,
	"s": action.Chip8Key8,
	"d": action.Chip8Key9,
	"f": action.Chip8KeyE,
	"z": action.Chip8KeyA,
	"x": action.Chip8Key0,
	"c": action.Chip8KeyB,
	"v": action.Chip8KeyF,

	// Emulator controls
	"Space":  action.EmulatorPauseToggle,
	"p":      action.EmulatorPauseToggle, // Alternative key
	"o":      action.EmulatorStepFrame,
	"i":      action.EmulatorStepInstruction,
	"F9":     action.EmulatorSnapshot,
	"F10":    action.EmulatorDebugToggle,
	"F12":    action.EmulatorTestPatternCycle,
	"Escape": action.EmulatorQuit,

	// Debug controls
	"+": action.DebugLogLevelIncrease,
	"=": action.DebugLogLevelIncrease, // Alternative without shift
	"-": action.DebugLogLevelDecrease,
	"_": action.DebugLogLevelDecrease, // Alternative with shift
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
