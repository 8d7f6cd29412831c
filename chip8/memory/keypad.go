package memory

import "github.com/valerio/go-chip8/chip8/addr"

// Keypad holds the state of the sixteen hexadecimal keys.
type Keypad struct {
	keys [addr.KeyCount]bool
}

// NewKeypad creates a Keypad with every key released.
func NewKeypad() *Keypad {
	return &Keypad{}
}

// Set updates a key; only the low nibble of key is used.
func (k *Keypad) Set(key uint8, pressed bool) {
	k.keys[key&0x0F] = pressed
}

// Press marks a key as held down.
func (k *Keypad) Press(key uint8) {
	k.Set(key, true)
}

// Release marks a key as released.
func (k *Keypad) Release(key uint8) {
	k.Set(key, false)
}

// IsPressed reports the state of a key; only the low nibble of key is used.
func (k *Keypad) IsPressed(key uint8) bool {
	return k.keys[key&0x0F]
}

// FirstPressed returns the lowest-numbered key currently held, if any.
func (k *Keypad) FirstPressed() (uint8, bool) {
	for i, pressed := range k.keys {
		if pressed {
			return uint8(i), true
		}
	}
	return 0, false
}

// State returns a copy of all key states, indexed by key value.
func (k *Keypad) State() [addr.KeyCount]bool {
	return k.keys
}

// Reset releases every key.
func (k *Keypad) Reset() {
	k.keys = [addr.KeyCount]bool{}
}
