package input

import (
	"log/slog"
	"time"

	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

const (
	// debounceDuration is the minimum time between debounced events
	debounceDuration = 300 * time.Millisecond
)

// KeySetter receives keypad state changes.
type KeySetter interface {
	SetKey(key uint8, pressed bool)
}

// Manager handles input actions and their associated callbacks.
// Keypad actions go straight to the KeySetter and are never debounced,
// since programs poll the keypad state every frame.
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]map[event.Type]time.Time
	keys          KeySetter
	now           func() time.Time
}

func NewManager(keys KeySetter) *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]map[event.Type]time.Time),
		keys:          keys,
		now:           time.Now,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}

	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if key, ok := act.Key(); ok {
		if m.keys == nil {
			return
		}
		switch evt {
		case event.Press, event.Hold:
			m.keys.SetKey(key, true)
		case event.Release:
			m.keys.SetKey(key, false)
		}
		return
	}

	// Debounce Press and Release events
	if evt == event.Press || evt == event.Release {
		now := m.now()
		if m.lastTriggered[act] == nil {
			m.lastTriggered[act] = make(map[event.Type]time.Time)
		}
		lastTime := m.lastTriggered[act][evt]
		if now.Sub(lastTime) < debounceDuration {
			slog.Debug("Debounced input", "action", act, "event", evt)
			return
		}
		m.lastTriggered[act][evt] = now
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}
