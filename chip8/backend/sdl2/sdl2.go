//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	config   backend.BackendConfig

	events []backend.InputEvent
	pixels []byte

	// Snapshot state
	currentFrame *video.FrameBuffer
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config

	scale := config.Scale
	if scale <= 0 {
		scale = display.DefaultPixelScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale),
		int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %v", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %v", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %v", err)
	}
	s.texture = texture

	s.pixels = make([]byte, video.FramebufferWidth*video.FramebufferHeight*display.RGBABytesPerPixel)
	s.running = true

	if config.TestPattern {
		slog.Info("SDL2 backend initialized in test pattern mode")
	} else {
		slog.Info("SDL2 backend initialized", "scale", scale)
	}

	return nil
}

// Update renders a frame and processes events
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	s.events = s.events[:0]

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	events := make([]backend.InputEvent, len(s.events))
	copy(events, s.events)

	if !s.running {
		return events, nil
	}

	s.currentFrame = frame
	s.renderFrame(frame)

	return events, nil
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

// HandleAction processes backend-specific actions
func (s *Backend) HandleAction(act action.Action) {
	if act == action.EmulatorSnapshot {
		debug.TakeSnapshot(s.currentFrame, s.config.SnapshotName)
	}
}

func (s *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.config.Callbacks.NotifyQuit()
		s.events = append(s.events, backend.QuitEvent())

	case *sdl.KeyboardEvent:
		act, exists := keyMapping[e.Keysym.Sym]
		if !exists {
			return
		}
		switch {
		case e.Type == sdl.KEYDOWN && e.Repeat != 0:
			if act.IsKeypad() {
				s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Hold})
			}
		case e.Type == sdl.KEYDOWN:
			if act == action.EmulatorQuit {
				s.running = false
			}
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Press})
		case e.Type == sdl.KEYUP && act.IsKeypad():
			// only keypad keys have a meaningful release
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
}

// sdlKeyNameMap converts SDL keys to key names used in default mappings
var sdlKeyNameMap = map[sdl.Keycode]string{
	sdl.K_SPACE:  "Space",
	sdl.K_ESCAPE: "Escape",
	sdl.K_F9:     "F9",
	sdl.K_F10:    "F10",
	sdl.K_F12:    "F12",
}

// buildKeyMapping creates the key mapping from default mappings.
// SDL keycodes of printable keys are their unshifted character.
func buildKeyMapping() map[sdl.Keycode]action.Action {
	mapping := make(map[sdl.Keycode]action.Action)

	for keyName, act := range input.DefaultKeyMap {
		if runes := []rune(keyName); len(runes) == 1 {
			mapping[sdl.Keycode(runes[0])] = act
		}
	}

	for key, keyName := range sdlKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}

	mapping[sdl.K_KP_PLUS] = action.DebugLogLevelIncrease
	mapping[sdl.K_KP_MINUS] = action.DebugLogLevelDecrease

	return mapping
}

// keyMapping maps SDL2 keys to actions
var keyMapping = buildKeyMapping()

func (s *Backend) renderFrame(frame *video.FrameBuffer) {
	frameData := frame.ToSlice()

	for i, pixel := range frameData {
		gray := uint8(display.BackgroundGray)
		if pixel == video.PixelOn {
			gray = display.ForegroundGray
		}

		// ABGR byte order for little-endian RGBA8888
		dst := i * display.RGBABytesPerPixel
		s.pixels[dst] = display.FullAlpha
		s.pixels[dst+1] = gray
		s.pixels[dst+2] = gray
		s.pixels[dst+3] = gray
	}

	if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.FramebufferWidth*display.RGBABytesPerPixel); err != nil {
		slog.Warn("Failed to update texture", "error", err)
		return
	}

	s.renderer.SetDrawColor(display.BackgroundGray, display.BackgroundGray, display.BackgroundGray, display.FullAlpha)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}
