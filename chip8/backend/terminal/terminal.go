package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/terminal/render"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	registerHeight = 9
	disasmHeight   = 9
	minTermWidth   = 80
	minTermHeight  = 24
)

// Key expiry timeout - slightly longer than typical key repeat interval.
// Terminals only report key presses, so a key counts as held while it keeps repeating.
const keyTimeout = 100 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen        tcell.Screen
	ownsSignals   bool
	running       bool
	quitRequested atomic.Bool
	logBuffer     *render.LogBuffer
	logLevel      *slog.LevelVar
	config        backend.BackendConfig
	eventQueue    []backend.InputEvent // Collect events to return

	keyStates  map[action.Action]time.Time // Last time each key was pressed
	activeKeys map[action.Action]bool      // Keys active in previous frame

	// For accessing emulator state
	debugProvider backend.DebugDataProvider

	// Snapshot state
	currentFrame *video.FrameBuffer // Store current frame for snapshot generation
	now          func() time.Time
}

// New creates a new terminal backend drawing to the controlling terminal
func New() *Backend {
	return &Backend{
		ownsSignals: true,
		now:         time.Now,
	}
}

// NewWithScreen creates a terminal backend drawing to the given screen,
// e.g. a tcell simulation screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{
		screen: screen,
		now:    time.Now,
	}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.debugProvider = config.DebugProvider
	t.eventQueue = make([]backend.InputEvent, 0)
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %v", err)
		}
		t.screen = screen
	}

	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}

	t.running = true

	// Route logs into the side panel instead of the terminal
	t.logBuffer = render.NewLogBuffer(100)
	t.logLevel = new(slog.LevelVar)
	t.logLevel.Set(slog.LevelInfo)
	if config.ShowDebug {
		t.logLevel.Set(slog.LevelDebug)
	}
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, t.logLevel)))

	if config.TestPattern {
		slog.Info("Terminal backend initialized in test pattern mode")
	} else {
		slog.Info("Terminal backend initialized")
	}

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	if t.ownsSignals {
		go t.handleSignals()
	}

	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	now := t.now()

	// Poll for input events synchronously
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	if t.quitRequested.Load() {
		t.running = false
		t.config.Callbacks.NotifyQuit()
		t.eventQueue = append(t.eventQueue, backend.QuitEvent())
	}

	events = append(events, t.keypadEvents(now)...)

	// Add non-keypad events (pause, debug, etc)
	for _, evt := range t.eventQueue {
		slog.Debug("UI event", "action", evt.Action, "type", evt.Type)
	}
	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	if !t.running {
		return events, nil
	}

	t.currentFrame = frame
	t.render(frame)
	t.screen.Show()

	return events, nil
}

// keypadEvents turns the repeat-driven key states into press, hold and release events.
func (t *Backend) keypadEvents(now time.Time) []backend.InputEvent {
	var events []backend.InputEvent
	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}

		currentlyActive[act] = true
		if !t.activeKeys[act] {
			slog.Debug("Key press", "action", act)
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		} else {
			events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
		}
	}

	for act := range t.activeKeys {
		if !currentlyActive[act] {
			slog.Debug("Key release", "action", act)
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = currentlyActive
	return events
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(t.currentFrame, t.config.SnapshotName)
	case action.EmulatorDebugToggle:
		t.config.ShowDebug = !t.config.ShowDebug
		if t.config.ShowDebug {
			slog.Info("Debug display enabled")
		} else {
			slog.Info("Debug display disabled")
		}
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	<-signals
	t.quitRequested.Store(true)
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	if act, exists := keyMapping[ev.Key()]; exists {
		t.recordAction(act, now)
		return
	}

	if ev.Key() == tcell.KeyRune {
		if act, exists := runeMapping[ev.Rune()]; exists {
			slog.Debug("Key event (rune)", "rune", string(ev.Rune()), "action", act)
			t.recordAction(act, now)
		}
	}
}

func (t *Backend) recordAction(act action.Action, now time.Time) {
	if act == action.EmulatorQuit {
		t.running = false
	}
	if act.IsKeypad() {
		t.keyStates[act] = now
		return
	}
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
	tcell.KeyF9:     "F9",
	tcell.KeyF10:    "F10",
	tcell.KeyF12:    "F12",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)

	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}

	mapping[tcell.KeyCtrlC] = action.EmulatorQuit

	return mapping
}

// buildRuneMapping creates the rune mapping from default mappings.
// Single character key names map to their rune, upper case included.
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)

	for keyName, act := range input.DefaultKeyMap {
		runes := []rune(keyName)
		if len(runes) != 1 {
			continue
		}
		mapping[runes[0]] = act
		if r := runes[0]; r >= 'a' && r <= 'z' {
			mapping[r-'a'+'A'] = act
		}
	}

	if act, ok := input.GetDefaultMapping("Space"); ok {
		mapping[' '] = act
	}

	return mapping
}

// keyMapping maps tcell keys to actions
var keyMapping = buildKeyMapping()

// runeMapping maps runes to actions
var runeMapping = buildRuneMapping()

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel.Level()
	newLevel := oldLevel
	switch direction {
	case -1:
		switch oldLevel {
		case slog.LevelDebug:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelError
		}
	case 1:
		switch oldLevel {
		case slog.LevelError:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelDebug
		}
	}
	if oldLevel != newLevel {
		// log before raising the threshold so the change stays visible
		slog.Warn("Log filter changed", "from", oldLevel, "to", newLevel)
		t.logLevel.Set(newLevel)
	}
}

// LogLevel returns the current log filter.
func (t *Backend) LogLevel() slog.Level {
	return t.logLevel.Level()
}

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	dividerX := width + 1
	rightPanelX := dividerX + 2
	rightPanelWidth := termWidth - rightPanelX
	if rightPanelWidth < 0 {
		rightPanelWidth = 0
	}

	debugData := t.debugData()

	t.drawBorders(termWidth, termHeight, dividerX, debugData)
	t.drawFrame(frame)

	logsY := 1
	if t.config.ShowDebug && debugData != nil {
		t.drawRegisters(rightPanelX, 1, rightPanelWidth, debugData)
		t.drawDisassembly(rightPanelX, registerHeight+2, rightPanelWidth, debugData)
		logsY = registerHeight + disasmHeight + 3
	}
	t.drawLogs(rightPanelX, logsY, rightPanelWidth, termHeight)
}

func (t *Backend) debugData() *debug.CompleteDebugData {
	if t.debugProvider == nil {
		return nil
	}
	return t.debugProvider.ExtractDebugData()
}

func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		if i >= maxWidth {
			break
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int, debugData *debug.CompleteDebugData) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	title := " CHIP-8 "
	if t.config.TestPattern {
		title = " Test Pattern "
	} else if t.config.Title != "" {
		title = fmt.Sprintf(" %s ", t.config.Title)
	}
	t.drawText(1, 0, dividerX-1, title, titleStyle)

	if debugData != nil && debugData.SoundActive {
		t.drawText(dividerX-4, 0, 3, " ♪ ", titleStyle)
	}

	panelX := dividerX + 2
	panelWidth := termWidth - panelX
	if t.config.ShowDebug && debugData != nil {
		t.drawText(panelX, 0, panelWidth, " Registers ", titleStyle)
		t.drawText(panelX, registerHeight+1, panelWidth, " Disassembly ", titleStyle)
		t.drawText(panelX, registerHeight+disasmHeight+2, panelWidth,
			fmt.Sprintf(" Logs [%s] (-/+ filter) ", t.logLevel.Level()), titleStyle)
	}

	helpText := " 1234/QWER/ASDF/ZXCV=keypad SPACE=pause O=frame I=step F9=snapshot F10=debug ESC=exit "
	t.drawText(0, termHeight-1, termWidth, helpText, borderStyle)
}

// drawFrame renders two pixel rows per terminal row using half blocks.
func (t *Backend) drawFrame(frame *video.FrameBuffer) {
	frameData := frame.ToSlice()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)

	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := frameData[y*width+x]
			bottom := video.PixelOff
			if y+1 < height {
				bottom = frameData[(y+1)*width+x]
			}
			t.screen.SetContent(x+1, y/2+1, render.HalfBlock(top, bottom), nil, style)
		}
	}
}

func (t *Backend) drawRegisters(startX, startY, panelWidth int, debugData *debug.CompleteDebugData) {
	cpu := debugData.CPU
	if cpu == nil || panelWidth <= 0 {
		return
	}

	status := debugData.DebuggerState.String()
	if cpu.Halted {
		status = "halted"
	}

	lines := []string{
		fmt.Sprintf("State: %s  Frame: %d", status, debugData.Frames),
	}
	for row := 0; row < 4; row++ {
		line := ""
		for col := 0; col < 4; col++ {
			r := row*4 + col
			line += fmt.Sprintf("V%X:%02X ", r, cpu.V[r])
		}
		lines = append(lines, line)
	}
	lines = append(lines,
		fmt.Sprintf("PC:%03X  I:%03X  SP:%d", cpu.PC, cpu.I, cpu.SP),
		fmt.Sprintf("DT:%02X  ST:%02X  OP:%04X", cpu.DelayTimer, cpu.SoundTimer, cpu.Opcode),
		fmt.Sprintf("Keys: %s", formatKeys(debugData.Keys)),
	)

	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for i, line := range lines {
		if i >= registerHeight {
			break
		}
		t.drawText(startX, startY+i, panelWidth, line, style)
	}
}

func formatKeys(keys [16]bool) string {
	out := make([]byte, 0, 16)
	for i, pressed := range keys {
		if pressed {
			out = append(out, "0123456789ABCDEF"[i])
		} else {
			out = append(out, '.')
		}
	}
	return string(out)
}

func (t *Backend) drawDisassembly(startX, startY, panelWidth int, debugData *debug.CompleteDebugData) {
	if debugData.CPU == nil || debugData.Memory == nil || panelWidth <= 0 {
		return
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	lines := debug.CreateDisassembly(debugData.Memory, debugData.CPU.PC, disasmHeight)
	for i, line := range lines {
		prefix, useStyle := " ", style
		if line.IsCurrent {
			prefix, useStyle = "→", currentStyle
		}
		text := fmt.Sprintf("%s0x%03X: %s", prefix, line.Address, line.Instruction)
		t.drawText(startX, startY+i, panelWidth, text, useStyle)
	}
}

func (t *Backend) drawLogs(startX, startY, panelWidth, termHeight int) {
	availableHeight := termHeight - startY - 1
	if panelWidth <= 0 || availableHeight <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range t.logBuffer.GetRecent(availableHeight) {
		style := infoStyle
		switch {
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		}

		logText := render.FormatLogEntry(entry)
		if len(logText) > panelWidth && panelWidth > 3 {
			logText = logText[:panelWidth-3] + "..."
		}
		t.drawText(startX, startY+i, panelWidth, logText, style)
	}
}
