package chip8

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/disasm"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// debugWindow is how many bytes around PC are captured for the disassembly panel.
const debugWindow = 64

// Config holds the tunables of a Machine.
type Config struct {
	// CyclesPerFrame is the number of instructions executed per 60 Hz frame.
	CyclesPerFrame int
	// Seed makes RND reproducible when non-zero.
	Seed uint64
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{
		CyclesPerFrame: timing.DefaultCyclesPerFrame,
	}
}

// Machine is a complete CHIP-8 interpreter: CPU, memory, keypad and display.
// It is not safe for concurrent use; the host serializes every call.
type Machine struct {
	cpu    *cpu.CPU
	mmu    *memory.MMU
	keypad *memory.Keypad
	fb     *video.FrameBuffer

	config        Config
	debuggerState debug.DebuggerState
	limiter       timing.Limiter
	frameCount    uint64
}

// New creates a machine with the default configuration and no program loaded.
func New() *Machine {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a machine with the given configuration.
func NewWithConfig(config Config) *Machine {
	if config.CyclesPerFrame <= 0 {
		config.CyclesPerFrame = timing.DefaultCyclesPerFrame
	}

	m := &Machine{
		mmu:     memory.New(),
		keypad:  memory.NewKeypad(),
		fb:      video.NewFrameBuffer(),
		config:  config,
		limiter: timing.NewNoOpLimiter(),
	}

	var opts []cpu.Option
	if config.Seed != 0 {
		opts = append(opts, cpu.WithSeed(config.Seed))
	}
	m.cpu = cpu.New(m.mmu, m.fb, m.keypad, opts...)

	return m
}

// NewWithFile creates a machine and loads the program image at path into it.
func NewWithFile(path string, config Config) (*Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}

	m := NewWithConfig(config)
	if err := m.Load(data); err != nil {
		return nil, err
	}

	slog.Info("ROM loaded", "path", path, "bytes", len(data))
	return m, nil
}

// Load copies a program image into memory at 0x200.
// Images larger than 3584 bytes are rejected with memory.ErrImageTooLarge
// and leave memory untouched.
func (m *Machine) Load(program []byte) error {
	return m.mmu.LoadProgram(program)
}

// Cycle executes exactly one instruction. It never touches the timers.
// The only error is a stack fault, after which the machine stays halted.
func (m *Machine) Cycle() error {
	return m.cpu.Exec()
}

// TickTimers decrements the delay and sound timers, stopping at zero.
func (m *Machine) TickTimers() {
	m.cpu.TickTimers()
}

// SetKey updates the state of one of the sixteen keys; only the low nibble is used.
func (m *Machine) SetKey(key uint8, pressed bool) {
	m.keypad.Set(key, pressed)
}

// Framebuffer returns the display. Callers must treat it as read-only.
func (m *Machine) Framebuffer() *video.FrameBuffer {
	return m.fb
}

// SoundActive reports whether the buzzer should sound.
func (m *Machine) SoundActive() bool {
	return m.cpu.SoundActive()
}

// RunUntilFrame advances the machine by one 60 Hz frame: CyclesPerFrame
// instructions followed by a single timer tick, then waits on the frame limiter.
// A paused machine only waits.
func (m *Machine) RunUntilFrame() error {
	defer m.limiter.WaitForNextFrame()

	switch m.debuggerState {
	case debug.DebuggerPaused:
		return nil
	case debug.DebuggerStepInstruction:
		m.debuggerState = debug.DebuggerPaused
		return m.Cycle()
	case debug.DebuggerStepFrame:
		m.debuggerState = debug.DebuggerPaused
	}

	for i := 0; i < m.config.CyclesPerFrame; i++ {
		if err := m.Cycle(); err != nil {
			return err
		}
	}
	m.TickTimers()
	m.frameCount++

	return nil
}

// GetCurrentFrame returns the frame buffer for rendering
func (m *Machine) GetCurrentFrame() *video.FrameBuffer {
	return m.fb
}

// HandleAction applies a host action. Keypad actions follow pressed;
// debugger actions only react to presses.
func (m *Machine) HandleAction(act action.Action, pressed bool) {
	if key, ok := act.Key(); ok {
		m.SetKey(key, pressed)
		return
	}

	if !pressed {
		return
	}

	switch act {
	case action.EmulatorPauseToggle:
		if m.debuggerState == debug.DebuggerRunning {
			m.debuggerState = debug.DebuggerPaused
			slog.Info("Paused", "pc", fmt.Sprintf("0x%03X", m.cpu.GetPC()))
		} else {
			m.debuggerState = debug.DebuggerRunning
			m.limiter.Reset()
			slog.Info("Resumed")
		}
	case action.EmulatorStepFrame:
		m.debuggerState = debug.DebuggerStepFrame
	case action.EmulatorStepInstruction:
		m.debuggerState = debug.DebuggerStepInstruction
	}
}

// GetDebuggerState returns the current debugger state.
func (m *Machine) GetDebuggerState() debug.DebuggerState {
	return m.debuggerState
}

// ExtractDebugData captures the machine state for debug displays.
func (m *Machine) ExtractDebugData() *debug.CompleteDebugData {
	pc := m.cpu.GetPC()

	start := 0
	if int(pc) > debugWindow/2 {
		start = int(pc) - debugWindow/2
	}
	end := start + debugWindow
	if end > addr.MemorySize {
		end = addr.MemorySize
	}

	return &debug.CompleteDebugData{
		CPU: &debug.CPUState{
			V:            m.cpu.GetRegisters(),
			I:            m.cpu.GetI(),
			PC:           pc,
			SP:           m.cpu.GetSP(),
			Stack:        m.cpu.GetStack(),
			DelayTimer:   m.cpu.GetDelayTimer(),
			SoundTimer:   m.cpu.GetSoundTimer(),
			Opcode:       m.cpu.GetCurrentOpcode(),
			Instructions: m.cpu.GetInstructionCount(),
			Halted:       m.cpu.Halted(),
		},
		Memory: &debug.MemorySnapshot{
			StartAddr: uint16(start),
			Bytes:     m.mmu.Snapshot(uint16(start), end-start),
		},
		Keys:          m.keypad.State(),
		SoundActive:   m.SoundActive(),
		DebuggerState: m.debuggerState,
		Frames:        m.frameCount,
	}
}

// Disassemble decodes up to before instructions ahead of PC, the one at PC and after more.
func (m *Machine) Disassemble(before, after int) []disasm.DisassemblyLine {
	return disasm.DisassembleAround(m.cpu.GetPC(), before, after, m.mmu)
}

// SetFrameLimiter replaces the frame pacing strategy; nil disables pacing.
func (m *Machine) SetFrameLimiter(limiter timing.Limiter) {
	if limiter == nil {
		m.limiter = timing.NewNoOpLimiter()
	} else {
		m.limiter = limiter
	}
}

// GetFrameCount returns the number of completed frames
func (m *Machine) GetFrameCount() uint64 {
	return m.frameCount
}

// GetInstructionCount returns the number of executed instructions
func (m *Machine) GetInstructionCount() uint64 {
	return m.cpu.GetInstructionCount()
}
