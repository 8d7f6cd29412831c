package chip8

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

func program(opcodes ...uint16) []byte {
	out := make([]byte, 0, len(opcodes)*2)
	for _, op := range opcodes {
		out = append(out, byte(op>>8), byte(op))
	}
	return out
}

func newMachine(t *testing.T, opcodes ...uint16) *Machine {
	t.Helper()
	m := NewWithConfig(Config{CyclesPerFrame: 10, Seed: 1})
	require.NoError(t, m.Load(program(opcodes...)))
	return m
}

func cycleN(t *testing.T, m *Machine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, m.Cycle())
	}
}

func TestLoadAndAdd(t *testing.T) {
	m := newMachine(t, 0x6005, 0x6103, 0x8014)

	cycleN(t, m, 2)
	assert.Equal(t, uint8(5), m.cpu.GetRegister(0))
	assert.Equal(t, uint8(3), m.cpu.GetRegister(1))

	cycleN(t, m, 1)
	assert.Equal(t, uint8(8), m.cpu.GetRegister(0))
	assert.Equal(t, uint8(0), m.cpu.GetRegister(addr.FlagRegister))
}

func TestClearIndexDrawGlyph(t *testing.T) {
	m := newMachine(t, 0x00E0, 0xA050, 0xD005)
	cycleN(t, m, 3)

	glyph := memory.Font[:addr.GlyphSize]
	fb := m.Framebuffer()
	for row := 0; row < addr.GlyphSize; row++ {
		for col := 0; col < 8; col++ {
			want := glyph[row]&(0x80>>col) != 0
			assert.Equal(t, want, fb.IsLit(uint(col), uint(row)), "pixel (%d,%d)", col, row)
		}
	}
	assert.Equal(t, 14, fb.LitCount())
	assert.Equal(t, uint8(0), m.cpu.GetRegister(addr.FlagRegister))
}

func TestLoadSizeLimit(t *testing.T) {
	m := New()

	require.NoError(t, m.Load(make([]byte, addr.MaxProgramSize)))

	big := make([]byte, addr.MaxProgramSize+1)
	big[0] = 0xAB
	err := m.Load(big)
	require.ErrorIs(t, err, memory.ErrImageTooLarge)
	assert.Equal(t, byte(0), m.mmu.Read(addr.ProgramStart), "memory must be untouched")
}

func TestNewWithFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "add.ch8")
	require.NoError(t, os.WriteFile(path, program(0x6005, 0x7003), 0o644))

	m, err := NewWithFile(path, DefaultConfig())
	require.NoError(t, err)
	cycleN(t, m, 2)
	assert.Equal(t, uint8(8), m.cpu.GetRegister(0))

	_, err = NewWithFile(filepath.Join(dir, "missing.ch8"), DefaultConfig())
	assert.Error(t, err)

	tooBig := filepath.Join(dir, "big.ch8")
	require.NoError(t, os.WriteFile(tooBig, make([]byte, addr.MaxProgramSize+1), 0o644))
	_, err = NewWithFile(tooBig, DefaultConfig())
	assert.ErrorIs(t, err, memory.ErrImageTooLarge)
}

func TestTimersTickOncePerFrame(t *testing.T) {
	// V0 = 3, DT = V0, ST = V0, then spin
	m := newMachine(t, 0x6003, 0xF015, 0xF018, 0x1206)

	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint8(2), m.cpu.GetDelayTimer())
	assert.True(t, m.SoundActive())

	require.NoError(t, m.RunUntilFrame())
	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint8(0), m.cpu.GetDelayTimer())
	assert.False(t, m.SoundActive())

	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint8(0), m.cpu.GetDelayTimer(), "timers stop at zero")
	assert.Equal(t, uint64(4), m.GetFrameCount())
	assert.Equal(t, uint64(40), m.GetInstructionCount())
}

func TestCycleDoesNotTickTimers(t *testing.T) {
	m := newMachine(t, 0x6009, 0xF015, 0x1204)
	cycleN(t, m, 50)
	assert.Equal(t, uint8(9), m.cpu.GetDelayTimer())

	m.TickTimers()
	assert.Equal(t, uint8(8), m.cpu.GetDelayTimer())
}

func TestWaitForKeyThroughSetKey(t *testing.T) {
	m := newMachine(t, 0xF30A, 0x1202)

	cycleN(t, m, 5)
	assert.Equal(t, addr.ProgramStart, m.cpu.GetPC())

	m.SetKey(0x7, true)
	cycleN(t, m, 1)
	assert.Equal(t, uint8(0x7), m.cpu.GetRegister(3))
	assert.Equal(t, uint16(0x202), m.cpu.GetPC())
}

func TestStackOverflowHaltsMachine(t *testing.T) {
	// CALL 0x200 recurses forever
	m := newMachine(t, 0x2200)

	cycleN(t, m, addr.StackDepth)

	err := m.Cycle()
	require.ErrorIs(t, err, cpu.ErrStackFault)

	var fault *cpu.StackFaultError
	require.True(t, errors.As(err, &fault))
	assert.True(t, fault.Overflow)
	assert.Equal(t, addr.ProgramStart, fault.PC)
	assert.Equal(t, uint16(0x2200), fault.Opcode)

	count := m.GetInstructionCount()
	assert.Equal(t, err, m.Cycle(), "halted machine keeps reporting the fault")
	assert.Equal(t, count, m.GetInstructionCount())
	assert.Equal(t, err, m.RunUntilFrame())
	assert.True(t, m.ExtractDebugData().CPU.Halted)
}

func TestStackUnderflowHaltsMachine(t *testing.T) {
	m := newMachine(t, 0x00EE)

	err := m.Cycle()
	var fault *cpu.StackFaultError
	require.True(t, errors.As(err, &fault))
	assert.False(t, fault.Overflow)
	assert.Equal(t, addr.ProgramStart, m.cpu.GetPC())
}

func TestHandleActionKeypad(t *testing.T) {
	m := New()

	m.HandleAction(action.Chip8KeyA, true)
	assert.True(t, m.keypad.IsPressed(0xA))

	m.HandleAction(action.Chip8KeyA, false)
	assert.False(t, m.keypad.IsPressed(0xA))
}

func TestDebuggerStates(t *testing.T) {
	opcodes := make([]uint16, 200)
	for i := range opcodes {
		opcodes[i] = 0x7001 // ADD V0, 1
	}
	m := newMachine(t, opcodes...)

	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint8(10), m.cpu.GetRegister(0))

	m.HandleAction(action.EmulatorPauseToggle, true)
	assert.Equal(t, debug.DebuggerPaused, m.GetDebuggerState())
	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint8(10), m.cpu.GetRegister(0), "paused machine does not execute")

	m.HandleAction(action.EmulatorStepInstruction, true)
	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint8(11), m.cpu.GetRegister(0))
	assert.Equal(t, debug.DebuggerPaused, m.GetDebuggerState())

	m.HandleAction(action.EmulatorStepFrame, true)
	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint8(21), m.cpu.GetRegister(0))
	assert.Equal(t, debug.DebuggerPaused, m.GetDebuggerState())

	// releases are ignored for debugger actions
	m.HandleAction(action.EmulatorPauseToggle, false)
	assert.Equal(t, debug.DebuggerPaused, m.GetDebuggerState())

	m.HandleAction(action.EmulatorPauseToggle, true)
	assert.Equal(t, debug.DebuggerRunning, m.GetDebuggerState())
	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, uint8(31), m.cpu.GetRegister(0))
}

type countingLimiter struct {
	waits  int
	resets int
}

func (c *countingLimiter) WaitForNextFrame() { c.waits++ }
func (c *countingLimiter) Reset()            { c.resets++ }

func TestFrameLimiter(t *testing.T) {
	m := newMachine(t, 0x1200)
	limiter := &countingLimiter{}
	m.SetFrameLimiter(limiter)

	require.NoError(t, m.RunUntilFrame())
	m.HandleAction(action.EmulatorPauseToggle, true)
	require.NoError(t, m.RunUntilFrame())
	m.HandleAction(action.EmulatorPauseToggle, true)

	assert.Equal(t, 2, limiter.waits, "paused frames are paced too")
	assert.Equal(t, 1, limiter.resets, "resuming resets frame timing")

	m.SetFrameLimiter(nil)
	require.NoError(t, m.RunUntilFrame())
	assert.Equal(t, 2, limiter.waits)
}

func TestExtractDebugData(t *testing.T) {
	m := newMachine(t, 0x6A42, 0xA123, 0x2208, 0x0000, 0xF015)
	m.SetKey(0x3, true)
	cycleN(t, m, 3)

	data := m.ExtractDebugData()
	require.NotNil(t, data.CPU)
	assert.Equal(t, uint8(0x42), data.CPU.V[0xA])
	assert.Equal(t, uint16(0x123), data.CPU.I)
	assert.Equal(t, uint16(0x208), data.CPU.PC)
	assert.Equal(t, uint8(1), data.CPU.SP)
	assert.Equal(t, []uint16{0x206}, data.CPU.Stack)
	assert.Equal(t, uint16(0x2208), data.CPU.Opcode)
	assert.Equal(t, uint64(3), data.CPU.Instructions)
	assert.True(t, data.Keys[0x3])
	assert.Equal(t, debug.DebuggerRunning, data.DebuggerState)

	require.NotNil(t, data.Memory)
	assert.Equal(t, uint16(0x208-debugWindow/2), data.Memory.StartAddr)
	assert.Len(t, data.Memory.Bytes, debugWindow)
	offset := 0x208 - int(data.Memory.StartAddr)
	assert.Equal(t, []byte{0xF0, 0x15}, data.Memory.Bytes[offset:offset+2])
}

func TestExtractDebugDataClampsToMemory(t *testing.T) {
	m := newMachine(t, 0x1FFE) // JP 0xFFE
	cycleN(t, m, 1)

	data := m.ExtractDebugData()
	assert.Equal(t, uint16(0xFFE), data.CPU.PC)
	assert.Equal(t, addr.MemorySize, int(data.Memory.StartAddr)+len(data.Memory.Bytes))
}

func TestTestPatternEmulator(t *testing.T) {
	e := NewTestPatternEmulator()
	require.Equal(t, video.PatternCheckerboard, e.Pattern())

	initial := video.NewFrameBuffer()
	initial.CopyFrom(e.GetCurrentFrame())
	assert.True(t, initial.IsLit(0, 0))

	e.HandleAction(action.EmulatorTestPatternCycle, false)
	assert.Equal(t, video.PatternCheckerboard, e.Pattern(), "release does not cycle")

	for i := 0; i < 29; i++ {
		require.NoError(t, e.RunUntilFrame())
	}
	assert.True(t, initial.Equal(e.GetCurrentFrame()))

	require.NoError(t, e.RunUntilFrame())
	assert.False(t, initial.Equal(e.GetCurrentFrame()), "pattern scrolls after the animation period")

	e.HandleAction(action.EmulatorTestPatternCycle, true)
	assert.Equal(t, video.PatternStripes, e.Pattern())
	e.HandleAction(action.EmulatorTestPatternCycle, true)
	e.HandleAction(action.EmulatorTestPatternCycle, true)
	assert.Equal(t, video.PatternCheckerboard, e.Pattern())

	data := e.ExtractDebugData()
	assert.Nil(t, data.CPU)
	assert.Equal(t, uint64(30), data.Frames)
}

func TestDisassembleAroundPC(t *testing.T) {
	m := newMachine(t, 0x6005, 0x6103, 0x8014, 0x00E0)
	cycleN(t, m, 2)

	lines := m.Disassemble(1, 1)
	require.Len(t, lines, 3)
	assert.Equal(t, uint16(0x202), lines[0].Address)
	assert.Equal(t, "LD V1, $03", lines[0].Instruction)
	assert.Equal(t, "ADD V0, V1", lines[1].Instruction)
	assert.Equal(t, "CLS", lines[2].Instruction)
}
