package cpu

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/video"
)

// Bus provides access to the 4 KiB address space.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// Keys exposes the keypad state to the skip and wait-for-key instructions.
type Keys interface {
	IsPressed(key uint8) bool
	FirstPressed() (uint8, bool)
}

// Option configures a CPU at construction time.
type Option func(*CPU)

// WithRand sets the random source used by RND.
func WithRand(r *rand.Rand) Option {
	return func(c *CPU) {
		c.rng = r
	}
}

// WithSeed seeds the random source used by RND, making runs reproducible.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// CPU holds the architectural state of the interpreter and executes instructions
// against a Bus, a frame buffer and a keypad.
type CPU struct {
	// registers
	v  [addr.RegisterCount]uint8
	i  uint16
	pc uint16

	stack [addr.StackDepth]uint16
	sp    uint8

	delayTimer uint8
	soundTimer uint8

	// metadata
	currentOpcode uint16
	instructions  uint64
	fault         error

	rng  *rand.Rand
	bus  Bus
	fb   *video.FrameBuffer
	keys Keys
}

// New returns a CPU ready to execute from addr.ProgramStart.
// Unless an option says otherwise, RND is seeded from the wall clock.
func New(bus Bus, fb *video.FrameBuffer, keys Keys, opts ...Option) *CPU {
	c := &CPU{
		pc:   addr.ProgramStart,
		bus:  bus,
		fb:   fb,
		keys: keys,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.rng == nil {
		seed := uint64(time.Now().UnixNano())
		c.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	return c
}

// Exec fetches, decodes and executes a single instruction.
// The only error it returns is a *StackFaultError. After a fault the CPU is halted
// and every following call returns the same error.
func (c *CPU) Exec() error {
	if c.fault != nil {
		return c.fault
	}

	c.currentOpcode = bit.Combine(c.bus.Read(c.pc), c.bus.Read((c.pc+1)&addr.AddressMask))
	c.pc = (c.pc + addr.InstructionSize) & addr.AddressMask

	inst := Decode(c.currentOpcode)

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("exec",
			"pc", c.pc-addr.InstructionSize,
			"opcode", c.currentOpcode,
			"instruction", inst.String(),
		)
	}

	c.execute(inst)
	c.instructions++

	return c.fault
}

// TickTimers decrements both timers by one, stopping at zero.
func (c *CPU) TickTimers() {
	if c.delayTimer > 0 {
		c.delayTimer--
	}
	if c.soundTimer > 0 {
		c.soundTimer--
	}
}

// SoundActive reports whether the sound timer is running.
func (c *CPU) SoundActive() bool {
	return c.soundTimer > 0
}

// Halted reports whether a stack fault stopped execution.
func (c *CPU) Halted() bool {
	return c.fault != nil
}

// Fault returns the error that halted the CPU, if any.
func (c *CPU) Fault() error {
	return c.fault
}

// pushStack stores a return address. Returns false if the stack is full.
func (c *CPU) pushStack(address uint16) bool {
	if int(c.sp) >= len(c.stack) {
		return false
	}
	c.stack[c.sp] = address
	c.sp++
	return true
}

// popStack returns the most recent return address. Returns false if the stack is empty.
func (c *CPU) popStack() (uint16, bool) {
	if c.sp == 0 {
		return 0, false
	}
	c.sp--
	return c.stack[c.sp], true
}

// stackFault halts the CPU and rewinds PC to the faulting instruction.
func (c *CPU) stackFault(overflow bool) {
	c.pc = (c.pc - addr.InstructionSize) & addr.AddressMask
	c.fault = &StackFaultError{
		PC:       c.pc,
		Opcode:   c.currentOpcode,
		Overflow: overflow,
	}
	slog.Warn("cpu halted", "error", c.fault)
}

// GetPC returns the current program counter value
func (c *CPU) GetPC() uint16 {
	return c.pc
}

// GetI returns the index register
func (c *CPU) GetI() uint16 {
	return c.i
}

// GetSP returns the number of return addresses on the stack
func (c *CPU) GetSP() uint8 {
	return c.sp
}

// GetRegister returns the value of register VX; only the low nibble of x is used
func (c *CPU) GetRegister(x uint8) uint8 {
	return c.v[x&0x0F]
}

// GetRegisters returns a copy of V0 through VF
func (c *CPU) GetRegisters() [addr.RegisterCount]uint8 {
	return c.v
}

// GetStack returns the return addresses currently on the stack, oldest first
func (c *CPU) GetStack() []uint16 {
	out := make([]uint16, c.sp)
	copy(out, c.stack[:c.sp])
	return out
}

func (c *CPU) GetDelayTimer() uint8 {
	return c.delayTimer
}

func (c *CPU) GetSoundTimer() uint8 {
	return c.soundTimer
}

// GetCurrentOpcode returns the last fetched opcode
func (c *CPU) GetCurrentOpcode() uint16 {
	return c.currentOpcode
}

// GetInstructionCount returns the number of instructions executed so far
func (c *CPU) GetInstructionCount() uint64 {
	return c.instructions
}
