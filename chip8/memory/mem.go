package memory

import (
	"errors"
	"fmt"

	"github.com/valerio/go-chip8/chip8/addr"
)

// ErrImageTooLarge is returned when a program does not fit between
// addr.ProgramStart and the end of memory.
var ErrImageTooLarge = errors.New("program image too large")

// Font holds the built-in 4x5 hexadecimal glyphs, 0 through F.
var Font = [addr.GlyphCount * addr.GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// MMU owns the 4 KiB address space. All accesses are masked to 12 bits,
// so any computed address wraps around inside memory.
type MMU struct {
	memory [addr.MemorySize]byte
}

// New creates a memory unit with the font preloaded and nothing else,
// equivalent to powering on the machine with no program.
func New() *MMU {
	mmu := &MMU{}
	mmu.loadFont()
	return mmu
}

// NewWithProgram creates a memory unit with the font and the given program loaded.
func NewWithProgram(program []byte) (*MMU, error) {
	mmu := New()
	if err := mmu.LoadProgram(program); err != nil {
		return nil, err
	}
	return mmu, nil
}

func (m *MMU) loadFont() {
	copy(m.memory[addr.FontStart:], Font[:])
}

// LoadProgram copies the image verbatim starting at addr.ProgramStart.
// The size is checked before anything is written, so a failed load leaves memory untouched.
func (m *MMU) LoadProgram(program []byte) error {
	if len(program) > addr.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrImageTooLarge, len(program), addr.MaxProgramSize)
	}

	copy(m.memory[addr.ProgramStart:], program)
	return nil
}

// Read returns the byte at the given address.
func (m *MMU) Read(address uint16) byte {
	return m.memory[address&addr.AddressMask]
}

// Write stores a byte at the given address.
func (m *MMU) Write(address uint16, value byte) {
	m.memory[address&addr.AddressMask] = value
}

// Snapshot copies length bytes starting at address, wrapping around the end of memory.
func (m *MMU) Snapshot(address uint16, length int) []byte {
	out := make([]byte, length)
	for i := range out {
		out[i] = m.Read(address + uint16(i))
	}
	return out
}
