package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-chip8/chip8/addr"
)

func TestNewLoadsFont(t *testing.T) {
	mmu := New()

	for i, b := range Font {
		assert.Equal(t, b, mmu.Read(addr.FontStart+uint16(i)), "font byte %d", i)
	}

	assert.Equal(t, byte(0xF0), mmu.Read(0x50), "glyph 0 first row")
	assert.Equal(t, byte(0x80), mmu.Read(addr.FontEnd), "glyph F last row")
	assert.Equal(t, byte(0), mmu.Read(addr.ProgramStart))
}

func TestLoadProgram(t *testing.T) {
	t.Run("copies image at program start", func(t *testing.T) {
		mmu := New()
		require.NoError(t, mmu.LoadProgram([]byte{0x60, 0x05, 0x70, 0xFF}))

		assert.Equal(t, []byte{0x60, 0x05, 0x70, 0xFF}, mmu.Snapshot(addr.ProgramStart, 4))
	})

	t.Run("empty image is accepted", func(t *testing.T) {
		mmu := New()
		assert.NoError(t, mmu.LoadProgram(nil))
	})

	t.Run("maximum size fills memory", func(t *testing.T) {
		program := make([]byte, 3584)
		for i := range program {
			program[i] = 0xAA
		}

		mmu := New()
		require.NoError(t, mmu.LoadProgram(program))
		assert.Equal(t, byte(0xAA), mmu.Read(0xFFF))
	})

	t.Run("one byte too many is rejected without side effects", func(t *testing.T) {
		program := make([]byte, 3585)
		for i := range program {
			program[i] = 0xAA
		}

		mmu := New()
		err := mmu.LoadProgram(program)

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrImageTooLarge))
		assert.Equal(t, byte(0), mmu.Read(addr.ProgramStart))
		assert.Equal(t, byte(0), mmu.Read(0xFFF))
	})

	t.Run("NewWithProgram propagates errors", func(t *testing.T) {
		mmu, err := NewWithProgram(make([]byte, 4000))
		assert.ErrorIs(t, err, ErrImageTooLarge)
		assert.Nil(t, mmu)
	})
}

func TestAddressWrapping(t *testing.T) {
	mmu := New()

	mmu.Write(0x1005, 0x42)
	assert.Equal(t, byte(0x42), mmu.Read(0x005))
	assert.Equal(t, byte(0x42), mmu.Read(0xF005))

	mmu.Write(0xFFF, 0x12)
	mmu.Write(0x000, 0x34)
	assert.Equal(t, byte(0x34), mmu.Read(0x1000))
	assert.Equal(t, []byte{0x12, 0x34}, mmu.Snapshot(0xFFF, 2))
}
