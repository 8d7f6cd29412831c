package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFrameBuffer(t *testing.T) {
	fb := NewFrameBuffer()

	assert.Equal(t, uint(64), fb.Width())
	assert.Equal(t, uint(32), fb.Height())
	assert.Len(t, fb.ToSlice(), 64*32)
	assert.Equal(t, 0, fb.LitCount())
}

func TestToggle(t *testing.T) {
	fb := NewFrameBuffer()

	assert.False(t, fb.Toggle(3, 4), "first toggle turns on an unlit pixel")
	assert.True(t, fb.IsLit(3, 4))
	assert.Equal(t, PixelOn, fb.GetPixel(3, 4))
	assert.Equal(t, PixelOn, fb.ToSlice()[4*64+3], "row-major layout")

	assert.True(t, fb.Toggle(3, 4), "second toggle reports the collision")
	assert.False(t, fb.IsLit(3, 4))
	assert.Equal(t, PixelOff, fb.GetPixel(3, 4))
}

func TestPixelsAreAlwaysOnOrOff(t *testing.T) {
	fb := NewFrameBuffer()
	for i := 0; i < 5; i++ {
		fb.Toggle(10, 10)
		fb.SetPixel(11, 10, i%2 == 0)
	}

	for _, p := range fb.ToSlice() {
		assert.True(t, p == PixelOn || p == PixelOff)
	}
}

func TestClearAndCopy(t *testing.T) {
	fb := NewFrameBuffer()
	fb.SetPixel(0, 0, true)
	fb.SetPixel(63, 31, true)
	assert.Equal(t, 2, fb.LitCount())

	other := NewFrameBuffer()
	assert.False(t, fb.Equal(other))
	other.CopyFrom(fb)
	assert.True(t, fb.Equal(other))

	fb.Clear()
	assert.Equal(t, 0, fb.LitCount())
	assert.False(t, fb.Equal(other))
	assert.False(t, fb.Equal(NewFrameBufferWithSize(8, 8)))
}

func TestDrawTestPattern(t *testing.T) {
	tests := []struct {
		pattern TestPattern
		name    string
	}{
		{PatternCheckerboard, "checkerboard"},
		{PatternStripes, "stripes"},
		{PatternDiagonal, "diagonal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFrameBuffer()
			DrawTestPattern(fb, tt.pattern, 0)

			assert.Equal(t, tt.name, tt.pattern.String())
			assert.True(t, fb.IsLit(0, 0))
			assert.Equal(t, 64*32/2, fb.LitCount(), "patterns are half lit")
		})
	}
}
