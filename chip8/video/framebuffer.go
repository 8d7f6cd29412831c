package video

import "github.com/valerio/go-chip8/chip8/addr"

// Pixel values stored in the frame buffer. A pixel is always exactly one of the two.
const (
	PixelOn  uint32 = 0xFFFFFFFF
	PixelOff uint32 = 0x00000000
)

const (
	FramebufferWidth  = addr.DisplayWidth
	FramebufferHeight = addr.DisplayHeight
)

// FrameBuffer is the 64x32 monochrome display, stored row-major.
type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint32
}

// NewFrameBuffer creates a cleared frame buffer with the display size.
func NewFrameBuffer() *FrameBuffer {
	return NewFrameBufferWithSize(FramebufferWidth, FramebufferHeight)
}

// NewFrameBufferWithSize creates a cleared frame buffer with the specified size.
func NewFrameBufferWithSize(width, height uint) *FrameBuffer {
	return &FrameBuffer{
		width:  width,
		height: height,
		buffer: make([]uint32, width*height),
	}
}

func (fb *FrameBuffer) Width() uint {
	return fb.width
}

func (fb *FrameBuffer) Height() uint {
	return fb.height
}

func (fb *FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

// SetPixel sets a pixel on or off.
func (fb *FrameBuffer) SetPixel(x, y uint, on bool) {
	if on {
		fb.buffer[y*fb.width+x] = PixelOn
	} else {
		fb.buffer[y*fb.width+x] = PixelOff
	}
}

// IsLit reports whether the pixel at (x, y) is on.
func (fb *FrameBuffer) IsLit(x, y uint) bool {
	return fb.buffer[y*fb.width+x] == PixelOn
}

// Toggle flips the pixel at (x, y) and reports whether it was lit before the flip.
func (fb *FrameBuffer) Toggle(x, y uint) (wasLit bool) {
	i := y*fb.width + x
	wasLit = fb.buffer[i] == PixelOn
	fb.buffer[i] ^= PixelOn
	return wasLit
}

// Clear turns every pixel off.
func (fb *FrameBuffer) Clear() {
	for i := range fb.buffer {
		fb.buffer[i] = PixelOff
	}
}

// LitCount returns the number of pixels currently on.
func (fb *FrameBuffer) LitCount() int {
	count := 0
	for _, p := range fb.buffer {
		if p == PixelOn {
			count++
		}
	}
	return count
}

// CopyFrom overwrites this buffer with the contents of other, which must have the same size.
func (fb *FrameBuffer) CopyFrom(other *FrameBuffer) {
	copy(fb.buffer, other.buffer)
}

// Equal reports whether both buffers have the same size and contents.
func (fb *FrameBuffer) Equal(other *FrameBuffer) bool {
	if fb.width != other.width || fb.height != other.height {
		return false
	}
	for i := range fb.buffer {
		if fb.buffer[i] != other.buffer[i] {
			return false
		}
	}
	return true
}

func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}
