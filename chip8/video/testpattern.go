package video

import "github.com/valerio/go-chip8/chip8/display"

// TestPattern selects one of the generated calibration images.
type TestPattern int

const (
	PatternCheckerboard TestPattern = iota
	PatternStripes
	PatternDiagonal
)

func (p TestPattern) String() string {
	switch p {
	case PatternCheckerboard:
		return "checkerboard"
	case PatternStripes:
		return "stripes"
	case PatternDiagonal:
		return "diagonal"
	default:
		return "unknown"
	}
}

// DrawTestPattern fills the frame buffer with the given pattern, shifted horizontally by offset.
func DrawTestPattern(fb *FrameBuffer, pattern TestPattern, offset int) {
	for y := 0; y < int(fb.height); y++ {
		for x := 0; x < int(fb.width); x++ {
			px := x + offset
			var on bool
			switch pattern {
			case PatternCheckerboard:
				on = ((px/display.TestPatternTileSize)+(y/display.TestPatternTileSize))%2 == 0
			case PatternStripes:
				on = (px/display.TestPatternStripeWidth)%2 == 0
			case PatternDiagonal:
				on = ((px+y)/display.TestPatternTileSize)%2 == 0
			}
			fb.SetPixel(uint(x), uint(y), on)
		}
	}
}
