package render

import "github.com/valerio/go-chip8/chip8/video"

// HalfBlock returns the character that draws two vertically stacked pixels
// in a single terminal cell, lit pixels in the foreground color.
func HalfBlock(top, bottom uint32) rune {
	topOn := top == video.PixelOn
	bottomOn := bottom == video.PixelOn

	switch {
	case topOn && bottomOn:
		return '█'
	case topOn:
		return '▀'
	case bottomOn:
		return '▄'
	default:
		return ' '
	}
}
