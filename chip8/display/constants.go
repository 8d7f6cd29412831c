package display

// RGBA pixel format constants
const (
	// RGBABytesPerPixel is the number of bytes per pixel in RGBA format
	RGBABytesPerPixel = 4
)

// Backend scaling and window constants
const (
	// DefaultPixelScale is the default scaling factor for a single CHIP-8 pixel
	DefaultPixelScale = 10
	// DefaultSnapshotScale is the scaling factor used when writing PNG snapshots
	DefaultSnapshotScale = 8
)

// Test pattern constants
const (
	// TestPatternCount is the number of available test patterns
	TestPatternCount = 3
	// TestPatternTileSize is the size of tiles for checkerboard and diagonal patterns
	TestPatternTileSize = 4
	// TestPatternStripeWidth is the width of stripes in the stripe pattern
	TestPatternStripeWidth = 2
	// TestPatternAnimationFrames is the number of frames between test pattern animations
	TestPatternAnimationFrames = 30
)

// Color mapping constants
const (
	// ForegroundGray is the grayscale value used for lit pixels
	ForegroundGray = 255
	// BackgroundGray is the grayscale value used for unlit pixels
	BackgroundGray = 0
	// FullAlpha is the alpha value for fully opaque pixels
	FullAlpha = 255
)
