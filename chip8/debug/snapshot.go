package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/video"
)

// TakeSnapshot saves the current frame to the working directory, named after the ROM
// or the test pattern being shown.
func TakeSnapshot(frame *video.FrameBuffer, baseName string) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	if baseName == "" {
		baseName = "chip8_snapshot"
	} else {
		baseName = fmt.Sprintf("chip8_snapshot_%s", baseName)
	}

	if _, err := SaveFramePNGToDir(frame, baseName, ""); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// FrameToImage renders the frame buffer as a grayscale RGBA image, each pixel scaled up
// to a scale x scale square.
func FrameToImage(frame *video.FrameBuffer, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}

	width, height := int(frame.Width()), int(frame.Height())
	img := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))

	on := color.RGBA{R: display.ForegroundGray, G: display.ForegroundGray, B: display.ForegroundGray, A: display.FullAlpha}
	off := color.RGBA{R: display.BackgroundGray, G: display.BackgroundGray, B: display.BackgroundGray, A: display.FullAlpha}

	for y := 0; y < height*scale; y++ {
		for x := 0; x < width*scale; x++ {
			if frame.IsLit(uint(x/scale), uint(y/scale)) {
				img.SetRGBA(x, y, on)
			} else {
				img.SetRGBA(x, y, off)
			}
		}
	}

	return img
}

// SaveFramePNGToDir saves a framebuffer as PNG with timestamp to a specific directory
// and returns the path written.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string) (string, error) {
	img := FrameToImage(frame, display.DefaultSnapshotScale)

	timestamp := time.Now().Format("20060102_150405.000")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	// Determine output directory
	var outputDir string
	if directory != "" {
		outputDir = directory
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %v", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %v", filePath, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %v", err)
	}

	bounds := img.Bounds()
	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()), "format", "PNG")
	return filePath, nil
}
