package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-chip8/chip8/video"
)

// Image converts the framebuffer to a grayscale image, each CHIP-8 pixel
// becoming a scale x scale block.
func Image(frame *video.FrameBuffer, scale int) *image.Gray {
	if scale < 1 {
		scale = 1
	}
	img := image.NewGray(image.Rect(0, 0, video.FramebufferWidth*scale, video.FramebufferHeight*scale))

	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			c := color.Gray{Y: 0x00}
			if frame.GetPixel(uint(x), uint(y)) != 0 {
				c = color.Gray{Y: 0xFF}
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetGray(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}

// EncodePNG writes the framebuffer to w as a PNG.
func EncodePNG(w io.Writer, frame *video.FrameBuffer, scale int) error {
	if err := png.Encode(w, Image(frame, scale)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SaveFramePNGToDir saves a framebuffer as <baseName>_<timestamp>.png in
// directory (the working directory if empty) and returns the file path.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string, scale int) (string, error) {
	if frame == nil {
		return "", fmt.Errorf("no frame to save")
	}

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	filename := fmt.Sprintf("%s_%s.png", baseName, time.Now().Format("20060102_150405.000"))
	filePath := filepath.Join(outputDir, filename)

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := EncodePNG(file, frame, scale); err != nil {
		return "", err
	}

	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", video.FramebufferWidth*scale, video.FramebufferHeight*scale))
	return filePath, nil
}
