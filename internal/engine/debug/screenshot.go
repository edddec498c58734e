// Package debug provides developer tooling such as screenshots.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/engine/gfx"
	"github.com/Faultbox/prism/internal/logger"
)

// PixelReader copies the presented frame. gfx.Context implements it.
type PixelReader interface {
	ReadPixels(width, height int) (*image.RGBA, error)
}

// ScreenshotCapture writes frames to timestamped PNG files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
	last      string
	seq       int
}

var _ PixelReader = gfx.Context(nil)

// NewScreenshotCapture creates a capture writing into outputDir.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// SetOutputDir sets the output directory for screenshots.
func (sc *ScreenshotCapture) SetOutputDir(dir string) {
	sc.outputDir = dir
}

// Capture reads the back buffer and saves it.
func (sc *ScreenshotCapture) Capture(r PixelReader, width, height int) (string, error) {
	img, err := r.ReadPixels(width, height)
	if err != nil {
		return "", fmt.Errorf("reading pixels: %w", err)
	}
	return sc.CaptureFromImage(img)
}

// CaptureFromImage saves img as the next screenshot.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	logger.Info("screenshot saved", zap.String("path", filename))
	return filename, nil
}

// GenerateFilename returns the next file name. Captures within the same
// second get a numeric suffix.
func (sc *ScreenshotCapture) GenerateFilename() string {
	stamp := sc.now().Format("2006-01-02_15-04-05")
	name := fmt.Sprintf("%s_%s", sc.prefix, stamp)
	if stamp == sc.last {
		sc.seq++
		name = fmt.Sprintf("%s_%d", name, sc.seq)
	} else {
		sc.last, sc.seq = stamp, 0
	}
	return filepath.Join(sc.outputDir, name+".png")
}
