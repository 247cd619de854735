package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/snapshot"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend runs a fixed number of frames without any output, optionally
// writing PNG snapshots. Used for automated runs and batch processing.
type Backend struct {
	config         backend.BackendConfig
	frameCount     int
	maxFrames      int
	beeps          int
	snapshotConfig SnapshotConfig
	lastSnapshot   string
	lastFrame      *video.FrameBuffer
}

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	ROMName   string // ROM name for snapshot filenames
	Scale     int
}

func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	if config.TestPattern {
		slog.Info("Headless test pattern mode, exiting after first frame")
		return nil
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel})
	slog.SetDefault(slog.New(handler))

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)

	return nil
}

// Update counts the frame, saves snapshots when due and emits a Quit event
// once maxFrames have been processed.
func (h *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	if h.config.TestPattern {
		return []backend.InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}, nil
	}

	h.frameCount++
	h.lastFrame = frame

	if h.snapshotDue() {
		h.saveSnapshot(frame)
	}

	if h.frameCount%60 == 0 {
		slog.Debug("Frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.frameCount < h.maxFrames {
		return nil, nil
	}

	if h.snapshotConfig.Enabled && !h.snapshotDue() {
		h.saveSnapshot(frame)
	}
	if h.snapshotConfig.Enabled {
		slog.Info("Headless execution completed", "frames", h.frameCount, "beeps", h.beeps, "png_snapshots_saved_to", h.snapshotConfig.Directory)
	} else {
		slog.Info("Headless execution completed", "frames", h.frameCount, "beeps", h.beeps)
	}

	return []backend.InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}, nil
}

// Beep records the buzzer; there is no audio device in headless mode.
func (h *Backend) Beep() {
	h.beeps++
}

// HandleAction saves an on-demand snapshot of the last frame for EmulatorSnapshot.
func (h *Backend) HandleAction(act action.Action) {
	if act != action.EmulatorSnapshot {
		return
	}
	if h.lastFrame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}
	h.saveSnapshot(h.lastFrame)
}

func (h *Backend) Cleanup() error {
	return nil
}

// FrameCount returns the number of frames processed so far.
func (h *Backend) FrameCount() int { return h.frameCount }

// BeepCount returns the number of frames during which the buzzer was on.
func (h *Backend) BeepCount() int { return h.beeps }

// LastSnapshot returns the path of the most recent snapshot, if any.
func (h *Backend) LastSnapshot() string { return h.lastSnapshot }

func (h *Backend) snapshotDue() bool {
	return h.snapshotConfig.Enabled && h.snapshotConfig.Interval > 0 && h.frameCount%h.snapshotConfig.Interval == 0
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
		Scale:    backend.DefaultScale,
	}

	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "chip8-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	name := filepath.Base(romPath)
	config.ROMName = strings.TrimSuffix(name, filepath.Ext(name))
	if config.ROMName == "" || config.ROMName == "." {
		config.ROMName = "chip8"
	}

	return config, nil
}

func (h *Backend) saveSnapshot(frame *video.FrameBuffer) {
	baseName := fmt.Sprintf("%s_frame_%d", h.snapshotConfig.ROMName, h.frameCount)

	path, err := snapshot.SaveFramePNGToDir(frame, baseName, h.snapshotConfig.Directory, h.snapshotConfig.Scale)
	if err != nil {
		slog.Error("Failed to save PNG snapshot", "frame", h.frameCount, "error", err)
		return
	}
	h.lastSnapshot = path
}
