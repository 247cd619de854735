package headless_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

func TestHeadlessBackend(t *testing.T) {
	t.Run("normal operation", func(t *testing.T) {
		h := headless.New(3, headless.SnapshotConfig{})

		err := h.Init(backend.BackendConfig{Title: "Test"})
		assert.NoError(t, err)

		frame := video.NewFrameBuffer()

		for i := 0; i < 3; i++ {
			events, err := h.Update(frame)
			assert.NoError(t, err)

			if i < 2 {
				assert.Empty(t, events)
			} else {
				require.Len(t, events, 1)
				assert.Equal(t, action.EmulatorQuit, events[0].Action)
				assert.Equal(t, event.Press, events[0].Type)
			}
		}
		assert.Equal(t, 3, h.FrameCount())

		assert.NoError(t, h.Cleanup())
	})

	t.Run("test pattern mode", func(t *testing.T) {
		h := headless.New(1, headless.SnapshotConfig{})

		err := h.Init(backend.BackendConfig{Title: "Test", TestPattern: true})
		assert.NoError(t, err)

		events, err := h.Update(video.NewFrameBuffer())
		assert.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, action.EmulatorQuit, events[0].Action)
	})

	t.Run("counts beeps", func(t *testing.T) {
		h := headless.New(1, headless.SnapshotConfig{})
		h.Beep()
		h.Beep()
		assert.Equal(t, 2, h.BeepCount())
	})
}

func TestHeadlessBackend_Snapshots(t *testing.T) {
	dir := t.TempDir()
	cfg, err := headless.CreateSnapshotConfig(2, dir, "roms/pong.ch8")
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "pong", cfg.ROMName)

	h := headless.New(3, cfg)
	require.NoError(t, h.Init(backend.BackendConfig{}))

	frame := video.NewFrameBuffer()
	for i := 0; i < 3; i++ {
		_, err := h.Update(frame)
		require.NoError(t, err)
	}

	// frame 2 by interval, frame 3 as the final snapshot
	files, err := filepath.Glob(filepath.Join(dir, "pong_frame_*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = os.Stat(h.LastSnapshot())
	assert.NoError(t, err)
}

func TestCreateSnapshotConfig_Disabled(t *testing.T) {
	cfg, err := headless.CreateSnapshotConfig(0, "", "game.ch8")
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Empty(t, cfg.Directory)
}

func TestHeadlessImplementsBackend(t *testing.T) {
	var _ backend.Backend = (*headless.Backend)(nil)
	var _ backend.Beeper = (*headless.Backend)(nil)
	var _ backend.ActionHandler = (*headless.Backend)(nil)
}

func TestHeadlessBackend_SnapshotAction(t *testing.T) {
	dir := t.TempDir()
	h := headless.New(10, headless.SnapshotConfig{Directory: dir, ROMName: "manual", Scale: 1})
	require.NoError(t, h.Init(backend.BackendConfig{}))

	h.HandleAction(action.EmulatorSnapshot)
	assert.Empty(t, h.LastSnapshot(), "nothing to save before the first frame")

	_, err := h.Update(video.NewFrameBuffer())
	require.NoError(t, err)
	h.HandleAction(action.EmulatorSnapshot)

	assert.Equal(t, dir, filepath.Dir(h.LastSnapshot()))
}
