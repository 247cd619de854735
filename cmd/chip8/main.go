package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/backend/sdl2"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/timing"
)

func main() {
	app := newApp()

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Description = "A CHIP-8 interpreter"
	app.Usage = "chip8 [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "rom",
			Usage:  "Path to the ROM file (plain or inside a zip/7z/gzip/tar.gz/rar archive)",
			EnvVar: "CHIP8_ROM",
		},
		cli.StringFlag{
			Name:   "backend",
			Usage:  "Backend to use: terminal, sdl2 or headless",
			Value:  "terminal",
			EnvVar: "CHIP8_BACKEND",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:   "speed",
			Usage:  "Instructions executed per 60Hz frame",
			Value:  chip8.DefaultInstructionsPerFrame,
			EnvVar: "CHIP8_SPEED",
		},
		cli.IntFlag{
			Name:   "scale",
			Usage:  "Window and snapshot scale factor",
			Value:  backend.DefaultScale,
			EnvVar: "CHIP8_SCALE",
		},
		cli.StringFlag{
			Name:   "limiter",
			Usage:  "Frame limiter: adaptive, ticker or none",
			Value:  "adaptive",
			EnvVar: "CHIP8_LIMITER",
		},
		cli.BoolFlag{
			Name:  "test-pattern",
			Usage: "Display a test pattern instead of running a ROM (for debugging display)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save PNG snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "Log level: debug, info, warn or error",
			Value:  "info",
			EnvVar: "CHIP8_LOG_LEVEL",
		},
	}
	app.Action = runEmulator
	return app
}

func runEmulator(c *cli.Context) error {
	level, err := parseLogLevel(c.String("log-level"))
	if err != nil {
		return err
	}

	backendName := strings.ToLower(c.String("backend"))
	testPattern := c.Bool("test-pattern")

	var (
		emu     chip8.Emulator
		romPath string
	)
	if testPattern {
		slog.Info("Running in test pattern mode")
		emu = chip8.NewTestPatternEmulator()
	} else {
		romPath = c.String("rom")
		if romPath == "" {
			if c.NArg() > 0 {
				romPath = c.Args().Get(0)
			} else {
				cli.ShowAppHelp(c)
				return errors.New("no ROM path provided")
			}
		}

		machine, err := chip8.NewWithFile(romPath, chip8.WithInstructionsPerFrame(c.Int("speed")))
		if err != nil {
			return err
		}
		emu = machine
	}

	b, err := createBackend(backendName, c.Int("frames"), c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath, c.Int("scale"))
	if err != nil {
		return err
	}

	// terminal and headless install their own log handlers in Init
	if backendName == "sdl2" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	var limiter timing.Limiter
	if backendName == "headless" {
		limiter = timing.NewNoOpLimiter()
	} else {
		limiter = timing.New(c.String("limiter"))
	}
	if stopper, ok := limiter.(interface{ Stop() }); ok {
		defer stopper.Stop()
	}

	config := backend.BackendConfig{
		Title:       "CHIP-8",
		Scale:       c.Int("scale"),
		TestPattern: testPattern,
		LogLevel:    level,
	}
	if romPath != "" {
		config.Title = fmt.Sprintf("CHIP-8 - %s", romPath)
	}

	return chip8.Run(emu, b, config, limiter)
}

// createBackend builds the named backend. Headless needs a positive frame count.
func createBackend(name string, frames, snapshotInterval int, snapshotDir, romPath string, scale int) (backend.Backend, error) {
	switch name {
	case "headless":
		if frames <= 0 {
			return nil, errors.New("headless mode requires --frames option with a positive value")
		}
		snapshotConfig, err := headless.CreateSnapshotConfig(snapshotInterval, snapshotDir, romPath)
		if err != nil {
			return nil, err
		}
		if scale > 0 {
			snapshotConfig.Scale = scale
		}
		return headless.New(frames, snapshotConfig), nil
	case "terminal":
		return terminal.New(), nil
	case "sdl2":
		return sdl2.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (expected terminal, sdl2 or headless)", name)
	}
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
