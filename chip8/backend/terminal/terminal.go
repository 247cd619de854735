package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/terminal/render"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/snapshot"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	// terminal cells are roughly twice as tall as wide
	scaleX = 2

	gameAreaWidth  = video.FramebufferWidth * scaleX
	gameAreaHeight = video.FramebufferHeight / render.RowsPerCell
	minTermWidth   = gameAreaWidth
	minTermHeight  = gameAreaHeight + 6

	logCapacity = 200

	// tcell has no key-up events: a key counts as held until it stops repeating
	keyTimeout = 100 * time.Millisecond
	// minimum gap between terminal bells
	beepInterval = 250 * time.Millisecond
)

// Backend renders to the terminal with tcell.
type Backend struct {
	screen     tcell.Screen
	config     backend.BackendConfig
	logBuffer  *render.LogBuffer
	logLevel   slog.Level
	eventQueue []backend.InputEvent
	signals    chan os.Signal
	now        func() time.Time

	keyStates  map[action.Action]time.Time // last time each keypad key was seen
	activeKeys map[action.Action]bool      // keypad keys held on the previous Update

	currentFrame *video.FrameBuffer
	lastBeep     time.Time
}

// New creates a terminal backend drawing to the real terminal.
func New() *Backend {
	return &Backend{now: time.Now}
}

// NewWithScreen creates a backend drawing to the given screen, e.g. a
// tcell.SimulationScreen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen, now: time.Now}
}

func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.logLevel = config.LogLevel
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	// the log panel replaces stderr output, which would corrupt the screen
	t.logBuffer = render.NewLogBuffer(logCapacity)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	slog.Info("Terminal backend initialized", "test_pattern", config.TestPattern)
	return nil
}

// Update polls terminal input, converts it into events and draws the frame.
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	now := t.now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	select {
	case sig := <-t.signals:
		slog.Info("Received signal, quitting", "signal", sig)
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	default:
	}

	events := t.keypadEvents(now)
	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	if frame != nil {
		t.currentFrame = frame
		t.render(frame)
		t.screen.Show()
	}

	return events, nil
}

// keypadEvents turns key timestamps into Press/Hold/Release transitions.
func (t *Backend) keypadEvents(now time.Time) []backend.InputEvent {
	var events []backend.InputEvent
	active := make(map[action.Action]bool)

	for act, seen := range t.keyStates {
		if now.Sub(seen) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}
		active[act] = true
		if t.activeKeys[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
		} else {
			slog.Debug("Key press", "action", act)
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		}
	}

	for act := range t.activeKeys {
		if !active[act] {
			slog.Debug("Key release", "action", act)
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = active
	return events
}

func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

// Beep rings the terminal bell, at most once per beepInterval.
func (t *Backend) Beep() {
	now := t.now()
	if now.Sub(t.lastBeep) < beepInterval {
		return
	}
	t.lastBeep = now
	if err := t.screen.Beep(); err != nil {
		slog.Debug("Terminal bell failed", "error", err)
	}
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		if t.currentFrame == nil {
			slog.Warn("No frame data available for snapshot")
			return
		}
		if _, err := snapshot.SaveFramePNGToDir(t.currentFrame, "chip8_snapshot", "", t.config.ScaleOrDefault()); err != nil {
			slog.Error("Failed to save snapshot", "error", err)
		}
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(-4)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(4)
	}
}

// LogLevel returns the minimum level shown in the log panel.
func (t *Backend) LogLevel() slog.Level { return t.logLevel }

// changeLogLevel moves the panel filter by delta, one slog level being 4 apart.
func (t *Backend) changeLogLevel(delta slog.Level) {
	next := t.logLevel + delta
	if next < slog.LevelDebug || next > slog.LevelError {
		return
	}
	slog.Info("Log filter changed", "from", t.logLevel, "to", next)
	t.logLevel = next
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	name, ok := keyName(ev)
	if !ok {
		return
	}
	if ev.Key() == tcell.KeyCtrlC {
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
		return
	}

	act, ok := input.GetDefaultMapping(name)
	if !ok {
		return
	}

	if action.GetInfo(act).Category == action.CategoryGameInput {
		t.keyStates[act] = now
		return
	}
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

// tcellKeyNames converts special tcell keys to the names used in input.DefaultKeyMap
var tcellKeyNames = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
	tcell.KeyF5:     "F5",
	tcell.KeyF12:    "F12",
	tcell.KeyCtrlC:  "Ctrl+C",
}

func keyName(ev *tcell.EventKey) (string, bool) {
	if ev.Key() != tcell.KeyRune {
		name, ok := tcellKeyNames[ev.Key()]
		return name, ok
	}
	r := ev.Rune()
	if r == ' ' {
		return "Space", true
	}
	return string(unicode.ToLower(r)), true
}

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	title := " CHIP-8 "
	if t.config.Title != "" {
		title = fmt.Sprintf(" CHIP-8: %s ", t.config.Title)
	}
	t.drawText(1, 0, termWidth-1, title, titleStyle)

	t.drawScreen(frame, 1)

	logTop := gameAreaHeight + 1
	for x := 0; x < termWidth; x++ {
		t.screen.SetContent(x, logTop, '─', nil, borderStyle)
	}
	t.drawText(2, logTop, termWidth-2, fmt.Sprintf(" Logs [%s] (-/+ filter) ", t.logLevel), titleStyle)
	t.drawLogs(0, logTop+1, termWidth, termHeight-logTop-2)

	help := " ESC=quit SPACE=pause F5=reset F12=snapshot | keypad: 1234 QWER ASDF ZXCV "
	if t.config.TestPattern {
		help = " Test pattern: T=cycle F12=snapshot ESC=exit "
	}
	t.drawText(0, termHeight-1, termWidth, help, borderStyle)
}

func (t *Backend) drawScreen(frame *video.FrameBuffer, top int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for row, line := range render.FrameLines(frame, scaleX) {
		x := 0
		for _, glyph := range line {
			t.screen.SetContent(x, top+row, glyph, nil, style)
			x++
		}
	}
}

func (t *Backend) drawLogs(x, y, width, rows int) {
	if rows <= 0 {
		return
	}

	styles := map[slog.Level]tcell.Style{
		slog.LevelDebug: tcell.StyleDefault.Foreground(tcell.ColorGray),
		slog.LevelInfo:  tcell.StyleDefault.Foreground(tcell.ColorBlue),
		slog.LevelWarn:  tcell.StyleDefault.Foreground(tcell.ColorYellow),
		slog.LevelError: tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	}

	line := 0
	for _, entry := range t.logBuffer.GetRecent(0) {
		if line >= rows {
			break
		}
		if entry.Level < t.logLevel {
			continue
		}
		text := render.FormatLogEntry(entry)
		if len(text) > width && width > 3 {
			text = text[:width-3] + "..."
		}
		t.drawText(x, y+line, width, text, styles[entry.Level])
		line++
	}
}

func (t *Backend) drawText(x, y, width int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		if i >= width {
			return
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}
