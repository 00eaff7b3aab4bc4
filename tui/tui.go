package tui

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/blocks"
	"github.com/user/studio-review/db"
	"github.com/user/studio-review/drawing"
	"github.com/user/studio-review/filmstrip"
	"github.com/user/studio-review/jobs"
	"github.com/user/studio-review/mpv"
	"github.com/user/studio-review/player"
	"github.com/user/studio-review/tui/components"
	"github.com/user/studio-review/tui/forms"
)

const (
	// tickInterval is the interval for refreshing the view and overlay.
	tickInterval = 250 * time.Millisecond
	// defaultStepSize is the default seek step size in seconds.
	defaultStepSize = 5.0
	// resultDisplayDuration is how long to show command results.
	resultDisplayDuration = 3 * time.Second
	// ipcTimeout bounds each call into the player.
	ipcTimeout = 2 * time.Second
)

// stepSizes defines the available step sizes for seek operations.
// Users can cycle through these with < and > keys.
var stepSizes = []float64{0.1, 0.5, 1, 2, 5, 10, 30}

// tickMsg is a message sent on every tick interval.
type tickMsg time.Time

// clearResultMsg is sent to clear the command result message.
type clearResultMsg struct{}

// playerEventMsg carries one notification from mpv.
type playerEventMsg struct{ ev mpv.Event }

// playerClosedMsg is sent when the mpv connection drops.
type playerClosedMsg struct{}

// Options wire the model to the session it edits.
type Options struct {
	Video   *db.Video
	DB      *sql.DB
	Player  *player.Controller
	Store   *annotation.Store
	Drawing *drawing.Machine
	Notes   *blocks.Editor
	// Overlay draws annotations onto the video; nil disables the overlay.
	Overlay Overlay
	// Events feeds backend notifications to the player. The UI quits when
	// it closes.
	Events <-chan mpv.Event
	// Jobs runs clip and filmstrip jobs in the background; nil disables them.
	Jobs *jobs.Processor
	// Export writes the session to path, in the format its extension names.
	Export   func(path string) error
	SeekStep float64
	Log      *slog.Logger
}

type formKind int

const (
	formNone formKind = iota
	formLabel
	formText
	formDiscardText
	formClear
)

// Model is the Bubbletea model for the TUI application.
// It implements the tea.Model interface with Init, Update, and View methods.
type Model struct {
	opts  Options
	ctx   context.Context
	ctrl  *player.Controller
	store *annotation.Store
	draw  *drawing.Machine
	notes *blocks.Editor
	log   *slog.Logger
	keys  keyMap

	// quitting flag to signal shutdown
	quitting bool
	width    int
	height   int
	focus    FocusTarget

	stepSize     float64
	list         components.AnnotationListState
	commandInput components.CommandInputState
	// noteInput edits the focused notes block while editing is set
	noteInput textinput.Model
	editing   bool
	showHelp  bool

	overlayEnabled bool
	lastOverlay    string
	osdW, osdH     float64

	// hoverThumb is the filmstrip frame under the pointer on the timeline
	hoverThumb  *filmstrip.Thumbnail
	hovering    bool
	scrubbing   bool
	pointerDown bool

	form        *huh.Form
	formKind    formKind
	labelID     string
	labelResult forms.LabelFormResult
	textContent string
	confirm     bool

	jobs components.JobProgressState
}

// NewModel creates a model over the session in opts.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}
	step := opts.SeekStep
	if step <= 0 {
		step = defaultStepSize
	}
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Type '/' for commands..."

	m := &Model{
		opts:      opts,
		ctx:       ctx,
		ctrl:      opts.Player,
		store:     opts.Store,
		draw:      opts.Drawing,
		notes:     opts.Notes,
		log:       opts.Log,
		keys:      defaultKeyMap(),
		stepSize:  step,
		noteInput: ti,

		overlayEnabled: opts.Overlay != nil,
	}
	m.list.SetItems(m.store.All())
	return m
}

// Init starts the ticker and the player event loop.
func (m *Model) Init() tea.Cmd {
	m.countPendingJobs()
	return tea.Batch(tickCmd(), waitForPlayerEvent(m.opts.Events))
}

// tickCmd returns a command that sends a tickMsg after the tick interval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForPlayerEvent returns a tea.Cmd that waits for the next mpv event.
func waitForPlayerEvent(ch <-chan mpv.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return playerClosedMsg{}
		}
		return playerEventMsg{ev}
	}
}

func clearResultAfter() tea.Cmd {
	return tea.Tick(resultDisplayDuration, func(time.Time) tea.Msg {
		return clearResultMsg{}
	})
}

// setResult shows msg on the command line for a few seconds.
func (m *Model) setResult(msg string, isError bool) tea.Cmd {
	m.commandInput.SetResult(msg, isError)
	return clearResultAfter()
}

func (m *Model) setError(err error) tea.Cmd {
	return m.setResult("Error: "+err.Error(), true)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.form != nil {
			m.form = m.form.WithWidth(min(msg.Width-4, 72))
		}
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tickCmd()

	case playerEventMsg:
		if ev, ok := mpv.PlayerEvent(msg.ev); ok {
			m.ctrl.HandleEvent(ev)
			m.refresh()
		}
		return m, waitForPlayerEvent(m.opts.Events)

	case playerClosedMsg:
		m.log.Info("player closed, leaving")
		m.quitting = true
		return m, tea.Quit

	case clearResultMsg:
		m.commandInput.ClearResult()
		return m, nil

	case filmstripDoneMsg:
		return m, m.handleFilmstripDone(msg)

	case freezeDoneMsg:
		return m, m.handleFreezeDone(msg)

	case jobDoneMsg:
		return m, m.handleJobDone(msg)

	case tea.MouseMsg:
		if m.form != nil || m.showHelp {
			return m, nil
		}
		return m, m.handleMouse(msg)
	}

	if m.form != nil {
		return m, m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		// Any key dismisses the help overlay
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.commandInput.Active {
			return m.handleCommandInput(msg)
		}
		if m.editing {
			return m, m.handleNoteEditing(msg)
		}
		return m.handleKey(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.noteInput, cmd = m.noteInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey dispatches normal-mode keys: global bindings first, then the
// ones of the focused panel.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Command):
		m.commandInput.Active = true
		m.commandInput.SetInput("")
		m.commandInput.ClearResult()
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		m.focus = m.focus.next(m.columns().ShowNotes())
		return m, nil
	}

	if m.focus == FocusNotes {
		if cmd, ok := m.handleNotesKey(msg); ok {
			return m, cmd
		}
	}

	ctx, cancel := context.WithTimeout(m.ctx, ipcTimeout)
	defer cancel()

	switch {
	case key.Matches(msg, m.keys.PlayPause):
		return m, m.check(m.ctrl.TogglePlay(ctx))
	case key.Matches(msg, m.keys.SeekBack):
		return m, m.check(m.ctrl.SeekRelative(ctx, -m.stepSize))
	case key.Matches(msg, m.keys.SeekForward):
		return m, m.check(m.ctrl.SeekRelative(ctx, m.stepSize))
	case key.Matches(msg, m.keys.FrameBack):
		return m, m.check(m.ctrl.StepFrame(ctx, -1))
	case key.Matches(msg, m.keys.FrameNext):
		return m, m.check(m.ctrl.StepFrame(ctx, 1))
	case key.Matches(msg, m.keys.StepDown):
		m.decreaseStepSize()
		return m, nil
	case key.Matches(msg, m.keys.StepUp):
		m.increaseStepSize()
		return m, nil
	case key.Matches(msg, m.keys.Rate):
		rate, err := m.ctrl.CyclePlaybackRate(ctx)
		if err != nil {
			return m, m.setError(err)
		}
		return m, m.setResult(formatRate(rate), false)
	case key.Matches(msg, m.keys.Mute):
		return m, m.check(m.ctrl.ToggleMute(ctx))
	case key.Matches(msg, m.keys.Fullscreen):
		return m, m.check(m.ctrl.ToggleFullscreen(ctx))
	case key.Matches(msg, m.keys.Freeze):
		return m, m.freezeFrame()
	case key.Matches(msg, m.keys.Filmstrip):
		return m, m.startFilmstrip()

	case key.Matches(msg, m.keys.Annotate):
		m.draw.SetEnabled(!m.draw.Enabled())
		if m.draw.Enabled() {
			m.focus = FocusCanvas
		}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Tools):
		return m, m.pickTool(int(msg.Runes[0] - '1'))
	case key.Matches(msg, m.keys.Color):
		m.draw.SetColor(nextColor(m.draw.Options().Color))
		return m, nil
	case key.Matches(msg, m.keys.StrokeWidth):
		m.draw.SetStrokeWidth(nextStrokeWidth(m.draw.Options().StrokeWidth))
		return m, nil
	case key.Matches(msg, m.keys.FontUp):
		m.draw.SetFontSize(m.draw.Options().FontSize + 2)
		return m, nil
	case key.Matches(msg, m.keys.FontDown):
		m.draw.SetFontSize(max(m.draw.Options().FontSize-2, 8))
		return m, nil
	case key.Matches(msg, m.keys.Overlay):
		return m, m.toggleOverlay()
	case key.Matches(msg, m.keys.Cancel):
		m.draw.Key(drawing.KeyEscape)
		m.pointerDown = false
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.list.MoveUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.list.MoveDown()
		return m, nil
	case key.Matches(msg, m.keys.Jump):
		return m, m.jumpToSelected(ctx)
	case key.Matches(msg, m.keys.Label):
		return m, m.openLabelForm()
	case key.Matches(msg, m.keys.End):
		return m, m.toggleEnd()
	case key.Matches(msg, m.keys.Clip):
		return m, m.queueClip()
	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteSelected()
	case key.Matches(msg, m.keys.Undo):
		if a, ok := m.store.UndoLast(); ok {
			m.refresh()
			return m, m.setResult("Removed "+a.DisplayName(m.store.Len()+1), false)
		}
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		return m, m.openClearForm()
	}
	return m, nil
}

// check reports err on the command line. Requests dropped because another
// capture was running are not errors.
func (m *Model) check(err error) tea.Cmd {
	if err == nil {
		m.refresh()
		return nil
	}
	if errors.Is(err, player.ErrBusy) || errors.Is(err, player.ErrStale) {
		m.log.Debug("request dropped", "err", err)
		return nil
	}
	return m.setError(err)
}

// refresh pulls the store and the drawing selection into the list and
// redraws the overlay.
func (m *Model) refresh() {
	m.list.SetItems(m.store.All())
	if sel := m.draw.Selected(); sel != "" {
		m.list.Select(sel)
	}
	m.updateOverlay()
}

// decreaseStepSize cycles to the previous (smaller) step size.
func (m *Model) decreaseStepSize() {
	currentIndex := m.findStepSizeIndex()
	if currentIndex > 0 {
		m.stepSize = stepSizes[currentIndex-1]
	}
}

// increaseStepSize cycles to the next (larger) step size.
func (m *Model) increaseStepSize() {
	currentIndex := m.findStepSizeIndex()
	if currentIndex < len(stepSizes)-1 {
		m.stepSize = stepSizes[currentIndex+1]
	}
}

// findStepSizeIndex finds the index of the current step size in the stepSizes array.
// If the current step size is not in the array, it returns the index of the closest value.
func (m *Model) findStepSizeIndex() int {
	for i, size := range stepSizes {
		if m.stepSize == size {
			return i
		}
	}
	for i, size := range stepSizes {
		if m.stepSize < size {
			if i == 0 {
				return 0
			}
			return i - 1
		}
	}
	return len(stepSizes) - 1
}

// Run starts the Bubbletea program with mouse tracking and blocks until
// the user quits. Background jobs report into the UI while it runs.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctx, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if opts.Jobs != nil {
		opts.Jobs.OnDone = func(job db.PendingJob, err error) {
			p.Send(jobDoneMsg{job: job, err: err})
		}
		opts.Jobs.Start(ctx)
	}
	_, err := p.Run()
	return err
}
