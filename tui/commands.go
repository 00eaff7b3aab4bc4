package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/studio-review/blocks"
	"github.com/user/studio-review/db"
	"github.com/user/studio-review/drawing"
	"github.com/user/studio-review/geom"
	"github.com/user/studio-review/pkg/timeutil"
)

// handleCommandInput handles key events when in command mode.
func (m *Model) handleCommandInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Cancel command mode
		m.commandInput.Clear()
		return m, nil

	case "enter":
		line := m.commandInput.GetCommand()
		m.commandInput.Clear()
		if line == "" {
			return m, nil
		}
		result, cmd, err := m.executeCommand(line)
		if err != nil {
			return m, m.setError(err)
		}
		if result == "" {
			return m, cmd
		}
		return m, tea.Batch(m.setResult(result, false), cmd)

	case "backspace":
		m.commandInput.Backspace()
		return m, nil

	case "delete":
		m.commandInput.Delete()
		return m, nil

	case "left":
		m.commandInput.MoveCursorLeft()
		return m, nil

	case "right":
		m.commandInput.MoveCursorRight()
		return m, nil

	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			for _, r := range msg.Runes {
				m.commandInput.InsertChar(r)
			}
			if msg.Type == tea.KeySpace && len(msg.Runes) == 0 {
				m.commandInput.InsertChar(' ')
			}
		}
		return m, nil
	}
}

// executeCommand runs one command line. It returns the text to show on the
// command line and, for commands that finish in the background or open a
// form, the command to run.
func (m *Model) executeCommand(line string) (string, tea.Cmd, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil, nil
	}
	name := parts[0]
	args := parts[1:]

	ctx, cancel := context.WithTimeout(m.ctx, ipcTimeout)
	defer cancel()

	switch name {
	case "seek", "s":
		if len(args) < 1 {
			return "", nil, fmt.Errorf("seek requires a time argument (e.g., seek 1:30 or seek 90)")
		}
		seconds, err := timeutil.ParseTimeToSeconds(args[0])
		if err != nil {
			return "", nil, err
		}
		if err := m.ctrl.Seek(ctx, seconds); err != nil {
			return "", nil, err
		}
		m.refresh()
		return "Seeked to " + timeutil.FormatPrecise(m.ctrl.CurrentTime()), nil, nil

	case "step":
		if len(args) < 1 {
			return fmt.Sprintf("Step: %gs", m.stepSize), nil, nil
		}
		step, err := strconv.ParseFloat(args[0], 64)
		if err != nil || step <= 0 {
			return "", nil, fmt.Errorf("step must be a positive number of seconds, got '%s'", args[0])
		}
		m.stepSize = step
		return fmt.Sprintf("Step: %gs", step), nil, nil

	case "frame", "f":
		n := 1
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v == 0 {
				return "", nil, fmt.Errorf("frame takes a non-zero frame count, got '%s'", args[0])
			}
			n = v
		}
		dir := 1
		if n < 0 {
			dir, n = -1, -n
		}
		for range n {
			if err := m.ctrl.StepFrame(ctx, dir); err != nil {
				return "", nil, err
			}
		}
		m.refresh()
		return "Frame at " + timeutil.FormatPrecise(m.ctrl.CurrentTime()), nil, nil

	case "speed":
		rate, err := m.ctrl.CyclePlaybackRate(ctx)
		if err != nil {
			return "", nil, err
		}
		return formatRate(rate), nil, nil

	case "volume", "vol":
		if len(args) < 1 {
			return fmt.Sprintf("Volume: %.0f%%", m.ctrl.State().Volume*100), nil, nil
		}
		pct, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "%"), 64)
		if err != nil {
			return "", nil, fmt.Errorf("volume takes a percentage, got '%s'", args[0])
		}
		if err := m.ctrl.SetVolume(ctx, pct/100); err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("Volume: %.0f%%", m.ctrl.State().Volume*100), nil, nil

	case "label":
		a := m.list.GetSelectedItem()
		if a == nil {
			return "", nil, fmt.Errorf("no annotation selected")
		}
		if len(args) == 0 {
			return "", m.openLabelForm(), nil
		}
		m.store.SetLabel(a.ID, strings.Join(args, " "))
		m.refresh()
		return "Label set", nil, nil

	case "end":
		return m.executeEndCommand(args)

	case "tool":
		if len(args) < 1 {
			return "Tool: " + m.draw.Options().Tool.Label(), nil, nil
		}
		t, err := drawing.ParseTool(args[0])
		if err != nil {
			return "", nil, err
		}
		return "Tool: " + t.Label(), m.setTool(t), nil

	case "color":
		if len(args) < 1 {
			return "", nil, fmt.Errorf("color requires a name (red, yellow, green, blue, white)")
		}
		c, err := geom.ParseColor(args[0])
		if err != nil {
			return "", nil, err
		}
		m.draw.SetColor(c)
		return "Color: " + string(c), nil, nil

	case "width":
		if len(args) < 1 {
			return "", nil, fmt.Errorf("width requires a pixel size")
		}
		px, err := strconv.Atoi(strings.TrimSuffix(args[0], "px"))
		if err != nil {
			return "", nil, fmt.Errorf("width takes a pixel size, got '%s'", args[0])
		}
		m.draw.SetStrokeWidth(px)
		return fmt.Sprintf("Stroke: %dpx", m.draw.Options().StrokeWidth), nil, nil

	case "font":
		if len(args) < 1 {
			return "", nil, fmt.Errorf("font requires a pixel size")
		}
		px, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "px"), 64)
		if err != nil {
			return "", nil, fmt.Errorf("font takes a pixel size, got '%s'", args[0])
		}
		m.draw.SetFontSize(px)
		return fmt.Sprintf("Font: %gpx", m.draw.Options().FontSize), nil, nil

	case "clip":
		return "", m.queueClip(), nil

	case "freeze":
		return "Capturing frame...", m.freezeFrame(), nil

	case "filmstrip":
		if len(args) > 0 && args[0] == "queue" {
			return "", m.enqueue(db.JobFilmstrip, "", "filmstrip"), nil
		}
		return "", m.startFilmstrip(), nil

	case "delete", "d":
		return "", m.deleteSelected(), nil

	case "clear":
		return "", m.openClearForm(), nil

	case "undo", "u":
		a, ok := m.store.UndoLast()
		if !ok {
			return "Nothing to undo", nil, nil
		}
		m.refresh()
		return "Removed " + a.DisplayName(m.store.Len()+1), nil, nil

	case "export", "w":
		if len(args) < 1 {
			return "", nil, fmt.Errorf("export requires a file path (.json, .yaml or .md)")
		}
		if m.opts.Export == nil {
			return "", nil, fmt.Errorf("export is not available")
		}
		path := strings.Join(args, " ")
		if err := m.opts.Export(path); err != nil {
			return "", nil, err
		}
		return "Exported to " + path, nil, nil

	case "overlay":
		return "", m.toggleOverlay(), nil

	case "goto", "g":
		if len(args) < 1 {
			return "", nil, fmt.Errorf("goto requires an annotation number")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > len(m.list.Items) {
			return "", nil, fmt.Errorf("no annotation %s", args[0])
		}
		m.list.SelectedIndex = n - 1
		return "", m.jumpToSelected(ctx), nil

	case "block":
		if len(args) < 1 {
			return "", nil, fmt.Errorf("block requires a type (e.g., block h1 or block todo)")
		}
		t, err := blocks.ParseType(args[0])
		if err != nil {
			return "", nil, err
		}
		m.notes.SetType(m.notes.FocusID(), t)
		m.focus = FocusNotes
		return "Block: " + t.Label(), nil, nil

	case "quit", "q":
		m.quitting = true
		return "", tea.Quit, nil

	case "help", "h":
		m.showHelp = true
		return "", nil, nil
	}
	return "", nil, fmt.Errorf("unknown command: %s", name)
}

// executeEndCommand sets the selected annotation's end time: the current
// time with no argument, a parsed time, or "none" to reopen it.
func (m *Model) executeEndCommand(args []string) (string, tea.Cmd, error) {
	a := m.list.GetSelectedItem()
	if a == nil {
		return "", nil, fmt.Errorf("no annotation selected")
	}
	var end *float64
	switch {
	case len(args) == 0:
		t := m.ctrl.CurrentTime()
		end = &t
	case args[0] == "none":
	default:
		t, err := timeutil.ParseTimeToSeconds(args[0])
		if err != nil {
			return "", nil, err
		}
		end = &t
	}
	if err := m.store.SetEndTime(a.ID, end); err != nil {
		return "", nil, err
	}
	m.refresh()
	if end == nil {
		return "Shown until the end", nil, nil
	}
	return "Ends at " + timeutil.FormatPrecise(*end), nil, nil
}
