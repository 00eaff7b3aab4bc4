package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/user/studio-review/tui/components"
)

// keyMap holds every binding of the main view. Help and the controls bar
// are generated from it.
type keyMap struct {
	// Playback
	PlayPause   key.Binding
	SeekBack    key.Binding
	SeekForward key.Binding
	FrameBack   key.Binding
	FrameNext   key.Binding
	StepDown    key.Binding
	StepUp      key.Binding
	Rate        key.Binding
	Mute        key.Binding
	Fullscreen  key.Binding
	Freeze      key.Binding
	Filmstrip   key.Binding

	// Annotate
	Annotate    key.Binding
	Tools       key.Binding
	Color       key.Binding
	StrokeWidth key.Binding
	FontUp      key.Binding
	FontDown    key.Binding
	Overlay     key.Binding
	Cancel      key.Binding

	// List
	Up     key.Binding
	Down   key.Binding
	Jump   key.Binding
	Label  key.Binding
	End    key.Binding
	Clip   key.Binding
	Delete key.Binding
	Undo   key.Binding
	Clear  key.Binding

	// Notes
	Edit       key.Binding
	Check      key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	DeleteNote key.Binding

	// General
	Focus   key.Binding
	Command key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("Space", "Play/pause")),
		SeekBack:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "Back one step")),
		SeekForward: key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "Forward one step")),
		FrameBack:   key.NewBinding(key.WithKeys(","), key.WithHelp(",", "Previous frame")),
		FrameNext:   key.NewBinding(key.WithKeys("."), key.WithHelp(".", "Next frame")),
		StepDown:    key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "Smaller step")),
		StepUp:      key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "Larger step")),
		Rate:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Cycle speed")),
		Mute:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "Mute")),
		Fullscreen:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "Fullscreen")),
		Freeze:      key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "Freeze frame")),
		Filmstrip:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "Regenerate filmstrip")),

		Annotate:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "Annotation mode")),
		Tools:       key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "Pick tool")),
		Color:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "Next colour")),
		StrokeWidth: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "Next stroke width")),
		FontUp:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "Larger text")),
		FontDown:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "Smaller text")),
		Overlay:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "Overlay on video")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Cancel / deselect")),

		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "Previous")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "Next")),
		Jump:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Jump to start")),
		Label:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "Name / end time")),
		End:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "End here / reopen")),
		Clip:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "Export clip")),
		Delete: key.NewBinding(key.WithKeys("delete", "backspace"), key.WithHelp("Del", "Delete")),
		Undo:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "Undo last")),
		Clear:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "Clear all")),

		Edit:       key.NewBinding(key.WithKeys("enter", "i"), key.WithHelp("Enter/i", "Edit block")),
		Check:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Toggle to-do")),
		MoveUp:     key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "Move block up")),
		MoveDown:   key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "Move block down")),
		DeleteNote: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "Delete block")),

		Focus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "Next panel")),
		Command: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "Command")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "Quit")),
	}
}

// groups lays the bindings out for the help overlay.
func (k keyMap) groups() []components.ControlGroup {
	return []components.ControlGroup{
		{Name: "Playback", SubGroups: [][]components.Control{
			components.Controls(k.PlayPause, k.SeekBack, k.SeekForward, k.FrameBack, k.FrameNext),
			components.Controls(k.StepDown, k.StepUp, k.Rate, k.Mute, k.Fullscreen),
			components.Controls(k.Freeze, k.Filmstrip),
		}},
		{Name: "Annotate", SubGroups: [][]components.Control{
			components.Controls(k.Annotate, k.Tools, k.Color, k.StrokeWidth, k.FontUp, k.FontDown),
			components.Controls(k.Overlay, k.Cancel),
		}},
		{Name: "Annotations", SubGroups: [][]components.Control{
			components.Controls(k.Up, k.Down, k.Jump),
			components.Controls(k.Label, k.End, k.Clip),
			components.Controls(k.Delete, k.Undo, k.Clear),
		}},
		{Name: "Notes", SubGroups: [][]components.Control{
			components.Controls(k.Edit, k.Check, k.MoveUp, k.MoveDown, k.DeleteNote),
		}},
		{Name: "General", SubGroups: [][]components.Control{
			components.Controls(k.Focus, k.Command, k.Help, k.Quit),
		}},
	}
}

// hints are the bindings shown in the controls bar for the focused panel.
func (k keyMap) hints(f FocusTarget, editing bool) []components.Control {
	switch {
	case editing:
		return []components.Control{
			{Name: "Done", Shortcut: "Esc"},
			{Name: "New block", Shortcut: "Enter"},
			{Name: "Block type", Shortcut: "/"},
		}
	case f == FocusNotes:
		return components.Controls(k.Edit, k.Check, k.MoveUp, k.MoveDown, k.DeleteNote, k.Focus, k.Help)
	case f == FocusCanvas:
		return components.Controls(k.Annotate, k.Tools, k.Color, k.StrokeWidth, k.Cancel, k.Delete, k.Focus, k.Help)
	}
	return components.Controls(k.PlayPause, k.SeekBack, k.SeekForward, k.Jump, k.Label, k.End, k.Annotate, k.Focus, k.Help)
}
