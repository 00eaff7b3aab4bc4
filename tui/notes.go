package tui

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/studio-review/blocks"
)

// handleNotesKey handles keys while the notes panel has focus and is not
// editing. It reports false for keys the panel does not use.
func (m *Model) handleNotesKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	id := m.notes.FocusID()
	switch {
	case key.Matches(msg, m.keys.Edit):
		if b, ok := m.notes.Focused(); ok && b.Type == blocks.Divider {
			m.notes.KeyDown(id, blocks.KeyEnter)
		}
		return m.startEditing(), true
	case msg.String() == "/":
		cmd := m.startEditing()
		m.typeSlash()
		return cmd, true
	case key.Matches(msg, m.keys.Up):
		m.notes.KeyDown(id, blocks.KeyUp)
		return nil, true
	case key.Matches(msg, m.keys.Down):
		m.notes.KeyDown(id, blocks.KeyDown)
		return nil, true
	case key.Matches(msg, m.keys.Check):
		m.notes.ToggleChecked(id)
		return nil, true
	case key.Matches(msg, m.keys.MoveUp):
		m.moveBlock(-1)
		return nil, true
	case key.Matches(msg, m.keys.MoveDown):
		m.moveBlock(1)
		return nil, true
	case key.Matches(msg, m.keys.DeleteNote):
		m.notes.Delete(id)
		return nil, true
	}
	return nil, false
}

// moveBlock moves the focused block one place up (-1) or down (1) with a
// drag over its neighbour.
func (m *Model) moveBlock(dir int) {
	list := m.notes.Blocks()
	id := m.notes.FocusID()
	i := slices.IndexFunc(list, func(b blocks.Block) bool { return b.ID == id })
	j := i + dir
	if i < 0 || j < 0 || j >= len(list) {
		return
	}
	m.notes.DragStart(id)
	m.notes.DragOver(list[j].ID)
	m.notes.DragEnd()
}

func (m *Model) startEditing() tea.Cmd {
	m.editing = true
	m.syncNoteInput()
	if w := m.columns().Notes; w > 0 {
		m.noteInput.Width = max(w-10, 8)
	}
	return m.noteInput.Focus()
}

func (m *Model) stopEditing() {
	if m.notes.Menu().Open {
		m.notes.KeyDown(m.notes.FocusID(), blocks.KeyEscape)
	}
	m.editing = false
	m.noteInput.Blur()
}

// syncNoteInput loads the focused block into the text input.
func (m *Model) syncNoteInput() {
	b, _ := m.notes.Focused()
	m.noteInput.SetValue(b.Content)
	m.noteInput.CursorEnd()
}

// typeSlash opens the block palette on an empty block, the way typing '/'
// does.
func (m *Model) typeSlash() {
	if m.noteInput.Value() != "" {
		return
	}
	id := m.notes.FocusID()
	m.notes.KeyDown(id, blocks.KeySlash)
	m.noteInput.SetValue("/")
	m.noteInput.CursorEnd()
	m.notes.Input(id, "/")
}

// handleNoteEditing routes keys to the focused block. Enter, arrows and
// backspace on an empty block go to the editor first; everything else is
// typed into the block.
func (m *Model) handleNoteEditing(msg tea.KeyMsg) tea.Cmd {
	id := m.notes.FocusID()
	switch msg.String() {
	case "esc":
		if m.notes.Menu().Open {
			m.notes.KeyDown(id, blocks.KeyEscape)
			return nil
		}
		m.stopEditing()
		return nil
	case "ctrl+c":
		m.stopEditing()
		m.quitting = true
		return tea.Quit
	case "enter":
		if m.notes.KeyDown(id, blocks.KeyEnter) {
			m.syncNoteInput()
		}
		return nil
	case "up":
		if m.notes.KeyDown(id, blocks.KeyUp) {
			m.syncNoteInput()
		}
		return nil
	case "down":
		if m.notes.KeyDown(id, blocks.KeyDown) {
			m.syncNoteInput()
		}
		return nil
	case "backspace":
		if m.noteInput.Value() == "" && m.notes.KeyDown(id, blocks.KeyBackspace) {
			m.syncNoteInput()
			return nil
		}
	case "/":
		if m.noteInput.Value() == "" {
			m.typeSlash()
			return nil
		}
	}

	before := m.noteInput.Value()
	var cmd tea.Cmd
	m.noteInput, cmd = m.noteInput.Update(msg)
	if v := m.noteInput.Value(); v != before {
		m.notes.Input(id, v)
	}
	return cmd
}
