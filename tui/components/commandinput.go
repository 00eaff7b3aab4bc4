package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/user/studio-review/tui/styles"
)

// CommandInputState holds the state for the ':' command line. The cursor
// counts runes, so labels and note text may contain any characters.
type CommandInputState struct {
	// Active indicates if command mode is active
	Active bool
	input  []rune
	// CursorPos is the cursor position in runes
	CursorPos int
	// Result is the result message to display (success or error)
	Result string
	// IsError indicates if the result is an error message
	IsError bool
}

// CommandInput renders the command line.
// When active, it shows a ':' prompt with the current input.
// When not active but there's a result, it shows the result message.
// Otherwise, it shows an empty bar.
func CommandInput(state CommandInputState, width int) string {
	lineStyle := lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Width(width)

	if state.Active {
		promptStyle := lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)
		inputStyle := lipgloss.NewStyle().
			Foreground(styles.LightLavender)

		pos := min(state.CursorPos, len(state.input))
		display := string(state.input[:pos]) + "_" + string(state.input[pos:])
		return lineStyle.Render(promptStyle.Render(":") + inputStyle.Render(display))
	}

	if state.Result != "" {
		resultStyle := lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)
		if state.IsError {
			resultStyle = resultStyle.Foreground(styles.Pink)
		}
		return lineStyle.Render(" " + resultStyle.Render(state.Result))
	}

	return lineStyle.Render(" ")
}

// Input returns the current buffer.
func (s *CommandInputState) Input() string { return string(s.input) }

// SetInput replaces the buffer and moves the cursor to its end.
func (s *CommandInputState) SetInput(text string) {
	s.input = []rune(text)
	s.CursorPos = len(s.input)
}

// InsertChar inserts a character at the current cursor position.
func (s *CommandInputState) InsertChar(c rune) {
	pos := min(s.CursorPos, len(s.input))
	s.input = append(s.input[:pos], append([]rune{c}, s.input[pos:]...)...)
	s.CursorPos = pos + 1
}

// Backspace deletes the character before the cursor.
func (s *CommandInputState) Backspace() {
	pos := min(s.CursorPos, len(s.input))
	if pos == 0 {
		return
	}
	s.input = append(s.input[:pos-1], s.input[pos:]...)
	s.CursorPos = pos - 1
}

// Delete deletes the character at the cursor.
func (s *CommandInputState) Delete() {
	if s.CursorPos < len(s.input) {
		s.input = append(s.input[:s.CursorPos], s.input[s.CursorPos+1:]...)
	}
}

// MoveCursorLeft moves the cursor left.
func (s *CommandInputState) MoveCursorLeft() {
	if s.CursorPos > 0 {
		s.CursorPos--
	}
}

// MoveCursorRight moves the cursor right.
func (s *CommandInputState) MoveCursorRight() {
	if s.CursorPos < len(s.input) {
		s.CursorPos++
	}
}

// Clear clears the input buffer and deactivates command mode.
func (s *CommandInputState) Clear() {
	s.input = nil
	s.CursorPos = 0
	s.Active = false
}

// GetCommand returns the current command and clears the input.
func (s *CommandInputState) GetCommand() string {
	cmd := string(s.input)
	s.Clear()
	return cmd
}

// SetResult sets the result message.
func (s *CommandInputState) SetResult(msg string, isError bool) {
	s.Result = msg
	s.IsError = isError
}

// ClearResult clears the result message.
func (s *CommandInputState) ClearResult() {
	s.Result = ""
	s.IsError = false
}
