package forms

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/studio-review/tui/styles"
)

// tone is the set of colors one field state is drawn with.
type tone struct {
	border   lipgloss.TerminalColor
	title    lipgloss.Color
	text     lipgloss.Color
	muted    lipgloss.Color
	accent   lipgloss.Color
	button   lipgloss.Color
	buttonFg lipgloss.Color
	idle     lipgloss.Color
	card     lipgloss.Color
}

var (
	focusedTone = tone{
		border:   styles.BrightPurple,
		title:    styles.Pink,
		text:     styles.LightLavender,
		muted:    styles.Lavender,
		accent:   styles.Cyan,
		button:   styles.BrightPurple,
		buttonFg: styles.LightLavender,
		idle:     styles.Purple,
		card:     styles.Purple,
	}
	blurredTone = tone{
		title:    styles.Lavender,
		text:     styles.Lavender,
		muted:    styles.Purple,
		accent:   styles.Lavender,
		button:   styles.Purple,
		buttonFg: styles.Lavender,
		idle:     styles.DeepPurple,
		card:     styles.DeepPurple,
	}
)

// Theme returns the huh theme of the review forms: bordered focused fields
// in the interface palette, dimmed blurred ones.
func Theme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(focusedTone.border).
		PaddingLeft(1)
	t.Blurred.Base = t.Blurred.Base.
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true).
		PaddingLeft(1)

	applyTone(&t.Focused, focusedTone, true)
	applyTone(&t.Blurred, blurredTone, false)
	return t
}

func applyTone(f *huh.FieldStyles, c tone, focused bool) {
	fg := func(col lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(col)
	}

	f.Title = fg(c.title).Bold(focused)
	f.Description = fg(c.muted)
	f.ErrorIndicator = fg(styles.Pink).Bold(focused)
	f.ErrorMessage = fg(styles.Pink)

	selector := "  "
	if focused {
		selector = "▸ "
	}
	f.SelectSelector = fg(c.accent).SetString(selector)
	f.MultiSelectSelector = fg(c.accent).SetString(selector)
	f.Option = fg(c.text)
	f.NextIndicator = fg(c.muted)
	f.PrevIndicator = fg(c.muted)
	f.SelectedOption = fg(c.accent)
	f.SelectedPrefix = fg(c.accent).SetString("[✓] ")
	f.UnselectedOption = fg(c.muted)
	f.UnselectedPrefix = fg(c.muted).SetString("[ ] ")

	f.TextInput.Cursor = fg(c.accent)
	f.TextInput.Placeholder = fg(styles.Purple)
	f.TextInput.Prompt = fg(c.accent)
	f.TextInput.Text = fg(c.text)

	f.FocusedButton = lipgloss.NewStyle().
		Background(c.button).
		Foreground(c.buttonFg).
		Bold(focused).
		Padding(0, 1)
	f.BlurredButton = lipgloss.NewStyle().
		Background(c.idle).
		Foreground(c.muted).
		Padding(0, 1)
	f.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c.card).
		Padding(0, 1)
	f.NoteTitle = fg(c.accent).Bold(focused)
	f.Next = f.FocusedButton
}
