// Package forms provides huh-based form components for the TUI.
package forms

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// NewConfirmClearForm asks whether to delete every annotation of the video.
// The result pointer is bound to the confirm field value.
func NewConfirmClearForm(count int, clear *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Clear all annotations?").
				Description(fmt.Sprintf("This deletes %d annotation(s). Undo restores only the last one drawn.", count)).
				Affirmative("Yes, clear").
				Negative("No, keep them").
				Value(clear),
		),
	).WithTheme(Theme())
}

// NewConfirmDiscardForm asks whether to drop the text typed for a text
// annotation.
func NewConfirmDiscardForm(discard *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Discard changes?").
				Description("You have unsaved text. Are you sure you want to discard?").
				Affirmative("Yes, discard").
				Negative("No, go back").
				Value(discard),
		),
	).WithTheme(Theme())
}
