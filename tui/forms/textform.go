package forms

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// NewTextForm asks for the content of a text annotation placed at the next
// click. The content pointer is bound to the input.
func NewTextForm(content *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Text annotation").
				Description("Click the canvas to place it").
				Placeholder("Enter text...").
				Value(content).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("text is required")
					}
					return nil
				}),
		),
	).WithTheme(Theme())
}
