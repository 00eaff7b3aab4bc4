package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/pkg/timeutil"
)

// LabelFormResult holds the data returned by a completed label form.
type LabelFormResult struct {
	Label string
	// End is a time string; empty leaves the annotation open-ended.
	End string
}

// EndTime parses End. A nil result means open-ended.
func (r *LabelFormResult) EndTime() (*float64, error) {
	if strings.TrimSpace(r.End) == "" {
		return nil, nil
	}
	t, err := timeutil.ParseTimeToSeconds(r.End)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// NewLabelResult seeds a form result from a.
func NewLabelResult(a annotation.Annotation) LabelFormResult {
	r := LabelFormResult{Label: a.Label}
	if a.EndTime != nil {
		r.End = timeutil.FormatPrecise(*a.EndTime)
	}
	return r
}

// NewLabelForm edits the label and end time of annotation a, the n-th in
// the list. The result pointer is bound to the form fields.
func NewLabelForm(a annotation.Annotation, n int, result *LabelFormResult) *huh.Form {
	header := fmt.Sprintf("%s @ %s", a.DisplayName(n), timeutil.FormatPrecise(a.StartTime))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(header),

			huh.NewInput().
				Title("Label").
				Description("Optional; blank shows the default name").
				Value(&result.Label),

			huh.NewInput().
				Title("End time").
				Description("M:SS or seconds; blank keeps it on screen until the end").
				Value(&result.End).
				Validate(func(s string) error {
					end, err := (&LabelFormResult{End: s}).EndTime()
					if err != nil {
						return err
					}
					if end != nil && *end < a.StartTime {
						return errors.New("end time is before the start")
					}
					return nil
				}),
		),
	).WithTheme(Theme())
}
