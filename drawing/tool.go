// Package drawing turns pointer gestures over the video into annotations.
package drawing

import "fmt"

// Tool is the active annotation tool.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolCircle    Tool = "circle"
	ToolArrow     Tool = "arrow"
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
	ToolFreehand  Tool = "freehand"
	ToolText      Tool = "text"
)

// Tools lists the tools in toolbar order.
var Tools = []Tool{ToolSelect, ToolCircle, ToolArrow, ToolLine, ToolRectangle, ToolFreehand, ToolText}

// StrokeWidths are the widths offered by the toolbar, in pixels.
var StrokeWidths = []int{2, 3, 4, 6}

// Label returns the toolbar label for t.
func (t Tool) Label() string {
	switch t {
	case ToolSelect:
		return "Select"
	case ToolCircle:
		return "Circle"
	case ToolArrow:
		return "Arrow"
	case ToolLine:
		return "Line"
	case ToolRectangle:
		return "Rectangle"
	case ToolFreehand:
		return "Freehand"
	case ToolText:
		return "Text"
	}
	return string(t)
}

// ParseTool returns the tool named s.
func ParseTool(s string) (Tool, error) {
	for _, t := range Tools {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tool %q", s)
}
