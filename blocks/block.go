// Package blocks is a block-structured note document: an ordered, never
// empty list of typed blocks edited from keyboard input, with a line-based
// markdown form.
package blocks

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Type is the kind of a block.
type Type string

const (
	Paragraph    Type = "paragraph"
	Heading1     Type = "heading1"
	Heading2     Type = "heading2"
	Heading3     Type = "heading3"
	BulletList   Type = "bulletList"
	NumberedList Type = "numberedList"
	CheckList    Type = "checkList"
	Quote        Type = "quote"
	Code         Type = "code"
	Divider      Type = "divider"
)

// IsList reports whether t is one of the list types that continue on Enter.
func (t Type) IsList() bool {
	return t == BulletList || t == NumberedList || t == CheckList
}

// Placeholder is the hint shown in an empty block of type t.
func (t Type) Placeholder() string {
	switch t {
	case Paragraph:
		return "Type '/' for commands..."
	case Heading1:
		return "Heading 1"
	case Heading2:
		return "Heading 2"
	case Heading3:
		return "Heading 3"
	case BulletList, NumberedList:
		return "List item"
	case CheckList:
		return "To-do"
	case Quote:
		return "Quote"
	case Code:
		return "Code"
	}
	return ""
}

// ParseType returns the block type named s, by type name or palette alias.
func ParseType(s string) (Type, error) {
	for _, c := range Commands {
		if string(c.Type) == s || slices.Contains(c.Aliases, s) {
			return c.Type, nil
		}
	}
	return "", fmt.Errorf("unknown block type %q", s)
}

// Block is one unit of the document. Checked is only meaningful for
// CheckList blocks.
type Block struct {
	ID       string         `json:"id"`
	Type     Type           `json:"type"`
	Content  string         `json:"content"`
	Checked  bool           `json:"checked,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewBlock returns an empty block of type t with a fresh id.
func NewBlock(t Type) Block {
	return Block{ID: uuid.NewString(), Type: t}
}

// Normalize returns blocks, or a single empty paragraph when blocks is empty.
func Normalize(blocks []Block) []Block {
	if len(blocks) == 0 {
		return []Block{NewBlock(Paragraph)}
	}
	return blocks
}

// ListNumber returns the display number of the numbered-list block at i:
// its position within the run of consecutive numbered-list blocks ending at
// i. Any other block type breaks the run. Non-numbered blocks get 0.
func ListNumber(blocks []Block, i int) int {
	if i < 0 || i >= len(blocks) || blocks[i].Type != NumberedList {
		return 0
	}
	n := 1
	for j := i - 1; j >= 0 && blocks[j].Type == NumberedList; j-- {
		n++
	}
	return n
}

// Command is an entry of the slash command palette.
type Command struct {
	Type        Type
	Label       string
	Description string
	// Aliases are short names also matched by the filter.
	Aliases []string
}

// Commands lists the palette in display order, one entry per block type.
// The slash filter matches label and description, and also the aliases, so
// "/h1" or "/todo" find their entry.
var Commands = []Command{
	{Paragraph, "Text", "Plain text block", []string{"p"}},
	{Heading1, "Heading 1", "Large section heading", []string{"h1"}},
	{Heading2, "Heading 2", "Medium section heading", []string{"h2"}},
	{Heading3, "Heading 3", "Small section heading", []string{"h3"}},
	{BulletList, "Bullet List", "Unordered list", []string{"ul"}},
	{NumberedList, "Numbered List", "Ordered list", []string{"ol"}},
	{CheckList, "To-do List", "Checklist items", []string{"todo"}},
	{Quote, "Quote", "Quoted text block", nil},
	{Code, "Code", "Code snippet", nil},
	{Divider, "Divider", "Horizontal line", []string{"hr"}},
}

// Label returns the palette label of t.
func (t Type) Label() string {
	for _, c := range Commands {
		if c.Type == t {
			return c.Label
		}
	}
	return string(t)
}

// FilterCommands returns the commands whose label, description or alias
// contains filter, ignoring case.
func FilterCommands(filter string) []Command {
	f := strings.ToLower(filter)
	var out []Command
	for _, c := range Commands {
		if c.matches(f) {
			out = append(out, c)
		}
	}
	return out
}

func (c Command) matches(lower string) bool {
	if strings.Contains(strings.ToLower(c.Label), lower) ||
		strings.Contains(strings.ToLower(c.Description), lower) {
		return true
	}
	for _, a := range c.Aliases {
		if strings.Contains(a, lower) {
			return true
		}
	}
	return false
}
