package blocks

import (
	"regexp"
	"strings"
)

var numberedPrefix = regexp.MustCompile(`^\d+\. `)

const (
	dividerLine = "---"
	escape      = `\`
)

// ToMarkdown writes one line per block. Content that would otherwise read
// back as a different block type is prefixed with a backslash, so
// FromMarkdown(ToMarkdown(doc)) restores every non-empty block.
func ToMarkdown(blocks []Block) string {
	lines := make([]string, len(blocks))
	for i, b := range blocks {
		lines[i] = line(b)
	}
	return strings.Join(lines, "\n")
}

func line(b Block) string {
	if needsEscape(b) {
		b.Content = escape + b.Content
	}
	return rawLine(b)
}

func rawLine(b Block) string {
	c := b.Content
	switch b.Type {
	case Heading1:
		return "# " + c
	case Heading2:
		return "## " + c
	case Heading3:
		return "### " + c
	case BulletList:
		return "- " + c
	case NumberedList:
		return "1. " + c
	case CheckList:
		if b.Checked {
			return "- [x] " + c
		}
		return "- [ ] " + c
	case Quote:
		return "> " + c
	case Code:
		return "`" + c + "`"
	case Divider:
		return dividerLine
	}
	return c
}

// needsEscape reports whether b written as-is would read back differently,
// or starts with the escape itself.
func needsEscape(b Block) bool {
	if b.Type == Divider {
		return false
	}
	if strings.HasPrefix(b.Content, escape) {
		return true
	}
	got := parsePrefix(rawLine(b))
	return got.Type != b.Type || got.Content != b.Content ||
		(b.Type == CheckList && got.Checked != b.Checked)
}

// FromMarkdown parses text written by ToMarkdown, or by hand. Each line is
// matched against the block prefixes, most specific first; anything else is
// a paragraph. Blank lines are dropped except for dividers, and an empty
// result is normalized to a single empty paragraph.
func FromMarkdown(text string) []Block {
	var out []Block
	for _, l := range strings.Split(text, "\n") {
		b := parseLine(strings.TrimSuffix(l, "\r"))
		if b.Content == "" && b.Type != Divider {
			continue
		}
		b.ID = NewBlock(b.Type).ID
		out = append(out, b)
	}
	return Normalize(out)
}

// parseLine reads one line. A leading backslash is dropped only where
// ToMarkdown would have written it; hand-written backslashes are kept.
func parseLine(l string) Block {
	b := parsePrefix(l)
	if rest, ok := strings.CutPrefix(b.Content, escape); ok {
		unescaped := b
		unescaped.Content = rest
		if needsEscape(unescaped) {
			return unescaped
		}
	}
	return b
}

func parsePrefix(l string) Block {
	var b Block
	switch {
	case strings.HasPrefix(l, "### "):
		b = Block{Type: Heading3, Content: l[4:]}
	case strings.HasPrefix(l, "## "):
		b = Block{Type: Heading2, Content: l[3:]}
	case strings.HasPrefix(l, "# "):
		b = Block{Type: Heading1, Content: l[2:]}
	case strings.HasPrefix(l, "- [x] "), strings.HasPrefix(l, "- [X] "):
		b = Block{Type: CheckList, Content: l[6:], Checked: true}
	case strings.HasPrefix(l, "- [ ] "):
		b = Block{Type: CheckList, Content: l[6:]}
	case strings.HasPrefix(l, "- "):
		b = Block{Type: BulletList, Content: l[2:]}
	case numberedPrefix.MatchString(l):
		b = Block{Type: NumberedList, Content: numberedPrefix.ReplaceAllString(l, "")}
	case strings.HasPrefix(l, "> "):
		b = Block{Type: Quote, Content: l[2:]}
	case l == dividerLine:
		return Block{Type: Divider}
	case len(l) >= 2 && strings.HasPrefix(l, "`") && strings.HasSuffix(l, "`"):
		b = Block{Type: Code, Content: l[1 : len(l)-1]}
	default:
		b = Block{Type: Paragraph, Content: l}
	}
	return b
}
