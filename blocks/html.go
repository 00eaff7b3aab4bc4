package blocks

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// mdRenderer renders notes to HTML. Raw HTML in note content is escaped
// (WithUnsafe is not set); task list items become checkboxes.
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.TaskList, extension.Strikethrough),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderHTML converts a document to an HTML fragment.
func RenderHTML(blocks []Block) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(renderSource(blocks)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderSource is the document's markdown with block boundaries made
// explicit: runs of the same list type stay together, everything else is
// separated by a blank line so CommonMark does not merge neighbours.
func renderSource(blocks []Block) string {
	var (
		b    strings.Builder
		prev Type
	)
	for i, blk := range blocks {
		if blk.Content == "" && blk.Type != Divider {
			continue
		}
		if b.Len() > 0 {
			if !(blk.Type.IsList() && blk.Type == prev) {
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
		prev = blk.Type
		l := line(blk)
		switch blk.Type {
		case NumberedList:
			l = strconv.Itoa(ListNumber(blocks, i)) + strings.TrimPrefix(l, "1")
		case CheckList:
			// a different bullet character starts a new list
			l = "*" + strings.TrimPrefix(l, "-")
		}
		b.WriteString(l)
	}
	return b.String()
}
