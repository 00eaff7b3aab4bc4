package blocks

import (
	"strings"
	"testing"
)

// strip drops ids so documents can be compared by shape.
func strip(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = Block{Type: b.Type, Content: b.Content, Checked: b.Checked}
	}
	return out
}

func equalBlocks(a, b []Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type || a[i].Content != b[i].Content || a[i].Checked != b[i].Checked {
			return false
		}
	}
	return true
}

func TestFromMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Block
	}{
		{
			name: "heading bullet checklist",
			in:   "# Title\n- item one\n- [x] done\n",
			want: []Block{
				{Type: Heading1, Content: "Title"},
				{Type: BulletList, Content: "item one"},
				{Type: CheckList, Content: "done", Checked: true},
			},
		},
		{
			name: "every prefix",
			in:   "## Two\n### Three\n- [ ] todo\n- [X] upper\n12. twelfth\n> said\n---\n`x := 1`\nplain",
			want: []Block{
				{Type: Heading2, Content: "Two"},
				{Type: Heading3, Content: "Three"},
				{Type: CheckList, Content: "todo"},
				{Type: CheckList, Content: "upper", Checked: true},
				{Type: NumberedList, Content: "twelfth"},
				{Type: Quote, Content: "said"},
				{Type: Divider},
				{Type: Code, Content: "x := 1"},
				{Type: Paragraph, Content: "plain"},
			},
		},
		{
			name: "blank lines and CRLF",
			in:   "first\r\n\r\n\nsecond\r\n",
			want: []Block{
				{Type: Paragraph, Content: "first"},
				{Type: Paragraph, Content: "second"},
			},
		},
		{
			name: "no space after marker is a paragraph",
			in:   "#nospace\n-dash\n1.x",
			want: []Block{
				{Type: Paragraph, Content: "#nospace"},
				{Type: Paragraph, Content: "-dash"},
				{Type: Paragraph, Content: "1.x"},
			},
		},
		{
			name: "hand-written backslashes are kept",
			in:   `\foo` + "\n" + `- \bar` + "\n" + `\# escaped`,
			want: []Block{
				{Type: Paragraph, Content: `\foo`},
				{Type: BulletList, Content: `\bar`},
				{Type: Paragraph, Content: "# escaped"},
			},
		},
		{
			name: "empty",
			in:   "",
			want: []Block{{Type: Paragraph}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromMarkdown(tt.in)
			if !equalBlocks(strip(got), tt.want) {
				t.Errorf("FromMarkdown(%q) = %+v, want %+v", tt.in, strip(got), tt.want)
			}
			seen := map[string]bool{}
			for _, b := range got {
				if b.ID == "" || seen[b.ID] {
					t.Errorf("block id %q missing or repeated", b.ID)
				}
				seen[b.ID] = true
			}
		})
	}
}

func TestToMarkdown(t *testing.T) {
	doc := []Block{
		{Type: Heading1, Content: "Match review"},
		{Type: Paragraph, Content: "Kick-off at 3pm"},
		{Type: NumberedList, Content: "one"},
		{Type: NumberedList, Content: "two"},
		{Type: CheckList, Content: "clip it"},
		{Type: CheckList, Content: "send it", Checked: true},
		{Type: Quote, Content: "well played"},
		{Type: Divider},
		{Type: Code, Content: "ffmpeg -i in.mp4"},
	}
	want := "# Match review\nKick-off at 3pm\n1. one\n1. two\n- [ ] clip it\n- [x] send it\n> well played\n---\n`ffmpeg -i in.mp4`"
	if got := ToMarkdown(doc); got != want {
		t.Errorf("ToMarkdown() = %q, want %q", got, want)
	}
}

func TestMarkdownRoundTrip(t *testing.T) {
	doc := []Block{
		{Type: Paragraph, Content: "# not a heading"},
		{Type: Paragraph, Content: "---"},
		{Type: Paragraph, Content: "- not a bullet"},
		{Type: Paragraph, Content: "3. not numbered"},
		{Type: Paragraph, Content: "`not code`"},
		{Type: Paragraph, Content: `\leading backslash`},
		{Type: BulletList, Content: "[x] literal box"},
		{Type: BulletList, Content: "[X] upper box"},
		{Type: BulletList, Content: "[ ] open box"},
		{Type: Quote, Content: `\`},
		{Type: Heading1, Content: "## still h1"},
		{Type: NumberedList, Content: "4. nested number"},
		{Type: CheckList, Content: "[ ] boxed", Checked: true},
		{Type: Quote, Content: "> nested"},
		{Type: Code, Content: "a`b"},
		{Type: Code, Content: `\n`},
		{Type: Divider},
		{Type: Heading3, Content: "end"},
	}
	md := ToMarkdown(doc)
	got := strip(FromMarkdown(md))
	if !equalBlocks(got, doc) {
		t.Errorf("round trip through %q:\n got %+v\nwant %+v", md, got, doc)
	}
}

func TestMarkdownDropsEmptyBlocks(t *testing.T) {
	doc := []Block{
		{Type: Paragraph, Content: "a"},
		{Type: BulletList},
		{Type: Divider},
	}
	got := strip(FromMarkdown(ToMarkdown(doc)))
	want := []Block{{Type: Paragraph, Content: "a"}, {Type: Divider}}
	if !equalBlocks(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRenderHTML(t *testing.T) {
	doc := []Block{
		{Type: Heading1, Content: "Title"},
		{Type: CheckList, Content: "done", Checked: true},
		{Type: BulletList, Content: "a"},
		{Type: BulletList, Content: "b"},
		{Type: Paragraph},
		{Type: NumberedList, Content: "x"},
		{Type: NumberedList, Content: "y"},
		{Type: Paragraph, Content: "<script>alert(1)</script>"},
	}
	out, err := RenderHTML(doc)
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	for _, want := range []string{
		"<h1>Title</h1>",
		`type="checkbox"`,
		"checked",
		"<li>a</li>",
		"<li>b</li>",
		"<ol>",
		"<li>y</li>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderHTML() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("RenderHTML() passed raw HTML through:\n%s", out)
	}
	if n := strings.Count(out, "<ul>"); n != 2 {
		t.Errorf("RenderHTML() has %d <ul>, want checklist and bullets apart:\n%s", n, out)
	}
}

func TestRenderSourceNumbering(t *testing.T) {
	doc := []Block{
		{Type: NumberedList, Content: "a"},
		{Type: NumberedList, Content: "b"},
		{Type: Heading2, Content: "break"},
		{Type: NumberedList, Content: "c"},
	}
	want := "1. a\n2. b\n\n## break\n\n1. c"
	if got := renderSource(doc); got != want {
		t.Errorf("renderSource() = %q, want %q", got, want)
	}
}
