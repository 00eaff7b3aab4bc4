package blocks

import (
	"log/slog"
	"slices"
	"strings"
)

// Key is a keyboard input handled by the editor.
type Key int

const (
	KeyEnter Key = iota
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeySlash
)

// Menu is the state of the slash command palette.
type Menu struct {
	Open     bool
	BlockID  string
	Filter   string
	Index    int
	Commands []Command
}

// Editor applies keyboard-driven edits to a document. Every change publishes
// a new slice through the change callback; slices handed out earlier are
// never written to.
type Editor struct {
	blocks   []Block
	focus    string
	menu     Menu
	dragging string
	onChange func([]Block)
	log      *slog.Logger
}

// NewEditor returns an editor over initial, normalized to a non-empty
// document. onChange may be nil.
func NewEditor(initial []Block, onChange func([]Block), log *slog.Logger) *Editor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	e := &Editor{onChange: onChange, log: log}
	if len(initial) == 0 {
		e.set([]Block{NewBlock(Paragraph)})
	} else {
		e.blocks = slices.Clone(initial)
	}
	e.focus = e.blocks[0].ID
	return e
}

// Blocks returns the current document. Do not modify it.
func (e *Editor) Blocks() []Block { return e.blocks }

// FocusID returns the id of the focused block.
func (e *Editor) FocusID() string { return e.focus }

// Menu returns the slash palette state.
func (e *Editor) Menu() Menu { return e.menu }

// Dragging returns the id of the block being dragged, if any.
func (e *Editor) Dragging() string { return e.dragging }

// Focused returns the focused block.
func (e *Editor) Focused() (Block, bool) {
	i := e.index(e.focus)
	if i < 0 {
		return Block{}, false
	}
	return e.blocks[i], true
}

// Focus moves focus to block id. Unknown ids are ignored.
func (e *Editor) Focus(id string) {
	if e.index(id) >= 0 {
		if id != e.focus {
			e.closeMenu()
		}
		e.focus = id
	}
}

// Input replaces the content of block id, as typed by the user. Typed
// content is a single line. While the palette is open its filter follows
// the text after the leading '/'; content without the slash closes it.
func (e *Editor) Input(id, content string) {
	content = strings.ReplaceAll(content, "\n", " ")
	if !e.update(id, func(b *Block) { b.Content = content }) {
		return
	}
	if !e.menu.Open || e.menu.BlockID != id {
		return
	}
	if rest, ok := strings.CutPrefix(content, "/"); ok {
		e.menu.Filter = rest
		e.menu.Index = 0
		e.menu.Commands = FilterCommands(rest)
	} else {
		e.closeMenu()
	}
}

// KeyDown handles k on block id and reports whether it was consumed.
func (e *Editor) KeyDown(id string, k Key) bool {
	i := e.index(id)
	if i < 0 {
		return false
	}
	b := e.blocks[i]

	if k == KeySlash && b.Content == "" {
		e.menu = Menu{Open: true, BlockID: id, Commands: FilterCommands("")}
		return false
	}
	if e.menu.Open && e.menu.BlockID == id {
		switch k {
		case KeyEscape:
			e.closeMenu()
			return true
		case KeyDown:
			e.menu.Index = max(0, min(e.menu.Index+1, len(e.menu.Commands)-1))
			return true
		case KeyUp:
			e.menu.Index = max(e.menu.Index-1, 0)
			return true
		case KeyEnter:
			if e.menu.Index < len(e.menu.Commands) {
				e.Apply(id, e.menu.Commands[e.menu.Index].Type)
			}
			return true
		}
	}

	switch k {
	case KeyEnter:
		e.enter(i)
		return true
	case KeyBackspace:
		if b.Content != "" {
			return false
		}
		e.backspace(i)
		return true
	case KeyUp:
		if i > 0 {
			e.focus = e.blocks[i-1].ID
			return true
		}
	case KeyDown:
		if i < len(e.blocks)-1 {
			e.focus = e.blocks[i+1].ID
			return true
		}
	}
	return false
}

// Apply turns block id into type t and clears its content, as picking a
// palette entry does. Focus stays on the block.
func (e *Editor) Apply(id string, t Type) {
	e.update(id, func(b *Block) {
		b.Type = t
		b.Content = ""
		b.Checked = false
	})
	e.closeMenu()
	e.focus = id
}

// ApplyCommand applies the i-th entry of the open palette.
func (e *Editor) ApplyCommand(i int) bool {
	if !e.menu.Open || i < 0 || i >= len(e.menu.Commands) {
		return false
	}
	e.Apply(e.menu.BlockID, e.menu.Commands[i].Type)
	return true
}

// SetType changes the type of block id, keeping its content.
func (e *Editor) SetType(id string, t Type) {
	e.update(id, func(b *Block) {
		b.Type = t
		b.Checked = false
	})
}

// ToggleChecked flips the checkbox of a checklist block.
func (e *Editor) ToggleChecked(id string) bool {
	i := e.index(id)
	if i < 0 || e.blocks[i].Type != CheckList {
		return false
	}
	return e.update(id, func(b *Block) { b.Checked = !b.Checked })
}

// InsertAfter adds an empty block of type t after block id and focuses it.
func (e *Editor) InsertAfter(id string, t Type) (Block, bool) {
	i := e.index(id)
	if i < 0 {
		return Block{}, false
	}
	nb := NewBlock(t)
	next := make([]Block, 0, len(e.blocks)+1)
	next = append(next, e.blocks[:i+1]...)
	next = append(next, nb)
	next = append(next, e.blocks[i+1:]...)
	e.set(next)
	e.focus = nb.ID
	return nb, true
}

// Delete removes block id and focuses its neighbour, previous first. The
// last remaining block is reset to an empty paragraph instead.
func (e *Editor) Delete(id string) {
	i := e.index(id)
	if i < 0 {
		return
	}
	if len(e.blocks) <= 1 {
		e.update(id, func(b *Block) {
			b.Type = Paragraph
			b.Content = ""
			b.Checked = false
		})
		return
	}
	neighbour := i - 1
	if neighbour < 0 {
		neighbour = i + 1
	}
	focus := e.blocks[neighbour].ID
	e.set(slices.Delete(slices.Clone(e.blocks), i, i+1))
	if e.menu.BlockID == id {
		e.closeMenu()
	}
	e.focus = focus
}

// DragStart begins dragging block id.
func (e *Editor) DragStart(id string) {
	if e.index(id) >= 0 {
		e.dragging = id
	}
}

// DragOver moves the dragged block to the position of block target.
func (e *Editor) DragOver(target string) {
	if e.dragging == "" || e.dragging == target {
		return
	}
	from, to := e.index(e.dragging), e.index(target)
	if from < 0 || to < 0 || from == to {
		return
	}
	e.set(Move(e.blocks, from, to))
}

// DragEnd finishes the drag.
func (e *Editor) DragEnd() {
	e.dragging = ""
}

// Move returns a copy of blocks with the element at from removed and
// reinserted at to.
func Move(blocks []Block, from, to int) []Block {
	next := slices.Clone(blocks)
	b := next[from]
	next = slices.Delete(next, from, from+1)
	return slices.Insert(next, to, b)
}

func (e *Editor) enter(i int) {
	b := e.blocks[i]
	switch {
	case b.Type == Divider:
		e.InsertAfter(b.ID, Paragraph)
	case b.Content == "" && b.Type.IsList():
		e.SetType(b.ID, Paragraph)
	case b.Type.IsList():
		e.InsertAfter(b.ID, b.Type)
	default:
		e.InsertAfter(b.ID, Paragraph)
	}
}

func (e *Editor) backspace(i int) {
	b := e.blocks[i]
	if b.Type != Paragraph {
		e.SetType(b.ID, Paragraph)
		return
	}
	e.Delete(b.ID)
}

func (e *Editor) closeMenu() {
	e.menu = Menu{}
}

func (e *Editor) index(id string) int {
	return slices.IndexFunc(e.blocks, func(b Block) bool { return b.ID == id })
}

// update rewrites block id through fn into a new slice.
func (e *Editor) update(id string, fn func(*Block)) bool {
	i := e.index(id)
	if i < 0 {
		return false
	}
	next := slices.Clone(e.blocks)
	fn(&next[i])
	e.set(next)
	return true
}

func (e *Editor) set(next []Block) {
	e.blocks = next
	if e.onChange != nil {
		e.onChange(next)
	}
}
