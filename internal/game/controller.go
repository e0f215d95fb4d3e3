package game

import (
	"errors"
	"fmt"

	"tinyboard/internal/board"
)

// ErrUnknownEvent is returned by Dispatch for unsupported event kinds.
var ErrUnknownEvent = errors.New("unknown event kind")

// Validator decides whether a move may be applied. The controller asks it
// before every move; a refused move still ends the selection.
type Validator interface {
	Allow(b *board.Board, from, to board.Square) bool
}

// AllowAll accepts every move.
type AllowAll struct{}

// Allow implements Validator.
func (AllowAll) Allow(*board.Board, board.Square, board.Square) bool { return true }

// Options tunes the two edge cases where the page behavior is a choice.
type Options struct {
	// KeepStaleDrag leaves a drag selection in place when the drag ends
	// without a drop on a square. The next click then completes it.
	KeepStaleDrag bool
	// OrphanCaptured skips the remove patch for a captured piece node.
	OrphanCaptured bool
	// Validator defaults to AllowAll.
	Validator Validator
}

// Controller owns a board and the click/drag state machine driving it.
// It is not safe for concurrent use; Session serializes access.
type Controller struct {
	board      *board.Board
	nodes      [board.Size][board.Size]string
	state      State
	sel        *Selection
	dragging   bool
	highlights []board.Square
	opts       Options

	moves    int
	captures int
}

// NewController returns a controller over a board in the starting layout.
func NewController(opts Options) *Controller {
	if opts.Validator == nil {
		opts.Validator = AllowAll{}
	}
	c := &Controller{board: board.New(), opts: opts}
	c.layout()
	return c
}

// Reset restores the starting layout, assigns fresh piece nodes and
// returns to Idle.
func (c *Controller) Reset() {
	c.board.Reset()
	c.layout()
}

func (c *Controller) layout() {
	c.nodes = [board.Size][board.Size]string{}
	n := 0
	c.board.Each(func(sq board.Square, p board.Piece) {
		if p == board.Empty {
			return
		}
		c.nodes[sq.Row][sq.Col] = fmt.Sprintf("p%d", n)
		n++
	})
	c.state = Idle
	c.sel = nil
	c.dragging = false
	c.highlights = nil
}

// Board exposes the underlying store.
func (c *Controller) Board() *board.Board { return c.board }

// State returns the current interaction state.
func (c *Controller) State() State { return c.state }

// Selection returns a copy of the active selection, or nil.
func (c *Controller) Selection() *Selection {
	if c.sel == nil {
		return nil
	}
	s := *c.sel
	return &s
}

// Highlights returns the highlighted squares.
func (c *Controller) Highlights() []board.Square {
	return append([]board.Square(nil), c.highlights...)
}

// Moves returns the number of moves that relocated a piece. Dropping a
// piece back on its own square is not counted.
func (c *Controller) Moves() int { return c.moves }

// Captures returns the number of moves that overwrote a piece.
func (c *Controller) Captures() int { return c.captures }

// NodeAt returns the id of the piece node in sq's container.
func (c *Controller) NodeAt(sq board.Square) string {
	if !sq.Valid() {
		return ""
	}
	return c.nodes[sq.Row][sq.Col]
}

// Snapshot copies the state for rendering.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Board:      *c.board,
		Nodes:      c.nodes,
		State:      c.state,
		Selection:  c.Selection(),
		Highlights: c.Highlights(),
	}
}

// Dispatch routes ev to the matching transition.
func (c *Controller) Dispatch(ev Event) ([]Patch, error) {
	target, ok := board.Square{}, false
	if ev.Square != nil && ev.Square.Valid() {
		target, ok = *ev.Square, true
	}
	switch ev.Kind {
	case EventClick:
		if !ok {
			return nil, nil
		}
		return c.Click(target), nil
	case EventDragStart:
		if !ok {
			return nil, nil
		}
		return c.DragStart(target), nil
	case EventDragOver:
		return nil, nil
	case EventDrop:
		if !ok {
			return nil, nil
		}
		return c.Drop(target), nil
	case EventDragEnd:
		return c.DragEnd(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
}

// Click selects the piece on sq when Idle, or completes the pending move
// onto sq when Selected. A click on an empty square while Idle does nothing.
func (c *Controller) Click(sq board.Square) []Patch {
	if c.state == Selected {
		return c.move(sq)
	}
	node := c.NodeAt(sq)
	if node == "" {
		return nil
	}
	patches := c.clearHighlights()
	c.sel = &Selection{Origin: sq, Node: node}
	c.dragging = false
	c.state = Selected
	c.highlights = append(c.highlights, sq)
	return append(patches, Patch{Kind: PatchHighlight, Row: sq.Row, Col: sq.Col})
}

// DragStart records the piece on sq as the selection without highlighting.
func (c *Controller) DragStart(sq board.Square) []Patch {
	node := c.NodeAt(sq)
	if node == "" {
		return nil
	}
	patches := c.clearHighlights()
	c.sel = &Selection{Origin: sq, Node: node}
	c.dragging = true
	c.state = Selected
	return patches
}

// Drop completes the pending move onto sq. It is ignored while Idle.
func (c *Controller) Drop(sq board.Square) []Patch {
	if c.state != Selected {
		return nil
	}
	return c.move(sq)
}

// DragEnd clears a drag selection that no drop completed, unless
// KeepStaleDrag is set.
func (c *Controller) DragEnd() []Patch {
	if c.opts.KeepStaleDrag || c.state != Selected || !c.dragging {
		return nil
	}
	c.sel = nil
	c.dragging = false
	c.state = Idle
	return nil
}

func (c *Controller) move(to board.Square) []Patch {
	sel := c.sel
	patches := c.clearHighlights()
	c.sel = nil
	c.dragging = false
	c.state = Idle
	if sel == nil || !c.opts.Validator.Allow(c.board, sel.Origin, to) {
		return patches
	}

	from := sel.Origin
	captured, err := c.board.MoveTo(from, to)
	if err != nil {
		return patches
	}
	if from != to {
		c.moves++
		if captured != board.Empty {
			c.captures++
		}
		if victim := c.nodes[to.Row][to.Col]; victim != "" && victim != sel.Node && !c.opts.OrphanCaptured {
			patches = append(patches, Patch{Kind: PatchRemove, Node: victim, Row: to.Row, Col: to.Col})
		}
		c.nodes[to.Row][to.Col] = sel.Node
		c.nodes[from.Row][from.Col] = ""
	}
	return append(patches, Patch{Kind: PatchMove, Node: sel.Node, Row: to.Row, Col: to.Col})
}

func (c *Controller) clearHighlights() []Patch {
	if len(c.highlights) == 0 {
		return nil
	}
	c.highlights = nil
	return []Patch{{Kind: PatchUnhighlight}}
}
