package game

import (
	"errors"
	"testing"

	"tinyboard/internal/board"
)

func sq(r, c int) *board.Square {
	s := board.Sq(r, c)
	return &s
}

func dispatch(t *testing.T, c *Controller, kind EventKind, s *board.Square) []Patch {
	t.Helper()
	patches, err := c.Dispatch(Event{Kind: kind, Square: s})
	if err != nil {
		t.Fatalf("dispatch %s: %v", kind, err)
	}
	return patches
}

func assertIdle(t *testing.T, c *Controller) {
	t.Helper()
	if c.State() != Idle {
		t.Fatalf("expected idle, got %s", c.State())
	}
	if c.Selection() != nil {
		t.Fatalf("expected no selection, got %+v", c.Selection())
	}
	if len(c.Highlights()) != 0 {
		t.Fatalf("expected no highlights, got %v", c.Highlights())
	}
}

func TestClickMovePawn(t *testing.T) {
	c := NewController(Options{})
	node := c.NodeAt(board.Sq(6, 0))

	patches := dispatch(t, c, EventClick, sq(6, 0))
	if c.State() != Selected {
		t.Fatalf("expected selected after click on piece")
	}
	if hl := c.Highlights(); len(hl) != 1 || hl[0] != board.Sq(6, 0) {
		t.Fatalf("expected (6,0) highlighted, got %v", hl)
	}
	if len(patches) != 1 || patches[0].Kind != PatchHighlight {
		t.Fatalf("expected single highlight patch, got %+v", patches)
	}

	patches = dispatch(t, c, EventClick, sq(4, 0))
	if got := c.Board().Get(board.Sq(4, 0)); got != "w-p" {
		t.Fatalf("expected w-p on (4,0), got %q", got)
	}
	if got := c.Board().Get(board.Sq(6, 0)); got != board.Empty {
		t.Fatalf("expected (6,0) empty, got %q", got)
	}
	assertIdle(t, c)
	last := patches[len(patches)-1]
	if last.Kind != PatchMove || last.Node != node || last.Row != 4 || last.Col != 0 {
		t.Fatalf("unexpected move patch %+v", last)
	}
	if patches[0].Kind != PatchUnhighlight {
		t.Fatalf("expected unhighlight first, got %+v", patches[0])
	}
	if c.NodeAt(board.Sq(4, 0)) != node || c.NodeAt(board.Sq(6, 0)) != "" {
		t.Fatalf("node index not updated")
	}
}

func TestClickSameSquareTwice(t *testing.T) {
	c := NewController(Options{})
	dispatch(t, c, EventClick, sq(7, 1))
	dispatch(t, c, EventClick, sq(7, 1))
	if got := c.Board().Get(board.Sq(7, 1)); got != "w-n" {
		t.Fatalf("expected knight to remain, got %q", got)
	}
	if c.NodeAt(board.Sq(7, 1)) == "" {
		t.Fatalf("expected node to remain on origin")
	}
	assertIdle(t, c)
}

func TestSameSquareMoveNotCounted(t *testing.T) {
	c := NewController(Options{})
	dispatch(t, c, EventClick, sq(7, 1))
	patches := dispatch(t, c, EventClick, sq(7, 1))
	if last := patches[len(patches)-1]; last.Kind != PatchMove || last.Row != 7 || last.Col != 1 {
		t.Fatalf("expected move patch back onto origin, got %+v", patches)
	}
	dispatch(t, c, EventDragStart, sq(6, 0))
	dispatch(t, c, EventDrop, sq(6, 0))
	if c.Moves() != 0 || c.Captures() != 0 {
		t.Fatalf("expected no counted moves, got moves=%d captures=%d", c.Moves(), c.Captures())
	}

	dispatch(t, c, EventClick, sq(6, 0))
	dispatch(t, c, EventClick, sq(5, 0))
	if c.Moves() != 1 {
		t.Fatalf("expected one counted move, got %d", c.Moves())
	}
}

func TestDropAfterDragEndIsLost(t *testing.T) {
	c := NewController(Options{})
	dispatch(t, c, EventDragStart, sq(1, 4))
	dispatch(t, c, EventDragEnd, nil)
	if patches := dispatch(t, c, EventDrop, sq(3, 4)); len(patches) != 0 {
		t.Fatalf("expected drop to be ignored after drag end, got %+v", patches)
	}
	if got := c.Board().Get(board.Sq(1, 4)); got != "b-p" {
		t.Fatalf("expected pawn to stay on (1,4), got %q", got)
	}
}

func TestClickEmptyWhileIdle(t *testing.T) {
	c := NewController(Options{})
	before := *c.Board()
	if patches := dispatch(t, c, EventClick, sq(4, 4)); len(patches) != 0 {
		t.Fatalf("expected no patches, got %+v", patches)
	}
	if *c.Board() != before {
		t.Fatalf("board modified by empty click")
	}
	assertIdle(t, c)
}

func TestDragAndDrop(t *testing.T) {
	c := NewController(Options{})
	patches := dispatch(t, c, EventDragStart, sq(1, 4))
	if len(patches) != 0 {
		t.Fatalf("drag start should not patch, got %+v", patches)
	}
	if c.State() != Selected || len(c.Highlights()) != 0 {
		t.Fatalf("expected selected without highlight")
	}
	dispatch(t, c, EventDragOver, sq(2, 4))
	if c.State() != Selected {
		t.Fatalf("drag over changed state")
	}
	dispatch(t, c, EventDrop, sq(3, 4))
	if got := c.Board().Get(board.Sq(3, 4)); got != "b-p" {
		t.Fatalf("expected b-p on (3,4), got %q", got)
	}
	if got := c.Board().Get(board.Sq(1, 4)); got != board.Empty {
		t.Fatalf("expected (1,4) empty, got %q", got)
	}
	dispatch(t, c, EventDragEnd, nil)
	assertIdle(t, c)
}

func TestDropThroughPieces(t *testing.T) {
	c := NewController(Options{})
	dispatch(t, c, EventDragStart, sq(7, 0))
	dispatch(t, c, EventDrop, sq(3, 0))
	if got := c.Board().Get(board.Sq(3, 0)); got != "w-r" {
		t.Fatalf("expected rook to jump over pawn, got %q", got)
	}
}

func TestCaptureRemovesNode(t *testing.T) {
	c := NewController(Options{})
	victim := c.NodeAt(board.Sq(0, 4))
	dispatch(t, c, EventClick, sq(7, 3))
	patches := dispatch(t, c, EventClick, sq(0, 4))

	var removed bool
	for _, p := range patches {
		if p.Kind == PatchRemove && p.Node == victim {
			removed = true
		}
	}
	if !removed {
		t.Fatalf("expected remove patch for %s, got %+v", victim, patches)
	}
	if c.Board().Count() != 31 || c.Captures() != 1 {
		t.Fatalf("expected one capture, count=%d captures=%d", c.Board().Count(), c.Captures())
	}
}

func TestCaptureOrphaned(t *testing.T) {
	c := NewController(Options{OrphanCaptured: true})
	dispatch(t, c, EventClick, sq(7, 3))
	patches := dispatch(t, c, EventClick, sq(0, 4))
	for _, p := range patches {
		if p.Kind == PatchRemove {
			t.Fatalf("unexpected remove patch %+v", p)
		}
	}
	if c.Board().Get(board.Sq(0, 4)) != "w-q" {
		t.Fatalf("expected queen on captured square")
	}
}

func TestDragEndClearsStaleSelection(t *testing.T) {
	c := NewController(Options{})
	dispatch(t, c, EventDragStart, sq(6, 3))
	dispatch(t, c, EventDrop, nil)
	if c.State() != Selected {
		t.Fatalf("drop outside the board should be ignored")
	}
	dispatch(t, c, EventDragEnd, nil)
	assertIdle(t, c)

	dispatch(t, c, EventClick, sq(6, 5))
	if sel := c.Selection(); sel == nil || sel.Origin != board.Sq(6, 5) {
		t.Fatalf("expected fresh selection on (6,5), got %+v", sel)
	}
}

func TestKeepStaleDrag(t *testing.T) {
	c := NewController(Options{KeepStaleDrag: true})
	dispatch(t, c, EventDragStart, sq(6, 3))
	dispatch(t, c, EventDragEnd, nil)
	if c.State() != Selected {
		t.Fatalf("expected stale selection kept")
	}
	dispatch(t, c, EventClick, sq(6, 5))
	if got := c.Board().Get(board.Sq(6, 5)); got != "w-p" {
		t.Fatalf("expected stale pawn moved onto (6,5), got %q", got)
	}
	if got := c.Board().Get(board.Sq(6, 3)); got != board.Empty {
		t.Fatalf("expected (6,3) emptied, got %q", got)
	}
	assertIdle(t, c)
}

func TestDragStartClearsClickHighlight(t *testing.T) {
	c := NewController(Options{})
	dispatch(t, c, EventClick, sq(6, 0))
	patches := dispatch(t, c, EventDragStart, sq(6, 1))
	if len(patches) != 1 || patches[0].Kind != PatchUnhighlight {
		t.Fatalf("expected unhighlight, got %+v", patches)
	}
	if sel := c.Selection(); sel == nil || sel.Origin != board.Sq(6, 1) {
		t.Fatalf("expected drag selection on (6,1), got %+v", sel)
	}
}

func TestClickOutsideBoardIgnored(t *testing.T) {
	c := NewController(Options{})
	dispatch(t, c, EventClick, sq(6, 0))
	dispatch(t, c, EventClick, nil)
	dispatch(t, c, EventClick, sq(9, 9))
	if c.State() != Selected {
		t.Fatalf("missing target should not resolve the selection")
	}
}

type denyAll struct{}

func (denyAll) Allow(*board.Board, board.Square, board.Square) bool { return false }

func TestValidatorRefusalEndsSelection(t *testing.T) {
	c := NewController(Options{Validator: denyAll{}})
	dispatch(t, c, EventClick, sq(6, 0))
	dispatch(t, c, EventClick, sq(4, 0))
	if c.Board().Get(board.Sq(6, 0)) != "w-p" {
		t.Fatalf("refused move changed the board")
	}
	assertIdle(t, c)
}

func TestUnknownEvent(t *testing.T) {
	c := NewController(Options{})
	if _, err := c.Dispatch(Event{Kind: "hover"}); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestResetRestoresLayout(t *testing.T) {
	c := NewController(Options{})
	dispatch(t, c, EventClick, sq(6, 0))
	dispatch(t, c, EventClick, sq(0, 0))
	c.Reset()
	if *c.Board() != *board.New() {
		t.Fatalf("expected starting layout after reset")
	}
	assertIdle(t, c)
	if c.NodeAt(board.Sq(0, 0)) != "p0" || c.NodeAt(board.Sq(7, 7)) != "p31" {
		t.Fatalf("unexpected node ids after reset: %q %q", c.NodeAt(board.Sq(0, 0)), c.NodeAt(board.Sq(7, 7)))
	}
}
