package game

import (
	"sync"
	"time"

	"tinyboard/internal/board"
)

// State is the controller's interaction state.
type State string

const (
	Idle     State = "idle"
	Selected State = "selected"
)

// EventKind names a pointer or drag event forwarded by the page.
type EventKind string

const (
	EventClick     EventKind = "click"
	EventDragStart EventKind = "dragstart"
	EventDragOver  EventKind = "dragover"
	EventDrop      EventKind = "drop"
	EventDragEnd   EventKind = "dragend"
)

// Event is one UI event. Square is nil when the event landed outside any
// square.
type Event struct {
	Kind   EventKind     `json:"kind"`
	Square *board.Square `json:"square,omitempty"`
}

// PatchKind names an incremental DOM update.
type PatchKind string

const (
	PatchHighlight   PatchKind = "highlight"
	PatchUnhighlight PatchKind = "unhighlight"
	PatchMove        PatchKind = "move"
	PatchRemove      PatchKind = "remove"
)

// Patch tells the page how to update its board without a full re-render.
// Move relocates Node into the square at Row/Col; Remove detaches Node;
// Highlight marks Row/Col; Unhighlight clears every mark.
type Patch struct {
	Kind PatchKind `json:"kind"`
	Node string    `json:"node,omitempty"`
	Row  int       `json:"row"`
	Col  int       `json:"col"`
}

// Selection is the piece chosen as the source of a pending move.
type Selection struct {
	Origin board.Square `json:"origin"`
	Node   string       `json:"node"`
}

// Snapshot is a copy of a controller's state used for rendering.
type Snapshot struct {
	Board      board.Board                    `json:"-"`
	Nodes      [board.Size][board.Size]string `json:"-"`
	State      State                          `json:"state"`
	Selection  *Selection                     `json:"selection"`
	Highlights []board.Square                 `json:"highlights"`
}

// Session is one board instance addressed by an id.
type Session struct {
	Mu       sync.Mutex
	ID       string
	ctl      *Controller
	LastSeen time.Time
	recorder Recorder
	conns    int // attached websockets
}

// Hub manages all live board sessions.
type Hub struct {
	Mu       sync.Mutex
	Sessions map[string]*Session

	opts     Options
	ttl      time.Duration
	interval time.Duration
	recorder Recorder
	stop     chan struct{}
	once     sync.Once
}

// SessionState is the JSON view of a session.
type SessionState struct {
	Kind      string                         `json:"kind"`
	ID        string                         `json:"id"`
	Placement string                         `json:"placement"`
	Pieces    [board.Size][board.Size]string `json:"pieces"`
	Nodes     [board.Size][board.Size]string `json:"nodes"`
	Count     int                            `json:"count"`
	Moves     int                            `json:"moves"`
	LastSeen  int64                          `json:"lastSeen"`
	Snapshot
}
