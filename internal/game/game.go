package game

import (
	"context"
	"time"

	"tinyboard/internal/board"
	"tinyboard/internal/logging"

	"go.uber.org/zap"
)

func newSession(id string, opts Options, rec Recorder) *Session {
	return &Session{
		ID:       id,
		ctl:      NewController(opts),
		LastSeen: time.Now(),
		recorder: rec,
	}
}

// Touch updates the last seen timestamp for a session
func (s *Session) Touch() {
	s.Mu.Lock()
	s.LastSeen = time.Now()
	s.Mu.Unlock()
}

// Attach marks a long-lived connection as using the session. While any
// connection is attached the hub keeps the session regardless of idle time.
func (s *Session) Attach() {
	s.Mu.Lock()
	s.conns++
	s.LastSeen = time.Now()
	s.Mu.Unlock()
}

// Detach releases a connection registered with Attach.
func (s *Session) Detach() {
	s.Mu.Lock()
	if s.conns > 0 {
		s.conns--
	}
	s.LastSeen = time.Now()
	s.Mu.Unlock()
}

// Dispatch runs one event to completion and returns the DOM patches.
func (s *Session) Dispatch(ctx context.Context, ev Event) ([]Patch, error) {
	s.Mu.Lock()
	moves, captures := s.ctl.Moves(), s.ctl.Captures()
	patches, err := s.ctl.Dispatch(ev)
	moved := s.ctl.Moves() > moves
	captured := s.ctl.Captures() > captures
	s.LastSeen = time.Now()
	at := s.LastSeen
	s.Mu.Unlock()
	if err != nil {
		return nil, err
	}

	logging.Debugf("board %s: %s %v -> %d patches", s.ID, ev.Kind, ev.Square, len(patches))
	if moved && s.recorder != nil {
		if rerr := s.recorder.BoardMoved(ctx, s.ID, captured, at); rerr != nil {
			logging.L().Warn("record move failed", zap.String("board", s.ID), zap.Error(rerr))
		}
	}
	return patches, nil
}

// Snapshot returns a copy of the controller state.
func (s *Session) Snapshot() Snapshot {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.ctl.Snapshot()
}

// StateLocked returns the JSON view (must be called with lock held)
func (s *Session) StateLocked() SessionState {
	snap := s.ctl.Snapshot()
	st := SessionState{
		Kind:      "state",
		ID:        s.ID,
		Placement: s.ctl.Board().Placement(),
		Count:     s.ctl.Board().Count(),
		Moves:     s.ctl.Moves(),
		LastSeen:  s.LastSeen.UnixMilli(),
		Nodes:     snap.Nodes,
		Snapshot:  snap,
	}
	snap.Board.Each(func(sq board.Square, p board.Piece) {
		st.Pieces[sq.Row][sq.Col] = string(p)
	})
	return st
}

// State returns the JSON view of the session.
func (s *Session) State() SessionState {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.StateLocked()
}

// Reset restores the starting layout
func (s *Session) Reset() {
	s.Mu.Lock()
	s.ctl.Reset()
	s.LastSeen = time.Now()
	logging.Debugf("board %s reset - placement: %s", s.ID, s.ctl.Board().Placement())
	s.Mu.Unlock()
}
