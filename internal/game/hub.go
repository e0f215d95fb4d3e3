package game

import (
	"context"
	"time"

	"tinyboard/internal/logging"

	"go.uber.org/zap"
)

// Recorder receives session lifecycle notifications. Implementations must
// tolerate being called from concurrent requests.
type Recorder interface {
	BoardCreated(ctx context.Context, id string, at time.Time) error
	BoardMoved(ctx context.Context, id string, captured bool, at time.Time) error
	BoardDropped(ctx context.Context, id string, at time.Time) error
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithOptions sets the controller options for new sessions.
func WithOptions(opts Options) HubOption {
	return func(h *Hub) { h.opts = opts }
}

// WithIdleTTL sets how long an untouched session survives and how often
// the sweep runs.
func WithIdleTTL(ttl, interval time.Duration) HubOption {
	return func(h *Hub) {
		if ttl > 0 {
			h.ttl = ttl
		}
		if interval > 0 {
			h.interval = interval
		}
	}
}

// WithRecorder attaches a lifecycle recorder.
func WithRecorder(r Recorder) HubOption {
	return func(h *Hub) { h.recorder = r }
}

// NewHub creates a new session hub with cleanup goroutine
func NewHub(options ...HubOption) *Hub {
	h := &Hub{
		Sessions: make(map[string]*Session),
		ttl:      24 * time.Hour,
		interval: 5 * time.Minute,
		stop:     make(chan struct{}),
	}
	for _, o := range options {
		o(h)
	}
	go h.sweepLoop()
	return h
}

func (h *Hub) sweepLoop() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-h.stop:
			return
		case now := <-ticker.C:
			h.Sweep(now)
		}
	}
}

// Close stops the cleanup goroutine.
func (h *Hub) Close() {
	h.once.Do(func() { close(h.stop) })
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (h *Hub) Sweep(now time.Time) int {
	var dropped []string
	h.Mu.Lock()
	for id, s := range h.Sessions {
		s.Mu.Lock()
		idle := s.conns == 0 && now.Sub(s.LastSeen) > h.ttl
		s.Mu.Unlock()
		if idle {
			delete(h.Sessions, id)
			dropped = append(dropped, id)
		}
	}
	h.Mu.Unlock()

	for _, id := range dropped {
		logging.Debugf("board %s dropped after idle", id)
		if h.recorder == nil {
			continue
		}
		if err := h.recorder.BoardDropped(context.Background(), id, now); err != nil {
			logging.L().Warn("record drop failed", zap.String("board", id), zap.Error(err))
		}
	}
	return len(dropped)
}

// Get retrieves an existing session or creates a new one
func (h *Hub) Get(ctx context.Context, id string) *Session {
	h.Mu.Lock()
	if s, ok := h.Sessions[id]; ok {
		h.Mu.Unlock()
		return s
	}
	s := newSession(id, h.opts, h.recorder)
	h.Sessions[id] = s
	h.Mu.Unlock()

	logging.L().Info("board created", zap.String("board", id))
	if h.recorder != nil {
		if err := h.recorder.BoardCreated(ctx, id, s.LastSeen); err != nil {
			logging.L().Warn("record create failed", zap.String("board", id), zap.Error(err))
		}
	}
	return s
}

// Lookup returns the session for id without creating one.
func (h *Hub) Lookup(id string) (*Session, bool) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	s, ok := h.Sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	return len(h.Sessions)
}
