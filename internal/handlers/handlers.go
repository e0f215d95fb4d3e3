package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tinyboard/internal/game"
	"tinyboard/internal/logging"
	"tinyboard/internal/render"
	"tinyboard/internal/storage"
	"tinyboard/internal/templates"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const wsWriteTimeout = 5 * time.Second

// Handler contains dependencies for HTTP handlers
type Handler struct {
	Hub   *game.Hub
	Store *storage.Store
}

// NewHandler creates a new handler instance. store may be nil.
func NewHandler(hub *game.Hub, store *storage.Store) *Handler {
	return &Handler{Hub: hub, Store: store}
}

// Register attaches every route to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/new", h.HandleNew)
	mux.HandleFunc("/event/", h.HandleEvent)
	mux.HandleFunc("/ws/", h.HandleWS)
	mux.HandleFunc("/state/", h.HandleState)
	mux.HandleFunc("/reset/", h.HandleReset)
	mux.HandleFunc("/snapshot/", h.HandleSnapshot)
	mux.HandleFunc("/healthz", HandleHealth)
	mux.HandleFunc("/", h.HandlePage)
}

// HandleNew creates a new board and redirects to it
func (h *Handler) HandleNew(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	http.Redirect(w, r, "/"+id, http.StatusFound)
}

// HandlePage serves the home page or a fully rendered board page
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "" || path == "index.html" {
		templates.WriteHomeHTML(w, h.stats(r.Context()))
		return
	}
	if !validID(path) {
		http.NotFound(w, r)
		return
	}

	s := h.Hub.Get(r.Context(), path)
	s.Touch()
	views, err := render.Squares(s.Snapshot())
	if err != nil {
		logging.L().Error("render board failed", zap.String("board", path), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	templates.WriteBoardHTML(w, templates.BoardPage{BoardID: path, Squares: views})
}

func (h *Handler) stats(ctx context.Context) templates.Stats {
	if h.Store == nil {
		return templates.Stats{}
	}
	st, err := h.Store.FetchStats(ctx)
	if err != nil {
		logging.L().Warn("fetch stats failed", zap.Error(err))
		return templates.Stats{}
	}
	return templates.Stats{Enabled: true, Started: st.Started, Active: st.Active, Moves: st.Moves}
}

// HandleEvent applies one UI event and answers with the DOM patches
func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{"ok": false, "error": "method not allowed"})
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/event/")
	if !validID(id) {
		WriteJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "bad board id"})
		return
	}

	var ev game.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad json"})
		return
	}

	s := h.Hub.Get(r.Context(), id)
	patches, err := s.Dispatch(r.Context(), ev)
	if err != nil {
		WriteJSON(w, eventStatus(err), map[string]any{"ok": false, "error": err.Error()})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "patches": nonNil(patches), "state": s.State()})
}

// HandleWS carries the same events as HandleEvent over a websocket
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/ws/")
	if !validID(id) {
		http.NotFound(w, r)
		return
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		logging.L().Warn("websocket accept failed", zap.String("board", id), zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	ctx := r.Context()
	s := h.Hub.Get(ctx, id)
	s.Attach()
	defer s.Detach()
	logging.Debugf("board %s: websocket open", id)

	for {
		// Decoded by hand: wsjson.Read closes the socket on invalid JSON.
		_, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			logging.Debugf("board %s: websocket read: %v", id, err)
			return
		}

		var resp map[string]any
		var ev game.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			resp = map[string]any{"ok": false, "error": "bad json"}
		} else if patches, err := s.Dispatch(ctx, ev); err != nil {
			resp = map[string]any{"ok": false, "error": err.Error()}
		} else {
			resp = map[string]any{"ok": true, "patches": nonNil(patches)}
		}
		if err := h.wsWrite(ctx, conn, resp); err != nil {
			logging.Debugf("board %s: websocket write: %v", id, err)
			return
		}
	}
}

func (h *Handler) wsWrite(ctx context.Context, conn *websocket.Conn, v any) error {
	wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(wctx, conn, v)
}

// HandleState returns the board snapshot as JSON
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/state/")
	s, ok := h.Hub.Lookup(id)
	if !validID(id) || !ok {
		WriteJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "no such board"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "state": s.State()})
}

// HandleReset resets a board to the starting layout
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{"ok": false, "error": "method not allowed"})
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/reset/")
	if !validID(id) {
		WriteJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "bad board id"})
		return
	}
	s := h.Hub.Get(r.Context(), id)
	s.Reset()
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "state": s.State()})
}

// HandleSnapshot renders the board as a PNG
func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/snapshot/")
	id, ok := strings.CutSuffix(name, ".png")
	if !ok || !validID(id) {
		http.NotFound(w, r)
		return
	}
	s, ok := h.Hub.Lookup(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	size := 0
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < render.MinSize || n > render.MaxSize {
			WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad size"})
			return
		}
		size = n
	}

	img, err := render.PNG(r.Context(), s.Snapshot(), size)
	if err != nil {
		logging.L().Error("render snapshot failed", zap.String("board", id), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(img)
}

// HandleHealth reports liveness
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// validID accepts a single path segment. Dots are refused so file-like
// requests such as /favicon.ico never become boards.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, "/.")
}

func eventStatus(err error) int {
	if errors.Is(err, game.ErrUnknownEvent) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func nonNil(p []game.Patch) []game.Patch {
	if p == nil {
		return []game.Patch{}
	}
	return p
}

// ClientIP extracts the client IP from the request
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
