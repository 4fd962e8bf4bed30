package session

import (
	"errors"
	"log/slog"
	"sync"
)

var (
	ErrDrawingBusy = errors.New("drawing is already open in another session")
	ErrHubStopped  = errors.New("session hub stopped")
)

// Hub tracks the live sessions. A drawing is edited by at most one
// session at a time.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session // drawingID -> session
	wg       sync.WaitGroup
	stopped  bool
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*Session)}
}

func (h *Hub) Register(s *Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return ErrHubStopped
	}
	if _, ok := h.sessions[s.DrawingID]; ok {
		return ErrDrawingBusy
	}
	h.sessions[s.DrawingID] = s
	h.wg.Add(1)

	slog.Info("session opened", "session", s.ID, "drawing", s.DrawingID, "user", s.UserID)
	return nil
}

func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.sessions[s.DrawingID]; !ok || current != s {
		return
	}
	delete(h.sessions, s.DrawingID)
	h.wg.Done()

	slog.Info("session closed", "session", s.ID, "drawing", s.DrawingID, "user", s.UserID)
}

// Busy reports whether a session is editing the drawing.
func (h *Hub) Busy(drawingID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.sessions[drawingID]
	return ok
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Stop closes every session and waits for them to finish, including
// their autosave.
func (h *Hub) Stop() {
	h.mu.Lock()
	h.stopped = true
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.close("server shutting down")
	}
	h.wg.Wait()
}
