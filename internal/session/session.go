package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"github.com/inamate/paint/internal/engine"
)

const (
	writeWait   = 10 * time.Second
	pingPeriod  = 30 * time.Second
	maxMsgSize  = 64 * 1024
	saveTimeout = 10 * time.Second
)

// Saver persists an engine's document for a drawing.
type Saver interface {
	SaveEngine(ctx context.Context, drawingID string, eng *engine.Engine) error
}

// Session is one websocket connection editing one drawing. The engine is
// only touched from ReadPump.
type Session struct {
	ID        string
	DrawingID string
	UserID    string

	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	engine   *engine.Engine
	saver    Saver
	autosave bool
	seq      int64
}

func NewSession(hub *Hub, conn *websocket.Conn, id, drawingID, userID string, eng *engine.Engine, saver Saver, autosave bool) *Session {
	return &Session{
		ID:        id,
		DrawingID: drawingID,
		UserID:    userID,
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		engine:    eng,
		saver:     saver,
		autosave:  autosave,
	}
}

// ReadPump handles client messages until the connection closes, then
// saves unsaved changes when autosave is on.
func (s *Session) ReadPump(ctx context.Context) {
	defer func() {
		s.conn.Close(websocket.StatusNormalClosure, "")
		close(s.send)
		if s.autosave && s.engine.Modified() {
			s.save(context.Background())
		}
		s.hub.Unregister(s)
	}()

	s.conn.SetReadLimit(maxMsgSize)

	s.Send(s.welcome())
	s.Send(s.render())

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "session", s.ID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "session", s.ID)
			s.Send(errorMessage("invalid message"))
			continue
		}

		for _, reply := range s.handleMessage(ctx, &msg) {
			s.Send(reply)
		}
	}
}

func (s *Session) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-s.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "session", s.ID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) Send(msg *Message) {
	s.seq++
	msg.Seq = s.seq
	msg.SessionID = s.ID

	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case s.send <- data:
	default:
		slog.Warn("session send buffer full, dropping message", "session", s.ID)
	}
}

// close ends the connection from the server side; ReadPump then exits.
func (s *Session) close(reason string) {
	s.conn.Close(websocket.StatusGoingAway, reason)
}

// handleMessage applies one client message to the engine and returns the
// replies. Every accepted message is answered with a render.
func (s *Session) handleMessage(ctx context.Context, msg *Message) []*Message {
	var err error
	switch msg.Type {
	case TypePointerDown, TypePointerDrag:
		var p PointerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return []*Message{errorMessage("invalid pointer payload")}
		}
		if msg.Type == TypePointerDown {
			err = s.engine.PointerDown(p.point())
		} else {
			err = s.engine.PointerDrag(p.point())
		}
	case TypePointerUp:
		err = s.engine.PointerUp()
	case TypePointerLeave:
		err = s.engine.PointerLeave()
	case TypeToolSet:
		var settings engine.ToolSettings
		if err := json.Unmarshal(msg.Payload, &settings); err != nil {
			return []*Message{errorMessage("invalid tool settings")}
		}
		s.engine.SetToolSettings(settings)
	case TypeSelectionDelete:
		s.engine.DeleteSelected()
	case TypeDocClear:
		s.engine.Clear()
	case TypeDocSave:
		if err := s.save(ctx); err != nil {
			return []*Message{errorMessage("save failed")}
		}
		return []*Message{s.saved(), s.render()}
	default:
		slog.Warn("unknown message type", "type", msg.Type, "session", s.ID)
		return []*Message{errorMessage(fmt.Sprintf("unknown message type %q", msg.Type))}
	}

	if err != nil {
		return []*Message{errorMessage(err.Error()), s.render()}
	}
	return []*Message{s.render()}
}

func (s *Session) save(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	if err := s.saver.SaveEngine(ctx, s.DrawingID, s.engine); err != nil {
		slog.Error("save drawing", "error", err, "session", s.ID, "drawing", s.DrawingID)
		return err
	}
	slog.Info("drawing saved", "session", s.ID, "drawing", s.DrawingID, "objects", s.engine.Document().Len())
	return nil
}

func (s *Session) welcome() *Message {
	return newMessage(TypeWelcome, WelcomePayload{
		SessionID: s.ID,
		DrawingID: s.DrawingID,
		Tool:      s.engine.ToolSettings(),
	})
}

func (s *Session) render() *Message {
	commands := s.engine.Render()
	if commands == nil {
		commands = []engine.DrawCommand{}
	}
	selection, _ := s.engine.Selection()
	return newMessage(TypeRender, RenderPayload{
		Commands:  commands,
		Selection: selection,
		Modified:  s.engine.Modified(),
	})
}

func (s *Session) saved() *Message {
	return newMessage(TypeSaved, SavedPayload{Objects: s.engine.Document().Len()})
}

func errorMessage(text string) *Message {
	return newMessage(TypeError, ErrorPayload{Message: text})
}

func newMessage(typ string, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal payload", "type", typ, "error", err)
	}
	return &Message{Type: typ, Payload: data}
}
