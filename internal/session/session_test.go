package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/paint/internal/engine"
	"github.com/inamate/paint/internal/geom"
	"github.com/inamate/paint/internal/shape"
)

type saveCall struct {
	drawingID string
	objects   int
}

type fakeSaver struct {
	calls chan saveCall
	err   error
}

func newFakeSaver() *fakeSaver {
	return &fakeSaver{calls: make(chan saveCall, 8)}
}

func (f *fakeSaver) SaveEngine(_ context.Context, drawingID string, eng *engine.Engine) error {
	if f.err != nil {
		return f.err
	}
	if err := eng.Save(io.Discard); err != nil {
		return err
	}
	eng.MarkSaved()
	f.calls <- saveCall{drawingID: drawingID, objects: eng.Document().Len()}
	return nil
}

func newTestSession(saver Saver) *Session {
	return NewSession(NewHub(), nil, "sess_test", "drw_test", "alice", engine.NewEngine(), saver, true)
}

func pointer(t *testing.T, typ string, x, y float64) *Message {
	t.Helper()
	payload, err := json.Marshal(PointerPayload{X: x, Y: y})
	require.NoError(t, err)
	return &Message{Type: typ, Payload: payload}
}

func decodeRender(t *testing.T, msg *Message) RenderPayload {
	t.Helper()
	require.Equal(t, TypeRender, msg.Type)
	var p RenderPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &p))
	return p
}

func TestHandleDrawsShape(t *testing.T) {
	s := newTestSession(newFakeSaver())
	ctx := context.Background()

	tool, err := json.Marshal(engine.ToolSettings{Tool: engine.ToolCircle, Color: shape.Red, Width: 1})
	require.NoError(t, err)
	replies := s.handleMessage(ctx, &Message{Type: TypeToolSet, Payload: tool})
	require.Len(t, replies, 1)

	s.handleMessage(ctx, pointer(t, TypePointerDown, 50, 50))
	replies = s.handleMessage(ctx, pointer(t, TypePointerDrag, 60, 50))
	require.Len(t, replies, 1)
	preview := decodeRender(t, replies[0])
	require.Len(t, preview.Commands, 1)
	assert.Equal(t, engine.OpCircle, preview.Commands[0].Op)
	assert.Empty(t, preview.Commands[0].ObjectID, "preview has no object yet")

	replies = s.handleMessage(ctx, &Message{Type: TypePointerUp})
	state := decodeRender(t, replies[0])
	require.Len(t, state.Commands, 1)
	assert.NotEmpty(t, state.Commands[0].ObjectID)
	assert.True(t, state.Modified)
}

func TestHandleSelectAndDelete(t *testing.T) {
	s := newTestSession(newFakeSaver())
	ctx := context.Background()

	s.engine.SetToolSettings(engine.ToolSettings{Tool: engine.ToolRect, Color: shape.Black, Width: 1})
	require.NoError(t, s.engine.PointerDown(geom.Pt(0, 0)))
	require.NoError(t, s.engine.PointerDrag(geom.Pt(40, 40)))
	require.NoError(t, s.engine.PointerUp())

	tool, err := json.Marshal(engine.ToolSettings{Tool: engine.ToolTransform, Color: shape.Black, Width: 1})
	require.NoError(t, err)
	s.handleMessage(ctx, &Message{Type: TypeToolSet, Payload: tool})

	replies := s.handleMessage(ctx, pointer(t, TypePointerDown, 20, 20))
	state := decodeRender(t, replies[0])
	assert.NotEmpty(t, state.Selection)

	s.handleMessage(ctx, &Message{Type: TypePointerUp})
	replies = s.handleMessage(ctx, &Message{Type: TypeSelectionDelete})
	state = decodeRender(t, replies[0])
	assert.Empty(t, state.Selection)
	assert.Empty(t, state.Commands)
}

func TestHandleSave(t *testing.T) {
	saver := newFakeSaver()
	s := newTestSession(saver)
	ctx := context.Background()

	s.handleMessage(ctx, &Message{Type: TypeDocClear})
	replies := s.handleMessage(ctx, &Message{Type: TypeDocSave})
	require.Len(t, replies, 2)
	assert.Equal(t, TypeSaved, replies[0].Type)
	assert.False(t, decodeRender(t, replies[1]).Modified)

	call := <-saver.calls
	assert.Equal(t, "drw_test", call.drawingID)
}

func TestHandleErrors(t *testing.T) {
	saver := newFakeSaver()
	saver.err = errors.New("disk full")
	s := newTestSession(saver)
	ctx := context.Background()

	tests := []struct {
		name string
		msg  *Message
	}{
		{"unknown type", &Message{Type: "bogus"}},
		{"bad pointer", &Message{Type: TypePointerDown, Payload: json.RawMessage(`"x"`)}},
		{"bad tool", &Message{Type: TypeToolSet, Payload: json.RawMessage(`{"tool":"Brush"}`)}},
		{"save failure", &Message{Type: TypeDocSave}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replies := s.handleMessage(ctx, tt.msg)
			require.NotEmpty(t, replies)
			assert.Equal(t, TypeError, replies[0].Type)
		})
	}
}

func TestHubOneSessionPerDrawing(t *testing.T) {
	hub := NewHub()
	a := NewSession(hub, nil, "sess_a", "drw_1", "alice", engine.NewEngine(), newFakeSaver(), false)
	b := NewSession(hub, nil, "sess_b", "drw_1", "alice", engine.NewEngine(), newFakeSaver(), false)

	require.NoError(t, hub.Register(a))
	assert.ErrorIs(t, hub.Register(b), ErrDrawingBusy)
	assert.True(t, hub.Busy("drw_1"))

	hub.Unregister(b)
	assert.Equal(t, 1, hub.Len(), "unregistering a rejected session keeps the owner")

	hub.Unregister(a)
	assert.False(t, hub.Busy("drw_1"))
	hub.Stop()
	assert.ErrorIs(t, hub.Register(a), ErrHubStopped)
}

func TestWebsocketSessionAutosaves(t *testing.T) {
	hub := NewHub()
	saver := newFakeSaver()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		sess := NewSession(hub, conn, "sess_ws", "drw_ws", "alice", engine.NewEngine(), saver, true)
		if err := hub.Register(sess); err != nil {
			conn.Close(websocket.StatusPolicyViolation, err.Error())
			return
		}
		go sess.WritePump(r.Context())
		sess.ReadPump(r.Context())
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	var msg Message
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, TypeWelcome, msg.Type)
	assert.Equal(t, "sess_ws", msg.SessionID)
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, TypeRender, msg.Type)

	for _, m := range []*Message{
		pointer(t, TypePointerDown, 10, 10),
		pointer(t, TypePointerDrag, 20, 20),
		{Type: TypePointerUp},
	} {
		require.NoError(t, wsjson.Write(ctx, conn, m))
		require.NoError(t, wsjson.Read(ctx, conn, &msg))
		assert.Equal(t, TypeRender, msg.Type)
	}

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))

	select {
	case call := <-saver.calls:
		assert.Equal(t, "drw_ws", call.drawingID)
		assert.Equal(t, 1, call.objects)
	case <-ctx.Done():
		t.Fatal("session was not autosaved")
	}
}
