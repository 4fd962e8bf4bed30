package session

import (
	"encoding/json"

	"github.com/inamate/paint/internal/engine"
	"github.com/inamate/paint/internal/geom"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client → server
	TypePointerDown     = "pointer.down"
	TypePointerDrag     = "pointer.drag"
	TypePointerUp       = "pointer.up"
	TypePointerLeave    = "pointer.leave"
	TypeToolSet         = "tool.set"
	TypeSelectionDelete = "selection.delete"
	TypeDocClear        = "doc.clear"
	TypeDocSave         = "doc.save"

	// Server → client
	TypeWelcome = "welcome"
	TypeRender  = "render"
	TypeSaved   = "saved"
	TypeError   = "error"
)

type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p PointerPayload) point() geom.Point {
	return geom.Pt(p.X, p.Y)
}

type WelcomePayload struct {
	SessionID string              `json:"sessionId"`
	DrawingID string              `json:"drawingId"`
	Tool      engine.ToolSettings `json:"tool"`
}

// RenderPayload is the state a client needs to redraw.
type RenderPayload struct {
	Commands  []engine.DrawCommand `json:"commands"`
	Selection string               `json:"selection,omitempty"`
	Modified  bool                 `json:"modified"`
}

type SavedPayload struct {
	Objects int `json:"objects"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
