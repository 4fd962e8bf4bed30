package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/inamate/paint/internal/document"
	"github.com/inamate/paint/internal/geom"
	"github.com/inamate/paint/internal/paintfile"
)

// Engine is one editing session over a document. It turns pointer events
// into new shapes or transformation changes and produces draw commands.
//
// An Engine is not safe for concurrent use; the host delivers events one
// at a time.
type Engine struct {
	doc      *document.Document
	settings ToolSettings

	creator   ShapeCreator
	selection *SelectionBox

	handleSize float64
	pressed    bool
	modified   bool

	logger *slog.Logger
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithHandleSize(size float64) Option {
	return func(e *Engine) {
		if size > 0 {
			e.handleSize = size
		}
	}
}

func WithDocument(doc *document.Document) Option {
	return func(e *Engine) { e.doc = doc }
}

// NewEngine creates an engine over an empty document with default tool settings.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		doc:        document.New(),
		settings:   DefaultToolSettings(),
		handleSize: DefaultHandleSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --- Input events ---

// PointerDown starts a shape with a drawing tool, or picks a drag target
// with the Transform tool. Pressing on an unselected object selects it and
// starts moving it; pressing on empty canvas clears the selection.
func (e *Engine) PointerDown(p geom.Point) error {
	e.pressed = true

	if e.settings.Tool != ToolTransform {
		if err := e.creator.Start(e.settings, p); err != nil {
			e.logger.Error("start shape", "tool", e.settings.Tool, "error", err)
			return err
		}
		return nil
	}

	if e.selection != nil && e.selection.Valid() {
		target, err := e.selection.StartDragIfClicked(p)
		if err != nil {
			return err
		}
		if target != DragNone {
			return nil
		}
	}

	obj := HitTest(e.doc, p)
	if obj == nil {
		e.selection = nil
		return nil
	}

	e.selection = NewSelectionBox(e.doc, obj.ID, e.handleSize)
	_, err := e.selection.StartDragIfClicked(p)
	return err
}

// PointerDrag extends the current shape or drag. Moves without a press
// are ignored.
func (e *Engine) PointerDrag(p geom.Point) error {
	if !e.pressed {
		return nil
	}

	switch {
	case e.creator.IsCreating():
		return e.creator.Update(p)
	case e.selection != nil && e.selection.IsDragging():
		if err := e.selection.Drag(p); err != nil {
			e.logger.Error("drag selection", "target", e.selection.Target(), "error", err)
			return err
		}
		e.modified = true
	}
	return nil
}

// PointerUp commits a shape in progress and ends any drag.
func (e *Engine) PointerUp() error {
	if !e.pressed {
		return nil
	}
	e.pressed = false

	if e.selection != nil {
		e.selection.FinishDrag()
	}

	if !e.creator.IsCreating() {
		return nil
	}

	obj, err := e.creator.FinishAndGenerateObject()
	if err != nil {
		return err
	}
	e.doc.Append(obj)
	e.modified = true
	e.logger.Debug("object created", "id", obj.ID, "kind", obj.Kind())
	return nil
}

// PointerLeave behaves like PointerUp.
func (e *Engine) PointerLeave() error {
	return e.PointerUp()
}

// --- Commands ---

// SetToolSettings replaces the tool settings. Switching to a drawing tool
// drops the selection.
func (e *Engine) SetToolSettings(settings ToolSettings) {
	if settings.Width < 1 {
		settings.Width = 1
	}
	e.settings = settings
	if settings.Tool != ToolTransform {
		e.selection = nil
	}
}

func (e *Engine) ToolSettings() ToolSettings {
	return e.settings
}

// Select makes the object with the given id the selection.
func (e *Engine) Select(id string) error {
	if e.doc.Lookup(id) == nil {
		return fmt.Errorf("select %s: %w", id, ErrSelectionGone)
	}
	e.selection = NewSelectionBox(e.doc, id, e.handleSize)
	return nil
}

func (e *Engine) Deselect() {
	e.selection = nil
}

// Selection returns the id of the selected object.
func (e *Engine) Selection() (string, bool) {
	if e.selection == nil || !e.selection.Valid() {
		return "", false
	}
	return e.selection.ObjectID(), true
}

// Handles returns the selection handles in screen space.
func (e *Engine) Handles() (Handles, bool) {
	if e.selection == nil {
		return Handles{}, false
	}
	h, err := e.selection.Handles()
	if err != nil {
		return Handles{}, false
	}
	return h, true
}

// SelectionBounds returns the screen-space box around the selection.
func (e *Engine) SelectionBounds() geom.Rect {
	if e.selection == nil {
		return geom.Rect{}
	}
	obj := e.selection.Object()
	if obj == nil {
		return geom.Rect{}
	}
	return SelectionBounds(obj)
}

// HitTest returns the id of the topmost object under p, or "".
func (e *Engine) HitTest(p geom.Point) string {
	if obj := HitTest(e.doc, p); obj != nil {
		return obj.ID
	}
	return ""
}

// Clear removes every object and abandons any edit in progress.
func (e *Engine) Clear() {
	e.creator.Cancel()
	e.selection = nil
	e.pressed = false
	e.doc.Clear()
	e.modified = true
}

// DeleteSelected removes the selected object and reports whether one was removed.
func (e *Engine) DeleteSelected() bool {
	if e.selection == nil {
		return false
	}
	id := e.selection.ObjectID()
	e.selection = nil
	if !e.doc.Remove(id) {
		return false
	}
	e.modified = true
	return true
}

func (e *Engine) Document() *document.Document {
	return e.doc
}

// Modified reports whether the document changed since the last MarkSaved or Load.
func (e *Engine) Modified() bool {
	return e.modified
}

// --- Persistence ---

// Save writes the document as a paint file. It does not clear Modified:
// the caller does that with MarkSaved once the bytes are stored.
func (e *Engine) Save(w io.Writer) error {
	if err := paintfile.Encode(w, e.doc.Objects()); err != nil {
		return fmt.Errorf("save drawing: %w", err)
	}
	return nil
}

// MarkSaved clears Modified.
func (e *Engine) MarkSaved() {
	e.modified = false
}

// Load replaces the document with a paint file. On error the current
// document is left untouched.
func (e *Engine) Load(r io.Reader) error {
	objects, err := paintfile.Decode(r)
	if err != nil {
		return fmt.Errorf("load drawing: %w", err)
	}

	e.creator.Cancel()
	e.selection = nil
	e.pressed = false
	e.doc.Replace(objects)
	e.modified = false
	e.logger.Debug("drawing loaded", "objects", len(objects))
	return nil
}

// --- Queries ---

// Render returns the draw commands for the current state: the objects,
// the shape being drawn, then the selection overlay.
func (e *Engine) Render() []DrawCommand {
	commands := CompileDrawCommands(e.doc)

	if s := e.creator.InProgress(); s != nil {
		if cmd, ok := shapeCommand(s, geom.Identity()); ok {
			commands = append(commands, cmd)
		}
	}

	if e.selection != nil {
		obj := e.selection.Object()
		if obj == nil {
			e.selection = nil
		} else {
			commands = append(commands, overlayCommands(e.selection.handles(obj), e.handleSize, obj.Transform.Rotation)...)
		}
	}

	return commands
}

// RenderJSON is Render serialized for the frontend.
func (e *Engine) RenderJSON() string {
	result, err := DrawCommandsToJSON(e.Render())
	if err != nil {
		e.logger.Error("encode draw commands", "error", err)
	}
	return result
}
