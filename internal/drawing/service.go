package drawing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/inamate/paint/internal/engine"
	"github.com/inamate/paint/internal/paintfile"
	"github.com/inamate/paint/internal/render"
	"github.com/inamate/paint/internal/store"
	"github.com/inamate/paint/internal/typeid"
)

var (
	ErrNotFound       = errors.New("drawing not found")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidDrawing = errors.New("invalid drawing")
	ErrUnknownFormat  = errors.New("unknown render format")
	ErrDrawingOpen    = errors.New("drawing is open in an editing session")
)

// BusyChecker reports whether a drawing is open for editing.
type BusyChecker interface {
	Busy(drawingID string) bool
}

// Render formats.
const (
	FormatSVG = "svg"
	FormatPDF = "pdf"
)

type Service struct {
	store  store.Store
	canvas render.Size
	busy   BusyChecker
}

type Option func(*Service)

// WithBusyChecker makes Replace and Delete refuse drawings that are open
// for editing.
func WithBusyChecker(b BusyChecker) Option {
	return func(s *Service) { s.busy = b }
}

func NewService(s store.Store, canvas render.Size, opts ...Option) *Service {
	svc := &Service{store: s, canvas: canvas}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create stores a new empty drawing owned by ownerID.
func (s *Service) Create(ctx context.Context, name, ownerID string) (*store.Drawing, error) {
	content, err := paintfile.Marshal(nil)
	if err != nil {
		return nil, fmt.Errorf("encode empty drawing: %w", err)
	}

	d := store.Drawing{
		ID:      typeid.NewDrawingID(),
		Name:    name,
		OwnerID: ownerID,
	}
	if err := s.store.Create(ctx, d, content); err != nil {
		return nil, fmt.Errorf("create drawing: %w", err)
	}

	return s.store.Get(ctx, d.ID)
}

// Import stores an uploaded paint file as a new drawing. Legacy files are
// upgraded to the current version.
func (s *Service) Import(ctx context.Context, name, ownerID string, data []byte) (*store.Drawing, error) {
	objects, err := paintfile.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDrawing, err)
	}
	content, err := paintfile.Marshal(objects)
	if err != nil {
		return nil, fmt.Errorf("encode drawing: %w", err)
	}

	d := store.Drawing{
		ID:          typeid.NewDrawingID(),
		Name:        name,
		OwnerID:     ownerID,
		ObjectCount: len(objects),
	}
	if err := s.store.Create(ctx, d, content); err != nil {
		return nil, fmt.Errorf("import drawing: %w", err)
	}

	return s.store.Get(ctx, d.ID)
}

func (s *Service) Get(ctx context.Context, drawingID, userID string) (*store.Drawing, error) {
	return s.owned(ctx, drawingID, userID)
}

func (s *Service) List(ctx context.Context, userID string) ([]store.Drawing, error) {
	drawings, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	return drawings, nil
}

func (s *Service) Delete(ctx context.Context, drawingID, userID string) error {
	if _, err := s.owned(ctx, drawingID, userID); err != nil {
		return err
	}
	if err := s.checkNotOpen(drawingID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, drawingID); err != nil {
		return mapStoreError(err)
	}
	return nil
}

// Content returns the stored paint file.
func (s *Service) Content(ctx context.Context, drawingID, userID string) ([]byte, error) {
	if _, err := s.owned(ctx, drawingID, userID); err != nil {
		return nil, err
	}
	content, err := s.store.Content(ctx, drawingID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return content, nil
}

// Replace stores a new paint file for the drawing. Files of any readable
// version are accepted and stored in the current version.
func (s *Service) Replace(ctx context.Context, drawingID, userID string, data []byte) (*store.Drawing, error) {
	if _, err := s.owned(ctx, drawingID, userID); err != nil {
		return nil, err
	}
	if err := s.checkNotOpen(drawingID); err != nil {
		return nil, err
	}

	objects, err := paintfile.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDrawing, err)
	}
	content, err := paintfile.Marshal(objects)
	if err != nil {
		return nil, fmt.Errorf("encode drawing: %w", err)
	}

	if err := s.store.Save(ctx, drawingID, content, len(objects)); err != nil {
		return nil, mapStoreError(err)
	}
	return s.owned(ctx, drawingID, userID)
}

// Render draws the stored drawing to w as SVG or PDF.
func (s *Service) Render(ctx context.Context, drawingID, userID, format string, w io.Writer) error {
	var write func(io.Writer, render.Size, []engine.DrawCommand) error
	switch format {
	case FormatSVG:
		write = render.WriteSVG
	case FormatPDF:
		write = render.WritePDF
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	eng, err := s.Open(ctx, drawingID, userID)
	if err != nil {
		return err
	}
	return write(w, s.canvas, engine.CompileDrawCommands(eng.Document()))
}

// Open loads the drawing into a fresh editing engine.
func (s *Service) Open(ctx context.Context, drawingID, userID string, opts ...engine.Option) (*engine.Engine, error) {
	content, err := s.Content(ctx, drawingID, userID)
	if err != nil {
		return nil, err
	}

	eng := engine.NewEngine(opts...)
	if err := eng.Load(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDrawing, err)
	}
	return eng, nil
}

// SaveEngine writes the engine's document back to the drawing. The engine
// stays modified unless the store accepted the write.
func (s *Service) SaveEngine(ctx context.Context, drawingID string, eng *engine.Engine) error {
	var buf bytes.Buffer
	if err := eng.Save(&buf); err != nil {
		return err
	}
	if err := s.store.Save(ctx, drawingID, buf.Bytes(), eng.Document().Len()); err != nil {
		return mapStoreError(err)
	}
	eng.MarkSaved()
	return nil
}

func (s *Service) owned(ctx context.Context, drawingID, userID string) (*store.Drawing, error) {
	d, err := s.store.Get(ctx, drawingID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if d.OwnerID != userID {
		return nil, ErrForbidden
	}
	return d, nil
}

// checkNotOpen fails for drawings a session is editing.
func (s *Service) checkNotOpen(drawingID string) error {
	if s.busy != nil && s.busy.Busy(drawingID) {
		return ErrDrawingOpen
	}
	return nil
}

func mapStoreError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("drawing store: %w", err)
}
