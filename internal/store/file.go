package store

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	contentExt = ".paint"
	metaExt    = ".json"
)

// FileStore keeps each drawing as <id>.paint with a <id>.json sidecar.
type FileStore struct {
	dir string
	mu  sync.RWMutex
	now func() time.Time
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

func (s *FileStore) List(ctx context.Context, ownerID string) ([]Drawing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}

	drawings := []Drawing{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, ok := strings.CutSuffix(entry.Name(), metaExt)
		if !ok || entry.IsDir() {
			continue
		}
		d, err := s.readMeta(id)
		if err != nil {
			return nil, err
		}
		if d.OwnerID == ownerID {
			drawings = append(drawings, *d)
		}
	}

	slices.SortFunc(drawings, func(a, b Drawing) int {
		return cmp.Or(b.UpdatedAt.Compare(a.UpdatedAt), strings.Compare(a.ID, b.ID))
	})
	return drawings, nil
}

func (s *FileStore) Get(_ context.Context, id string) (*Drawing, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readMeta(id)
}

func (s *FileStore) Content(_ context.Context, id string) ([]byte, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(id, contentExt))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read drawing %s: %w", id, err)
	}
	return data, nil
}

func (s *FileStore) Create(_ context.Context, d Drawing, content []byte) error {
	if err := checkID(d.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(d.ID, metaExt)); err == nil {
		return ErrExists
	}

	now := s.now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	if err := s.writeFile(d.ID, contentExt, content); err != nil {
		return err
	}
	return s.writeMeta(&d)
}

func (s *FileStore) Save(_ context.Context, id string, content []byte, objectCount int) error {
	if err := checkID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.readMeta(id)
	if err != nil {
		return err
	}
	if err := s.writeFile(id, contentExt, content); err != nil {
		return err
	}
	d.ObjectCount = objectCount
	d.UpdatedAt = s.now().UTC()
	return s.writeMeta(d)
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(id, metaExt))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete drawing %s: %w", id, err)
	}
	if err := os.Remove(s.path(id, contentExt)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete drawing %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) path(id, ext string) string {
	return filepath.Join(s.dir, id+ext)
}

func (s *FileStore) readMeta(id string) (*Drawing, error) {
	data, err := os.ReadFile(s.path(id, metaExt))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read drawing %s: %w", id, err)
	}

	var d Drawing
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode drawing %s: %w", id, err)
	}
	return &d, nil
}

func (s *FileStore) writeMeta(d *Drawing) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode drawing %s: %w", d.ID, err)
	}
	return s.writeFile(d.ID, metaExt, data)
}

// writeFile replaces a file through a rename so readers never see a
// partial write.
func (s *FileStore) writeFile(id, ext string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, id+ext+".*.tmp")
	if err != nil {
		return fmt.Errorf("write drawing %s: %w", id, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write drawing %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write drawing %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), s.path(id, ext)); err != nil {
		return fmt.Errorf("write drawing %s: %w", id, err)
	}
	return nil
}

// checkID keeps ids from escaping the data directory.
func checkID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\.`) {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}
