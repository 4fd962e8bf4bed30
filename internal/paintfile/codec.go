// Package paintfile reads and writes .paint files: a ZIP archive holding
// a single XML document that lists the drawing's objects.
package paintfile

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/inamate/paint/internal/document"
	"github.com/inamate/paint/internal/shape"
)

// EntryName is the archive entry holding the XML document.
const EntryName = "paintdocument.xml"

// MaxEntrySize bounds the decompressed XML document. Larger entries are
// rejected as malformed.
const MaxEntrySize = 64 << 20

// Encode writes objects as a current-version paint file.
func Encode(w io.Writer, objects []*document.CanvasObject) error {
	return writeTree(w, BuildTree(objects))
}

// EncodeLegacy writes shapes in the unversioned format without
// per-object transformations.
func EncodeLegacy(w io.Writer, shapes []shape.Shape) error {
	return writeTree(w, BuildLegacyTree(shapes))
}

// Decode reads a paint file of any supported version.
func Decode(r io.Reader) ([]*document.CanvasObject, error) {
	tree, err := ReadTree(r)
	if err != nil {
		return nil, err
	}
	return tree.CanvasObjects()
}

// Marshal is Encode into a byte slice.
func Marshal(objects []*document.CanvasObject) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, objects); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal is Decode from a byte slice.
func Unmarshal(data []byte) ([]*document.CanvasObject, error) {
	return Decode(bytes.NewReader(data))
}

func writeTree(w io.Writer, tree *Tree) error {
	zw := zip.NewWriter(w)

	entry, err := zw.Create(EntryName)
	if err != nil {
		return fmt.Errorf("create %s: %w", EntryName, err)
	}

	if _, err := io.WriteString(entry, xml.Header); err != nil {
		return fmt.Errorf("write %s: %w", EntryName, err)
	}
	enc := xml.NewEncoder(entry)
	enc.Indent("", "  ")
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("encode %s: %w", EntryName, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

// ReadTree reads the XML tree out of a paint file without converting it.
func ReadTree(r io.Reader) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read paint file: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %v", ErrMalformed, err)
	}

	for _, f := range zr.File {
		if f.Name == EntryName {
			return readEntry(f)
		}
	}
	return nil, ErrMissingEntry
}

func readEntry(f *zip.File) (tree *Tree, err error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", EntryName, err)
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			tree, err = nil, fmt.Errorf("close %s: %w", EntryName, cerr)
		}
	}()

	return decodeTree(rc, MaxEntrySize)
}

// decodeTree decodes at most limit bytes of XML from r.
func decodeTree(r io.Reader, limit int64) (*Tree, error) {
	// One byte past the limit tells an oversized entry from one that fits exactly.
	lr := &io.LimitedReader{R: r, N: limit + 1}
	tree := &Tree{}
	err := xml.NewDecoder(lr).Decode(tree)
	if lr.N <= 0 {
		return nil, fmt.Errorf("%w: %s larger than %d bytes", ErrMalformed, EntryName, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, EntryName, err)
	}
	return tree, nil
}
