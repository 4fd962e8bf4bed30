package paintfile

import (
	"archive/zip"
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/paint/internal/document"
	"github.com/inamate/paint/internal/geom"
	"github.com/inamate/paint/internal/shape"
)

const tol = 1e-9

func zipped(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func entryText(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, EntryName, zr.File[0].Name)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	text, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(text)
}

func TestCircleRoundTrip(t *testing.T) {
	in := document.NewCanvasObject(shape.Circle{Center: geom.Pt(5, 5), Radius: 3, Color: shape.Red})

	data, err := Marshal([]*document.CanvasObject{in})
	require.NoError(t, err)

	out, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, out, 1)

	c, ok := out[0].Shape().(shape.Circle)
	require.True(t, ok, "got %T", out[0].Shape())
	assert.Equal(t, geom.Pt(5, 5), c.Center)
	assert.Equal(t, 3.0, c.Radius)
	assert.Equal(t, "#FF0000", c.Color.String())
	assert.Equal(t, document.IdentityTransformation(), out[0].Transform)
}

func TestRoundTripAllKinds(t *testing.T) {
	path := document.NewCanvasObject(shape.Path{
		Points: []geom.Point{{X: 10, Y: 10}, {X: 20.5, Y: 10}, {X: 20, Y: -20.25}},
		Color:  shape.Color{R: 1, G: 2, B: 3, A: 0x80},
		Width:  3,
	})
	path.Transform = document.Transformation{TranslationX: -4, TranslationY: 7.5, Rotation: math.Pi / 3, ScaleX: 2, ScaleY: -0.5}

	rect := document.NewCanvasObject(shape.Rect{
		Bounds: geom.Rect{X: 1, Y: 2, Width: 30, Height: 40},
		Color:  shape.RGB(0x12, 0x34, 0x56),
	})
	rect.Transform.Rotation = -1.25

	circle := document.NewCanvasObject(shape.Circle{Center: geom.Pt(0.1, 0.2), Radius: 1e-3, Color: shape.White})
	circle.Transform.ScaleX = 1e-6

	in := []*document.CanvasObject{path, rect, circle}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, in))

	out, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i := range in {
		assert.Equal(t, in[i].Kind(), out[i].Kind())
		assert.Equal(t, in[i].Shape(), out[i].Shape())
		assert.Equal(t, in[i].BoundingBox(), out[i].BoundingBox())

		want, got := in[i].Transform, out[i].Transform
		assert.InDelta(t, want.TranslationX, got.TranslationX, tol)
		assert.InDelta(t, want.TranslationY, got.TranslationY, tol)
		assert.InDelta(t, want.Rotation, got.Rotation, tol)
		assert.InDelta(t, want.ScaleX, got.ScaleX, tol)
		assert.InDelta(t, want.ScaleY, got.ScaleY, tol)
	}
}

func TestEncodeLayout(t *testing.T) {
	obj := document.NewCanvasObject(shape.Path{
		Points: []geom.Point{{X: 1, Y: 2}, {X: 3.5, Y: 4}},
		Color:  shape.Black,
		Width:  2,
	})

	data, err := Marshal([]*document.CanvasObject{obj})
	require.NoError(t, err)
	text := entryText(t, data)

	assert.Contains(t, text, `<PaintDocument version="1.2">`)
	assert.Contains(t, text, `<Object type="Path" color="#000000" width="2">`)
	assert.Contains(t, text, `<Point x="1" y="2"></Point>`)
	assert.Contains(t, text, `<Point x="3.5" y="4"></Point>`)
	assert.Contains(t, text, `<Transformation translationX="0" translationY="0" rotation="0" scaleX="1" scaleY="1"></Transformation>`)
	assert.Less(t, strings.Index(text, `x="1"`), strings.Index(text, `x="3.5"`))
}

func TestDecodeToleratesChildOrder(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<PaintDocument version="1.2">
  <Object color="#00FF00" type="Path" width="1">
    <Transformation translationX="5" translationY="6" rotation="0.5" scaleX="2" scaleY="3"/>
    <Point x="1" y="1"/>
    <Point x="2" y="2"/>
    <Extra/>
    <Point x="3" y="3"/>
  </Object>
  <Object type="Circle" color="#0000ff" radius="4">
    <Transformation translationX="0" translationY="0" rotation="0" scaleX="1" scaleY="1"/>
    <Center x="7" y="8"/>
  </Object>
  <Object type="Rect" color="#FFFFFF">
    <Transformation translationX="1" translationY="1" rotation="0" scaleX="1" scaleY="1"/>
    <Rect x="50" y="50" width="-40" height="-40"/>
  </Object>
</PaintDocument>`

	out, err := Unmarshal(zipped(t, EntryName, doc))
	require.NoError(t, err)
	require.Len(t, out, 3)

	p := out[0].Shape().(shape.Path)
	assert.Equal(t, []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}, p.Points)
	assert.Equal(t, document.Transformation{TranslationX: 5, TranslationY: 6, Rotation: 0.5, ScaleX: 2, ScaleY: 3}, out[0].Transform)

	c := out[1].Shape().(shape.Circle)
	assert.Equal(t, geom.Pt(7, 8), c.Center)
	assert.Equal(t, shape.RGB(0, 0, 0xff), c.Color)

	r := out[2].Shape().(shape.Rect)
	assert.Equal(t, geom.Rect{X: 10, Y: 10, Width: 40, Height: 40}, r.Bounds, "rects are normalized on read")
}

func TestDecodeLegacy(t *testing.T) {
	shapes := []shape.Shape{
		shape.Rect{Bounds: geom.Rect{X: 1, Y: 1, Width: 2, Height: 2}, Color: shape.Red},
		shape.Path{Points: []geom.Point{{X: 0, Y: 0}, {X: 4, Y: 4}}, Color: shape.Black, Width: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeLegacy(&buf, shapes))

	text := entryText(t, buf.Bytes())
	assert.Contains(t, text, "<PaintDocument>")
	assert.NotContains(t, text, "Transformation")

	out, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i, obj := range out {
		assert.Equal(t, shapes[i], obj.Shape())
		assert.True(t, obj.Transform.IsIdentity())
	}
}

func TestDecodeVersionGate(t *testing.T) {
	const objects = `<Object type="Circle" color="#000000" radius="1"><Center x="0" y="0"/>` +
		`<Transformation translationX="9" translationY="9" rotation="0" scaleX="1" scaleY="1"/></Object>`

	tests := []struct {
		name      string
		version   string
		wantTrans bool
		wantErr   error
	}{
		{name: "unversioned ignores transformations", version: ""},
		{name: "older ignores transformations", version: ` version="1.1"`},
		{name: "current", version: ` version="1.2"`, wantTrans: true},
		{name: "current patch", version: ` version="1.2.3"`, wantTrans: true},
		{name: "newer", version: ` version="2.0"`, wantErr: ErrUnsupportedVersion},
		{name: "garbage", version: ` version="next"`, wantErr: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `<PaintDocument` + tt.version + `>` + objects + `</PaintDocument>`
			out, err := Unmarshal(zipped(t, EntryName, doc))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, out)
				return
			}
			require.NoError(t, err)
			require.Len(t, out, 1)
			assert.Equal(t, tt.wantTrans, !out[0].Transform.IsIdentity())
		})
	}
}

func TestDecodeMissingTransformationIsIdentity(t *testing.T) {
	doc := `<PaintDocument version="1.2"><Object type="Circle" color="#000000" radius="1"><Center x="0" y="0"/></Object></PaintDocument>`
	out, err := Unmarshal(zipped(t, EntryName, doc))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Transform.IsIdentity())
}

func TestDecodeErrors(t *testing.T) {
	wrap := func(object string) []byte {
		return zipped(t, EntryName, `<PaintDocument version="1.2">`+object+`</PaintDocument>`)
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "unknown type",
			data:    wrap(`<Object type="Triangle" color="#000000"/>`),
			wantErr: ErrUnknownType,
		},
		{
			name:    "missing entry",
			data:    zipped(t, "other.xml", `<PaintDocument/>`),
			wantErr: ErrMissingEntry,
		},
		{
			name:    "not a zip",
			data:    []byte("plain text"),
			wantErr: ErrMalformed,
		},
		{
			name:    "broken xml",
			data:    zipped(t, EntryName, `<PaintDocument><Object`),
			wantErr: ErrMalformed,
		},
		{
			name:    "wrong root",
			data:    zipped(t, EntryName, `<Drawing/>`),
			wantErr: ErrMalformed,
		},
		{
			name:    "missing color",
			data:    wrap(`<Object type="Circle" radius="1"><Center x="0" y="0"/></Object>`),
			wantErr: ErrMalformed,
		},
		{
			name:    "bad color",
			data:    wrap(`<Object type="Circle" color="red" radius="1"><Center x="0" y="0"/></Object>`),
			wantErr: ErrMalformed,
		},
		{
			name:    "missing radius",
			data:    wrap(`<Object type="Circle" color="#000000"><Center x="0" y="0"/></Object>`),
			wantErr: ErrMalformed,
		},
		{
			name:    "missing center",
			data:    wrap(`<Object type="Circle" color="#000000" radius="1"/>`),
			wantErr: ErrMalformed,
		},
		{
			name:    "bad number",
			data:    wrap(`<Object type="Rect" color="#000000"><Rect x="1" y="one" width="1" height="1"/></Object>`),
			wantErr: ErrMalformed,
		},
		{
			name:    "missing rect",
			data:    wrap(`<Object type="Rect" color="#000000"/>`),
			wantErr: ErrMalformed,
		},
		{
			name:    "bad point",
			data:    wrap(`<Object type="Path" color="#000000" width="1"><Point x="1"/></Object>`),
			wantErr: ErrMalformed,
		},
		{
			name:    "negative radius",
			data:    wrap(`<Object type="Circle" color="#000000" radius="-5"><Center x="10" y="10"/></Object>`),
			wantErr: ErrMalformed,
		},
		{
			name:    "negative path width",
			data:    wrap(`<Object type="Path" color="#000000" width="-1"><Point x="1" y="1"/></Object>`),
			wantErr: ErrMalformed,
		},
		{
			name:    "infinite coordinate",
			data:    wrap(`<Object type="Path" color="#000000" width="1"><Point x="Inf" y="1"/></Object>`),
			wantErr: ErrMalformed,
		},
		{
			name: "NaN translation",
			data: wrap(`<Object type="Circle" color="#000000" radius="1"><Center x="0" y="0"/>` +
				`<Transformation translationX="NaN" translationY="0" rotation="0" scaleX="1" scaleY="1"/></Object>`),
			wantErr: ErrMalformed,
		},
		{
			name: "infinite rotation",
			data: wrap(`<Object type="Circle" color="#000000" radius="1"><Center x="0" y="0"/>` +
				`<Transformation translationX="0" translationY="0" rotation="-Inf" scaleX="1" scaleY="1"/></Object>`),
			wantErr: ErrMalformed,
		},
		{
			name: "bad transformation",
			data: wrap(`<Object type="Circle" color="#000000" radius="1"><Center x="0" y="0"/>` +
				`<Transformation translationX="0" translationY="0" rotation="x" scaleX="1" scaleY="1"/></Object>`),
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Unmarshal(tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, out)
		})
	}
}

func TestNegativeScaleIsAllowed(t *testing.T) {
	doc := `<PaintDocument version="1.2">` +
		`<Object type="Circle" color="#000000" radius="1"><Center x="0" y="0"/>` +
		`<Transformation translationX="0" translationY="0" rotation="0" scaleX="-1" scaleY="1"/></Object>` +
		`</PaintDocument>`
	out, err := Unmarshal(zipped(t, EntryName, doc))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, -1.0, out[0].Transform.ScaleX)
}

func TestDecodeTreeLimit(t *testing.T) {
	doc := `<PaintDocument version="1.2">` +
		strings.Repeat(`<Object type="Path" color="#000000" width="1"><Point x="0" y="0"/></Object>`, 100) +
		`</PaintDocument>`

	_, err := decodeTree(strings.NewReader(doc), int64(len(doc)-1))
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "larger than")

	tree, err := decodeTree(strings.NewReader(doc), int64(len(doc)))
	require.NoError(t, err)
	assert.Len(t, tree.Objects, 100)
}

func TestDecodeIsAllOrNothing(t *testing.T) {
	doc := `<PaintDocument version="1.2">` +
		`<Object type="Circle" color="#000000" radius="1"><Center x="0" y="0"/></Object>` +
		`<Object type="Hexagon" color="#000000"/>` +
		`</PaintDocument>`
	out, err := Unmarshal(zipped(t, EntryName, doc))
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Contains(t, err.Error(), "object 1")
	assert.Nil(t, out)
}

func TestEmptyDocument(t *testing.T) {
	data, err := Marshal(nil)
	require.NoError(t, err)
	out, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Empty(t, out)
}
