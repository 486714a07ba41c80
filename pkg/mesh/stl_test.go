package mesh

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LopeWale/TailorMode-sub000/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tetraASCII = `solid tetra
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 -1 0
    outer loop
      vertex 0 0 0
      vertex 0 0 1
      vertex 1 0 0
    endloop
  endfacet
  facet normal -1 0 0
    outer loop
      vertex 0 0 0
      vertex 0 1 0
      vertex 0 0 1
    endloop
  endfacet
  facet normal 1 1 1
    outer loop
      vertex 1 0 0
      vertex 0 0 1
      vertex 0 1 0
    endloop
  endfacet
endsolid tetra
`

func TestReadSTLASCIIWeldsVertices(t *testing.T) {
	m, err := ReadSTL(strings.NewReader(tetraASCII), int64(len(tetraASCII)))
	require.NoError(t, err)

	assert.Equal(t, "tetra", m.Name)
	assert.Equal(t, 4, m.TriangleCount())
	assert.Equal(t, 4, m.VertexCount(), "shared corners are welded")
	assert.NoError(t, m.Validate())
}

func TestReadSTLASCIIBadCoordinate(t *testing.T) {
	data := strings.Replace(tetraASCII, "vertex 1 0 0", "vertex 1 x 0", 1)
	_, err := ReadSTL(strings.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}

func TestBinaryRoundTrip(t *testing.T) {
	cyl := NewCylinder(geometry.Vector3{}, geometry.NewVector3(0, 1, 0), 0.15, 1.0, 32, 1)
	cyl.Name = "cylinder"

	var buf bytes.Buffer
	require.NoError(t, WriteBinarySTL(&buf, cyl))
	assert.Equal(t, 84+50*cyl.TriangleCount(), buf.Len())

	parsed, err := ReadSTL(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	assert.Equal(t, "cylinder", parsed.Name)
	assert.Equal(t, cyl.TriangleCount(), parsed.TriangleCount())
	assert.Equal(t, cyl.VertexCount(), parsed.VertexCount())

	want := SlicePerimeter(ExtractHorizontalSlice(cyl, 0.5))
	got := SlicePerimeter(ExtractHorizontalSlice(parsed, 0.5))
	assert.InDelta(t, want, got, 1e-6, "float32 storage keeps the section")
}

func TestBinaryWithSolidHeader(t *testing.T) {
	cyl := NewCylinder(geometry.Vector3{}, geometry.NewVector3(0, 1, 0), 0.1, 1.0, 8, 1)
	cyl.Name = "solid exported by a binary writer"

	var buf bytes.Buffer
	require.NoError(t, WriteBinarySTL(&buf, cyl))

	parsed, err := ReadSTL(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, cyl.TriangleCount(), parsed.TriangleCount())
}

func TestASCIIRoundTrip(t *testing.T) {
	cyl := NewCylinder(geometry.Vector3{}, geometry.NewVector3(0, 1, 0), 0.15, 1.0, 24, 1)
	cyl.Name = "ring"

	var buf bytes.Buffer
	require.NoError(t, WriteASCIISTL(&buf, cyl))

	parsed, err := ReadSTL(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, cyl.TriangleCount(), parsed.TriangleCount())
	assert.Equal(t, cyl.VertexCount(), parsed.VertexCount())
}

func TestParseSTLSetsScale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetra.stl")
	require.NoError(t, os.WriteFile(path, []byte(tetraASCII), 0o644))

	m, err := ParseSTL(path, 0.001)
	require.NoError(t, err)
	assert.Equal(t, 0.001, m.Scale)
	assert.InDelta(t, 100.0, m.ToCentimeters(1000), 1e-9)
}

func TestParseSTLMissingFile(t *testing.T) {
	_, err := ParseSTL(filepath.Join(t.TempDir(), "missing.stl"), 1)
	assert.Error(t, err)
}
