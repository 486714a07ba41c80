package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/LopeWale/TailorMode-sub000/pkg/geometry"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50
)

// ParseSTL reads an STL file and returns an indexed mesh with the given
// meters-per-unit scale. ASCII and binary files are both accepted.
func ParseSTL(filename string, scale float64) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	m, err := ReadSTL(file, info.Size())
	if err != nil {
		return nil, err
	}
	m.Scale = scale
	return m, nil
}

// ReadSTL parses STL data of the given size from r. Files whose header starts
// with "solid" are still read as binary when the size matches the binary
// layout, since some exporters write that prefix into binary headers.
func ReadSTL(r io.Reader, size int64) (*Mesh, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(stlHeaderSize + 4)
	if err != nil && len(head) < 5 {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}

	if strings.HasPrefix(string(head), "solid") && !looksBinary(head, size) {
		return parseASCII(br)
	}
	return parseBinary(br)
}

func looksBinary(head []byte, size int64) bool {
	if len(head) < stlHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(head[stlHeaderSize:])
	return int64(stlHeaderSize+4)+int64(count)*stlTriangleSize == size
}

// builder welds identical vertex positions into one indexed vertex
type builder struct {
	mesh  *Mesh
	index map[geometry.Vector3]uint32
}

func newBuilder() *builder {
	return &builder{
		mesh:  &Mesh{Scale: 1},
		index: make(map[geometry.Vector3]uint32),
	}
}

func (b *builder) vertex(p geometry.Vector3) uint32 {
	if idx, ok := b.index[p]; ok {
		return idx
	}
	idx := uint32(b.mesh.VertexCount())
	b.mesh.Vertices = append(b.mesh.Vertices, p.X, p.Y, p.Z)
	b.index[p] = idx
	return idx
}

func (b *builder) triangle(v1, v2, v3 geometry.Vector3) {
	b.mesh.Indices = append(b.mesh.Indices, b.vertex(v1), b.vertex(v2), b.vertex(v3))
}

// parseASCII parses an ASCII STL stream
func parseASCII(reader io.Reader) (*Mesh, error) {
	scanner := bufio.NewScanner(reader)
	b := newBuilder()

	var vertices []geometry.Vector3
	line := 0

	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				b.mesh.Name = strings.Join(fields[1:], " ")
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			p, err := parseCoords(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vertices = append(vertices, p)

		case "endfacet":
			if len(vertices) == 3 {
				b.triangle(vertices[0], vertices[1], vertices[2])
			}
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return b.mesh, nil
}

func parseCoords(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("invalid coordinate %q: %w", f, err)
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// parseBinary parses a binary STL stream
func parseBinary(reader io.Reader) (*Mesh, error) {
	b := newBuilder()

	header := make([]byte, stlHeaderSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	b.mesh.Name = string(bytes.TrimRight(header, "\x00 "))

	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	// normal, three vertices, attribute byte count
	var record struct {
		Normal    [3]float32
		V         [3][3]float32
		Attribute uint16
	}
	for i := uint32(0); i < triangleCount; i++ {
		if err := binary.Read(reader, binary.LittleEndian, &record); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}
		b.triangle(toVector(record.V[0]), toVector(record.V[1]), toVector(record.V[2]))
	}

	return b.mesh, nil
}

func toVector(v [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(v[0]), float64(v[1]), float64(v[2]))
}

// WriteBinarySTL writes the mesh as a binary STL stream. Coordinates are
// written in mesh units; the scale is not stored by the format.
func WriteBinarySTL(w io.Writer, m *Mesh) error {
	header := make([]byte, stlHeaderSize)
	copy(header, m.Name)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i := 0; i < m.TriangleCount(); i++ {
		tri, ok := m.Triangle(i)
		if !ok {
			return fmt.Errorf("triangle %d references a missing vertex", i)
		}
		record := struct {
			Normal    [3]float32
			V         [3][3]float32
			Attribute uint16
		}{
			Normal: toFloat32(tri.Normal),
			V:      [3][3]float32{toFloat32(tri.V1), toFloat32(tri.V2), toFloat32(tri.V3)},
		}
		if err := binary.Write(w, binary.LittleEndian, &record); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}
	return nil
}

// WriteASCIISTL writes the mesh as an ASCII STL stream
func WriteASCIISTL(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", m.Name)
	for i := 0; i < m.TriangleCount(); i++ {
		tri, ok := m.Triangle(i)
		if !ok {
			return fmt.Errorf("triangle %d references a missing vertex", i)
		}
		fmt.Fprintf(bw, "  facet normal %g %g %g\n    outer loop\n", tri.Normal.X, tri.Normal.Y, tri.Normal.Z)
		for _, v := range []geometry.Vector3{tri.V1, tri.V2, tri.V3} {
			fmt.Fprintf(bw, "      vertex %.9g %.9g %.9g\n", v.X, v.Y, v.Z)
		}
		fmt.Fprint(bw, "    endloop\n  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", m.Name)
	return bw.Flush()
}

func toFloat32(v geometry.Vector3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
