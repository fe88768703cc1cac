// Package objparser scans Wavefront OBJ text into raw vertex, normal,
// texcoord, and per-shape face data, leaving triangulation and winding
// decisions to the caller.
package objparser

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// FaceVertex is one corner of a face record: 0-based indices into
// Vertices/Normals/Texcoords, or -1 when that channel was not given for
// this corner.
type FaceVertex struct {
	Vertex, Texcoord, Normal int
}

// Shape is one named/grouped run of faces, matching Wavefront's "o"/"g"
// grouping. Faces may be triangles or quads; the caller (package mesh)
// triangulates them.
type Shape struct {
	Name  string
	Faces [][]FaceVertex
}

// Result is the parser's full output.
type Result struct {
	Vertices  [][3]float64
	Normals   [][3]float64
	Texcoords [][2]float64
	Shapes    []Shape
}

// Parse scans b as Wavefront OBJ text. Unknown record types are skipped
// silently, matching the original's documented behavior of only caring
// about v/vn/vt/f/o/g records.
func Parse(b []byte) (Result, error) {
	var res Result
	cur := Shape{Name: "default"}
	haveShape := false

	scanner := bufio.NewScanner(bytes.NewReader(b))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return Result{}, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			res.Vertices = append(res.Vertices, [3]float64{v[0], v[1], v[2]})

		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return Result{}, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			res.Normals = append(res.Normals, [3]float64{v[0], v[1], v[2]})

		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return Result{}, fmt.Errorf("line %d: texcoord: %w", lineNo, err)
			}
			res.Texcoords = append(res.Texcoords, [2]float64{v[0], v[1]})

		case "o", "g":
			if haveShape {
				res.Shapes = append(res.Shapes, cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = Shape{Name: name}
			haveShape = true

		case "f":
			if !haveShape {
				haveShape = true
			}
			face := make([]FaceVertex, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				fv, err := parseFaceVertex(tok)
				if err != nil {
					return Result{}, fmt.Errorf("line %d: face: %w", lineNo, err)
				}
				face = append(face, fv)
			}
			if len(face) != 3 && len(face) != 4 {
				return Result{}, fmt.Errorf("line %d: face has %d vertices, want 3 or 4", lineNo, len(face))
			}
			cur.Faces = append(cur.Faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, err
	}

	if haveShape {
		res.Shapes = append(res.Shapes, cur)
	}

	return res, nil
}

func parseFloats(toks []string, want int) ([]float64, error) {
	if len(toks) < want {
		return nil, fmt.Errorf("expected %d components, got %d", want, len(toks))
	}
	out := make([]float64, want)
	for i := 0; i < want; i++ {
		v, err := strconv.ParseFloat(toks[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseFaceVertex parses a single OBJ face token: v, v/vt, v//vn, or
// v/vt/vn, 1-indexed, converting to 0-indexed with -1 for absent channels.
func parseFaceVertex(tok string) (FaceVertex, error) {
	parts := strings.Split(tok, "/")
	fv := FaceVertex{Vertex: -1, Texcoord: -1, Normal: -1}

	v, err := strconv.Atoi(parts[0])
	if err != nil {
		return fv, err
	}
	fv.Vertex = v - 1

	if len(parts) > 1 && parts[1] != "" {
		vt, err := strconv.Atoi(parts[1])
		if err != nil {
			return fv, err
		}
		fv.Texcoord = vt - 1
	}

	if len(parts) > 2 && parts[2] != "" {
		vn, err := strconv.Atoi(parts[2])
		if err != nil {
			return fv, err
		}
		fv.Normal = vn - 1
	}

	return fv, nil
}
