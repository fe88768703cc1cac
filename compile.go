package mesh

import (
	"go.uber.org/zap"

	"github.com/LHTXQ/mujoco-deepmind/hull"
	"github.com/LHTXQ/mujoco-deepmind/scene"
	"github.com/LHTXQ/mujoco-deepmind/vfs"
)

// Compile is the terminal operation on a Mesh: once it returns
// successfully, Processed is true and the mesh is read-only from the
// simulator's perspective.
//
// kernel selects the convex-hull geometric kernel; pass nil to use
// hull.DefaultKernel. log receives phase-transition and warning messages;
// pass nil to suppress logging (a no-op logger is installed automatically).
func (m *Mesh) Compile(fs vfs.FS, graph scene.Graph, kernel hull.Kernel, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if kernel == nil {
		kernel = hull.DefaultKernel{}
	}
	def := graph.Defaults()

	log.Debug("compile: start", zap.String("mesh", m.ID))

	// (1) read from file, if any
	if m.File != "" {
		if err := m.readFile(fs, def); err != nil {
			return err
		}
	}

	// (2) ingest user-staging arrays
	if err := m.ingestUserArrays(); err != nil {
		return err
	}

	// if faces were supplied without edges, synthesize them now
	if len(m.edges) == 0 && len(m.Face) > 0 {
		m.synthesizeEdgesFromFaces()
	}

	// (3) sort edges, detect first duplicate directed half-edge
	m.auditOrientation()

	// (4) require vert nonempty
	if len(m.Vert) == 0 {
		return newErr(MissingData, m.ID, "mesh has no vertices after ingestion")
	}

	// (5) build hull if requested or if faces are missing
	needHull := m.wantHull || len(m.Face) == 0
	if needHull {
		log.Debug("compile: building hull", zap.String("mesh", m.ID), zap.Int("nvert", len(m.Vert)))
		if err := m.buildHull(kernel, log); err != nil {
			return err
		}
	}

	// (6) copy hull -> face if faces are missing
	if len(m.Face) == 0 {
		if m.Graph == nil {
			return newErr(MissingData, m.ID, "mesh has no faces and hull construction failed")
		}
		m.Face = m.Graph.facesAsTri()
	}

	// (7) synthesize normals if missing
	if len(m.Normal) == 0 {
		if err := m.makeNormal(); err != nil {
			return err
		}
	}

	// (8) ingest userfacenormal/userfacetexcoord
	if err := m.ingestUserFaceIndirection(); err != nil {
		return err
	}

	// (9) alias facenormal to face if still absent
	if len(m.FaceNormal) == 0 {
		m.FaceNormal = append([]Tri(nil), m.Face...)
	}

	// (10) Process
	log.Debug("compile: processing mass properties", zap.String("mesh", m.ID))
	if err := m.process(def.Density, def.ExactMeshInertia); err != nil {
		return err
	}

	// (11) mark processed
	m.Processed = true
	log.Debug("compile: done", zap.String("mesh", m.ID))
	return nil
}

func (m *Mesh) readFile(fs vfs.FS, def scene.Defaults) error {
	buf, err := vfs.Resolve(fs, def.ModelFileDir, def.MeshDir, m.File)
	if err != nil {
		return wrapErr(FileNotFound, m.ID, err, "could not resolve mesh file %q", m.File)
	}
	if len(buf.Bytes()) == 0 {
		return newErr(EmptyFile, m.ID, "mesh file %q is empty", m.File)
	}

	switch ext(m.File) {
	case "stl":
		return m.loadSTL(buf.Bytes())
	case "obj":
		return m.loadOBJ(buf.Bytes())
	case "msh":
		return m.loadMSH(buf.Bytes())
	default:
		return newErr(FormatInvalid, m.ID, "unrecognized mesh file extension for %q", m.File)
	}
}

func ext(path string) string {
	dot := -1
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			dot = i
			break
		}
		if path[i] == '/' {
			break
		}
	}
	if dot < 0 {
		return ""
	}
	out := path[dot+1:]
	lower := make([]byte, len(out))
	for i := 0; i < len(out); i++ {
		c := out[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		lower[i] = c
	}
	return string(lower)
}

