package mesh

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// GeomType selects which primitive shape FitGeom sizes.
type GeomType int

const (
	GeomSphere GeomType = iota
	GeomCapsule
	GeomCylinder
	GeomEllipsoid
	GeomBox
)

// Geom is the minimal sizeable-primitive shape FitGeom writes into,
// standing in for the owning scene graph's own geom record.
type Geom struct {
	Type     GeomType
	Size     vec3.T
	FitScale float64
}

// FitGeom sizes a primitive geom from either the inertia box (fitAABB
// false) or the AABB (fitAABB true), and returns the geom's mesh-frame
// offset. The inertia-box branch is a direct per-type copy/average of
// boxsz; the AABB branch recenters on the AABB midpoint, measures sphere,
// capsule and cylinder extents by scanning every vertex (capsule getting
// an extra pass that subtracts the spherical cap height from its
// half-length), and takes ellipsoid and box extents from the AABB itself.
func (m *Mesh) FitGeom(geom *Geom, typ Type, fitAABB bool) (vec3.T, error) {
	if !m.Processed {
		return vec3.T{}, newErr(MissingData, m.ID, "FitGeom called before Compile succeeded")
	}

	meshpos, _ := m.PosPtr(typ)

	scale := geom.FitScale
	if scale == 0 {
		scale = 1
	}

	if !fitAABB {
		boxsz, err := m.InertiaBoxPtr(typ)
		if err != nil {
			return vec3.T{}, err
		}
		switch geom.Type {
		case GeomSphere:
			geom.Size[0] = (boxsz[0] + boxsz[1] + boxsz[2]) / 3
		case GeomCapsule:
			geom.Size[0] = (boxsz[0] + boxsz[1]) / 2
			geom.Size[1] = math.Max(0, boxsz[2]-geom.Size[0]/2)
		case GeomCylinder:
			geom.Size[0] = (boxsz[0] + boxsz[1]) / 2
			geom.Size[1] = boxsz[2]
		case GeomEllipsoid, GeomBox:
			geom.Size = boxsz
		default:
			return vec3.T{}, newErr(FormatInvalid, m.ID, "invalid geom type in FitGeom")
		}
		geom.Size.Scale(scale)
		return meshpos, nil
	}

	cen := vec3.T{
		(m.AABBMin[0] + m.AABBMax[0]) / 2,
		(m.AABBMin[1] + m.AABBMax[1]) / 2,
		(m.AABBMin[2] + m.AABBMax[2]) / 2,
	}
	meshpos.Add(&cen)

	switch geom.Type {
	case GeomSphere:
		var r float64
		for _, v := range m.Vert {
			r = math.Max(r, vec3.Distance(&v, &cen))
		}
		geom.Size[0] = r

	case GeomCapsule, GeomCylinder:
		var rxy, hz float64
		for _, v := range m.Vert {
			dxy := math.Hypot(v[0]-cen[0], v[1]-cen[1])
			rxy = math.Max(rxy, dxy)
			hz = math.Max(hz, math.Abs(v[2]-cen[2]))
		}
		geom.Size[0] = rxy
		geom.Size[1] = hz

		if geom.Type == GeomCapsule {
			half := 0.0
			for _, v := range m.Vert {
				dxy := math.Hypot(v[0]-cen[0], v[1]-cen[1])
				dz := math.Abs(v[2] - cen[2])
				h := geom.Size[0] * math.Sin(math.Acos(dxy/geom.Size[0]))
				half = math.Max(half, dz-h)
			}
			geom.Size[1] = half
		}

	case GeomEllipsoid, GeomBox:
		geom.Size[0] = m.AABBMax[0] - cen[0]
		geom.Size[1] = m.AABBMax[1] - cen[1]
		geom.Size[2] = m.AABBMax[2] - cen[2]

	default:
		return vec3.T{}, newErr(FormatInvalid, m.ID, "invalid geom type in FitGeom")
	}

	geom.Size.Scale(scale)
	return meshpos, nil
}
