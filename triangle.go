package mesh

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/LHTXQ/mujoco-deepmind/internal"
)

// sqrtMinVal is the degenerate-triangle area threshold.
var sqrtMinVal = math.Sqrt(internal.MinVal)

// triangleAreaCenterNormal computes a triangle's area, centroid, and unit
// normal via cross product in a single pass, so callers don't recompute
// the cross product twice.
func triangleAreaCenterNormal(a, b, c vec3.T) (area float64, center, normal vec3.T) {
	e1 := vec3.Sub(&b, &a)
	e2 := vec3.Sub(&c, &a)
	n := vec3.Cross(&e1, &e2)
	length := n.Length()

	area = 0.5 * length
	if length > internal.MinVal {
		normal = n.Scaled(1 / length)
	}

	center = vec3.T{
		(a[0] + b[0] + c[0]) / 3,
		(a[1] + b[1] + c[1]) / 3,
		(a[2] + b[2] + c[2]) / 3,
	}

	return area, center, normal
}
