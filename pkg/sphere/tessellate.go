// pkg/sphere/tessellate.go - Adaptive subdivision of long path segments
package sphere

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Tessellate inserts points into path so that no two neighbours are more
// than dMax apart under metric. Original points are kept in order and the
// inserted ones are interpolated linearly in lon/lat space, which is good
// enough for drawing. A non-positive dMax disables tessellation.
func Tessellate(path []s2.LatLng, dMax s1.Angle, metric Metric) []s2.LatLng {
	if dMax <= 0 || len(path) < 2 {
		out := make([]s2.LatLng, len(path))
		copy(out, path)
		return out
	}

	out := make([]s2.LatLng, 0, len(path))
	for i := 0; i < len(path)-1; i++ {
		p1, p2 := path[i], path[i+1]
		d := metric(p1, p2)
		if d <= dMax {
			out = append(out, p1)
			continue
		}
		k := int(math.Ceil(float64(d / dMax)))
		dLng := (p2.Lng - p1.Lng) / s1.Angle(k)
		dLat := (p2.Lat - p1.Lat) / s1.Angle(k)
		for j := 0; j < k; j++ {
			out = append(out, s2.LatLng{
				Lat: p1.Lat + s1.Angle(j)*dLat,
				Lng: p1.Lng + s1.Angle(j)*dLng,
			})
		}
	}
	// segments only emit their start point
	return append(out, path[len(path)-1])
}

// Tessellator carries the configured threshold and distance mode.
type Tessellator struct {
	DMin s1.Angle
	Mode DistanceMode
}

// NewTessellator builds a Tessellator from a threshold in degrees. Zero
// disables tessellation.
func NewTessellator(dMinDeg float64, mode DistanceMode) Tessellator {
	return Tessellator{DMin: s1.Angle(dMinDeg) * s1.Degree, Mode: mode}
}

// Enabled reports whether paths will be subdivided.
func (t Tessellator) Enabled() bool {
	return t.DMin > 0
}

// Metric returns the metric picked by the selection policy.
func (t Tessellator) Metric() Metric {
	return SelectMetric(t.Mode, t.DMin)
}

// ResolvedMode returns the concrete mode the selection policy picks.
func (t Tessellator) ResolvedMode() DistanceMode {
	return ResolveMode(t.Mode, t.DMin)
}

// Apply tessellates path, or copies it when tessellation is disabled.
func (t Tessellator) Apply(path []s2.LatLng) []s2.LatLng {
	return Tessellate(path, t.DMin, t.Metric())
}
