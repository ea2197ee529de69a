// pkg/sphere/metric.go - Geodesic distance approximations and selection policy
package sphere

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Metric returns the angular distance between two points given in radians.
type Metric func(a, b s2.LatLng) s1.Angle

// DistanceMode selects which Metric is used for tessellation
type DistanceMode int

const (
	ModeMixed DistanceMode = iota
	ModeMaxProjection
	ModeChord
	ModeExactArc
)

// MixedThreshold is the dMin above which Mixed mode switches to ExactArc.
const MixedThreshold = 2 * s1.Degree

// String returns the configuration name of the mode
func (m DistanceMode) String() string {
	switch m {
	case ModeMixed:
		return "mixed"
	case ModeMaxProjection:
		return "max"
	case ModeChord:
		return "chord"
	case ModeExactArc:
		return "arc"
	default:
		return fmt.Sprintf("DistanceMode(%d)", int(m))
	}
}

// ParseDistanceMode accepts the short and long mode names as well as the
// numeric selectors 0-3.
func ParseDistanceMode(s string) (DistanceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "mixed":
		return ModeMixed, nil
	case "1", "max", "maxprojection", "max-projection":
		return ModeMaxProjection, nil
	case "2", "chord", "sqr":
		return ModeChord, nil
	case "3", "arc", "exactarc", "exact-arc":
		return ModeExactArc, nil
	}
	return ModeMixed, fmt.Errorf("invalid distance mode: %q, must be one of mixed, max, chord, arc", s)
}

// meanLatScale is the cosine of the mean absolute latitude, used to shrink
// longitude deltas towards the poles.
func meanLatScale(a, b s2.LatLng) float64 {
	return math.Cos((math.Abs(a.Lat.Radians()) + math.Abs(b.Lat.Radians())) / 2)
}

// MaxProjection takes the longer of the scaled longitude and latitude deltas.
// Cheapest of the three; only meaningful for nearby points.
func MaxProjection(a, b s2.LatLng) s1.Angle {
	rY := meanLatScale(a, b)
	dx := rY * math.Abs(a.Lng.Radians()-b.Lng.Radians())
	dy := math.Abs(a.Lat.Radians() - b.Lat.Radians())
	return s1.Angle(math.Max(dx, dy))
}

// Chord measures the straightened arc as a euclidean distance of the scaled
// deltas.
func Chord(a, b s2.LatLng) s1.Angle {
	rY := meanLatScale(a, b)
	dx := rY * math.Abs(a.Lng.Radians()-b.Lng.Radians())
	dy := math.Abs(a.Lat.Radians() - b.Lat.Radians())
	return s1.Angle(math.Sqrt(dx*dx + dy*dy))
}

// ExactArc is the great circle distance by the spherical law of cosines.
func ExactArc(a, b s2.LatLng) s1.Angle {
	lat1, lat2 := a.Lat.Radians(), b.Lat.Radians()
	c := math.Sin(lat1)*math.Sin(lat2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Cos(a.Lng.Radians()-b.Lng.Radians())
	// rounding can push c slightly outside acos' domain
	c = math.Max(-1, math.Min(1, c))
	return s1.Angle(math.Acos(c))
}

// ResolveMode applies the selection policy and returns the concrete mode.
// Explicit modes are returned unchanged. Mixed mode prefers accuracy for
// sparse sampling (dMin above MixedThreshold) and speed otherwise, including
// when dMin is unset.
func ResolveMode(mode DistanceMode, dMin s1.Angle) DistanceMode {
	if mode != ModeMixed {
		return mode
	}
	if dMin > MixedThreshold {
		return ModeExactArc
	}
	return ModeMaxProjection
}

// SelectMetric returns the metric the selection policy picks for mode and dMin.
func SelectMetric(mode DistanceMode, dMin s1.Angle) Metric {
	switch ResolveMode(mode, dMin) {
	case ModeChord:
		return Chord
	case ModeExactArc:
		return ExactArc
	}
	return MaxProjection
}
