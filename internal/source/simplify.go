// internal/source/simplify.go - Geometry simplification before projection
package source

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"geojson-planet/pkg/planet"
)

// Simplify reduces every feature geometry in place with Douglas-Peucker,
// threshold given in degrees. Points pass through unchanged.
func Simplify(fc *planet.FeatureCollection, threshold float64) {
	s := simplify.DouglasPeucker(threshold)
	for _, f := range fc.Features {
		if f.Geometry != nil {
			f.Geometry = simplifyGeometry(s, f.Geometry)
		}
		for i, g := range f.Geometries {
			f.Geometries[i] = simplifyGeometry(s, g)
		}
	}
}

func simplifyGeometry(s *simplify.DouglasPeuckerSimplifier, g orb.Geometry) orb.Geometry {
	switch g := g.(type) {
	case orb.Point, orb.MultiPoint:
		return g
	case orb.Collection:
		out := make(orb.Collection, len(g))
		for i, member := range g {
			out[i] = simplifyGeometry(s, member)
		}
		return out
	}
	return s.Simplify(orb.Clone(g))
}
