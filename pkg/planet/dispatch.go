// pkg/planet/dispatch.go - Geometry dispatch onto the sphere
package planet

import (
	"github.com/golang/geo/s1"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"geojson-planet/pkg/sphere"
	"geojson-planet/pkg/style"
)

// DefaultStyleProperty is the feature property holding per-feature style
// overrides.
const DefaultStyleProperty = "threeJSOpts"

// Options configures a Globe.
type Options struct {
	AxisTilt      float64 // degrees
	Radius        float64 // 0 means unit sphere
	Spin          float64 // degrees of rotation about the axis applied to output
	DMin          float64 // degrees, 0 disables tessellation
	DistanceMode  sphere.DistanceMode
	Defaults      style.Defaults
	StyleProperty string
	Logger        *zap.Logger
}

// Globe projects geometries onto the sphere and hands them to a Renderer.
// A Globe is not safe for concurrent use; give each goroutine its own.
type Globe struct {
	projector   *sphere.Projector
	tessellator sphere.Tessellator
	defaults    style.Defaults
	property    string
	renderer    Renderer
	logger      *zap.Logger
}

// NewGlobe creates a Globe drawing into r.
func NewGlobe(r Renderer, opts Options) *Globe {
	projector := sphere.NewProjector(sphere.NewAxis(opts.AxisTilt))
	if opts.Radius > 0 {
		projector.Radius = opts.Radius
	}
	projector.Spin = s1.Angle(opts.Spin) * s1.Degree
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	property := opts.StyleProperty
	if property == "" {
		property = DefaultStyleProperty
	}
	return &Globe{
		projector:   projector,
		tessellator: sphere.NewTessellator(opts.DMin, opts.DistanceMode),
		defaults:    opts.Defaults,
		property:    property,
		renderer:    r,
		logger:      logger,
	}
}

// Axis returns the globe's tilt axis.
func (g *Globe) Axis() sphere.Axis {
	return g.projector.Axis
}

// DrawPoints projects a batch of lon/lat points and renders them as markers.
func (g *Globe) DrawPoints(points []orb.Point, set style.Set) {
	if len(points) == 0 {
		return
	}
	g.renderer.DrawPoints(g.projector.ProjectPoints(points), set)
}

// DrawPaths tessellates and projects every path and renders each as its own
// polyline.
func (g *Globe) DrawPaths(paths [][]orb.Point, set style.Set) {
	for _, path := range paths {
		if len(path) == 0 {
			continue
		}
		lls := g.tessellator.Apply(sphere.ToLatLngPath(path))
		g.renderer.DrawPolyline(g.projector.ProjectPath(lls), set)
	}
}

// DrawGeometry routes a geometry to the point or path pipeline with an
// already resolved style. Collections are drawn member by member with the
// same style.
func (g *Globe) DrawGeometry(geom orb.Geometry, set style.Set) {
	switch v := geom.(type) {
	case nil:
	case orb.Point:
		g.DrawPoints([]orb.Point{v}, set)
	case orb.MultiPoint:
		g.DrawPoints(v, set)
	case orb.LineString:
		g.DrawPaths([][]orb.Point{v}, set)
	case orb.Ring:
		g.DrawPaths([][]orb.Point{v}, set)
	case orb.MultiLineString:
		paths := make([][]orb.Point, len(v))
		for i, ls := range v {
			paths[i] = ls
		}
		g.DrawPaths(paths, set)
	case orb.Polygon:
		g.DrawPaths(polygonPaths(nil, v), set)
	case orb.MultiPolygon:
		var paths [][]orb.Point
		for _, p := range v {
			paths = polygonPaths(paths, p)
		}
		g.DrawPaths(paths, set)
	case orb.Bound:
		g.DrawPaths(polygonPaths(nil, v.ToPolygon()), set)
	case orb.Collection:
		for _, member := range v {
			g.DrawGeometry(member, set)
		}
	default:
		g.logger.Debug("skipping unsupported geometry", zap.String("type", geom.GeoJSONType()))
	}
}

func polygonPaths(dst [][]orb.Point, p orb.Polygon) [][]orb.Point {
	for _, ring := range p {
		dst = append(dst, ring)
	}
	return dst
}

// kindOf returns the style kind of a geometry. Collections have none.
func kindOf(geom orb.Geometry) (style.Kind, bool) {
	switch geom.(type) {
	case orb.Point:
		return style.KindPoint, true
	case orb.MultiPoint:
		return style.KindMultiPoint, true
	case orb.LineString:
		return style.KindLineString, true
	case orb.MultiLineString:
		return style.KindMultiLineString, true
	case orb.Polygon, orb.Ring, orb.Bound:
		return style.KindPolygon, true
	case orb.MultiPolygon:
		return style.KindMultiPolygon, true
	}
	return "", false
}

// DrawStyled resolves the style layers for geom and draws it once per
// resolved style. Collection members are resolved against their own kind
// with the same layers.
func (g *Globe) DrawStyled(geom orb.Geometry, subs []style.Substitution, overrides []style.Set) {
	if c, ok := geom.(orb.Collection); ok {
		for _, member := range c {
			g.DrawStyled(member, subs, overrides)
		}
		return
	}
	kind, ok := kindOf(geom)
	if !ok {
		if geom != nil {
			g.logger.Debug("skipping geometry without style kind", zap.String("type", geom.GeoJSONType()))
		}
		return
	}
	for _, set := range style.Resolve(kind, g.defaults, subs, overrides) {
		g.DrawGeometry(geom, set)
	}
}

// Overrides returns the feature's style overrides.
func (g *Globe) Overrides(f *Feature) []style.Set {
	if f.Properties == nil {
		return nil
	}
	return style.ParseOverrides(f.Properties[g.property], g.logger)
}

// DrawFeature draws a feature with the given draw-call substitutions. A
// feature without any usable geometry is a no-op.
func (g *Globe) DrawFeature(f *Feature, subs []style.Substitution) {
	if f == nil {
		return
	}
	overrides := g.Overrides(f)
	if f.Geometry != nil {
		g.DrawStyled(f.Geometry, subs, overrides)
		return
	}
	for _, sub := range f.Geometries {
		g.DrawStyled(sub, subs, overrides)
	}
}

// DrawFeatureCollection draws every feature in order.
func (g *Globe) DrawFeatureCollection(fc *FeatureCollection, subs []style.Substitution) {
	if fc == nil {
		return
	}
	for _, f := range fc.Features {
		g.DrawFeature(f, subs)
	}
}
