// pkg/planet/dispatch_test.go - Unit tests for geometry dispatch
package planet

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"geojson-planet/pkg/sphere"
	"geojson-planet/pkg/style"
)

type call struct {
	points   []r3.Vector
	polyline []r3.Vector
	set      style.Set
}

type fakeRenderer struct {
	calls []call
}

func (f *fakeRenderer) DrawPoints(points []r3.Vector, set style.Set) {
	f.calls = append(f.calls, call{points: points, set: set})
}

func (f *fakeRenderer) DrawPolyline(path []r3.Vector, set style.Set) {
	f.calls = append(f.calls, call{polyline: path, set: set})
}

func (f *fakeRenderer) counts() (points, lines int) {
	for _, c := range f.calls {
		if c.polyline != nil {
			lines++
		} else {
			points++
		}
	}
	return points, lines
}

func square(x, y float64) orb.Ring {
	return orb.Ring{{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y}}
}

func TestDrawGeometryDispatch(t *testing.T) {
	set := style.Set{style.AttrColor: "0x000000"}
	tests := []struct {
		name   string
		geom   orb.Geometry
		points int
		lines  int
	}{
		{"point", orb.Point{1, 2}, 1, 0},
		{"multipoint", orb.MultiPoint{{1, 2}, {3, 4}}, 1, 0},
		{"empty multipoint", orb.MultiPoint{}, 0, 0},
		{"linestring", orb.LineString{{0, 0}, {1, 1}}, 0, 1},
		{"multilinestring", orb.MultiLineString{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}}, 0, 2},
		{"polygon with hole", orb.Polygon{square(0, 0), square(0.2, 0.2)}, 0, 2},
		{"multipolygon", orb.MultiPolygon{{square(0, 0)}, {square(5, 5), square(5.2, 5.2)}}, 0, 3},
		{"ring", square(0, 0), 0, 1},
		{"bound", orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}, 0, 1},
		{"collection", orb.Collection{orb.Point{0, 0}, orb.LineString{{0, 0}, {1, 1}}, orb.Collection{orb.Point{1, 1}}}, 2, 1},
		{"nil", nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRenderer{}
			NewGlobe(r, Options{}).DrawGeometry(tt.geom, set)
			points, lines := r.counts()
			assert.Equal(t, tt.points, points)
			assert.Equal(t, tt.lines, lines)
		})
	}
}

func TestDrawPathsKeepsRingOpen(t *testing.T) {
	r := &fakeRenderer{}
	ring := square(0, 0)
	NewGlobe(r, Options{}).DrawPaths([][]orb.Point{ring}, style.Set{})

	require.Len(t, r.calls, 1)
	assert.Len(t, r.calls[0].polyline, len(ring))
}

func TestDrawPathsTessellates(t *testing.T) {
	r := &fakeRenderer{}
	g := NewGlobe(r, Options{DMin: 2, DistanceMode: sphere.ModeMaxProjection})
	g.DrawPaths([][]orb.Point{{{0, 0}, {0, 9}}}, style.Set{})

	require.Len(t, r.calls, 1)
	path := r.calls[0].polyline
	assert.Len(t, path, 6)
	p := sphere.NewProjector(sphere.NewAxis(0))
	assert.InDelta(t, 0, path[0].Sub(p.Project(orb.Point{0, 0})).Norm(), 1e-12)
	assert.InDelta(t, 0, path[5].Sub(p.Project(orb.Point{0, 9})).Norm(), 1e-12)
}

func TestDrawPointsUsesProjectorAndRadius(t *testing.T) {
	r := &fakeRenderer{}
	NewGlobe(r, Options{Radius: 2}).DrawPoints([]orb.Point{{10, 20}}, style.Set{})

	require.Len(t, r.calls, 1)
	v := r.calls[0].points[0]
	assert.InDelta(t, 2, v.Norm(), 1e-12)
	assert.InDelta(t, 2*0.9254, v.X, 1e-3)
	assert.InDelta(t, 2*0.3420, v.Y, 1e-3)
	assert.InDelta(t, 2*-0.1632, v.Z, 1e-3)
}

func TestDrawPointsSpin(t *testing.T) {
	r := &fakeRenderer{}
	NewGlobe(r, Options{Spin: 90}).DrawPoints([]orb.Point{{0, 0}}, style.Set{})

	want := sphere.NewProjector(sphere.NewAxis(0)).Project(orb.Point{90, 0})
	require.Len(t, r.calls, 1)
	assert.InDelta(t, 0, r.calls[0].points[0].Sub(want).Norm(), 1e-9)
}

func TestDrawFeaturePolygonDefaults(t *testing.T) {
	r := &fakeRenderer{}
	g := NewGlobe(r, Options{})
	g.DrawFeature(&Feature{
		Geometry:   orb.Polygon{square(0, 0)},
		Properties: geojson.Properties{},
	}, nil)

	require.Len(t, r.calls, 1)
	assert.Equal(t, style.Set{style.AttrLineWidth: 1, style.AttrColor: "0x000000"}, r.calls[0].set)
}

func TestDrawFeatureDrawsOncePerResolvedStyle(t *testing.T) {
	r := &fakeRenderer{}
	g := NewGlobe(r, Options{})
	subs := []style.Substitution{
		{style.KindLineString: {style.AttrColor: "0xff0000"}},
		{style.KindLineString: {style.AttrLineWidth: 4}},
	}
	f := &Feature{
		Geometry: orb.LineString{{0, 0}, {1, 1}},
		Properties: geojson.Properties{
			DefaultStyleProperty: []any{
				map[string]any{"color": "0x00ff00"},
				map[string]any{},
				map[string]any{"dashSize": 0.1},
			},
		},
	}
	g.DrawFeature(f, subs)

	require.Len(t, r.calls, 3)
	assert.Equal(t, "0x00ff00", r.calls[0].set[style.AttrColor])
	assert.Equal(t, 4, r.calls[1].set[style.AttrLineWidth])
	assert.Equal(t, 0.1, r.calls[2].set[style.AttrDashSize])
	for _, c := range r.calls {
		assert.Contains(t, c.set, style.AttrLineWidth)
		assert.Contains(t, c.set, style.AttrColor)
	}
}

func TestDrawFeatureCustomProperty(t *testing.T) {
	r := &fakeRenderer{}
	g := NewGlobe(r, Options{StyleProperty: "style"})
	g.DrawFeature(&Feature{
		Geometry:   orb.Point{0, 0},
		Properties: geojson.Properties{"style": []any{map[string]any{"radius": 0.5}}},
	}, nil)

	require.Len(t, r.calls, 1)
	assert.Equal(t, 0.5, r.calls[0].set[style.AttrRadius])
	assert.Equal(t, 8, r.calls[0].set[style.AttrWidthSegs])
}

func TestDrawFeatureCollectionResolvesPerMemberKind(t *testing.T) {
	r := &fakeRenderer{}
	g := NewGlobe(r, Options{})
	g.DrawFeature(&Feature{
		Geometry: orb.Collection{orb.Point{0, 0}, orb.LineString{{0, 0}, {1, 0}}},
	}, nil)

	require.Len(t, r.calls, 2)
	assert.Contains(t, r.calls[0].set, style.AttrRadius)
	assert.Contains(t, r.calls[1].set, style.AttrLineWidth)
}

func TestDrawFeatureAlternativeForm(t *testing.T) {
	r := &fakeRenderer{}
	g := NewGlobe(r, Options{})
	g.DrawFeature(&Feature{
		Geometries: []orb.Geometry{orb.Point{0, 0}, orb.LineString{{0, 0}, {1, 0}}},
		Properties: geojson.Properties{DefaultStyleProperty: []any{map[string]any{"color": "0xffffff"}}},
	}, nil)

	points, lines := r.counts()
	assert.Equal(t, 1, points)
	assert.Equal(t, 1, lines)
	for _, c := range r.calls {
		assert.Equal(t, "0xffffff", c.set[style.AttrColor])
	}
}

func TestDrawFeatureAlternativeFormEveryOverridePerGeometry(t *testing.T) {
	r := &fakeRenderer{}
	g := NewGlobe(r, Options{})
	g.DrawFeature(&Feature{
		Geometries: []orb.Geometry{orb.Point{0, 0}, orb.LineString{{0, 0}, {1, 0}}},
		Properties: geojson.Properties{DefaultStyleProperty: []any{
			map[string]any{"color": "0xff0000"},
			map[string]any{"color": "0x00ff00"},
		}},
	}, nil)

	require.Len(t, r.calls, 4)
	colors := []any{}
	for _, c := range r.calls {
		colors = append(colors, c.set[style.AttrColor])
	}
	assert.Equal(t, []any{"0xff0000", "0x00ff00", "0xff0000", "0x00ff00"}, colors)
	assert.NotNil(t, r.calls[0].points)
	assert.NotNil(t, r.calls[2].polyline)
}

func TestDrawFeatureWithoutGeometry(t *testing.T) {
	r := &fakeRenderer{}
	g := NewGlobe(r, Options{})
	g.DrawFeature(&Feature{}, nil)
	g.DrawFeature(nil, nil)
	g.DrawFeatureCollection(nil, nil)
	assert.Empty(t, r.calls)
}

func TestDrawFeatureCollectionEndToEnd(t *testing.T) {
	data := []byte(`{"type": "FeatureCollection", "features": [
		{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 0]]]}},
		{"type": "Feature", "geometry": {"type": "Point"}},
		{"type": "Feature", "geometry": {"type": "MultiPoint", "coordinates": [[0, 0], [10, 10]]},
		 "properties": {"threeJSOpts": [{"color": "0xff0000"}, {"color": "0x00ff00"}]}}
	]}`)
	fc, err := DecodeFeatureCollection(data, nil)
	require.NoError(t, err)

	rec := NewRecorder(sphere.NewAxis(23.5), nil)
	g := NewGlobe(rec, Options{AxisTilt: 23.5})
	g.DrawFeatureCollection(fc, nil)

	scene := rec.Scene()
	require.Len(t, scene.Polylines, 1)
	require.Len(t, scene.Markers, 2)
	assert.Equal(t, 4, scene.PointCount())
	assert.Equal(t, 4, scene.VertexCount())
	assert.Equal(t, style.MaterialBasic, scene.Polylines[0].Material)
	assert.Nil(t, scene.Polylines[0].Distances)

	for _, m := range scene.Markers {
		for _, p := range m.Positions {
			assert.InDelta(t, 1, math.Sqrt(p[0]*p[0]+p[1]*p[1]+p[2]*p[2]), 1e-12)
		}
	}
	axis := g.Axis()
	assert.InDelta(t, AxisScale*axis.Y, scene.Axis[1][1], 1e-12)
	assert.InDelta(t, -AxisScale*axis.X, scene.Axis[0][0], 1e-12)
}

func TestRecorderDashedDistances(t *testing.T) {
	rec := NewRecorder(sphere.NewAxis(0), nil)
	path := []r3.Vector{{X: 0}, {X: 1}, {X: 1, Y: 2}}
	rec.DrawPolyline(path, style.Set{style.AttrDashSize: 0.1})

	line := rec.Scene().Polylines[0]
	assert.Equal(t, style.MaterialDashed, line.Material)
	assert.Equal(t, []float64{0, 1, 3}, line.Distances)
	assert.Equal(t, Position{1, 2, 0}, line.Positions[2])
}

func TestRecorderNormalizesStyles(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rec := NewRecorder(sphere.NewAxis(0), zap.New(core))

	rec.DrawPoints([]r3.Vector{{X: 1}}, style.Set{
		style.AttrColor: "#00ff00", style.AttrRadius: "0.5", style.AttrWidthSegs: 8.0,
	})
	rec.DrawPolyline([]r3.Vector{{X: 1}, {Y: 1}}, style.Set{style.AttrColor: "banana", style.AttrLineWidth: 2})

	scene := rec.Scene()
	assert.Equal(t, style.Set{
		style.AttrColor: uint32(0x00ff00), style.AttrRadius: 0.5, style.AttrWidthSegs: 8,
	}, scene.Markers[0].Style)
	assert.Equal(t, style.Set{style.AttrColor: uint32(0), style.AttrLineWidth: 2.0}, scene.Polylines[0].Style)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "invalid style attributes", logs.All()[0].Message)
}
