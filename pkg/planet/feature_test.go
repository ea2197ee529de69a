// pkg/planet/feature_test.go - Unit tests for permissive GeoJSON decoding
package planet

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFeatureCollection(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [10, 20]},
			 "properties": {"name": "a", "threeJSOpts": [{"color": "0xff0000"}]}},
			{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}},
			{"type": "Feature", "geometry": {"coordinates": [1, 2]}},
			{"type": "Feature", "geometry": {"type": "Point"}},
			{"type": "Feature", "geometry": {"type": "Curve", "coordinates": [[0, 0]]}},
			{"type": "Feature", "geometry": null}
		]
	}`)

	fc, err := DecodeFeatureCollection(data, nil)
	require.NoError(t, err)
	require.Equal(t, 6, fc.Len())
	assert.Equal(t, 3, fc.Skipped)

	assert.Equal(t, orb.Point{10, 20}, fc.Features[0].Geometry)
	assert.Equal(t, "a", fc.Features[0].Properties["name"])
	assert.Equal(t, orb.LineString{{0, 0}, {1, 1}}, fc.Features[1].Geometry)
	for _, f := range fc.Features[2:] {
		assert.Nil(t, f.Geometry)
		assert.NotNil(t, f.Properties)
	}
}

func TestDecodeEmptyCoordinates(t *testing.T) {
	tests := []struct {
		name string
		geom string
	}{
		{"point", `{"type": "Point", "coordinates": []}`},
		{"point with blank", `{"type": "Point", "coordinates": [ ]}`},
		{"multipoint", `{"type": "MultiPoint", "coordinates": []}`},
		{"linestring", `{"type": "LineString", "coordinates": []}`},
		{"polygon", `{"type": "Polygon", "coordinates": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte(`{"type": "Feature", "geometry": ` + tt.geom + `}`)
			fc, err := DecodeFeatureCollection(data, nil)
			require.NoError(t, err)
			require.Equal(t, 1, fc.Len())
			assert.Equal(t, 1, fc.Skipped)
			assert.Nil(t, fc.Features[0].Geometry)

			r := &fakeRenderer{}
			NewGlobe(r, Options{}).DrawFeatureCollection(fc, nil)
			assert.Empty(t, r.calls)
		})
	}
}

func TestDecodeGeometryCollectionKeepsGoodMembers(t *testing.T) {
	data := []byte(`{"type": "Feature", "geometry": {
		"type": "GeometryCollection",
		"geometries": [
			{"type": "Point", "coordinates": [1, 2]},
			{"type": "Point"},
			{"type": "LineString", "coordinates": [[0, 0], [3, 4]]}
		]}}`)

	fc, err := DecodeFeatureCollection(data, nil)
	require.NoError(t, err)
	require.Equal(t, 1, fc.Len())
	assert.Equal(t, 1, fc.Skipped)
	assert.Equal(t, orb.Collection{orb.Point{1, 2}, orb.LineString{{0, 0}, {3, 4}}}, fc.Features[0].Geometry)
}

func TestDecodeAlternativeGeometriesForm(t *testing.T) {
	data := []byte(`{"type": "Feature",
		"geometries": [
			{"type": "Point", "coordinates": [1, 2]},
			{"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 0]]]}
		],
		"properties": {"threeJSOpts": [{"color": 255}]}}`)

	fc, err := DecodeFeatureCollection(data, nil)
	require.NoError(t, err)
	require.Equal(t, 1, fc.Len())
	f := fc.Features[0]
	assert.Nil(t, f.Geometry)
	require.Len(t, f.Geometries, 2)
	assert.Equal(t, orb.Point{1, 2}, f.Geometries[0])
	assert.IsType(t, orb.Polygon{}, f.Geometries[1])
}

func TestDecodeBareGeometry(t *testing.T) {
	fc, err := DecodeFeatureCollection([]byte(`{"type": "MultiPoint", "coordinates": [[1, 2], [3, 4]]}`), nil)
	require.NoError(t, err)
	require.Equal(t, 1, fc.Len())
	assert.Equal(t, orb.MultiPoint{{1, 2}, {3, 4}}, fc.Features[0].Geometry)
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := DecodeFeatureCollection([]byte(`{"type": `), nil)
	assert.Error(t, err)
}

func TestDecodeSkipsNonObjectFeatures(t *testing.T) {
	fc, err := DecodeFeatureCollection([]byte(`{"type": "FeatureCollection", "features": [42, {"type": "Feature"}]}`), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, fc.Len())
	assert.Equal(t, 1, fc.Skipped)
}

func TestFromGeoJSON(t *testing.T) {
	src := geojson.NewFeatureCollection()
	f := geojson.NewFeature(orb.Point{5, 6})
	f.Properties = nil
	src.Append(f)
	src.Features = append(src.Features, nil)

	fc := FromGeoJSON(src)
	require.Equal(t, 1, fc.Len())
	assert.Equal(t, 1, fc.Skipped)
	assert.Equal(t, orb.Point{5, 6}, fc.Features[0].Geometry)
	assert.NotNil(t, fc.Features[0].Properties)
}
