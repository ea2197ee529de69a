// pkg/mvt/converter_test.go - Unit tests for MVT converter
package mvt

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertAllLayers(t *testing.T) {
	id := testTileID()
	fc, meta, err := NewConverter(ConversionOptions{}, nil).Convert(buildTile(t, id, false), id)
	require.NoError(t, err)

	require.Len(t, fc.Features, 2)
	assert.Equal(t, 2, meta.FeatureCount)
	assert.Equal(t, 0, meta.Skipped)
	assert.Equal(t, id.String(), meta.TileID)
	assert.ElementsMatch(t, []string{"places", "roads"}, meta.Layers)

	layers := map[string]bool{}
	for _, f := range fc.Features {
		layers[f.Properties.MustString(LayerProperty)] = true
		assert.NotEmpty(t, f.Properties.MustString("name"))
	}
	assert.Len(t, layers, 2)
}

func TestConvertLayerFilter(t *testing.T) {
	id := testTileID()
	c := NewConverter(ConversionOptions{LayerFilter: []string{"roads"}}, nil)
	fc, meta, err := c.Convert(buildTile(t, id, false), id)
	require.NoError(t, err)

	require.Len(t, fc.Features, 1)
	assert.Equal(t, 1, meta.FeatureCount)
	assert.Equal(t, "roads", fc.Features[0].Properties[LayerProperty])

	ls, ok := fc.Features[0].Geometry.(orb.LineString)
	require.True(t, ok)
	require.Len(t, ls, 2)
	assert.InDelta(t, 10.05, ls[1].Lon(), 1e-3)
	assert.InDelta(t, 20.05, ls[1].Lat(), 1e-3)
}

func TestConvertPropertyFilter(t *testing.T) {
	id := testTileID()
	c := NewConverter(ConversionOptions{
		LayerFilter:    []string{"roads"},
		PropertyFilter: []string{"kind"},
	}, nil)
	fc, _, err := c.Convert(buildTile(t, id, true), id)
	require.NoError(t, err)

	require.Len(t, fc.Features, 1)
	props := fc.Features[0].Properties
	assert.Equal(t, "primary", props["kind"])
	assert.NotContains(t, props, "name")
	assert.Contains(t, props, LayerProperty)
}

func TestConvertInvalidData(t *testing.T) {
	_, _, err := NewConverter(ConversionOptions{}, nil).Convert([]byte{0xff, 0xff, 0xff}, TileID{})
	assert.Error(t, err)
}
