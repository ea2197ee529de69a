// pkg/mvt/converter.go - Vector tile to GeoJSON feature collection conversion
package mvt

import (
	"fmt"
	"slices"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

// LayerProperty is the feature property that records the source layer.
const LayerProperty = "_layer"

// ConversionOptions configures the conversion process
type ConversionOptions struct {
	LayerFilter    []string `mapstructure:"layers"`     // only include these layers
	PropertyFilter []string `mapstructure:"properties"` // only keep these properties
}

// ConversionMetadata describes a converted tile
type ConversionMetadata struct {
	Layers       []string `json:"layers"`
	FeatureCount int      `json:"feature_count"`
	Skipped      int      `json:"skipped"`
	TileID       string   `json:"tile_id"`
}

// Converter turns vector tiles into lon/lat feature collections
type Converter struct {
	decoder *Decoder
	options ConversionOptions
	logger  *zap.Logger
}

// NewConverter creates a converter. A nil logger disables logging.
func NewConverter(options ConversionOptions, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		decoder: NewDecoder(),
		options: options,
		logger:  logger,
	}
}

// Convert decodes tile data and flattens the selected layers into one
// feature collection, in layer order.
func (c *Converter) Convert(data []byte, id TileID) (*geojson.FeatureCollection, *ConversionMetadata, error) {
	tile, err := c.decoder.Decode(data, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode MVT: %w", err)
	}

	fc := geojson.NewFeatureCollection()
	meta := &ConversionMetadata{
		Layers: tile.LayerNames(),
		TileID: id.String(),
	}

	for _, layer := range tile.Layers {
		if len(c.options.LayerFilter) > 0 && !slices.Contains(c.options.LayerFilter, layer.Name) {
			c.logger.Debug("skipping filtered layer", zap.String("layer", layer.Name))
			continue
		}
		for _, f := range layer.Features {
			if f == nil || f.Geometry == nil {
				meta.Skipped++
				c.logger.Debug("skipping feature without geometry", zap.String("layer", layer.Name))
				continue
			}
			fc.Append(c.convertFeature(f, layer.Name))
		}
	}
	meta.FeatureCount = len(fc.Features)

	c.logger.Debug("converted tile",
		zap.Stringer("tile", id),
		zap.Int("features", meta.FeatureCount),
		zap.Int("skipped", meta.Skipped))
	return fc, meta, nil
}

func (c *Converter) convertFeature(f *geojson.Feature, layer string) *geojson.Feature {
	out := geojson.NewFeature(f.Geometry)
	out.ID = f.ID
	for key, value := range f.Properties {
		if len(c.options.PropertyFilter) > 0 && !slices.Contains(c.options.PropertyFilter, key) {
			continue
		}
		out.Properties[key] = value
	}
	out.Properties[LayerProperty] = layer
	return out
}
