// pkg/planet/feature.go - Permissive GeoJSON feature decoding
package planet

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"geojson-planet/pkg/style"
)

// Feature is a decoded GeoJSON feature. Geometry is nil when the feature had
// no usable geometry. Geometries holds the alternative form where a feature
// lists its sub-geometries directly.
type Feature struct {
	ID         any
	Geometry   orb.Geometry
	Geometries []orb.Geometry
	Properties geojson.Properties
}

// FeatureCollection is an ordered list of features.
type FeatureCollection struct {
	Features []*Feature
	Skipped  int // geometries dropped while decoding
}

const (
	typeFeatureCollection  = "FeatureCollection"
	typeFeature            = "Feature"
	typeGeometryCollection = "GeometryCollection"
)

type rawFeature struct {
	Type       string            `json:"type"`
	ID         any               `json:"id,omitempty"`
	Geometry   json.RawMessage   `json:"geometry"`
	Geometries []json.RawMessage `json:"geometries"`
	Properties map[string]any    `json:"properties"`
}

type rawGeometry struct {
	Type        string            `json:"type"`
	Coordinates json.RawMessage   `json:"coordinates"`
	Geometries  []json.RawMessage `json:"geometries"`
}

type rawDocument struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// decoder keeps the skip count and logger for one document.
type decoder struct {
	logger  *zap.Logger
	skipped int
}

// DecodeFeatureCollection decodes a GeoJSON document. FeatureCollection,
// Feature and bare geometry documents are accepted. Only malformed JSON is an
// error; geometries with a missing type, missing coordinates or an unknown
// type are skipped without affecting their siblings.
func DecodeFeatureCollection(data []byte, logger *zap.Logger) (*FeatureCollection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &decoder{logger: logger}

	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode geojson: %w", err)
	}

	fc := &FeatureCollection{}
	switch doc.Type {
	case typeFeatureCollection:
		fc.Features = make([]*Feature, 0, len(doc.Features))
		for i, raw := range doc.Features {
			f, ok := d.feature(raw)
			if !ok {
				d.skip("feature is not an object", zap.Int("index", i))
				continue
			}
			fc.Features = append(fc.Features, f)
		}
	case typeFeature:
		if f, ok := d.feature(data); ok {
			fc.Features = append(fc.Features, f)
		}
	default:
		if g, ok := d.geometry(data); ok {
			fc.Features = append(fc.Features, &Feature{Geometry: g})
		}
	}
	fc.Skipped = d.skipped
	return fc, nil
}

func (d *decoder) skip(msg string, fields ...zap.Field) {
	d.skipped++
	d.logger.Debug(msg, fields...)
}

func (d *decoder) feature(data json.RawMessage) (*Feature, bool) {
	var raw rawFeature
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}
	f := &Feature{ID: raw.ID, Properties: geojson.Properties(raw.Properties)}
	if f.Properties == nil {
		f.Properties = geojson.Properties{}
	}
	if g, ok := d.geometry(raw.Geometry); ok {
		f.Geometry = g
	}
	for _, rg := range raw.Geometries {
		if g, ok := d.geometry(rg); ok {
			f.Geometries = append(f.Geometries, g)
		}
	}
	return f, true
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// noCoordinates reports a missing, null or empty coordinates member.
func noCoordinates(data json.RawMessage) bool {
	if isNull(data) {
		return true
	}
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return false
	}
	return len(list) == 0
}

// geometry decodes a single geometry. Collections are decoded member by
// member so that one bad member does not drop the rest.
func (d *decoder) geometry(data json.RawMessage) (orb.Geometry, bool) {
	if isNull(data) {
		return nil, false
	}
	var head rawGeometry
	if err := json.Unmarshal(data, &head); err != nil {
		d.skip("geometry is not an object", zap.Error(err))
		return nil, false
	}

	switch head.Type {
	case "":
		d.skip("geometry without type")
		return nil, false
	case typeGeometryCollection:
		c := orb.Collection{}
		for _, member := range head.Geometries {
			if g, ok := d.geometry(member); ok {
				c = append(c, g)
			}
		}
		return c, true
	}

	if !style.Kind(head.Type).Valid() {
		d.skip("unsupported geometry", zap.String("type", head.Type))
		return nil, false
	}
	if noCoordinates(head.Coordinates) {
		d.skip("geometry without coordinates", zap.String("type", head.Type))
		return nil, false
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		d.skip("unsupported geometry", zap.String("type", head.Type), zap.Error(err))
		return nil, false
	}
	geom := g.Geometry()
	if mp, ok := geom.(orb.MultiPoint); ok && len(mp) == 0 {
		d.skip("geometry without coordinates", zap.String("type", head.Type))
		return nil, false
	}
	return geom, true
}

// FromGeoJSON adapts an orb feature collection, as produced by other
// sources, to the planet model.
func FromGeoJSON(fc *geojson.FeatureCollection) *FeatureCollection {
	out := &FeatureCollection{Features: make([]*Feature, 0, len(fc.Features))}
	for _, f := range fc.Features {
		if f == nil {
			out.Skipped++
			continue
		}
		props := f.Properties
		if props == nil {
			props = geojson.Properties{}
		}
		out.Features = append(out.Features, &Feature{
			ID:         f.ID,
			Geometry:   f.Geometry,
			Properties: props,
		})
	}
	return out
}

// Len returns the number of features.
func (fc *FeatureCollection) Len() int {
	return len(fc.Features)
}
