// internal/output/formatter.go - Scene document encoders
package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"geojson-planet/pkg/planet"
	"geojson-planet/pkg/style"
)

func marshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// JSONFormatter encodes documents as JSON
type JSONFormatter struct {
	pretty bool
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(pretty bool) *JSONFormatter {
	return &JSONFormatter{pretty: pretty}
}

// Format encodes a single document
func (f *JSONFormatter) Format(doc *Document) ([]byte, error) {
	return marshalJSON(doc, f.pretty)
}

// FormatBatch encodes documents as a JSON array under "documents"
func (f *JSONFormatter) FormatBatch(docs []*Document) ([]byte, error) {
	return marshalJSON(map[string]any{"documents": docs}, f.pretty)
}

// ContentType returns the MIME type for JSON
func (f *JSONFormatter) ContentType() string {
	return "application/json"
}

// Extension returns the file extension for JSON
func (f *JSONFormatter) Extension() string {
	return ".json"
}

// YAMLFormatter encodes documents as YAML
type YAMLFormatter struct {
	indent int
}

// NewYAMLFormatter creates a YAML formatter. Pretty output uses a two space
// indent, compact output yaml's default of four.
func NewYAMLFormatter(pretty bool) *YAMLFormatter {
	indent := 4
	if pretty {
		indent = 2
	}
	return &YAMLFormatter{indent: indent}
}

func (f *YAMLFormatter) encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(f.indent)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("yaml encoding failed: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Format encodes a single document
func (f *YAMLFormatter) Format(doc *Document) ([]byte, error) {
	return f.encode(doc)
}

// FormatBatch encodes documents as a YAML sequence under "documents"
func (f *YAMLFormatter) FormatBatch(docs []*Document) ([]byte, error) {
	return f.encode(map[string]any{"documents": docs})
}

// ContentType returns the MIME type for YAML
func (f *YAMLFormatter) ContentType() string {
	return "application/yaml"
}

// Extension returns the file extension for YAML
func (f *YAMLFormatter) Extension() string {
	return ".yaml"
}

// GeoJSONFormatter encodes scenes as a FeatureCollection of 3D positions.
// Marker batches become MultiPoint features, polylines LineString features,
// with the resolved style as properties.
type GeoJSONFormatter struct {
	pretty bool
}

// NewGeoJSONFormatter creates a new GeoJSON formatter
func NewGeoJSONFormatter(pretty bool) *GeoJSONFormatter {
	return &GeoJSONFormatter{pretty: pretty}
}

type geometry3D struct {
	Type        string            `json:"type"`
	Coordinates []planet.Position `json:"coordinates"`
}

type feature3D struct {
	Type       string         `json:"type"`
	Geometry   geometry3D     `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type collection3D struct {
	Type     string      `json:"type"`
	Features []feature3D `json:"features"`
}

func properties(source string, set style.Set, extra map[string]any) map[string]any {
	props := make(map[string]any, len(set)+len(extra)+1)
	for k, v := range set {
		props[k] = v
	}
	for k, v := range extra {
		props[k] = v
	}
	if source != "" {
		props["_source"] = source
	}
	return props
}

func (f *GeoJSONFormatter) features(doc *Document) []feature3D {
	scene := doc.Scene
	out := make([]feature3D, 0, len(scene.Markers)+len(scene.Polylines))
	for _, m := range scene.Markers {
		out = append(out, feature3D{
			Type:       "Feature",
			Geometry:   geometry3D{Type: "MultiPoint", Coordinates: m.Positions},
			Properties: properties(doc.Source, m.Style, nil),
		})
	}
	for _, p := range scene.Polylines {
		out = append(out, feature3D{
			Type:       "Feature",
			Geometry:   geometry3D{Type: "LineString", Coordinates: p.Positions},
			Properties: properties(doc.Source, p.Style, map[string]any{"_material": p.Material}),
		})
	}
	return out
}

// Format encodes a single document
func (f *GeoJSONFormatter) Format(doc *Document) ([]byte, error) {
	return marshalJSON(collection3D{Type: "FeatureCollection", Features: f.features(doc)}, f.pretty)
}

// FormatBatch merges all documents into one FeatureCollection
func (f *GeoJSONFormatter) FormatBatch(docs []*Document) ([]byte, error) {
	fc := collection3D{Type: "FeatureCollection", Features: []feature3D{}}
	for _, doc := range docs {
		fc.Features = append(fc.Features, f.features(doc)...)
	}
	return marshalJSON(fc, f.pretty)
}

// ContentType returns the MIME type for GeoJSON
func (f *GeoJSONFormatter) ContentType() string {
	return "application/geo+json"
}

// Extension returns the file extension for GeoJSON
func (f *GeoJSONFormatter) Extension() string {
	return ".geojson"
}

// NewFormatter creates a formatter for format
func NewFormatter(format Format, pretty bool) (Formatter, error) {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(pretty), nil
	case FormatYAML:
		return NewYAMLFormatter(pretty), nil
	case FormatGeoJSON:
		return NewGeoJSONFormatter(pretty), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
