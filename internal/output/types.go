// internal/output/types.go - Output handling types
package output

import (
	"fmt"
	"io"
	"strings"

	"geojson-planet/pkg/planet"
)

// Format represents different output formats supported by the application
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatGeoJSON Format = "geojson"
)

// Document is one rendered input: the recorded scene plus its counters
type Document struct {
	Source string        `json:"source" yaml:"source"`
	Stats  Stats         `json:"stats" yaml:"stats"`
	Scene  *planet.Scene `json:"scene" yaml:"scene"`
}

// Stats counts what went into a scene
type Stats struct {
	Features  int `json:"features" yaml:"features"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Markers   int `json:"markers" yaml:"markers"`
	Points    int `json:"points" yaml:"points"`
	Polylines int `json:"polylines" yaml:"polylines"`
	Vertices  int `json:"vertices" yaml:"vertices"`
}

// NewDocument builds a document for a finished scene
func NewDocument(source string, fc *planet.FeatureCollection, scene *planet.Scene) *Document {
	doc := &Document{
		Source: source,
		Scene:  scene,
		Stats: Stats{
			Markers:   len(scene.Markers),
			Points:    scene.PointCount(),
			Polylines: len(scene.Polylines),
			Vertices:  scene.VertexCount(),
		},
	}
	if fc != nil {
		doc.Stats.Features = fc.Len()
		doc.Stats.Skipped = fc.Skipped
	}
	return doc
}

// Writer defines the interface for writing documents to a destination
type Writer interface {
	Write(doc *Document) error
	WriteBatch(docs []*Document) error
	Close() error
}

// Formatter defines the interface for encoding documents
type Formatter interface {
	Format(doc *Document) ([]byte, error)
	FormatBatch(docs []*Document) ([]byte, error)
	ContentType() string
	Extension() string
}

// Destination represents an output destination (file, stdout, etc.)
type Destination interface {
	io.WriteCloser
	Name() string
	Size() int64
}

// WriterConfig contains configuration for creating writers
type WriterConfig struct {
	Format      Format
	Pretty      bool
	Compression bool
}

// ParseFormat converts a configured name into a Format. Names are case
// insensitive.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid output format: %s", s)
	}
	return f, nil
}

// String returns a string representation of the format
func (f Format) String() string {
	return string(f)
}

// IsValid checks if the format is supported
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatGeoJSON:
		return true
	default:
		return false
	}
}
