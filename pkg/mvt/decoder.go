// pkg/mvt/decoder.go - Mapbox Vector Tile decoding into lon/lat layers
package mvt

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/maptile"
)

// DefaultExtent is the tile extent assumed for layers that do not carry one.
const DefaultExtent = 4096

const maxZoom = 22

var gzipMagic = []byte{0x1f, 0x8b}

// Decoder decodes Mapbox Vector Tiles from their protobuf encoding
type Decoder struct {
	extent uint32
}

// NewDecoder creates a decoder with the default extent
func NewDecoder() *Decoder {
	return &Decoder{extent: DefaultExtent}
}

// NewDecoderWithExtent creates a decoder that assumes extent for layers
// missing one
func NewDecoderWithExtent(extent int) *Decoder {
	return &Decoder{extent: uint32(extent)}
}

// TileID identifies a tile in the z/x/y pyramid
type TileID struct {
	Z int `json:"z"`
	X int `json:"x"`
	Y int `json:"y"`
}

// Tile is a decoded tile whose layer geometries are in lon/lat degrees
type Tile struct {
	ID     TileID
	Layers mvt.Layers
}

// Decode parses raw or gzipped tile data and projects every layer from tile
// coordinates to WGS84.
func (d *Decoder) Decode(data []byte, id TileID) (*Tile, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty tile data")
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var (
		layers mvt.Layers
		err    error
	)
	if bytes.HasPrefix(data, gzipMagic) {
		layers, err = mvt.UnmarshalGzipped(data)
	} else {
		layers, err = mvt.Unmarshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal MVT data: %w", err)
	}

	for _, l := range layers {
		if l.Extent == 0 {
			l.Extent = d.extent
		}
	}
	layers.ProjectToWGS84(id.MapTile())

	return &Tile{ID: id, Layers: layers}, nil
}

// LayerNames returns the layer names in tile order
func (t *Tile) LayerNames() []string {
	names := make([]string, 0, len(t.Layers))
	for _, l := range t.Layers {
		names = append(names, l.Name)
	}
	return names
}

// FeatureCount returns the total number of features across all layers
func (t *Tile) FeatureCount() int {
	count := 0
	for _, l := range t.Layers {
		count += len(l.Features)
	}
	return count
}

// HasLayer checks if the tile contains a layer with the given name
func (t *Tile) HasLayer(name string) bool {
	for _, l := range t.Layers {
		if l.Name == name {
			return true
		}
	}
	return false
}

// IsEmpty returns true if the tile contains no features
func (t *Tile) IsEmpty() bool {
	return t.FeatureCount() == 0
}

// MapTile converts the id to its orb representation
func (tid TileID) MapTile() maptile.Tile {
	return maptile.New(uint32(tid.X), uint32(tid.Y), maptile.Zoom(tid.Z))
}

// String returns the id as z/x/y
func (tid TileID) String() string {
	return fmt.Sprintf("%d/%d/%d", tid.Z, tid.X, tid.Y)
}

// Validate checks that the coordinates exist at the tile's zoom level
func (tid TileID) Validate() error {
	if tid.Z < 0 || tid.Z > maxZoom {
		return fmt.Errorf("invalid zoom level %d: must be between 0 and %d", tid.Z, maxZoom)
	}

	maxTile := 1 << uint(tid.Z)
	if tid.X < 0 || tid.X >= maxTile {
		return fmt.Errorf("invalid X coordinate %d for zoom %d: must be between 0 and %d", tid.X, tid.Z, maxTile-1)
	}
	if tid.Y < 0 || tid.Y >= maxTile {
		return fmt.Errorf("invalid Y coordinate %d for zoom %d: must be between 0 and %d", tid.Y, tid.Z, maxTile-1)
	}
	return nil
}

// ParseTileID extracts the tile id from a path ending in z/x/y.ext, with an
// optional trailing .gz.
func ParseTileID(path string) (TileID, error) {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) < 3 {
		return TileID{}, fmt.Errorf("invalid tile path %q: expected z/x/y", path)
	}
	parts = parts[len(parts)-3:]

	name := strings.TrimSuffix(parts[2], ".gz")
	name = strings.TrimSuffix(name, filepath.Ext(name))

	var (
		id  TileID
		err error
	)
	if id.Z, err = parseCoordinate("Z", parts[0]); err != nil {
		return TileID{}, err
	}
	if id.X, err = parseCoordinate("X", parts[1]); err != nil {
		return TileID{}, err
	}
	if id.Y, err = parseCoordinate("Y", name); err != nil {
		return TileID{}, err
	}
	return id, id.Validate()
}

func parseCoordinate(axis, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s coordinate: %s", axis, raw)
	}
	return n, nil
}
