// pkg/planet/renderer.go - Rendering collaborator interface and scene recorder
package planet

import (
	"github.com/golang/geo/r3"
	"go.uber.org/zap"

	"geojson-planet/pkg/sphere"
	"geojson-planet/pkg/style"
)

// Renderer turns sphere positions and resolved styles into visible geometry.
// Implementations own everything past this point; the globe only calls
// into it.
type Renderer interface {
	// DrawPoints renders a batch of markers sharing one style.
	DrawPoints(points []r3.Vector, set style.Set)
	// DrawPolyline renders one open polyline. Rings are not closed for
	// the renderer.
	DrawPolyline(path []r3.Vector, set style.Set)
}

// Position is a sphere position serialised as [x, y, z].
type Position [3]float64

func toPositions(vs []r3.Vector) []Position {
	out := make([]Position, len(vs))
	for i, v := range vs {
		out[i] = Position{v.X, v.Y, v.Z}
	}
	return out
}

// MarkerBatch is one recorded DrawPoints call.
type MarkerBatch struct {
	Positions []Position `json:"positions" yaml:"positions"`
	Style     style.Set  `json:"style" yaml:"style"`
}

// Polyline is one recorded DrawPolyline call. Distances holds the cumulative
// length along the line and is only filled for dashed materials.
type Polyline struct {
	Positions []Position `json:"positions" yaml:"positions"`
	Distances []float64  `json:"distances,omitempty" yaml:"distances,omitempty"`
	Material  string     `json:"material" yaml:"material"`
	Style     style.Set  `json:"style" yaml:"style"`
}

// Scene is everything a Recorder captured.
type Scene struct {
	Axis      [2]Position   `json:"axis" yaml:"axis"`
	Markers   []MarkerBatch `json:"markers" yaml:"markers"`
	Polylines []Polyline    `json:"polylines" yaml:"polylines"`
}

// PointCount returns the number of recorded marker positions.
func (s *Scene) PointCount() int {
	n := 0
	for _, m := range s.Markers {
		n += len(m.Positions)
	}
	return n
}

// VertexCount returns the number of recorded polyline vertices.
func (s *Scene) VertexCount() int {
	n := 0
	for _, p := range s.Polylines {
		n += len(p.Positions)
	}
	return n
}

// AxisScale is how far the drawn axis reaches past the unit sphere.
const AxisScale = 1.2

// Recorder is a Renderer that captures every call into a Scene. Styles are
// recorded normalized, see style.Normalize.
type Recorder struct {
	scene  Scene
	logger *zap.Logger
}

// NewRecorder creates a recorder for a globe tilted by axis. A nil logger
// disables logging.
func NewRecorder(axis sphere.Axis, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	lo, hi := axis.Endpoints(AxisScale)
	return &Recorder{
		scene: Scene{
			Axis:      [2]Position{{lo.X, lo.Y, lo.Z}, {hi.X, hi.Y, hi.Z}},
			Markers:   []MarkerBatch{},
			Polylines: []Polyline{},
		},
		logger: logger,
	}
}

func (r *Recorder) normalize(set style.Set) style.Set {
	out, err := style.Normalize(set)
	if err != nil {
		r.logger.Warn("invalid style attributes", zap.Error(err))
	}
	return out
}

// DrawPoints implements Renderer.
func (r *Recorder) DrawPoints(points []r3.Vector, set style.Set) {
	r.scene.Markers = append(r.scene.Markers, MarkerBatch{
		Positions: toPositions(points),
		Style:     r.normalize(set),
	})
}

// DrawPolyline implements Renderer.
func (r *Recorder) DrawPolyline(path []r3.Vector, set style.Set) {
	line := Polyline{
		Positions: toPositions(path),
		Material:  style.LineMaterial(set),
		Style:     r.normalize(set),
	}
	if line.Material == style.MaterialDashed {
		line.Distances = lineDistances(path)
	}
	r.scene.Polylines = append(r.scene.Polylines, line)
}

// Scene returns the recorded scene.
func (r *Recorder) Scene() *Scene {
	return &r.scene
}

// lineDistances returns the cumulative euclidean length at every vertex,
// which dashed line materials need.
func lineDistances(path []r3.Vector) []float64 {
	out := make([]float64, len(path))
	for i := 1; i < len(path); i++ {
		out[i] = out[i-1] + path[i].Sub(path[i-1]).Norm()
	}
	return out
}
