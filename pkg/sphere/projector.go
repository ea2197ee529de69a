// pkg/sphere/projector.go - Geographic to unit-sphere coordinate projection
package sphere

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// Axis describes the polar axis tilt of the globe. It is derived once per
// draw call and shared by every projection made during it.
type Axis struct {
	Angle s1.Angle // tilt, positive values lean the north pole towards +X

	// components of the tilt axis unit vector in the XY plane
	X float64
	Y float64

	sin, cos float64
}

// NewAxis builds an Axis from a tilt given in degrees.
func NewAxis(tiltDeg float64) Axis {
	alpha := s1.Angle(tiltDeg) * s1.Degree
	return Axis{
		Angle: alpha,
		X:     math.Cos(math.Pi/2 - alpha.Radians()),
		Y:     math.Sin(math.Pi/2 - alpha.Radians()),
		sin:   math.Sin(alpha.Radians()),
		cos:   math.Cos(alpha.Radians()),
	}
}

// Vector returns the tilt axis as a unit vector.
func (a Axis) Vector() r3.Vector {
	return r3.Vector{X: a.X, Y: a.Y, Z: 0}
}

// Endpoints returns the two ends of the axis segment drawn through the globe,
// scale units away from the centre on each side.
func (a Axis) Endpoints(scale float64) (r3.Vector, r3.Vector) {
	v := a.Vector().Mul(scale)
	return v.Mul(-1), v
}

// rotate applies the tilt as a rotation in the XY plane.
func (a Axis) rotate(x, y float64) (float64, float64) {
	return x*a.cos + y*a.sin, -x*a.sin + y*a.cos
}

// Spin rotates v by angle around the tilt axis (Rodrigues' formula).
func (a Axis) Spin(v r3.Vector, angle s1.Angle) r3.Vector {
	k := a.Vector()
	sin, cos := math.Sin(angle.Radians()), math.Cos(angle.Radians())
	return v.Mul(cos).
		Add(k.Cross(v).Mul(sin)).
		Add(k.Mul(k.Dot(v) * (1 - cos)))
}

// Projector maps geographic coordinates onto a sphere of the given radius
// whose polar axis is tilted according to Axis. A non-zero Spin rotates
// every result about the axis.
type Projector struct {
	Axis   Axis
	Radius float64
	Spin   s1.Angle
}

// NewProjector creates a projector for the unit sphere.
func NewProjector(axis Axis) *Projector {
	return &Projector{Axis: axis, Radius: 1}
}

// Project converts a lon/lat point in degrees into a position on the sphere.
// Input is not range checked, out of range values yield the plain image of
// the formula.
func (p *Projector) Project(pt orb.Point) r3.Vector {
	return p.ProjectLatLng(s2.LatLngFromDegrees(pt.Lat(), pt.Lon()))
}

// ProjectLatLng converts a point already expressed in radians.
func (p *Projector) ProjectLatLng(ll s2.LatLng) r3.Vector {
	lon := -ll.Lng.Radians()
	lat := ll.Lat.Radians()

	xz := math.Cos(lat)
	x, y := p.Axis.rotate(xz*math.Cos(lon), math.Sin(lat))
	v := r3.Vector{X: x, Y: y, Z: xz * math.Sin(lon)}

	if p.Radius != 0 && p.Radius != 1 {
		v = v.Mul(p.Radius)
	}
	if p.Spin != 0 {
		v = p.Axis.Spin(v, p.Spin)
	}
	return v
}

// ProjectPath projects every point of a radian path in order.
func (p *Projector) ProjectPath(path []s2.LatLng) []r3.Vector {
	out := make([]r3.Vector, len(path))
	for i, ll := range path {
		out[i] = p.ProjectLatLng(ll)
	}
	return out
}

// ProjectPoints projects a batch of degree points in order.
func (p *Projector) ProjectPoints(points []orb.Point) []r3.Vector {
	out := make([]r3.Vector, len(points))
	for i, pt := range points {
		out[i] = p.Project(pt)
	}
	return out
}

// ToLatLngPath converts a degree path into radians.
func ToLatLngPath(points []orb.Point) []s2.LatLng {
	out := make([]s2.LatLng, len(points))
	for i, pt := range points {
		out[i] = s2.LatLngFromDegrees(pt.Lat(), pt.Lon())
	}
	return out
}
