// pkg/style/style.go - Style attribute sets and the built-in default table
package style

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cast"
	"go.uber.org/multierr"
)

// Kind is a geometry kind as named by GeoJSON.
type Kind string

const (
	KindPoint           = Kind(geojson.TypePoint)
	KindMultiPoint      = Kind(geojson.TypeMultiPoint)
	KindLineString      = Kind(geojson.TypeLineString)
	KindMultiLineString = Kind(geojson.TypeMultiLineString)
	KindPolygon         = Kind(geojson.TypePolygon)
	KindMultiPolygon    = Kind(geojson.TypeMultiPolygon)
)

// Kinds lists every kind that has a default style.
var Kinds = []Kind{
	KindPoint, KindMultiPoint,
	KindLineString, KindMultiLineString,
	KindPolygon, KindMultiPolygon,
}

// IsPointLike reports whether the kind is drawn as markers.
func (k Kind) IsPointLike() bool {
	return k == KindPoint || k == KindMultiPoint
}

// Valid reports whether the kind is one of Kinds.
func (k Kind) Valid() bool {
	for _, kk := range Kinds {
		if k == kk {
			return true
		}
	}
	return false
}

// Attribute names understood by the renderer
const (
	AttrColor      = "color"
	AttrRadius     = "radius"
	AttrWidthSegs  = "widthSegs"
	AttrHeightSegs = "heightSegs"
	AttrLineWidth  = "linewidth"
	AttrScale      = "scale"
	AttrDashSize   = "dashSize"
	AttrGapSize    = "gapSize"
)

// Set is a flat mapping of attribute names to values.
type Set map[string]any

// Clone returns a shallow copy. A nil set clones to an empty one.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge returns a new set holding s overridden attribute by attribute by
// over. Nil values in over never replace a value. Neither input is modified.
func (s Set) Merge(over Set) Set {
	out := s.Clone()
	for k, v := range over {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// Has reports whether the attribute is present.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Float returns the attribute coerced to float64.
func (s Set) Float(name string) (float64, bool) {
	v, ok := s[name]
	if !ok {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	return f, err == nil
}

// Int returns the attribute coerced to int.
func (s Set) Int(name string) (int, bool) {
	v, ok := s[name]
	if !ok {
		return 0, false
	}
	i, err := cast.ToIntE(v)
	return i, err == nil
}

// Color parses the color attribute. Numbers are used as is, strings may be
// written as "0xRRGGBB", "#RRGGBB" or plain decimal.
func (s Set) Color() (uint32, error) {
	v, ok := s[AttrColor]
	if !ok {
		return 0, fmt.Errorf("no %s attribute", AttrColor)
	}
	return ParseColor(v)
}

// ParseColor converts a color value into a 24 bit RGB integer.
func ParseColor(v any) (uint32, error) {
	if str, ok := v.(string); ok {
		str = strings.TrimSpace(str)
		base := 10
		switch {
		case strings.HasPrefix(str, "0x"), strings.HasPrefix(str, "0X"):
			str, base = str[2:], 16
		case strings.HasPrefix(str, "#"):
			str, base = str[1:], 16
		}
		n, err := strconv.ParseUint(str, base, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", v, err)
		}
		return checkColor(n)
	}
	n, err := cast.ToUint64E(v)
	if err != nil {
		return 0, fmt.Errorf("invalid color %v: %w", v, err)
	}
	return checkColor(n)
}

func checkColor(n uint64) (uint32, error) {
	if n > 0xFFFFFF {
		return 0, fmt.Errorf("color 0x%X out of range", n)
	}
	return uint32(n), nil
}

// Material names for line rendering
const (
	MaterialBasic  = "basic"
	MaterialDashed = "dashed"
)

// LineMaterial picks the dashed material when any dash attribute is present.
func LineMaterial(s Set) string {
	if s.Has(AttrScale) || s.Has(AttrDashSize) || s.Has(AttrGapSize) {
		return MaterialDashed
	}
	return MaterialBasic
}

var (
	floatAttrs = []string{AttrRadius, AttrLineWidth, AttrScale, AttrDashSize, AttrGapSize}
	intAttrs   = []string{AttrWidthSegs, AttrHeightSegs}
)

// Normalize returns a copy of s with known attributes converted to the
// types a renderer consumes: color becomes a 24 bit integer, sizes become
// float64 and segment counts int. An unparseable color is replaced by
// black, the built-in color, and other unparseable values are kept as they
// are. Every conversion failure is reported in the returned error.
func Normalize(s Set) (Set, error) {
	out := s.Clone()
	var errs error

	if out.Has(AttrColor) {
		c, err := out.Color()
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		out[AttrColor] = c
	}
	for _, name := range floatAttrs {
		if !out.Has(name) {
			continue
		}
		if f, ok := out.Float(name); ok {
			out[name] = f
		} else {
			errs = multierr.Append(errs, fmt.Errorf("invalid %s %v", name, out[name]))
		}
	}
	for _, name := range intAttrs {
		if !out.Has(name) {
			continue
		}
		if i, ok := out.Int(name); ok {
			out[name] = i
		} else {
			errs = multierr.Append(errs, fmt.Errorf("invalid %s %v", name, out[name]))
		}
	}
	return out, errs
}

// Names returns the attribute names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Defaults is the per-kind base style table. It is read only; accessors hand
// out copies.
type Defaults struct {
	table map[Kind]Set
}

func builtinTable() map[Kind]Set {
	point := func() Set {
		return Set{AttrRadius: 0.01, AttrWidthSegs: 8, AttrHeightSegs: 6, AttrColor: "0x000000"}
	}
	line := func() Set {
		return Set{AttrLineWidth: 1, AttrColor: "0x000000"}
	}
	return map[Kind]Set{
		KindPoint:           point(),
		KindMultiPoint:      point(),
		KindLineString:      line(),
		KindMultiLineString: line(),
		KindPolygon:         line(),
		KindMultiPolygon:    line(),
	}
}

// DefaultStyles returns the built-in table.
func DefaultStyles() Defaults {
	return Defaults{table: builtinTable()}
}

// NewDefaults returns the built-in table with overrides merged per kind.
// Overrides can add or replace attributes but never remove built-in ones.
func NewDefaults(overrides map[Kind]Set) (Defaults, error) {
	table := builtinTable()
	for k, s := range overrides {
		if !k.Valid() {
			return Defaults{}, fmt.Errorf("unknown geometry kind %q in default styles", k)
		}
		table[k] = table[k].Merge(s)
	}
	return Defaults{table: table}, nil
}

// For returns a copy of the default entry for kind. Unknown kinds resolve to
// an empty set.
func (d Defaults) For(kind Kind) Set {
	if d.table == nil {
		return builtinTable()[kind].Clone()
	}
	return d.table[kind].Clone()
}
