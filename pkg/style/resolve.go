// pkg/style/resolve.go - Layered style resolution
package style

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// Substitution is a draw-call scoped partial style table. Kinds it does not
// mention fall back to the defaults.
type Substitution map[Kind]Set

// Resolve merges the three style layers for a geometry of the given kind.
//
// Every substitution is laid over the default entry to form the base list,
// which holds just the default entry when there are no substitutions. Base
// entries and overrides are then paired by position; the shorter list is
// padded, overrides with empty sets and bases with the default entry. Each
// pair yields one style where the override wins. The result therefore has
// max(len(subs) or 1, len(overrides)) entries and each entry carries every
// default attribute for the kind.
func Resolve(kind Kind, defaults Defaults, subs []Substitution, overrides []Set) []Set {
	def := defaults.For(kind)

	bases := make([]Set, 0, len(subs))
	for _, sub := range subs {
		bases = append(bases, def.Merge(sub[kind]))
	}
	if len(bases) == 0 {
		bases = append(bases, def)
	}

	n := len(bases)
	if len(overrides) > n {
		n = len(overrides)
	}

	out := make([]Set, n)
	for i := 0; i < n; i++ {
		base := def
		if i < len(bases) {
			base = bases[i]
		}
		var over Set
		if i < len(overrides) {
			over = overrides[i]
		}
		out[i] = base.Merge(over)
	}
	return out
}

// canonicalNames maps lower-cased attribute names back to their canonical
// spelling. Config loaders fold key case, the renderer does not.
var canonicalNames = func() map[string]string {
	m := make(map[string]string)
	for _, n := range []string{
		AttrColor, AttrRadius, AttrWidthSegs, AttrHeightSegs,
		AttrLineWidth, AttrScale, AttrDashSize, AttrGapSize,
	} {
		m[strings.ToLower(n)] = n
	}
	return m
}()

// CanonicalName returns the canonical spelling of a known attribute name, or
// name unchanged.
func CanonicalName(name string) string {
	if c, ok := canonicalNames[strings.ToLower(name)]; ok {
		return c
	}
	return name
}

// ParseKind matches a geometry kind name case-insensitively.
func ParseKind(name string) (Kind, bool) {
	for _, k := range Kinds {
		if strings.EqualFold(string(k), name) {
			return k, true
		}
	}
	return "", false
}

// ParseSet converts a loosely typed map into a Set. Null attributes are
// dropped.
func ParseSet(v any) (Set, bool) {
	if s, ok := v.(Set); ok {
		return s.Clone(), true
	}
	m, err := toStringMap(v)
	if err != nil {
		return nil, false
	}
	out := make(Set, len(m))
	for k, val := range m {
		if val == nil {
			continue
		}
		out[CanonicalName(k)] = val
	}
	return out, true
}

// toStringMap accepts the package's own map types on top of whatever cast
// understands.
func toStringMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case Set:
		return map[string]any(m), nil
	case Substitution:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[string(k)] = s
		}
		return out, nil
	case string:
		// cast would try to decode JSON here
		return nil, fmt.Errorf("unable to cast %q to map", m)
	}
	return cast.ToStringMapE(v)
}

// ParseSubstitutions validates a draw-call substitution list. Entries that are
// not maps are reported and dropped. Inside an entry, unknown kinds are
// ignored and kind entries that are not maps are reported and ignored.
func ParseSubstitutions(raw []any, logger *zap.Logger) []Substitution {
	if logger == nil {
		logger = zap.NewNop()
	}
	subs := make([]Substitution, 0, len(raw))
	for i, entry := range raw {
		m, err := toStringMap(entry)
		if err != nil {
			logger.Warn("invalid substitution options, entry skipped",
				zap.Int("index", i), zap.Any("value", entry))
			continue
		}
		sub := make(Substitution, len(m))
		for name, v := range m {
			kind, ok := ParseKind(name)
			if !ok {
				logger.Debug("ignoring substitution for unknown kind",
					zap.Int("index", i), zap.String("kind", name))
				continue
			}
			set, ok := ParseSet(v)
			if !ok {
				logger.Warn("invalid substitution options for kind, ignored",
					zap.Int("index", i), zap.String("kind", name), zap.Any("value", v))
				continue
			}
			sub[kind] = set
		}
		subs = append(subs, sub)
	}
	return subs
}

// ParseOverrides converts a feature's override property into a list of sets.
// A non-list value yields no overrides. Entries that are not maps count as
// empty sets so that positional pairing with the base list is kept.
func ParseOverrides(raw any, logger *zap.Logger) []Set {
	if raw == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if sets, ok := raw.([]Set); ok {
		out := make([]Set, len(sets))
		for i, s := range sets {
			out[i] = s.Clone()
		}
		return out
	}
	list, err := cast.ToSliceE(raw)
	if err != nil {
		logger.Debug("feature style overrides are not a list", zap.Any("value", raw))
		return nil
	}
	out := make([]Set, len(list))
	for i, entry := range list {
		set, ok := ParseSet(entry)
		if !ok {
			logger.Debug("feature style override is not a map",
				zap.Int("index", i), zap.Any("value", entry))
			set = Set{}
		}
		out[i] = set
	}
	return out
}

// ParseDefaults converts a loosely typed kind -> attributes map, as found in
// configuration, into Defaults.
func ParseDefaults(raw map[string]any) (Defaults, error) {
	overrides := make(map[Kind]Set, len(raw))
	for name, v := range raw {
		kind, ok := ParseKind(name)
		if !ok {
			kind = Kind(name) // rejected by NewDefaults
		}
		set, ok := ParseSet(v)
		if !ok {
			return Defaults{}, &InvalidStyleError{Kind: name, Value: v}
		}
		overrides[kind] = set
	}
	return NewDefaults(overrides)
}

// InvalidStyleError reports a default style entry that is not a map.
type InvalidStyleError struct {
	Kind  string
	Value any
}

func (e *InvalidStyleError) Error() string {
	return "invalid default style for " + e.Kind + ": not a map"
}
