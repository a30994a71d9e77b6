package core

import (
	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/store/view"
)

// GraphSelection is the part of every algorithm config that the template
// itself consumes to build the graph view: relationship types, the
// orientation, concurrency, and (for weighted algorithms) the per-type
// property selector (spec §6's "graphName, mode" mandatory-field framing,
// generalized to the view-construction fields every algorithm shares).
type GraphSelection struct {
	RelationshipTypes []string
	Orientation       view.Orientation
	PropertySelectors map[string]string // relationship type -> property name
	Concurrency       int
}

// Config is implemented by every algorithm's own config struct. Beyond
// GraphSelection, each algorithm's config carries its own fields (source,
// k, maxIterations, ...) validated by that algorithm's ValidateConfig.
type Config interface {
	GraphSelection() GraphSelection
}

// RawConfig is the JSON-object-shaped input every facade accepts (§6):
// string keys in camelCase, values of any JSON-compatible type. Per spec,
// validation rejects unknown keys at runtime — ValidateKnownKeys below is
// the shared helper every algorithm's ValidateConfig calls first.
type RawConfig map[string]any

// ValidateKnownKeys fails with gdserr.ErrInvalidParameter if raw contains
// any key not present in allowed.
func ValidateKnownKeys(raw RawConfig, allowed ...string) error {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		allowedSet[k] = struct{}{}
	}
	for k := range raw {
		if _, ok := allowedSet[k]; !ok {
			return gdserr.InvalidParameter("unknown configuration key %q", k)
		}
	}
	return nil
}

// RequireString extracts a required non-empty string field.
func RequireString(raw RawConfig, key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", gdserr.InvalidParameter("missing required field %q", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", gdserr.InvalidParameter("field %q must be a non-empty string", key)
	}
	return s, nil
}

// OptString extracts an optional string field, returning def if absent.
func OptString(raw RawConfig, key, def string) string {
	if v, ok := raw[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// RequireInt64 extracts a required integer field (JSON numbers decode as
// float64; this truncates and validates no fractional part was supplied).
func RequireInt64(raw RawConfig, key string) (int64, error) {
	v, ok := raw[key]
	if !ok {
		return 0, gdserr.InvalidParameter("missing required field %q", key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, gdserr.InvalidParameter("field %q must be a number", key)
	}
	if f != float64(int64(f)) {
		return 0, gdserr.InvalidParameter("field %q must be an integer, got %v", key, f)
	}
	return int64(f), nil
}

// OptInt64 extracts an optional integer field, returning def if absent.
func OptInt64(raw RawConfig, key string, def int64) int64 {
	if v, ok := raw[key]; ok {
		if f, ok := v.(float64); ok {
			return int64(f)
		}
	}
	return def
}

// OptFloat64 extracts an optional float field, returning def if absent.
func OptFloat64(raw RawConfig, key string, def float64) float64 {
	if v, ok := raw[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

// OptStringSlice extracts an optional []string field from a raw JSON
// value (decoded as []any of strings), returning def if absent.
func OptStringSlice(raw RawConfig, key string, def []string) []string {
	v, ok := raw[key]
	if !ok {
		return def
	}
	items, ok := v.([]any)
	if !ok {
		return def
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ParseGraphSelection builds the common GraphSelection fields out of a
// RawConfig, applying the spec §9 permissive orientation default.
func ParseGraphSelection(raw RawConfig, defaultConcurrency int) GraphSelection {
	types := OptStringSlice(raw, "relationshipTypes", []string{"*"})
	direction := OptString(raw, "direction", "outgoing")
	orientation, _ := view.ParseOrientation(direction)
	concurrency := int(OptInt64(raw, "concurrency", int64(defaultConcurrency)))

	selectors := make(map[string]string)
	if raw, ok := raw["relationshipWeightProperty"]; ok {
		if s, ok := raw.(string); ok {
			for _, t := range types {
				selectors[t] = s
			}
		}
	}

	return GraphSelection{
		RelationshipTypes: types,
		Orientation:       orientation,
		PropertySelectors: selectors,
		Concurrency:       concurrency,
	}
}
