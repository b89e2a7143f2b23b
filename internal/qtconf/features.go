// Package qtconf models the Qt configuration of one module: layered feature
// flags and defines, the immutable ModuleConfig that carries them, and the
// rendering of that model into configuration header text.
package qtconf

import "slices"

// Scope selects one of the four feature/define buckets.
type Scope int

const (
	GlobalPublic Scope = iota
	GlobalPrivate
	ModulePublic
	ModulePrivate

	numScopes
)

var scopeNames = [numScopes]string{"global", "global-private", "module", "module-private"}

func (s Scope) String() string {
	if s < 0 || s >= numScopes {
		return "invalid"
	}
	return scopeNames[s]
}

// Private reports whether the scope renders into a private/ header
func (s Scope) Private() bool { return s == GlobalPrivate || s == ModulePrivate }

// Feature is a named boolean rendered as a QT_FEATURE_* macro
type Feature struct {
	Name    string
	Enabled bool
}

// Define is a literal macro substitution
type Define struct {
	Key   string
	Value string
}

// FeatureSet is an insertion-ordered set of features with unique names.
// The zero value is an empty set. Sets are never mutated in place; With
// returns a new set.
type FeatureSet struct {
	items []Feature
}

// With returns a copy of s where name is set to enabled. An existing entry
// keeps its position and takes the new value.
func (s FeatureSet) With(name string, enabled bool) FeatureSet {
	items := slices.Clone(s.items)
	if i := slices.IndexFunc(items, func(f Feature) bool { return f.Name == name }); i >= 0 {
		items[i].Enabled = enabled
	} else {
		items = append(items, Feature{Name: name, Enabled: enabled})
	}
	return FeatureSet{items: items}
}

// Lookup returns the value of name and whether it is present
func (s FeatureSet) Lookup(name string) (enabled, ok bool) {
	for _, f := range s.items {
		if f.Name == name {
			return f.Enabled, true
		}
	}
	return false, false
}

func (s FeatureSet) Len() int { return len(s.items) }

// All returns the features in insertion order
func (s FeatureSet) All() []Feature { return slices.Clone(s.items) }

// DefineSet is the DefineEntry counterpart of FeatureSet.
type DefineSet struct {
	items []Define
}

// With returns a copy of s where key is set to value (last write wins).
func (s DefineSet) With(key, value string) DefineSet {
	items := slices.Clone(s.items)
	if i := slices.IndexFunc(items, func(d Define) bool { return d.Key == key }); i >= 0 {
		items[i].Value = value
	} else {
		items = append(items, Define{Key: key, Value: value})
	}
	return DefineSet{items: items}
}

func (s DefineSet) Lookup(key string) (value string, ok bool) {
	for _, d := range s.items {
		if d.Key == key {
			return d.Value, true
		}
	}
	return "", false
}

func (s DefineSet) Len() int { return len(s.items) }

func (s DefineSet) All() []Define { return slices.Clone(s.items) }
