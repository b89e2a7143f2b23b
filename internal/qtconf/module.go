package qtconf

import (
	"path/filepath"
	"slices"
	"strings"
)

// PrivateHeaderMarker marks a header as internal to its module (qobject_p.h)
const PrivateHeaderMarker = "_p.h"

// HeaderFile is a header of the module being built.
type HeaderFile struct {
	Path string
}

func (h HeaderFile) BaseName() string { return filepath.Base(h.Path) }

// IsPrivate reports whether the header follows the private naming convention
func (h HeaderFile) IsPrivate() bool {
	return strings.Contains(h.BaseName(), PrivateHeaderMarker)
}

// ModuleConfig is everything needed to generate the headers of one module
// and compile it. It is an immutable value: the With* methods return an
// updated copy and perform no I/O. Build a fresh one per module per build.
type ModuleConfig struct {
	name         string
	typePrefix   string
	features     [numScopes]FeatureSet
	defines      [numScopes]DefineSet
	platformDefs string
	headers      []HeaderFile
	sources      []string
}

func NewModuleConfig(name string) ModuleConfig {
	return ModuleConfig{name: name}
}

func (c ModuleConfig) Name() string { return c.name }

// ConfigName is the lower-cased module name used for the config directory
// and the "<name>-config.h" headers.
func (c ModuleConfig) ConfigName() string { return strings.ToLower(c.name) }

// TypePrefix is the namespace prefix type-name scanning looks for. Empty
// means the caller picks a default.
func (c ModuleConfig) TypePrefix() string { return c.typePrefix }

func (c ModuleConfig) Features(scope Scope) FeatureSet { return c.features[scope] }

func (c ModuleConfig) Defines(scope Scope) DefineSet { return c.defines[scope] }

func (c ModuleConfig) PlatformDefs() string { return c.platformDefs }

func (c ModuleConfig) Headers() []HeaderFile { return slices.Clone(c.headers) }

func (c ModuleConfig) Sources() []string { return slices.Clone(c.sources) }

// the arrays are copied with c; the slices must not be shared
func (c ModuleConfig) clone() ModuleConfig {
	c.headers = slices.Clone(c.headers)
	c.sources = slices.Clone(c.sources)
	return c
}

func (c ModuleConfig) WithTypePrefix(prefix string) ModuleConfig {
	c.typePrefix = prefix
	return c
}

func (c ModuleConfig) WithFeature(scope Scope, name string, enabled bool) ModuleConfig {
	c = c.clone()
	c.features[scope] = c.features[scope].With(name, enabled)
	return c
}

func (c ModuleConfig) WithFeatures(scope Scope, features ...Feature) ModuleConfig {
	c = c.clone()
	set := c.features[scope]
	for _, f := range features {
		set = set.With(f.Name, f.Enabled)
	}
	c.features[scope] = set
	return c
}

func (c ModuleConfig) WithDefine(scope Scope, key, value string) ModuleConfig {
	c = c.clone()
	c.defines[scope] = c.defines[scope].With(key, value)
	return c
}

func (c ModuleConfig) WithDefines(scope Scope, defines ...Define) ModuleConfig {
	c = c.clone()
	set := c.defines[scope]
	for _, d := range defines {
		set = set.With(d.Key, d.Value)
	}
	c.defines[scope] = set
	return c
}

// WithPlatformDefs sets the qplatformdefs.h the config directory forwards to
func (c ModuleConfig) WithPlatformDefs(path string) ModuleConfig {
	c.platformDefs = path
	return c
}

// WithHeaders appends headers, keeping their order
func (c ModuleConfig) WithHeaders(paths ...string) ModuleConfig {
	c = c.clone()
	for _, p := range paths {
		c.headers = append(c.headers, HeaderFile{Path: p})
	}
	return c
}

// WithSources appends source files, keeping their order
func (c ModuleConfig) WithSources(paths ...string) ModuleConfig {
	c = c.clone()
	c.sources = append(c.sources, paths...)
	return c
}
