package builder

import (
	"github.com/pelletier/go-toml/v2"
	"github.com/qobs-build/qtvendor/internal/qtconf"
)

// SampleOptions are the [package] paths and [target] settings written by
// SampleConfig. Empty Headers and Sources fall back to every .h and .cpp.
type SampleOptions struct {
	Root      string
	Source    string
	SourceDir string
	Headers   []string
	Sources   []string
	Includes  []string
	Defines   []qtconf.Define
}

// WithPreset takes the source directory and [target] settings from p
func (o SampleOptions) WithPreset(p qtconf.BuildPreset) SampleOptions {
	o.SourceDir = p.SourceDir
	o.Headers = p.Headers
	o.Sources = p.Sources
	o.Includes = p.Includes
	o.Defines = p.Defines
	return o
}

func orDefault(patterns []string, def string) []string {
	if len(patterns) == 0 {
		return []string{def}
	}
	return patterns
}

func (o SampleOptions) targetTable() map[string]any {
	target := map[string]any{
		"headers": orDefault(o.Headers, "**/*.h"),
		"sources": orDefault(o.Sources, "**/*.cpp"),
		"cxx-std": "c++17",
	}
	if len(o.Includes) > 0 {
		target["includes"] = o.Includes
	}
	if len(o.Defines) > 0 {
		defines := make(map[string]string, len(o.Defines))
		for _, d := range o.Defines {
			defines[d.Key] = d.Value
		}
		target["defines"] = defines
	}
	return target
}

func scopeTable(mc qtconf.ModuleConfig, public, private qtconf.Scope) map[string]any {
	table := make(map[string]any)
	add := func(key string, features qtconf.FeatureSet) {
		if features.Len() == 0 {
			return
		}
		m := make(map[string]bool, features.Len())
		for _, f := range features.All() {
			m[f.Name] = f.Enabled
		}
		table[key] = m
	}
	addDefines := func(key string, defines qtconf.DefineSet) {
		if defines.Len() == 0 {
			return
		}
		m := make(map[string]string, defines.Len())
		for _, d := range defines.All() {
			m[d.Key] = d.Value
		}
		table[key] = m
	}
	add("features", mc.Features(public))
	add("private-features", mc.Features(private))
	addDefines("defines", mc.Defines(public))
	addDefines("private-defines", mc.Defines(private))
	return table
}

// SampleConfig renders a QtModule.toml describing mc. The platform-defs
// path of mc is written as-is and read back relative to root.
func SampleConfig(mc qtconf.ModuleConfig, opts SampleOptions) (string, error) {
	pkg := map[string]any{
		"name":       mc.Name(),
		"root":       opts.Root,
		"source-dir": opts.SourceDir,
	}
	if opts.Source != "" {
		pkg["source"] = opts.Source
	}
	if mc.TypePrefix() != "" {
		pkg["type-prefix"] = mc.TypePrefix()
	}
	if mc.PlatformDefs() != "" {
		pkg["platform-defs"] = mc.PlatformDefs()
	}

	raw := map[string]any{
		"package": pkg,
		"target":  opts.targetTable(),
	}
	if global := scopeTable(mc, qtconf.GlobalPublic, qtconf.GlobalPrivate); len(global) > 0 {
		raw["global"] = global
	}
	if module := scopeTable(mc, qtconf.ModulePublic, qtconf.ModulePrivate); len(module) > 0 {
		raw["module"] = module
	}

	b, err := toml.Marshal(raw)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
