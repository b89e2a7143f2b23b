package builder

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/qobs-build/qtvendor/internal/builder/gen"
	"github.com/qobs-build/qtvendor/internal/msg"
	"github.com/qobs-build/qtvendor/internal/qtconf"
)

const (
	GeneratorNinja = "ninja"
	GeneratorQobs  = "qobs"
)

// Builder builds the module described by a QtModule.toml.
type Builder struct {
	cfg     *Config
	basedir string
	env     ConfigEnv
}

// NewBuilderInDirectory reads the QtModule.toml in path. Conditional
// sections see the platform of target, or of [target] triple when target is
// empty, and the host platform when neither names one.
func NewBuilderInDirectory(path, target string) (*Builder, error) {
	var err error
	path, err = filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	file := filepath.Join(path, ConfigFilename)
	env := NewConfigEnv(path)
	cfg, err := ParseConfigFromFile(file, env)
	if err != nil {
		return nil, err
	}

	if triple := cmp.Or(target, cfg.Target.Triple); triple != "" {
		if tenv := env.ForTriple(triple); tenv.TargetOS != env.TargetOS || tenv.TargetArch != env.TargetArch {
			msg.Debug("evaluating %s for %s/%s", ConfigFilename, tenv.TargetOS, tenv.TargetArch)
			env = tenv
			if cfg, err = ParseConfigFromFile(file, env); err != nil {
				return nil, err
			}
		}
	}
	return &Builder{cfg: cfg, basedir: path, env: env}, nil
}

func (b *Builder) Config() *Config { return b.cfg }

// root is the absolute Qt checkout
func (b *Builder) root() string {
	return b.abs(b.cfg.Package.Root)
}

func (b *Builder) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(b.basedir, path)
}

// sourceDir is the absolute module source directory
func (b *Builder) sourceDir() string {
	if filepath.IsAbs(b.cfg.Package.SourceDir) {
		return filepath.Clean(b.cfg.Package.SourceDir)
	}
	return filepath.Join(b.root(), b.cfg.Package.SourceDir)
}

// BuildDir holds generated headers, objects and the archive
func (b *Builder) BuildDir() string {
	return filepath.Join(b.basedir, "build")
}

// OutDir holds the generated headers
func (b *Builder) OutDir() string {
	return filepath.Join(b.BuildDir(), "qt_headers")
}

// collectFiles expands patterns below dir into a sorted list of absolute
// file paths. Absolute patterns are taken as-is.
func collectFiles(dir string, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	fsys := os.DirFS(dir)

	for _, pat := range patterns {
		if filepath.IsAbs(pat) {
			seen[filepath.Clean(pat)] = struct{}{}
			continue
		}
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pat), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("while globbing %s in %s: %w", pat, dir, err)
		}
		if len(matches) == 0 && !strings.ContainsAny(pat, "*?[{") {
			// a literal path that does not exist: keep it so generation
			// reports it as a missing source
			seen[filepath.Join(dir, pat)] = struct{}{}
			continue
		}
		for _, match := range matches {
			seen[filepath.Join(dir, filepath.FromSlash(match))] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen)), nil
}

// ModuleConfig assembles the immutable module configuration: features and
// defines from [global] and [module], then the headers and sources found
// below source-dir. Map-valued buckets are inserted in sorted key order.
func (b *Builder) ModuleConfig() (qtconf.ModuleConfig, error) {
	c := b.cfg
	mc := qtconf.NewModuleConfig(c.Package.Name).WithTypePrefix(c.Package.TypePrefix)

	addScope := func(features map[string]bool, defines map[string]string, fscope qtconf.Scope) {
		for _, name := range slices.Sorted(maps.Keys(features)) {
			mc = mc.WithFeature(fscope, name, features[name])
		}
		for _, key := range slices.Sorted(maps.Keys(defines)) {
			mc = mc.WithDefine(fscope, key, defines[key])
		}
	}
	addScope(c.Global.Features, c.Global.Defines, qtconf.GlobalPublic)
	addScope(c.Global.PrivateFeatures, c.Global.PrivateDefines, qtconf.GlobalPrivate)
	addScope(c.Module.Features, c.Module.Defines, qtconf.ModulePublic)
	addScope(c.Module.PrivateFeatures, c.Module.PrivateDefines, qtconf.ModulePrivate)

	if c.Package.PlatformDefs != "" {
		pd := c.Package.PlatformDefs
		if !filepath.IsAbs(pd) {
			pd = filepath.Join(b.root(), pd)
		}
		mc = mc.WithPlatformDefs(pd)
	}

	headers, err := collectFiles(b.sourceDir(), c.Target.Headers)
	if err != nil {
		return mc, fmt.Errorf("failed to collect headers: %w", err)
	}
	sources, err := collectFiles(b.sourceDir(), c.Target.Sources)
	if err != nil {
		return mc, fmt.Errorf("failed to collect sources: %w", err)
	}
	msg.Debug("%s: %d headers, %d sources", c.Package.Name, len(headers), len(sources))

	return mc.WithHeaders(headers...).WithSources(sources...), nil
}

func createGenerator(generator string) gen.Driver {
	switch generator {
	case GeneratorNinja:
		return &gen.NinjaDriver{}
	case GeneratorQobs:
		return gen.NewArchiveBuilder()
	default:
		panic("createGenerator: unreachable")
	}
}

// prepare fetches the Qt checkout if needed and runs the build script
func (b *Builder) prepare() error {
	if _, err := os.Stat(b.root()); os.IsNotExist(err) {
		if b.cfg.Package.Source == "" {
			return fmt.Errorf("qt source root %s does not exist and [package] source is not set", b.root())
		}
		msg.Info("fetching %s into %s", b.cfg.Package.Source, b.root())
		if _, err := FetchSource(b.cfg.Package.Source, b.root()); err != nil {
			return fmt.Errorf("failed to fetch %s: %w", b.cfg.Package.Source, err)
		}
	}
	return b.cfg.RunBuildScript(b.env)
}

// Configure generates the headers only and returns the include directories
func (b *Builder) Configure(outDir string) (*Generated, error) {
	if outDir == "" {
		outDir = b.OutDir()
	}
	if err := b.prepare(); err != nil {
		return nil, err
	}
	mc, err := b.ModuleConfig()
	if err != nil {
		return nil, err
	}
	return Generate(mc, outDir, nil)
}

// BuildOptions overrides parts of the config from the command line
type BuildOptions struct {
	Profile   string
	Generator string
	Target    string
	Host      string
}

func (b *Builder) compileOptions(opts BuildOptions) (CompileOptions, error) {
	prof, ok := b.cfg.Profile[opts.Profile]
	if !ok {
		return CompileOptions{}, fmt.Errorf("unknown profile %q, known profiles: %s", opts.Profile, strings.Join(b.cfg.Profiles(), ", "))
	}

	t := b.cfg.Target
	co := CompileOptions{
		OutDir:    b.OutDir(),
		BuildDir:  b.BuildDir(),
		SourceDir: b.sourceDir(),
		Target:    cmp.Or(opts.Target, t.Triple),
		Host:      cmp.Or(opts.Host, t.Host),
		OptLevel:  prof.Level(),
		Cflags:    t.Cflags,
		CxxStd:    t.CxxStd,
	}
	for _, inc := range t.Includes {
		if filepath.IsAbs(inc) {
			co.IncludeDirs = append(co.IncludeDirs, inc)
		} else {
			co.IncludeDirs = append(co.IncludeDirs, filepath.Join(b.root(), inc))
		}
	}
	for _, name := range slices.Sorted(maps.Keys(t.Defines)) {
		co.Defines = append(co.Defines, gen.Define{Name: name, Value: t.Defines[name]})
	}
	return co, nil
}

// Build generates the headers and compiles the module into a static archive
func (b *Builder) Build(ctx context.Context, opts BuildOptions) (gen.Artifact, error) {
	co, err := b.compileOptions(opts)
	if err != nil {
		return gen.Artifact{}, err
	}
	if err := b.prepare(); err != nil {
		return gen.Artifact{}, err
	}
	mc, err := b.ModuleConfig()
	if err != nil {
		return gen.Artifact{}, err
	}

	cc, err := findCompiler(false, co.Target, co.Host)
	if err != nil {
		return gen.Artifact{}, err
	}
	cxx, err := findCompiler(true, co.Target, co.Host)
	if err != nil {
		return gen.Artifact{}, err
	}

	driver := createGenerator(opts.Generator)
	driver.SetCompiler(cc, cxx)
	return Compile(ctx, mc, co, driver)
}
