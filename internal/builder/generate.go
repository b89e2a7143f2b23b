package builder

import (
	"context"
	"os"
	"path/filepath"

	"github.com/qobs-build/qtvendor/internal/builder/gen"
	"github.com/qobs-build/qtvendor/internal/errors"
	"github.com/qobs-build/qtvendor/internal/fwd"
	"github.com/qobs-build/qtvendor/internal/msg"
	"github.com/qobs-build/qtvendor/internal/qtconf"
	"golang.org/x/sync/errgroup"
)

// Layout is the directory tree generated for one module:
//
//	<root>/<configname>/                   public config headers
//	<root>/<configname>/private/           private config headers
//	<root>/forwarding/<Module>/            filename and type-name forwarding headers
//	<root>/forwarding/<Module>/private/    private filename forwarding headers
type Layout struct {
	Root       string
	Module     string
	ConfigName string
}

func NewLayout(root string, cfg qtconf.ModuleConfig) Layout {
	return Layout{Root: root, Module: cfg.Name(), ConfigName: cfg.ConfigName()}
}

func (l Layout) ConfigDir() string        { return filepath.Join(l.Root, l.ConfigName) }
func (l Layout) ConfigPrivateDir() string { return filepath.Join(l.ConfigDir(), "private") }
func (l Layout) ForwardingRoot() string   { return filepath.Join(l.Root, "forwarding") }
func (l Layout) ForwardingDir() string    { return filepath.Join(l.ForwardingRoot(), l.Module) }
func (l Layout) ForwardingPrivateDir() string {
	return filepath.Join(l.ForwardingDir(), "private")
}

// Dirs lists the directories Generate creates
func (l Layout) Dirs() []string {
	return []string{l.ConfigDir(), l.ConfigPrivateDir(), l.ForwardingDir(), l.ForwardingPrivateDir()}
}

// IncludeDirs lists the compiler include paths, config dirs first: when a
// config header and a forwarding header share a name, the config one wins.
// The two roots make <Module/header.h> style includes work.
func (l Layout) IncludeDirs() []string {
	return []string{
		l.Root,
		l.ConfigDir(),
		l.ConfigPrivateDir(),
		l.ForwardingRoot(),
		l.ForwardingDir(),
		l.ForwardingPrivateDir(),
	}
}

// Config header paths
func (l Layout) GlobalConfigHeader() string { return filepath.Join(l.ConfigDir(), "qconfig.h") }
func (l Layout) GlobalPrivateConfigHeader() string {
	return filepath.Join(l.ConfigPrivateDir(), "qconfig_p.h")
}
func (l Layout) ModuleConfigHeader() string {
	return filepath.Join(l.ConfigDir(), l.ConfigName+"-config.h")
}
func (l Layout) ModulePrivateConfigHeader() string {
	return filepath.Join(l.ConfigPrivateDir(), l.ConfigName+"-config_p.h")
}

// Generated describes the output of Generate
type Generated struct {
	Layout        Layout
	ConfigHeaders int
	FilenameFwd   int
	TypeFwd       int
	PrivateFwd    int
}

// IncludeDirs is Layout.IncludeDirs
func (g *Generated) IncludeDirs() []string { return g.Layout.IncludeDirs() }

func scannerFor(cfg qtconf.ModuleConfig, scanner fwd.TypeScanner) fwd.TypeScanner {
	if scanner != nil {
		return scanner
	}
	prefix := cfg.TypePrefix()
	if prefix == "" {
		prefix = fwd.DefaultPrefix
	}
	return fwd.LexicalScanner{Prefix: prefix}
}

// verifyInputs fails on the first declared header, source or platform
// header that does not exist
func verifyInputs(cfg qtconf.ModuleConfig) error {
	paths := cfg.Sources()
	for _, h := range cfg.Headers() {
		paths = append(paths, h.Path)
	}
	if pd := cfg.PlatformDefs(); pd != "" {
		paths = append(paths, pd)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return errors.SourceNotFound(err, p)
		}
	}
	return nil
}

func writeHeader(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.WriteFailure(err, path)
	}
	return nil
}

// Generate writes the config and forwarding headers of cfg below out. A nil
// scanner selects a LexicalScanner using the module's type prefix.
//
// The first failure aborts; out may then be partially populated, and
// running Generate again with the same input replaces everything.
func Generate(cfg qtconf.ModuleConfig, out string, scanner fwd.TypeScanner) (*Generated, error) {
	scanner = scannerFor(cfg, scanner)
	layout := NewLayout(out, cfg)
	res := &Generated{Layout: layout}

	if err := verifyInputs(cfg); err != nil {
		return nil, err
	}

	// step 1: directories
	for _, dir := range layout.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.DirectoryCreation(err, dir)
		}
	}

	// step 2: config headers
	configHeaders := []struct {
		path  string
		scope qtconf.Scope
	}{
		{layout.GlobalConfigHeader(), qtconf.GlobalPublic},
		{layout.GlobalPrivateConfigHeader(), qtconf.GlobalPrivate},
		{layout.ModuleConfigHeader(), qtconf.ModulePublic},
		{layout.ModulePrivateConfigHeader(), qtconf.ModulePrivate},
	}
	for _, h := range configHeaders {
		text := qtconf.RenderConfigHeader(cfg.Features(h.scope), cfg.Defines(h.scope))
		if err := writeHeader(h.path, text); err != nil {
			return nil, err
		}
		res.ConfigHeaders++
	}
	if pd := cfg.PlatformDefs(); pd != "" {
		if err := fwd.WriteForwardingHeader(filepath.Join(layout.ConfigDir(), filepath.Base(pd)), pd); err != nil {
			return nil, err
		}
		res.ConfigHeaders++
	}

	// step 3: forwarding headers. Public and private write disjoint
	// directories from the same read-only header list. Type-name headers
	// share the public directory with filename headers, so they run after
	// them in the same task to keep collisions deterministic.
	public, private := fwd.Split(cfg.Headers())
	var eg errgroup.Group
	eg.Go(func() error {
		n, err := fwd.WriteFilenameHeaders(layout.ForwardingDir(), public)
		res.FilenameFwd = n
		if err != nil {
			return err
		}
		res.TypeFwd, err = fwd.WriteTypeHeaders(layout.ForwardingDir(), public, scanner)
		return err
	})
	eg.Go(func() error {
		var err error
		res.PrivateFwd, err = fwd.WriteFilenameHeaders(layout.ForwardingPrivateDir(), private)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	msg.Debug("%s: %d config, %d filename, %d type-name, %d private forwarding headers",
		cfg.Name(), res.ConfigHeaders, res.FilenameFwd, res.TypeFwd, res.PrivateFwd)
	return res, nil
}

// CompileOptions is what the compiler needs beyond the ModuleConfig
type CompileOptions struct {
	OutDir      string // generated headers
	BuildDir    string // objects and the archive
	SourceDir   string
	Scanner     fwd.TypeScanner
	IncludeDirs []string // searched after the generated directories
	Defines     []gen.Define
	Target      string
	Host        string
	OptLevel    string
	Cflags      []string
	CxxStd      string
}

// Compile generates the headers of cfg and hands the generated include
// directories and the module sources to driver, exactly once. Nothing is
// compiled when generation fails; compiler failures are returned as-is.
func Compile(ctx context.Context, cfg qtconf.ModuleConfig, opts CompileOptions, driver gen.Driver) (gen.Artifact, error) {
	generated, err := Generate(cfg, opts.OutDir, opts.Scanner)
	if err != nil {
		return gen.Artifact{}, err
	}

	includeDirs := append(generated.IncludeDirs(), opts.IncludeDirs...)
	return driver.Compile(ctx, gen.Job{
		Name:        cfg.ConfigName(),
		BuildDir:    opts.BuildDir,
		SourceDir:   opts.SourceDir,
		IncludeDirs: includeDirs,
		Sources:     cfg.Sources(),
		Defines:     opts.Defines,
		Target:      opts.Target,
		Host:        opts.Host,
		OptLevel:    opts.OptLevel,
		Cflags:      opts.Cflags,
		CxxStd:      opts.CxxStd,
	})
}
