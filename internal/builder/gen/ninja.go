package gen

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/qobs-build/qtvendor/internal/errors"
	"github.com/qobs-build/qtvendor/internal/msg"
)

// NinjaDriver writes a build.ninja for the job and lets ninja build it.
type NinjaDriver struct {
	cc, cxx string
}

func (g *NinjaDriver) SetCompiler(cc, cxx string) {
	g.cc, g.cxx = cc, cxx
}

func (g *NinjaDriver) BuildFile() string { return "build.ninja" }

var ninjaPathEscaper = strings.NewReplacer("$", "$$", ":", "$:", " ", "$ ")

func quote(s string) string { return ninjaPathEscaper.Replace(s) }

// quoteFlags quotes flags for the shell ninja runs commands with
func quoteFlags(flags []string) string {
	return strings.ReplaceAll(shellquote.Join(flags...), "$", "$$")
}

// Generate renders the build file for job
func (g *NinjaDriver) Generate(job Job) string {
	var sb strings.Builder

	writeln(&sb, "ninja_required_version = 1.1")
	writeln(&sb, "cc = ", g.cc)
	writeln(&sb, "cxx = ", g.cxx)
	writeln(&sb, "cflags = ", quoteFlags(job.flags(g.cc, false)))
	writeln(&sb, "cxxflags = ", quoteFlags(job.flags(g.cxx, true)))
	writeln(&sb)

	write(&sb,
		`rule cc
  command = $cc $cflags -c $in -o $out
  description = CC $in
`)
	write(&sb,
		`rule cxx
  command = $cxx $cxxflags -c $in -o $out
  description = CXX $in
`)
	write(&sb,
		`rule ar
  command = rm -f $out && ar rcs $out $in
  description = AR $out
`)
	writeln(&sb)

	objects := make([]string, 0, len(job.Sources))
	for _, src := range job.Sources {
		rule := "cc"
		if isCxx(src) {
			rule = "cxx"
		}
		obj := quote(filepath.ToSlash(job.objectPath(src)))
		objects = append(objects, obj)
		writeln(&sb, "build ", obj, ": ", rule, " ", quote(filepath.ToSlash(src)))
	}
	writeln(&sb)

	archive := quote(filepath.ToSlash(job.archivePath()))
	writeln(&sb, "build ", archive, ": ar ", strings.Join(objects, " "))
	writeln(&sb, "default ", archive)

	return sb.String()
}

func (g *NinjaDriver) Compile(ctx context.Context, job Job) (Artifact, error) {
	artifact := Artifact{Name: job.Name, Path: job.archivePath()}

	if err := job.checkCompilers(g.cc, g.cxx); err != nil {
		return artifact, err
	}
	if err := os.MkdirAll(job.BuildDir, 0o755); err != nil {
		return artifact, errors.DirectoryCreation(err, job.BuildDir)
	}
	buildFile := filepath.Join(job.BuildDir, g.BuildFile())
	if err := os.WriteFile(buildFile, []byte(g.Generate(job)), 0o644); err != nil {
		return artifact, errors.WriteFailure(err, buildFile)
	}
	msg.Debug("wrote %s", buildFile)

	cmd := exec.CommandContext(ctx, "ninja", "-C", job.BuildDir)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return artifact, &errors.CompileError{Tool: "ninja", Args: cmd.Args[1:], Diagnostics: out.String(), Err: err}
	}
	msg.Output("    ", out.Bytes())
	return artifact, nil
}
