// Package gen drives the native toolchain once the headers are generated.
package gen

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
)

// Driver compiles a module's sources into a static archive.
type Driver interface {
	SetCompiler(cc, cxx string)
	// Compile builds job and returns the archive. A failure of the native
	// compiler is returned as an *errors.CompileError carrying its output.
	Compile(ctx context.Context, job Job) (Artifact, error)
}

// Define is a preprocessor define passed on the command line. An empty Value
// means -DNAME with no value.
type Define struct {
	Name  string
	Value string
}

func (d Define) Flag() string {
	if d.Value == "" {
		return "-D" + d.Name
	}
	return "-D" + d.Name + "=" + d.Value
}

// Job is everything the compiler needs for one module.
type Job struct {
	Name        string   // archive name, the output is lib<Name>.a
	BuildDir    string   // objects, state and the archive go here
	SourceDir   string   // object paths mirror the layout below this directory
	IncludeDirs []string // searched in order
	Sources     []string
	Defines     []Define
	Target      string // target triple, empty means host
	Host        string // host triple
	OptLevel    string // the N in -ON, empty for none
	Cflags      []string
	CxxStd      string // e.g. c++17
}

// Artifact identifies a built static archive
type Artifact struct {
	Name string
	Path string
}

func ArchiveName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".lib"
	}
	return "lib" + name + ".a"
}

func isCxx(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cpp", ".cc", ".cxx", ".c++", ".mm":
		return true
	}
	return false
}

func isClang(compiler string) bool {
	return strings.Contains(filepath.Base(compiler), "clang")
}

// flags builds the compile flags for one source of the job
func (j Job) flags(compiler string, cxx bool) []string {
	var flags []string
	if j.OptLevel != "" {
		flags = append(flags, "-O"+j.OptLevel)
	}
	if j.Target != "" && j.Target != j.Host && isClang(compiler) {
		flags = append(flags, "--target="+j.Target)
	}
	if cxx && j.CxxStd != "" {
		flags = append(flags, "-std="+j.CxxStd)
	}
	for _, dir := range j.IncludeDirs {
		flags = append(flags, "-I"+dir)
	}
	for _, d := range j.Defines {
		flags = append(flags, d.Flag())
	}
	return append(flags, j.Cflags...)
}

// objectPath maps a source to its object file below the build directory
func (j Job) objectPath(src string) string {
	rel, err := filepath.Rel(j.SourceDir, src)
	if j.SourceDir == "" || err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(src)
	}
	return filepath.Join(j.BuildDir, "QtvendorFiles", j.Name+".dir", rel+".o")
}

func (j Job) archivePath() string {
	return filepath.Join(j.BuildDir, ArchiveName(j.Name))
}
