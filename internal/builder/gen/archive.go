package gen

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"github.com/qobs-build/qtvendor/internal/errors"
	"github.com/qobs-build/qtvendor/internal/msg"
	"golang.org/x/sync/errgroup"
)

const stateFileName = "qtvendor_build_state.json"

// BuildState is what the previous build of an archive was made from
type BuildState struct {
	Sources map[string]string `json:"sources,omitempty"` // source file -> hash
	Cflags  []string          `json:"cflags,omitempty"`
}

// compileJob represents a single compilation job
type compileJob struct {
	src   string
	obj   string
	flags []string
	cc    string
}

// ArchiveBuilder compiles sources in parallel and archives the objects with
// ar. Sources whose content and flags did not change since the last build
// are not recompiled.
type ArchiveBuilder struct {
	cc, cxx    string
	jobs       int
	buildState map[string]*BuildState
	hashCache  map[string]string
	hashMu     sync.Mutex
}

func NewArchiveBuilder() *ArchiveBuilder {
	return &ArchiveBuilder{
		jobs:       runtime.NumCPU(),
		buildState: make(map[string]*BuildState),
		hashCache:  make(map[string]string),
	}
}

func (g *ArchiveBuilder) SetCompiler(cc, cxx string) {
	g.cc, g.cxx = cc, cxx
}

// Compile performs the actual build
func (g *ArchiveBuilder) Compile(ctx context.Context, job Job) (Artifact, error) {
	artifact := Artifact{Name: job.Name, Path: job.archivePath()}
	stateFile := filepath.Join(job.BuildDir, stateFileName)

	if err := job.checkCompilers(g.cc, g.cxx); err != nil {
		return artifact, err
	}

	if err := os.MkdirAll(job.BuildDir, 0o755); err != nil {
		return artifact, errors.DirectoryCreation(err, job.BuildDir)
	}
	if err := g.loadBuildState(stateFile); err != nil {
		msg.Warn("failed to load build state: %v", err)
	}

	compileJobs, err := g.planBuild(job)
	if err != nil {
		return artifact, fmt.Errorf("build planning failed: %w", err)
	}

	_, statErr := os.Stat(artifact.Path)
	if len(compileJobs) == 0 && statErr == nil {
		msg.Info("%s is up to date", filepath.Base(artifact.Path))
		return artifact, nil
	}

	if err := runJobs(ctx, compileJobs, runCompileJob, g.jobs); err != nil {
		return artifact, err
	}
	if err := runArchive(ctx, job); err != nil {
		return artifact, err
	}

	if err := g.updateBuildState(job); err != nil {
		msg.Warn("failed to update build state for %s: %v", job.Name, err)
	} else if err := g.saveBuildState(stateFile); err != nil {
		msg.Warn("failed to save build state: %v", err)
	}
	return artifact, nil
}

// planBuild determines which sources need to be compiled
func (g *ArchiveBuilder) planBuild(job Job) ([]compileJob, error) {
	oldState := g.buildState[job.Name]
	flagsChanged := oldState == nil || !slices.Equal(oldState.Cflags, g.stateFlags(job))

	var jobs []compileJob
	for _, src := range job.Sources {
		obj := job.objectPath(src)
		dirty := flagsChanged
		if !dirty {
			var err error
			dirty, err = g.isSourceFileDirty(src, obj, oldState)
			if err != nil {
				return nil, fmt.Errorf("could not check status of %s: %w", src, err)
			}
		}
		if !dirty {
			continue
		}

		compiler := g.cc
		if isCxx(src) {
			compiler = g.cxx
		}
		jobs = append(jobs, compileJob{
			src:   src,
			obj:   obj,
			flags: job.flags(compiler, isCxx(src)),
			cc:    compiler,
		})
	}
	return jobs, nil
}

// stateFlags is everything besides source content that invalidates objects
func (g *ArchiveBuilder) stateFlags(job Job) []string {
	flags := []string{"cc=" + g.cc, "cxx=" + g.cxx}
	flags = append(flags, job.flags(g.cc, false)...)
	return append(flags, job.flags(g.cxx, true)...)
}

// isSourceFileDirty checks if a single source file needs to be recompiled
func (g *ArchiveBuilder) isSourceFileDirty(src, objPath string, state *BuildState) (bool, error) {
	if _, err := os.Stat(objPath); os.IsNotExist(err) {
		return true, nil
	}
	if state == nil {
		return true, nil
	}

	hash, err := g.fileHash(src)
	if err != nil {
		if os.IsNotExist(err) {
			return true, errors.SourceNotFound(err, src)
		}
		return true, err
	}
	if prevHash, exists := state.Sources[src]; !exists || prevHash != hash {
		return true, nil
	}
	return false, nil
}

// loadBuildState loads the previous build state from disk
func (g *ArchiveBuilder) loadBuildState(stateFile string) error {
	f, err := os.Open(stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // no previous state, that's fine
		}
		return err
	}
	defer f.Close()
	return json.NewDecoder(bufio.NewReader(f)).Decode(&g.buildState)
}

// saveBuildState saves the current build state to disk
func (g *ArchiveBuilder) saveBuildState(stateFile string) error {
	data, err := json.MarshalIndent(g.buildState, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(stateFile, data, 0o644)
}

// updateBuildState records the sources and flags of a successful build
func (g *ArchiveBuilder) updateBuildState(job Job) error {
	state := &BuildState{
		Sources: make(map[string]string, len(job.Sources)),
		Cflags:  g.stateFlags(job),
	}
	for _, src := range job.Sources {
		hash, err := g.fileHash(src)
		if err != nil {
			return fmt.Errorf("failed to hash source file %s: %w", src, err)
		}
		state.Sources[src] = hash
	}
	g.buildState[job.Name] = state
	return nil
}

// fileHash computes the SHA256 hash of a file with an in-memory cache
func (g *ArchiveBuilder) fileHash(path string) (string, error) {
	g.hashMu.Lock()
	defer g.hashMu.Unlock()
	if hash, ok := g.hashCache[path]; ok {
		return hash, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	hexHash := hex.EncodeToString(hash.Sum(nil))
	g.hashCache[path] = hexHash
	return hexHash, nil
}

// runJobs runs jobs in parallel, stopping at the first failure
func runJobs[T any](ctx context.Context, jobs []T, jobfunc func(ctx context.Context, job T) error, limit int) error {
	if len(jobs) == 0 {
		return nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for _, job := range jobs {
		eg.Go(func() error {
			return jobfunc(ctx, job)
		})
	}

	return eg.Wait()
}

// run executes a toolchain command, returning its output in a CompileError
// on failure. Output of a successful command (warnings) is echoed indented.
func run(ctx context.Context, tool string, args ...string) error {
	cmd := exec.CommandContext(ctx, tool, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return &errors.CompileError{Tool: tool, Args: args, Diagnostics: out.String(), Err: err}
	}
	if out.Len() > 0 {
		msg.Output("    ", out.Bytes())
	}
	return nil
}

// runCompileJob runs a single compilation job
func runCompileJob(ctx context.Context, job compileJob) error {
	if job.cc == "" {
		return &errors.CompileError{Tool: "cc", Err: errors.Newf("no compiler found for %s (set CC/CXX)", job.src)}
	}
	if err := os.MkdirAll(filepath.Dir(job.obj), 0o755); err != nil {
		return errors.DirectoryCreation(err, filepath.Dir(job.obj))
	}

	args := make([]string, 0, len(job.flags)+4)
	args = append(args, job.flags...)
	args = append(args, "-c", job.src, "-o", job.obj)

	msg.Info("CC %s", job.src)
	return run(ctx, job.cc, args...)
}

// runArchive bundles every object of the job into a fresh archive
func runArchive(ctx context.Context, job Job) error {
	out := job.archivePath()
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		return errors.WriteFailure(err, out)
	}

	args := []string{"rcs", out}
	for _, src := range job.Sources {
		args = append(args, job.objectPath(src))
	}

	msg.Info("AR %s", out)
	return run(ctx, "ar", args...)
}
