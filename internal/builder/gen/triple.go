package gen

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/qobs-build/qtvendor/internal/errors"
)

// Platform is a target in GOOS/GOARCH spelling. Unknown parts are empty.
type Platform struct {
	OS   string
	Arch string
}

func HostPlatform() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

var tripleArchs = map[string]string{
	"x86_64":      "amd64",
	"amd64":       "amd64",
	"i386":        "386",
	"i486":        "386",
	"i586":        "386",
	"i686":        "386",
	"aarch64":     "arm64",
	"arm64":       "arm64",
	"riscv64":     "riscv64",
	"riscv64gc":   "riscv64",
	"powerpc64le": "ppc64le",
	"ppc64le":     "ppc64le",
	"s390x":       "s390x",
	"loongarch64": "loong64",
	"wasm32":      "wasm",
}

// ParsePlatform reads the architecture and OS of a target triple such as
// aarch64-unknown-linux-gnu or x86_64-apple-darwin
func ParsePlatform(triple string) Platform {
	parts := strings.Split(strings.ToLower(triple), "-")
	var p Platform

	arch := parts[0]
	switch {
	case tripleArchs[arch] != "":
		p.Arch = tripleArchs[arch]
	case strings.HasPrefix(arch, "arm"), strings.HasPrefix(arch, "thumb"):
		p.Arch = "arm"
	}

	for _, part := range parts[1:] {
		switch {
		case part == "android" || strings.HasPrefix(part, "androideabi"):
			p.OS = "android"
		case part == "linux" && p.OS == "":
			p.OS = "linux"
		case part == "darwin" || strings.HasPrefix(part, "macos"):
			p.OS = "darwin"
		case part == "ios":
			p.OS = "ios"
		case part == "windows" || strings.HasPrefix(part, "mingw"):
			p.OS = "windows"
		case strings.HasPrefix(part, "freebsd"):
			p.OS = "freebsd"
		case strings.HasPrefix(part, "netbsd"):
			p.OS = "netbsd"
		case strings.HasPrefix(part, "openbsd"):
			p.OS = "openbsd"
		case part == "wasi":
			p.OS = "wasip1"
		}
	}
	return p
}

// IsCross reports whether target names a platform other than host. An
// empty host is the machine running the build.
func IsCross(target, host string) bool {
	if target == "" || target == host {
		return false
	}
	if host != "" {
		return true
	}
	return ParsePlatform(target) != HostPlatform()
}

// IsCrossCompiler reports whether compiler can produce code for target:
// clang through --target, gcc only as a <target>-gcc build.
func IsCrossCompiler(compiler, target string) bool {
	base := filepath.Base(compiler)
	return isClang(compiler) || strings.HasPrefix(base, target+"-")
}

// checkTarget fails when the job is a cross build and compiler would
// silently produce host objects
func (j Job) checkTarget(compiler string) error {
	if compiler == "" || !j.cross() || IsCrossCompiler(compiler, j.Target) {
		return nil
	}
	return &errors.CompileError{
		Tool: compiler,
		Err: errors.WithHintf(
			errors.Newf("%s cannot build for target %s", filepath.Base(compiler), j.Target),
			"use clang or set CC/CXX to %s-gcc and %s-g++", j.Target, j.Target),
	}
}

// checkCompilers runs checkTarget for the compiler of every source
func (j Job) checkCompilers(cc, cxx string) error {
	for _, src := range j.Sources {
		compiler := cc
		if isCxx(src) {
			compiler = cxx
		}
		if err := j.checkTarget(compiler); err != nil {
			return err
		}
	}
	return nil
}

func (j Job) cross() bool { return IsCross(j.Target, j.Host) }
