package builder

import (
	"os"
	"os/exec"
	"strings"

	"github.com/qobs-build/qtvendor/internal/builder/gen"
	"github.com/qobs-build/qtvendor/internal/errors"
)

var (
	commonCCompilers   = []string{"clang", "gcc", "icx", "icc", "tcc", "cl"}
	commonCxxCompilers = []string{"clang++", "g++", "clang", "gcc", "icpx", "icx", "icpc", "icc", "cl"}
)

// targetEnv reads CC_<triple> style overrides, with dashes as underscores
func targetEnv(name, target string) string {
	if target == "" {
		return ""
	}
	if v := os.Getenv(name + "_" + target); v != "" {
		return v
	}
	return os.Getenv(name + "_" + strings.ReplaceAll(target, "-", "_"))
}

// findCompiler attempts to find a C or C++ compiler that builds for target.
// A cross build only accepts <target>-gcc style compilers or clang, which
// takes --target.
func findCompiler(needCxx bool, target, host string) (string, error) {
	cc := os.Getenv("CC")
	cxx := os.Getenv("CXX")
	if v := targetEnv("CC", target); v != "" {
		cc = v
	}
	if v := targetEnv("CXX", target); v != "" {
		cxx = v
	}

	if needCxx && cxx != "" {
		return cxx, nil
	}
	if !needCxx && cc != "" {
		return cc, nil
	}

	if cxx != "" {
		return cxx, nil
	}
	if cc != "" {
		return cc, nil
	}

	var compilersToTry []string
	switch {
	case gen.IsCross(target, host) && needCxx:
		compilersToTry = []string{target + "-g++", target + "-c++", "clang++", "clang"}
	case gen.IsCross(target, host):
		compilersToTry = []string{target + "-gcc", target + "-cc", "clang"}
	case needCxx:
		compilersToTry = commonCxxCompilers
	default:
		compilersToTry = commonCCompilers
	}

	for _, compiler := range compilersToTry {
		path, err := exec.LookPath(compiler)
		if err == nil {
			return path, nil
		}
	}

	if gen.IsCross(target, host) {
		return "", &errors.CompileError{
			Tool: "cc",
			Err: errors.WithHintf(
				errors.Newf("no compiler found for target %s", target),
				"install clang or %s-gcc, or set CC/CXX", target),
		}
	}
	return "", nil
}
