// Package fwd writes forwarding headers: one-line headers that #include a
// real header through a computed relative path, so that framework-style
// includes (<QtCore/qobject.h>, <QObject>) resolve against an unconfigured
// source tree.
package fwd

import (
	"os"
	"path/filepath"

	"github.com/qobs-build/qtvendor/internal/errors"
)

// Resolve returns the include path, relative to fromDir, of target.
//
// A relative target is taken relative to the process working directory.
// The target must exist: it is canonicalized with symlinks followed, and a
// missing target fails with ErrSourceNotFound (also matching
// ErrPathResolution). fromDir is canonicalized too when it exists, so the
// "../" steps match the directories the compiler actually walks.
func Resolve(fromDir, target string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "resolve %s", target), errors.ErrPathResolution)
	}
	canonical, err := filepath.EvalSymlinks(absTarget)
	if err != nil {
		return "", errors.Mark(errors.SourceNotFound(err, target), errors.ErrPathResolution)
	}

	absDir, err := filepath.Abs(fromDir)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "resolve %s", fromDir), errors.ErrPathResolution)
	}
	if real, err := filepath.EvalSymlinks(absDir); err == nil {
		absDir = real
	}

	rel, err := filepath.Rel(absDir, canonical)
	if err != nil {
		return "", errors.Mark(
			errors.Wrapf(err, "no relative path from %s to %s", absDir, canonical),
			errors.ErrPathResolution,
		)
	}
	return filepath.ToSlash(rel), nil
}

// IncludeLine is the entire content of a forwarding header
func IncludeLine(rel string) string {
	return "#include \"" + rel + "\"\n"
}

// WriteForwardingHeader writes a header at path whose only content includes
// target. The file is replaced as a whole.
func WriteForwardingHeader(path, target string) error {
	rel, err := Resolve(filepath.Dir(path), target)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(IncludeLine(rel)), 0o644); err != nil {
		return errors.WriteFailure(err, path)
	}
	return nil
}
