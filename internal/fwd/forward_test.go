package fwd

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/qobs-build/qtvendor/internal/errors"
	"github.com/qobs-build/qtvendor/internal/qtconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveRelativePath(t *testing.T) {
	root := t.TempDir()
	target := writeFile(t, filepath.Join(root, "src", "corelib", "kernel", "qobject.h"), "")
	from := filepath.Join(root, "build", "forwarding", "QtCore")
	require.NoError(t, os.MkdirAll(from, 0o755))

	rel, err := Resolve(from, target)
	require.NoError(t, err)
	assert.Equal(t, "../../../src/corelib/kernel/qobject.h", rel)
}

func TestResolveRoundTrip(t *testing.T) {
	root := t.TempDir()
	target := writeFile(t, filepath.Join(root, "a", "b", "c", "qglobal.h"), "")
	for _, from := range []string{
		root,
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "b", "c"),
		filepath.Join(root, "x", "y", "z", "w"),
	} {
		require.NoError(t, os.MkdirAll(from, 0o755))
		rel, err := Resolve(from, target)
		require.NoError(t, err)

		back, err := filepath.EvalSymlinks(filepath.Join(from, filepath.FromSlash(rel)))
		require.NoError(t, err)
		want, err := filepath.EvalSymlinks(target)
		require.NoError(t, err)
		assert.Equal(t, want, back, "from %s", from)
	}
}

func TestResolveFollowsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real", "qstring.h"), "")
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")))
	from := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(from, 0o755))

	rel, err := Resolve(from, filepath.Join(root, "link", "qstring.h"))
	require.NoError(t, err)
	assert.Equal(t, "../real/qstring.h", rel)
}

func TestResolveMissingTarget(t *testing.T) {
	root := t.TempDir()
	_, err := Resolve(root, filepath.Join(root, "nope.h"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPathResolution))
	assert.True(t, errors.Is(err, errors.ErrSourceNotFound))
	assert.Contains(t, err.Error(), "nope.h")
}

func TestWriteForwardingHeader(t *testing.T) {
	root := t.TempDir()
	target := writeFile(t, filepath.Join(root, "src", "qfoo.h"), "class QFoo {};")
	out := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(out, 0o755))

	require.NoError(t, WriteForwardingHeader(filepath.Join(out, "qfoo.h"), target))
	data, err := os.ReadFile(filepath.Join(out, "qfoo.h"))
	require.NoError(t, err)
	assert.Equal(t, "#include \"../src/qfoo.h\"\n", string(data))
}

func TestWriteForwardingHeaderMissingDir(t *testing.T) {
	root := t.TempDir()
	target := writeFile(t, filepath.Join(root, "qfoo.h"), "")

	err := WriteForwardingHeader(filepath.Join(root, "absent", "qfoo.h"), target)
	assert.True(t, errors.Is(err, errors.ErrWriteFailure))
}

func TestSplit(t *testing.T) {
	headers := []qtconf.HeaderFile{{Path: "a.h"}, {Path: "b_p.h"}, {Path: "c.h"}, {Path: "d_p.h"}}
	public, private := Split(headers)
	assert.Equal(t, []qtconf.HeaderFile{{Path: "a.h"}, {Path: "c.h"}}, public)
	assert.Equal(t, []qtconf.HeaderFile{{Path: "b_p.h"}, {Path: "d_p.h"}}, private)
}

func TestWriteFilenameHeadersLastWriteWins(t *testing.T) {
	root := t.TempDir()
	first := writeFile(t, filepath.Join(root, "src", "one", "qdup.h"), "")
	second := writeFile(t, filepath.Join(root, "src", "two", "qdup.h"), "")
	out := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(out, 0o755))

	n, err := WriteFilenameHeaders(out, []qtconf.HeaderFile{{Path: first}, {Path: second}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(filepath.Join(out, "qdup.h"))
	require.NoError(t, err)
	assert.Equal(t, "#include \"../src/two/qdup.h\"\n", string(data))
}

func TestWriteFilenameHeadersMissingSource(t *testing.T) {
	root := t.TempDir()
	_, err := WriteFilenameHeaders(root, []qtconf.HeaderFile{{Path: filepath.Join(root, "gone.h")}})
	assert.True(t, errors.Is(err, errors.ErrSourceNotFound))
}

func TestWriteTypeHeaders(t *testing.T) {
	root := t.TempDir()
	header := writeFile(t, filepath.Join(root, "src", "qpair.h"),
		"class Q_CORE_EXPORT QPair {};\nclass QPairIterator { };\nclass QPair {};\n")
	out := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(out, 0o755))

	n, err := WriteTypeHeaders(out, []qtconf.HeaderFile{{Path: header}}, LexicalScanner{Prefix: DefaultPrefix})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, name := range []string{"QPair", "QPairIterator"} {
		data, err := os.ReadFile(filepath.Join(out, name))
		require.NoError(t, err)
		assert.Equal(t, "#include \"../src/qpair.h\"\n", string(data))
	}
}

type fixedScanner []string

func (s fixedScanner) Scan([]byte) ([]string, error) { return s, nil }

func TestWriteTypeHeadersCustomScanner(t *testing.T) {
	root := t.TempDir()
	header := writeFile(t, filepath.Join(root, "anything.h"), "")

	n, err := WriteTypeHeaders(root, []qtconf.HeaderFile{{Path: header}}, fixedScanner{"Alpha", "Beta"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.FileExists(t, filepath.Join(root, "Alpha"))
	assert.FileExists(t, filepath.Join(root, "Beta"))
}

func TestWriteTypeHeadersSkipsPathLikeNames(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "forwarding", "QtCore")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	header := writeFile(t, filepath.Join(root, "qfoo.h"), "")

	scanner := fixedScanner{"QFoo/QBar", "Q/../../escape", `Q\x`, "..", "QGood"}
	n, err := WriteTypeHeaders(dir, []qtconf.HeaderFile{{Path: header}}, scanner)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, filepath.Join(dir, "QGood"))
	assert.NoFileExists(t, filepath.Join(root, "escape"))
	assert.NoDirExists(t, filepath.Join(dir, "QFoo"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLexicalScannerPathLikeNameIsSkipped(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	header := writeFile(t, filepath.Join(root, "qfoo.h"), "// see class QFoo/QBar\nclass QFoo {};\n")

	n, err := WriteTypeHeaders(dir, []qtconf.HeaderFile{{Path: header}}, LexicalScanner{Prefix: "Q"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, filepath.Join(dir, "QFoo"))
}
