package fwd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qobs-build/qtvendor/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(t *testing.T, prefix, text string) []string {
	t.Helper()
	names, err := LexicalScanner{Prefix: prefix}.Scan([]byte(text))
	require.NoError(t, err)
	return names
}

func TestScanExportMacro(t *testing.T) {
	assert.Equal(t, []string{"Widget"}, scan(t, "", "class FOO_EXPORT Widget { };"))
}

func TestScanPlainClass(t *testing.T) {
	assert.Equal(t, []string{"Object"}, scan(t, "", "class Object { };"))
}

func TestScanQtHeader(t *testing.T) {
	header := `
#ifndef QOBJECT_H
#define QOBJECT_H
#include <QtCore/qobjectdefs.h>

QT_BEGIN_NAMESPACE

class QEvent;
class QTimerEvent;
template <typename T> class QList;
class Q_CORE_EXPORT QObjectData
{
};

class Q_CORE_EXPORT QObject
{
    Q_OBJECT
    Q_PROPERTY(QString objectName READ objectName)
};
class QEvent;
QT_END_NAMESPACE
#endif
`
	// forward declarations carry the ';' and are skipped
	assert.Equal(t, []string{"QObjectData", "QObject"}, scan(t, DefaultPrefix, header))
}

func TestScanDisqualifiedTokens(t *testing.T) {
	for _, text := range []string{
		"class Q_PROPERTY x y",
		"class List<int> x y",
		"class Ns::Key x y",
		"class Foo; x y",
		"class #define x y",
	} {
		names := scan(t, "", text)
		assert.NotContains(t, names, "Q_PROPERTY")
		assert.NotContains(t, names, "List<int>")
		assert.NotContains(t, names, "Ns::Key")
		assert.NotContains(t, names, "Foo;")
	}
}

func TestScanPrefix(t *testing.T) {
	assert.Empty(t, scan(t, DefaultPrefix, "class Widget { };"))
	assert.Equal(t, []string{"QWidget"}, scan(t, DefaultPrefix, "class Q_WIDGETS_EXPORT QWidget : public QObject"))
}

func TestScanKnownGaps(t *testing.T) {
	// two macro tokens push the name out of the window
	assert.Empty(t, scan(t, DefaultPrefix, "class Q_CORE_EXPORT Q_DECL_DEPRECATED QOld { };"))
	// the heuristic happily reports anything that looks right
	assert.Equal(t, []string{"QComment"}, scan(t, DefaultPrefix, "// a class QComment is mentioned here"))
}

func TestScanNeedsFullWindow(t *testing.T) {
	assert.Empty(t, scan(t, "", "class Object"))
	assert.Empty(t, scan(t, "", ""))
}

func TestScanNonUTF8(t *testing.T) {
	_, err := LexicalScanner{Prefix: DefaultPrefix}.Scan([]byte{'c', 'l', 0xff, 0xfe})
	assert.True(t, errors.Is(err, errors.ErrNonTextContent))
}

func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qstring.h")
	require.NoError(t, os.WriteFile(path, []byte("class Q_CORE_EXPORT QString {};"), 0o644))

	names, err := ScanFile(LexicalScanner{Prefix: DefaultPrefix}, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"QString"}, names)

	_, err = ScanFile(LexicalScanner{}, filepath.Join(dir, "missing.h"))
	assert.True(t, errors.Is(err, errors.ErrSourceNotFound))

	bad := filepath.Join(dir, "latin1.h")
	require.NoError(t, os.WriteFile(bad, []byte{0xe9, ' ', 'c'}, 0o644))
	_, err = ScanFile(LexicalScanner{}, bad)
	assert.True(t, errors.Is(err, errors.ErrNonTextContent))
	assert.Contains(t, err.Error(), "latin1.h")
}
