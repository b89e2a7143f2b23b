package builder

import (
	"path/filepath"
	"testing"

	"github.com/qobs-build/qtvendor/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitURL(t *testing.T) {
	tests := []struct {
		raw  string
		want gitURL
	}{
		{"https://github.com/qt/qtbase", gitURL{cleanURL: "https://github.com/qt/qtbase.git"}},
		{"https://code.qt.io/qt/qtbase.git", gitURL{cleanURL: "https://code.qt.io/qt/qtbase.git"}},
		{"https://github.com/qt/qtbase@6.2", gitURL{cleanURL: "https://github.com/qt/qtbase.git", branch: "6.2"}},
		{"https://github.com/qt/qtbase#v6.2.0", gitURL{cleanURL: "https://github.com/qt/qtbase.git", commitOrTag: "v6.2.0"}},
		{"https://github.com/qt/qtbase@dev#12345abc", gitURL{cleanURL: "https://github.com/qt/qtbase.git", branch: "dev", commitOrTag: "12345abc"}},
		{"git@github.com:qt/qtbase.git", gitURL{cleanURL: "git@github.com:qt/qtbase.git"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseGitURL(tt.raw), tt.raw)
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("https://download.qt.io/qtbase.tar.xz"))
	assert.False(t, isURL("../qtbase"))
	assert.False(t, isURL("gh:qt/qtbase"))
}

func TestFetchSourceRejects(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "qtbase")

	_, err := FetchSource("", dir)
	assert.ErrorIs(t, err, errIllegalSource)

	_, err = FetchSource("https://download.qt.io/qtbase-everywhere-src-6.2.0.tar.xz", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errArchiveSource))
	assert.NotEmpty(t, errors.FlattenHints(err))

	_, err = FetchSource("../qtbase", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errIllegalSource))
	assert.Contains(t, errors.FlattenHints(err), "../qtbase")

	assert.NoDirExists(t, dir)
}
