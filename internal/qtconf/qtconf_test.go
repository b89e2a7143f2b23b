package qtconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureSetLastWriteWins(t *testing.T) {
	var s FeatureSet
	s = s.With("thread", true).With("future", true).With("thread", false)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, []Feature{{"thread", false}, {"future", true}}, s.All())

	enabled, ok := s.Lookup("thread")
	assert.True(t, ok)
	assert.False(t, enabled)

	_, ok = s.Lookup("gui")
	assert.False(t, ok)
}

func TestSetsAreNotMutated(t *testing.T) {
	base := FeatureSet{}.With("thread", true)
	_ = base.With("thread", false)
	_ = base.With("gui", true)

	enabled, _ := base.Lookup("thread")
	assert.True(t, enabled)
	assert.Equal(t, 1, base.Len())

	defs := DefineSet{}.With("QT_VERSION_MAJOR", "6")
	_ = defs.With("QT_VERSION_MAJOR", "5")
	v, ok := defs.Lookup("QT_VERSION_MAJOR")
	assert.True(t, ok)
	assert.Equal(t, "6", v)
}

func TestRenderFeatures(t *testing.T) {
	for _, tc := range []struct {
		name    string
		enabled bool
		want    string
	}{
		{"thread", true, "#define QT_FEATURE_thread 1\n"},
		{"THREAD", true, "#define QT_FEATURE_THREAD 1\n"},
		{"gui", false, "#define QT_FEATURE_gui -1\n"},
	} {
		got := RenderFeatures(FeatureSet{}.With(tc.name, tc.enabled))
		assert.Equal(t, tc.want, got)
	}
}

func TestRenderKeepsInsertionOrder(t *testing.T) {
	features := FeatureSet{}.With("zlib", true).With("accessibility", false).With("mimetype", true)
	defines := DefineSet{}.With("QT_VERSION_STR", `"6.2.0"`).With("A", "1")

	want := "#define QT_FEATURE_zlib 1\n" +
		"#define QT_FEATURE_accessibility -1\n" +
		"#define QT_FEATURE_mimetype 1\n" +
		"\n" +
		"#define QT_VERSION_STR \"6.2.0\"\n" +
		"#define A 1\n"
	assert.Equal(t, want, RenderConfigHeader(features, defines))
	assert.Equal(t, want, RenderConfigHeader(features, defines), "rendering is repeatable")
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", RenderFeatures(FeatureSet{}))
	assert.Equal(t, "", RenderDefines(DefineSet{}))
	assert.Equal(t, "\n", RenderConfigHeader(FeatureSet{}, DefineSet{}))
}

func TestRenderDefinesVerbatim(t *testing.T) {
	got := RenderDefines(DefineSet{}.With("BROKEN", `"unterminated`).With("EMPTY", ""))
	assert.Equal(t, "#define BROKEN \"unterminated\n#define EMPTY \n", got)
}

func TestModuleConfigIsImmutable(t *testing.T) {
	base := NewModuleConfig("CoreMod").WithHeaders("a.h")
	derived := base.
		WithHeaders("b_p.h").
		WithSources("a.cpp").
		WithFeature(ModulePublic, "THREAD", true).
		WithDefine(GlobalPublic, "VERSION", "1")

	assert.Len(t, base.Headers(), 1)
	assert.Empty(t, base.Sources())
	assert.Equal(t, 0, base.Features(ModulePublic).Len())
	assert.Equal(t, 0, base.Defines(GlobalPublic).Len())

	assert.Equal(t, []HeaderFile{{"a.h"}, {"b_p.h"}}, derived.Headers())
	assert.Equal(t, []string{"a.cpp"}, derived.Sources())
	assert.Equal(t, "coremod", derived.ConfigName())
}

func TestModuleConfigSharedBackingArray(t *testing.T) {
	base := NewModuleConfig("QtCore").WithHeaders("a.h", "b.h")
	left := base.WithHeaders("left.h")
	right := base.WithHeaders("right.h")

	assert.Equal(t, "left.h", left.Headers()[2].Path)
	assert.Equal(t, "right.h", right.Headers()[2].Path)
}

func TestHeaderFileIsPrivate(t *testing.T) {
	assert.True(t, HeaderFile{"src/corelib/kernel/qobject_p.h"}.IsPrivate())
	assert.False(t, HeaderFile{"src/corelib/kernel/qobject.h"}.IsPrivate())
	assert.False(t, HeaderFile{"src/corelib_p.h/qobject.h"}.IsPrivate(), "directory names do not count")
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "module-private", ModulePrivate.String())
	assert.True(t, GlobalPrivate.Private())
	assert.False(t, ModulePublic.Private())
	assert.Equal(t, "invalid", Scope(42).String())
}

func TestDefaultQtCore(t *testing.T) {
	cfg := DefaultQtCore("/src/qt")

	assert.Equal(t, "QtCore", cfg.Name())
	assert.Equal(t, "qtcore", cfg.ConfigName())
	assert.Equal(t, "/src/qt/"+DefaultPlatformDefs, cfg.PlatformDefs())

	enabled, ok := cfg.Features(GlobalPublic).Lookup("thread")
	assert.True(t, ok)
	assert.True(t, enabled)

	v, ok := cfg.Defines(GlobalPublic).Lookup("QT_VERSION_STR")
	assert.True(t, ok)
	assert.Equal(t, `"6.2.0"`, v)
}
