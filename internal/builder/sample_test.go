package builder

import (
	"strings"
	"testing"

	"github.com/qobs-build/qtvendor/internal/qtconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleConfigRoundTrip(t *testing.T) {
	mc := qtconf.DefaultQtCore(".")
	text, err := SampleConfig(mc, SampleOptions{Root: "qt", SourceDir: "qtbase/src/corelib"})
	require.NoError(t, err)

	cfg, err := ParseConfig(strings.NewReader(text), linuxEnv(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, "QtCore", cfg.Package.Name)
	assert.Equal(t, "qt", cfg.Package.Root)
	assert.Equal(t, "qtbase/src/corelib", cfg.Package.SourceDir)
	assert.Equal(t, qtconf.DefaultPlatformDefs, cfg.Package.PlatformDefs)
	assert.Equal(t, "Q", cfg.Package.TypePrefix)
	assert.Empty(t, cfg.Package.Source)

	buckets := []struct {
		scope qtconf.Scope
		got   map[string]bool
	}{
		{qtconf.GlobalPublic, cfg.Global.Features},
		{qtconf.GlobalPrivate, cfg.Global.PrivateFeatures},
		{qtconf.ModulePublic, cfg.Module.Features},
		{qtconf.ModulePrivate, cfg.Module.PrivateFeatures},
	}
	for _, b := range buckets {
		require.Len(t, b.got, mc.Features(b.scope).Len(), "%s", b.scope)
		for _, f := range mc.Features(b.scope).All() {
			assert.Equal(t, f.Enabled, b.got[f.Name], "%s %s", b.scope, f.Name)
		}
	}
	assert.Equal(t, `"6.2.0"`, cfg.Global.Defines["QT_VERSION_STR"])
	assert.Equal(t, "", cfg.Global.Defines["QT_NO_EXCEPTIONS"])
	assert.Contains(t, cfg.Global.Defines, "QT_NO_EXCEPTIONS")
}

func TestSampleConfigEmptyModule(t *testing.T) {
	text, err := SampleConfig(qtconf.NewModuleConfig("QtFoo"), SampleOptions{Root: "qt", SourceDir: "src/foo"})
	require.NoError(t, err)
	assert.NotContains(t, text, "[global")
	assert.NotContains(t, text, "[module")
	assert.NotContains(t, text, "platform-defs")

	cfg, err := ParseConfig(strings.NewReader(text), linuxEnv(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, []string{"**/*.cpp"}, cfg.Target.Sources)
}

func TestSampleConfigHostTools(t *testing.T) {
	preset := qtconf.HostTools()
	opts := SampleOptions{Root: "qt"}.WithPreset(preset)
	text, err := SampleConfig(qtconf.DefaultQtCore("."), opts)
	require.NoError(t, err)

	cfg, err := ParseConfig(strings.NewReader(text), linuxEnv(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, "qtbase/src", cfg.Package.SourceDir)
	assert.Equal(t, []string{"corelib/**/*.h"}, cfg.Target.Headers)
	assert.Equal(t, preset.Sources, cfg.Target.Sources)
	assert.Contains(t, cfg.Target.Sources, "tools/moc/moc.cpp")
	assert.Contains(t, cfg.Target.Sources, "corelib/io/qfilesystemengine_unix.cpp")
	assert.NotContains(t, cfg.Target.Sources, "**/*.cpp")
	assert.Equal(t, []string{"qtbase/src/3rdparty/tinycbor/src", "qtbase/src/tools/shared"}, cfg.Target.Includes)
	assert.Equal(t, map[string]string{
		"HAVE_CONFIG_H":         "",
		"QT_BOOTSTRAPPED":       "",
		"QT_USE_QSTRINGBUILDER": "",
		"QT_NO_CAST_FROM_ASCII": "",
		"QT_NO_CAST_TO_ASCII":   "",
		"QT_NO_FOREACH":         "",
		"main":                  "hiddenmocmain",
	}, cfg.Target.Defines)
}
