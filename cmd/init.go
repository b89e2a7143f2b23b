// qtvendor init <name>
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/qobs-build/qtvendor/internal/builder"
	"github.com/qobs-build/qtvendor/internal/fwd"
	"github.com/qobs-build/qtvendor/internal/msg"
	"github.com/qobs-build/qtvendor/internal/qtconf"
	"github.com/spf13/cobra"
)

func writefile(content string, elem ...string) {
	path := filepath.Join(elem...)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err = os.WriteFile(path, []byte(content), 0o644); err != nil {
			msg.Fatal("create file %s: %v", path, err)
		}
		fmt.Printf("%s file: %s\n", color.HiGreenString("Created"), filepath.ToSlash(path))
	}
}

func mkdir(elem ...string) {
	path := filepath.Join(elem...)
	if err := os.MkdirAll(path, 0o755); err != nil {
		msg.Fatal("mkdir %s: %v", path, err)
	}
}

func getProgramName() string {
	if len(os.Args) == 0 {
		return "qtvendor"
	}
	basename := filepath.Base(os.Args[0])
	return strings.TrimSuffix(basename, filepath.Ext(basename))
}

// sampleModule picks the module written by init: the QtCore preset, or an
// empty module with a couple of common features
func sampleModule(name string) (qtconf.ModuleConfig, builder.SampleOptions) {
	opts := builder.SampleOptions{
		Root:      "qt",
		Source:    "gh:qt/qtbase@6.2",
		SourceDir: "src/" + strings.ToLower(strings.TrimPrefix(name, "Qt")),
	}
	if strings.EqualFold(name, "QtCore") {
		// the preset paths are relative to a top-level Qt checkout
		opts.Source = ""
		return qtconf.DefaultQtCore("."), opts.WithPreset(qtconf.HostTools())
	}
	mc := qtconf.NewModuleConfig(name).
		WithTypePrefix(fwd.DefaultPrefix).
		WithFeature(qtconf.GlobalPublic, "thread", true).
		WithFeature(qtconf.GlobalPublic, "shared", false)
	return mc, opts
}

// initIn writes a sample QtModule.toml in an existing directory
func initIn(dir, name string) {
	content, err := builder.SampleConfig(sampleModule(name))
	if err != nil {
		msg.Fatal("render %s: %v", builder.ConfigFilename, err)
	}
	writefile(content, dir, builder.ConfigFilename)

	// .gitignore
	writefile(`build/
qt/
`, dir, ".gitignore")

	programName := getProgramName()
	fmt.Printf("Edit %s, then run %s to generate headers or %s to build.\n",
		builder.ConfigFilename,
		color.HiCyanString(programName+" configure "+dir),
		color.HiCyanString(programName+" build "+dir))
}

var initCmd = &cobra.Command{
	Use:   "init <module name>",
	Short: "Create a QtModule.toml in the current directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initIn(".", args[0])
	},
}

var newCmd = &cobra.Command{
	Use:   "new <path>",
	Short: "Create a QtModule.toml in a new directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mkdir(args[0])
		initIn(args[0], filepath.Base(args[0]))
	},
}

func init() {
	// qtvendor init subcommand
	rootCmd.AddCommand(initCmd)

	// qtvendor new subcommand
	rootCmd.AddCommand(newCmd)
}
