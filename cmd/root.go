// qtvendor [path], qtvendor build [path]
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/qobs-build/qtvendor/internal/builder"
	"github.com/qobs-build/qtvendor/internal/errors"
	"github.com/qobs-build/qtvendor/internal/msg"
	"github.com/spf13/cobra"
)

var (
	flagProfile   string
	flagTarget    string
	flagHost      string
	flagGenerator EnumValue = NewEnumValue(builder.GeneratorQobs, map[string]string{
		builder.GeneratorQobs:  "Compile with the built-in incremental builder (default)",
		builder.GeneratorNinja: "Generate build.ninja and run ninja",
	})
)

// reportError prints err followed by its hints, if any
func reportError(err error) {
	msg.Error("%v", err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(msg.Out, "%s: %s\n", color.HiCyanString("hint"), hint)
	}
}

func fatal(err error) {
	reportError(err)
	os.Exit(1)
}

func targetPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func doBuild(cmd *cobra.Command, args []string) {
	b, err := builder.NewBuilderInDirectory(targetPath(args), flagTarget)
	if err != nil {
		fatal(err)
	}
	artifact, err := b.Build(cmd.Context(), builder.BuildOptions{
		Profile:   flagProfile,
		Generator: flagGenerator.Value(),
		Target:    flagTarget,
		Host:      flagHost,
	})
	if err != nil {
		fatal(err)
	}
	fmt.Printf("%s %s\n", color.HiGreenString("Built"), artifact.Path)
}

var rootCmd = &cobra.Command{
	Use:   "qtvendor [module path]",
	Short: "Vendor a Qt module without Qt's build system",
	Long: `Generate the config and forwarding headers of a Qt module from a
QtModule.toml and compile it into a static library.`,
	Args: cobra.MaximumNArgs(1),
	Run:  doBuild,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		msg.Verbose, _ = cmd.Flags().GetBool("verbose")
	},
}

var buildCmd = &cobra.Command{
	Use:   "build [module path]",
	Short: "Generate headers and compile the module",
	Long:  `Generate headers and compile the module. If no module path is given, uses "."`,
	Args:  cobra.MaximumNArgs(1),
	Run:   doBuild,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug output")
	addBuildFlags(rootCmd)

	// qtvendor build subcommand
	rootCmd.AddCommand(buildCmd)
	addBuildFlags(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagProfile, "profile", "p", "debug", "Build with the given profile")
	cmd.Flags().StringVar(&flagTarget, "target", "", "Target triple, overrides [target] triple")
	cmd.Flags().StringVar(&flagHost, "host", "", "Host triple, overrides [target] host")
	cmd.Flags().VarP(&flagGenerator, "gen", "g", "Generator to build with, one of "+flagGenerator.HelpString())
	cmd.RegisterFlagCompletionFunc("gen", flagGenerator.CompletionFunc())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
