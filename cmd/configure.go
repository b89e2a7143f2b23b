// qtvendor configure [path]
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/qobs-build/qtvendor/internal/builder"
	"github.com/spf13/cobra"
)

var flagOut string

func doConfigure(cmd *cobra.Command, args []string) {
	b, err := builder.NewBuilderInDirectory(targetPath(args), flagTarget)
	if err != nil {
		fatal(err)
	}
	g, err := b.Configure(flagOut)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("%s %d config, %d filename, %d type-name and %d private forwarding headers\n",
		color.HiGreenString("Generated"), g.ConfigHeaders, g.FilenameFwd, g.TypeFwd, g.PrivateFwd)
	fmt.Println("Include directories:")
	for _, dir := range g.IncludeDirs() {
		fmt.Printf("  -I%s\n", dir)
	}
}

var configureCmd = &cobra.Command{
	Use:   "configure [module path]",
	Short: "Generate the config and forwarding headers only",
	Args:  cobra.MaximumNArgs(1),
	Run:   doConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
	configureCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output directory (default build/qt_headers)")
	configureCmd.Flags().StringVar(&flagTarget, "target", "", "Target triple, overrides [target] triple")
}
