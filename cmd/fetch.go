// qtvendor fetch <source> [dir]
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/qobs-build/qtvendor/internal/builder"
	"github.com/qobs-build/qtvendor/internal/msg"
	"github.com/spf13/cobra"
)

func doFetch(cmd *cobra.Command, args []string) {
	src := args[0]
	dir := "qtbase"
	if len(args) > 1 {
		dir = args[1]
	}
	if _, err := os.Stat(dir); err == nil {
		msg.Fatal("%s already exists", dir)
	}

	msg.Info("fetching %s", src)
	path, err := builder.FetchSource(src, dir)
	if err != nil {
		fatal(err)
	}
	abs, _ := filepath.Abs(path)
	fmt.Printf("%s %s\n", color.HiGreenString("Fetched"), filepath.ToSlash(abs))
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <source> [dir]",
	Short: "Clone a Qt checkout, e.g. gh:qt/qtbase@6.2",
	Args:  cobra.RangeArgs(1, 2),
	Run:   doFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
