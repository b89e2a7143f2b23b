// qtvendor scan <header>...
package cmd

import (
	"fmt"

	"github.com/qobs-build/qtvendor/internal/fwd"
	"github.com/spf13/cobra"
)

var flagPrefix string

func doScan(cmd *cobra.Command, args []string) {
	scanner := fwd.LexicalScanner{Prefix: flagPrefix}
	for _, path := range args {
		names, err := fwd.ScanFile(scanner, path)
		if err != nil {
			fatal(err)
		}
		for _, name := range names {
			if len(args) > 1 {
				fmt.Printf("%s: %s\n", path, name)
			} else {
				fmt.Println(name)
			}
		}
	}
}

var scanCmd = &cobra.Command{
	Use:   "scan <header>...",
	Short: "Print the class names a header would get type-name forwarding headers for",
	Args:  cobra.MinimumNArgs(1),
	Run:   doScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVar(&flagPrefix, "prefix", fwd.DefaultPrefix, "Only report names starting with this prefix")
}
