package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tablegeom",
	Short: "Pool table layout compiler and inspector",
	Long: `Build binary table layouts from authoring documents, decode and
inspect layout blobs, and print the standard 8-ball table.

Examples:
  tablegeom standard -o table.yaml              # Write the standard table
  tablegeom build table.yaml -o table.bin       # Compile an authoring file
  tablegeom decode table.bin                    # Print the decoded layout as JSON
  tablegeom inspect table.bin                   # Summarise a layout blob`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
