package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playmatatu/tablegeom/internal/authoring"
	"github.com/playmatatu/tablegeom/internal/codec"
	"github.com/playmatatu/tablegeom/internal/store"
	"github.com/spf13/cobra"
)

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build <authoring-file>",
	Short: "Compile a JSON or YAML authoring document to a binary layout",
	Long: `Build the runtime layout from an authoring document and encode it.
Legacy documents (format: legacy) are converted first.

Examples:
  tablegeom build table.yaml
  tablegeom build -o club.bin club.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOut, "output", "o", "", "output file (default <input>.bin)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	in := args[0]
	rec, err := authoring.LoadFile(in)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", in, err)
	}

	l := authoring.Build(rec)
	blob, err := codec.Encode(l)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", in, err)
	}

	out := buildOut
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".bin"
	}
	if err := os.WriteFile(out, blob, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d segments, %d pockets, %d bytes, checksum %s\n",
		out, len(l.Segments), len(l.Pockets), len(blob), store.Checksum(blob))
	return nil
}
