package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playmatatu/tablegeom/internal/codec"
	"github.com/playmatatu/tablegeom/internal/geom"
	"github.com/playmatatu/tablegeom/internal/layout"
	"github.com/playmatatu/tablegeom/internal/store"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <layout-file>",
	Short: "Decode a binary layout and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

// readLayout loads and decodes a blob, reporting the failing field on error.
func readLayout(path string) (geom.Layout, []byte, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return geom.Layout{}, nil, err
	}
	l, err := codec.Decode(blob)
	if err != nil {
		return geom.Layout{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, blob, nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	l, blob, err := readLayout(args[0])
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	view := layout.NewView(name, int(codec.CurrentVersion), store.Checksum(blob), l)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
