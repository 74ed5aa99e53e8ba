package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/playmatatu/tablegeom/internal/authoring"
	"github.com/spf13/cobra"
)

var (
	standardOut    string
	standardFormat string
)

var standardCmd = &cobra.Command{
	Use:   "standard",
	Short: "Write the standard 8-ball table authoring document",
	Args:  cobra.NoArgs,
	RunE:  runStandard,
}

func init() {
	rootCmd.AddCommand(standardCmd)

	standardCmd.Flags().StringVarP(&standardOut, "output", "o", "", "output file (default stdout)")
	standardCmd.Flags().StringVarP(&standardFormat, "format", "f", "yaml", "document format: yaml or json")
}

func runStandard(cmd *cobra.Command, args []string) error {
	var w io.Writer = cmd.OutOrStdout()
	if standardOut != "" {
		f, err := os.Create(standardOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	t := authoring.StandardTable()
	switch standardFormat {
	case "yaml":
		return authoring.WriteYAML(w, t)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	default:
		return fmt.Errorf("unknown format %q", standardFormat)
	}
}
