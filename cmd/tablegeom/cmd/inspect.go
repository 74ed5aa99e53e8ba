package cmd

import (
	"fmt"

	"github.com/playmatatu/tablegeom/internal/geom"
	"github.com/playmatatu/tablegeom/internal/store"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <layout-file>",
	Short: "Summarise a binary layout",
	Long: `Print segment and pocket counts, then one line per pocket. With -v
every rim vertex is listed as well.

Examples:
  tablegeom inspect table.bin
  tablegeom inspect -v table.bin`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	l, blob, err := readLayout(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Layout:   %s\n", args[0])
	fmt.Fprintf(out, "Size:     %d bytes\n", len(blob))
	fmt.Fprintf(out, "Checksum: %s\n", store.Checksum(blob))
	fmt.Fprintf(out, "Segments: %d\n", len(l.Segments))
	fmt.Fprintf(out, "Pockets:  %d\n\n", len(l.Pockets))

	for i, s := range l.Segments {
		fmt.Fprintf(out, "  segment %d: %s -> %s\n", i, vecString(s.Start), vecString(s.End))
	}
	for _, p := range l.Pockets {
		fmt.Fprintf(out, "  pocket %d: center %s radius %s rebound %s rim %d\n",
			p.ID, vecString(p.Center), p.Radius, p.ReboundVelocityThreshold, len(p.Rim))
		if !verbose {
			continue
		}
		for j, s := range p.Rim {
			for k, v := range s.Vertices() {
				fmt.Fprintf(out, "    rim %d vertex %d: %s\n", j, k, vecString(v))
			}
		}
	}
	return nil
}

func vecString(v geom.Vec2) string {
	return fmt.Sprintf("(%s, %s)", v.X, v.Y)
}
