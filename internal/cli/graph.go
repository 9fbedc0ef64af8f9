package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/io"
	"github.com/matzehuels/treemap/pkg/render"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		group    string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph [layout.json]",
		Short: "Draw the cell adjacency graph of one sibling group",
		Long: `Draw which cells of a sibling group share a boundary.

Nodes sit at the centers of their cells; solid edges cross vertical
boundaries and dashed edges horizontal ones. The output format follows the
file extension: .dot writes Graphviz source, .svg renders it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			_, l, err := io.ImportLayout(input)
			if err != nil {
				return fmt.Errorf("load layout %s: %w", input, err)
			}
			p, ok := l.Groups[group]
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "layout %s has no group under %q", input, group)
			}

			if output == "" {
				output = strings.TrimSuffix(strings.TrimSuffix(input, filepath.Ext(input)), ".layout") + ".graph.svg"
			}
			dot := render.ToDOT(p, render.Options{Detailed: detailed})

			var data []byte
			switch ext := strings.ToLower(filepath.Ext(output)); ext {
			case ".dot", ".gv":
				data = []byte(dot)
			case ".svg":
				data, err = render.RenderSVG(cmd.Context(), dot)
				if err != nil {
					return fmt.Errorf("render %s: %w", output, err)
				}
			default:
				return errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q (want .dot or .svg)", ext)
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Graph of %s (%d cells)", groupName(group), p.Len())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "parent item whose children to draw (default: top level)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, .dot or .svg (default: <input>.graph.svg)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show size, area and aspect ratio in node labels")

	return cmd
}
