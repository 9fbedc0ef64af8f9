package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/io"
	"github.com/matzehuels/treemap/pkg/treemap"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [layout.json]",
		Short: "Validate a layout file and report its quality",
		Long: `Validate every sibling group of a layout file.

For each group the table shows its cell and segment counts, the aspect ratio
score under the configured p-norm and the largest difference between a cell's
area and its target size. The command fails if any group breaks the
partition invariants.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, l, err := io.ImportLayout(args[0])
			if err != nil {
				return fmt.Errorf("load layout %s: %w", args[0], err)
			}
			reports := l.Check(c.settings.Search.PNorm)
			fmt.Println(renderReports(reports))

			failed := 0
			for _, r := range reports {
				if r.Err != nil {
					failed++
					printError("%s: %v", groupName(r.Parent), r.Err)
				}
			}
			if failed > 0 {
				return errors.New(errors.ErrCodeInvariant, "%d of %d groups are invalid", failed, len(reports))
			}
			printSuccess("%d groups valid", len(reports))
			return nil
		},
	}
}

func renderReports(reports []treemap.GroupReport) string {
	rows := make([][]string, len(reports))
	for i, r := range reports {
		status := "ok"
		if r.Err != nil {
			status = "invalid"
		}
		rows[i] = []string{
			groupName(r.Parent),
			strconv.Itoa(r.Cells),
			strconv.Itoa(r.Segments),
			formatScore(r.Score),
			fmt.Sprintf("%.3g", r.MaxResidual),
			status,
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Group", "Cells", "Segments", "Score", "Max residual", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 5 {
				if reports[row].Err != nil {
					return base.Inherit(StyleError)
				}
				return base.Inherit(StyleSuccess)
			}
			if col >= 1 && col <= 4 {
				return base.Inherit(StyleNumber)
			}
			return base
		}).
		Render()
}

func groupName(parent string) string {
	if parent == treemap.RootGroup {
		return "(root)"
	}
	return parent
}

func formatScore(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.4g", v)
}
