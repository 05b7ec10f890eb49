package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/driftwall/driftwall/pkg/wall"
)

// queryOpts holds the command-line flags for the query command.
type queryOpts struct {
	viewport wall.Viewport
	asJSON   bool
}

// queryCommand creates the query command. It answers a single
// visibility query against a packed layout file.
func (c *CLI) queryCommand() *cobra.Command {
	var opts queryOpts

	cmd := &cobra.Command{
		Use:   "query <layout>",
		Short: "List the images visible in a viewport",
		Long: `Query loads a packed layout and lists every image instance visible in
the given viewport. Coordinates are unbounded world coordinates; the
wall repeats in every direction, so negative or far-away positions are
valid and wrap onto the tile.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(args[0], &opts)
		},
	}

	cmd.Flags().Float64VarP(&opts.viewport.X, "x", "x", 0, "viewport left edge")
	cmd.Flags().Float64VarP(&opts.viewport.Y, "y", "y", 0, "viewport top edge")
	cmd.Flags().Float64VarP(&opts.viewport.Width, "width", "W", 1920, "viewport width")
	cmd.Flags().Float64VarP(&opts.viewport.Height, "height", "H", 1080, "viewport height")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print placements as JSON")

	return cmd
}

func (c *CLI) runQuery(input string, opts *queryOpts) error {
	doc, err := wall.ReadDocumentFile(input)
	if err != nil {
		return err
	}
	layout, err := doc.Layout()
	if err != nil {
		return err
	}

	placements, err := layout.Visible(opts.viewport)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(placements)
	}

	if len(placements) == 0 {
		printInfo("No images visible in %gx%g at (%g, %g)",
			opts.viewport.Width, opts.viewport.Height, opts.viewport.X, opts.viewport.Y)
		return nil
	}

	fmt.Println(renderPlacementTable(placements))
	printDetail("%d visible in %gx%g at (%g, %g)",
		len(placements), opts.viewport.Width, opts.viewport.Height, opts.viewport.X, opts.viewport.Y)
	return nil
}

// renderPlacementTable formats placements as a bordered table.
func renderPlacementTable(placements []wall.Placement) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(placements))
	for _, p := range placements {
		rows = append(rows, []string{
			p.Image.ID,
			fmt.Sprintf("%.0f, %.0f", p.RenderX, p.RenderY),
			fmt.Sprintf("%.0f × %.0f", p.Image.Width, p.Image.Height),
			fmt.Sprintf("%d, %d", p.CopyX, p.CopyY),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Image", "Position", "Size", "Copy").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	return t.Render()
}
