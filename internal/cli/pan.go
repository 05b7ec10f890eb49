package cli

import (
	"fmt"
	"hash/fnv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/driftwall/driftwall/pkg/pipeline"
	"github.com/driftwall/driftwall/pkg/wall"
)

// cellAspect compensates for terminal cells being roughly twice as tall
// as they are wide, so pan distances feel the same in both axes.
const cellAspect = 2.0

// panCommand creates the pan command: an interactive terminal viewport
// over the endless wall.
func (c *CLI) panCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "pan <layout|manifest>",
		Short: "Pan across the wall in the terminal",
		Long: `Pan opens an interactive viewport over the wall. The input is either a
packed layout file or an image manifest; manifests are packed first.
Use the arrow keys (or hjkl) to drift, +/- to zoom, 0 to jump back to
the origin, and q to quit. The wall has no edges; keep going in any
direction and it repeats seamlessly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := c.loadPanLayout(cmd, args[0], noCache)
			if err != nil {
				return err
			}
			model := newPanModel(layout)
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache when packing a manifest")

	return cmd
}

// loadPanLayout accepts either a packed layout file or a manifest; a
// manifest is packed through the pipeline first.
func (c *CLI) loadPanLayout(cmd *cobra.Command, input string, noCache bool) (*wall.Layout, error) {
	if doc, err := wall.ReadDocumentFile(input); err == nil {
		return doc.Layout()
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	opts := pipeline.Options{ManifestPath: input}
	m, err := runner.LoadManifest(opts)
	if err != nil {
		return nil, err
	}
	doc, err := runner.BuildLayout(cmd.Context(), m, opts)
	if err != nil {
		return nil, err
	}
	return doc.Layout()
}

// panModel is the bubbletea model for the interactive wall viewport.
type panModel struct {
	layout *wall.Layout
	x, y   float64 // world position of the viewport's top-left corner
	scale  float64 // world units per terminal column
	width  int
	height int
}

func newPanModel(layout *wall.Layout) panModel {
	cfg := layout.Config()
	return panModel{
		layout: layout,
		// One packed row spans a few terminal rows at the initial zoom.
		scale: cfg.TargetRowHeight / 8,
	}
}

func (m panModel) Init() tea.Cmd {
	return nil
}

func (m panModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		step := 8 * m.scale
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.x -= step
		case "right", "l":
			m.x += step
		case "up", "k":
			m.y -= step
		case "down", "j":
			m.y += step
		case "pgup":
			m.y -= m.viewportHeight()
		case "pgdown":
			m.y += m.viewportHeight()
		case "+", "=":
			m.scale /= 1.25
			if m.scale < 1 {
				m.scale = 1
			}
		case "-":
			m.scale *= 1.25
			if limit := m.layout.Config().WorldSize / 10; m.scale > limit {
				m.scale = limit
			}
		case "0":
			m.x, m.y = 0, 0
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// gridRows returns the number of terminal rows available for the wall
// itself, below the header and above the status line.
func (m panModel) gridRows() int {
	return m.height - 3
}

func (m panModel) viewportWidth() float64 {
	return float64(m.width) * m.scale
}

func (m panModel) viewportHeight() float64 {
	return float64(m.gridRows()) * m.scale * cellAspect
}

func (m panModel) View() string {
	cols, rows := m.width, m.gridRows()
	if cols <= 0 || rows <= 0 {
		return ""
	}

	placements, err := m.layout.Visible(wall.Viewport{
		X:      m.x,
		Y:      m.y,
		Width:  m.viewportWidth(),
		Height: m.viewportHeight(),
	})
	if err != nil {
		return StyleWarning.Render(err.Error())
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("driftwall"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  (%.0f, %.0f)  zoom 1:%.0f", m.x, m.y, m.scale)))
	b.WriteString("\n")
	b.WriteString(m.renderGrid(placements, cols, rows))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d visible · arrows/hjkl pan · +/- zoom · 0 origin · q quit", len(placements))))

	return b.String()
}

// renderGrid rasterizes the visible placements onto a character grid.
// Later placements overwrite earlier ones; order within the result
// carries no meaning, so ties are arbitrary but stable per query.
func (m panModel) renderGrid(placements []wall.Placement, cols, rows int) string {
	const empty = -1
	cells := make([]int, cols*rows)
	for i := range cells {
		cells[i] = empty
	}

	rowHeight := m.scale * cellAspect
	ids := make([]string, len(placements))
	for i, p := range placements {
		ids[i] = p.Image.ID
		c0 := clampInt(int((p.RenderX-m.x)/m.scale), 0, cols)
		c1 := clampInt(int((p.RenderX+p.Image.Width-m.x)/m.scale), 0, cols)
		r0 := clampInt(int((p.RenderY-m.y)/rowHeight), 0, rows)
		r1 := clampInt(int((p.RenderY+p.Image.Height-m.y)/rowHeight), 0, rows)
		for r := r0; r < r1; r++ {
			for col := c0; col < c1; col++ {
				cells[r*cols+col] = i
			}
		}
	}

	var b strings.Builder
	for r := 0; r < rows; r++ {
		col := 0
		for col < cols {
			idx := cells[r*cols+col]
			run := col
			for run < cols && cells[r*cols+run] == idx {
				run++
			}
			if idx == empty {
				b.WriteString(StyleDim.Render(strings.Repeat("·", run-col)))
			} else {
				style := lipgloss.NewStyle().Foreground(blockColor(ids[idx]))
				b.WriteString(style.Render(strings.Repeat("█", run-col)))
			}
			col = run
		}
		if r < rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// blockColor picks a stable 256-color terminal color for an image id.
func blockColor(id string) lipgloss.Color {
	h := fnv.New32a()
	h.Write([]byte(id))
	// 6x6x6 color cube (codes 16..231), skipping the grayscale ramp.
	return lipgloss.Color(fmt.Sprintf("%d", 16+h.Sum32()%216))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
