package cli

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/geom"
	"github.com/matzehuels/treemap/pkg/partition"
	"github.com/matzehuels/treemap/pkg/render"
	"github.com/matzehuels/treemap/pkg/search"
	"github.com/matzehuels/treemap/pkg/treemap"
)

// playCommand creates the interactive playground command.
func (c *CLI) playCommand() *cobra.Command {
	var (
		cells int
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Edit a partition interactively",
		Long: `Edit a single partition in the terminal and watch the engine keep it valid.

Keys: a insert a cell, d remove a random cell, c correct areas,
i improve quality, r reset, q quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.settings
			// Engine logs would tear the full-screen view.
			eng := treemap.New(s.EngineOptions(newLogger(io.Discard, LogInfo)))
			m, err := newPlayModel(eng, s.Bounds(), cells, seed)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().IntVar(&cells, "cells", 8, "initial number of cells")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed for sizes and removals")

	return cmd
}

// =============================================================================
// playModel - Interactive partition editing
// =============================================================================

// playModel is the bubbletea model of the playground.
type playModel struct {
	eng     *treemap.Engine
	bounds  geom.Rect
	initial int
	rng     *rand.Rand

	p      *partition.Partition
	weight map[string]float64 // unscaled target per cell ID
	status string
	failed bool

	cols, rows int
}

var playPalette = []lipgloss.Color{"36", "75", "35", "220", "167", "141", "209", "108", "180", "68"}

func newPlayModel(eng *treemap.Engine, bounds geom.Rect, cells int, seed uint64) (*playModel, error) {
	if cells < 1 {
		cells = 1
	}
	m := &playModel{
		eng:     eng,
		bounds:  bounds,
		initial: cells,
		rng:     rand.New(rand.NewPCG(seed, seed)),
		cols:    60,
		rows:    20,
	}
	if err := m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

// reset dissects a fresh partition of random sizes.
func (m *playModel) reset() error {
	items := make([]partition.Item, m.initial)
	m.weight = make(map[string]float64, m.initial)
	for i := range items {
		items[i] = partition.Item{ID: newCellID(), Size: m.randomWeight()}
		m.weight[items[i].ID] = items[i].Size
	}
	p, err := m.eng.Dissect(m.bounds, items)
	if err != nil {
		return err
	}
	m.p = p
	m.rescale()
	m.setStatus(false, "dissected %d cells", p.Len())
	return nil
}

func newCellID() string { return uuid.NewString()[:8] }

func (m *playModel) randomWeight() float64 { return 1 + 9*m.rng.Float64() }

// rescale sets every cell's target to its weight scaled to the bounds.
func (m *playModel) rescale() {
	for _, c := range m.p.Cells() {
		m.p.SetSize(c, m.weight[m.p.Cell(c).ID])
	}
	m.p.ScaleSizes()
}

func (m *playModel) setStatus(failed bool, format string, args ...any) {
	m.failed = failed
	m.status = fmt.Sprintf(format, args...)
}

func (m *playModel) insert() {
	id := newCellID()
	w := m.randomWeight()
	if _, err := m.eng.Insert(m.p, id, w); err != nil {
		m.setStatus(true, "insert: %s", errors.UserMessage(err))
		return
	}
	m.weight[id] = w
	m.rescale()
	ok := m.eng.CorrectAreas(m.p)
	m.setStatus(!ok, "inserted %s (corrected: %v)", id, ok)
}

func (m *playModel) remove() {
	cells := m.p.Cells()
	if len(cells) == 1 {
		m.setStatus(true, "cannot remove the last cell")
		return
	}
	c := cells[m.rng.IntN(len(cells))]
	id := m.p.Cell(c).ID
	if err := m.eng.Remove(m.p, c); err != nil {
		m.setStatus(true, "remove %s: %s", id, errors.UserMessage(err))
		return
	}
	delete(m.weight, id)
	m.rescale()
	ok := m.eng.CorrectAreas(m.p)
	m.setStatus(!ok, "removed %s (corrected: %v)", id, ok)
}

func (m *playModel) correct() {
	ok := m.eng.CorrectAreas(m.p)
	m.setStatus(!ok, "corrected: %v", ok)
}

func (m *playModel) improve() {
	res := m.eng.ImproveQuality(m.p)
	m.setStatus(false, "%d moves, score %.4g → %.4g (%d candidates)", len(res.Moves), res.Baseline, res.Best, res.Candidates)
}

func (m *playModel) Init() tea.Cmd {
	return nil
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "a":
			m.insert()
		case "d":
			m.remove()
		case "c":
			m.correct()
		case "i":
			m.improve()
		case "r":
			if err := m.reset(); err != nil {
				m.setStatus(true, "reset: %s", errors.UserMessage(err))
			}
		}
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width-2, 10)
		m.rows = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m *playModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Treemap Playground"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("a insert  d remove  c correct  i improve  r reset  q quit"))
	b.WriteString("\n\n")

	g := render.Rasterize(m.p, m.cols, m.rows)
	for y := range g.Rows {
		for x := range g.Cols {
			c := g.At(x, y)
			if c < 0 {
				b.WriteString(" ")
				continue
			}
			i := g.Index(c)
			style := lipgloss.NewStyle().Foreground(playPalette[i%len(playPalette)])
			b.WriteString(style.Render(string(render.Glyph(i))))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	pNorm := m.eng.Options().Search.PNorm
	fmt.Fprintf(&b, "%s cells  %s segments  score %s\n",
		StyleNumber.Render(fmt.Sprint(m.p.Len())),
		StyleNumber.Render(fmt.Sprint(len(m.p.Segments()))),
		StyleNumber.Render(formatScore(search.Score(m.p, pNorm))))
	if m.failed {
		b.WriteString(StyleWarning.Render(m.status))
	} else {
		b.WriteString(StyleDim.Render(m.status))
	}
	b.WriteString("\n")

	return b.String()
}
