package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kindredlab/kindred/pkg/graph"
	"github.com/kindredlab/kindred/pkg/layout"
)

// inspectCommand creates the inspect command for browsing layout files.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [layout.json]",
		Short: "Browse a layout file in an interactive table",
		Long: `Browse a layout file in an interactive table.

Each row is one placed person with their final coordinates and
generation. Rows are ordered by generation, then by position along the
sibling axis.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := graph.ReadLayoutFile(args[0])
			if err != nil {
				return fmt.Errorf("load layout %s: %w", args[0], err)
			}
			model := NewLayoutModel(l)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// placedRow is one row of the inspect table.
type placedRow struct {
	ID         string
	X, Y       float64
	Generation int
}

// LayoutModel is the bubbletea model for browsing placed people.
type LayoutModel struct {
	Orientation string
	Rows        []placedRow
	Cursor      int
	Height      int
	Offset      int
}

// NewLayoutModel builds the inspect model from a serialized layout.
func NewLayoutModel(l graph.Layout) LayoutModel {
	return LayoutModel{
		Orientation: l.Orientation,
		Rows:        placedRows(l),
		Height:      15,
	}
}

// placedRows orders people by generation, then sibling position.
// Generation is the rank of the node's position along the generation
// axis, which depends on the recorded orientation.
func placedRows(l graph.Layout) []placedRow {
	genOf := generationAxis(layout.Orientation(l.Orientation))

	depths := make([]float64, 0, len(l.Nodes))
	seen := make(map[float64]bool)
	for _, n := range l.Nodes {
		if d := genOf(n); !seen[d] {
			seen[d] = true
			depths = append(depths, d)
		}
	}
	sort.Float64s(depths)
	rank := make(map[float64]int, len(depths))
	for i, d := range depths {
		rank[d] = i
	}

	rows := make([]placedRow, len(l.Nodes))
	for i, n := range l.Nodes {
		rows[i] = placedRow{ID: n.ID, X: n.X, Y: n.Y, Generation: rank[genOf(n)]}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Generation != rows[j].Generation {
			return rows[i].Generation < rows[j].Generation
		}
		if rows[i].X != rows[j].X {
			return rows[i].X < rows[j].X
		}
		return rows[i].Y < rows[j].Y
	})
	return rows
}

// generationAxis returns the coordinate that encodes generation depth
// for the given orientation, increasing toward descendants.
func generationAxis(o layout.Orientation) func(graph.LayoutNode) float64 {
	switch o {
	case layout.BottomUp:
		return func(n graph.LayoutNode) float64 { return -n.Y }
	case layout.LeftRight:
		return func(n graph.LayoutNode) float64 { return n.X }
	case layout.RightLeft:
		return func(n graph.LayoutNode) float64 { return -n.X }
	default:
		return func(n graph.LayoutNode) float64 { return n.Y }
	}
}

func (m LayoutModel) Init() tea.Cmd {
	return nil
}

func (m LayoutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g":
			m.Cursor, m.Offset = 0, 0
		case "G":
			m.Cursor = len(m.Rows) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m LayoutModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout Inspector"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s · %d people", m.Orientation, len(m.Rows))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			r.ID,
			fmt.Sprintf("%d", r.Generation),
			fmt.Sprintf("%.1f", r.X),
			fmt.Sprintf("%.1f", r.Y),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Person", "Gen", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}
