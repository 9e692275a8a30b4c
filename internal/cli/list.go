package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/easelhq/easel/pkg/store"
)

// listCommand creates the list command for browsing archived banners.
func (c *CLI) listCommand() *cobra.Command {
	var (
		limit int
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse archived banners",
		Long: `Browse archived banners.

Without flags, an interactive picker opens: selecting a record writes
its document to <id>.json in the current directory. Use --plain for a
non-interactive table, suitable for scripting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd.Context(), limit, plain)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum records to show")
	cmd.Flags().BoolVar(&plain, "plain", false, "print a plain table instead of the interactive picker")

	return cmd
}

func (c *CLI) runList(ctx context.Context, limit int, plain bool) error {
	s, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	records, err := s.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		printInfo("Archive is empty")
		return nil
	}

	if plain {
		for _, r := range records {
			status := "valid"
			if !r.Valid {
				status = fmt.Sprintf("%d violations", len(r.Violations))
			}
			fmt.Printf("%s\t%dx%d\t%s\t%s\t%s\n",
				r.ID, r.Width, r.Height, status,
				r.CreatedAt.Format(time.RFC3339), r.Brief)
		}
		return nil
	}

	model := newRecordListModel(records)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}
	selected := final.(recordListModel).selected
	if selected == nil {
		return nil
	}

	path := selected.ID + ".json"
	if err := os.WriteFile(path, selected.Document, 0o644); err != nil {
		return err
	}
	printSuccess("Exported %q", selected.Brief)
	printFile(path)
	return nil
}

// =============================================================================
// recordListModel - Interactive archive browsing
// =============================================================================

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// recordListModel is the bubbletea model for the archive picker.
type recordListModel struct {
	records  []*store.Record
	cursor   int
	selected *store.Record
	height   int
	offset   int
}

func newRecordListModel(records []*store.Record) recordListModel {
	return recordListModel{
		records: records,
		height:  15,
	}
}

func (m recordListModel) Init() tea.Cmd {
	return nil
}

func (m recordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.records)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.selected = m.records[m.cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m recordListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Archived Banners"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ export  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.records) {
		end = len(m.records)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		r := m.records[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		status := iconSuccess
		if !r.Valid {
			status = fmt.Sprintf("%d!", len(r.Violations))
		}

		brief := r.Brief
		if len(brief) > 40 {
			brief = brief[:37] + "..."
		}

		rows = append(rows, []string{
			cursor, shortID(r.ID), brief,
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			status, formatRelativeTime(r.CreatedAt),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Brief", "Size", "Valid", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.offset + row
			if actualIdx >= len(m.records) {
				return lipgloss.NewStyle()
			}
			r := m.records[actualIdx]
			isCurrent := actualIdx == m.cursor

			base := lipgloss.NewStyle()
			if isCurrent {
				if r.Valid {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Foreground(colorYellow).Bold(true)
			}
			if !r.Valid {
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.records))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// shortID truncates a UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
