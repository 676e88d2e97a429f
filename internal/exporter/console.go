package exporter

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"nycsales/internal/analytics"
	"nycsales/internal/dataprocessing"
	"nycsales/pkg/contracts/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	totalStyle  = numberStyle.Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ConsoleReporter prints the headline tables of a run
type ConsoleReporter struct {
	w io.Writer
}

// NewConsoleReporter creates a reporter writing to w
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

// Render writes the run summary, the period-share table and the price per
// square foot table
func (c *ConsoleReporter) Render(report *analytics.Report, result *dataprocessing.Result) error {
	sections := []string{}
	if result != nil {
		sections = append(sections, c.summary(result))
	}
	sections = append(sections,
		section("Share of tax class 2 sales by borough and period", periodSharesTable(report.PeriodShares)),
		section("Mean price per square foot (tax class 2)", pricePerSqFtTable(report.PricePerSqFt)),
	)

	_, err := fmt.Fprintln(c.w, strings.Join(sections, "\n\n"))
	return err
}

func (c *ConsoleReporter) summary(result *dataprocessing.Result) string {
	read, kept := 0, 0
	for _, s := range result.Sources {
		read += s.RowsRead
		kept += s.RowsKept
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render("NYC sales pipeline"))
	fmt.Fprintf(&b, "  Run:      %s\n", mutedStyle.Render(result.RunID))
	fmt.Fprintf(&b, "  Sources:  %d\n", len(result.Sources))
	fmt.Fprintf(&b, "  Rows:     %d read, %d kept, %d dropped\n", read, kept, result.Drops.Total())
	for _, e := range result.Drops.Entries() {
		if e.Rows == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %-27s %d\n", e.Reason, e.Rows)
	}
	fmt.Fprintf(&b, "  Duration: %s", result.Duration.Round(time.Millisecond))
	return b.String()
}

func section(title, body string) string {
	return titleStyle.Render(title) + "\n" + body
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

func periodSharesTable(t analytics.PeriodShareTable) string {
	lastRow := len(t.Rows)
	tbl := newTable("Borough", "Pre", "Post", "Total").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			case row == lastRow:
				return totalStyle
			default:
				return numberStyle
			}
		})

	for _, r := range t.Rows {
		tbl.Row(string(r.Borough), formatShare(r.Pre), formatShare(r.Post), formatShare(r.Total))
	}
	tbl.Row("Total", formatShare(t.Totals.Pre), formatShare(t.Totals.Post), formatShare(t.Totals.Total))
	return tbl.String()
}

func pricePerSqFtTable(cells []analytics.PricePerSqFtCell) string {
	headers := []string{"Borough"}
	for _, p := range domain.Periods {
		headers = append(headers, string(p))
	}

	tbl := newTable(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})

	for _, b := range domain.Boroughs {
		row := []string{string(b)}
		for _, p := range domain.Periods {
			row = append(row, formatMoney(analytics.PricePerSqFtFor(cells, b, p)))
		}
		tbl.Row(row...)
	}
	return tbl.String()
}

func formatShare(f float64) string {
	if math.IsNaN(f) {
		return "n/a"
	}
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func formatMoney(f float64) string {
	if math.IsNaN(f) {
		return "n/a"
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
