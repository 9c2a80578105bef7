// Package render prints analysis results for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"vegaedge/internal/types"
)

type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	margin  lipgloss.Style
	dim     lipgloss.Style
}

// newStyles binds styles to w so colour is only emitted on a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")),
		margin:  r.NewStyle().Foreground(lipgloss.Color("11")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Text writes res as the four result tabs one after another.
func Text(w io.Writer, res *types.AnalysisResult) error {
	st := newStyles(w)
	var b strings.Builder

	req := res.Request
	fmt.Fprintf(&b, "%s\n", st.title.Render(fmt.Sprintf("%s %s risk reversal, DTE %d-%d", req.Ticker, req.Side, req.MinDTE, req.MaxDTE)))
	fmt.Fprintf(&b, "%s\n", st.dim.Render(fmt.Sprintf("id %s  took %s", res.ID, res.Duration.Round(time.Millisecond))))

	section(&b, st, "Summary", res.Report.Summary)
	section(&b, st, "Risk Analysis", res.Report.Risk)
	section(&b, st, "Pricing Comparison", res.Report.PricingComparison)

	fmt.Fprintf(&b, "\n%s\n", st.heading.Render(" Top 5 Results "))
	b.WriteString(st.margin.Render(res.Margin.Text) + "\n\n")
	if len(res.View.TopResults) == 0 {
		b.WriteString(st.dim.Render("No results.") + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	if err := table(&b, res.View.TopResults); err != nil {
		return err
	}
	if len(res.View.NextResults) > 0 {
		b.WriteString("\nNext Best Results:\n")
		if err := table(&b, res.View.NextResults); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func section(b *strings.Builder, st styles, title, body string) {
	fmt.Fprintf(b, "\n%s\n", st.heading.Render(" "+title+" "))
	if body == "" {
		b.WriteString(st.dim.Render("(empty)") + "\n")
		return
	}
	b.WriteString(body + "\n")
}

func table(w io.Writer, rows []types.TradeRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(types.TradeRowHeaders[:], "\t")))
	for _, r := range rows {
		cells := r.Cells()
		fmt.Fprintln(tw, strings.Join(cells[:], "\t"))
	}
	return tw.Flush()
}

// JSON writes res as indented JSON.
func JSON(w io.Writer, res any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
