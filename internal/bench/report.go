package bench

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Format selects how a report is rendered.
type Format string

// Supported formats.
const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatMarkdown, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, markdown or csv)", s)
	}
}

// Render writes the timing table in the given format. Times are milliseconds.
func (r *Report) Render(w io.Writer, format Format) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Footer = text.FormatDefault

	header := table.Row{"Size", "Contender"}
	for _, p := range Phases {
		header = append(header, string(p))
	}
	header = append(header, "Checks")
	tbl.AppendHeader(header)

	for _, res := range r.Results {
		row := table.Row{sizeCell(res.Size, format), res.Contender}
		for _, p := range Phases {
			d, ok := res.Timings[p]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, millis(d))
		}
		row = append(row, r.checkCell(res, format))
		tbl.AppendRow(row)
	}

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("Total: %d runs", len(r.Results)),
		"",
		"elapsed " + r.Elapsed.Round(time.Millisecond).String(),
		"peak " + humanize.IBytes(uint64(max(r.PeakMemory, 0))),
	})

	var out string
	switch format {
	case FormatMarkdown:
		out = tbl.RenderMarkdown()
	case FormatCSV:
		out = tbl.RenderCSV()
	default:
		out = tbl.Render()
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// sizeCell groups digits for reading; CSV keeps the plain number.
func sizeCell(size int, format Format) string {
	if format == FormatCSV {
		return strconv.Itoa(size)
	}
	return humanize.Comma(int64(size))
}

func (r *Report) checkCell(res Result, format Format) string {
	failed := len(res.Failed())
	if failed == 0 {
		return "ok"
	}
	text := fmt.Sprintf("FAIL %d/%d", failed, len(res.Checks))
	if format == FormatTable {
		return color.New(color.FgRed).Sprint(text)
	}
	return text
}

// RenderChecks writes one line per failed check followed by a summary line.
func (r *Report) RenderChecks(w io.Writer) {
	red := color.New(color.FgRed)
	total := 0
	for _, res := range r.Results {
		total += len(res.Checks)
		for _, c := range res.Failed() {
			red.Fprintf(w, "FAIL %s @ %s: %s (%s)\n", res.Contender, humanize.Comma(int64(res.Size)), c.Name, c.Detail)
		}
	}

	if failed := r.FailedChecks(); failed > 0 {
		red.Fprintf(w, "%d of %d sanity checks failed\n", failed, total)
		return
	}
	color.New(color.FgGreen).Fprintf(w, "all %d sanity checks passed\n", total)
}

func millis(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 2, 64)
}
