package cli

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// PlainTableWriter prints columns separated by spaces, with no borders or
// colours, for output that is piped into grep, awk or cut.
type PlainTableWriter struct {
	headers      []string
	rows         [][]string
	columnWidths []int
	// minPadding is the minimum space between columns
	minPadding  int
	showHeaders bool
	output      io.Writer
}

// NewPlainTableWriter creates a writer that shows headers by default.
func NewPlainTableWriter(output io.Writer) *PlainTableWriter {
	return &PlainTableWriter{
		headers:      []string{},
		rows:         [][]string{},
		columnWidths: []int{},
		minPadding:   3,
		showHeaders:  true,
		output:       output,
	}
}

// SetHeaders sets the column headers. Headers are upper-cased with spaces
// replaced by underscores so every column is a single awk field.
func (w *PlainTableWriter) SetHeaders(headers []string) {
	w.headers = make([]string, len(headers))
	w.columnWidths = make([]int, len(headers))
	for i, h := range headers {
		name := strings.ReplaceAll(strings.ToUpper(h), " ", "_")
		w.headers[i] = name
		w.columnWidths[i] = text.RuneWidthWithoutEscSequences(name)
	}
}

// SetNoHeaders controls whether to suppress the header row.
func (w *PlainTableWriter) SetNoHeaders(noHeaders bool) {
	w.showHeaders = !noHeaders
}

// AppendRow adds a row, padding or truncating it to the header count.
func (w *PlainTableWriter) AppendRow(row []string) {
	normalized := make([]string, len(w.headers))
	for i := range w.headers {
		if i >= len(row) {
			continue
		}
		normalized[i] = row[i]
		if width := text.RuneWidthWithoutEscSequences(row[i]); width > w.columnWidths[i] {
			w.columnWidths[i] = width
		}
	}
	w.rows = append(w.rows, normalized)
}

// Render writes the table. Nothing is written when there are no headers, or
// when there are no rows and headers are suppressed.
func (w *PlainTableWriter) Render() {
	if len(w.headers) == 0 {
		return
	}
	if len(w.rows) == 0 && !w.showHeaders {
		return
	}

	if w.showHeaders {
		w.printRow(w.headers)
	}
	for _, row := range w.rows {
		w.printRow(row)
	}
}

func (w *PlainTableWriter) printRow(row []string) {
	var sb strings.Builder
	for i, cell := range row {
		sb.WriteString(cell)
		if i == len(row)-1 {
			break
		}
		pad := w.columnWidths[i] + w.minPadding - text.RuneWidthWithoutEscSequences(cell)
		sb.WriteString(strings.Repeat(" ", pad))
	}
	io.WriteString(w.output, strings.TrimRight(sb.String(), " ")+"\n")
}
