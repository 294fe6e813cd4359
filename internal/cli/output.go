package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the supported output formats for command results.
type OutputFormat string

const (
	// OutputFormatTable renders rounded, coloured tables.
	OutputFormatTable OutputFormat = "table"
	// OutputFormatPlain renders uncoloured aligned columns for scripting.
	OutputFormatPlain OutputFormat = "plain"
	// OutputFormatJSON prints the raw API objects as indented JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML prints the raw API objects as YAML.
	OutputFormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat validates a --output value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputFormatTable, OutputFormatPlain, OutputFormatJSON, OutputFormatYAML:
		return f, nil
	case "":
		return OutputFormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, plain, json or yaml)", s)
	}
}

// Printer writes command results in the selected format.
type Printer struct {
	Format    OutputFormat
	NoHeaders bool
	Out       io.Writer
}

// NewPrinter creates a Printer writing to stdout.
func NewPrinter(format OutputFormat, noHeaders bool) *Printer {
	return &Printer{Format: format, NoHeaders: noHeaders, Out: os.Stdout}
}

// Print writes data as JSON or YAML, or tbl for the table formats.
func (p *Printer) Print(data interface{}, tbl *Table) error {
	switch p.Format {
	case OutputFormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(p.Out, string(out))
		return err

	case OutputFormatYAML:
		return p.printYAML(data)

	case OutputFormatPlain:
		if len(tbl.Rows) == 0 && tbl.Empty != "" {
			fmt.Fprintln(p.Out, tbl.Empty)
			return nil
		}
		tbl.RenderPlain(p.Out, p.NoHeaders)
		return nil

	case OutputFormatTable, "":
		if len(tbl.Rows) == 0 && tbl.Empty != "" {
			fmt.Fprintln(p.Out, text.FgYellow.Sprint(tbl.Empty))
			return nil
		}
		tbl.RenderPretty(p.Out)
		return nil

	default:
		return fmt.Errorf("unsupported output format: %s", p.Format)
	}
}

// printYAML goes through JSON so field names match the API's JSON names.
func (p *Printer) printYAML(data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	out, err := yaml.Marshal(generic)
	if err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}
	_, err = fmt.Fprint(p.Out, string(out))
	return err
}
