package cli

import (
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pyritecloud/pyrite/internal/api"
)

// TableDateFormat is the layout of timestamps in table output, in local time.
const TableDateFormat = "2006-01-02 15:04"

// Cell is one table value with optional colours.
type Cell struct {
	Text   string
	Colors text.Colors
}

func plain(s string) Cell { return Cell{Text: s} }

func colored(s string, c ...text.Color) Cell { return Cell{Text: s, Colors: c} }

// Table is a renderer-agnostic table: the same rows can be printed as a
// rounded go-pretty table or as plain aligned columns.
type Table struct {
	Headers []string
	Rows    [][]Cell
	// Empty is printed instead of the table when there are no rows.
	Empty string
}

// RenderPretty writes the table with rounded borders and colours.
func (t *Table) RenderPretty(w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, 0, len(t.Headers))
	for _, h := range t.Headers {
		header = append(header, text.FgHiCyan.Sprint(h))
	}
	tw.AppendHeader(header)

	for _, cells := range t.Rows {
		row := make(table.Row, 0, len(cells))
		for _, c := range cells {
			if len(c.Colors) > 0 {
				row = append(row, c.Colors.Sprint(c.Text))
			} else {
				row = append(row, c.Text)
			}
		}
		tw.AppendRow(row)
	}

	tw.Render()
}

// RenderPlain writes the table as uncoloured, space-aligned columns.
func (t *Table) RenderPlain(w io.Writer, noHeaders bool) {
	pw := NewPlainTableWriter(w)
	pw.SetHeaders(t.Headers)
	pw.SetNoHeaders(noHeaders)
	for _, cells := range t.Rows {
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.Text
		}
		pw.AppendRow(row)
	}
	pw.Render()
}

// FormatTimestamp renders an RFC 3339 timestamp in local time using
// TableDateFormat. Unparseable input is returned unchanged.
func FormatTimestamp(ts string) string {
	if ts == "" {
		return ""
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return parsed.Local().Format(TableDateFormat)
}

// TeamsTable builds the teams listing.
func TeamsTable(teams []api.Team) *Table {
	t := &Table{
		Headers: []string{"Team Id", "Team Name", "Subscription", "Owner", "Created At", "Updated At"},
		Empty:   "No teams found",
	}
	for _, team := range teams {
		t.Rows = append(t.Rows, []Cell{
			plain(team.ID),
			colored(team.Name, text.FgWhite),
			colored(strings.ToUpper(team.Subscription), text.FgWhite),
			colored(team.OwnerDisplay(), text.FgWhite),
			plain(FormatTimestamp(team.CreatedAt)),
			plain(FormatTimestamp(team.UpdatedAt)),
		})
	}
	return t
}

// ProjectsTable builds the projects listing.
func ProjectsTable(projects []api.Project) *Table {
	t := &Table{
		Headers: []string{"Project Id", "Project Name", "Team Id", "Created At", "Updated At"},
		Empty:   "No projects found",
	}
	for _, p := range projects {
		t.Rows = append(t.Rows, []Cell{
			plain(p.ID),
			colored(p.Name, text.FgWhite),
			plain(p.TeamID),
			plain(FormatTimestamp(p.CreatedAt)),
			plain(FormatTimestamp(p.UpdatedAt)),
		})
	}
	return t
}

// ServicesTable builds the services listing.
func ServicesTable(services []api.Service) *Table {
	t := &Table{
		Headers: []string{"Service Id", "Project Id", "Service Name", "Type", "Status", "Created At", "Updated At"},
		Empty:   "No services found",
	}
	for _, s := range services {
		t.Rows = append(t.Rows, []Cell{
			plain(s.ID),
			plain(s.ProjectID),
			colored(s.Name, text.FgWhite),
			plain(strings.ToUpper(s.Type)),
			colored(ServiceStatusLabel(s.Status), ServiceStatusColor(s.Status)),
			plain(FormatTimestamp(s.CreatedAt)),
			plain(FormatTimestamp(s.UpdatedAt)),
		})
	}
	return t
}

// ServiceEnvironmentsTable builds the service environments listing.
func ServiceEnvironmentsTable(envs []api.ServiceEnvironment) *Table {
	t := &Table{
		Headers: []string{
			"Environment Id", "Environment Name", "Service Name", "Type",
			"Status", "Deployment Status", "Created At", "Updated At",
		},
		Empty: "No service environments found",
	}
	for _, e := range envs {
		deployment := plain("")
		if d := e.ActiveDeployment(); d != nil {
			deployment = colored(DeploymentStatusLabel(d.Status), DeploymentStatusColor(d.Status))
		}
		t.Rows = append(t.Rows, []Cell{
			plain(e.ID),
			colored(e.Name, text.FgWhite),
			colored(e.ServiceName(), text.FgWhite),
			plain(strings.ToUpper(e.ServiceType())),
			colored(ServiceStatusLabel(e.Status), ServiceStatusColor(e.Status)),
			deployment,
			plain(FormatTimestamp(e.CreatedAt)),
			plain(FormatTimestamp(e.UpdatedAt)),
		})
	}
	return t
}
