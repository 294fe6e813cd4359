package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyritecloud/pyrite/internal/api"
)

func TestFormatTimestamp(t *testing.T) {
	ts := "2024-03-05T10:20:30Z"
	want := time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC).Local().Format(TableDateFormat)

	assert.Equal(t, want, FormatTimestamp(ts))
	assert.Equal(t, "", FormatTimestamp(""))
	assert.Equal(t, "yesterday", FormatTimestamp("yesterday"))
}

func TestTeamsTable(t *testing.T) {
	tbl := TeamsTable([]api.Team{
		{ID: "t1", Name: "core", Subscription: "pro", Owner: "u1", Meta: &api.TeamMeta{OwnerEmail: "a@b.c"}},
		{ID: "t2", Name: "side", Subscription: "free", Owner: "u2"},
	})

	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "PRO", tbl.Rows[0][2].Text)
	assert.Equal(t, "a@b.c", tbl.Rows[0][3].Text)
	assert.Equal(t, "u2", tbl.Rows[1][3].Text)
}

func TestServiceEnvironmentsTable(t *testing.T) {
	tbl := ServiceEnvironmentsTable([]api.ServiceEnvironment{
		{
			ID:               "e1",
			Name:             "production",
			Status:           3001,
			Meta:             &api.ServiceEnvironmentMeta{Service: &api.Service{Name: "web", Type: "docker"}},
			DockerDeployment: &api.Deployment{Status: 3021},
		},
		{ID: "e2", Name: "staging", Status: 2011},
	})

	require.Len(t, tbl.Rows, 2)
	first := tbl.Rows[0]
	assert.Equal(t, "web", first[2].Text)
	assert.Equal(t, "DOCKER", first[3].Text)
	assert.Equal(t, "Ready", first[4].Text)
	assert.Equal(t, "Deployed", first[5].Text)

	second := tbl.Rows[1]
	assert.Equal(t, "", second[2].Text)
	assert.Equal(t, "Syncing Network", second[4].Text)
	assert.Equal(t, "", second[5].Text)
}

func TestTable_RenderPretty(t *testing.T) {
	tbl := ServicesTable([]api.Service{{ID: "s1", ProjectID: "p1", Name: "api", Type: "docker", Status: 4021}})

	var buf bytes.Buffer
	tbl.RenderPretty(&buf)

	out := buf.String()
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "s1")
	assert.Contains(t, out, "DOCKER")
	assert.Contains(t, out, "Failed To Delete")
}

func TestTable_RenderPlain(t *testing.T) {
	tbl := ProjectsTable([]api.Project{{ID: "p1", Name: "shop", TeamID: "t1"}})

	var buf bytes.Buffer
	tbl.RenderPlain(&buf, false)

	assert.Equal(t,
		"PROJECT_ID   PROJECT_NAME   TEAM_ID   CREATED_AT   UPDATED_AT\n"+
			"p1           shop           t1\n",
		buf.String())
}
