package deploy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyritecloud/pyrite/internal/api"
)

const sampleTOML = `
project_id = "proj_1"

[[services]]
name = "web"
environment = "production"
type = "docker"
image = "ghcr.io/acme/web:1.2.3"
plan = "starter"
runtime = "docker"
command = "/app/server"
args = ["--port", "8080"]
with_project_env = true
is_private = false

[[services.ports]]
port = 8080
protocol = "http"
is_public = true

[[services.regions]]
region = "eu-central"
replicas = 2

[[services.volumes]]
name = "data"
mount_path = "/data"
size_gb = 5

[[services.files]]
path = "/etc/app.conf"
content = "debug=false"

[services.env]
LOG_LEVEL = "info"
WORKERS = 4
`

const sampleJSON = `{
  "project_id": "proj_1",
  "services": [
    {
      "name": "worker",
      "type": "docker",
      "image": "ghcr.io/acme/worker:latest",
      "plan": "starter",
      "runtime": "docker",
      "args": ["run", "--queue", "default"],
      "ports": [{"port": 9000, "protocol": "tcp"}]
    }
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), TOMLManifestName, sampleTOML)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "proj_1", m.ProjectID)
	require.Len(t, m.Services, 1)
	svc := m.Services[0]
	assert.Equal(t, "production", svc.Environment)
	assert.Equal(t, []string{"--port", "8080"}, svc.Args)
	require.NotNil(t, svc.WithProjectEnv)
	assert.True(t, *svc.WithProjectEnv)
	assert.Nil(t, svc.IsPrivileged)
	assert.Equal(t, []Port{{Port: 8080, Protocol: "http", IsPublic: true}}, svc.Ports)
	assert.Equal(t, "info", svc.Env["LOG_LEVEL"])
	require.Len(t, svc.Files, 1)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), JSONManifestName, sampleJSON)

	m, err := Load(path)
	require.NoError(t, err)

	require.Len(t, m.Services, 1)
	assert.Equal(t, "worker", m.Services[0].Name)
	assert.Equal(t, "", m.Services[0].Environment)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("unknown key", func(t *testing.T) {
		path := writeFile(t, dir, "typo.toml", "project_id = \"p\"\nprojectid = \"x\"\n[[services]]\nname = \"a\"\nimage = \"i\"\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("files not allowed in json", func(t *testing.T) {
		path := writeFile(t, dir, "files.json", `{"project_id":"p","services":[{"name":"a","image":"i","files":[]}]}`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, dir, "pyrite.yaml", "project_id: p\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "unsupported manifest format")
	})

	t.Run("missing project id", func(t *testing.T) {
		path := writeFile(t, dir, "noproj.toml", "[[services]]\nname = \"a\"\nimage = \"i\"\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "project_id is required")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestValidate(t *testing.T) {
	m := &Manifest{
		Services: []ServiceSpec{
			{Name: "a", Image: "img"},
			{Name: "a", Image: "img"},
			{Image: "img"},
			{Name: "b", Ports: []Port{{Port: 70000}}},
		},
	}

	err := m.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "project_id is required")
	assert.Contains(t, msg, `duplicate service name "a"`)
	assert.Contains(t, msg, "services[2]: name is required")
	assert.Contains(t, msg, `service "b": image is required`)
	assert.Contains(t, msg, "invalid port 70000")

	empty := &Manifest{ProjectID: "p"}
	assert.ErrorContains(t, empty.Validate(), "at least one service is required")
}

func TestFind(t *testing.T) {
	dir := t.TempDir()

	_, err := Find(dir)
	assert.ErrorIs(t, err, ErrNoManifest)

	jsonPath := writeFile(t, dir, JSONManifestName, sampleJSON)
	got, err := Find(dir)
	require.NoError(t, err)
	assert.Equal(t, jsonPath, got)

	tomlPath := writeFile(t, dir, TOMLManifestName, sampleTOML)
	got, err = Find(dir)
	require.NoError(t, err)
	assert.Equal(t, tomlPath, got)
}

func TestUpsertRequest(t *testing.T) {
	m, err := ParseTOML([]byte(sampleTOML))
	require.NoError(t, err)

	req := m.Services[0].UpsertRequest(m.ProjectID)

	assert.Equal(t, "web", req.Name)
	assert.Equal(t, "docker", req.Type)
	assert.Equal(t, "proj_1", req.ProjectID)
	require.NotNil(t, req.DockerConfig)
	dc := req.DockerConfig
	assert.Equal(t, "--port 8080", dc.Args)
	assert.Equal(t, "/app/server", dc.Command)
	assert.Equal(t, int32(0), dc.Status)
	assert.Equal(t, []api.Port{{Port: 8080, Protocol: "http", IsPublic: true}}, dc.PortsList.Ports)
	assert.Equal(t, []api.Region{{Region: "eu-central", Replicas: 2}}, dc.RegionsList.Regions)
	assert.Equal(t, []api.Volume{{Name: "data", MountPath: "/data", SizeGB: 5}}, dc.VolumesList.Volumes)
	assert.Equal(t, []api.File{{Path: "/etc/app.conf", Content: "debug=false"}}, dc.FilesList.Files)
}

func TestUpsertRequest_OmitsEmptyLists(t *testing.T) {
	req := ServiceSpec{Name: "a", Image: "i"}.UpsertRequest("p")

	assert.Nil(t, req.DockerConfig.PortsList)
	assert.Nil(t, req.DockerConfig.RegionsList)
	assert.Nil(t, req.DockerConfig.VolumesList)
	assert.Nil(t, req.DockerConfig.FilesList)
	assert.Equal(t, "", req.DockerConfig.Args)
}

type recordingUpserter struct {
	requests []*api.UpsertServiceRequest
	failOn   string
}

func (r *recordingUpserter) UpsertService(_ context.Context, req *api.UpsertServiceRequest) (*api.Service, error) {
	r.requests = append(r.requests, req)
	if req.Name == r.failOn {
		return nil, errors.New("quota exceeded")
	}
	return &api.Service{ID: "svc_" + req.Name, Name: req.Name, ProjectID: req.ProjectID}, nil
}

func TestDeployer_DeploysEveryService(t *testing.T) {
	up := &recordingUpserter{}
	m := &Manifest{ProjectID: "p", Services: []ServiceSpec{{Name: "a", Image: "i"}, {Name: "b", Image: "i"}}}

	got, err := NewDeployer(up).Deploy(context.Background(), m)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "svc_b", got[1].ID)
	assert.Len(t, up.requests, 2)
}

func TestDeployer_StopsAtFirstFailure(t *testing.T) {
	up := &recordingUpserter{failOn: "a"}
	m := &Manifest{ProjectID: "p", Services: []ServiceSpec{{Name: "a", Image: "i"}, {Name: "b", Image: "i"}}}

	got, err := NewDeployer(up).Deploy(context.Background(), m)

	assert.ErrorContains(t, err, "failed to deploy service a: quota exceeded")
	assert.Empty(t, got)
	assert.Len(t, up.requests, 1)
}

func TestDeployer_RejectsInvalidManifest(t *testing.T) {
	up := &recordingUpserter{}

	_, err := NewDeployer(up).Deploy(context.Background(), &Manifest{})

	assert.Error(t, err)
	assert.Empty(t, up.requests)
}
