package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAllProjects_TeamFilter(t *testing.T) {
	client, rpc, _ := newTestClient(t, map[string]func(map[string]interface{}) (int, interface{}){
		"/pyrite.v1.projects.v1.ProjectService/FindAllProjects": func(map[string]interface{}) (int, interface{}) {
			return http.StatusOK, map[string]interface{}{"projects": []map[string]string{{"id": "p-1", "teamId": "t-1"}}}
		},
	})

	projects, err := client.FindAllProjects(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "t-1", projects[0].TeamID)
	assert.Equal(t, "t-1", rpc.lastBody["teamId"])

	_, err = client.FindAllProjects(context.Background(), "")
	require.NoError(t, err)
	assert.NotContains(t, rpc.lastBody, "teamId")
}

func TestFindOneProject_WithMeta(t *testing.T) {
	client, rpc, _ := newTestClient(t, map[string]func(map[string]interface{}) (int, interface{}){
		"/pyrite.v1.projects.v1.ProjectService/FindOneProject": func(map[string]interface{}) (int, interface{}) {
			return http.StatusOK, map[string]string{"id": "p-1", "name": "web"}
		},
	})

	project, err := client.FindOneProject(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "web", project.Name)
	assert.Equal(t, true, rpc.lastBody["withMeta"])
	assert.Equal(t, "p-1", rpc.lastBody["id"])
}

func TestFindAllServices_ProjectWins(t *testing.T) {
	client, rpc, _ := newTestClient(t, map[string]func(map[string]interface{}) (int, interface{}){
		"/pyrite.v1.services.v1.ServicesService/FindAllServices": func(map[string]interface{}) (int, interface{}) {
			return http.StatusOK, map[string]interface{}{"services": []map[string]interface{}{{"id": "s-1", "status": 3001}}}
		},
	})

	services, err := client.FindAllServices(context.Background(), "t-1", "p-1")
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, int32(3001), services[0].Status)
	assert.Equal(t, "p-1", rpc.lastBody["projectId"])
	assert.NotContains(t, rpc.lastBody, "teamId")

	_, err = client.FindAllServices(context.Background(), "t-1", "")
	require.NoError(t, err)
	assert.Equal(t, "t-1", rpc.lastBody["teamId"])
}

func TestUpsertService(t *testing.T) {
	client, rpc, _ := newTestClient(t, map[string]func(map[string]interface{}) (int, interface{}){
		"/pyrite.v1.services.v1.ServicesService/UpsertService": func(body map[string]interface{}) (int, interface{}) {
			return http.StatusOK, map[string]interface{}{"id": "s-9", "name": body["name"]}
		},
	})

	service, err := client.UpsertService(context.Background(), &UpsertServiceRequest{
		Name:      "api",
		Type:      "docker",
		ProjectID: "p-1",
		DockerConfig: &DockerDeploymentRequest{
			Image:     "ghcr.io/acme/api:1.0",
			Args:      "--port 8080",
			Runtime:   "linux/amd64",
			Plan:      "starter",
			PortsList: &PortList{Ports: []Port{{Port: 8080}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "api", service.Name)

	docker, ok := rpc.lastBody["dockerConfig"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "--port 8080", docker["args"])
	assert.Contains(t, docker, "portsList")
	assert.NotContains(t, docker, "regionsList")
}

func TestServiceEnvironments(t *testing.T) {
	client, rpc, _ := newTestClient(t, map[string]func(map[string]interface{}) (int, interface{}){
		"/pyrite.v1.services.v1.ServiceEnvironmentService/FindAllServiceEnvironments": func(map[string]interface{}) (int, interface{}) {
			return http.StatusOK, map[string]interface{}{"serviceEnvironments": []map[string]interface{}{{
				"id":               "e-1",
				"name":             "production",
				"status":           3001,
				"meta":             map[string]interface{}{"service": map[string]interface{}{"name": "api", "type": "docker"}},
				"dockerDeployment": map[string]interface{}{"id": "d-1", "status": 3021},
			}}}
		},
		"/pyrite.v1.services.v1.ServiceEnvironmentService/FindOneServiceEnvironment": func(map[string]interface{}) (int, interface{}) {
			return http.StatusOK, map[string]interface{}{"id": "e-2", "postgresDeployment": map[string]interface{}{"status": 2021}}
		},
	})

	envs, err := client.FindAllServiceEnvironments(context.Background(), "s-1")
	require.NoError(t, err)
	require.Len(t, envs, 1)
	assert.Equal(t, "s-1", rpc.lastBody["serviceId"])
	assert.Equal(t, "api", envs[0].ServiceName())
	assert.Equal(t, "docker", envs[0].ServiceType())
	require.NotNil(t, envs[0].ActiveDeployment())
	assert.Equal(t, int32(3021), envs[0].ActiveDeployment().Status)

	env, err := client.FindOneServiceEnvironment(context.Background(), "e-2")
	require.NoError(t, err)
	assert.Equal(t, int32(2021), env.ActiveDeployment().Status)
	assert.Empty(t, env.ServiceName())
}

func TestTeamOwnerDisplay(t *testing.T) {
	assert.Equal(t, "owner-id", Team{Owner: "owner-id"}.OwnerDisplay())
	assert.Equal(t, "a@b.c", Team{Owner: "owner-id", Meta: &TeamMeta{OwnerEmail: "a@b.c"}}.OwnerDisplay())
}
