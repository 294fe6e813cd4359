package deploy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pyritecloud/pyrite/internal/api"
)

// Manifest file names looked up in the working directory, in order.
const (
	TOMLManifestName = "pyrite.toml"
	JSONManifestName = "pyrite.json"
)

// ErrNoManifest is returned by Find when neither manifest file exists.
var ErrNoManifest = errors.New("no pyrite.toml or pyrite.json found")

// Manifest describes the services of one project.
type Manifest struct {
	ProjectID string        `toml:"project_id" json:"project_id"`
	Services  []ServiceSpec `toml:"services" json:"services"`
}

// ServiceSpec is one docker service in a manifest.
type ServiceSpec struct {
	Name string `toml:"name" json:"name"`
	// Environment names the target environment. Only pyrite.toml has it.
	Environment string `toml:"environment" json:"-"`
	Type        string `toml:"type" json:"type"`
	Image       string `toml:"image" json:"image"`
	Plan        string `toml:"plan" json:"plan"`
	Runtime     string `toml:"runtime" json:"runtime"`
	Command     string `toml:"command" json:"command"`
	// Args are joined with spaces into a single argument string.
	Args    []string               `toml:"args" json:"args"`
	Regions []Region               `toml:"regions" json:"regions"`
	Ports   []Port                 `toml:"ports" json:"ports"`
	Volumes []Volume               `toml:"volumes" json:"volumes"`
	Files   []File                 `toml:"files" json:"-"`
	Env     map[string]interface{} `toml:"env" json:"env"`
	// Optional flags stay nil when absent so the API applies its defaults.
	WithProjectEnv *bool  `toml:"with_project_env" json:"with_project_env"`
	RegistryID     string `toml:"registry_id" json:"registry_id"`
	IsPrivate      *bool  `toml:"is_private" json:"is_private"`
	IsPrivileged   *bool  `toml:"is_privileged" json:"is_privileged"`
}

// Port exposes a container port.
type Port struct {
	Port     int32  `toml:"port" json:"port"`
	Protocol string `toml:"protocol" json:"protocol"`
	IsPublic bool   `toml:"is_public" json:"is_public"`
}

// Region places replicas in a region.
type Region struct {
	Region   string `toml:"region" json:"region"`
	Replicas int32  `toml:"replicas" json:"replicas"`
}

// Volume mounts persistent storage.
type Volume struct {
	Name      string `toml:"name" json:"name"`
	MountPath string `toml:"mount_path" json:"mount_path"`
	SizeGB    int32  `toml:"size_gb" json:"size_gb"`
}

// File is written into the container before it starts.
type File struct {
	Path    string `toml:"path" json:"path"`
	Content string `toml:"content" json:"content"`
}

// Find returns the manifest path in dir, preferring pyrite.toml.
func Find(dir string) (string, error) {
	for _, name := range []string{TOMLManifestName, JSONManifestName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to check %s: %w", path, err)
		}
	}
	return "", ErrNoManifest
}

// Load reads and validates a manifest. The format is chosen by extension.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m *Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		m, err = ParseTOML(data)
	case ".json":
		m, err = ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported manifest format %q (use .toml or .json)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}
	return m, nil
}

// ParseTOML decodes a pyrite.toml document. Unknown keys are rejected.
func ParseTOML(data []byte) (*Manifest, error) {
	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("line %d, column %d: %w", row, col, err)
		}
		return nil, err
	}
	return &m, nil
}

// ParseJSON decodes a pyrite.json document. Unknown keys are rejected.
func ParseJSON(data []byte) (*Manifest, error) {
	var m Manifest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the fields the API cannot default.
func (m *Manifest) Validate() error {
	var errs []error
	if strings.TrimSpace(m.ProjectID) == "" {
		errs = append(errs, errors.New("project_id is required"))
	}
	if len(m.Services) == 0 {
		errs = append(errs, errors.New("at least one service is required"))
	}

	seen := make(map[string]bool, len(m.Services))
	for i, s := range m.Services {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("services[%d]: name is required", i))
			continue
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("services[%d]: duplicate service name %q", i, s.Name))
		}
		seen[s.Name] = true
		if s.Image == "" {
			errs = append(errs, fmt.Errorf("service %q: image is required", s.Name))
		}
		for _, p := range s.Ports {
			if p.Port <= 0 || p.Port > 65535 {
				errs = append(errs, fmt.Errorf("service %q: invalid port %d", s.Name, p.Port))
			}
		}
	}
	return errors.Join(errs...)
}

// UpsertRequest converts the service into an UpsertService call for projectID.
func (s ServiceSpec) UpsertRequest(projectID string) *api.UpsertServiceRequest {
	docker := &api.DockerDeploymentRequest{
		Image:          s.Image,
		RegistryID:     s.RegistryID,
		Command:        s.Command,
		Args:           strings.Join(s.Args, " "),
		Runtime:        s.Runtime,
		Plan:           s.Plan,
		IsPrivate:      s.IsPrivate,
		IsPrivileged:   s.IsPrivileged,
		WithProjectEnv: s.WithProjectEnv,
		Env:            s.Env,
	}

	if len(s.Ports) > 0 {
		docker.PortsList = &api.PortList{}
		for _, p := range s.Ports {
			docker.PortsList.Ports = append(docker.PortsList.Ports, api.Port{Port: p.Port, Protocol: p.Protocol, IsPublic: p.IsPublic})
		}
	}
	if len(s.Regions) > 0 {
		docker.RegionsList = &api.RegionList{}
		for _, r := range s.Regions {
			docker.RegionsList.Regions = append(docker.RegionsList.Regions, api.Region{Region: r.Region, Replicas: r.Replicas})
		}
	}
	if len(s.Volumes) > 0 {
		docker.VolumesList = &api.VolumeList{}
		for _, v := range s.Volumes {
			docker.VolumesList.Volumes = append(docker.VolumesList.Volumes, api.Volume{Name: v.Name, MountPath: v.MountPath, SizeGB: v.SizeGB})
		}
	}
	if len(s.Files) > 0 {
		docker.FilesList = &api.FileList{}
		for _, f := range s.Files {
			docker.FilesList.Files = append(docker.FilesList.Files, api.File{Path: f.Path, Content: f.Content})
		}
	}

	return &api.UpsertServiceRequest{
		Name:         s.Name,
		Type:         s.Type,
		ProjectID:    projectID,
		DockerConfig: docker,
	}
}
