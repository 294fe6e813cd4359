package api

// Team is a billing and ownership unit.
type Team struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Subscription string    `json:"subscription"`
	Owner        string    `json:"owner"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
	Meta         *TeamMeta `json:"meta,omitempty"`
}

// TeamMeta holds resolved references returned with a team.
type TeamMeta struct {
	OwnerEmail string `json:"ownerEmail"`
}

// OwnerDisplay returns the owner's email when known, otherwise the owner id.
func (t Team) OwnerDisplay() string {
	if t.Meta != nil && t.Meta.OwnerEmail != "" {
		return t.Meta.OwnerEmail
	}
	return t.Owner
}

// Project groups services within a team.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TeamID    string `json:"teamId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Service is a deployable unit within a project.
type Service struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Status    int32  `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ServiceEnvironment is one running instance of a service.
type ServiceEnvironment struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	ServiceID          string                  `json:"serviceId"`
	Status             int32                   `json:"status"`
	CreatedAt          string                  `json:"createdAt"`
	UpdatedAt          string                  `json:"updatedAt"`
	Meta               *ServiceEnvironmentMeta `json:"meta,omitempty"`
	DockerDeployment   *Deployment             `json:"dockerDeployment,omitempty"`
	PostgresDeployment *Deployment             `json:"postgresDeployment,omitempty"`
}

// ServiceEnvironmentMeta holds resolved references returned with an environment.
type ServiceEnvironmentMeta struct {
	Service *Service `json:"service,omitempty"`
}

// Deployment is the active deployment of an environment.
type Deployment struct {
	ID     string `json:"id"`
	Status int32  `json:"status"`
}

// ActiveDeployment returns whichever deployment kind is set, or nil.
func (e ServiceEnvironment) ActiveDeployment() *Deployment {
	if e.DockerDeployment != nil {
		return e.DockerDeployment
	}
	return e.PostgresDeployment
}

// ServiceName returns the parent service name if it was returned.
func (e ServiceEnvironment) ServiceName() string {
	if e.Meta != nil && e.Meta.Service != nil {
		return e.Meta.Service.Name
	}
	return ""
}

// ServiceType returns the parent service type if it was returned.
func (e ServiceEnvironment) ServiceType() string {
	if e.Meta != nil && e.Meta.Service != nil {
		return e.Meta.Service.Type
	}
	return ""
}

// UpsertServiceRequest creates or updates a service and its deployment config.
type UpsertServiceRequest struct {
	Name         string                   `json:"name"`
	Type         string                   `json:"type"`
	ProjectID    string                   `json:"projectId"`
	DockerConfig *DockerDeploymentRequest `json:"dockerConfig,omitempty"`
}

// DockerDeploymentRequest describes a container deployment.
type DockerDeploymentRequest struct {
	Image          string                 `json:"image"`
	RegistryID     string                 `json:"registryId,omitempty"`
	Command        string                 `json:"command,omitempty"`
	Args           string                 `json:"args,omitempty"`
	Runtime        string                 `json:"runtime"`
	Plan           string                 `json:"plan"`
	IsPrivate      *bool                  `json:"isPrivate,omitempty"`
	IsPrivileged   *bool                  `json:"isPrivileged,omitempty"`
	WithProjectEnv *bool                  `json:"withProjectEnv,omitempty"`
	Env            map[string]interface{} `json:"env,omitempty"`
	PortsList      *PortList              `json:"portsList,omitempty"`
	RegionsList    *RegionList            `json:"regionsList,omitempty"`
	VolumesList    *VolumeList            `json:"volumesList,omitempty"`
	FilesList      *FileList              `json:"filesList,omitempty"`
	Status         int32                  `json:"status"`
}

// Port exposes a container port.
type Port struct {
	Port     int32  `json:"port"`
	Protocol string `json:"protocol,omitempty"`
	IsPublic bool   `json:"isPublic,omitempty"`
}

// Region places replicas in a region.
type Region struct {
	Region   string `json:"region"`
	Replicas int32  `json:"replicas,omitempty"`
}

// Volume mounts persistent storage.
type Volume struct {
	Name      string `json:"name"`
	MountPath string `json:"mountPath"`
	SizeGB    int32  `json:"sizeGb,omitempty"`
}

// File is written into the container before start.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// PortList wraps ports for the wire format.
type PortList struct {
	Ports []Port `json:"ports"`
}

// RegionList wraps regions for the wire format.
type RegionList struct {
	Regions []Region `json:"regions"`
}

// VolumeList wraps volumes for the wire format.
type VolumeList struct {
	Volumes []Volume `json:"volumes"`
}

// FileList wraps files for the wire format.
type FileList struct {
	Files []File `json:"files"`
}

type empty struct{}

type byID struct {
	ID       string `json:"id"`
	WithMeta *bool  `json:"withMeta,omitempty"`
}

type teamsResponse struct {
	Teams []Team `json:"teams"`
}

type projectsByTeamID struct {
	TeamID string `json:"teamId,omitempty"`
}

type projectsResponse struct {
	Projects []Project `json:"projects"`
}

type servicesByTeamOrProject struct {
	TeamID    string `json:"teamId,omitempty"`
	ProjectID string `json:"projectId,omitempty"`
	WithMeta  *bool  `json:"withMeta,omitempty"`
}

type servicesResponse struct {
	Services []Service `json:"services"`
}

type environmentsByParent struct {
	ServiceID string `json:"serviceId,omitempty"`
	WithMeta  *bool  `json:"withMeta,omitempty"`
}

type environmentsResponse struct {
	ServiceEnvironments []ServiceEnvironment `json:"serviceEnvironments"`
}

func boolPtr(b bool) *bool { return &b }
