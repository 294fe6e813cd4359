package config

import "time"

// Environment names a backend deployment.
const (
	EnvironmentProd  = "prod"
	EnvironmentLocal = "local"
)

// Config is the resolved CLI configuration.
type Config struct {
	// Environment selects the built-in endpoint defaults ("prod" or "local").
	Environment string `yaml:"environment"`

	// APIURL is the base URL of the Pyrite API.
	APIURL string `yaml:"api_url"`

	// AuthURL is the base URL of the identity provider.
	AuthURL string `yaml:"auth_url"`

	// AnonKey is the identity provider's public API key.
	AnonKey string `yaml:"anon_key"`

	// ProjectRef names the auth project; it determines the credential header.
	ProjectRef string `yaml:"project_ref"`

	// Provider is the upstream identity provider used for login.
	Provider string `yaml:"provider"`

	// CallbackHost and CallbackPort form the local redirect target. They must
	// match the redirect allow-list of the identity provider.
	CallbackHost string `yaml:"callback_host"`
	CallbackPort int    `yaml:"callback_port"`

	// SuccessRedirectURL is where the browser lands after a successful login.
	SuccessRedirectURL string `yaml:"success_redirect_url"`

	// HTTPTimeout bounds each request to the API and the identity provider.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// LoginTimeout bounds the wait for the browser callback.
	LoginTimeout time.Duration `yaml:"login_timeout"`

	// NoBrowser disables opening the authorization URL automatically.
	NoBrowser bool `yaml:"no_browser"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// envOverrides are the environment variables applied on top of the file
// configuration. SUPABASE_URL and SUPABASE_KEY are accepted for the auth
// endpoint and key; the PYRITE_ names win when both are set.
type envOverrides struct {
	Environment  string        `env:"PYRITE_ENV"`
	APIURL       string        `env:"PYRITE_API_URL"`
	AuthURL      string        `env:"PYRITE_AUTH_URL"`
	SupabaseURL  string        `env:"SUPABASE_URL"`
	AnonKey      string        `env:"PYRITE_ANON_KEY"`
	SupabaseKey  string        `env:"SUPABASE_KEY"`
	ProjectRef   string        `env:"PYRITE_PROJECT_REF"`
	Provider     string        `env:"PYRITE_AUTH_PROVIDER"`
	CallbackPort int           `env:"PYRITE_CALLBACK_PORT"`
	HTTPTimeout  time.Duration `env:"PYRITE_HTTP_TIMEOUT"`
	LoginTimeout time.Duration `env:"PYRITE_LOGIN_TIMEOUT"`
	NoBrowser    bool          `env:"PYRITE_NO_BROWSER"`
	LogLevel     string        `env:"PYRITE_LOG_LEVEL"`
}

// LoadOptions carries the values given on the command line. Empty fields do
// not override lower layers.
type LoadOptions struct {
	// ConfigPath is the YAML file to read. Defaults to ~/.pyrite/config.yaml.
	ConfigPath string

	// Environment overrides the environment name.
	Environment string

	// APIURL overrides the API base URL.
	APIURL string

	// WorkDir is where .env files are looked up. Defaults to ".".
	WorkDir string

	// LookupEnv reads process environment variables. Defaults to os.Environ.
	LookupEnv func() map[string]string
}
