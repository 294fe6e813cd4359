package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pyritecloud/pyrite/pkg/logging"
)

const (
	userConfigDir  = ".pyrite"
	configFileName = "config.yaml"
)

// DefaultConfigPath returns ~/.pyrite/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user home directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

// Load resolves the configuration from, lowest to highest precedence:
// built-in defaults for the environment, the YAML config file, .env and
// .env.<environment> in the working directory, process environment variables
// and finally opts.
func Load(opts LoadOptions) (*Config, error) {
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = processEnv
	}

	configPath := opts.ConfigPath
	explicitPath := configPath != ""
	if !explicitPath {
		path, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		configPath = path
	}

	fileData, err := readConfigFile(configPath, explicitPath)
	if err != nil {
		return nil, err
	}

	var peek struct {
		Environment string `yaml:"environment"`
	}
	if err := yaml.Unmarshal(fileData, &peek); err != nil {
		return nil, fmt.Errorf("error loading config from %s: %w", configPath, err)
	}

	processVars := opts.LookupEnv()
	dotenv, err := readDotEnv(filepath.Join(opts.WorkDir, ".env"))
	if err != nil {
		return nil, err
	}

	environment := firstNonEmpty(
		opts.Environment,
		processVars["PYRITE_ENV"],
		dotenv["PYRITE_ENV"],
		peek.Environment,
		EnvironmentProd,
	)

	envSpecific, err := readDotEnv(filepath.Join(opts.WorkDir, ".env."+environment))
	if err != nil {
		return nil, err
	}

	cfg := Defaults(environment)
	if err := yaml.Unmarshal(fileData, &cfg); err != nil {
		return nil, fmt.Errorf("error loading config from %s: %w", configPath, err)
	}
	cfg.Environment = environment

	// Real environment variables win over .env files, and .env.<environment>
	// wins over .env.
	vars := mergeVars(dotenv, envSpecific, processVars)
	if err := applyEnv(&cfg, vars); err != nil {
		return nil, err
	}

	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	cfg.APIURL = strings.TrimSuffix(cfg.APIURL, "/")
	cfg.AuthURL = strings.TrimSuffix(cfg.AuthURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfigFile(path string, explicit bool) ([]byte, error) {
	// #nosec G304 -- path is the user's own config file
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", path)
			return nil, nil
		}
		return nil, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	logging.Debug("ConfigLoader", "Loaded configuration from %s", path)
	return data, nil
}

func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	logging.Debug("ConfigLoader", "Loaded %d variables from %s", len(vars), path)
	return vars, nil
}

func applyEnv(cfg *Config, vars map[string]string) error {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	setString(&cfg.APIURL, o.APIURL)
	setString(&cfg.AuthURL, firstNonEmpty(o.AuthURL, o.SupabaseURL))
	setString(&cfg.AnonKey, firstNonEmpty(o.AnonKey, o.SupabaseKey))
	setString(&cfg.ProjectRef, o.ProjectRef)
	setString(&cfg.Provider, o.Provider)
	setString(&cfg.LogLevel, o.LogLevel)
	if o.CallbackPort != 0 {
		cfg.CallbackPort = o.CallbackPort
	}
	if o.HTTPTimeout != 0 {
		cfg.HTTPTimeout = o.HTTPTimeout
	}
	if o.LoginTimeout != 0 {
		cfg.LoginTimeout = o.LoginTimeout
	}
	if o.NoBrowser {
		cfg.NoBrowser = true
	}
	return nil
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	var errs ConfigurationErrorCollection

	if c.Environment != EnvironmentProd && c.Environment != EnvironmentLocal {
		errs.Add(ConfigurationError{
			Field:       "environment",
			Message:     fmt.Sprintf("unknown environment %q", c.Environment),
			Suggestions: []string{"use \"prod\" or \"local\""},
		})
	}

	for _, endpoint := range []struct{ field, raw string }{
		{"api_url", c.APIURL},
		{"auth_url", c.AuthURL},
	} {
		u, err := url.Parse(endpoint.raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs.Add(ConfigurationError{
				Field:   endpoint.field,
				Message: fmt.Sprintf("%q is not an http(s) URL", endpoint.raw),
			})
		}
	}

	if c.CallbackPort <= 0 || c.CallbackPort > 65535 {
		errs.Add(ConfigurationError{
			Field:   "callback_port",
			Message: fmt.Sprintf("%d is not a valid port", c.CallbackPort),
		})
	}

	if c.ProjectRef == "" {
		errs.Add(ConfigurationError{Field: "project_ref", Message: "must not be empty"})
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs.Add(ConfigurationError{
			Field:       "log_level",
			Message:     err.Error(),
			Suggestions: []string{"use debug, info, warn or error"},
		})
	}

	if errs.HasErrors() {
		return &errs
	}
	return nil
}

// RequireAnonKey reports a configuration error when no provider key is set.
// Only commands talking to the identity provider need it.
func (c *Config) RequireAnonKey() error {
	if c.AnonKey != "" {
		return nil
	}
	return ConfigurationError{
		Field:   "anon_key",
		Message: "no identity provider key configured",
		Suggestions: []string{
			"set SUPABASE_KEY or PYRITE_ANON_KEY",
			"add anon_key to ~/.pyrite/config.yaml",
			fmt.Sprintf("add SUPABASE_KEY to .env.%s", c.Environment),
		},
	}
}

func processEnv() map[string]string {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars
}

func mergeVars(layers ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
