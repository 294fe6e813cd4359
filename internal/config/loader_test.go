package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testOptions(t *testing.T, vars map[string]string) LoadOptions {
	t.Helper()
	dir := t.TempDir()
	return LoadOptions{
		ConfigPath: filepath.Join(dir, "config.yaml"),
		WorkDir:    dir,
		LookupEnv:  func() map[string]string { return vars },
	}
}

func TestLoad_DefaultsWhenNothingConfigured(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	cfg, err := Load(LoadOptions{
		WorkDir:   t.TempDir(),
		LookupEnv: func() map[string]string { return nil },
	})
	require.NoError(t, err)

	assert.Equal(t, Defaults(EnvironmentProd), *cfg)
	assert.Equal(t, "uziefrixdcjogieucnel", cfg.ProjectRef)
	assert.Equal(t, 3456, cfg.CallbackPort)
	assert.Equal(t, "github", cfg.Provider)
	assert.Equal(t, "https://www.pyrite.cloud", cfg.SuccessRedirectURL)
}

func TestLoad_ExplicitConfigMustExist(t *testing.T) {
	opts := testOptions(t, nil)

	_, err := Load(opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	opts := testOptions(t, nil)
	writeFile(t, opts.ConfigPath, `
api_url: https://api.example.com/
anon_key: file-key
http_timeout: 5s
`)

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, "file-key", cfg.AnonKey)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "https://uziefrixdcjogieucnel.supabase.co", cfg.AuthURL, "untouched fields keep defaults")
}

func TestLoad_FileSelectsEnvironment(t *testing.T) {
	opts := testOptions(t, nil)
	writeFile(t, opts.ConfigPath, "environment: local\n")

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, EnvironmentLocal, cfg.Environment)
	assert.Equal(t, "127", cfg.ProjectRef)
	assert.Equal(t, "http://127.0.0.1:54321", cfg.AuthURL)
}

func TestLoad_DotEnvFiles(t *testing.T) {
	opts := testOptions(t, map[string]string{})
	writeFile(t, opts.ConfigPath, "")
	writeFile(t, filepath.Join(opts.WorkDir, ".env"), "PYRITE_ENV=local\nSUPABASE_KEY=generic-key\n")
	writeFile(t, filepath.Join(opts.WorkDir, ".env.local"), "SUPABASE_KEY=local-key\nSUPABASE_URL=http://localhost:9999\n")

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, EnvironmentLocal, cfg.Environment)
	assert.Equal(t, "local-key", cfg.AnonKey)
	assert.Equal(t, "http://localhost:9999", cfg.AuthURL)
}

func TestLoad_ProcessEnvWinsOverDotEnv(t *testing.T) {
	opts := testOptions(t, map[string]string{
		"SUPABASE_KEY":         "process-key",
		"PYRITE_ANON_KEY":      "pyrite-key",
		"PYRITE_HTTP_TIMEOUT":  "2s",
		"PYRITE_NO_BROWSER":    "true",
		"PYRITE_CALLBACK_PORT": "4000",
	})
	writeFile(t, opts.ConfigPath, "anon_key: file-key\n")
	writeFile(t, filepath.Join(opts.WorkDir, ".env"), "SUPABASE_KEY=dotenv-key\n")

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, "pyrite-key", cfg.AnonKey, "PYRITE_ANON_KEY wins over SUPABASE_KEY")
	assert.Equal(t, 2*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.NoBrowser)
	assert.Equal(t, 4000, cfg.CallbackPort)
}

func TestLoad_FlagsWin(t *testing.T) {
	opts := testOptions(t, map[string]string{"PYRITE_ENV": "prod", "PYRITE_API_URL": "https://env.example.com"})
	writeFile(t, opts.ConfigPath, "")
	opts.Environment = EnvironmentLocal
	opts.APIURL = "https://flag.example.com"

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, EnvironmentLocal, cfg.Environment)
	assert.Equal(t, "https://flag.example.com", cfg.APIURL)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"bad url", "api_url: not a url\n", "api_url"},
		{"bad port", "callback_port: 70000\n", "callback_port"},
		{"bad log level", "log_level: loud\n", "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t, nil)
			writeFile(t, opts.ConfigPath, tt.content)

			_, err := Load(opts)
			require.Error(t, err)

			var collection *ConfigurationErrorCollection
			require.True(t, errors.As(err, &collection))
			require.Len(t, collection.Errors, 1)
			assert.Equal(t, tt.field, collection.Errors[0].Field)
		})
	}

	t.Run("unknown environment", func(t *testing.T) {
		opts := testOptions(t, nil)
		writeFile(t, opts.ConfigPath, "")
		opts.Environment = "staging"

		_, err := Load(opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown environment")
	})
}

func TestLoad_ValidationOrder(t *testing.T) {
	for i := 0; i < 20; i++ {
		opts := testOptions(t, nil)
		writeFile(t, opts.ConfigPath, "api_url: not a url\nauth_url: ftp://auth\ncallback_port: 0\n")

		_, err := Load(opts)

		var collection *ConfigurationErrorCollection
		require.True(t, errors.As(err, &collection))
		fields := make([]string, 0, len(collection.Errors))
		for _, e := range collection.Errors {
			fields = append(fields, e.Field)
		}
		require.Equal(t, []string{"api_url", "auth_url", "callback_port"}, fields)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	opts := testOptions(t, nil)
	writeFile(t, opts.ConfigPath, "api_url: [unclosed\n")

	_, err := Load(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading config")
}

func TestRequireAnonKey(t *testing.T) {
	cfg := Defaults(EnvironmentProd)
	err := cfg.RequireAnonKey()
	require.Error(t, err)

	var cfgErr ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.DetailedError(), "SUPABASE_KEY")

	cfg.AnonKey = "key"
	assert.NoError(t, cfg.RequireAnonKey())
}
