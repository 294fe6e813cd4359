package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/pyritecloud/pyrite/internal/api"
	"github.com/pyritecloud/pyrite/internal/auth"
	"github.com/pyritecloud/pyrite/internal/cli"
)

func TestSetVersion(t *testing.T) {
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", GetVersion())
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "pyrite", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)

	for _, flag := range []string{"config", "env", "api-url", "debug", "quiet", "non-interactive", "output", "no-headers"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), "missing flag --%s", flag)
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "pyrite version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})

	assert.NoError(t, testCmd.Execute())
	assert.Equal(t, "pyrite version 1.0.0\n", buf.String())
}

func TestSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		found[cmd.Name()] = true
	}

	for _, expected := range []string{
		"version", "self-update", "login", "logout", "auth",
		"teams", "projects", "services", "environments", "deploy", "docker",
	} {
		assert.True(t, found[expected], "expected subcommand %s to be registered", expected)
	}
}

func TestCommandAliases(t *testing.T) {
	for _, args := range [][]string{
		{"t", "ls"},
		{"p", "list"},
		{"s", "g"},
		{"envs", "list"},
		{"e", "get"},
	} {
		cmd, _, err := rootCmd.Find(args)
		if assert.NoError(t, err, "args %v", args) {
			assert.NotEqual(t, rootCmd, cmd, "args %v resolved to the root command", args)
		}
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain error", errors.New("boom"), ExitCodeError},
		{"not authenticated", auth.ErrNotAuthenticated, ExitCodeAuthRequired},
		{"refresh failed", fmt.Errorf("wrapped: %w", auth.ErrRefreshFailed), ExitCodeAuthRequired},
		{"exchange failed", auth.ErrExchangeFailed, ExitCodeAuthFailed},
		{"missing code", auth.ErrMissingCode, ExitCodeAuthFailed},
		{"auth network", auth.ErrNetwork, ExitCodeNetwork},
		{"storage", auth.ErrStorage, ExitCodeStorage},
		{"auth required", &cli.AuthRequiredError{Endpoint: "https://api"}, ExitCodeAuthRequired},
		{"api unauthenticated", &cli.AuthExpiredError{Endpoint: "https://api", Reason: &api.Error{Code: api.CodeUnauthenticated}}, ExitCodeAuthRequired},
		{"auth failed", &cli.AuthFailedError{Endpoint: "https://auth", Reason: errors.New("denied")}, ExitCodeAuthFailed},
		{"connection", &cli.ConnectionError{Endpoint: "https://api", Reason: &url.Error{Op: "Post", URL: "https://api", Err: errors.New("refused")}}, ExitCodeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}
