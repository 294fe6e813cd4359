package config

import "time"

const (
	// DefaultProvider is the upstream identity provider used for login.
	DefaultProvider = "github"

	// DefaultCallbackHost is the loopback address of the login callback.
	DefaultCallbackHost = "127.0.0.1"

	// DefaultCallbackPort is the registered login callback port.
	DefaultCallbackPort = 3456

	// DefaultSuccessRedirectURL is shown in the browser after login.
	DefaultSuccessRedirectURL = "https://www.pyrite.cloud"

	// DefaultHTTPTimeout bounds a single remote call.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultLoginTimeout bounds the wait for the browser callback.
	DefaultLoginTimeout = 10 * time.Minute

	prodProjectRef  = "uziefrixdcjogieucnel"
	localProjectRef = "127"
)

// Defaults returns the built-in configuration for environment. Unknown
// environments get the production endpoints.
func Defaults(environment string) Config {
	cfg := Config{
		Environment:        EnvironmentProd,
		APIURL:             "https://api.pyrite.cloud",
		AuthURL:            "https://" + prodProjectRef + ".supabase.co",
		ProjectRef:         prodProjectRef,
		Provider:           DefaultProvider,
		CallbackHost:       DefaultCallbackHost,
		CallbackPort:       DefaultCallbackPort,
		SuccessRedirectURL: DefaultSuccessRedirectURL,
		HTTPTimeout:        DefaultHTTPTimeout,
		LoginTimeout:       DefaultLoginTimeout,
		LogLevel:           "warn",
	}

	if environment == EnvironmentLocal {
		cfg.Environment = EnvironmentLocal
		cfg.APIURL = "http://127.0.0.1:8080"
		cfg.AuthURL = "http://127.0.0.1:54321"
		cfg.ProjectRef = localProjectRef
	}

	return cfg
}
