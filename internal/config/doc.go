// Package config resolves the pyrite CLI configuration.
//
// Values are layered, lowest precedence first:
//
//  1. built-in defaults for the selected environment ("prod" or "local")
//  2. ~/.pyrite/config.yaml (or the file given with --config)
//  3. .env and .env.<environment> in the working directory
//  4. process environment variables (PYRITE_*, SUPABASE_URL, SUPABASE_KEY)
//  5. command-line flags
//
// A missing default config file is not an error; a missing file passed with
// --config is.
//
// Example config.yaml:
//
//	environment: prod
//	anon_key: eyJhbGciOi...
//	http_timeout: 30s
//
// The session file location is not part of the configuration. It is always
// ~/.pyrite/session.json.
package config
