// Package cli holds the presentation layer shared by pyrite commands.
//
// Results are built once as a Table and printed by a Printer in one of four
// formats: rounded go-pretty tables (default), plain aligned columns for
// scripts, JSON or YAML. Service and deployment status codes are mapped to
// labels and colours in status.go.
//
// Long-running remote calls are wrapped in WithProgress, which draws a
// spinner on stderr when it is a terminal. Select asks the user to choose
// from a numbered list using readline.
//
// Explain converts auth, API and transport failures into errors that tell
// the user what to run next, while keeping the original error reachable
// through errors.Is and errors.As.
package cli
