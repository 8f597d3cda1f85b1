// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion, including a declined confirmation.
	Success = 0

	// UserError indicates bad arguments or a rejected title (validation).
	UserError = 1

	// AuthError indicates a missing session, a rejected credential or a config error.
	AuthError = 2

	// BackendError indicates a gateway failure (network, 4xx/5xx).
	BackendError = 3
)
