// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols used for status indicators and alerts.
const (
	// Success marks a passing check or a clean run.
	Success = "✓"

	// Error marks a problem that needs a correction.
	Error = "✗"

	// Warning marks expected drift, such as a partial payment.
	Warning = "!"

	// Optional marks a value with nothing to compare against.
	Optional = "-"

	// Unknown marks an unrecognized state.
	Unknown = "?"

	// Info marks a notice.
	Info = "i"
)
