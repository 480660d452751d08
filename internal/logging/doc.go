// Package logging builds the slog loggers used across launchdx. Console
// output goes through charmbracelet/log; machine output uses the standard
// JSON handler. Callers that have no logger use Discard.
package logging
