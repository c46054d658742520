// Package logging builds the application slog.Logger and provides typed
// attribute helpers plus context-derived structured fields.
//
// Two output formats are supported: a compact console format for interactive
// runs and JSON for log collection. Component loggers carry a standardized
// "component" attribute so a single pipeline run can be filtered per stage.
package logging
