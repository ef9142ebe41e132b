// Package logging builds slog loggers for reel.
//
// Two formats are supported: a compact console handler for interactive use and
// slog's JSON handler for machine consumption. NewFromConfig tees output to
// stderr and reel.log in the configured log directory. Component loggers carry
// a standardized "component" attribute rendered as a [component] prefix.
package logging
