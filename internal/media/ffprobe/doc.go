// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The runner uses it to preflight inputs (reject containers with no video
// stream) and to report durations in batch summaries. It has no
// reel-specific dependencies.
package ffprobe
