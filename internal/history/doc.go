// Package history is the batch run ledger: a small SQLite database recording
// each invocation and its per-file outcomes. It exists purely for the
// `reel history` command; the runner treats every history failure as
// non-fatal.
package history
