// Package batch orchestrates a run: for each input file it resolves a
// collision-free output path, drives the two-pass encoder, and clones the
// input's timestamps onto the output. Processing is strictly sequential and
// every failure is file-scoped, so one bad input never blocks the rest of
// the batch.
package batch
