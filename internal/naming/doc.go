// Package naming derives collision-free output paths for encoded files.
//
// An output lives next to its input and is named <stem>.<suffix>.<container>.
// When that path is taken, a " (n)" counter is inserted after the stem,
// always starting from 1 so the lowest free counter wins.
package naming
