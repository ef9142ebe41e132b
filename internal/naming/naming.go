package naming

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Template is the fixed output naming scheme for a batch: outputs are named
// <stem>.<Suffix>.<Container> next to their input.
type Template struct {
	Suffix    string
	Container string
}

// maxCounter bounds the collision probe. Reaching it means the directory holds
// a million colliding outputs for one stem, which only happens when the
// filesystem has been populated adversarially.
const maxCounter = 1_000_000

// ErrExhausted is returned when no free counter exists below the probe bound.
var ErrExhausted = errors.New("no free output path below counter bound")

// statPath is swappable in tests to simulate filesystem states.
var statPath = os.Stat

// Resolve derives a collision-free output path for inputPath. The input's
// extension is replaced by ".<suffix>.<container>"; when that path already
// exists, " (n)" is inserted after the stem for the smallest n >= 1 whose
// path is free. The counter always restarts at 1, so gaps left by deleted
// outputs are reused before higher numbers.
//
// Resolve only probes the filesystem; it never creates or reserves the
// returned path. Within a sequential batch that is sufficient: the previous
// file's output exists by the time the next same-stem file is resolved.
func Resolve(inputPath string, tpl Template) (string, error) {
	if strings.TrimSpace(inputPath) == "" {
		return "", errors.New("input path required")
	}
	if tpl.Suffix == "" || tpl.Container == "" {
		return "", errors.New("naming template requires suffix and container")
	}

	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	tail := "." + tpl.Suffix + "." + tpl.Container

	candidate := filepath.Join(dir, stem+tail)
	if !exists(candidate) {
		return candidate, nil
	}

	for counter := 1; counter <= maxCounter; counter++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, counter, tail))
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrExhausted, filepath.Join(dir, stem+tail))
}

func exists(path string) bool {
	_, err := statPath(path)
	return err == nil
}
