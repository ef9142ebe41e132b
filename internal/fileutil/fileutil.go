package fileutil

import (
	"fmt"
	"os"
)

// CloneTimes stamps dst with src's modification time, overriding whatever
// times the tool that produced dst assigned. Access time is set to the same
// instant; birth time is not portably settable and is left alone.
func CloneTimes(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("set times: %w", err)
	}
	return nil
}
