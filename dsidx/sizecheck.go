package dsidx

import (
	"os"
	"path/filepath"
)

// TreeSize accumulates the sizes of the regular files under path without
// reading any content. The walk returns early with over=true as soon as
// the running total strictly exceeds limit, so an oversized tree is
// detected without measuring all of it. A negative limit disables the
// cutoff and the returned total is the full tree size.
//
// Entries that cannot be statted are skipped; an unreadable directory
// fails the walk.
func TreeSize(path string, limit int64) (total int64, over bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false, err
	}
	if !info.IsDir() {
		return 0, false, ErrExpectedDirectory
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, false, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			remaining := int64(-1)
			if limit >= 0 {
				remaining = limit - total
			}
			sub, subOver, subErr := TreeSize(filepath.Join(path, entry.Name()), remaining)
			total += sub
			if subOver {
				return total, true, nil
			}
			if subErr != nil {
				return total, false, subErr
			}
			continue
		}
		fi, ferr := entry.Info()
		if ferr != nil || !fi.Mode().IsRegular() {
			continue
		}
		total += fi.Size()
		if limit >= 0 && total > limit {
			return total, true, nil
		}
	}
	return total, false, nil
}
