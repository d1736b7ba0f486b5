package dsidx

import (
	"path/filepath"
	"regexp"
)

// ExcludeFunc reports whether a path must not be offered as the canonical
// match for duplicate content. Excluded paths are still indexed and still
// count toward the total size; they are only skipped by GetFile.
type ExcludeFunc func(path string) bool

// timestampSuffixPattern matches filenames carrying the collision suffix a
// store appends when the same name is uploaded again: a dash, a 14-digit
// timestamp (YYYYMMDDhhmmss), then any extensions.
// "upload-20230101120000.png" matches; "upload.png" does not.
var timestampSuffixPattern = regexp.MustCompile(`-[0-9]{14}(\.[A-Za-z0-9]+)*$`)

// DefaultExclude reports whether the final path element carries a
// timestamp suffix. Only the filename is examined, so a timestamped
// directory name does not exclude the files beneath it.
func DefaultExclude(path string) bool {
	return timestampSuffixPattern.MatchString(filepath.Base(path))
}
