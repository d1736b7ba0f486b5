package dsidx

import "time"

// File is one indexed record: a path that held hashable content when the
// scan ran.
type File struct {
	Path    string    `json:"path"`     // path as yielded by enumeration
	Hash    string    `json:"sha256"`   // lowercase hex content digest
	Size    int64     `json:"size"`     // size in bytes at scan time
	ModTime time.Time `json:"modified"` // modification time at scan time
}

// Index is an immutable point-in-time content index of a directory tree.
// Records keep enumeration order, identical content appears once per path,
// and the total size covers exactly the recorded files. An Index is safe
// for concurrent use.
type Index struct {
	root      string
	files     []File
	totalSize int64
	builtAt   time.Time
	exclude   ExcludeFunc
}

// Iterate calls yield for each record in enumeration order, stopping early
// if yield returns false.
func (x *Index) Iterate(yield func(File) bool) {
	for _, f := range x.files {
		if !yield(f) {
			return
		}
	}
}

// GetFile returns the first record in enumeration order whose content hash
// equals hash and whose filename is not excluded as a timestamp-suffixed
// variant. Hash comparison is exact: digests are lowercase hex, and no
// case folding is applied.
func (x *Index) GetFile(hash string) (File, bool) {
	for _, f := range x.files {
		if f.Hash != hash {
			continue
		}
		if x.exclude != nil && x.exclude(f.Path) {
			continue
		}
		return f, true
	}
	return File{}, false
}

// IsOverLimit reports whether the indexed files total strictly more than
// maxBytes. A total exactly at the limit is not over it.
func (x *Index) IsOverLimit(maxBytes int64) bool {
	return x.totalSize > maxBytes
}

// Len returns the number of indexed files.
func (x *Index) Len() int {
	return len(x.files)
}

// TotalSize returns the aggregate size in bytes of all indexed files.
func (x *Index) TotalSize() int64 {
	return x.totalSize
}

// Root returns the root path the index was built from.
func (x *Index) Root() string {
	return x.root
}

// BuiltAt returns the time the snapshot was taken.
func (x *Index) BuiltAt() time.Time {
	return x.builtAt
}
