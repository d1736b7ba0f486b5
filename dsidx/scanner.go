package dsidx

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/text/unicode/norm"
)

// Scanner builds Index snapshots. The zero value is unconfigured; use
// NewScanner. A Scanner is reusable and safe for concurrent Builds.
type Scanner struct {
	fs      billy.Filesystem
	exclude ExcludeFunc
	workers int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithFilesystem scans the given filesystem instead of the OS one. Root
// paths are then interpreted by that filesystem and are not made absolute.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(s *Scanner) {
		s.fs = fsys
	}
}

// WithExclude replaces the canonical-lookup exclusion predicate carried by
// built indexes. Passing nil disables exclusion entirely, so GetFile then
// matches timestamp-suffixed paths too.
func WithExclude(fn ExcludeFunc) Option {
	return func(s *Scanner) {
		s.exclude = fn
	}
}

// WithWorkers sets the number of concurrent hashing workers. Values below
// one are raised to one.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		s.workers = n
	}
}

// NewScanner returns a Scanner with the default exclusion predicate and
// one hashing worker per CPU.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		exclude: DefaultExclude,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = 1
	}
	return s
}

// Build scans root with a default Scanner.
func Build(root string) (*Index, error) {
	return NewScanner().Build(root)
}

// candidate is a regular file seen during enumeration, waiting to be
// hashed.
type candidate struct {
	path string
	size int64
	mod  time.Time
}

// Build walks the tree rooted at root and returns its content index.
//
// Build degrades rather than fails: a root that does not exist or is not a
// directory yields an empty index, and files that cannot be statted,
// opened, or read are excluded from the result without affecting the rest
// of the scan. The only errors are ErrPathEncodingInvalid, for a root that
// is not valid UTF-8 or embeds a NUL byte, and ErrEnumerationFailed, for a
// root that cannot be resolved against the filesystem at all.
func (s *Scanner) Build(root string) (*Index, error) {
	if !utf8.ValidString(root) || strings.ContainsRune(root, 0) {
		return nil, ErrPathEncodingInvalid
	}
	root = norm.NFC.String(root)

	fsys := s.fs
	if fsys == nil {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, ErrEnumerationFailed
		}
		root = abs
		fsys = osfs.New("/")
	}

	candidates := s.enumerate(fsys, root)
	hashes, hashed := s.hashAll(fsys, candidates)

	idx := &Index{
		root:    root,
		files:   make([]File, 0, len(candidates)),
		builtAt: time.Now(),
		exclude: s.exclude,
	}
	for i, c := range candidates {
		if !hashed[i] {
			continue
		}
		idx.files = append(idx.files, File{
			Path:    c.path,
			Hash:    hashes[i],
			Size:    c.size,
			ModTime: c.mod,
		})
		idx.totalSize += c.size
	}
	return idx, nil
}

// enumerate walks the tree and returns the regular-file candidates in walk
// order: directory entries sorted by name, depth first. Entries that fail
// to stat or list are absorbed, so a permission wall shrinks the result
// instead of erroring.
func (s *Scanner) enumerate(fsys billy.Filesystem, root string) []candidate {
	var candidates []candidate
	// The walk func returns nil on every path, so Walk cannot error.
	_ = util.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil {
			return nil
		}
		// The root itself is never a candidate: if it is a regular file
		// rather than a directory, the index stays empty.
		if path == root {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		candidates = append(candidates, candidate{
			path: path,
			size: info.Size(),
			mod:  info.ModTime(),
		})
		return nil
	})
	return candidates
}

// hashAll computes content hashes for the candidates concurrently. Slot i
// of both results corresponds to candidates[i], so enumeration order
// survives worker scheduling. A false slot marks a file that could not be
// opened or read.
func (s *Scanner) hashAll(fsys billy.Filesystem, candidates []candidate) ([]string, []bool) {
	hashes := make([]string, len(candidates))
	hashed := make([]bool, len(candidates))
	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(s.workers)
	for range s.workers {
		go func() {
			defer wg.Done()
			for i := range jobs {
				f, err := fsys.Open(candidates[i].path)
				if err != nil {
					continue
				}
				hash, err := GetHash(f)
				f.Close()
				if err != nil {
					continue
				}
				hashes[i] = hash
				hashed[i] = true
			}
		}()
	}

	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return hashes, hashed
}
