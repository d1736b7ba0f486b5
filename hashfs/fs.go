package hashfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"syscall"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/dendra-storage-index/dsidx"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// FS serves one index snapshot. The canonical view is precomputed at
// construction, so serving never touches the index again; only file reads
// reach the backing filesystem.
type FS struct {
	files   billy.Filesystem
	inodes  *inodeRegistry
	buckets map[string][]entry
	builtAt time.Time
}

// entry is one canonical file inside a bucket directory.
type entry struct {
	name string
	rec  dsidx.File
}

// entryName is the name a record takes inside its bucket: the full content
// hash plus the canonical file's extension.
func entryName(rec dsidx.File) string {
	return rec.Hash + filepath.Ext(rec.Path)
}

// NewFS builds the content-addressed view of idx. files is the filesystem
// the index records point into; nil means the OS filesystem.
func NewFS(idx *dsidx.Index, files billy.Filesystem) *FS {
	if files == nil {
		files = osfs.New("/")
	}
	f := &FS{
		files:   files,
		inodes:  newInodeRegistry(),
		buckets: make(map[string][]entry),
		builtAt: idx.BuiltAt(),
	}

	seen := make(map[string]bool)
	idx.Iterate(func(rec dsidx.File) bool {
		if seen[rec.Hash] {
			return true
		}
		seen[rec.Hash] = true
		canonical, ok := idx.GetFile(rec.Hash)
		if !ok {
			// Every path holding this content is a timestamped variant,
			// so the content has no canonical name to expose.
			return true
		}
		bucket := strconv.Itoa(dsidx.HashBucket(canonical.Hash))
		f.buckets[bucket] = append(f.buckets[bucket], entry{
			name: entryName(canonical),
			rec:  canonical,
		})
		return true
	})
	for _, entries := range f.buckets {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].name < entries[j].name
		})
	}
	return f
}

// Root returns the root directory node.
func (f *FS) Root() (fs.Node, error) {
	return &Dir{fs: f}, nil
}

// Dir is either the filesystem root (empty bucket) or one bucket
// directory.
type Dir struct {
	fs     *FS
	bucket string
}

func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	if d.bucket == "" {
		a.Inode = rootInode
	} else {
		a.Inode = d.fs.inodes.inodeFor("bucket:" + d.bucket)
	}
	a.Mode = os.ModeDir | 0o555
	a.Mtime = d.fs.builtAt
	a.Ctime = d.fs.builtAt
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	if d.bucket == "" {
		if _, ok := d.fs.buckets[name]; !ok {
			return nil, syscall.ENOENT
		}
		return &Dir{fs: d.fs, bucket: name}, nil
	}
	for _, e := range d.fs.buckets[d.bucket] {
		if e.name == name {
			return &File{fs: d.fs, rec: e.rec}, nil
		}
	}
	return nil, syscall.ENOENT
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	var dirents []fuse.Dirent
	if d.bucket == "" {
		names := make([]string, 0, len(d.fs.buckets))
		for name := range d.fs.buckets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			dirents = append(dirents, fuse.Dirent{
				Inode: d.fs.inodes.inodeFor("bucket:" + name),
				Name:  name,
				Type:  fuse.DT_Dir,
			})
		}
		return dirents, nil
	}
	for _, e := range d.fs.buckets[d.bucket] {
		dirents = append(dirents, fuse.Dirent{
			Inode: d.fs.inodes.inodeFor("entry:" + e.rec.Hash),
			Name:  e.name,
			Type:  fuse.DT_File,
		})
	}
	return dirents, nil
}

// File exposes one canonical record. Content is loaded from the backing
// filesystem on first read and cached; the index is a snapshot, so the
// cache never goes stale.
type File struct {
	fs  *FS
	rec dsidx.File

	mu   sync.Mutex
	data []byte
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = f.fs.inodes.inodeFor("entry:" + f.rec.Hash)
	a.Mode = 0o444
	a.Size = uint64(f.rec.Size)
	a.Mtime = f.rec.ModTime
	a.Ctime = f.rec.ModTime
	return nil
}

func (f *File) ReadAll(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data != nil {
		return f.data, nil
	}

	src, err := f.fs.files.Open(f.rec.Path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	f.data = data
	return data, nil
}
