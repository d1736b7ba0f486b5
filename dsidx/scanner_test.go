package dsidx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

func TestBuildRecordsMatchContent(t *testing.T) {
	tempDir := t.TempDir()
	files := map[string]string{
		"logo.png":      "hello world",
		"sub/data.txt":  "hello\n",
		"sub/empty.txt": "",
	}
	for rel, content := range files {
		path := filepath.Join(tempDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}

	idx, err := Build(tempDir)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if idx.Len() != len(files) {
		t.Fatalf("Expected %d records, got %d", len(files), idx.Len())
	}
	expectedTotal := int64(len("hello world") + len("hello\n"))
	if idx.TotalSize() != expectedTotal {
		t.Errorf("Expected total size %d, got %d", expectedTotal, idx.TotalSize())
	}

	idx.Iterate(func(f File) bool {
		if !filepath.IsAbs(f.Path) {
			t.Errorf("Expected absolute record path, got %s", f.Path)
		}
		rehashed, err := GetFileHash(f.Path)
		if err != nil {
			t.Errorf("Failed to rehash %s: %v", f.Path, err)
			return true
		}
		if rehashed != f.Hash {
			t.Errorf("Recorded hash %s does not match content hash %s for %s", f.Hash, rehashed, f.Path)
		}
		info, err := os.Stat(f.Path)
		if err != nil {
			t.Errorf("Failed to stat %s: %v", f.Path, err)
			return true
		}
		if f.Size != info.Size() {
			t.Errorf("Recorded size %d does not match %d for %s", f.Size, info.Size(), f.Path)
		}
		return true
	})

	rec, ok := idx.GetFile(helloWorldHash)
	if !ok {
		t.Fatal("Expected a record for known content")
	}
	if rec.Path != filepath.Join(tempDir, "logo.png") {
		t.Errorf("Expected logo.png as canonical path, got %s", rec.Path)
	}
}

func TestBuildMissingRootYieldsEmptyIndex(t *testing.T) {
	idx, err := Build(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Expected no error for missing root, got %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Expected empty index, got %d records", idx.Len())
	}
	if idx.TotalSize() != 0 {
		t.Errorf("Expected zero total size, got %d", idx.TotalSize())
	}
}

func TestBuildFileRootYieldsEmptyIndex(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "not-a-dir.txt")
	if err := os.WriteFile(filePath, []byte("hello world"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	idx, err := Build(filePath)
	if err != nil {
		t.Fatalf("Expected no error for file root, got %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Expected empty index for file root, got %d records", idx.Len())
	}
}

func TestBuildRejectsBadRootEncoding(t *testing.T) {
	testCases := []struct {
		name string
		root string
	}{
		{name: "invalid utf-8", root: "/srv/uploads\xff"},
		{name: "embedded nul byte", root: "/srv/up\x00loads"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.root)
			if !errors.Is(err, ErrPathEncodingInvalid) {
				t.Errorf("Expected ErrPathEncodingInvalid, got %v", err)
			}
		})
	}
}

func TestBuildNormalizesRootToNFC(t *testing.T) {
	fsys := memfs.New()
	if err := util.WriteFile(fsys, "/srv/café/menu.txt", []byte("hello world"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	// Decomposed "e" + combining acute; normalization must converge on
	// the precomposed form the filesystem uses.
	idx, err := NewScanner(WithFilesystem(fsys)).Build("/srv/café")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if idx.Root() != "/srv/café" {
		t.Errorf("Expected normalized root, got %q", idx.Root())
	}
	if idx.Len() != 1 {
		t.Errorf("Expected 1 record under normalized root, got %d", idx.Len())
	}
}

// openFailFS makes one path unopenable, standing in for a permission wall.
type openFailFS struct {
	billy.Filesystem
	failPath string
}

func (f *openFailFS) Open(name string) (billy.File, error) {
	if name == f.failPath {
		return nil, os.ErrPermission
	}
	return f.Filesystem.Open(name)
}

// readFailFS serves one path whose reads fail mid-stream.
type readFailFS struct {
	billy.Filesystem
	failPath string
}

func (f *readFailFS) Open(name string) (billy.File, error) {
	file, err := f.Filesystem.Open(name)
	if err != nil || name != f.failPath {
		return file, err
	}
	return &readFailFile{File: file}, nil
}

type readFailFile struct {
	billy.File
}

func (f *readFailFile) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestBuildAbsorbsPerFileFailures(t *testing.T) {
	newBase := func(t *testing.T) billy.Filesystem {
		t.Helper()
		fsys := memfs.New()
		for path, content := range map[string]string{
			"/data/good.txt":   "hello world",
			"/data/broken.txt": "unreachable content",
			"/data/more.txt":   "hello\n",
		} {
			if err := util.WriteFile(fsys, path, []byte(content), 0644); err != nil {
				t.Fatalf("Failed to write %s: %v", path, err)
			}
		}
		return fsys
	}

	assertSurvivors := func(t *testing.T, idx *Index) {
		t.Helper()
		if idx.Len() != 2 {
			t.Fatalf("Expected 2 records, got %d", idx.Len())
		}
		expected := int64(len("hello world") + len("hello\n"))
		if idx.TotalSize() != expected {
			t.Errorf("Expected total size %d over readable files only, got %d", expected, idx.TotalSize())
		}
		idx.Iterate(func(f File) bool {
			if f.Path == "/data/broken.txt" {
				t.Error("Unreadable file must not be indexed")
			}
			return true
		})
	}

	t.Run("open failure", func(t *testing.T) {
		fsys := &openFailFS{Filesystem: newBase(t), failPath: "/data/broken.txt"}
		idx, err := NewScanner(WithFilesystem(fsys)).Build("/data")
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		assertSurvivors(t, idx)
	})

	t.Run("read failure", func(t *testing.T) {
		fsys := &readFailFS{Filesystem: newBase(t), failPath: "/data/broken.txt"}
		idx, err := NewScanner(WithFilesystem(fsys)).Build("/data")
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		assertSurvivors(t, idx)
	})
}

func TestBuildPreservesEnumerationOrder(t *testing.T) {
	fsys := memfs.New()
	var want []string
	for i := range 30 {
		path := fmt.Sprintf("/data/file%02d.txt", i)
		if i%3 == 0 {
			path = fmt.Sprintf("/data/nested/file%02d.txt", i)
		}
		if err := util.WriteFile(fsys, path, []byte(strings.Repeat("x", i+1)), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
		want = append(want, path)
	}
	// Walk order: name-sorted entries, directories descended in place.
	// "fileNN" sorts before "nested", so the flat files come first.
	var flat, nested []string
	for _, p := range want {
		if strings.Contains(p, "nested") {
			nested = append(nested, p)
		} else {
			flat = append(flat, p)
		}
	}
	want = append(flat, nested...)

	idx, err := NewScanner(WithFilesystem(fsys), WithWorkers(8)).Build("/data")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var got []string
	idx.Iterate(func(f File) bool {
		got = append(got, f.Path)
		return true
	})
	if len(got) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Record %d out of order: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestBuildIgnoresNonRegularFiles(t *testing.T) {
	fsys := memfs.New()
	if err := util.WriteFile(fsys, "/data/real.txt", []byte("hello world"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	if err := fsys.Symlink("/data/real.txt", "/data/link.txt"); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	idx, err := NewScanner(WithFilesystem(fsys)).Build("/data")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if idx.Len() != 1 {
		t.Fatalf("Expected only the regular file, got %d records", idx.Len())
	}
	if idx.TotalSize() != int64(len("hello world")) {
		t.Errorf("Expected total size %d, got %d", len("hello world"), idx.TotalSize())
	}
}

func TestBuildRelativeRootResolvesAbsolute(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "a.txt"), []byte("hello world"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	t.Chdir(tempDir)

	idx, err := Build(".")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if idx.Len() != 1 {
		t.Fatalf("Expected 1 record, got %d", idx.Len())
	}
	if !filepath.IsAbs(idx.Root()) {
		t.Errorf("Expected absolute root, got %s", idx.Root())
	}
	rec, ok := idx.GetFile(helloWorldHash)
	if !ok {
		t.Fatal("Expected a record for known content")
	}
	if !filepath.IsAbs(rec.Path) || filepath.Base(rec.Path) != "a.txt" {
		t.Errorf("Unexpected record path %s", rec.Path)
	}
}

func TestBuildConcurrentScans(t *testing.T) {
	fsys := memfs.New()
	var total int64
	for i := range 20 {
		content := strings.Repeat("x", i)
		total += int64(i)
		if err := util.WriteFile(fsys, fmt.Sprintf("/data/file%02d.txt", i), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test file: %v", err)
		}
	}

	scanner := NewScanner(WithFilesystem(fsys), WithWorkers(4))
	const builds = 4
	indexes := make([]*Index, builds)
	buildErrs := make([]error, builds)

	var wg sync.WaitGroup
	for g := range builds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			indexes[g], buildErrs[g] = scanner.Build("/data")
		}()
	}
	wg.Wait()

	for g := range builds {
		if buildErrs[g] != nil {
			t.Fatalf("Concurrent build %d failed: %v", g, buildErrs[g])
		}
		if indexes[g].Len() != 20 {
			t.Errorf("Build %d: expected 20 records, got %d", g, indexes[g].Len())
		}
		if indexes[g].TotalSize() != total {
			t.Errorf("Build %d: expected total size %d, got %d", g, total, indexes[g].TotalSize())
		}
	}
}

func TestNewScannerWorkerFloor(t *testing.T) {
	s := NewScanner(WithWorkers(-3))
	if s.workers != 1 {
		t.Errorf("Expected worker count raised to 1, got %d", s.workers)
	}
}
