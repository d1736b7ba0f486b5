package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	_ "bazil.org/fuse/fs/fstestutil"
	"github.com/dendrascience/dendra-storage-index/hashfs"
	"github.com/dendrascience/dendra-storage-index/version"
	"github.com/spf13/cobra"
)

// NewMountCmd creates and returns the mount subcommand for the dsidx CLI.
// It serves a content-addressed, read-only view of an indexed directory.
func NewMountCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "mount ROOT MOUNTPOINT",
		Short: "Mount a read-only, hash-addressed view of a directory",
		Long: `Mount a read-only FUSE filesystem exposing the content index of ROOT.

The mounted tree is addressed by content: the top level holds bucket
directories and each bucket holds one entry per unique content hash, named
by the hash plus the canonical file's extension. Reading an entry streams
the bytes of the canonical copy. Content that exists only under
timestamp-suffixed names has no canonical copy and is not exposed.

The index is built once at mount time; remount to pick up changes.

ROOT is the directory to index.
MOUNTPOINT is the directory where the view will be mounted.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runMount(args[0], args[1], workers)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of hashing workers (default: number of CPUs)")
	return cmd
}

func runMount(root, mountpoint string, workers int) {
	// Print version info on startup
	fmt.Printf("dsidx %s starting...\n", version.GetFullVersion())

	if pathsOverlap(root, mountpoint) {
		log.Fatalf("Mountpoint %s overlaps the indexed root %s", mountpoint, root)
	}

	cfg := loadConfig()
	idx, err := newScanner(cfg, workers).Build(root)
	if err != nil {
		log.Fatalf("Failed to build index: %v", err)
	}
	report := idx.GenerateReport()
	fmt.Printf("Indexed %d files (%d unique) under %s\n", report.FileCount, report.UniqueCount, idx.Root())

	filesystem := hashfs.NewFS(idx, nil)

	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("dsidx"),
		fuse.Subtype("dsidx"),
		fuse.ReadOnly(),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, shutting down...")

		// Unmount filesystem
		fuse.Unmount(mountpoint)
		c.Close()

		log.Println("Shutdown complete")
		os.Exit(0)
	}()

	log.Printf("dsidx %s mounted at %s (root: %s)", version.GetVersion(), mountpoint, idx.Root())
	err = fs.Serve(c, filesystem)
	if err != nil {
		log.Fatal(err)
	}
}

// pathsOverlap reports whether one path contains the other or they are the
// same. Mounting the view inside the tree it indexes must be refused, or
// the next scan would walk into the mount.
func pathsOverlap(path1, path2 string) bool {
	p1 := filepath.Clean(path1)
	p2 := filepath.Clean(path2)
	if p1 == p2 {
		return true
	}
	return isSubpath(p1, p2) || isSubpath(p2, p1)
}

// isSubpath reports whether child sits somewhere under parent.
func isSubpath(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
