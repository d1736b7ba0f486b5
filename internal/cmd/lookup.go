package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/dendrascience/dendra-storage-index/dsidx"
	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"
)

// NewLookupCmd creates and returns the lookup subcommand for the dsidx
// CLI. It resolves a content hash to the canonical path holding it.
func NewLookupCmd() *cobra.Command {
	var (
		showAll bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "lookup ROOT HASH",
		Short: "Find the canonical path holding a content hash",
		Long: `Look up a SHA-256 content hash in a freshly built index of ROOT and print
the canonical path holding that content.

Paths whose filename carries an auto-generated timestamp suffix are never
offered as the canonical copy. Use --all to print every path with matching
content, including timestamped variants.

The command exits with status 1 when no match exists.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runLookup(args[0], args[1], showAll, workers)
		},
	}
	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "Print every matching path, including timestamped variants")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of hashing workers (default: number of CPUs)")
	return cmd
}

func runLookup(root, hash string, showAll bool, workers int) {
	dgst := digest.NewDigestFromEncoded(digest.SHA256, hash)
	if err := dgst.Validate(); err != nil {
		log.Fatalf("Not a valid SHA-256 hash %q: %v", hash, err)
	}

	cfg := loadConfig()
	idx, err := newScanner(cfg, workers).Build(root)
	if err != nil {
		log.Fatalf("Failed to build index: %v", err)
	}

	if showAll {
		found := 0
		idx.Iterate(func(f dsidx.File) bool {
			if f.Hash == hash {
				fmt.Println(f.Path)
				found++
			}
			return true
		})
		if found == 0 {
			fmt.Fprintf(os.Stderr, "No file with content %s under %s\n", dgst, idx.Root())
			os.Exit(1)
		}
		return
	}

	rec, ok := idx.GetFile(hash)
	if !ok {
		fmt.Fprintf(os.Stderr, "No canonical file with content %s under %s\n", dgst, idx.Root())
		os.Exit(1)
	}
	fmt.Println(rec.Path)
}
