package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/dendrascience/dendra-storage-index/dsidx"
	"github.com/docker/go-units"
	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates and returns the check subcommand for the dsidx CLI.
// It runs the pre-upload gate: duplicate detection plus the quota test.
func NewCheckCmd() *cobra.Command {
	var (
		maxSize string
		workers int
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "check ROOT FILE",
		Short: "Test a candidate file for duplicate content and quota headroom",
		Long: `Check whether FILE's content already exists somewhere under ROOT and
whether the tree is over its size quota.

This is the gate a storage service runs before accepting new content: the
canonical duplicate path is printed when one exists, and with a quota (from
--max-size or the config file) an over-quota tree makes the command exit
with status 1.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runCheck(args[0], args[1], maxSize, workers, quiet)
		},
	}
	cmd.Flags().StringVarP(&maxSize, "max-size", "m", "", "Quota to check the total size against (e.g. 10GB)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of hashing workers (default: number of CPUs)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only duplicate paths and quota violations")
	return cmd
}

func runCheck(root, file, maxSize string, workers int, quiet bool) {
	hash, err := dsidx.GetFileHash(file)
	if err != nil {
		log.Fatalf("Failed to hash %s: %v", file, err)
	}

	cfg := loadConfig()
	idx, err := newScanner(cfg, workers).Build(root)
	if err != nil {
		log.Fatalf("Failed to build index: %v", err)
	}

	if !quiet {
		fmt.Printf("Candidate: %s\n", digest.NewDigestFromEncoded(digest.SHA256, hash))
	}
	if rec, ok := idx.GetFile(hash); ok {
		fmt.Printf("Duplicate of %s\n", rec.Path)
	} else if !quiet {
		fmt.Println("No duplicate content found")
	}

	limit := resolveMaxSize(maxSize, cfg)
	if limit <= 0 {
		return
	}
	total := idx.TotalSize()
	if idx.IsOverLimit(limit) {
		fmt.Fprintf(os.Stderr, "Store is over quota: %s used of %s\n",
			units.BytesSize(float64(total)), units.BytesSize(float64(limit)))
		os.Exit(1)
	}
	if !quiet {
		fmt.Printf("Quota: %s used of %s\n",
			units.BytesSize(float64(total)), units.BytesSize(float64(limit)))
	}
}
