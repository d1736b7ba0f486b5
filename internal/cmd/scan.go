package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/dendrascience/dendra-storage-index/dsidx"
	"github.com/docker/go-units"
	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"
)

// NewScanCmd creates and returns the scan subcommand for the dsidx CLI.
// It builds a content index over a directory tree and summarizes it.
func NewScanCmd() *cobra.Command {
	var (
		reportPath string
		showDups   bool
		maxSize    string
		workers    int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "scan ROOT",
		Short: "Build a content index over a directory tree",
		Long: `Build a content index over the directory tree rooted at ROOT and print a
summary.

Every readable regular file is hashed with SHA-256; unreadable files are
excluded from the index rather than failing the scan. A missing ROOT
produces an empty index. With --report the summary is also written as JSON
for downstream tooling, and --dups lists every group of paths sharing
identical content.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runScan(args[0], reportPath, maxSize, workers, showDups, verbose)
		},
	}
	cmd.Flags().StringVarP(&reportPath, "report", "r", "", "Write a JSON report to this path")
	cmd.Flags().BoolVar(&showDups, "dups", false, "List duplicate content groups")
	cmd.Flags().StringVarP(&maxSize, "max-size", "m", "", "Quota to check the total size against (e.g. 10GB)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of hashing workers (default: number of CPUs)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	return cmd
}

func runScan(root, reportPath, maxSize string, workers int, showDups, verbose bool) {
	cfg := loadConfig()

	start := time.Now()
	idx, err := newScanner(cfg, workers).Build(root)
	if err != nil {
		log.Fatalf("Failed to build index: %v", err)
	}
	elapsed := time.Since(start)

	report := idx.GenerateReport()
	fmt.Printf("Indexed %s\n", idx.Root())
	fmt.Printf("  Files:      %d\n", report.FileCount)
	fmt.Printf("  Unique:     %d\n", report.UniqueCount)
	fmt.Printf("  Duplicates: %d\n", report.DuplicateCount)
	fmt.Printf("  Total size: %s (%d bytes)\n", units.BytesSize(float64(report.TotalSize)), report.TotalSize)
	if verbose && report.FileCount > 0 {
		fmt.Printf("  Oldest:     %s\n", report.OldestModTime.Format(time.RFC3339))
		fmt.Printf("  Newest:     %s\n", report.NewestModTime.Format(time.RFC3339))
	}
	fmt.Printf("  Elapsed:    %s\n", elapsed.Round(time.Millisecond))

	if limit := resolveMaxSize(maxSize, cfg); limit > 0 {
		if idx.IsOverLimit(limit) {
			fmt.Printf("  Quota:      OVER the %s limit\n", units.BytesSize(float64(limit)))
		} else {
			fmt.Printf("  Quota:      under the %s limit\n", units.BytesSize(float64(limit)))
		}
	}

	if showDups {
		printDuplicates(idx)
	}

	if reportPath != "" {
		if err := report.Save(reportPath); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		if verbose {
			fmt.Printf("Report written to %s\n", reportPath)
		}
	}
}

// printDuplicates lists each group of paths sharing identical content, in
// first-seen order.
func printDuplicates(idx *dsidx.Index) {
	groups := make(map[string][]string)
	var order []string
	idx.Iterate(func(f dsidx.File) bool {
		if _, ok := groups[f.Hash]; !ok {
			order = append(order, f.Hash)
		}
		groups[f.Hash] = append(groups[f.Hash], f.Path)
		return true
	})

	found := 0
	for _, hash := range order {
		paths := groups[hash]
		if len(paths) < 2 {
			continue
		}
		found++
		fmt.Printf("\n%s\n", digest.NewDigestFromEncoded(digest.SHA256, hash))
		for _, path := range paths {
			fmt.Printf("  %s\n", path)
		}
	}
	if found == 0 {
		fmt.Println("\nNo duplicate content found")
	}
}
