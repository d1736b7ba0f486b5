package cmd

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates and returns the seed subcommand for the dsidx CLI.
// It generates a store-shaped corpus for exercising scans and lookups.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a test corpus with duplicate and timestamped files",
		Long: `Generate test files shaped like a deduplicating upload store.

Files land in a YYYY/MM/DD directory structure. Content comes from a small
pool of UUIDs, so identical content appears under many paths, and roughly
one file in ten is stored under a timestamp-suffixed name of the form
NAME-YYYYMMDDhhmmss.EXT, the collision shape canonical lookups must skip.`,
		Run: func(cmd *cobra.Command, args []string) {
			runSeed(outputPath, fileCount, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 10000, "Number of files to generate")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

func runSeed(outputPath string, fileCount int, verbose bool) {
	if verbose {
		fmt.Printf("Generating %d test files in %s\n", fileCount, outputPath)
	}

	// Create output directory
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// A pool of 50 UUIDs guarantees heavy duplication at any realistic
	// file count.
	contentPool := make([]string, 50)
	for i := range contentPool {
		contentPool[i] = uuid.New().String()
	}

	filesCreated := 0
	timestamped := 0
	dirFileCounts := make(map[string]int)

	// Start from a base time and vary it
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for filesCreated < fileCount {
		// Generate a random time within a year of the base
		dayOffset, _ := rand.Int(rand.Reader, big.NewInt(365))
		secondOffset, _ := rand.Int(rand.Reader, big.NewInt(86400))

		fileTime := baseTime.AddDate(0, 0, int(dayOffset.Int64())).
			Add(time.Duration(secondOffset.Int64()) * time.Second)

		dirPath := filepath.Join(outputPath,
			fmt.Sprintf("%04d", fileTime.Year()),
			fmt.Sprintf("%02d", fileTime.Month()),
			fmt.Sprintf("%02d", fileTime.Day()))

		// Keep individual directories from growing unbounded
		if dirFileCounts[dirPath] >= 1000 {
			continue
		}

		if err := os.MkdirAll(dirPath, 0755); err != nil {
			log.Printf("Warning: Failed to create directory %s: %v", dirPath, err)
			continue
		}

		// Generate random filename (lowercase hex)
		filenameNum, _ := rand.Int(rand.Reader, big.NewInt(0xFFFFFFFF))
		extRand, _ := rand.Int(rand.Reader, big.NewInt(2))
		ext := ".json"
		if extRand.Int64() == 1 {
			ext = ".txt"
		}
		name := fmt.Sprintf("%08x", filenameNum.Int64())

		// Roughly one file in ten takes the collision-suffixed form a
		// store produces when the same name is uploaded again.
		variantRand, _ := rand.Int(rand.Reader, big.NewInt(10))
		isVariant := variantRand.Int64() == 0
		if isVariant {
			name = name + "-" + fileTime.Format("20060102150405")
		}

		filePath := filepath.Join(dirPath, name+ext)

		// Skip if file already exists
		if _, err := os.Stat(filePath); err == nil {
			continue
		}

		// Select random content from the pool
		poolIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(contentPool))))
		content := contentPool[poolIndex.Int64()] + "\n"

		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			log.Printf("Warning: Failed to write file %s: %v", filePath, err)
			continue
		}

		dirFileCounts[dirPath]++
		filesCreated++
		if isVariant {
			timestamped++
		}

		if verbose && filesCreated%1000 == 0 {
			fmt.Printf("Created %d/%d files...\n", filesCreated, fileCount)
		}
	}

	if verbose {
		fmt.Printf("Successfully created %d files (%d timestamp-suffixed)\n", filesCreated, timestamped)
		fmt.Printf("Files distributed across %d directories\n", len(dirFileCounts))
	}
}
