package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/dendrascience/dendra-storage-index/dsidx"
	"github.com/docker/go-units"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates and returns the status subcommand for the dsidx
// CLI. It sizes a tree and its volume without reading file content.
func NewStatusCmd() *cobra.Command {
	var maxSize string

	cmd := &cobra.Command{
		Use:   "status ROOT",
		Short: "Report tree size and volume capacity without hashing",
		Long: `Report how much data sits under ROOT and how much room the volume holding
it has left.

Unlike scan, status reads no file content: sizes come from directory
metadata, and with a quota the walk stops early as soon as the total passes
it. Use it as a cheap pre-check before a full scan. An over-quota tree
makes the command exit with status 1.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runStatus(args[0], maxSize)
		},
	}
	cmd.Flags().StringVarP(&maxSize, "max-size", "m", "", "Quota to check the tree size against (e.g. 10GB)")
	return cmd
}

func runStatus(root, maxSize string) {
	cfg := loadConfig()
	limit := resolveMaxSize(maxSize, cfg)

	cutoff := int64(-1)
	if limit > 0 {
		cutoff = limit
	}
	total, over, err := dsidx.TreeSize(root, cutoff)
	if err != nil {
		log.Fatalf("Failed to measure %s: %v", root, err)
	}

	if over {
		fmt.Printf("Tree size: %s+ (walk stopped past the %s quota)\n",
			units.BytesSize(float64(total)), units.BytesSize(float64(limit)))
	} else {
		fmt.Printf("Tree size: %s (%d bytes)\n", units.BytesSize(float64(total)), total)
		if limit > 0 {
			fmt.Printf("Quota:     %s (%.1f%% used)\n",
				units.BytesSize(float64(limit)), float64(total)/float64(limit)*100)
		}
	}

	usage, err := disk.Usage(root)
	if err != nil {
		log.Printf("Volume usage unavailable: %v", err)
	} else {
		fmt.Printf("Volume:    %s free of %s (%.1f%% used)\n",
			units.BytesSize(float64(usage.Free)), units.BytesSize(float64(usage.Total)), usage.UsedPercent)
	}

	if over {
		os.Exit(1)
	}
}
