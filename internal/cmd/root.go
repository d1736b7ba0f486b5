package cmd

import (
	"github.com/dendrascience/dendra-storage-index/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the dsidx CLI.
// It sets up all subcommands, command groups, and basic configuration.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dsidx",
		Short: "dsidx - Content-addressable directory indexing for deduplicated storage",
		Long: `dsidx builds point-in-time content indexes over directories of stored files.

An index records the SHA-256 digest, size, and modification time of every
readable file under a root, preserving enumeration order, and tracks the
aggregate size of the tree. It answers the two questions a storage service
asks before accepting new content: does this content already exist under a
canonical name, and is the store over its size quota?

Use subcommands to perform different operations:
  - scan: Build an index and print or save a summary report
  - lookup: Find the canonical path holding a content hash
  - check: Test a candidate file for duplicate content and quota headroom
  - status: Report tree size and volume capacity without hashing
  - mount: Mount a read-only, hash-addressed view of a directory
  - seed: Generate a test corpus with duplicate and timestamped files
  - config: Show or initialize the configuration file`,
		Version: version.GetFullVersion(),
	}

	groupIndex := "index"
	groupFilesystem := "filesystem"
	groupUtilities := "utilities"

	// Add command groups for better organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupIndex,
		Title: "Index Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupFilesystem,
		Title: "Filesystem Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	scanCmd := NewScanCmd()
	lookupCmd := NewLookupCmd()
	checkCmd := NewCheckCmd()
	statusCmd := NewStatusCmd()
	mountCmd := NewMountCmd()
	seedCmd := NewSeedCmd()
	configCmd := NewConfigCmd()

	scanCmd.GroupID = groupIndex
	lookupCmd.GroupID = groupIndex
	checkCmd.GroupID = groupIndex
	statusCmd.GroupID = groupFilesystem
	mountCmd.GroupID = groupFilesystem
	seedCmd.GroupID = groupUtilities
	configCmd.GroupID = groupUtilities

	// Add subcommands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(configCmd)

	return rootCmd
}
