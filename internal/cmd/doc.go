// Package cmd provides the command-line interface implementation for
// dsidx.
//
// This package contains all the subcommand implementations for the dsidx
// CLI tool. It uses the Cobra library for command structure and Fang for
// styled execution.
//
// The package is organized into the following commands:
//   - root: Main command coordinator and entry point
//   - scan: Index construction with summary reports
//   - lookup: Canonical path resolution for content hashes
//   - check: Pre-upload duplicate and quota gate
//   - status: Hash-free tree and volume sizing
//   - mount: FUSE mounting of the content-addressed view
//   - seed: Test corpus generation
//   - config: XDG config file handling
//
// Each command is implemented as a separate file with its own constructor
// function that returns a *cobra.Command. Commands share the config file
// plumbing in config.go: flags always win over configured defaults.
//
// The package leverages the dsidx package for index operations and the
// hashfs package for the mounted view.
package cmd
