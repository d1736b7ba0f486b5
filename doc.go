// Package main provides the dsidx command-line interface.
//
// dsidx builds point-in-time content indexes over directories of stored
// files. An index maps every readable file to the SHA-256 digest of its
// content and tracks the aggregate size of the tree, answering the two
// questions a deduplicating storage service asks before accepting new
// content: does this content already exist under a canonical name, and is
// the store over its size quota?
//
// The main binary supports multiple subcommands:
//   - scan: Build an index and print or save a summary report
//   - lookup: Find the canonical path holding a content hash
//   - check: Test a candidate file for duplicate content and quota headroom
//   - status: Report tree size and volume capacity without hashing
//   - mount: Mount a read-only, hash-addressed view of a directory
//   - seed: Generate a test corpus with duplicate and timestamped files
//   - config: Show or initialize the configuration file
package main
