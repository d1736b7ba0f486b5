// Package dsidx builds content-addressable indexes over directories of
// stored files.
//
// An Index is a point-in-time snapshot of a directory tree: every readable
// regular file is recorded with the SHA-256 digest of its content, and the
// aggregate byte size of the indexed files is tracked. A snapshot answers
// the two questions a storage service asks before accepting new content:
//
//   - Does this content already exist, and under which canonical path?
//     (GetFile)
//   - Has the store exceeded its configured size quota? (IsOverLimit)
//
// Key Components:
//
// Scanning:
//   - Scanner walks a tree, hashes file content through a concurrent
//     worker pool, and assembles an Index in enumeration order
//   - Unreadable files are silently excluded rather than failing the
//     build; the only fatal conditions concern the root path itself
//   - The filesystem backend is pluggable (go-billy), so scans run
//     against the OS filesystem or an in-memory one
//
// Lookups:
//   - GetFile returns the first record matching a content hash whose
//     path does not carry an auto-generated timestamp suffix, so content
//     stored under a collision-disambiguated name is never offered as
//     the canonical copy
//   - The exclusion predicate is injectable per scanner
//
// Quota:
//   - IsOverLimit is a pure predicate over the snapshot's total size
//   - TreeSize measures a tree without hashing, stopping early once a
//     limit is passed
//
// Reporting:
//   - GenerateReport derives a JSON-serializable summary (counts,
//     duplicates, size, modification range) from a snapshot
//
// An Index is immutable after construction and safe for concurrent
// lookups; refreshing means building a new one. Nothing is persisted:
// every Build is a full, read-only scan of the filesystem as it is at
// that moment.
package dsidx
