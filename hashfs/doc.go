// Package hashfs presents a content index as a read-only FUSE filesystem
// addressed by content hash rather than by filename.
//
// The mounted tree has two levels:
//
//	/<bucket>/<hash><ext>
//
// where <bucket> is a stable 0-999 spread of the hash keeping individual
// directory listings bounded, <hash> is the full lowercase hex SHA-256 of
// the content, and <ext> is the extension of the canonical path holding
// it. Reading an entry streams the bytes of the canonical copy.
//
// Only canonical content appears: each unique hash maps to exactly one
// entry, backed by the first indexed path that is not a timestamp-suffixed
// duplicate. Content whose every copy carries a timestamp suffix has no
// canonical path and is not exposed.
//
// The view is a snapshot. The index is built once before mounting and the
// filesystem never mutates; changes on the underlying storage appear only
// after a remount.
package hashfs
