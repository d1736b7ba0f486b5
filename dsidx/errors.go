package dsidx

import "errors"

// Common errors used throughout the package
var (
	// File and directory errors
	ErrExpectedFile      = errors.New("expected file, found directory")
	ErrExpectedDirectory = errors.New("expected directory, found file")

	// Scan errors; these are the only failures Build reports. Everything
	// below the root (unreadable files, vanished entries, permission
	// walls) is absorbed by excluding the affected file from the index.
	ErrPathEncodingInvalid = errors.New("root path is not valid UTF-8")
	ErrEnumerationFailed   = errors.New("could not enumerate root path")
)
