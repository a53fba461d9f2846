package pattern

import "errors"

// Errors returned when compiling custom pattern sets.
var (
	// ErrEmptyMatch indicates a pattern that matches the empty string and
	// would never advance a scan.
	ErrEmptyMatch = errors.New("pattern matches empty string")

	// ErrMissingIndex indicates an editor pattern without a capture group
	// for the marker number.
	ErrMissingIndex = errors.New("editor pattern has no index capture group")
)
