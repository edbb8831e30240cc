package mvx

import "errors"

// Fatal errors. Callers match them with errors.Is; the returned errors wrap
// them with the offending input.
var (
	ErrMalformedNumber         = errors.New("malformed number")
	ErrNegativeAmount          = errors.New("negative amount of bytes to move")
	ErrUnknownUnit             = errors.New("unknown unit")
	ErrOutOfRange              = errors.New("size out of range")
	ErrDestinationNotDirectory = errors.New("destination is not a directory")
	ErrRootUnreadable          = errors.New("source root is not a readable directory")
)
