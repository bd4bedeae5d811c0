package message

import (
	"errors"
	"fmt"
)

// Errors that occur while parsing or manipulating messages.
var (
	// ErrNoBoundary is returned when a multipart Content-Type has no boundary
	// parameter and none can be found in the content.
	ErrNoBoundary = errors.New("the boundary parameter is missing from Content-Type")

	// ErrLargePart is returned when a part is longer than the configured
	// WithMaxPartLength option.
	ErrLargePart = errors.New("a message part exceeds the maximum parse length")

	// ErrNotMultipart is returned by Multipart() when the part does not have
	// a multipart/* Content-Type.
	ErrNotMultipart = errors.New("the part is not a multipart")

	// ErrNotMessage is returned by Message() when the part does not have a
	// message/rfc822 Content-Type.
	ErrNotMessage = errors.New("the part is not a message/rfc822")

	// ErrIndexOutOfRange is returned by the Multipart methods that take a part
	// index when that index does not refer to a part.
	ErrIndexOutOfRange = errors.New("part index out of range")
)

// MissingBoundaryError is returned when boundaries are strictly checked and
// the start or end boundary of a multipart is missing.
type MissingBoundaryError struct {
	// Boundary is the boundary parameter that was searched for.
	Boundary string

	// Start is true if no boundary was found at all and false if only the
	// terminating boundary is missing.
	Start bool
}

// Error describes the missing boundary.
func (e *MissingBoundaryError) Error() string {
	which := "end"
	if e.Start {
		which = "start"
	}
	return fmt.Sprintf("missing %s boundary %q", which, e.Boundary)
}
