package folio

import "errors"

// Sentinel errors for library operations.
var (
	// ErrPostPanic marks a post whose assembly panicked. The post is
	// reported as unavailable.
	ErrPostPanic = errors.New("post assembly panicked")

	// ErrInvalidDateFormat is raised by WithDateFormat for a format that
	// dateutil cannot parse.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
