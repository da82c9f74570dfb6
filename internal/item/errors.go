package item

import "errors"

// Error variables for item validation and lookup.
var (
	ErrIDRequired         = errors.New("item ID is required")
	ErrIDGenerationFailed = errors.New("failed to generate item ID")
	ErrNotFound           = errors.New("item not found")
	ErrDuplicateID        = errors.New("duplicate item ID")
	ErrTitleRequired      = errors.New("title is required")
	ErrInvalidKind        = errors.New("invalid kind (must be idea|feature|feedback)")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidPriority    = errors.New("invalid priority (must be low|medium|high|critical)")
	ErrInvalidScore       = errors.New("invalid score input")
	ErrNegativeVotes      = errors.New("votes cannot be negative")
)
