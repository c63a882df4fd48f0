package storage

import "errors"

// Names of the uniqueness constraints the services inspect to map conflicts
// onto field-level errors.
const (
	ConstraintUniqueAuthorTitle = "unique_author_title"
	ConstraintUniqueReviewText  = "unique_review_title"
	ConstraintUniqueUserEmail   = "unique_user_email"
	ConstraintUniqueUsername    = "unique_user_username"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ConflictError carries the name of the violated unique constraint so
// services can map it to the right field-level error. errors.Is matches
// it against ErrConflict.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return "conflict on constraint " + e.Constraint
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func ConstraintName(err error) string {
	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		return conflictErr.Constraint
	}
	return ""
}
