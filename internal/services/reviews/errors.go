package reviews

import "errors"

var (
	ErrTitleNotFound   = errors.New("title not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrCommentNotFound = errors.New("comment not found")
	// ErrReviewAlreadyExists covers the one-review-per-author-per-title
	// invariant, whether caught by the precheck or by the storage constraint.
	ErrReviewAlreadyExists = errors.New("you have already reviewed this title")
	ErrDuplicateReviewText = errors.New("an identical review already exists for this title")
)
