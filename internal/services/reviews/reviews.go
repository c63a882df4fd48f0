package reviews

import (
	"context"
	"errors"
	"log/slog"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

type TitleStorage interface {
	Get(ctx context.Context, id int64) (*models.Title, error)
}

type ReviewStorage interface {
	Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error)
	Get(ctx context.Context, titleID, id int64) (*models.Review, error)
	ListForTitle(ctx context.Context, titleID int64, filters *filters.Filters) ([]models.Review, int, error)
	ExistsForAuthor(ctx context.Context, titleID, authorID int64) (bool, error)
	Update(ctx context.Context, review *models.Review) (*models.Review, error)
	Delete(ctx context.Context, titleID, id int64) error
}

type CommentStorage interface {
	Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error)
	Get(ctx context.Context, reviewID, id int64) (*models.Comment, error)
	ListForReview(ctx context.Context, reviewID int64, filters *filters.Filters) ([]models.Comment, int, error)
	Update(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, reviewID, id int64) error
}

// ReviewService owns the nested review/comment resources. Every operation
// resolves the parent chain first, so children of a different parent are
// indistinguishable from absent ones.
type ReviewService struct {
	log      *slog.Logger
	titles   TitleStorage
	reviews  ReviewStorage
	comments CommentStorage
}

func New(log *slog.Logger, titles TitleStorage, reviews ReviewStorage, comments CommentStorage) *ReviewService {
	return &ReviewService{
		log:      log,
		titles:   titles,
		reviews:  reviews,
		comments: comments,
	}
}

func (s *ReviewService) resolveTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titles.Get(ctx, titleID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *ReviewService) resolveReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.reviews.Get(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, titleID int64, f *filters.Filters) ([]models.Review, int, error) {
	const op = "reviews.ReviewService.ListReviews"
	log := s.log.With("op", op, "title_id", titleID)
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	reviews, total, err := s.reviews.ListForTitle(ctx, titleID, f)
	if err != nil {
		log.Error(err.Error())
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *ReviewService) GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	return s.resolveReview(ctx, titleID, reviewID)
}

// CreateReview stamps the author and title server-side. The duplicate
// precheck races with concurrent creates; the unique constraint backstops it
// and both paths surface the same error.
func (s *ReviewService) CreateReview(ctx context.Context, titleID int64, author *models.User, text string, score int32) (*models.Review, error) {
	const op = "reviews.ReviewService.CreateReview"
	log := s.log.With("op", op, "title_id", titleID, "author", author.Username)
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}
	exists, err := s.reviews.ExistsForAuthor(ctx, titleID, author.ID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if exists {
		log.Info("duplicate review rejected by precheck")
		return nil, ErrReviewAlreadyExists
	}
	review, err := s.reviews.Insert(ctx, titleID, author.ID, text, score)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, mapReviewConflict(err)
		}
		log.Error(err.Error())
		return nil, err
	}
	return review, nil
}

func mapReviewConflict(err error) error {
	if storage.ConstraintName(err) == storage.ConstraintUniqueReviewText {
		return ErrDuplicateReviewText
	}
	return ErrReviewAlreadyExists
}

// UpdateReview deliberately skips the duplicate precheck: an author editing
// their own review must not trip it.
func (s *ReviewService) UpdateReview(ctx context.Context, titleID, reviewID int64, text *string, score *int32) (*models.Review, error) {
	const op = "reviews.ReviewService.UpdateReview"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID)
	review, err := s.resolveReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if text != nil {
		review.Text = *text
	}
	if score != nil {
		review.Score = *score
	}
	updated, err := s.reviews.Update(ctx, review)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrReviewNotFound
		case errors.Is(err, storage.ErrConflict):
			return nil, mapReviewConflict(err)
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, titleID, reviewID int64) error {
	const op = "reviews.ReviewService.DeleteReview"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID)
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReviewNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID int64, f *filters.Filters) ([]models.Comment, int, error) {
	const op = "reviews.ReviewService.ListComments"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID)
	if _, err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	comments, total, err := s.comments.ListForReview(ctx, reviewID, f)
	if err != nil {
		log.Error(err.Error())
		return nil, 0, err
	}
	return comments, total, nil
}

func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if _, err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Get(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) CreateComment(ctx context.Context, titleID, reviewID int64, author *models.User, text string) (*models.Comment, error) {
	const op = "reviews.ReviewService.CreateComment"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID, "author", author.Username)
	if _, err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Insert(ctx, reviewID, author.ID, text)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) UpdateComment(ctx context.Context, titleID, reviewID, commentID int64, text string) (*models.Comment, error) {
	const op = "reviews.ReviewService.UpdateComment"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID, "comment_id", commentID)
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	comment.Text = text
	updated, err := s.comments.Update(ctx, comment)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) DeleteComment(ctx context.Context, titleID, reviewID, commentID int64) error {
	const op = "reviews.ReviewService.DeleteComment"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID, "comment_id", commentID)
	if _, err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, reviewID, commentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCommentNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
