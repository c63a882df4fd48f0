package reviews

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
)

type fakeTitles struct {
	ids map[int64]bool
}

func (f *fakeTitles) Get(_ context.Context, id int64) (*models.Title, error) {
	if !f.ids[id] {
		return nil, storage.ErrNotFound
	}
	return &models.Title{ID: id}, nil
}

type fakeReviews struct {
	items  map[int64]*models.Review
	nextID int64
	// when set, Insert fails with a unique violation regardless of contents,
	// simulating a concurrent create winning the race
	conflictConstraint string
}

func (f *fakeReviews) Insert(_ context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error) {
	if f.conflictConstraint != "" {
		return nil, &storage.ConflictError{Constraint: f.conflictConstraint}
	}
	f.nextID++
	r := &models.Review{ID: f.nextID, TitleID: titleID, AuthorID: authorID, Text: text, Score: score, PubDate: time.Now()}
	f.items[r.ID] = r
	return r, nil
}

func (f *fakeReviews) Get(_ context.Context, titleID, id int64) (*models.Review, error) {
	r, ok := f.items[id]
	if !ok || r.TitleID != titleID {
		return nil, storage.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReviews) ListForTitle(_ context.Context, titleID int64, _ *filters.Filters) ([]models.Review, int, error) {
	out := []models.Review{}
	for _, r := range f.items {
		if r.TitleID == titleID {
			out = append(out, *r)
		}
	}
	return out, len(out), nil
}

func (f *fakeReviews) ExistsForAuthor(_ context.Context, titleID, authorID int64) (bool, error) {
	for _, r := range f.items {
		if r.TitleID == titleID && r.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviews) Update(_ context.Context, review *models.Review) (*models.Review, error) {
	r, ok := f.items[review.ID]
	if !ok || r.TitleID != review.TitleID {
		return nil, storage.ErrNotFound
	}
	r.Text = review.Text
	r.Score = review.Score
	copied := *r
	return &copied, nil
}

func (f *fakeReviews) Delete(_ context.Context, titleID, id int64) error {
	r, ok := f.items[id]
	if !ok || r.TitleID != titleID {
		return storage.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeComments struct {
	items  map[int64]*models.Comment
	nextID int64
}

func (f *fakeComments) Insert(_ context.Context, reviewID, authorID int64, text string) (*models.Comment, error) {
	f.nextID++
	c := &models.Comment{ID: f.nextID, ReviewID: reviewID, AuthorID: authorID, Text: text, PubDate: time.Now()}
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeComments) Get(_ context.Context, reviewID, id int64) (*models.Comment, error) {
	c, ok := f.items[id]
	if !ok || c.ReviewID != reviewID {
		return nil, storage.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeComments) ListForReview(_ context.Context, reviewID int64, _ *filters.Filters) ([]models.Comment, int, error) {
	out := []models.Comment{}
	for _, c := range f.items {
		if c.ReviewID == reviewID {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (f *fakeComments) Update(_ context.Context, comment *models.Comment) (*models.Comment, error) {
	c, ok := f.items[comment.ID]
	if !ok || c.ReviewID != comment.ReviewID {
		return nil, storage.ErrNotFound
	}
	c.Text = comment.Text
	copied := *c
	return &copied, nil
}

func (f *fakeComments) Delete(_ context.Context, reviewID, id int64) error {
	c, ok := f.items[id]
	if !ok || c.ReviewID != reviewID {
		return storage.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

var author = &models.User{ID: 7, Username: "critic", Role: models.RoleUser}

func newTestService(titleIDs ...int64) (*ReviewService, *fakeReviews, *fakeComments) {
	titles := &fakeTitles{ids: map[int64]bool{}}
	for _, id := range titleIDs {
		titles.ids[id] = true
	}
	reviewStore := &fakeReviews{items: map[int64]*models.Review{}}
	commentStore := &fakeComments{items: map[int64]*models.Comment{}}
	return New(slog.Default(), titles, reviewStore, commentStore), reviewStore, commentStore
}

func TestCreateReviewRequiresTitle(t *testing.T) {
	svc, _, _ := newTestService(1)
	_, err := svc.CreateReview(context.Background(), 99, author, "great", 8)
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestCreateReviewOncePerAuthor(t *testing.T) {
	svc, _, _ := newTestService(1)
	ctx := context.Background()
	_, err := svc.CreateReview(ctx, 1, author, "great", 8)
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, 1, author, "still great", 9)
	assert.ErrorIs(t, err, ErrReviewAlreadyExists)
}

func TestCreateReviewConstraintBackstop(t *testing.T) {
	svc, reviewStore, _ := newTestService(1)
	reviewStore.conflictConstraint = storage.ConstraintUniqueAuthorTitle
	_, err := svc.CreateReview(context.Background(), 1, author, "great", 8)
	assert.ErrorIs(t, err, ErrReviewAlreadyExists)

	reviewStore.conflictConstraint = storage.ConstraintUniqueReviewText
	_, err = svc.CreateReview(context.Background(), 1, author, "great", 8)
	assert.ErrorIs(t, err, ErrDuplicateReviewText)
}

func TestUpdateReviewSkipsDuplicateCheck(t *testing.T) {
	svc, _, _ := newTestService(1)
	ctx := context.Background()
	created, err := svc.CreateReview(ctx, 1, author, "great", 8)
	require.NoError(t, err)

	newScore := int32(5)
	updated, err := svc.UpdateReview(ctx, 1, created.ID, nil, &newScore)
	require.NoError(t, err)
	assert.Equal(t, int32(5), updated.Score)
	assert.Equal(t, "great", updated.Text)
}

func TestReviewScopedToTitle(t *testing.T) {
	svc, _, _ := newTestService(1, 2)
	ctx := context.Background()
	created, err := svc.CreateReview(ctx, 1, author, "great", 8)
	require.NoError(t, err)

	_, err = svc.GetReview(ctx, 2, created.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
	_, err = svc.GetReview(ctx, 1, created.ID)
	assert.NoError(t, err)
}

func TestCommentScopedToReview(t *testing.T) {
	svc, _, _ := newTestService(1)
	ctx := context.Background()
	reviewA, err := svc.CreateReview(ctx, 1, author, "great", 8)
	require.NoError(t, err)
	reviewB, err := svc.CreateReview(ctx, 1, &models.User{ID: 8, Username: "other"}, "meh", 4)
	require.NoError(t, err)

	comment, err := svc.CreateComment(ctx, 1, reviewB.ID, author, "agreed")
	require.NoError(t, err)

	// an existing comment under a different review is treated as absent
	_, err = svc.GetComment(ctx, 1, reviewA.ID, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
	got, err := svc.GetComment(ctx, 1, reviewB.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "agreed", got.Text)
}

func TestListCommentsRequiresReviewInTitleScope(t *testing.T) {
	svc, _, _ := newTestService(1, 2)
	ctx := context.Background()
	review, err := svc.CreateReview(ctx, 1, author, "great", 8)
	require.NoError(t, err)

	_, _, err = svc.ListComments(ctx, 2, review.ID, &filters.Filters{})
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
