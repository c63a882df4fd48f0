package main

import (
	"errors"
	"net/http"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/permissions"
	"yamdb/proj/internal/services/reviews"
)

var reviewPolicy = permissions.AuthorOrStaffOrReadOnly{}

func (app *Application) handleReviewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reviews.ErrTitleNotFound):
		app.Http.NotFound(w, r, "Title not found")
	case errors.Is(err, reviews.ErrReviewNotFound):
		app.Http.NotFound(w, r, "Review not found")
	case errors.Is(err, reviews.ErrCommentNotFound):
		app.Http.NotFound(w, r, "Comment not found")
	case errors.Is(err, reviews.ErrReviewAlreadyExists):
		app.Http.UnprocessableEntity(w, r, map[string]string{
			"author": "You have already reviewed this title",
		})
	case errors.Is(err, reviews.ErrDuplicateReviewText):
		app.Http.UnprocessableEntity(w, r, map[string]string{
			"text": "An identical review for this title already exists",
		})
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) getReviews(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	query := struct {
		filters.Filters
	}{}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	reviewList, total, err := app.services.Reviews.ListReviews(r.Context(), titleID, &query.Filters)
	if err != nil {
		app.handleReviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{
		"reviews":  reviewList,
		"metadata": filters.CalculateMetadata(total, &query.Filters),
	}, "")
}

func (app *Application) getReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	review, err := app.services.Reviews.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		app.handleReviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"review": review}, "")
}

func (app *Application) createReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	input := struct {
		Text  string `json:"text" validate:"required"`
		Score *int32 `json:"score" validate:"required,gte=0,lte=10"`
	}{}
	if !app.readValidatedJSON(w, r, &input) {
		return
	}
	review, err := app.services.Reviews.CreateReview(r.Context(), titleID, app.currentUser(r), input.Text, *input.Score)
	if err != nil {
		app.handleReviewError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"review": review}, "")
}

func (app *Application) updateReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	input := struct {
		Text  *string `json:"text" validate:"omitempty,min=1"`
		Score *int32  `json:"score" validate:"omitempty,gte=0,lte=10"`
	}{}
	if !app.readValidatedJSON(w, r, &input) {
		return
	}
	review, err := app.services.Reviews.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		app.handleReviewError(w, r, err)
		return
	}
	user := app.currentUser(r)
	if !reviewPolicy.HasObjectPermission(user, true, review.AuthorID) {
		app.forbid(w, r, user)
		return
	}
	updated, err := app.services.Reviews.UpdateReview(r.Context(), titleID, reviewID, input.Text, input.Score)
	if err != nil {
		app.handleReviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"review": updated}, "")
}

func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	review, err := app.services.Reviews.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		app.handleReviewError(w, r, err)
		return
	}
	user := app.currentUser(r)
	if !reviewPolicy.HasObjectPermission(user, true, review.AuthorID) {
		app.forbid(w, r, user)
		return
	}
	if err := app.services.Reviews.DeleteReview(r.Context(), titleID, reviewID); err != nil {
		app.handleReviewError(w, r, err)
		return
	}
	app.Http.NoContent(w, r, "")
}
