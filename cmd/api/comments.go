package main

import (
	"net/http"

	"yamdb/proj/internal/domain/filters"
)

func (app *Application) extractCommentScope(w http.ResponseWriter, r *http.Request) (titleID, reviewID int64, ok bool) {
	titleID, ok = app.extractIDParam(w, r, "titleID")
	if !ok {
		return 0, 0, false
	}
	reviewID, ok = app.extractIDParam(w, r, "reviewID")
	if !ok {
		return 0, 0, false
	}
	return titleID, reviewID, true
}

func (app *Application) getComments(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.extractCommentScope(w, r)
	if !ok {
		return
	}
	query := struct {
		filters.Filters
	}{}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	comments, total, err := app.services.Reviews.ListComments(r.Context(), titleID, reviewID, &query.Filters)
	if err != nil {
		app.handleReviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{
		"comments": comments,
		"metadata": filters.CalculateMetadata(total, &query.Filters),
	}, "")
}

func (app *Application) getComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.extractCommentScope(w, r)
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "commentID")
	if !ok {
		return
	}
	comment, err := app.services.Reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.handleReviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": comment}, "")
}

func (app *Application) createComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.extractCommentScope(w, r)
	if !ok {
		return
	}
	input := struct {
		Text string `json:"text" validate:"required"`
	}{}
	if !app.readValidatedJSON(w, r, &input) {
		return
	}
	comment, err := app.services.Reviews.CreateComment(r.Context(), titleID, reviewID, app.currentUser(r), input.Text)
	if err != nil {
		app.handleReviewError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"comment": comment}, "")
}

func (app *Application) updateComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.extractCommentScope(w, r)
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "commentID")
	if !ok {
		return
	}
	input := struct {
		Text string `json:"text" validate:"required"`
	}{}
	if !app.readValidatedJSON(w, r, &input) {
		return
	}
	comment, err := app.services.Reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.handleReviewError(w, r, err)
		return
	}
	user := app.currentUser(r)
	if !reviewPolicy.HasObjectPermission(user, true, comment.AuthorID) {
		app.forbid(w, r, user)
		return
	}
	updated, err := app.services.Reviews.UpdateComment(r.Context(), titleID, reviewID, commentID, input.Text)
	if err != nil {
		app.handleReviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": updated}, "")
}

func (app *Application) deleteComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.extractCommentScope(w, r)
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "commentID")
	if !ok {
		return
	}
	comment, err := app.services.Reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.handleReviewError(w, r, err)
		return
	}
	user := app.currentUser(r)
	if !reviewPolicy.HasObjectPermission(user, true, comment.AuthorID) {
		app.forbid(w, r, user)
		return
	}
	if err := app.services.Reviews.DeleteComment(r.Context(), titleID, reviewID, commentID); err != nil {
		app.handleReviewError(w, r, err)
		return
	}
	app.Http.NoContent(w, r, "")
}
