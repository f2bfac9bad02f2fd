package controllers

import (
	"log/slog"
	"net/http"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

// CommentBody is the request body for comment create and edit.
type CommentBody struct {
	Text string `json:"text"`
}

type CommentController struct {
	Logger  *slog.Logger
	Service domain.CommentService
}

func NewCommentController(logger *slog.Logger, svc domain.CommentService) *CommentController {
	return &CommentController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Comment on an event
// @Tags comments
// @Accept json
// @Produce json
// @Param userId path int true "Author ID"
// @Param eventId path int true "Event ID"
// @Param comment body CommentBody true "Comment text"
// @Success 201 {object} domain.Comment
// @Router /users/{userId}/comments/{eventId} [post]
func (c *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	eventID, err := helpers.PathID(r, "eventId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	var body CommentBody
	if !helpers.Decode(w, r, &body) {
		return
	}
	comment, err := c.Service.Create(r.Context(), userID, eventID, body.Text)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, comment)
}

// Edit godoc
// @Summary Edit the user's own comment
// @Tags comments
// @Accept json
// @Produce json
// @Param userId path int true "Author ID"
// @Param commentId path int true "Comment ID"
// @Param comment body CommentBody true "New text"
// @Success 200 {object} domain.Comment
// @Failure 409 {object} helpers.APIError
// @Router /users/{userId}/comments/{commentId} [patch]
func (c *CommentController) Edit(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	commentID, err := helpers.PathID(r, "commentId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	var body CommentBody
	if !helpers.Decode(w, r, &body) {
		return
	}
	comment, err := c.Service.Edit(r.Context(), userID, commentID, body.Text)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, comment)
}

// Delete godoc
// @Summary Delete a comment as its author or the event initiator
// @Tags comments
// @Param userId path int true "User ID"
// @Param commentId path int true "Comment ID"
// @Success 204
// @Failure 409 {object} helpers.APIError
// @Router /users/{userId}/comments/{commentId} [delete]
func (c *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	commentID, err := helpers.PathID(r, "commentId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if err := c.Service.Delete(r.Context(), userID, commentID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteByAdmin godoc
// @Summary Delete any comment
// @Tags admin
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Success 204
// @Failure 404 {object} helpers.APIError
// @Router /admin/comments/{commentId} [delete]
func (c *CommentController) DeleteByAdmin(w http.ResponseWriter, r *http.Request) {
	commentID, err := helpers.PathID(r, "commentId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if err := c.Service.DeleteByAdmin(r.Context(), commentID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByUser godoc
// @Summary List the user's comments
// @Tags comments
// @Produce json
// @Param userId path int true "Author ID"
// @Success 200 {array} domain.Comment
// @Router /users/{userId}/comments [get]
func (c *CommentController) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.PathID(r, "userId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	page, err := helpers.ParsePage(r)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	comments, err := c.Service.ListByUser(r.Context(), userID, page)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, comments)
}

// ListByEvent godoc
// @Summary List an event's comments
// @Tags comments
// @Produce json
// @Param eventId path int true "Event ID"
// @Success 200 {array} domain.Comment
// @Router /events/{eventId}/comments [get]
func (c *CommentController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := helpers.PathID(r, "eventId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	comments, err := c.Service.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, comments)
}
