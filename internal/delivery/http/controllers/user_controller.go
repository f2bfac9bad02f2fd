package controllers

import (
	"log/slog"
	"net/http"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

// NewUserBody is the request body for user registration.
type NewUserBody struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Register a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body NewUserBody true "Email and name"
// @Success 201 {object} domain.User
// @Failure 409 {object} helpers.APIError
// @Router /admin/users [post]
func (c *UserController) Create(w http.ResponseWriter, r *http.Request) {
	var body NewUserBody
	if !helpers.Decode(w, r, &body) {
		return
	}
	user, err := c.Service.Create(r.Context(), body.Email, body.Name)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, user)
}

// List godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param ids query []int false "Restrict to these user IDs"
// @Success 200 {array} domain.User
// @Router /admin/users [get]
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	page, err := helpers.ParsePage(r)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	ids, err := helpers.QueryInt64s(r.URL.Query(), "ids")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	users, err := c.Service.List(r.Context(), ids, page)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, users)
}

// Delete godoc
// @Summary Delete a user
// @Tags admin
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 204
// @Failure 404 {object} helpers.APIError
// @Router /admin/users/{userId} [delete]
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "userId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
