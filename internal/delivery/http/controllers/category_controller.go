package controllers

import (
	"log/slog"
	"net/http"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

// CategoryBody is the request body for category create and update.
type CategoryBody struct {
	Name string `json:"name"`
}

type CategoryController struct {
	Logger  *slog.Logger
	Service domain.CategoryService
}

func NewCategoryController(logger *slog.Logger, svc domain.CategoryService) *CategoryController {
	return &CategoryController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create a category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body CategoryBody true "Category name"
// @Success 201 {object} domain.Category
// @Failure 409 {object} helpers.APIError
// @Router /admin/categories [post]
func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var body CategoryBody
	if !helpers.Decode(w, r, &body) {
		return
	}
	category, err := c.Service.Create(r.Context(), body.Name)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, category)
}

// Update godoc
// @Summary Rename a category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param catId path int true "Category ID"
// @Param category body CategoryBody true "New name"
// @Success 200 {object} domain.Category
// @Failure 409 {object} helpers.APIError
// @Router /admin/categories/{catId} [patch]
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "catId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	var body CategoryBody
	if !helpers.Decode(w, r, &body) {
		return
	}
	category, err := c.Service.Update(r.Context(), id, body.Name)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, category)
}

// Delete godoc
// @Summary Delete an unreferenced category
// @Tags admin
// @Security BearerAuth
// @Param catId path int true "Category ID"
// @Success 204
// @Failure 409 {object} helpers.APIError
// @Router /admin/categories/{catId} [delete]
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "catId")
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

// List godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	page, err := helpers.ParsePage(r)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	categories, err := c.Service.List(r.Context(), page)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, categories)
}

// GetByID godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param catId path int true "Category ID"
// @Success 200 {object} domain.Category
// @Failure 404 {object} helpers.APIError
// @Router /categories/{catId} [get]
func (c *CategoryController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "catId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	category, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, category)
}
