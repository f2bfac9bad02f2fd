package controllers

import (
	"log/slog"
	"net/http"

	"eventboard/internal/delivery/http/helpers"
	"eventboard/internal/domain"
)

type CompilationController struct {
	Logger  *slog.Logger
	Service domain.CompilationService
}

func NewCompilationController(logger *slog.Logger, svc domain.CompilationService) *CompilationController {
	return &CompilationController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create a compilation
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param compilation body domain.NewCompilation true "Title, pinned flag, event IDs"
// @Success 201 {object} domain.Compilation
// @Router /admin/compilations [post]
func (c *CompilationController) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.NewCompilation
	if !helpers.Decode(w, r, &in) {
		return
	}
	compilation, err := c.Service.Create(r.Context(), in)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, compilation)
}

// Update godoc
// @Summary Update a compilation
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param compId path int true "Compilation ID"
// @Param patch body domain.CompilationPatch true "Fields to change"
// @Success 200 {object} domain.Compilation
// @Router /admin/compilations/{compId} [patch]
func (c *CompilationController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "compId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	var patch domain.CompilationPatch
	if !helpers.Decode(w, r, &patch) {
		return
	}
	compilation, err := c.Service.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, compilation)
}

// Delete godoc
// @Summary Delete a compilation
// @Tags admin
// @Security BearerAuth
// @Param compId path int true "Compilation ID"
// @Success 204
// @Failure 404 {object} helpers.APIError
// @Router /admin/compilations/{compId} [delete]
func (c *CompilationController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "compId")
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
// @Summary List compilations
// @Tags compilations
// @Produce json
// @Param pinned query bool false "Only pinned or only unpinned"
// @Success 200 {array} domain.Compilation
// @Router /compilations [get]
func (c *CompilationController) List(w http.ResponseWriter, r *http.Request) {
	page, err := helpers.ParsePage(r)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	pinned, err := helpers.QueryBool(r.URL.Query(), "pinned")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	compilations, err := c.Service.List(r.Context(), pinned, page)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, compilations)
}

// GetByID godoc
// @Summary Get a compilation
// @Tags compilations
// @Produce json
// @Param compId path int true "Compilation ID"
// @Success 200 {object} domain.Compilation
// @Failure 404 {object} helpers.APIError
// @Router /compilations/{compId} [get]
func (c *CompilationController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "compId")
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	compilation, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, compilation)
}
