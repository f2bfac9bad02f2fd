package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventboard/internal/delivery/http/controllers"
	"eventboard/internal/delivery/http/middleware"
	"eventboard/internal/domain"
)

// NewRouter initializes the main service's HTTP router with all
// application routes. Admin routes are wrapped with the bearer guard;
// a nil verifier leaves them open.
func NewRouter(
	eventController *controllers.EventController,
	requestController *controllers.RequestController,
	categoryController *controllers.CategoryController,
	userController *controllers.UserController,
	compilationController *controllers.CompilationController,
	commentController *controllers.CommentController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	admin := middleware.RequireAdmin(verifier)

	// Public API
	mux.HandleFunc("GET /events", eventController.Search)
	mux.HandleFunc("GET /events/{id}", eventController.GetPublished)
	mux.HandleFunc("GET /events/{eventId}/comments", commentController.ListByEvent)
	mux.HandleFunc("GET /categories", categoryController.List)
	mux.HandleFunc("GET /categories/{catId}", categoryController.GetByID)
	mux.HandleFunc("GET /compilations", compilationController.List)
	mux.HandleFunc("GET /compilations/{compId}", compilationController.GetByID)

	// Private API (per-user)
	mux.HandleFunc("POST /users/{userId}/events", eventController.Create)
	mux.HandleFunc("GET /users/{userId}/events", eventController.ListByUser)
	mux.HandleFunc("GET /users/{userId}/events/{eventId}", eventController.GetUserEvent)
	mux.HandleFunc("PATCH /users/{userId}/events/{eventId}", eventController.UpdateByUser)
	mux.HandleFunc("GET /users/{userId}/events/{eventId}/requests", eventController.ListEventRequests)
	mux.HandleFunc("PATCH /users/{userId}/events/{eventId}/requests", eventController.ChangeRequestStatuses)
	mux.HandleFunc("GET /users/{userId}/requests", requestController.ListByUser)
	mux.HandleFunc("POST /users/{userId}/requests", requestController.Create)
	mux.HandleFunc("PATCH /users/{userId}/requests/{requestId}/cancel", requestController.Cancel)
	mux.HandleFunc("POST /users/{userId}/comments/{eventId}", commentController.Create)
	mux.HandleFunc("PATCH /users/{userId}/comments/{commentId}", commentController.Edit)
	mux.HandleFunc("DELETE /users/{userId}/comments/{commentId}", commentController.Delete)
	mux.HandleFunc("GET /users/{userId}/comments", commentController.ListByUser)

	// Admin API
	mux.HandleFunc("GET /admin/events", admin(eventController.SearchAdmin))
	mux.HandleFunc("PATCH /admin/events/{eventId}", admin(eventController.UpdateByAdmin))
	mux.HandleFunc("POST /admin/categories", admin(categoryController.Create))
	mux.HandleFunc("PATCH /admin/categories/{catId}", admin(categoryController.Update))
	mux.HandleFunc("DELETE /admin/categories/{catId}", admin(categoryController.Delete))
	mux.HandleFunc("POST /admin/users", admin(userController.Create))
	mux.HandleFunc("GET /admin/users", admin(userController.List))
	mux.HandleFunc("DELETE /admin/users/{userId}", admin(userController.Delete))
	mux.HandleFunc("POST /admin/compilations", admin(compilationController.Create))
	mux.HandleFunc("PATCH /admin/compilations/{compId}", admin(compilationController.Update))
	mux.HandleFunc("DELETE /admin/compilations/{compId}", admin(compilationController.Delete))
	mux.HandleFunc("DELETE /admin/comments/{commentId}", admin(commentController.DeleteByAdmin))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewStatsRouter initializes the stats collector's HTTP router.
func NewStatsRouter(statsController *controllers.StatsController) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /hit", statsController.RecordHit)
	mux.HandleFunc("GET /stats", statsController.GetStats)
	return mux
}
