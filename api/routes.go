package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers public and admin routes
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(HTTPLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.health())

		// Public endpoints
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())
		r.Post("/applications", handlers.applicationHandler.submitApplication())
		r.Post("/suggestions", handlers.suggestionHandler.suggestProjects())
		r.Post("/admin/login", handlers.authHandler.login())

		// Admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Get("/admin/applications", handlers.applicationHandler.getAllApplications())
			r.Post("/project", handlers.projectHandler.createProject())
			r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())
			r.Put("/projects/order", handlers.projectHandler.reorderProjects())
			r.Post("/admin/project-images", handlers.imageHandler.uploadProjectImage())
		})
	})
}
