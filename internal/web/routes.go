package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kudzaitsapo/fileflow-web/internal/web/handlers"
	"github.com/kudzaitsapo/fileflow-web/internal/web/middleware"
	"github.com/kudzaitsapo/fileflow-web/internal/web/static"
)

func (s *Server) setupRoutes() {
	sm := s.sessionManager

	// Create handlers
	authHandler := handlers.NewAuthHandler(s.config, sm, s.views)
	filesHandler := handlers.NewFilesHandler(s.config, sm, s.views, s.coordinator)
	projectsHandler := handlers.NewProjectsHandler(s.config, sm, s.views)
	usersHandler := handlers.NewUsersHandler(s.config, sm, s.views, s.coordinator)
	pagesHandler := handlers.NewPagesHandler(s.views)
	activeProjectHandler := handlers.NewActiveProjectHandler(s.config, sm)

	// Unauthenticated endpoints
	s.router.Get("/api/v1/health", handlers.HealthCheck)
	s.router.Get("/api/v1/auth/status", authHandler.Status)
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Handle("/static/*", static.Handler("/static/"))

	s.router.Get(middleware.LoginPath, authHandler.LoginForm)
	s.router.Post(middleware.LoginPath, authHandler.Login)
	s.router.Post("/logout", authHandler.Logout)

	// Everything else requires a session, a backend client and the active project
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sm))
		r.Use(middleware.WithFileflowClient(s.config))
		r.Use(middleware.WithActiveProject(sm))

		r.Get("/", filesHandler.Page)

		r.Get("/projects", projectsHandler.List)
		r.Post("/projects/select", projectsHandler.Select)
		r.Get("/projects/create", projectsHandler.CreateForm)
		r.Post("/projects/create", projectsHandler.Create)
		r.Get("/projects/settings", projectsHandler.SettingsForm)
		r.Post("/projects/settings", projectsHandler.Settings)
		r.Post("/projects/settings/regenerate-key", projectsHandler.RegenerateKey)

		r.Get("/users", usersHandler.Page)
		r.Get("/security", pagesHandler.Security)
		r.Get("/activity", pagesHandler.Activity)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/active-project", activeProjectHandler.Get)
			r.Put("/active-project", activeProjectHandler.Set)
			r.Delete("/active-project", activeProjectHandler.Clear)
			r.Get("/files", filesHandler.List)
		})
	})
}
