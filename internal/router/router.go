package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"projector-backend/internal/config"
	"projector-backend/internal/handler"
	"projector-backend/internal/metrics"
	"projector-backend/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Worker  *handler.WorkerHandler
	Program *handler.ProgramHandler
	Lookup  *handler.LookupHandler
	Health  *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, m *metrics.Metrics, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Health)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/refresh", h.Auth.Refresh)
			auth.Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.Route("/workers", func(workers chi.Router) {
			workers.Use(authMiddleware.RequireAuth)
			workers.Get("/", h.Worker.List)
			workers.Get("/{id}", h.Worker.Get)
			workers.With(authMiddleware.RequirePermissions("create_worker")).Post("/", h.Worker.Create)
			workers.With(authMiddleware.RequirePermissions("update_worker")).Put("/{id}", h.Worker.Update)
			workers.With(authMiddleware.RequirePermissions("delete_worker")).Delete("/{id}", h.Worker.Delete)
		})

		api.Route("/programs", func(programs chi.Router) {
			programs.Use(authMiddleware.RequireAuth)
			programs.Get("/", h.Program.List)
			programs.Get("/{id}", h.Program.Get)
			programs.With(authMiddleware.RequirePermissions("create_program")).Post("/", h.Program.Create)
			programs.With(authMiddleware.RequirePermissions("update_program")).Put("/{id}", h.Program.Update)
			programs.With(authMiddleware.RequirePermissions("delete_program")).Delete("/{id}", h.Program.Delete)
		})

		api.With(authMiddleware.RequireAuth).Get("/lookups", h.Lookup.All)
	})

	return r
}
