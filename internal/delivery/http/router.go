package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "blogapi/docs"
	"blogapi/internal/delivery/http/controllers"
	"blogapi/internal/delivery/http/helpers"
	"blogapi/internal/delivery/http/middleware"
	"blogapi/internal/domain"
)

// RouterDeps is everything NewRouter wires together.
type RouterDeps struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	Registry       *prometheus.Registry
	AllowedOrigins []string
	// Ping reports backend health for GET /health. Nil means always healthy.
	Ping func(ctx context.Context) error

	Posts    *controllers.PostController
	Tags     *controllers.TagController
	Users    *controllers.UserController
	Roles    *controllers.RoleController
	Sessions *controllers.SessionController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(d RouterDeps) http.Handler {
	metrics := middleware.NewMetrics(d.Registry)
	admin := middleware.RequireRole(d.Verifier, domain.LevelAdmin, d.Logger)
	standard := middleware.RequireRole(d.Verifier, domain.LevelStandard, d.Logger)
	session := middleware.RequireSession(d.Verifier, d.Logger)

	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.Logging(d.Logger),
		chimw.Recoverer,
		metrics.Handler,
		middleware.CORS(d.AllowedOrigins),
	)

	r.Get("/health", health(d.Ping))
	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", d.Posts.List)
			r.Get("/{id}", d.Posts.Get)
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Post("/", d.Posts.Create)
				r.Patch("/{id}", d.Posts.Update)
				r.Delete("/{id}", d.Posts.Delete)
				r.Patch("/{id}/tags", d.Posts.AttachTags)
				r.Put("/{id}/tags", d.Posts.ReplaceTags)
				r.Patch("/{id}/tags/{tagID}", d.Posts.AttachTag)
				r.Delete("/{id}/tags/{tagID}", d.Posts.DetachTag)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", d.Tags.List)
			r.Get("/{id}", d.Tags.Get)
			r.Get("/{id}/posts", d.Tags.Posts)
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Post("/", d.Tags.Create)
				r.Patch("/{id}", d.Tags.Update)
				r.Delete("/{id}", d.Tags.Delete)
			})
		})

		r.Route("/roles", func(r chi.Router) {
			r.Use(admin)
			r.Get("/", d.Roles.List)
			r.Post("/", d.Roles.Create)
			r.Get("/{id}", d.Roles.Get)
			r.Patch("/{id}", d.Roles.Update)
			r.Delete("/{id}", d.Roles.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(standard).Get("/me", d.Users.GetMe)
			r.Group(func(r chi.Router) {
				r.Use(session)
				r.Patch("/me", d.Users.UpdateMe)
				r.Post("/me/confirm-password", d.Users.ConfirmPassword)
			})
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Get("/", d.Users.List)
				r.Post("/", d.Users.Create)
				r.Get("/{id}", d.Users.Get)
				r.Patch("/{id}", d.Users.Update)
				r.Delete("/{id}", d.Users.Delete)
			})
		})

		r.Post("/session", d.Sessions.Login)
		r.Delete("/session", d.Sessions.Logout)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSON(w, http.StatusNotFound, helpers.NotFound("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONError(w, http.StatusMethodNotAllowed, helpers.ErrCodeBadRequest, "method not allowed")
	})
	return r
}

// health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Failure 503 {object} helpers.APIResponse
// @Router /health [get]
func health(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "database unavailable")
				return
			}
		}
		helpers.WriteJSON(w, http.StatusOK, helpers.APIResponse{Status: helpers.StatusSuccess, Message: "ok"})
	}
}
