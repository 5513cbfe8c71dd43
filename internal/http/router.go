package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterDeps collects everything the router mounts.
type RouterDeps struct {
	Auth      *AuthHandler
	Directory *DirectoryHandler
	Rooms     *RoomHandler
	Bookings  *BookingHandler
	Sessions  TokenValidator
	Metrics   *Metrics
	Logger    *slog.Logger
}

// NewRouter assembles the public and session-protected route trees.
func NewRouter(deps RouterDeps) http.Handler {
	logger := defaultLogger(deps.Logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware(routePattern))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Post("/auth/login", deps.Auth.Login)
	r.Post("/owners", deps.Directory.RegisterOwner)
	r.Post("/organizations", deps.Directory.RegisterOrganization)
	r.Post("/members", deps.Directory.RegisterMember)

	r.Group(func(r chi.Router) {
		r.Use(RequireSession(deps.Sessions, logger))

		r.Delete("/auth/logout", deps.Auth.Logout)

		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", deps.Rooms.Create)
			r.Get("/", deps.Rooms.List)
			r.Get("/{roomID}", deps.Rooms.Get)
			r.Patch("/{roomID}", deps.Rooms.Update)
			r.Delete("/{roomID}", deps.Rooms.Delete)
			r.Get("/{roomID}/slots", deps.Rooms.Slots)
			r.Get("/{roomID}/bookings", deps.Rooms.Bookings)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", deps.Bookings.Create)
			r.Get("/", deps.Bookings.List)
			r.Get("/{bookingID}", deps.Bookings.Get)
			r.Patch("/{bookingID}", deps.Bookings.Update)
			r.Delete("/{bookingID}", deps.Bookings.Delete)
		})
	})

	return r
}

// routePattern reports the matched chi pattern so metrics stay low
// cardinality even with ids in the path.
func routePattern(r *http.Request) string {
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
