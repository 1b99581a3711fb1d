package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	eventsHandler "github.com/useradmin/user-admin/backend/internal/handler/events"
	userHandler "github.com/useradmin/user-admin/backend/internal/handler/user"
	middlewarePkg "github.com/useradmin/user-admin/backend/internal/middleware"
	userService "github.com/useradmin/user-admin/backend/internal/service/user"
	"github.com/useradmin/user-admin/backend/pkg/utils"
)

// Options carries everything NewRouter needs besides the services.
type Options struct {
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(users *userService.Service, feed eventsHandler.Subscriber, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(opts.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		userHandler.New(users, logger.Named("users")).RegisterRoutes(api)

		if feed != nil {
			eventsHandler.New(feed, logger.Named("events"), originChecker(opts.AllowedOrigins)).RegisterRoutes(api)
		}
	})

	return r
}

// originChecker restricts websocket upgrades to the CORS origins. Requests without an
// Origin header come from non-browser clients and are allowed.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return nil
		}
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
