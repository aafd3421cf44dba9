package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joonseokim/peerlink-backend/api/controllers"
	"github.com/joonseokim/peerlink-backend/api/middleware"
	"github.com/joonseokim/peerlink-backend/internal/auth"
	"github.com/joonseokim/peerlink-backend/internal/media"
	"github.com/joonseokim/peerlink-backend/internal/relationships"
	"github.com/joonseokim/peerlink-backend/internal/users"
	"github.com/joonseokim/peerlink-backend/pkg/config"
	"github.com/joonseokim/peerlink-backend/pkg/logger"
	"github.com/joonseokim/peerlink-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	Redis        *redis.Client
	HealthChecks map[string]controllers.Pinger
	Registry     *prometheus.Registry

	UserFactory  users.Factory
	UserService  *users.Service
	AuthService  auth.Service
	MediaService *media.Service
	Graph        *relationships.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		0,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.HealthChecks))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.Ping())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, deps.Redis, logg)).
			Post("/signup", controllers.AuthSignup(deps.UserFactory, deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(signupPolicy, deps.Redis, logg)).
			Post("/facebook-signup", controllers.AuthFacebookSignup(deps.UserFactory, deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/facebook-login", controllers.AuthFacebookLogin(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/ping", controllers.PingPrivate())

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.MeGet(deps.UserService, logg))
			r.Patch("/", controllers.MeUpdate(deps.UserService, logg))
			r.Post("/profile-image", controllers.MeUploadProfileImage(deps.UserService, deps.MediaService, logg))
			r.Delete("/", controllers.MeDeactivate(deps.UserService, logg))
		})

		r.Route("/friends", func(r chi.Router) {
			r.Get("/", controllers.FriendsList(deps.Graph, logg))
			r.Delete("/{userID}", controllers.Unfriend(deps.Graph, logg))

			r.Route("/invitations", func(r chi.Router) {
				r.Get("/outgoing", controllers.InvitationsOutgoing(deps.Graph, logg))
				r.Get("/incoming", controllers.InvitationsIncoming(deps.Graph, logg))
				r.Post("/{userID}", controllers.FriendInvite(deps.Graph, logg))
				r.Post("/{userID}/accept", controllers.FriendAccept(deps.Graph, logg))
				r.Post("/{userID}/decline", controllers.FriendDecline(deps.Graph, logg))
			})

			r.Route("/managed", func(r chi.Router) {
				r.Get("/", controllers.ManagedList(deps.Graph, logg))
				r.With(middleware.RequireStaff(logg)).Get("/received/{userID}", controllers.ManagedReceived(deps.Graph, logg))
				r.Put("/{userID}", controllers.ManagedAnnotate(deps.Graph, logg))
				r.Delete("/{userID}", controllers.ManagedClear(deps.Graph, logg))
			})
		})

		r.Route("/thumbsups", func(r chi.Router) {
			r.Post("/{userID}", controllers.ThumbsUpSend(deps.Graph, logg))
			r.Get("/sent", controllers.ThumbsUpsSent(deps.Graph, logg))
			r.Get("/received", controllers.ThumbsUpsReceived(deps.Graph, logg))
			r.Get("/received/count", controllers.ThumbsUpCount(deps.Graph, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", controllers.ReportsList(deps.Graph, logg))
			r.With(middleware.RequireStaff(logg)).Get("/received/{userID}", controllers.ReportsReceived(deps.Graph, logg))
			r.Post("/{userID}", controllers.ReportFile(deps.Graph, deps.MediaService, logg))
		})

		r.With(middleware.RequireStaff(logg)).Get("/vip-users", controllers.VIPList(deps.UserService, logg))
	})

	return r
}
