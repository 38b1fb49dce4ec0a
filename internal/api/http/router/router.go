package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dtroode/boogle-server/internal/api/http/handler"
	"github.com/dtroode/boogle-server/internal/api/http/middleware"
	"github.com/dtroode/boogle-server/internal/logger"
	"github.com/dtroode/boogle-server/internal/model"
)

// Router wires HTTP handlers and middleware.
type Router struct {
	auth         *handler.Auth
	user         *handler.User
	contact      *handler.Contact
	dashboard    *handler.Dashboard
	health       *handler.Health
	authenticate *middleware.Authenticate
	authorize    *middleware.Authorize
	logging      *middleware.Logging
	rateLimit    *middleware.RateLimit
	metrics      http.Handler
	responder    *handler.Responder
	logger       *logger.Logger
}

// Handlers groups the endpoint handlers served by the router.
type Handlers struct {
	Auth      *handler.Auth
	User      *handler.User
	Contact   *handler.Contact
	Dashboard *handler.Dashboard
	Health    *handler.Health
	Metrics   http.Handler
}

// Middleware groups the middleware applied by the router. RateLimit may be
// nil to disable throttling.
type Middleware struct {
	Authenticate *middleware.Authenticate
	Authorize    *middleware.Authorize
	Logging      *middleware.Logging
	RateLimit    *middleware.RateLimit
}

// New creates a new Router instance.
func New(h Handlers, m Middleware, responder *handler.Responder, logger *logger.Logger) *Router {
	return &Router{
		auth:         h.Auth,
		user:         h.User,
		contact:      h.Contact,
		dashboard:    h.Dashboard,
		health:       h.Health,
		metrics:      h.Metrics,
		authenticate: m.Authenticate,
		authorize:    m.Authorize,
		logging:      m.Logging,
		rateLimit:    m.RateLimit,
		responder:    responder,
		logger:       logger,
	}
}

// Register builds the route table.
func (r *Router) Register() http.Handler {
	root := mux.NewRouter()
	root.Use(r.logging.Handle)
	root.NotFoundHandler = http.HandlerFunc(r.notFound)
	root.MethodNotAllowedHandler = http.HandlerFunc(r.methodNotAllowed)

	root.HandleFunc("/api/health", r.health.Check).Methods(http.MethodGet)
	if r.metrics != nil {
		root.Handle("/metrics", r.metrics).Methods(http.MethodGet)
	}

	api := root.PathPrefix("/api").Subrouter()
	r.registerAuthRoutes(api.PathPrefix("/auth").Subrouter())
	r.registerUserRoutes(api.PathPrefix("/users").Subrouter())
	r.registerContactRoutes(api.PathPrefix("/contact").Subrouter())
	r.registerDashboardRoutes(api.PathPrefix("/dashboard").Subrouter())

	return root
}

func (r *Router) registerAuthRoutes(s *mux.Router) {
	s.Handle("/register", r.limited(r.authenticate.Optional(http.HandlerFunc(r.auth.Register)))).Methods(http.MethodPost)
	s.Handle("/login", r.limited(http.HandlerFunc(r.auth.Login))).Methods(http.MethodPost)
	s.HandleFunc("/logout", r.auth.Logout).Methods(http.MethodPost)

	s.Handle("/me", r.authenticate.Required(http.HandlerFunc(r.auth.Me))).Methods(http.MethodGet)
	s.Handle("/update-profile", r.authenticate.Required(http.HandlerFunc(r.auth.UpdateProfile))).Methods(http.MethodPatch)
	s.Handle("/change-password", r.authenticate.Required(http.HandlerFunc(r.auth.ChangePassword))).Methods(http.MethodPatch)
	s.Handle("/avatar", r.authenticate.Required(http.HandlerFunc(r.auth.UploadAvatar))).Methods(http.MethodPut)
	s.Handle("/avatar", r.authenticate.Required(http.HandlerFunc(r.auth.Avatar))).Methods(http.MethodGet)
}

func (r *Router) registerUserRoutes(s *mux.Router) {
	s.Handle("/{id}/status", r.admin(http.HandlerFunc(r.user.SetStatus))).Methods(http.MethodPatch)
}

func (r *Router) registerContactRoutes(s *mux.Router) {
	s.Handle("/submit", r.authenticate.Optional(http.HandlerFunc(r.contact.Submit))).Methods(http.MethodPost)

	s.Handle("", r.admin(http.HandlerFunc(r.contact.List))).Methods(http.MethodGet)
	s.Handle("/stats", r.admin(http.HandlerFunc(r.contact.Stats))).Methods(http.MethodGet)
	s.Handle("/{id}", r.admin(http.HandlerFunc(r.contact.Get))).Methods(http.MethodGet)
	s.Handle("/{id}", r.admin(http.HandlerFunc(r.contact.Update))).Methods(http.MethodPatch)
}

func (r *Router) registerDashboardRoutes(s *mux.Router) {
	s.Handle("/stats", r.authenticate.Required(http.HandlerFunc(r.dashboard.Stats))).Methods(http.MethodGet)
}

func (r *Router) admin(next http.Handler) http.Handler {
	return r.authenticate.Required(r.authorize.RequireRoles(model.RoleAdmin)(next))
}

func (r *Router) limited(next http.Handler) http.Handler {
	if r.rateLimit == nil {
		return next
	}
	return r.rateLimit.Handle(next)
}

func (r *Router) notFound(w http.ResponseWriter, req *http.Request) {
	r.responder.Fail(w, http.StatusNotFound, "Route "+req.URL.Path+" not found")
}

func (r *Router) methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	r.responder.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
}
