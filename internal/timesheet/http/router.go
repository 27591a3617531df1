package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/internal/timesheet/store"
	"github.com/clockleaf/timesheet/pkg/httpx"
	"github.com/clockleaf/timesheet/pkg/jwtx"
	"github.com/clockleaf/timesheet/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	UserService       *service.UserService
	ClientService     *service.ClientService
	ProjectService    *service.ProjectService
	EntryService      *service.EntryService
	TimesheetService  *service.TimesheetService
	AnalyticsService  *service.AnalyticsService
	AuthService       *service.AuthService
	InvitationService *service.InvitationService
	SetupService      *service.SetupService
}

func NewRouter(verifier jwtx.Verifier, buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSetup()
	r.registerUsers()
	r.registerClients()
	r.registerProjects()
	r.registerTimeEntries()
	r.registerTimesheet()
	r.registerAnalytics()
	r.registerInvitations()
	r.registerSystem()
}

// ServeHTTP applies the global middleware chain in front of the mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authed wraps h with JWT verification and a per-user rate limit.
func (r *Router) authed(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(limit),
	)
}

// adminOnly additionally requires the admin role.
func (r *Router) adminOnly(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAdmin(),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Public endpoints, strict IP limit on top of the per-email 60s rule.
	r.Mux.Handle("POST /api/auth/magic-link",
		httpx.Chain(http.HandlerFunc(h.HandleRequestMagicLink),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /api/auth/magic-link/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleConsumeMagicLink),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSetup() {
	h := &SetupHandler{SetupService: r.SetupService}

	// Public: the endpoint closes itself once a user exists.
	r.Mux.Handle("GET /api/setup",
		httpx.Chain(http.HandlerFunc(h.HandleStatus),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /api/setup",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /api/users", r.authed(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /api/users/{id}", r.authed(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))

	// User management is admin territory.
	r.Mux.Handle("POST /api/users", r.adminOnly(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("PATCH /api/users/{id}", r.adminOnly(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/users/{id}", r.adminOnly(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerClients() {
	h := &ClientsHandler{ClientService: r.ClientService}

	r.Mux.Handle("GET /api/clients", r.authed(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("POST /api/clients", r.adminOnly(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("PATCH /api/clients/{id}", r.adminOnly(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/clients/{id}", r.adminOnly(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerProjects() {
	h := &ProjectsHandler{ProjectService: r.ProjectService}

	r.Mux.Handle("GET /api/projects", r.authed(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("POST /api/projects", r.adminOnly(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("PATCH /api/projects/{id}", r.adminOnly(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/projects/{id}", r.adminOnly(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerTimeEntries() {
	h := &TimeEntriesHandler{EntryService: r.EntryService}

	r.Mux.Handle("GET /api/time-entries", r.authed(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("POST /api/time-entries", r.authed(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("PATCH /api/time-entries/{id}", r.authed(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/time-entries/{id}", r.authed(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
	r.Mux.Handle("POST /api/time-entries/batch", r.authed(http.HandlerFunc(h.HandleBatch), httpx.ModerateLimit))
	r.Mux.Handle("POST /api/time-entries/bulk-delete", r.authed(http.HandlerFunc(h.HandleBulkDelete), httpx.ModerateLimit))
}

func (r *Router) registerTimesheet() {
	h := &TimesheetHandler{TimesheetService: r.TimesheetService}

	r.Mux.Handle("GET /api/timesheet", r.authed(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("POST /api/timesheet", r.authed(http.HandlerFunc(h.HandleSubmit), httpx.ModerateLimit))
	r.Mux.Handle("POST /api/timesheet/delete-project", r.authed(http.HandlerFunc(h.HandleDeleteProjectWeek), httpx.ModerateLimit))
	r.Mux.Handle("GET /api/timesheet/prefs", r.authed(http.HandlerFunc(h.HandleGetPrefs), httpx.LenientLimit))
	r.Mux.Handle("PUT /api/timesheet/prefs", r.authed(http.HandlerFunc(h.HandlePutPrefs), httpx.ModerateLimit))
}

func (r *Router) registerAnalytics() {
	h := &AnalyticsHandler{AnalyticsService: r.AnalyticsService}

	r.Mux.Handle("GET /api/analytics/time-by-project", r.authed(http.HandlerFunc(h.HandleTimeByProject), httpx.LenientLimit))
	r.Mux.Handle("GET /api/analytics/time-by-project-total", r.authed(http.HandlerFunc(h.HandleTimeByProjectTotal), httpx.LenientLimit))
	r.Mux.Handle("GET /api/analytics/time-by-user", r.authed(http.HandlerFunc(h.HandleTimeByUser), httpx.LenientLimit))
	r.Mux.Handle("GET /api/analytics/time-by-user-total", r.authed(http.HandlerFunc(h.HandleTimeByUserTotal), httpx.LenientLimit))
	r.Mux.Handle("GET /api/analytics/time-by-client-type", r.authed(http.HandlerFunc(h.HandleTimeByClientType), httpx.LenientLimit))

	// Client type is already the coarsest grouping; the -total alias serves
	// the same rows so the dashboard can treat all six endpoints uniformly.
	r.Mux.Handle("GET /api/analytics/time-by-client-type-total", r.authed(http.HandlerFunc(h.HandleTimeByClientType), httpx.LenientLimit))
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InvitationService: r.InvitationService}

	r.Mux.Handle("POST /api/invitations", r.adminOnly(http.HandlerFunc(h.HandleSend), httpx.ModerateLimit))
	r.Mux.Handle("GET /api/invitations", r.adminOnly(http.HandlerFunc(h.HandleList), httpx.LenientLimit))

	// Acceptance is public: the invitee has no token yet.
	r.Mux.Handle("GET /api/invitations/accept/{token}",
		httpx.Chain(http.HandlerFunc(h.HandlePreview),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/invitations/accept/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleAccept),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
