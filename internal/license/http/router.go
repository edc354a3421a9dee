package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/opsgate/keygate/internal/license/service"
	"github.com/opsgate/keygate/internal/license/store"
	"github.com/opsgate/keygate/pkg/httpx"
	"github.com/opsgate/keygate/pkg/slogx"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	startTime time.Time
	logger    *slog.Logger

	store          store.Store
	AccountService *service.AccountService
	AdminService   *service.AdminService
}

func NewRouter(st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:       http.NewServeMux(),
		startTime: time.Now(),
		store:     st,
		logger:    logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	registerHandler := &RegisterHandler{AccountService: r.AccountService}
	loginHandler := &LoginHandler{AccountService: r.AccountService}

	r.Mux.Handle("POST /v1/register", registerHandler)
	r.Mux.Handle("POST /v1/login", loginHandler)
}

func (r *Router) registerAdmin() {
	approvalHandler := &ApprovalHandler{AdminService: r.AdminService}
	accountsHandler := &AccountListHandler{AdminService: r.AdminService}

	r.Mux.Handle("POST /v1/admin/approval", approvalHandler)
	r.Mux.Handle("GET /v1/admin/accounts", accountsHandler)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /healthz", HealthzHandler())
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store))
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
