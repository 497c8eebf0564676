package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentfolio/rentfolio/internal/commissions"
	"github.com/rentfolio/rentfolio/internal/integrations"
	"github.com/rentfolio/rentfolio/internal/reconcile"
	"github.com/rentfolio/rentfolio/internal/statements"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	IntegrationsHandler *integrations.Handler
	ReconcileHandler    *reconcile.Handler
	StatementsHandler   *statements.Handler
	CommissionsHandler  *commissions.Handler
}

// NewRouter constructs the chi.Router with Rentfolio defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		params.IntegrationsHandler.Mount(api)
		params.ReconcileHandler.Mount(api)
		params.StatementsHandler.Mount(api)
		params.CommissionsHandler.Mount(api)
	})

	return r
}
