package rest

import "net/http"

// Handlers bundles the REST handlers mounted by NewRouter.
type Handlers struct {
	Lookup  *LookupHandler
	Suggest *SuggestHandler
	Health  *HealthHandler
}

// NewRouter mounts the REST routes on a fresh mux. Middleware is
// applied by the caller so the server owns limiter lifecycles.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/lookup", h.Lookup.Lookup)
	mux.HandleFunc("GET /api/v1/suggest", h.Suggest.Suggest)
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /live", h.Health.Live)
	return mux
}
