package routes

import (
	"net/http"

	"github.com/zatekoja/holistic-provider-directory/internal/api/handlers"
	"github.com/zatekoja/holistic-provider-directory/internal/api/middleware"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	providerHandler    *handlers.ProviderHandler
	applicationHandler *handlers.ApplicationHandler

	allowedOrigins []string
}

// NewRouter creates a new router. A nil application handler leaves the
// application endpoints unregistered.
func NewRouter(
	providerHandler *handlers.ProviderHandler,
	applicationHandler *handlers.ApplicationHandler,
	allowedOrigins []string,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		providerHandler:    providerHandler,
		applicationHandler: applicationHandler,
		allowedOrigins:     allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Provider directory
	r.mux.HandleFunc("GET /api/providers", r.providerHandler.ListProviders)
	r.mux.HandleFunc("GET /api/providers/featured", r.providerHandler.FeaturedProviders)
	r.mux.HandleFunc("GET /api/providers/suggest", r.providerHandler.SuggestProviders)
	r.mux.HandleFunc("GET /api/providers/{id}", r.providerHandler.GetProvider)
	r.mux.HandleFunc("POST /api/providers", r.providerHandler.CreateProvider)
	r.mux.HandleFunc("POST /api/providers/match", r.providerHandler.MatchProviders)
	r.mux.HandleFunc("PUT /api/providers/{id}", r.providerHandler.UpdateProvider)
	r.mux.HandleFunc("DELETE /api/providers/{id}", r.providerHandler.DeleteProvider)

	if r.applicationHandler != nil {
		r.mux.HandleFunc("POST /api/applications/patient", r.applicationHandler.SubmitPatientApplication)
		r.mux.HandleFunc("POST /api/applications/practitioner", r.applicationHandler.SubmitPractitionerApplication)
		r.mux.HandleFunc("GET /api/applications/{id}", r.applicationHandler.GetApplication)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS is outermost so every response carries its headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
