package api

import (
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"sukebei/handlers"
)

const requestIDHeader = "X-Request-ID"

// localhostOnlyMiddleware restricts access to localhost requests only
func localhostOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		// Allow localhost, 127.0.0.1, ::1
		if host != "localhost" && host != "127.0.0.1" && host != "::1" {
			http.Error(w, "Debug endpoints only accessible from localhost", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware handles CORS for API routes
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags every request with an ID, reusing the caller's when
// present, and logs the request once it completes.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[api] %s %s %s (%s)", id, r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

// handleOptions handles OPTIONS requests for CORS preflight
func handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// NewRouter returns a router with the API mounted.
func NewRouter(settingsHandler *handlers.SettingsHandler, sourceHandler *handlers.SourceHandler) *mux.Router {
	r := mux.NewRouter()
	Register(r, settingsHandler, sourceHandler)
	return r
}

// Register mounts API endpoints onto the provided router.
func Register(
	r *mux.Router,
	settingsHandler *handlers.SettingsHandler,
	sourceHandler *handlers.SourceHandler,
) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(requestIDMiddleware)
	api.Use(corsMiddleware)

	api.HandleFunc("/settings", settingsHandler.GetSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", settingsHandler.PutSettings).Methods(http.MethodPut)
	api.HandleFunc("/settings", handleOptions).Methods(http.MethodOptions)

	api.HandleFunc("/sources", sourceHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/sources", handleOptions).Methods(http.MethodOptions)

	sources := api.PathPrefix("/sources/{name}").Subrouter()
	sources.HandleFunc("/test", sourceHandler.Test).Methods(http.MethodGet)
	sources.HandleFunc("/single", sourceHandler.Single).Methods(http.MethodGet)
	sources.HandleFunc("/batch", sourceHandler.Batch).Methods(http.MethodGet)
	sources.HandleFunc("/movie", sourceHandler.Movie).Methods(http.MethodGet)
	sources.HandleFunc("/all", sourceHandler.All).Methods(http.MethodGet)
	sources.PathPrefix("/").HandlerFunc(sourceHandler.Options).Methods(http.MethodOptions)

	pprofRouter := api.PathPrefix("/debug/pprof").Subrouter()
	pprofRouter.Use(localhostOnlyMiddleware)
	pprofRouter.HandleFunc("/", pprof.Index)
	pprofRouter.HandleFunc("/cmdline", pprof.Cmdline)
	pprofRouter.HandleFunc("/profile", pprof.Profile)
	pprofRouter.HandleFunc("/symbol", pprof.Symbol)
	pprofRouter.HandleFunc("/trace", pprof.Trace)
	pprofRouter.HandleFunc("/goroutine", pprof.Handler("goroutine").ServeHTTP)
	pprofRouter.HandleFunc("/heap", pprof.Handler("heap").ServeHTTP)
}
