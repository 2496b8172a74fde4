package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"spacetraveling/app/controllers"
	"spacetraveling/app/middleware"
	"spacetraveling/app/views"

	"github.com/gorilla/mux"
)

// Options configure the API middleware.
type Options struct {
	AllowedOrigins []string
	// Limiter throttles API calls per client. Nil disables rate limiting.
	Limiter *middleware.RateLimiter
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(pageController *controllers.PageController, opts Options) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
			return
		}
		http.NotFound(w, r)
	})

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	api.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.Limiter != nil {
		api.Use(opts.Limiter.Middleware)
	}
	api.HandleFunc("/posts/more", pageController.More).Methods("GET", "OPTIONS")

	// Serve static files
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(views.Static()))))

	// Web routes
	router.HandleFunc("/", pageController.Index).Methods("GET", "HEAD")
	router.HandleFunc("/post/{slug}", pageController.Show).Methods("GET", "HEAD")
	router.HandleFunc("/healthz", pageController.Healthz).Methods("GET")

	return router
}
