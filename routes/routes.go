package routes

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"olympus/controllers/users"
	"olympus/middleware"
	"olympus/utils"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "olympus-api",
	})
}

// newLimiter picks the Redis-backed limiter when Redis is configured so the
// caps hold across instances, and falls back to the in-process window.
func newLimiter(maxReq int, window time.Duration) middleware.RateLimiter {
	if utils.RedisClient != nil {
		return middleware.NewRedisRateLimiter(utils.RedisClient, maxReq, window)
	}
	return middleware.NewMemoryRateLimiter(maxReq, window)
}

func InitRouter() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/health", http.HandlerFunc(healthHandler)).Methods(http.MethodGet)

	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	origins := []string{
		"http://localhost:3000", "http://localhost:8080",
		"http://127.0.0.1:3000", "http://127.0.0.1:8080",
	}
	if originsEnv != "" {
		for _, p := range strings.Split(originsEnv, ",") {
			if o := strings.TrimSpace(p); o != "" {
				origins = append(origins, o)
			}
		}
	}
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Idempotency-Key", "X-CRON-KEY", "X-Requested-With", "X-Request-ID"}),
			handlers.AllowCredentials(),
		)(next)
	})

	api := r.PathPrefix("/api").Subrouter()

	api.PathPrefix("/").HandlerFunc(optionsHandler).Methods(http.MethodOptions)

	// Every /api route sits behind the global per-IP guard.
	globalLimiter := newLimiter(50, time.Minute)
	api.Use(middleware.RateLimitByIP(globalLimiter))

	cronLimiter := newLimiter(1000, time.Hour)
	api.Handle("/cron/maturities", middleware.RateLimitByIP(cronLimiter)(http.HandlerFunc(users.CronMaturitiesHandler))).Methods(http.MethodPost)

	api.Handle("/health", http.HandlerFunc(healthHandler)).Methods(http.MethodGet)

	api.Handle("/ping", middleware.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "pong",
		})
	}))).Methods(http.MethodGet)

	UsersRoutes(api)
	AdminRoutes(api)

	return r
}
