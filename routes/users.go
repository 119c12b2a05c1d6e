package routes

import (
	"net/http"
	"time"

	"olympus/controllers/auth"
	"olympus/controllers/users"
	"olympus/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers every member-facing route on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// Auth endpoints share one per-IP limiter; member actions share a
	// per-actor limiter keyed on (member id, client IP).
	authLimiter := middleware.RateLimitByIP(newLimiter(60, 5*time.Minute))
	actorLimiter := middleware.RateLimitByActor(newLimiter(10, time.Minute))

	api.Handle("/register", authLimiter(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/login", authLimiter(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/refresh", authLimiter(http.HandlerFunc(auth.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/logout", middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutHandler))).Methods(http.MethodPost)

	api.Handle("/member", middleware.AuthMiddleware(http.HandlerFunc(users.GetMemberInfoHandler))).Methods(http.MethodGet)

	api.Handle("/packages", http.HandlerFunc(users.GetPackagesHandler)).Methods(http.MethodGet)
	api.Handle("/package", middleware.AuthMiddleware(actorLimiter(http.HandlerFunc(users.PurchasePackageHandler)))).Methods(http.MethodPost)

	api.Handle("/withdraw", middleware.AuthMiddleware(actorLimiter(http.HandlerFunc(users.WithdrawHandler)))).Methods(http.MethodPost)
	api.Handle("/withdraw", middleware.AuthMiddleware(http.HandlerFunc(users.GetWithdrawalsHandler))).Methods(http.MethodGet)

	api.Handle("/bounties", middleware.AuthMiddleware(http.HandlerFunc(users.GetBountiesHandler))).Methods(http.MethodGet)
	api.Handle("/transactions", middleware.AuthMiddleware(http.HandlerFunc(users.GetTransactionsHandler))).Methods(http.MethodGet)
	api.Handle("/notifications", middleware.AuthMiddleware(http.HandlerFunc(users.GetNotificationsHandler))).Methods(http.MethodGet)
}
