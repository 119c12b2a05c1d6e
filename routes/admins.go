package routes

import (
	"net/http"

	"olympus/controllers/admins"
	"olympus/middleware"

	"github.com/gorilla/mux"
)

// AdminRoutes registers the admin review endpoints.
func AdminRoutes(api *mux.Router) {
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuthMiddleware)

	admin.Handle("/withdrawals", http.HandlerFunc(admins.GetWithdrawalsHandler)).Methods(http.MethodGet)
	admin.Handle("/withdrawals/{id}", http.HandlerFunc(admins.ReviewWithdrawalHandler)).Methods(http.MethodPut)
}
