package middleware

import (
	"context"
	"net/http"
	"strings"

	"olympus/database"
	"olympus/models"
	"olympus/utils"
)

// AdminAuthMiddleware verifies that the request is from an authenticated,
// active admin member.
func AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		_, claims, err := utils.ValidateAccessToken(tokenString)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != "admin" {
			utils.WriteError(w, http.StatusForbidden, "Forbidden: Admin access required")
			return
		}

		adminID, _ := claims["id"].(string)
		var admin models.Member
		if err := database.DB.Where("id = ? AND role = 'admin'", adminID).First(&admin).Error; err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Admin not found")
			return
		}
		if !admin.Active || admin.Restricted {
			utils.WriteError(w, http.StatusForbidden, "Forbidden")
			return
		}

		ctx := context.WithValue(r.Context(), utils.MemberIDKey, admin.ID)
		ctx = context.WithValue(ctx, utils.MemberRoleKey, "admin")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
