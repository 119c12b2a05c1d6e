package auth

import (
	"log"
	"net/http"
	"strings"
	"time"

	"olympus/database"
	"olympus/middleware"
	"olympus/utils"
)

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshHandler rotates the refresh token: the presented jti is revoked and a
// new pair is issued. A stolen token can therefore be used at most once.
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	rt, err := utils.ValidateRefreshToken(strings.TrimSpace(req.RefreshToken))
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	if err := database.DB.Model(rt).Update("revoked", true).Error; err != nil {
		log.Printf("[refresh] revoke error: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	role := "member"
	var roleRow struct{ Role string }
	if err := database.DB.Table("members").Select("role").Where("id = ?", rt.MemberID).Take(&roleRow).Error; err == nil && roleRow.Role != "" {
		role = roleRow.Role
	}

	accessToken, err := utils.GenerateAccessToken(rt.MemberID, role)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}
	newRefresh, err := utils.GenerateRefreshToken(rt.MemberID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Token refreshed",
		Data: map[string]interface{}{
			"access_token":  accessToken,
			"refresh_token": newRefresh,
		},
	})
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutHandler revokes the caller's access token jti and, when supplied, the
// refresh token as well.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if _, claims, err := utils.ValidateAccessToken(tokenStr); err == nil {
			if jti, ok := claims["jti"].(string); ok && jti != "" {
				ttl := 15 * time.Minute
				if expRaw, ok := claims["exp"].(float64); ok {
					if until := time.Until(time.Unix(int64(expRaw), 0)); until > 0 {
						ttl = until
					}
				}
				if err := utils.RevokeJTI(jti, ttl); err != nil {
					log.Printf("[logout] revoke access jti error: %v", err)
				}
			}
		}
	}

	if req.RefreshToken != "" {
		if rt, err := utils.ValidateRefreshToken(req.RefreshToken); err == nil {
			if err := database.DB.Model(rt).Update("revoked", true).Error; err != nil {
				log.Printf("[logout] revoke refresh token error: %v", err)
			}
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Logged out",
	})
}
