package auth

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"olympus/database"
	"olympus/middleware"
	"olympus/models"
	"olympus/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Number   string `json:"number" validate:"required,digits"`
	Password string `json:"password" validate:"required"`
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	req.Number = strings.TrimSpace(req.Number)

	if locked, remaining := middleware.IsAccountLocked(req.Number); locked {
		utils.WriteError(w, http.StatusTooManyRequests,
			fmt.Sprintf("Too many failed attempts, try again in %d minutes", int(remaining.Minutes())+1))
		return
	}

	var member models.Member
	err := database.DB.Where("number = ?", req.Number).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.RecordFailedLogin(req.Number)
			utils.WriteError(w, http.StatusUnauthorized, "Invalid phone number or password")
			return
		}
		log.Printf("[login] DB error fetching member: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(req.Password)); err != nil {
		middleware.RecordFailedLogin(req.Number)
		utils.WriteError(w, http.StatusUnauthorized, "Invalid phone number or password")
		return
	}

	if !member.Active {
		utils.WriteError(w, http.StatusForbidden, "Your account has been deactivated, please contact support")
		return
	}
	if member.Restricted {
		utils.WriteError(w, http.StatusForbidden, "Your account is restricted, please contact support")
		return
	}

	middleware.ResetFailedLogin(req.Number)

	accessToken, err := utils.GenerateAccessToken(member.ID, member.Role)
	if err != nil {
		log.Printf("[login] token generation error: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(member.ID)
	if err != nil {
		log.Printf("[login] refresh token error: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"member": map[string]interface{}{
				"id":        member.ID,
				"name":      member.Name,
				"role":      member.Role,
				"reff_code": member.ReffCode,
			},
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		},
	})
}
