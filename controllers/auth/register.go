package auth

import (
	"crypto/rand"
	"errors"
	"log"
	"net/http"
	"strings"

	"olympus/database"
	"olympus/middleware"
	"olympus/models"
	"olympus/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,nameok"`
	Number               string `json:"number" validate:"required,digits"`
	Password             string `json:"password" validate:"required,pwdmin"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
	ReferralCode         string `json:"referral_code"`
}

// RegisterHandler creates the member, its zeroed earnings row and its
// hierarchy path in one transaction. The path is the sponsor's path with the
// new id appended; a member without a sponsor is a hierarchy root and its
// path is just its own id.
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	var appSetting models.Setting
	if err := database.DB.Model(&models.Setting{}).Select("closed_register, name").Take(&appSetting).Error; err == nil && appSetting.ClosedRegister {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
			Success: false,
			Message: "Registration is currently closed",
			Data:    map[string]interface{}{"closed_register": true, "application": appSetting.Name},
		})
		return
	}
	if err := database.DB.Model(&models.Setting{}).Select("maintenance, name").Take(&appSetting).Error; err == nil && appSetting.Maintenance {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "The application is under maintenance, please try again later",
			Data:    map[string]interface{}{"maintenance": true, "application": appSetting.Name},
		})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Number = strings.TrimSpace(req.Number)
	req.ReferralCode = strings.TrimSpace(req.ReferralCode)

	if req.Password != req.PasswordConfirmation {
		utils.WriteError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	db := database.DB

	var existing models.Member
	if err := db.Where("number = ?", req.Number).First(&existing).Error; err == nil {
		utils.WriteError(w, http.StatusConflict, "Phone number is already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[register] DB error checking number: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	var sponsor *models.Member
	if req.ReferralCode != "" {
		var refOwner models.Member
		if err := db.Where("reff_code = ?", req.ReferralCode).First(&refOwner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.WriteError(w, http.StatusBadRequest, "Invalid referral code")
				return
			}
			log.Printf("[register] DB error fetching referral %s: %v", req.ReferralCode, err)
			utils.WriteError(w, http.StatusInternalServerError, "Server error")
			return
		}
		sponsor = &refOwner
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	code, err := generateUniqueReffCode(db, 8)
	if err != nil {
		log.Printf("[register] generateUniqueReffCode error: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	newID := uuid.NewString()
	newMember := models.Member{
		ID:       newID,
		Name:     req.Name,
		Number:   req.Number,
		Password: string(hashed),
		ReffCode: code,
		Role:     "member",
		Active:   true,
	}
	if sponsor != nil {
		newMember.SponsorID = &sponsor.ID
		newMember.HierarchyPath = sponsor.ChildPath(newID)
	} else {
		newMember.HierarchyPath = newID
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newMember).Error; err != nil {
			return err
		}
		return tx.Create(&models.Earnings{MemberID: newID}).Error
	}); err != nil {
		log.Printf("[register] DB create member error: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	accessToken, err := utils.GenerateAccessToken(newMember.ID, "member")
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Registration succeeded, sign-in failed")
		return
	}
	refreshJTI, err := utils.GenerateRefreshToken(newMember.ID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Registration succeeded, sign-in failed")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Registration successful",
		Data: map[string]interface{}{
			"member": map[string]interface{}{
				"id":        newMember.ID,
				"name":      newMember.Name,
				"reff_code": newMember.ReffCode,
			},
			"access_token":  accessToken,
			"refresh_token": refreshJTI,
		},
	})
}

func generateUniqueReffCode(db *gorm.DB, n int) (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	for attempt := 0; attempt < 10; attempt++ {
		b := make([]byte, n)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		for i := range b {
			b[i] = alphabet[int(b[i])%len(alphabet)]
		}
		code := string(b)
		var count int64
		if err := db.Model(&models.Member{}).Where("reff_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique referral code")
}
