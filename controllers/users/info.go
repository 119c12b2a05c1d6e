package users

import (
	"errors"
	"log"
	"net/http"

	"olympus/database"
	"olympus/models"
	"olympus/utils"

	"gorm.io/gorm"
)

// GET /api/member
func GetMemberInfoHandler(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberID(r)
	if !ok || memberID == "" {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	db := database.DB

	var member models.Member
	if err := db.Where("id = ?", memberID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Member not found")
			return
		}
		log.Printf("[member] DB error fetching member: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	var earnings models.Earnings
	if err := db.Where("member_id = ?", memberID).First(&earnings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Earnings record not found")
			return
		}
		log.Printf("[member] DB error fetching earnings: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	var directCount int64
	if err := db.Model(&models.Member{}).Where("sponsor_id = ?", memberID).Count(&directCount).Error; err != nil {
		directCount = 0
	}

	var activeConnections []models.PackageConnection
	if err := db.Preload("Package").
		Where("member_id = ? AND status = ?", memberID, "ACTIVE").
		Order("matures_at ASC").Find(&activeConnections).Error; err != nil {
		log.Printf("[member] DB error fetching connections: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"member": map[string]interface{}{
				"id":        member.ID,
				"name":      member.Name,
				"number":    member.Number,
				"reff_code": member.ReffCode,
				"role":      member.Role,
			},
			"balances": map[string]interface{}{
				"olympus_wallet":    earnings.OlympusWallet,
				"olympus_earnings":  earnings.OlympusEarnings,
				"referral_bounty":   earnings.ReferralBounty,
				"combined_earnings": earnings.CombinedEarnings,
			},
			"direct_referrals":   directCount,
			"active_connections": activeConnections,
		},
	})
}

// GET /api/transactions
func GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberID(r)
	if !ok || memberID == "" {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, limit, offset := parsePagination(r)
	db := database.DB

	q := db.Model(&models.Transaction{}).Where("member_id = ?", memberID)
	if flow := r.URL.Query().Get("flow"); flow == "debit" || flow == "credit" {
		q = q.Where("transaction_flow = ?", flow)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[transactions] DB error counting: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	var transactions []models.Transaction
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&transactions).Error; err != nil {
		log.Printf("[transactions] DB error listing: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"transactions": transactions,
			"page":         page,
			"limit":        limit,
			"total":        total,
		},
	})
}

// GET /api/notifications
func GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberID(r)
	if !ok || memberID == "" {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, limit, offset := parsePagination(r)
	db := database.DB

	var total int64
	if err := db.Model(&models.Notification{}).Where("member_id = ?", memberID).Count(&total).Error; err != nil {
		log.Printf("[notifications] DB error counting: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	var notifications []models.Notification
	if err := db.Where("member_id = ?", memberID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error; err != nil {
		log.Printf("[notifications] DB error listing: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	// Listing marks the page as read.
	ids := make([]string, 0, len(notifications))
	for _, n := range notifications {
		if !n.Read {
			ids = append(ids, n.ID)
		}
	}
	if len(ids) > 0 {
		if err := db.Model(&models.Notification{}).Where("id IN ?", ids).Update("read", true).Error; err != nil {
			log.Printf("[notifications] DB error marking read: %v", err)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"notifications": notifications,
			"page":          page,
			"limit":         limit,
			"total":         total,
		},
	})
}
