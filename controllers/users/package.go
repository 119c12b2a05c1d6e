package users

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"olympus/database"
	"olympus/ledger"
	"olympus/middleware"
	"olympus/models"
	"olympus/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchasePackageRequest struct {
	Amount       float64 `json:"amount"`
	PackageID    string  `json:"packageId" validate:"required,uuidfmt"`
	TeamMemberID string  `json:"teamMemberId" validate:"required,uuidfmt"`
}

// GET /api/packages
func GetPackagesHandler(w http.ResponseWriter, r *http.Request) {
	var packages []models.Package
	if err := database.DB.Where("disabled = ?", false).Order("percentage ASC").Find(&packages).Error; err != nil {
		log.Printf("[packages] DB error listing packages: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: packages})
}

// POST /api/package
//
// The whole settlement runs in one transaction: the buyer's earnings row is
// locked, the connection is created, the buckets are deducted and every paid
// referrer is credited. A failure at any step rolls everything back.
func PurchasePackageHandler(w http.ResponseWriter, r *http.Request) {
	var req PurchasePackageRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	memberID, ok := utils.GetMemberID(r)
	if !ok || memberID == "" {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if req.TeamMemberID != memberID {
		utils.WriteError(w, http.StatusForbidden, "You can only purchase packages for your own account")
		return
	}
	if req.Amount <= 0 {
		utils.WriteError(w, http.StatusBadRequest, "Amount must be greater than zero")
		return
	}

	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if len(idemKey) > 64 {
		utils.WriteError(w, http.StatusBadRequest, "Idempotency-Key must be at most 64 characters")
		return
	}

	db := database.DB

	var pkg models.Package
	if err := db.Where("id = ?", req.PackageID).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, http.StatusBadRequest, "Package not found")
			return
		}
		log.Printf("[package] DB error fetching package: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if pkg.Disabled {
		utils.WriteError(w, http.StatusBadRequest, "Package is not available")
		return
	}

	// The env flag takes precedence over the stored setting; legacy is the
	// default either way.
	legacyCredit := true
	if mode := os.Getenv("BOUNTY_CREDIT_MODE"); mode != "" {
		legacyCredit = mode != models.BountyCreditPerTier
	} else if sqlDB, err := db.DB(); err == nil {
		if setting, err := models.GetSetting(sqlDB); err == nil && setting.BountyCreditMode != "" {
			legacyCredit = setting.BountyCreditMode != models.BountyCreditPerTier
		}
	}

	var (
		replayed bool
		conn     models.PackageConnection
		plan     ledger.DeductionPlan
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		var member models.Member
		if err := tx.Where("id = ?", memberID).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ledger.Error{Kind: ledger.KindNotFound, Message: "member not found"}
			}
			return err
		}

		var earnings models.Earnings
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("member_id = ?", memberID).First(&earnings).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ledger.Error{Kind: ledger.KindNotFound, Message: "earnings record not found"}
			}
			return err
		}

		replayConnectionID := ""
		if idemKey != "" {
			var existing models.IdempotencyKey
			err := tx.Where("`key` = ?", idemKey).First(&existing).Error
			if err == nil {
				replayConnectionID = existing.ConnectionID
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		var chain []ledger.Referrer
		if replayConnectionID == "" {
			var err error
			chain, err = ledger.ResolveChain(member.Ancestry(), member.ID, ledger.MaxChainDepth)
			if err != nil {
				return err
			}
		}

		purchase, err := ledger.PlanPurchase(req.Amount, ledger.Buckets{
			Wallet:          earnings.OlympusWallet,
			PackageEarnings: earnings.OlympusEarnings,
			ReferralBounty:  earnings.ReferralBounty,
		}, earnings.CombinedEarnings, chain, pkg.Percentage, legacyCredit, replayConnectionID)
		if err != nil {
			return err
		}
		if purchase.Replay {
			replayed = true
			return tx.Where("id = ?", purchase.ReplayConnectionID).First(&conn).Error
		}

		plan = purchase.Deduction
		packageEarnings := purchase.PackageEarnings
		awards := purchase.Awards

		now := time.Now()
		conn = models.PackageConnection{
			ID:             uuid.NewString(),
			MemberID:       member.ID,
			PackageID:      pkg.ID,
			Amount:         ledger.RoundUnit(req.Amount),
			AmountEarnings: packageEarnings,
			Status:         "ACTIVE",
			MaturesAt:      now.AddDate(0, 0, pkg.Duration),
		}
		if err := tx.Create(&conn).Error; err != nil {
			return err
		}

		if idemKey != "" {
			if err := tx.Create(&models.IdempotencyKey{
				Key:          idemKey,
				MemberID:     member.ID,
				ConnectionID: conn.ID,
			}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Earnings{}).Where("member_id = ?", member.ID).Updates(map[string]interface{}{
			"olympus_wallet":    plan.Wallet,
			"olympus_earnings":  plan.PackageEarnings,
			"referral_bounty":   plan.ReferralBounty,
			"combined_earnings": plan.Combined,
		}).Error; err != nil {
			return err
		}

		purchaseMsg := fmt.Sprintf("Purchased package %s", pkg.Name)
		if err := tx.Create(&models.Transaction{
			ID:              uuid.NewString(),
			MemberID:        member.ID,
			Amount:          conn.Amount,
			Charge:          0,
			OrderID:         utils.GenerateOrderID(member.ID),
			TransactionFlow: "debit",
			TransactionType: "package",
			Message:         &purchaseMsg,
			Status:          "Success",
		}).Error; err != nil {
			return err
		}

		bountyLogs := make([]models.BountyLog, 0, len(awards))
		trxRows := make([]models.Transaction, 0, len(awards))
		notifs := make([]models.Notification, 0, len(awards)+1)

		for _, aw := range awards {
			if err := tx.Model(&models.Earnings{}).Where("member_id = ?", aw.MemberID).Updates(map[string]interface{}{
				"referral_bounty":   gorm.Expr("referral_bounty + ?", aw.Credit),
				"combined_earnings": gorm.Expr("combined_earnings + ?", aw.Credit),
			}).Error; err != nil {
				return err
			}

			bountyType := models.BountyTypeIndirect
			title := fmt.Sprintf("Network Income Level %d", aw.Tier)
			if aw.Tier == 1 {
				bountyType = models.BountyTypeDirect
				title = "Referral Income"
			}
			msg := fmt.Sprintf("%s from %s", title, member.Name)

			bountyLogs = append(bountyLogs, models.BountyLog{
				ID:             uuid.NewString(),
				ReferrerID:     aw.MemberID,
				Percentage:     aw.Percentage,
				BountyEarnings: aw.Amount,
				Type:           bountyType,
				ConnectionID:   conn.ID,
				FromMemberID:   member.ID,
			})
			trxRows = append(trxRows, models.Transaction{
				ID:              uuid.NewString(),
				MemberID:        aw.MemberID,
				Amount:          aw.Credit,
				Charge:          0,
				OrderID:         utils.GenerateOrderID(aw.MemberID),
				TransactionFlow: "credit",
				TransactionType: "bounty",
				Message:         &title,
				Status:          "Success",
			})
			notifs = append(notifs, models.Notification{
				ID:       uuid.NewString(),
				MemberID: aw.MemberID,
				Title:    title,
				Message:  msg,
			})
		}

		notifs = append(notifs, models.Notification{
			ID:       uuid.NewString(),
			MemberID: member.ID,
			Title:    "Package Activated",
			Message:  fmt.Sprintf("Your %s package is active and matures on %s", pkg.Name, conn.MaturesAt.Format("2006-01-02")),
		})

		if len(bountyLogs) > 0 {
			if err := tx.CreateInBatches(bountyLogs, 100).Error; err != nil {
				return err
			}
		}
		if len(trxRows) > 0 {
			if err := tx.CreateInBatches(trxRows, 100).Error; err != nil {
				return err
			}
		}
		if err := tx.CreateInBatches(notifs, 100).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		var lerr *ledger.Error
		if !errors.As(err, &lerr) {
			log.Printf("[package] settlement transaction failed for member %s: %v", memberID, err)
		}
		writeLedgerError(w, err)
		return
	}

	if replayed {
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "Purchase already processed",
			Data: map[string]interface{}{
				"connection_id": conn.ID,
				"status":        conn.Status,
				"matures_at":    conn.MaturesAt,
				"replayed":      true,
			},
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Package purchased successfully",
		Data: map[string]interface{}{
			"connection_id":   conn.ID,
			"status":          conn.Status,
			"amount":          conn.Amount,
			"amount_earnings": conn.AmountEarnings,
			"matures_at":      conn.MaturesAt,
			"balances": map[string]interface{}{
				"olympus_wallet":    plan.Wallet,
				"olympus_earnings":  plan.PackageEarnings,
				"referral_bounty":   plan.ReferralBounty,
				"combined_earnings": plan.Combined,
			},
		},
	})
}

// GET /api/bounties
func GetBountiesHandler(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberID(r)
	if !ok || memberID == "" {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, limit, offset := parsePagination(r)
	db := database.DB

	q := db.Model(&models.BountyLog{}).Where("referrer_id = ?", memberID)
	if t := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("type"))); t == models.BountyTypeDirect || t == models.BountyTypeIndirect {
		q = q.Where("type = ?", t)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[bounties] DB error counting logs: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	var logs []models.BountyLog
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		log.Printf("[bounties] DB error listing logs: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"bounties": logs,
			"page":     page,
			"limit":    limit,
			"total":    total,
		},
	})
}
