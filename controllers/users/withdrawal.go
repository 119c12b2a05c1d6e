package users

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"olympus/database"
	"olympus/ledger"
	"olympus/middleware"
	"olympus/models"
	"olympus/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WithdrawRequest struct {
	Earnings        string `json:"earnings" validate:"required"`
	Amount          string `json:"amount" validate:"required"`
	Bank            string `json:"bank" validate:"required"`
	AccountName     string `json:"accountName" validate:"required"`
	AccountNumber   string `json:"accountNumber" validate:"required"`
	TeamMemberID    string `json:"teamMemberId" validate:"required,uuidfmt"`
	Email           string `json:"email"`
	CellphoneNumber string `json:"cellphoneNumber"`
}

// POST /api/withdraw
func WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	var req WithdrawRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	memberID, ok := utils.GetMemberID(r)
	if !ok || memberID == "" {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if req.TeamMemberID != memberID {
		utils.WriteError(w, http.StatusForbidden, "You can only withdraw from your own account")
		return
	}

	bucket := ledger.BucketKind(strings.ToUpper(strings.TrimSpace(req.Earnings)))
	switch bucket {
	case ledger.BucketPackage, ledger.BucketReferral, ledger.BucketTotal:
	default:
		utils.WriteError(w, http.StatusBadRequest, "Invalid earnings bucket")
		return
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(req.Amount), 64)
	if err != nil || amount <= 0 {
		utils.WriteError(w, http.StatusBadRequest, "Amount must be a positive number")
		return
	}
	amount = ledger.RoundUnit(amount)

	db := database.DB

	minWithdraw := float64(ledger.MinWithdrawalAmount)
	if sqlDB, err := db.DB(); err == nil {
		if setting, err := models.GetSetting(sqlDB); err == nil && setting.MinWithdraw > 0 {
			minWithdraw = setting.MinWithdraw
		}
	}
	if amount < minWithdraw {
		utils.WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("Minimum withdrawal amount is %.0f", minWithdraw))
		return
	}

	var member models.Member
	if err := db.Where("id = ?", memberID).First(&member).Error; err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if !member.Active || member.Restricted {
		utils.WriteError(w, http.StatusForbidden, "Your account is not allowed to withdraw")
		return
	}

	// One withdrawal per calendar day. Disabled until product signs off on the
	// cutoff timezone.
	// var todayCount int64
	// db.Model(&models.Withdrawal{}).
	// 	Where("member_id = ? AND created_at >= CURDATE()", memberID).
	// 	Count(&todayCount)
	// if todayCount > 0 {
	// 	utils.WriteError(w, http.StatusBadRequest, "You have already requested a withdrawal today")
	// 	return
	// }

	charge, finalAmount := ledger.WithdrawalNet(amount, bucket)

	var wd models.Withdrawal

	txErr := db.Transaction(func(tx *gorm.DB) error {
		var earnings models.Earnings
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("member_id = ?", memberID).First(&earnings).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ledger.Error{Kind: ledger.KindNotFound, Message: "earnings record not found"}
			}
			return err
		}

		if amount > earnings.CombinedEarnings {
			return ledger.ErrInsufficientCombinedBalance
		}

		plan, err := ledger.DeductWithdrawal(amount, earnings.OlympusEarnings, earnings.ReferralBounty)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Earnings{}).Where("member_id = ?", memberID).Updates(map[string]interface{}{
			"olympus_earnings":  plan.Earnings,
			"referral_bounty":   plan.Bounty,
			"combined_earnings": ledger.RoundUnit(earnings.CombinedEarnings - amount),
		}).Error; err != nil {
			return err
		}

		orderID := utils.GenerateOrderID(memberID)
		wd = models.Withdrawal{
			ID:            uuid.NewString(),
			MemberID:      memberID,
			Amount:        amount,
			Charge:        charge,
			FinalAmount:   finalAmount,
			FromEarnings:  plan.FromEarnings,
			FromBounty:    plan.FromBounty,
			Bank:          strings.TrimSpace(req.Bank),
			AccountName:   strings.TrimSpace(req.AccountName),
			AccountNumber: strings.TrimSpace(req.AccountNumber),
			OrderID:       orderID,
			Status:        models.WithdrawalStatusPending,
		}
		if v := strings.TrimSpace(req.Email); v != "" {
			wd.Email = &v
		}
		if v := strings.TrimSpace(req.CellphoneNumber); v != "" {
			wd.Cellphone = &v
		}
		if err := tx.Create(&wd).Error; err != nil {
			return err
		}

		msg := fmt.Sprintf("Withdrawal request to %s %s", wd.Bank, wd.AccountNumber)
		if err := tx.Create(&models.Transaction{
			ID:              uuid.NewString(),
			MemberID:        memberID,
			Amount:          amount,
			Charge:          charge,
			OrderID:         orderID,
			TransactionFlow: "debit",
			TransactionType: "withdrawal",
			Message:         &msg,
			Status:          "Pending",
		}).Error; err != nil {
			return err
		}

		return tx.Create(&models.Notification{
			ID:       uuid.NewString(),
			MemberID: memberID,
			Title:    "Withdrawal Requested",
			Message:  fmt.Sprintf("Your withdrawal of %.2f (fee %.2f) is pending review", amount, charge),
		}).Error
	})
	if txErr != nil {
		var lerr *ledger.Error
		if !errors.As(txErr, &lerr) {
			log.Printf("[withdraw] transaction failed for member %s: %v", memberID, txErr)
		}
		writeLedgerError(w, txErr)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Withdrawal request submitted",
		Data: map[string]interface{}{
			"id":           wd.ID,
			"order_id":     wd.OrderID,
			"amount":       wd.Amount,
			"charge":       wd.Charge,
			"final_amount": wd.FinalAmount,
			"status":       wd.Status,
		},
	})
}

type WithdrawalRow struct {
	ID          string  `json:"id"`
	OrderID     string  `json:"order_id"`
	Amount      float64 `json:"amount"`
	Charge      float64 `json:"charge"`
	FinalAmount float64 `json:"final_amount"`
	Bank        string  `json:"bank"`
	AccountName string  `json:"account_name"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

// GET /api/withdraw
func GetWithdrawalsHandler(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberID(r)
	if !ok || memberID == "" {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, limit, offset := parsePagination(r)
	db := database.DB

	q := db.Model(&models.Withdrawal{}).Where("member_id = ?", memberID)
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("order_id LIKE ? OR bank LIKE ? OR status LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[withdraw] DB error counting history: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	var withdrawals []models.Withdrawal
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&withdrawals).Error; err != nil {
		log.Printf("[withdraw] DB error listing history: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	rows := make([]WithdrawalRow, 0, len(withdrawals))
	for _, wd := range withdrawals {
		rows = append(rows, WithdrawalRow{
			ID:          wd.ID,
			OrderID:     wd.OrderID,
			Amount:      wd.Amount,
			Charge:      wd.Charge,
			FinalAmount: wd.FinalAmount,
			Bank:        wd.Bank,
			AccountName: wd.AccountName,
			Status:      wd.Status,
			CreatedAt:   wd.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"withdrawals": rows,
			"page":        page,
			"limit":       limit,
			"total":       total,
		},
	})
}
