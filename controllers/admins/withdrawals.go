package admins

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"olympus/database"
	"olympus/ledger"
	"olympus/middleware"
	"olympus/models"
	"olympus/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WithdrawalReviewRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

type AdminWithdrawalRow struct {
	ID            string  `json:"id"`
	MemberID      string  `json:"member_id"`
	MemberName    string  `json:"member_name"`
	Number        string  `json:"number"`
	Bank          string  `json:"bank"`
	AccountName   string  `json:"account_name"`
	AccountNumber string  `json:"account_number"`
	Amount        float64 `json:"amount"`
	Charge        float64 `json:"charge"`
	FinalAmount   float64 `json:"final_amount"`
	OrderID       string  `json:"order_id"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

// GET /api/admin/withdrawals
func GetWithdrawalsHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.DB
	query := db.Model(&models.Withdrawal{}).
		Joins("JOIN members ON withdrawals.member_id = members.id")

	if status := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))); status != "" {
		query = query.Where("withdrawals.status = ?", status)
	}
	if memberID := r.URL.Query().Get("member_id"); memberID != "" {
		query = query.Where("withdrawals.member_id = ?", memberID)
	}
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("withdrawals.order_id LIKE ? OR members.name LIKE ? OR members.number LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("[admin-withdrawals] DB error counting: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	type withdrawalWithMember struct {
		models.Withdrawal
		MemberName string
		Number     string
	}
	var withdrawals []withdrawalWithMember
	if err := query.
		Select("withdrawals.*, members.name as member_name, members.number as number").
		Order("withdrawals.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&withdrawals).Error; err != nil {
		log.Printf("[admin-withdrawals] DB error listing: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	rows := make([]AdminWithdrawalRow, 0, len(withdrawals))
	for _, wd := range withdrawals {
		rows = append(rows, AdminWithdrawalRow{
			ID:            wd.ID,
			MemberID:      wd.MemberID,
			MemberName:    wd.MemberName,
			Number:        wd.Number,
			Bank:          wd.Bank,
			AccountName:   wd.AccountName,
			AccountNumber: wd.AccountNumber,
			Amount:        wd.Amount,
			Charge:        wd.Charge,
			FinalAmount:   wd.FinalAmount,
			OrderID:       wd.OrderID,
			Status:        wd.Status,
			CreatedAt:     wd.CreatedAt.Format(time.RFC3339),
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

// PUT /api/admin/withdrawals/{id}
//
// Approval marks the pending payout transaction Success. Rejection refunds
// exactly the buckets the request was drawn from, in the same transaction
// that flips the status, so a concurrent review cannot double-refund.
func ReviewWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	var req WithdrawalReviewRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != models.WithdrawalStatusApproved && status != models.WithdrawalStatusRejected {
		utils.WriteError(w, http.StatusBadRequest, "Status must be APPROVED or REJECTED")
		return
	}

	id := mux.Vars(r)["id"]
	db := database.DB

	txErr := db.Transaction(func(tx *gorm.DB) error {
		var wd models.Withdrawal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&wd).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ledger.Error{Kind: ledger.KindNotFound, Message: "withdrawal not found"}
			}
			return err
		}
		if wd.Status != models.WithdrawalStatusPending {
			return &ledger.Error{Kind: ledger.KindBusinessRule, Message: "withdrawal has already been reviewed"}
		}

		if err := tx.Model(&wd).Update("status", status).Error; err != nil {
			return err
		}

		if status == models.WithdrawalStatusApproved {
			if err := tx.Model(&models.Transaction{}).
				Where("order_id = ?", wd.OrderID).
				Update("status", "Success").Error; err != nil {
				return err
			}
			return tx.Create(&models.Notification{
				ID:       uuid.NewString(),
				MemberID: wd.MemberID,
				Title:    "Withdrawal Approved",
				Message:  fmt.Sprintf("Your withdrawal of %.2f was approved and %.2f is on its way", wd.Amount, wd.FinalAmount),
			}).Error
		}

		// Rejection path: put the money back where it came from.
		var earnings models.Earnings
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("member_id = ?", wd.MemberID).First(&earnings).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Earnings{}).Where("member_id = ?", wd.MemberID).Updates(map[string]interface{}{
			"olympus_earnings":  gorm.Expr("olympus_earnings + ?", wd.FromEarnings),
			"referral_bounty":   gorm.Expr("referral_bounty + ?", wd.FromBounty),
			"combined_earnings": gorm.Expr("combined_earnings + ?", wd.Amount),
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Transaction{}).
			Where("order_id = ?", wd.OrderID).
			Update("status", "Failed").Error; err != nil {
			return err
		}

		note := strings.TrimSpace(req.Note)
		msg := fmt.Sprintf("Your withdrawal of %.2f was rejected and refunded", wd.Amount)
		if note != "" {
			msg = fmt.Sprintf("%s: %s", msg, note)
		}
		return tx.Create(&models.Notification{
			ID:       uuid.NewString(),
			MemberID: wd.MemberID,
			Title:    "Withdrawal Rejected",
			Message:  msg,
		}).Error
	})
	if txErr != nil {
		var lerr *ledger.Error
		if errors.As(txErr, &lerr) {
			code := http.StatusBadRequest
			if lerr.Kind == ledger.KindNotFound {
				code = http.StatusNotFound
			}
			utils.WriteError(w, code, lerr.Message)
			return
		}
		log.Printf("[admin-withdrawals] review failed for %s: %v", id, txErr)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Withdrawal " + strings.ToLower(status),
	})
}
