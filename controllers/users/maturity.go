package users

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"olympus/database"
	"olympus/ledger"
	"olympus/models"
	"olympus/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// POST /api/cron/maturities
//
// Closes every matured ACTIVE connection and pays principal plus earnings
// into the owner's package-income bucket. Each connection settles in its own
// transaction so one bad row cannot block the rest of the batch.
func CronMaturitiesHandler(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("X-CRON-KEY")
	if key == "" || key != os.Getenv("CRON_KEY") {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	db := database.DB
	now := time.Now()

	var due []models.PackageConnection
	if err := db.Preload("Package").
		Where("status = ? AND matures_at <= ?", "ACTIVE", now).Find(&due).Error; err != nil {
		log.Printf("[cron] DB error listing matured connections: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	processed := 0
	for i := range due {
		conn := due[i]
		err := db.Transaction(func(tx *gorm.DB) error {
			var earnings models.Earnings
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("member_id = ?", conn.MemberID).First(&earnings).Error; err != nil {
				return err
			}

			payout := ledger.RoundUnit(conn.Amount + conn.AmountEarnings)
			if err := tx.Model(&models.Earnings{}).Where("member_id = ?", conn.MemberID).Updates(map[string]interface{}{
				"olympus_earnings":  ledger.RoundUnit(earnings.OlympusEarnings + payout),
				"combined_earnings": ledger.RoundUnit(earnings.CombinedEarnings + payout),
			}).Error; err != nil {
				return err
			}

			claimedAt := time.Now()
			res := tx.Model(&models.PackageConnection{}).
				Where("id = ? AND status = ?", conn.ID, "ACTIVE").
				Updates(map[string]interface{}{"status": "CLOSED", "claimed_at": claimedAt})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Already closed by a concurrent run.
				return gorm.ErrRecordNotFound
			}

			pkgName := "package"
			if conn.Package != nil {
				pkgName = conn.Package.Name
			}
			msg := fmt.Sprintf("Maturity payout for %s", pkgName)
			if err := tx.Create(&models.Transaction{
				ID:              uuid.NewString(),
				MemberID:        conn.MemberID,
				Amount:          payout,
				Charge:          0,
				OrderID:         utils.GenerateOrderID(conn.MemberID),
				TransactionFlow: "credit",
				TransactionType: "maturity",
				Message:         &msg,
				Status:          "Success",
			}).Error; err != nil {
				return err
			}

			return tx.Create(&models.Notification{
				ID:       uuid.NewString(),
				MemberID: conn.MemberID,
				Title:    "Package Matured",
				Message:  fmt.Sprintf("Your %s package matured and %.2f was credited to your earnings", pkgName, payout),
			}).Error
		})
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				log.Printf("[cron] maturity settlement failed for connection %s: %v", conn.ID, err)
			}
			continue
		}
		processed++
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Cron executed",
		Data:    map[string]interface{}{"processed": processed},
	})
}
