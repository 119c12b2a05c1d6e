package users

import (
	"errors"
	"net/http"
	"strconv"

	"olympus/ledger"
	"olympus/utils"
)

// writeLedgerError maps ledger error kinds onto HTTP statuses. Anything that
// is not a ledger error is treated as an internal failure.
func writeLedgerError(w http.ResponseWriter, err error) {
	var lerr *ledger.Error
	if errors.As(err, &lerr) {
		status := http.StatusInternalServerError
		switch lerr.Kind {
		case ledger.KindValidation, ledger.KindBusinessRule:
			status = http.StatusBadRequest
		case ledger.KindNotFound:
			status = http.StatusNotFound
		case ledger.KindRateLimited:
			status = http.StatusTooManyRequests
		}
		utils.WriteError(w, status, lerr.Message)
		return
	}
	utils.WriteError(w, http.StatusInternalServerError, "Server error")
}

func parsePagination(r *http.Request) (page, limit, offset int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit, (page - 1) * limit
}
