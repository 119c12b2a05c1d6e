package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"olympus/ledger"
	"olympus/utils"
)

const (
	testMemberID = "11111111-2222-3333-4444-555555555555"
	testPkgID    = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
)

func authedRequest(method, target, body, memberID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if memberID != "" {
		ctx := context.WithValue(req.Context(), utils.MemberIDKey, memberID)
		ctx = context.WithValue(ctx, utils.MemberRoleKey, "member")
		req = req.WithContext(ctx)
	}
	return req
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return resp
}

func TestPurchasePackage_Unauthorized(t *testing.T) {
	body := `{"amount":100,"packageId":"` + testPkgID + `","teamMemberId":"` + testMemberID + `"}`
	rr := httptest.NewRecorder()
	PurchasePackageHandler(rr, authedRequest(http.MethodPost, "/api/package", body, ""))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestPurchasePackage_RejectsOtherMember(t *testing.T) {
	other := "99999999-8888-7777-6666-555555555555"
	body := `{"amount":100,"packageId":"` + testPkgID + `","teamMemberId":"` + other + `"}`
	rr := httptest.NewRecorder()
	PurchasePackageHandler(rr, authedRequest(http.MethodPost, "/api/package", body, testMemberID))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	if resp := decodeResponse(t, rr); resp.Success {
		t.Fatal("expected success=false")
	}
}

func TestPurchasePackage_RejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []string{"0", "-50"} {
		body := `{"amount":` + amount + `,"packageId":"` + testPkgID + `","teamMemberId":"` + testMemberID + `"}`
		rr := httptest.NewRecorder()
		PurchasePackageHandler(rr, authedRequest(http.MethodPost, "/api/package", body, testMemberID))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("amount=%s: expected 400, got %d", amount, rr.Code)
		}
	}
}

func TestPurchasePackage_RejectsMalformedPackageID(t *testing.T) {
	body := `{"amount":100,"packageId":"not-a-uuid","teamMemberId":"` + testMemberID + `"}`
	rr := httptest.NewRecorder()
	PurchasePackageHandler(rr, authedRequest(http.MethodPost, "/api/package", body, testMemberID))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestPurchasePackage_RejectsOversizedIdempotencyKey(t *testing.T) {
	body := `{"amount":100,"packageId":"` + testPkgID + `","teamMemberId":"` + testMemberID + `"}`
	req := authedRequest(http.MethodPost, "/api/package", body, testMemberID)
	req.Header.Set("Idempotency-Key", strings.Repeat("x", 65))
	rr := httptest.NewRecorder()
	PurchasePackageHandler(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestWithdraw_RejectsInvalidBucket(t *testing.T) {
	body := `{"earnings":"SAVINGS","amount":"100","bank":"BCA","accountName":"A","accountNumber":"123","teamMemberId":"` + testMemberID + `"}`
	rr := httptest.NewRecorder()
	WithdrawHandler(rr, authedRequest(http.MethodPost, "/api/withdraw", body, testMemberID))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestWithdraw_RejectsNonNumericAmount(t *testing.T) {
	for _, amount := range []string{"abc", "-10", "0"} {
		body := `{"earnings":"TOTAL","amount":"` + amount + `","bank":"BCA","accountName":"A","accountNumber":"123","teamMemberId":"` + testMemberID + `"}`
		rr := httptest.NewRecorder()
		WithdrawHandler(rr, authedRequest(http.MethodPost, "/api/withdraw", body, testMemberID))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("amount=%q: expected 400, got %d", amount, rr.Code)
		}
	}
}

func TestWriteLedgerError_Mapping(t *testing.T) {
	cases := []struct {
		kind ledger.Kind
		want int
	}{
		{ledger.KindValidation, http.StatusBadRequest},
		{ledger.KindBusinessRule, http.StatusBadRequest},
		{ledger.KindNotFound, http.StatusNotFound},
		{ledger.KindRateLimited, http.StatusTooManyRequests},
		{ledger.KindPersistence, http.StatusInternalServerError},
	}
	for _, c := range cases {
		rr := httptest.NewRecorder()
		writeLedgerError(rr, &ledger.Error{Kind: c.kind, Message: "boom"})
		if rr.Code != c.want {
			t.Fatalf("kind %d: expected %d, got %d", c.kind, c.want, rr.Code)
		}
		if resp := decodeResponse(t, rr); resp.Message != "boom" {
			t.Fatalf("expected ledger message passed through, got %q", resp.Message)
		}
	}
}

func TestWriteLedgerError_HidesInternalErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	writeLedgerError(rr, context.DeadlineExceeded)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if resp := decodeResponse(t, rr); strings.Contains(resp.Message, "deadline") {
		t.Fatalf("internal error leaked to client: %q", resp.Message)
	}
}
