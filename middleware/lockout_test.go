package middleware

import "testing"

func TestLockout_LocksAfterMaxFailures(t *testing.T) {
	key := "628111111111"
	ResetFailedLogin(key)

	for i := 0; i < loginLockout.max-1; i++ {
		RecordFailedLogin(key)
		if locked, _ := IsAccountLocked(key); locked {
			t.Fatalf("locked after %d failures, max is %d", i+1, loginLockout.max)
		}
	}

	RecordFailedLogin(key)
	locked, remaining := IsAccountLocked(key)
	if !locked {
		t.Fatal("expected account to be locked at the failure threshold")
	}
	if remaining <= 0 {
		t.Fatalf("expected positive remaining lock duration, got %v", remaining)
	}
}

func TestLockout_ResetClearsState(t *testing.T) {
	key := "628122222222"
	for i := 0; i < loginLockout.max; i++ {
		RecordFailedLogin(key)
	}
	if locked, _ := IsAccountLocked(key); !locked {
		t.Fatal("expected locked before reset")
	}
	ResetFailedLogin(key)
	if locked, _ := IsAccountLocked(key); locked {
		t.Fatal("expected unlocked after reset")
	}
}

func TestLockout_KeysAreIndependent(t *testing.T) {
	a, b := "628133333333", "628144444444"
	ResetFailedLogin(a)
	ResetFailedLogin(b)
	for i := 0; i < loginLockout.max; i++ {
		RecordFailedLogin(a)
	}
	if locked, _ := IsAccountLocked(b); locked {
		t.Fatal("failures on one account must not lock another")
	}
}
