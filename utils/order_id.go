package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

var mu sync.Mutex
var seededRand *rand.Rand

func init() {
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// GenerateOrderID builds a human-readable, effectively unique order reference
// for a member's ledger rows. Uniqueness is enforced by the DB index; the
// random tail keeps same-nanosecond collisions out of normal operation.
func GenerateOrderID(memberID string) string {
	mu.Lock()
	defer mu.Unlock()

	nowNano := time.Now().UnixNano()
	nanoPart := nowNano % 1000000

	randPart := seededRand.Intn(900) + 100

	return fmt.Sprintf("OLY-%06d%03d-%s", nanoPart, randPart, shortID(memberID))
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
