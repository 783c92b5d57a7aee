package schedule

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// fingerprintTimeLayout renders the updated-at instant without a zone
// offset. Fingerprints must stay byte-for-byte stable for the same page
// content regardless of the host's zone database.
const fingerprintTimeLayout = "2006-01-02T15:04:05"

// Fingerprint computes the deterministic digest for one day's schedule:
// the civil date, the resolved updated-at instant, and the raw text of
// each queue line, joined with newlines and hashed with SHA-256. The hex
// digest is what gets persisted and compared between runs.
func Fingerprint(date, updatedAt time.Time, rawLines []string) string {
	parts := make([]string, 0, 2+len(rawLines))
	parts = append(parts, date.Format(time.DateOnly), updatedAt.Format(fingerprintTimeLayout))
	parts = append(parts, rawLines...)

	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(sum[:])
}
