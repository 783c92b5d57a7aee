package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	date := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, time.March, 14, 7, 15, 0, 0, time.UTC)
	lines := []string{
		"Черга 1: з 08:00 до 12:00",
		"Черга 2: 10:00 - 14:00",
	}

	base := Fingerprint(date, updated, lines)
	assert.Len(t, base, 64)

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, base, Fingerprint(date, updated, lines))
	})

	t.Run("sensitive to line content", func(t *testing.T) {
		changed := []string{
			"Черга 1: з 08:00 до 13:00",
			"Черга 2: 10:00 - 14:00",
		}
		assert.NotEqual(t, base, Fingerprint(date, updated, changed))
	})

	t.Run("sensitive to line order", func(t *testing.T) {
		reordered := []string{lines[1], lines[0]}
		assert.NotEqual(t, base, Fingerprint(date, updated, reordered))
	})

	t.Run("sensitive to updated at", func(t *testing.T) {
		later := updated.Add(time.Minute)
		assert.NotEqual(t, base, Fingerprint(date, later, lines))
	})

	t.Run("sensitive to date", func(t *testing.T) {
		nextDay := date.AddDate(0, 0, 1)
		assert.NotEqual(t, base, Fingerprint(nextDay, updated, lines))
	})

	t.Run("independent of zone representation", func(t *testing.T) {
		kyiv, err := time.LoadLocation("Europe/Kyiv")
		if err != nil {
			t.Fatalf("loading zone: %v", err)
		}
		// The same wall-clock values in another zone must hash the same;
		// only the rendered date and time participate.
		sameWall := time.Date(2024, time.March, 14, 7, 15, 0, 0, kyiv)
		sameDate := time.Date(2024, time.March, 14, 0, 0, 0, 0, kyiv)
		assert.Equal(t, base, Fingerprint(sameDate, sameWall, lines))
	})
}
