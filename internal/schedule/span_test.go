package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeRanges(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)
	day := time.Date(2024, time.March, 14, 0, 0, 0, 0, loc)

	tests := []struct {
		name      string
		r         Range
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "plain daytime window",
			r:         Range{Start: TimeOfDay{8, 0}, End: TimeOfDay{12, 0}},
			wantStart: time.Date(2024, time.March, 14, 8, 0, 0, 0, loc),
			wantEnd:   time.Date(2024, time.March, 14, 12, 0, 0, 0, loc),
		},
		{
			name:      "end of day sentinel rolls over",
			r:         Range{Start: TimeOfDay{22, 0}, End: TimeOfDay{0, 0}},
			wantStart: time.Date(2024, time.March, 14, 22, 0, 0, 0, loc),
			wantEnd:   time.Date(2024, time.March, 15, 0, 0, 0, 0, loc),
		},
		{
			name:      "overnight window rolls over",
			r:         Range{Start: TimeOfDay{23, 0}, End: TimeOfDay{2, 0}},
			wantStart: time.Date(2024, time.March, 14, 23, 0, 0, 0, loc),
			wantEnd:   time.Date(2024, time.March, 15, 2, 0, 0, 0, loc),
		},
		{
			name:      "midnight to midnight covers the whole day",
			r:         Range{Start: TimeOfDay{0, 0}, End: TimeOfDay{0, 0}},
			wantStart: time.Date(2024, time.March, 14, 0, 0, 0, 0, loc),
			wantEnd:   time.Date(2024, time.March, 15, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := MaterializeRanges(day, []Range{tt.r})
			require.Len(t, spans, 1)
			assert.True(t, spans[0].Start.Equal(tt.wantStart), "start %v", spans[0].Start)
			assert.True(t, spans[0].End.Equal(tt.wantEnd), "end %v", spans[0].End)
		})
	}

	t.Run("order preserved", func(t *testing.T) {
		ranges := []Range{
			{Start: TimeOfDay{20, 0}, End: TimeOfDay{22, 0}},
			{Start: TimeOfDay{8, 0}, End: TimeOfDay{12, 0}},
		}
		spans := MaterializeRanges(day, ranges)
		require.Len(t, spans, 2)
		assert.True(t, spans[0].Start.After(spans[1].Start))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, MaterializeRanges(day, nil))
	})
}
