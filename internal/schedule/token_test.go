package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineTokens(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantQueue  string
		wantRanges []Range
	}{
		{
			name:      "dash separated range",
			line:      "Черга 1: 08:00-12:00",
			wantQueue: "1",
			wantRanges: []Range{
				{Start: TimeOfDay{8, 0}, End: TimeOfDay{12, 0}},
			},
		},
		{
			name:      "prose range with з and до",
			line:      "Черга 2: з 10:00 до 14:00",
			wantQueue: "2",
			wantRanges: []Range{
				{Start: TimeOfDay{10, 0}, End: TimeOfDay{14, 0}},
			},
		},
		{
			name:      "multiple ranges on one line",
			line:      "Черга 1: з 08:00 до 12:00, з 20:00-22:00",
			wantQueue: "1",
			wantRanges: []Range{
				{Start: TimeOfDay{8, 0}, End: TimeOfDay{12, 0}},
				{Start: TimeOfDay{20, 0}, End: TimeOfDay{22, 0}},
			},
		},
		{
			name:      "група spelling",
			line:      "Група 3 # 16:00 - 18:30",
			wantQueue: "3",
			wantRanges: []Range{
				{Start: TimeOfDay{16, 0}, End: TimeOfDay{18, 30}},
			},
		},
		{
			name:      "english queue label",
			line:      "Queue 4: 06:00-09:00",
			wantQueue: "4",
			wantRanges: []Range{
				{Start: TimeOfDay{6, 0}, End: TimeOfDay{9, 0}},
			},
		},
		{
			name:      "dotted sub-queue label",
			line:      "Черга 3.1: 12:00-16:00",
			wantQueue: "3.1",
			wantRanges: []Range{
				{Start: TimeOfDay{12, 0}, End: TimeOfDay{16, 0}},
			},
		},
		{
			name:      "label punctuation trimmed",
			line:      "черги 2.: 18:00-20:00",
			wantQueue: "2",
			wantRanges: []Range{
				{Start: TimeOfDay{18, 0}, End: TimeOfDay{20, 0}},
			},
		},
		{
			name:      "single digit hours",
			line:      "з 8:00 до 9:30",
			wantQueue: "",
			wantRanges: []Range{
				{Start: TimeOfDay{8, 0}, End: TimeOfDay{9, 30}},
			},
		},
		{
			name:      "end of day sentinel",
			line:      "Черга 2: з 22:00 до 24:00",
			wantQueue: "2",
			wantRanges: []Range{
				{Start: TimeOfDay{22, 0}, End: TimeOfDay{0, 0}},
			},
		},
		{
			name:      "sentinel as both endpoints",
			line:      "00:00-24:00",
			wantQueue: "",
			wantRanges: []Range{
				{Start: TimeOfDay{0, 0}, End: TimeOfDay{0, 0}},
			},
		},
		{
			name:       "no ranges",
			line:       "Оновлено 14.03.2024 07:15",
			wantQueue:  "",
			wantRanges: nil,
		},
		{
			name:       "invalid hour skipped",
			line:       "31:00-35:00",
			wantQueue:  "",
			wantRanges: nil,
		},
		{
			name:       "plain text",
			line:       "Шановні клієнти!",
			wantQueue:  "",
			wantRanges: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := ParseLineTokens(tt.line)
			assert.Equal(t, tt.wantQueue, tokens.Queue)
			assert.Equal(t, tt.wantRanges, tokens.Ranges)
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "08:00", want: TimeOfDay{8, 0}},
		{in: "8:05", want: TimeOfDay{8, 5}},
		{in: "23:59", want: TimeOfDay{23, 59}},
		{in: "24:00", want: TimeOfDay{0, 0}},
		{in: "25:00", wantErr: true},
		{in: "12:61", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeQueue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" 1 ", "1"},
		{"1.", "1"},
		{"2:", "2"},
		{"3.1", "3.1"},
		{".;4,:", "4"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeQueue(tt.in), "input %q", tt.in)
	}
}
