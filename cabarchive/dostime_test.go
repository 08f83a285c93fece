package cabarchive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTimeRoundTrip(t *testing.T) {
	// pack/unpack must be inverse across the representable domain.
	// Seconds only survive round trip at even values, so the cases below
	// are all pre-halved.
	cases := []time.Time{
		time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1997, time.March, 12, 11, 13, 52, 0, time.UTC),
		time.Date(2025, time.December, 31, 23, 59, 58, 0, time.UTC),
		time.Date(2107, time.June, 15, 12, 30, 0, 0, time.UTC),
	}
	for _, want := range cases {
		date, tm := packDate(want), packTime(want)
		got, err := unpackDateTime(date, tm)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "want %v, got %v", want, got)
	}
}

func TestPackTimeHalvesOddSeconds(t *testing.T) {
	odd := time.Date(2000, time.January, 1, 0, 0, 53, 0, time.UTC)
	even := time.Date(2000, time.January, 1, 0, 0, 52, 0, time.UTC)
	assert.Equal(t, packTime(even), packTime(odd))
}

func TestUnpackDateTimeRejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name string
		date uint16
		time uint16
	}{
		{"month zero", 0x0000, 0x0000},
		{"day zero", 0x0020, 0x0000}, // month=1, day=0
		{"hour 24", 0x0021, 0xC000},  // hour bits = 24
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := unpackDateTime(tt.date, tt.time)
			require.Error(t, err)
			var ce *CorruptionError
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestValidateDateTimeRejectsOutOfRangeYear(t *testing.T) {
	require.Error(t, validateDateTime(time.Date(1979, time.December, 31, 0, 0, 0, 0, time.UTC)))
	require.Error(t, validateDateTime(time.Date(2108, time.January, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, validateDateTime(time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)))
}
