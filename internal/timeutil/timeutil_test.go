package timeutil

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseZonedTime(t *testing.T) {
	epoch, err := ParseZonedTime("2024-01-15T10:30:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, int64(1705314600000), epoch)
}

func TestParseZonedTime_Offset(t *testing.T) {
	// +02:00 is the same instant as the UTC form two hours earlier.
	utc, err := ParseZonedTime("2024-01-15T10:30:00.000Z")
	require.NoError(t, err)
	offset, err := ParseZonedTime("2024-01-15T12:30:00.000+02:00")
	require.NoError(t, err)
	assert.Equal(t, utc, offset)
}

func TestParseZonedTime_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"not a time",
		"2024-01-15T10:30:00Z",       // missing milliseconds
		"2024-01-15T10:30:00.000",    // missing zone designator
		"2024-01-15 10:30:00.000Z",   // wrong separator
		"15-01-2024T10:30:00.000Z",   // wrong date order
		"2024-13-40T10:30:00.000Z",   // out-of-range components
		"2024-01-15T10:30:00.0000Z",  // too many fraction digits
	}
	for _, s := range invalid {
		_, err := ParseZonedTime(s)
		assert.Error(t, err, "input %q", s)
		assert.False(t, IsValid(s), "input %q", s)
	}
}

func TestFormatEpoch_UTC(t *testing.T) {
	assert.Equal(t, "2024-01-15T10:30:00.000Z", FormatEpoch(1705314600000))
}

func TestRoundTrip(t *testing.T) {
	// format -> parse -> format is idempotent.
	epochs := []int64{0, 1, 999, 1705314600000, 4102444800123}
	for _, e := range epochs {
		text := FormatEpoch(e)
		parsed, err := ParseZonedTime(text)
		require.NoError(t, err, "text %q", text)
		assert.Equal(t, text, FormatEpoch(parsed))
		assert.Equal(t, e, parsed)
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("2024-01-15T10:30:00.000Z"))
	assert.True(t, IsValid("2024-01-15T12:30:00.000+02:00"))
	assert.False(t, IsValid("2024-01-15"))
}

func TestNowEpoch_InjectedClock(t *testing.T) {
	frozen := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	assert.Equal(t, frozen.UnixMilli(), NowEpoch())
	assert.Equal(t, "2024-01-15T10:30:00.000Z", FormatEpoch(NowEpoch()))
}
