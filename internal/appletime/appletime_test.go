package appletime_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slightknack/aeromessage/internal/appletime"
)

func TestToTimeSeconds(t *testing.T) {
	// 2024-01-01 00:00:00 UTC relative to the Apple epoch, in seconds.
	got := appletime.ToTime(725760000)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestToTimeNanoseconds(t *testing.T) {
	// The same instant encoded in nanoseconds normalizes identically.
	got := appletime.ToTime(725760000_000_000_000)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestToTimeDeterministic(t *testing.T) {
	for _, ts := range []int64{0, 725760000, 725760000_000_000_000} {
		assert.Equal(t, appletime.ToTime(ts), appletime.ToTime(ts))
	}
}

func TestToTimeEpochZero(t *testing.T) {
	got := appletime.ToTime(0)
	assert.Equal(t, time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), got)
}
