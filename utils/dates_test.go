package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNightsBetween(t *testing.T) {
	start := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, NightsBetween(start, start.Add(6*time.Hour)), "short visits charge one night")
	assert.Equal(t, 1, NightsBetween(start, start))
	assert.Equal(t, 3, NightsBetween(start, start.AddDate(0, 0, 3)))
	assert.Equal(t, 5, NightsBetween(start, start.AddDate(0, 0, 5).Add(-4*time.Hour)), "early checkout still rounds up")
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 5, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(start, end))
}
