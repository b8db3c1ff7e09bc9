package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock(t *testing.T) {
	c := NewFixed(time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC))
	assert.Equal(t, "2024-01-10", c.Today())

	c.Advance(time.Hour)
	assert.Equal(t, "2024-01-11", c.Today())

	c.Set(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-06-01", c.Today())
}

func TestSystemClockUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+14", 14*3600)
	c := NewSystem(loc)
	assert.Equal(t, loc, c.Now().Location())
	assert.Equal(t, c.Now().Format("2006-01-02"), c.Today())

	assert.Equal(t, time.Local, NewSystem(nil).Now().Location())
}
