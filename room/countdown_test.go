/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountdownRemaining(t *testing.T) {
	c := NewCountdown(t0, 30*time.Second)

	tests := map[time.Duration]int{
		-5 * time.Second:         30,
		0:                        30,
		900 * time.Millisecond:   30,
		time.Second:              29,
		29999 * time.Millisecond: 1,
		30 * time.Second:         0,
		45 * time.Second:         0,
	}

	for elapsed, want := range tests {
		assert.Equal(t, want, c.Remaining(t0.Add(elapsed)), "elapsed %s", elapsed)
	}

	assert.False(t, c.Expired(t0.Add(29*time.Second)))
	assert.True(t, c.Expired(t0.Add(30*time.Second)))
}

func TestClampRounds(t *testing.T) {
	assert.Equal(t, 1, ClampRounds(-3))
	assert.Equal(t, 1, ClampRounds(0))
	assert.Equal(t, 7, ClampRounds(7))
	assert.Equal(t, 10, ClampRounds(11))
}
