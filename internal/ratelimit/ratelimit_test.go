package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyed_Allow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	k := New(1, 2)
	k.now = func() time.Time { return now }

	assert.True(t, k.Allow("a"))
	assert.True(t, k.Allow("a"))
	assert.False(t, k.Allow("a"), "burst exhausted")
	assert.True(t, k.Allow("b"), "keys are independent")

	now = now.Add(time.Second)
	assert.True(t, k.Allow("a"), "one token refilled")
}

func TestKeyed_Disabled(t *testing.T) {
	k := New(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, k.Allow("a"))
	}
	assert.Equal(t, 0, k.Len())
}

func TestKeyed_Sweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	k := New(5, 5)
	k.now = func() time.Time { return now }

	k.Allow("old")
	now = now.Add(11 * time.Minute)
	k.Allow("fresh")

	assert.Equal(t, 1, k.Sweep())
	assert.Equal(t, 1, k.Len())
}
