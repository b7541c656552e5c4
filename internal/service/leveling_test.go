package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelPolicyLevels(t *testing.T) {
	p := NewLevelPolicy(nil)

	assert.Equal(t, 1, p.Level(0))
	assert.Equal(t, 1, p.Level(39))
	assert.Equal(t, 2, p.Level(40))
	assert.Equal(t, 2, p.Level(119))
	assert.Equal(t, 3, p.Level(120))
	assert.Equal(t, 10, p.Level(1800))
	assert.Equal(t, 10, p.Level(5000))
}

func TestLevelPolicyNegativeXPClampsToLevelOne(t *testing.T) {
	p := NewLevelPolicy(nil)
	assert.Equal(t, 1, p.Level(-10))
}

func TestLevelPolicyNextLevelXP(t *testing.T) {
	p := NewLevelPolicy(nil)

	assert.Equal(t, 40, p.NextLevelXP(0))
	assert.Equal(t, 40, p.NextLevelXP(10))
	assert.Equal(t, 120, p.NextLevelXP(40))
	// Past the top threshold the cap itself is reported, so progress bars
	// render full instead of chasing a moving target.
	assert.Equal(t, 1800, p.NextLevelXP(1800))
	assert.Equal(t, 1800, p.NextLevelXP(5000))
}

func TestLevelPolicySortsAndDeduplicates(t *testing.T) {
	p := NewLevelPolicy([]int{100, 0, 50, 100, 0})

	assert.Equal(t, 3, p.MaxLevel())
	assert.Equal(t, 1, p.Level(0))
	assert.Equal(t, 2, p.Level(50))
	assert.Equal(t, 3, p.Level(100))
}

func TestLevelPolicyForcesZeroThreshold(t *testing.T) {
	p := NewLevelPolicy([]int{50, 100})

	assert.Equal(t, 1, p.Level(0))
	assert.Equal(t, 2, p.Level(50))
	assert.Equal(t, 3, p.Level(100))
}

func TestLevelPolicyLevelNeverRegressesAfterReload(t *testing.T) {
	before := NewLevelPolicy([]int{0, 40, 120})
	after := NewLevelPolicy([]int{120, 40, 0, 40})

	for xp := 0; xp <= 200; xp += 10 {
		assert.Equal(t, before.Level(xp), after.Level(xp), "xp=%d", xp)
	}
}
