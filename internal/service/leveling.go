package service

import "sort"

// defaultXPThresholds is used when configuration provides none. Index i holds
// the cumulative XP required to reach level i+1.
var defaultXPThresholds = []int{0, 40, 120, 240, 400, 600, 840, 1120, 1440, 1800}

// LevelPolicy maps cumulative XP to levels through a sorted threshold table.
// It is immutable after construction and safe for concurrent use.
type LevelPolicy struct {
	thresholds []int
}

// NewLevelPolicy builds a policy from the configured thresholds. The input is
// copied, sorted and deduplicated; an empty or nil slice falls back to the
// default table. A leading 0 is forced so level 1 is always reachable.
func NewLevelPolicy(thresholds []int) *LevelPolicy {
	if len(thresholds) == 0 {
		thresholds = defaultXPThresholds
	}
	ts := make([]int, len(thresholds))
	copy(ts, thresholds)
	sort.Ints(ts)

	deduped := ts[:0]
	for _, t := range ts {
		if len(deduped) == 0 || deduped[len(deduped)-1] != t {
			deduped = append(deduped, t)
		}
	}
	if deduped[0] != 0 {
		deduped = append([]int{0}, deduped...)
	}
	return &LevelPolicy{thresholds: deduped}
}

// Level returns the level for the given cumulative XP: the highest threshold
// index whose value does not exceed xp, plus one. Negative XP clamps to
// level 1.
func (p *LevelPolicy) Level(xp int) int {
	level := 1
	for i, t := range p.thresholds {
		if xp >= t {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// NextLevelXP returns the cumulative XP needed for the next level. At or past
// the top threshold it returns the top threshold itself, so clients can
// render a full progress bar instead of a moving target.
func (p *LevelPolicy) NextLevelXP(xp int) int {
	for _, t := range p.thresholds {
		if t > xp {
			return t
		}
	}
	return p.thresholds[len(p.thresholds)-1]
}

// MaxLevel is the number of thresholds, i.e. the highest attainable level.
func (p *LevelPolicy) MaxLevel() int {
	return len(p.thresholds)
}
