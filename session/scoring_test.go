package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound_AwardOncePerRound(t *testing.T) {
	r := NewRound()
	r.Control("2")

	assert.Equal(t, 2, r.Award("bob", VerdictFull))
	assert.Equal(t, 0, r.Award("bob", VerdictFull))
	assert.Equal(t, 0, r.Award("bob", VerdictPartial))
	assert.True(t, r.hasScored("bob"))
}

func TestRound_PartialUsesSlot(t *testing.T) {
	r := NewRound()
	r.Control("3")

	assert.Equal(t, 3, r.Award("bob", VerdictPartial))
	assert.Equal(t, 0, r.Award("bob", VerdictFull))
}

func TestRound_NoPointsNoAward(t *testing.T) {
	r := NewRound()

	assert.Equal(t, 0, r.Award("bob", VerdictFull))
	assert.False(t, r.hasScored("bob"))
}

func TestRound_NoneNeverScores(t *testing.T) {
	r := NewRound()
	r.Control("1")

	assert.Equal(t, 0, r.Award("bob", VerdictNone))
	assert.False(t, r.hasScored("bob"))
}

func TestRound_Control(t *testing.T) {
	r := NewRound()

	assert.True(t, r.Control(" 3 "))
	assert.Equal(t, 3, r.Points())

	r.Award("bob", VerdictFull)

	assert.True(t, r.Control("new round"))
	assert.Equal(t, 0, r.Points())
	assert.False(t, r.hasScored("bob"))

	assert.False(t, r.Control("4"))
	assert.False(t, r.Control("hello everyone"))
	assert.Equal(t, 0, r.Points())
}

func TestRound_SettingPointsKeepsEligibility(t *testing.T) {
	r := NewRound()
	r.Control("1")
	r.Award("bob", VerdictFull)

	r.Control("2")
	assert.True(t, r.hasScored("bob"))
	assert.Equal(t, 0, r.Award("bob", VerdictFull))
}
