/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

import "strings"

// ResetMarker, sent by a privileged name, starts a new round.
const ResetMarker = "NEW ROUND"

// pointShorthands are the privileged messages that set the round's value.
var pointShorthands = map[string]int{
	"1": 1,
	"2": 2,
	"3": 3,
}

// Round tracks the scoring state of the current round epoch.
type Round struct {
	points int
	scored map[string]bool
}

func NewRound() *Round {
	return &Round{scored: make(map[string]bool)}
}

func (r *Round) Points() int {
	return r.points
}

// hasScored reports whether name has already been awarded points this round.
func (r *Round) hasScored(name string) bool {
	return r.scored[name]
}

// Reset ends the round: nobody has scored and answers are worth nothing
// until a new value is set.
func (r *Round) Reset() {
	r.points = 0
	r.scored = make(map[string]bool)
}

// Control applies a round-control message from a privileged name and reports
// whether it was one. Other text is left alone.
func (r *Round) Control(text string) bool {
	text = strings.TrimSpace(text)

	if strings.EqualFold(text, ResetMarker) {
		r.Reset()

		return true
	}

	if points, ok := pointShorthands[text]; ok {
		r.points = points

		return true
	}

	return false
}

// Award returns the points name earns for v, at most once per round.
// Full and partial verdicts both use up the slot.
func (r *Round) Award(name string, v Verdict) int {
	if !v.Scores() || r.points <= 0 || r.scored[name] {
		return 0
	}

	r.scored[name] = true

	return r.points
}
