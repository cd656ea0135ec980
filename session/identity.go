/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

import (
	"strings"
	"unicode"
)

// AdminName is the name the moderator console submits under.
const AdminName = "ADMIN"

// Reasons returned with a rejected name. They are shown to the player as-is.
const (
	ReasonRequired = "Name required."
	ReasonReserved = "Name reserved."
	ReasonTaken    = "Name taken!"
)

// reserved holds forbidden names after normalisation.
var reserved = map[string]bool{
	"admin":         true,
	"administrator": true,
	"system":        true,
}

// NameResult is the reply to a name check.
type NameResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Privileged bool   `json:"privileged,omitempty"`
}

// Guard arbitrates display names against the single shared namespace.
type Guard struct {
	moderator string
}

func NewGuard(moderator string) Guard {
	return Guard{moderator: moderator}
}

// Privileged reports whether name bypasses the lock, the rate limit and
// answer evaluation.
func (g Guard) Privileged(name string) bool {
	return name == AdminName || (g.moderator != "" && name == g.moderator)
}

// Check decides whether candidate may be used by a new participant. taken
// reports whether a name already holds a scoreboard slot. The result is
// advisory; nothing reserves the name until its first submission.
func (g Guard) Check(candidate string, taken func(string) bool) NameResult {
	if strings.TrimSpace(candidate) == "" {
		return NameResult{Message: ReasonRequired}
	}

	if Reserved(candidate) {
		return NameResult{Message: ReasonReserved}
	}

	if g.moderator != "" && candidate == g.moderator {
		return NameResult{Success: true, Privileged: true}
	}

	if taken(candidate) {
		return NameResult{Message: ReasonTaken}
	}

	return NameResult{Success: true}
}

// Reserved reports whether name is withheld from participants. It folds case
// and drops spacing and punctuation, so "A.D.M.I.N" and "System " are caught
// along with the plain literals.
func Reserved(name string) bool {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return reserved[b.String()]
}
