/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

import "strings"

// Verdict is the outcome of matching a submission against the answer key.
type Verdict string

const (
	VerdictNone    Verdict = "none"
	VerdictPartial Verdict = "partial"
	VerdictFull    Verdict = "full"
)

// Scores reports whether the verdict is eligible for points.
func (v Verdict) Scores() bool {
	return v == VerdictFull || v == VerdictPartial
}

// AnswerKey is a parsed set of accepted answers.
//
// The raw form is a comma separated list of accepted answers. An answer
// containing "+" is a compound answer: every component must appear in the
// submission for a full match, and some of them earn a partial match.
// Matching is case-insensitive substring containment, so "paris" accepts
// "I think Paris".
type AnswerKey struct {
	raw    string
	groups [][]string
}

// ParseAnswerKey splits raw into answer groups. Empty groups and empty
// compound components are discarded, since an empty needle would match
// every submission.
func ParseAnswerKey(raw string) AnswerKey {
	key := AnswerKey{raw: raw}

	if strings.TrimSpace(raw) == "" {
		return key
	}

	for _, group := range strings.Split(raw, ",") {
		group = strings.ToLower(strings.TrimSpace(group))
		if group == "" {
			continue
		}

		var components []string
		for _, c := range strings.Split(group, "+") {
			c = strings.TrimSpace(c)
			if c != "" {
				components = append(components, c)
			}
		}

		if len(components) > 0 {
			key.groups = append(key.groups, components)
		}
	}

	return key
}

// Raw returns the text the key was parsed from.
func (k AnswerKey) Raw() string {
	return k.raw
}

// Empty reports whether the key accepts nothing.
func (k AnswerKey) Empty() bool {
	return len(k.groups) == 0
}

// Evaluate matches text against the key. Groups are tried left to right and
// the first full match wins; otherwise the verdict is partial if any compound
// group was partly present.
func (k AnswerKey) Evaluate(text string) Verdict {
	if k.Empty() {
		return VerdictNone
	}

	text = strings.ToLower(strings.TrimSpace(text))

	partial := false
	for _, components := range k.groups {
		found := 0
		for _, c := range components {
			if strings.Contains(text, c) {
				found++
			}
		}

		switch {
		case found == len(components):
			return VerdictFull
		case found > 0:
			partial = true
		}
	}

	if partial {
		return VerdictPartial
	}

	return VerdictNone
}
