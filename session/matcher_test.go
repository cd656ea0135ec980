package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswerKey_Evaluate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		text string
		want Verdict
	}{
		{"substring", "paris", "I think paris", VerdictFull},
		{"case folded", "Paris", "  PARIS!  ", VerdictFull},
		{"compound partial", "paris+france", "paris", VerdictPartial},
		{"compound full", "paris+france", "paris and france", VerdictFull},
		{"compound none", "paris+france", "london", VerdictNone},
		{"empty key", "", "anything", VerdictNone},
		{"blank key", "   ", "anything", VerdictNone},
		{"second group full", "rome, paris", "paris", VerdictFull},
		{"partial then full", "paris+france, lyon", "paris lyon", VerdictFull},
		{"full beats earlier partial", "a+b, c", "a c", VerdictFull},
		{"partial survives scan", "a+b, zzz", "a", VerdictPartial},
		{"empty groups ignored", "paris,,", "london", VerdictNone},
		{"empty components ignored", "paris+", "paris", VerdictFull},
		{"legacy exact list", "42, forty two", "forty two", VerdictFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAnswerKey(tt.raw).Evaluate(tt.text))
		})
	}
}

func TestParseAnswerKey(t *testing.T) {
	key := ParseAnswerKey(" Paris + France , Lyon ")

	assert.Equal(t, " Paris + France , Lyon ", key.Raw())
	assert.False(t, key.Empty())
	assert.Equal(t, [][]string{{"paris", "france"}, {"lyon"}}, key.groups)

	assert.True(t, ParseAnswerKey(" , + ").Empty())
}

func TestVerdict_Scores(t *testing.T) {
	assert.True(t, VerdictFull.Scores())
	assert.True(t, VerdictPartial.Scores())
	assert.False(t, VerdictNone.Scores())
}
