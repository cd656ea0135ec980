/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package session holds the authoritative state of a quiz room.
//
// A Session is not safe for concurrent use. It is owned by a single
// goroutine which applies one client action at a time and fans the returned
// events out to connected clients.
package session

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const timeFormat = "15:04:05"

// Options configures a Session.
type Options struct {
	// Moderator is the secret name that is privileged alongside AdminName.
	Moderator string

	// MaxMessageLength truncates submissions to this many runes. Zero
	// disables truncation.
	MaxMessageLength int
}

// Session is the single owner of the message log, the scoreboard, the round
// and the room flags.
type Session struct {
	opts Options

	guard   Guard
	limiter *Limiter
	round   *Round
	key     AnswerKey

	log     []Entry
	scores  []Score
	winners []string
	visible bool
	locked  bool

	now func() time.Time
}

func New(opts Options) *Session {
	return &Session{
		opts:    opts,
		guard:   NewGuard(opts.Moderator),
		limiter: NewLimiter(),
		round:   NewRound(),
		visible: true,
		now:     time.Now,
	}
}

// Privileged reports whether name is one of the privileged literals.
func (s *Session) Privileged(name string) bool {
	return s.guard.Privileged(name)
}

// CheckName arbitrates a display name against the current scoreboard.
func (s *Session) CheckName(name string) NameResult {
	return s.guard.Check(name, func(n string) bool {
		return s.scoreIndex(n) >= 0
	})
}

// Replay returns the events that bring a newly connected client up to date.
func (s *Session) Replay() []Event {
	return []Event{
		broadcast(EventLoadHistory, s.Log()),
		broadcast(EventUpdateScoreboard, s.Board()),
		broadcast(EventUpdateLimit, s.limiter.Limit()),
		broadcast(EventLockStatus, s.locked),
		broadcast(EventUpdateRound, s.roundStatus()),
	}
}

// SubmitAnswer records a message from name. Locked or rate limited
// submissions from ordinary participants are dropped without a trace.
func (s *Session) SubmitAnswer(name, text string, privileged bool) []Event {
	if name == "" || strings.TrimSpace(text) == "" {
		return nil
	}

	if s.locked && !privileged {
		return nil
	}

	if !s.limiter.Allow(name, privileged) {
		return nil
	}

	text = s.truncate(text)

	verdict := VerdictNone
	roundChanged := false

	if privileged {
		roundChanged = s.round.Control(text)
	} else {
		if s.scoreIndex(name) < 0 {
			s.scores = append(s.scores, Score{Name: name})
		}

		verdict = s.key.Evaluate(text)

		if points := s.round.Award(name, verdict); points > 0 {
			s.scores[s.scoreIndex(name)].Score += points
		}

		if verdict == VerdictFull && !s.isWinner(name) {
			s.winners = append(s.winners, name)
		}
	}

	now := s.now()
	entry := Entry{
		ID:      newEntryID(now),
		Name:    name,
		Text:    text,
		Time:    now.Format(timeFormat),
		Verdict: verdict,
	}
	s.log = append(s.log, entry)

	events := []Event{broadcast(EventNewLog, entry)}

	switch verdict {
	case VerdictFull:
		events = append(events, private(EventCorrectNotification, Feedback{Verdict: verdict, Message: "Correct!"}))
	case VerdictPartial:
		events = append(events, private(EventCorrectNotification, Feedback{Verdict: verdict, Message: "Almost! Partially correct."}))
	}

	if roundChanged {
		events = append(events, broadcast(EventUpdateRound, s.roundStatus()))
	}

	return append(events, broadcast(EventUpdateScoreboard, s.Board()))
}

// DeleteMessage removes the log entry with id. Unknown ids are ignored and
// nothing is broadcast.
func (s *Session) DeleteMessage(id string) []Event {
	for i, e := range s.log {
		if e.ID == id {
			s.log = append(s.log[:i], s.log[i+1:]...)

			return []Event{broadcast(EventRemoveMessage, id)}
		}
	}

	return nil
}

// DeletePlayer removes name from the scoreboard, the winners and the rate
// limiter. Their log entries stay.
func (s *Session) DeletePlayer(name string) []Event {
	i := s.scoreIndex(name)
	if i < 0 {
		return nil
	}

	s.scores = append(s.scores[:i], s.scores[i+1:]...)
	s.removeWinner(name)
	s.limiter.Forget(name)

	return []Event{broadcast(EventUpdateScoreboard, s.Board())}
}

// UpdateScore adjusts the score of a name already on the scoreboard.
func (s *Session) UpdateScore(name string, delta int) []Event {
	i := s.scoreIndex(name)
	if i < 0 {
		return nil
	}

	s.scores[i].Score += delta

	return []Event{broadcast(EventUpdateScoreboard, s.Board())}
}

func (s *Session) ToggleLock(locked bool) []Event {
	s.locked = locked

	return []Event{broadcast(EventLockStatus, s.locked)}
}

func (s *Session) ToggleScoreboard(visible bool) []Event {
	s.visible = visible

	return []Event{broadcast(EventUpdateScoreboard, s.Board())}
}

// SetSubmissionLimit sets the per-participant limit and restarts every
// counter. Zero or less means unlimited.
func (s *Session) SetSubmissionLimit(n int) []Event {
	s.limiter.SetLimit(n)

	return []Event{broadcast(EventUpdateLimit, s.limiter.Limit())}
}

// SetCorrectAnswer replaces the answer key. Nothing is broadcast, as the
// key would give the answer away.
func (s *Session) SetCorrectAnswer(raw string) []Event {
	s.key = ParseAnswerKey(raw)

	return nil
}

// OrderScoreboard sorts the scoreboard by score, highest first. Equal
// scores keep their current order.
func (s *Session) OrderScoreboard() []Event {
	sort.SliceStable(s.scores, func(i, j int) bool {
		return s.scores[i].Score > s.scores[j].Score
	})

	return []Event{broadcast(EventUpdateScoreboard, s.Board())}
}

// ResetWinners clears the winners set.
func (s *Session) ResetWinners() []Event {
	s.winners = nil

	return []Event{broadcast(EventUpdateScoreboard, s.Board())}
}

// Log returns a copy of the message log in append order.
func (s *Session) Log() []Entry {
	out := make([]Entry, len(s.log))
	copy(out, s.log)

	return out
}

// Board returns a copy of the scoreboard.
func (s *Session) Board() Board {
	scores := make([]Score, len(s.scores))
	copy(scores, s.scores)

	winners := make([]string, len(s.winners))
	copy(winners, s.winners)

	return Board{
		Scores:  scores,
		Winners: winners,
		Visible: s.visible,
	}
}

func (s *Session) Locked() bool {
	return s.locked
}

func (s *Session) Limit() int {
	return s.limiter.Limit()
}

func (s *Session) Points() int {
	return s.round.Points()
}

func (s *Session) AnswerKey() AnswerKey {
	return s.key
}

func (s *Session) roundStatus() RoundStatus {
	return RoundStatus{Points: s.round.Points()}
}

func (s *Session) truncate(text string) string {
	limit := s.opts.MaxMessageLength
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}

	return string([]rune(text)[:limit])
}

func (s *Session) scoreIndex(name string) int {
	for i, sc := range s.scores {
		if sc.Name == name {
			return i
		}
	}

	return -1
}

func (s *Session) isWinner(name string) bool {
	for _, w := range s.winners {
		if w == name {
			return true
		}
	}

	return false
}

func (s *Session) removeWinner(name string) {
	dst := s.winners[:0]
	for _, w := range s.winners {
		if w != name {
			dst = append(dst, w)
		}
	}
	s.winners = dst
}

// newEntryID combines the creation time with a random suffix so that
// entries created in the same millisecond stay distinct.
func newEntryID(t time.Time) string {
	return fmt.Sprintf("%d-%s", t.UnixMilli(), uuid.NewString()[:8])
}
