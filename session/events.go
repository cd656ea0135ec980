/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

// Outbound event names.
const (
	EventLoadHistory         = "load_history"
	EventUpdateScoreboard    = "update_scoreboard"
	EventUpdateLimit         = "update_limit"
	EventLockStatus          = "lock_status"
	EventUpdateRound         = "update_round"
	EventNewLog              = "new_log"
	EventRemoveMessage       = "remove_msg_client"
	EventCorrectNotification = "correct_notification"
)

// Event is a change to be delivered to clients. Private events go only to
// the connection whose action produced them; the rest go to everyone.
type Event struct {
	Name    string
	Data    any
	Private bool
}

func broadcast(name string, data any) Event {
	return Event{Name: name, Data: data}
}

func private(name string, data any) Event {
	return Event{Name: name, Data: data, Private: true}
}

// Entry is one line of the message log.
type Entry struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Text    string  `json:"text"`
	Time    string  `json:"time"`
	Verdict Verdict `json:"verdict"`
}

// Score is a scoreboard row.
type Score struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Board is the scoreboard payload. Data is always sent; Visible is only a
// hint to the client.
type Board struct {
	Scores  []Score  `json:"scores"`
	Winners []string `json:"winners"`
	Visible bool     `json:"visible"`
}

// RoundStatus is the round payload.
type RoundStatus struct {
	Points int `json:"points"`
}

// Feedback is sent to a submitter whose answer matched.
type Feedback struct {
	Verdict Verdict `json:"verdict"`
	Message string  `json:"message"`
}
