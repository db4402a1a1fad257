// internal/session/session.go
//
// Per-browser, per-day game session state.
//
// The browser's local storage is the source of truth for this structure;
// the server keeps a mirror keyed by the anonymous client cookie so
// GET /api/session can rehydrate a client. Day rollover is implicit: every
// read reconciles the stored state against the caller's current date and
// returns a fresh state when the day has changed. No expiry job exists.

package session

import (
	"strings"
	"time"
)

// Guess is one user submission with its computed verdict.
type Guess struct {
	Name      string    `json:"name"`
	Result    any       `json:"result"` // scorer.TroopVerdict or scorer.MapAreaScore
	IsCorrect bool      `json:"isCorrect"`
	Timestamp time.Time `json:"timestamp"`
}

// State is the per-mode session for one calendar day.
type State struct {
	CurrentDay    string  `json:"currentDay"`
	Guesses       []Guess `json:"guesses"`
	CorrectGuess  *Guess  `json:"correctGuess,omitempty"`
	LastSelection any     `json:"lastSelection,omitempty"` // cached copy of yesterday's answer
	ShowIndicator bool    `json:"showIndicator"`
}

// NewState returns the empty state for a day.
func NewState(day string) State {
	return State{CurrentDay: day, Guesses: []Guess{}, ShowIndicator: true}
}

// Reconcile returns st unchanged while the day matches, or a fresh state
// for today. Pure; called on every read so no client-side timer is needed.
func Reconcile(st State, today string) State {
	if st.CurrentDay != today {
		return NewState(today)
	}
	return st
}

// AddGuess appends g unless its name was already guessed today
// (case-insensitive; a name appears at most once per session). The first
// correct guess is pinned as CorrectGuess and never cleared except by day
// rollover.
func AddGuess(st State, g Guess) State {
	for _, prev := range st.Guesses {
		if strings.EqualFold(prev.Name, g.Name) {
			return st
		}
	}
	st.Guesses = append(st.Guesses, g)
	if g.IsCorrect && st.CorrectGuess == nil {
		st.CorrectGuess = &g
	}
	return st
}
