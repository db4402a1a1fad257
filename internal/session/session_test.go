package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func guess(name string, correct bool) Guess {
	return Guess{Name: name, IsCorrect: correct, Timestamp: time.Now()}
}

func TestReconcileKeepsSameDay(t *testing.T) {
	st := NewState("2026-08-31")
	st = AddGuess(st, guess("Khan's Guard", false))

	got := Reconcile(st, "2026-08-31")
	assert.Len(t, got.Guesses, 1)
}

func TestReconcileResetsOnRollover(t *testing.T) {
	st := NewState("2026-08-30")
	st = AddGuess(st, guess("Khan's Guard", false))
	st = AddGuess(st, guess("Imperial Legionary", true))

	got := Reconcile(st, "2026-08-31")
	assert.Equal(t, "2026-08-31", got.CurrentDay)
	assert.Empty(t, got.Guesses)
	assert.Nil(t, got.CorrectGuess)
	assert.Nil(t, got.LastSelection)
}

func TestReconcileIdempotent(t *testing.T) {
	st := Reconcile(NewState("2026-08-30"), "2026-08-31")
	again := Reconcile(st, "2026-08-31")
	assert.Equal(t, st, again)
}

func TestAddGuessDedupesByName(t *testing.T) {
	st := NewState("2026-08-31")
	st = AddGuess(st, guess("Khan's Guard", false))
	st = AddGuess(st, guess("khan's guard", false)) // case-insensitive duplicate
	assert.Len(t, st.Guesses, 1)
}

func TestAddGuessPinsFirstCorrect(t *testing.T) {
	st := NewState("2026-08-31")
	st = AddGuess(st, guess("Khan's Guard", false))
	st = AddGuess(st, guess("Imperial Legionary", true))
	if assert.NotNil(t, st.CorrectGuess) {
		assert.Equal(t, "Imperial Legionary", st.CorrectGuess.Name)
	}

	// A later correct guess does not displace the pinned one.
	st = AddGuess(st, guess("Vlandian Sergeant", true))
	assert.Equal(t, "Imperial Legionary", st.CorrectGuess.Name)
}

func TestStoreRollsOverOnRead(t *testing.T) {
	s := NewStore()
	st := s.Get("client-1", ModeTroop, "2026-08-30")
	s.Put("client-1", ModeTroop, AddGuess(st, guess("Khan's Guard", false)))

	// Next day: the very next read returns a fresh state.
	got := s.Get("client-1", ModeTroop, "2026-08-31")
	assert.Empty(t, got.Guesses)
	assert.Equal(t, "2026-08-31", got.CurrentDay)
}

func TestStoreIsolatesModesAndClients(t *testing.T) {
	s := NewStore()
	st := s.Get("client-1", ModeTroop, "2026-08-31")
	s.Put("client-1", ModeTroop, AddGuess(st, guess("Khan's Guard", false)))

	assert.Empty(t, s.Get("client-1", ModeMapArea, "2026-08-31").Guesses)
	assert.Empty(t, s.Get("client-2", ModeTroop, "2026-08-31").Guesses)
	assert.Len(t, s.Get("client-1", ModeTroop, "2026-08-31").Guesses, 1)
}
