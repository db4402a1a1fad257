// internal/httpserver/routes_game.go
//
// Guess-checking and session endpoints.
//   - GET /api/checkTroop?name=        → {correct, troopStatus}
//   - GET /api/checkMapArea?name=      → {correct, distance, direction, tier}
//   - GET /api/lastSelection           → yesterday's troop answer
//   - GET /api/lastMapAreaSelection    → yesterday's map-area answer
//   - GET /api/session?mode=           → reconciled per-browser day state
//
// Each check also records the guess in the caller's server-side session
// mirror (keyed by the anonymous cookie), deduplicated per day. The browser
// keeps its own authoritative copy in local storage; a failed check records
// nothing.

package httpserver

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bannerdle/go-server/internal/catalog"
	"github.com/bannerdle/go-server/internal/ledger"
	"github.com/bannerdle/go-server/internal/scorer"
	"github.com/bannerdle/go-server/internal/session"
)

// -----------------------------------------------------------------------------
// /api/checkTroop

type checkTroopRes struct {
	Correct     bool                `json:"correct"`
	TroopStatus scorer.TroopVerdict `json:"troopStatus"`
}

// handleCheckTroop scores a guessed troop against the current daily answer.
// 400 without a name, 404 for an unknown troop, 500 when the ledger is
// unavailable or the current selection row is malformed.
func (s *Server) handleCheckTroop(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, `{"error":"name is required"}`, http.StatusBadRequest)
		return
	}

	guess, err := s.catalog.TroopByName(r.Context(), name)
	if errors.Is(err, catalog.ErrNotFound) {
		http.Error(w, `{"error":"troop not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("troop lookup")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}

	answer, err := s.ledger.CurrentTroop(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("current troop selection")
		http.Error(w, `{"error":"no current selection"}`, http.StatusInternalServerError)
		return
	}
	// Defensive check against a malformed snapshot row.
	if answer.Name == "" || answer.Tier < 1 || answer.Tier > 6 {
		log.Error().Str("name", answer.Name).Int("tier", answer.Tier).Msg("malformed current troop selection")
		http.Error(w, `{"error":"malformed current selection"}`, http.StatusInternalServerError)
		return
	}

	verdict := scorer.ScoreTroop(guess, answer.Troop)
	correct := verdict.NameStatus == scorer.StatusSame

	s.recordGuess(w, r, session.ModeTroop, session.Guess{
		Name:      guess.Name,
		Result:    verdict,
		IsCorrect: correct,
		Timestamp: s.now().UTC(),
	})

	_ = json.NewEncoder(w).Encode(checkTroopRes{Correct: correct, TroopStatus: verdict})
}

// -----------------------------------------------------------------------------
// /api/checkMapArea

// handleCheckMapArea scores a guessed map area against the current daily
// answer. Same error shape as checkTroop, plus 500 when either side lacks
// coordinates.
func (s *Server) handleCheckMapArea(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, `{"error":"name is required"}`, http.StatusBadRequest)
		return
	}

	guess, err := s.catalog.MapAreaByName(r.Context(), name)
	if errors.Is(err, catalog.ErrNotFound) {
		http.Error(w, `{"error":"map area not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("map area lookup")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}

	answer, err := s.ledger.CurrentMapArea(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("current map-area selection")
		http.Error(w, `{"error":"no current selection"}`, http.StatusInternalServerError)
		return
	}

	score, err := scorer.ScoreMapArea(guess, answer.MapArea)
	if errors.Is(err, scorer.ErrNoCoordinates) {
		log.Error().Str("guess", guess.Name).Str("answer", answer.Name).Msg("map area without coordinates")
		http.Error(w, `{"error":"coordinates missing"}`, http.StatusInternalServerError)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"score_failed"}`, http.StatusInternalServerError)
		return
	}

	s.recordGuess(w, r, session.ModeMapArea, session.Guess{
		Name:      guess.Name,
		Result:    score,
		IsCorrect: score.Correct,
		Timestamp: s.now().UTC(),
	})

	_ = json.NewEncoder(w).Encode(score)
}

// -----------------------------------------------------------------------------
// yesterday's answers

// handleLastSelection returns yesterday's troop answer.
func (s *Server) handleLastSelection(w http.ResponseWriter, r *http.Request) {
	e, err := s.ledger.LastTroop(r.Context())
	if errors.Is(err, ledger.ErrNoSelection) {
		http.Error(w, `{"error":"no previous selection"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("last troop selection")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(e)
}

// handleLastMapAreaSelection returns yesterday's map-area answer.
func (s *Server) handleLastMapAreaSelection(w http.ResponseWriter, r *http.Request) {
	e, err := s.ledger.LastMapArea(r.Context())
	if errors.Is(err, ledger.ErrNoSelection) {
		http.Error(w, `{"error":"no previous selection"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("last map-area selection")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(e)
}

// -----------------------------------------------------------------------------
// /api/session

// handleSession returns the caller's reconciled state for one game mode,
// with yesterday's answer attached when available.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r.URL.Query().Get("mode"))
	if !ok {
		http.Error(w, `{"error":"mode must be troop or map-area"}`, http.StatusBadRequest)
		return
	}

	clientID := s.ensureAnonID(w, r)
	st := s.sessions.Get(clientID, mode, s.dayFor(r))

	if st.LastSelection == nil {
		switch mode {
		case session.ModeTroop:
			if e, err := s.ledger.LastTroop(r.Context()); err == nil {
				st.LastSelection = e
			}
		case session.ModeMapArea:
			if e, err := s.ledger.LastMapArea(r.Context()); err == nil {
				st.LastSelection = e
			}
		}
		s.sessions.Put(clientID, mode, st)
	}

	_ = json.NewEncoder(w).Encode(st)
}

func parseMode(v string) (session.Mode, bool) {
	switch session.Mode(v) {
	case session.ModeTroop:
		return session.ModeTroop, true
	case session.ModeMapArea:
		return session.ModeMapArea, true
	}
	return "", false
}

// recordGuess appends a scored guess to the caller's session mirror.
func (s *Server) recordGuess(w http.ResponseWriter, r *http.Request, mode session.Mode, g session.Guess) {
	clientID := s.ensureAnonID(w, r)
	day := s.dayFor(r)
	st := s.sessions.Get(clientID, mode, day)
	s.sessions.Put(clientID, mode, session.AddGuess(st, g))
}

// --------------------------- anonymous cookie -------------------------------

const anonCookieName = "bannerdle_anon"

// ensureAnonID returns an existing anon cookie or sets a new one.
// Used to associate guest sessions with a stable identifier.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := genID()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: func() http.SameSite {
			if s.cfg.Production {
				return http.SameSiteNoneMode
			}
			return http.SameSiteLaxMode
		}(),
		Expires: time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}
