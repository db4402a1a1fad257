// internal/httpserver/routes_selection.go
//
// Daily-selection trigger endpoints.
//   - POST /api/dailyTroopSelection    → idempotent-per-day troop selection
//   - POST /api/dailyMapAreaSelection  → idempotent-per-day map-area selection
//   - POST /api/selectTroop            → manual reroll attempt (admin-gated)
//
// The daily endpoints skip selection when the ledger already holds today's
// row and answer with the current/last pair either way. The manual endpoint
// performs no same-day check of its own; the ledger's per-day uniqueness
// still applies, so a same-day re-invocation reports alreadySelected
// instead of recording a second row.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bannerdle/go-server/internal/ledger"
)

type troopSelectionRes struct {
	Current         *ledger.TroopEntry `json:"current,omitempty"`
	Last            *ledger.TroopEntry `json:"last,omitempty"`
	Skipped         bool               `json:"skipped"`
	WasReset        bool               `json:"wasReset,omitempty"`
	AlreadySelected bool               `json:"alreadySelected,omitempty"`
}

type mapAreaSelectionRes struct {
	Current         *ledger.MapAreaEntry `json:"current,omitempty"`
	Last            *ledger.MapAreaEntry `json:"last,omitempty"`
	Skipped         bool                 `json:"skipped"`
	WasReset        bool                 `json:"wasReset,omitempty"`
	AlreadySelected bool                 `json:"alreadySelected,omitempty"`
}

// handleDailyTroopSelection triggers today's troop selection unless one is
// already recorded.
func (s *Server) handleDailyTroopSelection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	day := ledger.DateKey(s.now())

	res := troopSelectionRes{}
	if done, err := s.ledger.HasTroopDay(ctx, day); err != nil {
		log.Error().Err(err).Msg("troop day check")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	} else if done {
		res.Skipped = true
	}

	if !res.Skipped {
		_, wasReset, err := s.selector.SelectTroop(ctx)
		switch {
		case errors.Is(err, ledger.ErrAlreadySelected):
			// Raced with the scheduler or another caller; treat as done.
			res.Skipped, res.AlreadySelected = true, true
		case err != nil:
			log.Error().Err(err).Msg("daily troop selection")
			http.Error(w, `{"error":"selection_failed"}`, http.StatusInternalServerError)
			return
		default:
			res.WasReset = wasReset
		}
	}

	s.fillTroopSelections(r, &res)
	_ = json.NewEncoder(w).Encode(res)
}

// handleDailyMapAreaSelection mirrors handleDailyTroopSelection for the
// map-area mode.
func (s *Server) handleDailyMapAreaSelection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	day := ledger.DateKey(s.now())

	res := mapAreaSelectionRes{}
	if done, err := s.ledger.HasMapAreaDay(ctx, day); err != nil {
		log.Error().Err(err).Msg("map-area day check")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	} else if done {
		res.Skipped = true
	}

	if !res.Skipped {
		_, wasReset, err := s.selector.SelectMapArea(ctx)
		switch {
		case errors.Is(err, ledger.ErrAlreadySelected):
			res.Skipped, res.AlreadySelected = true, true
		case err != nil:
			log.Error().Err(err).Msg("daily map-area selection")
			http.Error(w, `{"error":"selection_failed"}`, http.StatusInternalServerError)
			return
		default:
			res.WasReset = wasReset
		}
	}

	s.fillMapAreaSelections(r, &res)
	_ = json.NewEncoder(w).Encode(res)
}

// handleSelectTroop is the manual trigger. No same-day skip: it goes
// straight to the selector and lets the ledger's uniqueness answer.
func (s *Server) handleSelectTroop(w http.ResponseWriter, r *http.Request) {
	res := troopSelectionRes{}
	_, wasReset, err := s.selector.SelectTroop(r.Context())
	switch {
	case errors.Is(err, ledger.ErrAlreadySelected):
		res.AlreadySelected = true
	case err != nil:
		log.Error().Err(err).Msg("manual troop selection")
		http.Error(w, `{"error":"selection_failed"}`, http.StatusInternalServerError)
		return
	default:
		res.WasReset = wasReset
	}

	s.fillTroopSelections(r, &res)
	_ = json.NewEncoder(w).Encode(res)
}

// fillTroopSelections attaches the current/last ledger entries. Best
// effort: a missing "last" right after a reset is normal.
func (s *Server) fillTroopSelections(r *http.Request, res *troopSelectionRes) {
	if cur, err := s.ledger.CurrentTroop(r.Context()); err == nil {
		res.Current = &cur
	}
	if last, err := s.ledger.LastTroop(r.Context()); err == nil {
		res.Last = &last
	}
}

func (s *Server) fillMapAreaSelections(r *http.Request, res *mapAreaSelectionRes) {
	if cur, err := s.ledger.CurrentMapArea(r.Context()); err == nil {
		res.Current = &cur
	}
	if last, err := s.ledger.LastMapArea(r.Context()); err == nil {
		res.Last = &last
	}
}
