// internal/httpserver/routes_catalog.go
//
// Read-only catalog endpoints.
//   - GET /api/troops[?name=]       → one troop or the full list (by name)
//   - GET /api/map-areas[?name=]    → one map area or the full list
//   - GET /api/settlements?type=    → map areas reshaped for map rendering

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bannerdle/go-server/internal/catalog"
)

// handleTroops serves a single troop by name (404 if absent) or, with no
// name parameter, the whole catalog ordered by name.
func (s *Server) handleTroops(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		t, err := s.catalog.TroopByName(r.Context(), name)
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, `{"error":"troop not found"}`, http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error().Err(err).Str("name", name).Msg("troop lookup")
			http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(t)
		return
	}

	troops, err := s.catalog.AllTroops(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list troops")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(troops)
}

// handleMapAreas mirrors handleTroops for the map-area catalog.
func (s *Server) handleMapAreas(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		m, err := s.catalog.MapAreaByName(r.Context(), name)
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, `{"error":"map area not found"}`, http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error().Err(err).Str("name", name).Msg("map area lookup")
			http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(m)
		return
	}

	areas, err := s.catalog.AllMapAreas(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list map areas")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(areas)
}

// handleSettlements returns map areas of one type in the rendering-friendly
// shape (concrete coordinates plus a fixed display radius).
func (s *Server) handleSettlements(w http.ResponseWriter, r *http.Request) {
	st := catalog.SettlementType(r.URL.Query().Get("type"))
	switch st {
	case catalog.SettlementCastle, catalog.SettlementTown, catalog.SettlementVillage:
	default:
		http.Error(w, `{"error":"type must be Castle, Town or Village"}`, http.StatusBadRequest)
		return
	}

	out, err := s.catalog.SettlementsByType(r.Context(), st)
	if err != nil {
		log.Error().Err(err).Str("type", string(st)).Msg("list settlements")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if out == nil {
		out = []catalog.Settlement{}
	}
	_ = json.NewEncoder(w).Encode(out)
}
