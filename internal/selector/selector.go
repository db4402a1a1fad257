// internal/selector/selector.go
//
// Daily answer selection.
// Responsibilities:
//   - Pick: pure uniform-random choice of an unused catalog entry, with a
//     full-catalog fallback once every entry has been used.
//   - Service: orchestrates read-used → pick → reset-if-exhausted → append
//     against the catalog and ledger stores, per game mode.
//
// On the normal path the ledger's UNIQUE(used_day) surfaces a same-day
// re-invocation as ledger.ErrAlreadySelected, which callers treat as
// "selection already exists, nothing to do". On catalog exhaustion the
// reset would delete today's row before the constraint could fire, so the
// service checks HasDay for today before resetting.

package selector

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bannerdle/go-server/internal/catalog"
	"github.com/bannerdle/go-server/internal/ledger"
)

// ErrEmptyCatalog is returned when there is nothing to select from.
var ErrEmptyCatalog = errors.New("selector: catalog is empty")

// Pick chooses one entry uniformly at random from the entries whose name is
// not in used (case-sensitive match, as the ledger stores names verbatim).
// When every entry has been used it reports wasReset=true and picks from the
// full list instead, so previously-used entries become eligible again.
func Pick[T any](entries []T, nameOf func(T) string, used []string) (picked T, wasReset bool, err error) {
	var zero T
	if len(entries) == 0 {
		return zero, false, ErrEmptyCatalog
	}

	usedSet := make(map[string]struct{}, len(used))
	for _, n := range used {
		usedSet[n] = struct{}{}
	}
	available := make([]T, 0, len(entries))
	for _, e := range entries {
		if _, ok := usedSet[nameOf(e)]; !ok {
			available = append(available, e)
		}
	}

	if len(available) == 0 {
		available = entries
		wasReset = true
	}
	return available[randomIndex(len(available))], wasReset, nil
}

// randomIndex returns a uniform index in [0, n) from crypto/rand.
func randomIndex(n int) int {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failing means the platform RNG is broken; nothing
		// sensible to recover to.
		panic(fmt.Sprintf("selector: rand: %v", err))
	}
	return int(i.Int64())
}

// Service runs daily selection against the backing stores.
type Service struct {
	catalog *catalog.Store
	ledger  *ledger.Store
	now     func() time.Time
}

func New(cat *catalog.Store, led *ledger.Store) *Service {
	return &Service{catalog: cat, ledger: led, now: time.Now}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SelectTroop picks and records today's troop.
// Returns ledger.ErrAlreadySelected unchanged when a selection for today
// already exists.
func (s *Service) SelectTroop(ctx context.Context) (catalog.Troop, bool, error) {
	troops, err := s.catalog.AllTroops(ctx)
	if err != nil {
		return catalog.Troop{}, false, fmt.Errorf("read troop catalog: %w", err)
	}
	used, err := s.ledger.UsedTroopNames(ctx)
	if err != nil {
		return catalog.Troop{}, false, fmt.Errorf("read used troops: %w", err)
	}

	picked, wasReset, err := Pick(troops, func(t catalog.Troop) string { return t.Name }, used)
	if err != nil {
		return catalog.Troop{}, false, err
	}
	if wasReset {
		// The reset wipes today's row along with the rest, so the unique-day
		// constraint cannot catch a same-day re-invocation here. Check first.
		done, err := s.ledger.HasTroopDay(ctx, ledger.DateKey(s.now()))
		if err != nil {
			return catalog.Troop{}, false, fmt.Errorf("check troop day: %w", err)
		}
		if done {
			return catalog.Troop{}, false, ledger.ErrAlreadySelected
		}
		log.Info().Int("catalog", len(troops)).Msg("troop catalog exhausted, resetting ledger")
		if err := s.ledger.ResetTroops(ctx); err != nil {
			return catalog.Troop{}, false, fmt.Errorf("reset troop ledger: %w", err)
		}
	}
	if err := s.ledger.AppendTroop(ctx, picked, s.now()); err != nil {
		return catalog.Troop{}, wasReset, err
	}
	log.Info().Str("troop", picked.Name).Bool("reset", wasReset).Msg("daily troop selected")
	return picked, wasReset, nil
}

// SelectMapArea picks and records today's map area.
func (s *Service) SelectMapArea(ctx context.Context) (catalog.MapArea, bool, error) {
	areas, err := s.catalog.AllMapAreas(ctx)
	if err != nil {
		return catalog.MapArea{}, false, fmt.Errorf("read map-area catalog: %w", err)
	}
	used, err := s.ledger.UsedMapAreaNames(ctx)
	if err != nil {
		return catalog.MapArea{}, false, fmt.Errorf("read used map areas: %w", err)
	}

	picked, wasReset, err := Pick(areas, func(m catalog.MapArea) string { return m.Name }, used)
	if err != nil {
		return catalog.MapArea{}, false, err
	}
	if wasReset {
		done, err := s.ledger.HasMapAreaDay(ctx, ledger.DateKey(s.now()))
		if err != nil {
			return catalog.MapArea{}, false, fmt.Errorf("check map-area day: %w", err)
		}
		if done {
			return catalog.MapArea{}, false, ledger.ErrAlreadySelected
		}
		log.Info().Int("catalog", len(areas)).Msg("map-area catalog exhausted, resetting ledger")
		if err := s.ledger.ResetMapAreas(ctx); err != nil {
			return catalog.MapArea{}, false, fmt.Errorf("reset map-area ledger: %w", err)
		}
	}
	if err := s.ledger.AppendMapArea(ctx, picked, s.now()); err != nil {
		return catalog.MapArea{}, wasReset, err
	}
	log.Info().Str("mapArea", picked.Name).Bool("reset", wasReset).Msg("daily map area selected")
	return picked, wasReset, nil
}

// RunDaily selects for both game modes sequentially. A mode that already
// has today's selection is skipped; any other failure aborts.
func (s *Service) RunDaily(ctx context.Context) error {
	if _, _, err := s.SelectTroop(ctx); err != nil && !errors.Is(err, ledger.ErrAlreadySelected) {
		return fmt.Errorf("select troop: %w", err)
	}
	if _, _, err := s.SelectMapArea(ctx); err != nil && !errors.Is(err, ledger.ErrAlreadySelected) {
		return fmt.Errorf("select map area: %w", err)
	}
	return nil
}
