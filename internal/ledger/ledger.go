// internal/ledger/ledger.go
//
// Append-only usage ledger for daily selections.
//
// One table per game mode (used_troops / used_map_areas). Each row is a
// denormalized snapshot of the catalog entry at selection time plus the
// selection timestamp, so the daily answer stays stable even if the
// catalog is edited later. Rows are never updated; the only delete is the
// full per-mode reset when the catalog is exhausted.
//
// Ordering convention: rows sorted by used_date descending; row 0 is the
// current answer, row 1 is yesterday's.
//
// Each table carries UNIQUE(used_day). Appending a second row for the same
// calendar day fails with ErrAlreadySelected, which closes the race between
// the scheduled and manually-triggered selection paths at the store.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bannerdle/go-server/internal/catalog"
)

var (
	// ErrAlreadySelected is returned by Append* when a selection already
	// exists for the same calendar day.
	ErrAlreadySelected = errors.New("ledger: already selected today")

	// ErrNoSelection is returned by Current*/Last* when the ledger does not
	// hold enough rows.
	ErrNoSelection = errors.New("ledger: no selection recorded")
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// TroopEntry is one historical troop selection.
type TroopEntry struct {
	catalog.Troop
	UsedDate time.Time `json:"usedDate"`
	UsedDay  string    `json:"usedDay"`
}

// MapAreaEntry is one historical map-area selection.
type MapAreaEntry struct {
	catalog.MapArea
	UsedDate time.Time `json:"usedDate"`
	UsedDay  string    `json:"usedDay"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

/* ------------------------------- troops -------------------------------- */

// AppendTroop records a troop selection for the day containing at.
func (s *Store) AppendTroop(ctx context.Context, t catalog.Troop, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO used_troops
		     (name, tier, type, occupation, faction, culture, banner, image, used_date, used_day)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		t.Name, t.Tier, t.Type, t.Occupation, t.Faction, t.Culture, t.Banner, t.Image,
		at.UTC().Format(time.RFC3339), DateKey(at),
	)
	if err != nil {
		return err
	}
	return appended(res)
}

// CurrentTroop returns the most recent selection.
func (s *Store) CurrentTroop(ctx context.Context) (TroopEntry, error) {
	return s.troopAt(ctx, 0)
}

// LastTroop returns the second most recent selection (yesterday's answer).
func (s *Store) LastTroop(ctx context.Context) (TroopEntry, error) {
	return s.troopAt(ctx, 1)
}

func (s *Store) troopAt(ctx context.Context, ordinal int) (TroopEntry, error) {
	var e TroopEntry
	var used string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, tier, type, occupation, faction, culture, banner, image, used_date, used_day
		 FROM used_troops ORDER BY used_date DESC LIMIT 1 OFFSET ?`, ordinal,
	).Scan(&e.Name, &e.Tier, &e.Type, &e.Occupation, &e.Faction, &e.Culture,
		&e.Banner, &e.Image, &used, &e.UsedDay)
	if errors.Is(err, sql.ErrNoRows) {
		return TroopEntry{}, ErrNoSelection
	}
	if err != nil {
		return TroopEntry{}, err
	}
	if e.UsedDate, err = time.Parse(time.RFC3339, used); err != nil {
		return TroopEntry{}, fmt.Errorf("malformed used_date %q: %w", used, err)
	}
	return e, nil
}

// UsedTroopNames lists every name recorded in the troop ledger.
func (s *Store) UsedTroopNames(ctx context.Context) ([]string, error) {
	return s.names(ctx, `SELECT name FROM used_troops`)
}

// ResetTroops deletes every troop ledger row. Used only when the catalog
// is exhausted.
func (s *Store) ResetTroops(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM used_troops`)
	return err
}

// HasTroopDay reports whether a selection exists for the given date key.
func (s *Store) HasTroopDay(ctx context.Context, day string) (bool, error) {
	return s.hasDay(ctx, `SELECT COUNT(1) FROM used_troops WHERE used_day=?`, day)
}

/* ------------------------------ map areas ------------------------------ */

// AppendMapArea records a map-area selection for the day containing at.
func (s *Store) AppendMapArea(ctx context.Context, m catalog.MapArea, at time.Time) error {
	var x, y any
	if m.HasCoordinates() {
		x, y = *m.X, *m.Y
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO used_map_areas (name, faction, type, x, y, used_date, used_day)
		 VALUES (?,?,?,?,?,?,?)`,
		m.Name, m.Faction, m.Type, x, y,
		at.UTC().Format(time.RFC3339), DateKey(at),
	)
	if err != nil {
		return err
	}
	return appended(res)
}

// CurrentMapArea returns the most recent selection.
func (s *Store) CurrentMapArea(ctx context.Context) (MapAreaEntry, error) {
	return s.mapAreaAt(ctx, 0)
}

// LastMapArea returns the second most recent selection.
func (s *Store) LastMapArea(ctx context.Context) (MapAreaEntry, error) {
	return s.mapAreaAt(ctx, 1)
}

func (s *Store) mapAreaAt(ctx context.Context, ordinal int) (MapAreaEntry, error) {
	var e MapAreaEntry
	var x, y sql.NullFloat64
	var used string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, faction, type, x, y, used_date, used_day
		 FROM used_map_areas ORDER BY used_date DESC LIMIT 1 OFFSET ?`, ordinal,
	).Scan(&e.Name, &e.Faction, &e.Type, &x, &y, &used, &e.UsedDay)
	if errors.Is(err, sql.ErrNoRows) {
		return MapAreaEntry{}, ErrNoSelection
	}
	if err != nil {
		return MapAreaEntry{}, err
	}
	if x.Valid && y.Valid {
		e.X, e.Y = &x.Float64, &y.Float64
	}
	if e.UsedDate, err = time.Parse(time.RFC3339, used); err != nil {
		return MapAreaEntry{}, fmt.Errorf("malformed used_date %q: %w", used, err)
	}
	return e, nil
}

// UsedMapAreaNames lists every name recorded in the map-area ledger.
func (s *Store) UsedMapAreaNames(ctx context.Context) ([]string, error) {
	return s.names(ctx, `SELECT name FROM used_map_areas`)
}

// ResetMapAreas deletes every map-area ledger row.
func (s *Store) ResetMapAreas(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM used_map_areas`)
	return err
}

// HasMapAreaDay reports whether a selection exists for the given date key.
func (s *Store) HasMapAreaDay(ctx context.Context, day string) (bool, error) {
	return s.hasDay(ctx, `SELECT COUNT(1) FROM used_map_areas WHERE used_day=?`, day)
}

/* ------------------------------- shared -------------------------------- */

// appended maps an ignored insert (UNIQUE(used_day) hit) to ErrAlreadySelected.
func appended(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadySelected
	}
	return nil
}

func (s *Store) names(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) hasDay(ctx context.Context, query, day string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx, query, day).Scan(&cnt)
	return cnt > 0, err
}
