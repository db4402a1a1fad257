// internal/catalog/store.go
//
// SQLite-backed read access to the troop and map-area catalogs.
// The catalogs are reference data: seeded once at startup, read-only at
// runtime. All lookups by name are case-insensitive.

package catalog

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound is returned for a name lookup with no matching row.
var ErrNotFound = errors.New("catalog: not found")

// settlementRadius is the fixed display radius /api/settlements attaches
// to every area for map rendering.
const settlementRadius = 8.0

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AllTroops returns the full troop catalog ordered by name.
func (s *Store) AllTroops(ctx context.Context) ([]Troop, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, tier, type, occupation, faction, culture, banner, image
		 FROM troops ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Troop
	for rows.Next() {
		var t Troop
		if err := rows.Scan(&t.Name, &t.Tier, &t.Type, &t.Occupation,
			&t.Faction, &t.Culture, &t.Banner, &t.Image); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TroopByName looks up a single troop, case-insensitively.
func (s *Store) TroopByName(ctx context.Context, name string) (Troop, error) {
	var t Troop
	err := s.db.QueryRowContext(ctx,
		`SELECT name, tier, type, occupation, faction, culture, banner, image
		 FROM troops WHERE lower(name)=lower(?)`, name,
	).Scan(&t.Name, &t.Tier, &t.Type, &t.Occupation,
		&t.Faction, &t.Culture, &t.Banner, &t.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return Troop{}, ErrNotFound
	}
	return t, err
}

// AllMapAreas returns the full map-area catalog ordered by name.
func (s *Store) AllMapAreas(ctx context.Context) ([]MapArea, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, faction, type, x, y FROM map_areas ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MapArea
	for rows.Next() {
		m, err := scanMapArea(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MapAreaByName looks up a single map area, case-insensitively.
func (s *Store) MapAreaByName(ctx context.Context, name string) (MapArea, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, faction, type, x, y FROM map_areas WHERE lower(name)=lower(?)`, name)
	m, err := scanMapArea(row)
	if errors.Is(err, sql.ErrNoRows) {
		return MapArea{}, ErrNotFound
	}
	return m, err
}

// SettlementsByType reshapes map areas of one settlement type into the
// map-rendering form. Areas without coordinates are skipped: they cannot
// be drawn.
func (s *Store) SettlementsByType(ctx context.Context, st SettlementType) ([]Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, faction, type, x, y FROM map_areas WHERE type=? ORDER BY name ASC`, st)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Settlement
	for rows.Next() {
		m, err := scanMapArea(rows)
		if err != nil {
			return nil, err
		}
		if !m.HasCoordinates() {
			continue
		}
		out = append(out, Settlement{
			Name: m.Name, Type: m.Type, X: *m.X, Y: *m.Y, Radius: settlementRadius,
		})
	}
	return out, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

func scanMapArea(row scanner) (MapArea, error) {
	var m MapArea
	var x, y sql.NullFloat64
	if err := row.Scan(&m.Name, &m.Faction, &m.Type, &x, &y); err != nil {
		return MapArea{}, err
	}
	if x.Valid && y.Valid {
		m.X, m.Y = &x.Float64, &y.Float64
	}
	return m, nil
}
