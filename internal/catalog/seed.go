// internal/catalog/seed.go
//
// Embedded seed data for both catalogs.
//
// Responsibilities:
//   - Embed troops.json / map_areas.json so the server runs with no
//     external data files configured.
//   - Seed(db): insert the embedded data when a catalog table is empty.
//
// Environment variables:
//   CATALOG_TROOPS_FILE=/path/to/troops.json      (optional override)
//   CATALOG_MAP_AREAS_FILE=/path/to/map_areas.json (optional override)
//
// Seeding is idempotent: a non-empty table is left untouched, so the
// hosted catalog survives restarts and manual edits.

package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed troops.json
var embeddedTroops []byte

//go:embed map_areas.json
var embeddedMapAreas []byte

// Seed populates empty catalog tables from the embedded (or overridden)
// JSON data. Returns an error if either decoded list is empty.
func Seed(ctx context.Context, db *sql.DB) error {
	troops, err := loadList[Troop](os.Getenv("CATALOG_TROOPS_FILE"), embeddedTroops)
	if err != nil {
		return fmt.Errorf("load troops: %w", err)
	}
	areas, err := loadList[MapArea](os.Getenv("CATALOG_MAP_AREAS_FILE"), embeddedMapAreas)
	if err != nil {
		return fmt.Errorf("load map areas: %w", err)
	}
	if len(troops) == 0 || len(areas) == 0 {
		return fmt.Errorf("catalog seed data is empty (troops=%d, areas=%d)", len(troops), len(areas))
	}

	if err := seedTroops(ctx, db, troops); err != nil {
		return fmt.Errorf("seed troops: %w", err)
	}
	if err := seedMapAreas(ctx, db, areas); err != nil {
		return fmt.Errorf("seed map areas: %w", err)
	}
	return nil
}

func loadList[T any](path string, embedded []byte) ([]T, error) {
	data := embedded
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func seedTroops(ctx context.Context, db *sql.DB, troops []Troop) error {
	var cnt int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM troops`).Scan(&cnt); err != nil {
		return err
	}
	if cnt > 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, t := range troops {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO troops (name, tier, type, occupation, faction, culture, banner, image)
			 VALUES (?,?,?,?,?,?,?,?)`,
			t.Name, t.Tier, t.Type, t.Occupation, t.Faction, t.Culture, t.Banner, t.Image,
		); err != nil {
			return fmt.Errorf("insert troop %q: %w", t.Name, err)
		}
	}
	return tx.Commit()
}

func seedMapAreas(ctx context.Context, db *sql.DB, areas []MapArea) error {
	var cnt int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM map_areas`).Scan(&cnt); err != nil {
		return err
	}
	if cnt > 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, m := range areas {
		var x, y any
		if m.HasCoordinates() {
			x, y = *m.X, *m.Y
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO map_areas (name, faction, type, x, y) VALUES (?,?,?,?,?)`,
			m.Name, m.Faction, m.Type, x, y,
		); err != nil {
			return fmt.Errorf("insert map area %q: %w", m.Name, err)
		}
	}
	return tx.Commit()
}
