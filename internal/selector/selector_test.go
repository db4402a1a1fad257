package selector

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bannerdle/go-server/internal/catalog"
	"github.com/bannerdle/go-server/internal/dbtest"
	"github.com/bannerdle/go-server/internal/ledger"
)

func nameOf(t catalog.Troop) string { return t.Name }

func troops(names ...string) []catalog.Troop {
	out := make([]catalog.Troop, 0, len(names))
	for _, n := range names {
		out = append(out, catalog.Troop{Name: n, Tier: 3, Type: catalog.TypeInfantry})
	}
	return out
}

func TestPickExcludesUsedNames(t *testing.T) {
	entries := troops("A", "B", "C")
	for i := 0; i < 50; i++ {
		picked, wasReset, err := Pick(entries, nameOf, []string{"A", "B"})
		require.NoError(t, err)
		assert.False(t, wasReset)
		assert.Equal(t, "C", picked.Name)
	}
}

func TestPickResetsWhenExhausted(t *testing.T) {
	entries := troops("A", "B", "C")
	picked, wasReset, err := Pick(entries, nameOf, []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.True(t, wasReset)
	// Previously-used names are eligible again.
	assert.Contains(t, []string{"A", "B", "C"}, picked.Name)
}

func TestPickEmptyCatalog(t *testing.T) {
	_, _, err := Pick(nil, nameOf, nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestPickCaseSensitiveAgainstLedger(t *testing.T) {
	// Ledger names are matched verbatim; a case difference does not count
	// as used.
	entries := troops("Alpha")
	picked, wasReset, err := Pick(entries, nameOf, []string{"alpha"})
	require.NoError(t, err)
	assert.False(t, wasReset)
	assert.Equal(t, "Alpha", picked.Name)
}

func TestPickRoughlyUniform(t *testing.T) {
	entries := troops("A", "B", "C")
	counts := map[string]int{}
	const trials = 3000
	for i := 0; i < trials; i++ {
		picked, _, err := Pick(entries, nameOf, nil)
		require.NoError(t, err)
		counts[picked.Name]++
	}
	// Each ~1/3; allow a generous band around the expectation.
	for _, n := range []string{"A", "B", "C"} {
		assert.Greater(t, counts[n], trials/5, "troop %s undersampled: %v", n, counts)
		assert.Less(t, counts[n], trials/2, "troop %s oversampled: %v", n, counts)
	}
}

/* --------------------------- service against sqlite --------------------------- */

func seedTroopCatalog(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, n := range names {
		_, err := db.Exec(
			`INSERT INTO troops (name, tier, type, occupation, faction, culture, banner, image)
			 VALUES (?,?,?,?,?,?,?,?)`,
			n, 3, "Infantry", "Soldier", "Kingdom of Vlandia", "Vlandian", "/banners/vlandia.webp", "/troops/x.webp")
		require.NoError(t, err)
	}
}

func seedAreaCatalog(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for i, n := range names {
		_, err := db.Exec(`INSERT INTO map_areas (name, faction, type, x, y) VALUES (?,?,?,?,?)`,
			n, "Calradic Empire", "Town", 100+10*i, 200)
		require.NoError(t, err)
	}
}

func serviceAt(db *sql.DB, day string) *Service {
	at, _ := time.Parse("2006-01-02", day)
	return New(catalog.NewStore(db), ledger.NewStore(db)).WithClock(func() time.Time { return at })
}

func TestServiceSelectTroopRecordsLedgerRow(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	seedTroopCatalog(t, db, "A", "B", "C")
	led := ledger.NewStore(db)

	picked, wasReset, err := serviceAt(db, "2026-08-31").SelectTroop(ctx)
	require.NoError(t, err)
	assert.False(t, wasReset)

	cur, err := led.CurrentTroop(ctx)
	require.NoError(t, err)
	assert.Equal(t, picked.Name, cur.Name)
	assert.Equal(t, "2026-08-31", cur.UsedDay)
}

func TestServiceSelectTroopSameDayTwice(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	seedTroopCatalog(t, db, "A", "B", "C")

	svc := serviceAt(db, "2026-08-31")
	_, _, err := svc.SelectTroop(ctx)
	require.NoError(t, err)
	_, _, err = svc.SelectTroop(ctx)
	assert.ErrorIs(t, err, ledger.ErrAlreadySelected)
}

func TestServiceSelectTroopNeverRepicksUsed(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	seedTroopCatalog(t, db, "A", "B", "C")
	led := ledger.NewStore(db)

	seen := map[string]bool{}
	for i, day := range []string{"2026-08-29", "2026-08-30", "2026-08-31"} {
		picked, wasReset, err := serviceAt(db, day).SelectTroop(ctx)
		require.NoError(t, err)
		assert.False(t, wasReset, "day %d", i)
		assert.False(t, seen[picked.Name], "repicked %s before exhaustion", picked.Name)
		seen[picked.Name] = true
	}

	names, err := led.UsedTroopNames(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 3)
}

func TestServiceSelectTroopResetsOnExhaustion(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	seedTroopCatalog(t, db, "A", "B")
	led := ledger.NewStore(db)

	for _, day := range []string{"2026-08-29", "2026-08-30"} {
		_, _, err := serviceAt(db, day).SelectTroop(ctx)
		require.NoError(t, err)
	}

	// Catalog exhausted: the next selection clears the ledger first.
	picked, wasReset, err := serviceAt(db, "2026-08-31").SelectTroop(ctx)
	require.NoError(t, err)
	assert.True(t, wasReset)

	names, err := led.UsedTroopNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{picked.Name}, names)
}

func TestServiceSelectTroopSameDayTwiceOnExhaustionDay(t *testing.T) {
	// When today's pick consumed the last unused entry, a re-invocation
	// must not reset the ledger (wiping today's row) and record a
	// replacement answer.
	ctx := context.Background()
	db := dbtest.Open(t)
	seedTroopCatalog(t, db, "A")
	led := ledger.NewStore(db)

	svc := serviceAt(db, "2026-08-31")
	picked, wasReset, err := svc.SelectTroop(ctx)
	require.NoError(t, err)
	assert.False(t, wasReset)

	_, _, err = svc.SelectTroop(ctx)
	assert.ErrorIs(t, err, ledger.ErrAlreadySelected)

	// Today's answer and the usage history both survive.
	cur, err := led.CurrentTroop(ctx)
	require.NoError(t, err)
	assert.Equal(t, picked.Name, cur.Name)
	names, err := led.UsedTroopNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{picked.Name}, names)
}

func TestServiceSelectMapAreaSameDayTwiceOnExhaustionDay(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	seedAreaCatalog(t, db, "Zeonica")

	svc := serviceAt(db, "2026-08-31")
	_, _, err := svc.SelectMapArea(ctx)
	require.NoError(t, err)
	_, _, err = svc.SelectMapArea(ctx)
	assert.ErrorIs(t, err, ledger.ErrAlreadySelected)
}

func TestServiceRunDailyBothModes(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	seedTroopCatalog(t, db, "A", "B")
	seedAreaCatalog(t, db, "Zeonica", "Lycaron")
	led := ledger.NewStore(db)

	svc := serviceAt(db, "2026-08-31")
	require.NoError(t, svc.RunDaily(ctx))

	_, err := led.CurrentTroop(ctx)
	assert.NoError(t, err)
	_, err = led.CurrentMapArea(ctx)
	assert.NoError(t, err)

	// A second run on the same day is a clean no-op.
	require.NoError(t, svc.RunDaily(ctx))
}

func TestServiceRunDailyEmptyCatalogFails(t *testing.T) {
	db := dbtest.Open(t)
	err := serviceAt(db, "2026-08-31").RunDaily(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}
