package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bannerdle/go-server/internal/catalog"
	"github.com/bannerdle/go-server/internal/dbtest"
)

func troop(name string) catalog.Troop {
	return catalog.Troop{
		Name: name, Tier: 5, Type: catalog.TypeInfantry, Occupation: "Soldier",
		Faction: "Vlandia", Culture: "Vlandia", Banner: "Vlandia", Image: "/troops/x.webp",
	}
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestTroopLedgerOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.Open(t))

	_, err := s.CurrentTroop(ctx)
	assert.ErrorIs(t, err, ErrNoSelection)

	require.NoError(t, s.AppendTroop(ctx, troop("Vlandian Sergeant"), day("2026-08-30")))
	require.NoError(t, s.AppendTroop(ctx, troop("Khan's Guard"), day("2026-08-31")))

	cur, err := s.CurrentTroop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Khan's Guard", cur.Name)
	assert.Equal(t, "2026-08-31", cur.UsedDay)

	last, err := s.LastTroop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Vlandian Sergeant", last.Name)
}

func TestTroopLedgerRejectsSecondSelectionSameDay(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.Open(t))

	require.NoError(t, s.AppendTroop(ctx, troop("Vlandian Sergeant"), day("2026-08-31")))
	err := s.AppendTroop(ctx, troop("Khan's Guard"), day("2026-08-31"))
	assert.ErrorIs(t, err, ErrAlreadySelected)

	// The first row survives untouched.
	cur, err := s.CurrentTroop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Vlandian Sergeant", cur.Name)

	names, err := s.UsedTroopNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vlandian Sergeant"}, names)
}

func TestTroopLedgerReset(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.Open(t))

	require.NoError(t, s.AppendTroop(ctx, troop("A"), day("2026-08-29")))
	require.NoError(t, s.AppendTroop(ctx, troop("B"), day("2026-08-30")))
	require.NoError(t, s.ResetTroops(ctx))

	names, err := s.UsedTroopNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
	_, err = s.CurrentTroop(ctx)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestHasTroopDay(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.Open(t))

	has, err := s.HasTroopDay(ctx, "2026-08-31")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.AppendTroop(ctx, troop("A"), day("2026-08-31")))
	has, err = s.HasTroopDay(ctx, "2026-08-31")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestMapAreaLedgerRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.Open(t))

	x, y := 536.0, 449.0
	m := catalog.MapArea{Name: "Zeonica", Faction: "Empire", Type: catalog.SettlementTown, X: &x, Y: &y}
	require.NoError(t, s.AppendMapArea(ctx, m, day("2026-08-31")))

	cur, err := s.CurrentMapArea(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Zeonica", cur.Name)
	require.True(t, cur.HasCoordinates())
	assert.Equal(t, 536.0, *cur.X)
	assert.Equal(t, 449.0, *cur.Y)

	err = s.AppendMapArea(ctx, m, day("2026-08-31"))
	assert.ErrorIs(t, err, ErrAlreadySelected)
}

func TestMapAreaLedgerNilCoordinates(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.Open(t))

	m := catalog.MapArea{Name: "Vath Hall", Faction: "Battania", Type: catalog.SettlementCastle}
	require.NoError(t, s.AppendMapArea(ctx, m, day("2026-08-31")))

	cur, err := s.CurrentMapArea(ctx)
	require.NoError(t, err)
	assert.False(t, cur.HasCoordinates())
}

func TestLedgerRejectsMalformedStoredDate(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	s := NewStore(db)

	_, err := db.Exec(
		`INSERT INTO used_troops (name, tier, type, occupation, faction, culture, banner, image, used_date, used_day)
		 VALUES ('A', 5, 'Infantry', 'Soldier', 'Vlandia', 'Vlandia', 'Vlandia', '/troops/x.webp', 'yesterday-ish', '2026-08-31')`)
	require.NoError(t, err)
	_, err = db.Exec(
		`INSERT INTO used_map_areas (name, faction, type, x, y, used_date, used_day)
		 VALUES ('Zeonica', 'Empire', 'Town', 536, 449, 'yesterday-ish', '2026-08-31')`)
	require.NoError(t, err)

	// A corrupt timestamp surfaces instead of scanning as the zero time.
	_, err = s.CurrentTroop(ctx)
	assert.ErrorContains(t, err, "malformed used_date")
	_, err = s.CurrentMapArea(ctx)
	assert.ErrorContains(t, err, "malformed used_date")
}

func TestDateKeyUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 03:00 on Sep 1 in UTC+10 is still Aug 31 in UTC.
	assert.Equal(t, "2026-08-31", DateKey(time.Date(2026, 9, 1, 3, 0, 0, 0, loc)))
}
