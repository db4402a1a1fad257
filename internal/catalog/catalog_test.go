package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bannerdle/go-server/internal/catalog"
	"github.com/bannerdle/go-server/internal/dbtest"
)

func TestCanonicalLookupsAreIdempotent(t *testing.T) {
	assert.Equal(t, "Kingdom of Vlandia", catalog.CanonicalFaction("Vlandia"))
	assert.Equal(t, "Kingdom of Vlandia", catalog.CanonicalFaction("Kingdom of Vlandia"))
	assert.Equal(t, "Vlandian", catalog.CanonicalCulture("Vlandia"))
	assert.Equal(t, "/banners/khuzait.webp", catalog.CanonicalBanner("Khuzait"))
	// Unknown values pass through unchanged.
	assert.Equal(t, "Looters", catalog.CanonicalFaction("Looters"))
}

func TestSeedPopulatesEmptyTables(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	require.NoError(t, catalog.Seed(ctx, db))

	store := catalog.NewStore(db)
	troops, err := store.AllTroops(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, troops)

	areas, err := store.AllMapAreas(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, areas)

	// Seeding again must not duplicate rows.
	require.NoError(t, catalog.Seed(ctx, db))
	again, err := store.AllTroops(ctx)
	require.NoError(t, err)
	assert.Len(t, again, len(troops))
}

func TestTroopLookupCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	require.NoError(t, catalog.Seed(ctx, db))
	store := catalog.NewStore(db)

	troop, err := store.TroopByName(ctx, "khan's guard")
	require.NoError(t, err)
	assert.Equal(t, "Khan's Guard", troop.Name)
	assert.Equal(t, catalog.TypeMountedArcher, troop.Type)
	assert.Equal(t, 6, troop.Tier)

	_, err = store.TroopByName(ctx, "No Such Troop")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestAllTroopsOrderedByName(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	require.NoError(t, catalog.Seed(ctx, db))

	troops, err := catalog.NewStore(db).AllTroops(ctx)
	require.NoError(t, err)
	for i := 1; i < len(troops); i++ {
		assert.LessOrEqual(t, troops[i-1].Name, troops[i].Name)
	}
}

func TestMapAreaLookup(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	require.NoError(t, catalog.Seed(ctx, db))
	store := catalog.NewStore(db)

	area, err := store.MapAreaByName(ctx, "zeonica")
	require.NoError(t, err)
	assert.Equal(t, "Zeonica", area.Name)
	assert.True(t, area.HasCoordinates())

	// Vath Hall ships without coordinates.
	noCoords, err := store.MapAreaByName(ctx, "Vath Hall")
	require.NoError(t, err)
	assert.False(t, noCoords.HasCoordinates())

	_, err = store.MapAreaByName(ctx, "Atlantis")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestSettlementsByTypeSkipsUnmapped(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	require.NoError(t, catalog.Seed(ctx, db))
	store := catalog.NewStore(db)

	castles, err := store.SettlementsByType(ctx, catalog.SettlementCastle)
	require.NoError(t, err)
	require.NotEmpty(t, castles)
	for _, c := range castles {
		assert.Equal(t, catalog.SettlementCastle, c.Type)
		assert.Greater(t, c.Radius, 0.0)
		// Vath Hall has no coordinates and must not appear.
		assert.NotEqual(t, "Vath Hall", c.Name)
	}
}
