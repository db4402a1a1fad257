// internal/catalog/types.go
//
// Core type definitions for the Bannerdle reference catalogs.
// Defines:
//   - Troop: one guessable troop with its hint attributes.
//   - MapArea: one guessable settlement with optional map coordinates.
//   - TroopType / SettlementType: the enumerated attribute values.

package catalog

// TroopType is the combat role of a troop.
// Archer and Mounted Archer are the one pair the scorer treats as a
// partial match; every other unequal pair is simply wrong.
type TroopType string

const (
	TypeInfantry      TroopType = "Infantry"
	TypeCavalry       TroopType = "Cavalry"
	TypeArcher        TroopType = "Archer"
	TypeMountedArcher TroopType = "Mounted Archer"
)

// SettlementType classifies a map area.
type SettlementType string

const (
	SettlementCastle  SettlementType = "Castle"
	SettlementTown    SettlementType = "Town"
	SettlementVillage SettlementType = "Village"
)

// Troop is one entry of the troop catalog. Immutable reference data;
// Name is the sole identity key (compared case-insensitively).
type Troop struct {
	Name       string    `json:"name"`
	Tier       int       `json:"tier"` // 1–6
	Type       TroopType `json:"type"`
	Occupation string    `json:"occupation"`
	Faction    string    `json:"faction"` // canonical long form, e.g. "Kingdom of Vlandia"
	Culture    string    `json:"culture"`
	Banner     string    `json:"banner"` // image path
	Image      string    `json:"image"`  // image path
}

// MapArea is one entry of the map-area catalog.
// X/Y live on the 0–1000 map grid; y grows southward (screen orientation).
// Coordinates are optional: a few areas in the source data lack them.
type MapArea struct {
	Name    string         `json:"name"`
	Faction string         `json:"faction"`
	Type    SettlementType `json:"type"`
	X       *float64       `json:"x,omitempty"`
	Y       *float64       `json:"y,omitempty"`
}

// HasCoordinates reports whether the area can participate in
// distance/direction scoring.
func (m MapArea) HasCoordinates() bool { return m.X != nil && m.Y != nil }

// Settlement is the map-rendering shape returned by /api/settlements:
// a map area flattened to concrete coordinates plus a fixed display radius.
type Settlement struct {
	Name   string         `json:"name"`
	Type   SettlementType `json:"type"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Radius float64        `json:"radius"`
}
