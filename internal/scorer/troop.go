// internal/scorer/troop.go
//
// Troop-mode guess scoring.
// Compares a guessed troop against the day's answer and produces one
// verdict per hinted attribute. Pure and stateless.

package scorer

import (
	"strings"

	"github.com/bannerdle/go-server/internal/catalog"
)

// Status is the per-attribute verdict of a guess.
// Possible values:
//   - "Same":    attribute matches the answer exactly.
//   - "Wrong":   attribute does not match.
//   - "Partial": near-miss (only the Archer ↔ Mounted Archer type pair).
//   - "Higher":  the answer's tier is above the guess's.
//   - "Lower":   the answer's tier is below the guess's.
type Status string

const (
	StatusSame    Status = "Same"
	StatusWrong   Status = "Wrong"
	StatusPartial Status = "Partial"
	StatusHigher  Status = "Higher"
	StatusLower   Status = "Lower"
)

// TroopVerdict carries one Status per hinted troop attribute.
type TroopVerdict struct {
	NameStatus       Status `json:"nameStatus"`
	TierStatus       Status `json:"tierStatus"`
	TypeStatus       Status `json:"typeStatus"`
	OccupationStatus Status `json:"occupationStatus"`
	FactionStatus    Status `json:"factionStatus"`
	CultureStatus    Status `json:"cultureStatus"`
	BannerStatus     Status `json:"bannerStatus"`
}

// AllSame reports whether every attribute matched.
func (v TroopVerdict) AllSame() bool {
	return v.NameStatus == StatusSame && v.TierStatus == StatusSame &&
		v.TypeStatus == StatusSame && v.OccupationStatus == StatusSame &&
		v.FactionStatus == StatusSame && v.CultureStatus == StatusSame &&
		v.BannerStatus == StatusSame
}

// ScoreTroop compares guess against answer attribute by attribute.
//
// The answer may come from a ledger snapshot holding abbreviated
// faction/culture/banner values; those are canonicalized before comparison
// (catalog.Canonical*). Tier statuses are from the guesser's perspective:
// "Higher" means the secret answer outranks the guess.
func ScoreTroop(guess, answer catalog.Troop) TroopVerdict {
	v := TroopVerdict{
		NameStatus:       eqFold(guess.Name, answer.Name),
		TierStatus:       tierStatus(guess.Tier, answer.Tier),
		TypeStatus:       typeStatus(guess.Type, answer.Type),
		OccupationStatus: eq(guess.Occupation, answer.Occupation),
		FactionStatus:    eq(guess.Faction, catalog.CanonicalFaction(answer.Faction)),
		CultureStatus:    eq(guess.Culture, catalog.CanonicalCulture(answer.Culture)),
		BannerStatus:     eq(guess.Banner, catalog.CanonicalBanner(answer.Banner)),
	}
	return v
}

func eq(a, b string) Status {
	if a == b {
		return StatusSame
	}
	return StatusWrong
}

func eqFold(a, b string) Status {
	if strings.EqualFold(a, b) {
		return StatusSame
	}
	return StatusWrong
}

func tierStatus(guess, answer int) Status {
	switch {
	case answer == guess:
		return StatusSame
	case answer > guess:
		return StatusHigher
	default:
		return StatusLower
	}
}

// typeStatus grants Partial only for the Archer/Mounted Archer pair, in
// either order.
func typeStatus(guess, answer catalog.TroopType) Status {
	if guess == answer {
		return StatusSame
	}
	if (guess == catalog.TypeArcher && answer == catalog.TypeMountedArcher) ||
		(guess == catalog.TypeMountedArcher && answer == catalog.TypeArcher) {
		return StatusPartial
	}
	return StatusWrong
}
