// internal/catalog/normalize.go
//
// Canonicalization tables for abbreviated attribute values.
//
// Usage-ledger snapshots store factions/cultures/banners in the short form
// the original data source used (e.g. "Vlandia"), while the catalog carries
// the canonical long form ("Kingdom of Vlandia"). Comparing the two without
// normalization silently yields false "Wrong" verdicts, so every scorer
// comparison funnels through these lookups first. All lookups are
// idempotent: an already-canonical value maps to itself.

package catalog

var factionCanonical = map[string]string{
	"Vlandia":  "Kingdom of Vlandia",
	"Sturgia":  "Principality of Sturgia",
	"Battania": "Battanian Clans",
	"Khuzait":  "Khuzait Khanate",
	"Aserai":   "Aserai Sultanate",
	"Empire":   "Calradic Empire",
}

var cultureCanonical = map[string]string{
	"Vlandia":  "Vlandian",
	"Sturgia":  "Sturgian",
	"Battania": "Battanian",
	"Khuzait":  "Khuzait",
	"Aserai":   "Aserai",
	"Empire":   "Imperial",
}

var bannerCanonical = map[string]string{
	"Vlandia":  "/banners/vlandia.webp",
	"Sturgia":  "/banners/sturgia.webp",
	"Battania": "/banners/battania.webp",
	"Khuzait":  "/banners/khuzait.webp",
	"Aserai":   "/banners/aserai.webp",
	"Empire":   "/banners/empire.webp",
}

func canon(table map[string]string, v string) string {
	if long, ok := table[v]; ok {
		return long
	}
	return v
}

// CanonicalFaction maps an abbreviated faction name to its long form.
func CanonicalFaction(v string) string { return canon(factionCanonical, v) }

// CanonicalCulture maps an abbreviated culture name to its long form.
func CanonicalCulture(v string) string { return canon(cultureCanonical, v) }

// CanonicalBanner maps an abbreviated banner reference to its image path.
func CanonicalBanner(v string) string { return canon(bannerCanonical, v) }
