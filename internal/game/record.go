package game

import "time"

// SchemaVersion is bumped whenever PlayerRecord gains fields. Records written
// by older versions are back-filled once, inside normalize, when loaded.
const SchemaVersion = 1

// Resource is one of the seven farmable goods.
type Resource string

const (
	Wheat     Resource = "wheat"
	Wood      Resource = "wood"
	Stone     Resource = "stone"
	Hardwood  Resource = "hardwood"
	IronOre   Resource = "iron_ore"
	SilverOre Resource = "silver_ore"
	GoldOre   Resource = "gold_ore"
)

// Resources lists every farmable resource in display order.
var Resources = []Resource{Wheat, Wood, Stone, Hardwood, IronOre, SilverOre, GoldOre}

// Treasure is a rare drop found while farming.
type Treasure string

const (
	Cucumber     Treasure = "cucumber"
	Candy        Treasure = "candy"
	Weed         Treasure = "weed"
	RareArtifact Treasure = "rare_artifact"
)

var Treasures = []Treasure{Cucumber, Candy, Weed, RareArtifact}

// PlayerRecord is the full durable state for one player. All mutation goes
// through Store.Update so the record is only ever touched under its per-player
// lock.
type PlayerRecord struct {
	Schema      int    `json:"schema"`
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Registered  bool   `json:"registered"`
	Banned      bool   `json:"banned"`

	Resources      map[Resource]int64 `json:"resources"`
	Treasures      map[Treasure]int64 `json:"treasures"`
	TreasureTotals map[Treasure]int64 `json:"treasure_totals"`

	Money int64 `json:"money"`
	Debt  int64 `json:"debt"`

	YieldLevel map[Resource]int `json:"yield_level"`
	PriceLevel map[Resource]int `json:"price_level"`

	CooldownLevel  int `json:"cooldown_level"`
	MilkPriceLevel int `json:"milk_price_level"`

	Rebirths          int     `json:"rebirths"`
	RebirthMultiplier float64 `json:"rebirth_multiplier"`

	CowOwned     bool       `json:"cow_owned"`
	ProductionOn bool       `json:"production_on"`
	ProductionAt *time.Time `json:"production_at,omitempty"`

	Milk       int64 `json:"milk"`
	StoredMilk int64 `json:"stored_milk"`
	TotalMilk  int64 `json:"total_milk"`

	DailyStreak   int    `json:"daily_streak"`
	LongestStreak int    `json:"longest_streak"`
	TotalClaims   int    `json:"total_claims"`
	LastClaimDate string `json:"last_claim_date,omitempty"` // UTC calendar date, 2006-01-02

	TotalWagered int64 `json:"total_wagered"`
	NetGambled   int64 `json:"net_gambled"`
	CoinflipUses int64 `json:"coinflip_uses"`

	TotalEarnings int64     `json:"total_earnings"`
	FarmUses      int64     `json:"farm_uses"`
	LastFarmAt    time.Time `json:"last_farm_at,omitempty"`
}

// NewPlayerRecord returns an all-zero record for a freshly registered player.
func NewPlayerRecord(playerID, displayName string) *PlayerRecord {
	rec := &PlayerRecord{
		Schema:      SchemaVersion,
		PlayerID:    playerID,
		DisplayName: displayName,
		Registered:  true,
	}
	rec.Normalize()
	return rec
}

// Normalize back-fills anything a record written by an older schema is
// missing. It is the single migration point; operations never patch defaults
// ad hoc.
func (r *PlayerRecord) Normalize() {
	if r.Resources == nil {
		r.Resources = make(map[Resource]int64, len(Resources))
	}
	if r.Treasures == nil {
		r.Treasures = make(map[Treasure]int64, len(Treasures))
	}
	if r.TreasureTotals == nil {
		r.TreasureTotals = make(map[Treasure]int64, len(Treasures))
	}
	if r.YieldLevel == nil {
		r.YieldLevel = make(map[Resource]int, len(Resources))
	}
	if r.PriceLevel == nil {
		r.PriceLevel = make(map[Resource]int, len(Resources))
	}
	if r.RebirthMultiplier < 1 {
		r.RebirthMultiplier = 1
	}
	r.Schema = SchemaVersion
}

// TotalUpgrades counts every purchased upgrade level for the profile summary.
func (r *PlayerRecord) TotalUpgrades() int {
	total := r.CooldownLevel + r.MilkPriceLevel
	for _, res := range Resources {
		total += r.YieldLevel[res] + r.PriceLevel[res]
	}
	if r.CowOwned {
		total++
	}
	return total
}
