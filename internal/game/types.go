package game

// ResourceGain is one resource delta plus the resulting total.
type ResourceGain struct {
	Resource Resource `json:"resource"`
	Gained   int64    `json:"gained"`
	Total    int64    `json:"total"`
}

// TreasureGain is a rare drop found during a farm action.
type TreasureGain struct {
	Treasure Treasure `json:"treasure"`
	Held     int64    `json:"held"`
	Lifetime int64    `json:"lifetime"`
}

type FarmResult struct {
	Gains     []ResourceGain `json:"gains"`
	Treasures []TreasureGain `json:"treasures,omitempty"`
	FarmUses  int64          `json:"farm_uses"`
}

// SellOrder names one resource to liquidate. Amount 0 sells everything held.
type SellOrder struct {
	Resource Resource `json:"resource"`
	Amount   int64    `json:"amount"`
}

type SoldItem struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	Earnings int64  `json:"earnings"`
}

type SellResult struct {
	Items      []SoldItem `json:"items"`
	Earnings   int64      `json:"earnings"`
	DebtRepaid int64      `json:"debt_repaid"`
	Money      int64      `json:"money"`
	Debt       int64      `json:"debt"`
}

type PurchaseResult struct {
	Kind     UpgradeKind `json:"kind"`
	Level    int         `json:"level"`
	Cost     int64       `json:"cost"`
	NextCost int64       `json:"next_cost,omitempty"` // zero once maxed
	Money    int64       `json:"money"`
}

type ProductionState struct {
	CowOwned     bool  `json:"cow_owned"`
	ProductionOn bool  `json:"production_on"`
	StoredMilk   int64 `json:"stored_milk"`
	StorageCap   int64 `json:"storage_cap"`
	Milk         int64 `json:"milk"`
	MilkPrice    int64 `json:"milk_price"`
}

type CollectResult struct {
	Collected    int64 `json:"collected"`
	Milk         int64 `json:"milk"`
	TotalMilk    int64 `json:"total_milk"`
	ProductionOn bool  `json:"production_on"`
}

// RebirthOffer is a single-use prompt: confirming with its token performs the
// rebirth exactly once.
type RebirthOffer struct {
	Token      string  `json:"token"`
	Price      int64   `json:"price"`
	Eligible   bool    `json:"eligible"`
	Rebirths   int     `json:"rebirths"`
	Multiplier float64 `json:"multiplier"`
	Money      int64   `json:"money"`
}

type RebirthResult struct {
	Rebirths   int     `json:"rebirths"`
	Multiplier float64 `json:"multiplier"`
	Milestone  string  `json:"milestone,omitempty"`
	Money      int64   `json:"money"`
}

type DailyResult struct {
	Streak        int            `json:"streak"`
	LongestStreak int            `json:"longest_streak"`
	TotalClaims   int            `json:"total_claims"`
	Money         int64          `json:"money_reward"`
	DebtRepaid    int64          `json:"debt_repaid"`
	Resources     []ResourceGain `json:"resources"`
}

type GambleResult struct {
	Stake      int64   `json:"stake"`
	Outcome    string  `json:"outcome"`
	Multiplier float64 `json:"multiplier"`
	Payout     int64   `json:"payout"`
	Net        int64   `json:"net"`
	Money      int64   `json:"money"`
	Debt       int64   `json:"debt"`
}

/// CoinCall is a coinflip bet: heads, tails, or the side of the coin.
type CoinCall string

const (
	CallHeads CoinCall = "heads"
	CallTails CoinCall = "tails"
	CallSide  CoinCall = "side"
)

type CoinflipResult struct {
	Call    CoinCall `json:"call"`
	Outcome CoinCall `json:"outcome"`
	Won     bool     `json:"won"`
	Stake   int64    `json:"stake"`
	Payout  int64    `json:"payout,omitempty"`
	Lost    int64    `json:"lost,omitempty"`
	Net     int64    `json:"net"`
	Money   int64    `json:"money"`
	Debt    int64    `json:"debt"`
}

type StreakInfo struct {
	Current     int `json:"current"`
	Longest     int `json:"longest"`
	TotalClaims int `json:"total_claims"`
}

// UpgradeInfo describes one shop track for display.
type UpgradeInfo struct {
	Kind             UpgradeKind `json:"kind"`
	Level            int         `json:"level"`
	Cap              int         `json:"cap"`
	NextCost         int64       `json:"next_cost,omitempty"`
	Maxed            bool        `json:"maxed"`
	Locked           bool        `json:"locked"`
	RequiredRebirths int         `json:"required_rebirths,omitempty"`
}

// Snapshot is the read-only profile view of a record.
type Snapshot struct {
	PlayerID       string             `json:"player_id"`
	DisplayName    string             `json:"display_name"`
	Rebirths       int                `json:"rebirths"`
	Multiplier     float64            `json:"multiplier"`
	Money          int64              `json:"money"`
	Debt           int64              `json:"debt"`
	TotalEarnings  int64              `json:"total_earnings"`
	TotalUpgrades  int                `json:"total_upgrades"`
	Resources      map[Resource]int64 `json:"resources"`
	Milk           int64              `json:"milk"`
	Treasures      map[Treasure]int64 `json:"treasures"`
	TreasureTotals map[Treasure]int64 `json:"treasure_totals"`
	CowOwned       bool               `json:"cow_owned"`
	Streak         StreakInfo         `json:"streak"`
	FarmUses       int64              `json:"farm_uses"`
	TotalWagered   int64              `json:"total_wagered"`
	NetGambled     int64              `json:"net_gambled"`
	CoinflipUses   int64              `json:"coinflip_uses"`
}

// Inventory is the short, sellable view of a record.
type Inventory struct {
	Resources map[Resource]int64 `json:"resources"`
	Milk      int64              `json:"milk"`
	Treasures map[Treasure]int64 `json:"treasures"`
	Money     int64              `json:"money"`
	Debt      int64              `json:"debt"`
}
