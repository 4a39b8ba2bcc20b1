package game

import "math"

// UpgradeKind names one purchasable upgrade track.
type UpgradeKind string

const (
	UpgradeCooldown  UpgradeKind = "cooldown"
	UpgradeMilkPrice UpgradeKind = "milk_price"
)

// YieldUpgrade and PriceUpgrade name the per-resource tracks.
func YieldUpgrade(res Resource) UpgradeKind { return UpgradeKind(string(res) + "_yield") }
func PriceUpgrade(res Resource) UpgradeKind { return UpgradeKind(string(res) + "_price") }

const (
	MaxYieldLevel    = 100
	MaxPriceLevel    = 100
	MaxCooldownLevel = 20
	MaxMilkLevel     = 50
)

// curve is the shared cost shape: base*growth^level + level*step, truncated.
type curve struct {
	base   float64
	growth float64
	step   float64
}

func (c curve) cost(level int) int64 {
	v := c.base*math.Pow(c.growth, float64(level)) + float64(level)*c.step
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

var yieldCurve = map[Resource]curve{
	Wheat:     {50, 1.3, 10},
	Wood:      {80, 1.3, 20},
	Stone:     {120, 1.4, 30},
	Hardwood:  {160, 1.4, 40},
	IronOre:   {200, 1.5, 50},
	SilverOre: {250, 1.6, 60},
	GoldOre:   {300, 1.7, 70},
}

var priceCurve = map[Resource]curve{
	Wheat:     {50, 1.4, 10},
	Wood:      {80, 1.4, 15},
	Stone:     {120, 1.5, 25},
	Hardwood:  {160, 1.5, 35},
	IronOre:   {200, 1.6, 45},
	SilverOre: {250, 1.7, 55},
	GoldOre:   {300, 1.8, 65},
}

var (
	cooldownCurve  = curve{250, 1.5, 100}
	milkPriceCurve = curve{300, 1.6, 75}
)

// sellBase holds the pre-multiplier sale price: base + perLevel*priceLevel.
var sellBase = map[Resource]struct {
	base     int64
	perLevel int64
}{
	Wheat:     {1, 2},
	Wood:      {5, 3},
	Stone:     {25, 10},
	Hardwood:  {100, 20},
	IronOre:   {300, 35},
	SilverOre: {750, 45},
	GoldOre:   {2000, 120},
}

// UpgradeCost returns the price of buying the given track at its current
// level, or ErrMaxLevelReached when the track is capped.
func UpgradeCost(kind UpgradeKind, level int) (int64, error) {
	max, c, err := upgradeTrack(kind)
	if err != nil {
		return 0, err
	}
	if level >= max {
		return 0, ErrMaxLevelReached
	}
	return c.cost(level), nil
}

// UpgradeCap returns the level cap of the given track.
func UpgradeCap(kind UpgradeKind) (int, error) {
	max, _, err := upgradeTrack(kind)
	return max, err
}

func upgradeTrack(kind UpgradeKind) (int, curve, error) {
	switch kind {
	case UpgradeCooldown:
		return MaxCooldownLevel, cooldownCurve, nil
	case UpgradeMilkPrice:
		return MaxMilkLevel, milkPriceCurve, nil
	}
	for _, res := range Resources {
		switch kind {
		case YieldUpgrade(res):
			return MaxYieldLevel, yieldCurve[res], nil
		case PriceUpgrade(res):
			return MaxPriceLevel, priceCurve[res], nil
		}
	}
	return 0, curve{}, ErrUnknownUpgrade
}

// SellPrice is the pre-multiplier sale value of one unit of res at the given
// price-upgrade level. Every resource scales additively per level.
func SellPrice(res Resource, priceLevel int) int64 {
	b := sellBase[res]
	return b.base + b.perLevel*int64(priceLevel)
}

// MilkPrice compounds instead of adding: 150 * 1.2^level, truncated. Kept
// deliberately different from the additive resource tracks.
func MilkPrice(level int) int64 {
	return int64(150 * math.Pow(1.2, float64(level)))
}

// CooldownSeconds is the farm cooldown at the given upgrade level, floored at
// one second.
func CooldownSeconds(level int) float64 {
	cd := 5.0 - 0.2*float64(level)
	if cd < 1 {
		return 1
	}
	return cd
}

// RebirthPrice is the cost of the next rebirth, rounded to the nearest 1000.
func RebirthPrice(rebirths int) int64 {
	raw := rebirthBasePrice * math.Pow(rebirthGrowth, float64(rebirths))
	return int64(math.Round(raw/1000)) * 1000
}
