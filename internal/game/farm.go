package game

import (
	"context"
	"time"
)

// rollRange is the raw dice range for one resource before yield scaling.
type rollRange struct {
	lo, hi int
}

var farmRolls = map[Resource]rollRange{
	Wheat:     {1, 10},
	Wood:      {0, 4},
	Stone:     {0, 2},
	Hardwood:  {0, 2},
	IronOre:   {0, 2},
	SilverOre: {0, 1},
	GoldOre:   {0, 1},
}

// treasureOdds is the 1-in-n drop chance per farm, rolled independently.
var treasureOdds = map[Treasure]int{
	Cucumber:     100,
	Candy:        250,
	Weed:         500,
	RareArtifact: 1000,
}

// Farm performs one harvest. It fails with a CooldownError while the timer
// from the previous harvest is still running, leaving the record untouched.
func (s *Service) Farm(ctx context.Context, playerID string) (FarmResult, error) {
	var out FarmResult
	err := s.update(ctx, playerID, func(rec *PlayerRecord) error {
		now := s.now()
		cooldown := time.Duration(CooldownSeconds(rec.CooldownLevel) * float64(time.Second))
		if !rec.LastFarmAt.IsZero() {
			if ready := rec.LastFarmAt.Add(cooldown); now.Before(ready) {
				return &CooldownError{Remaining: ready.Sub(now)}
			}
		}

		out = FarmResult{}
		for _, res := range Resources {
			if rec.Rebirths < RebirthGate(res) {
				continue
			}
			r := farmRolls[res]
			roll := s.randInt(r.lo, r.hi)
			level := rec.YieldLevel[res]
			gained := int64(float64(roll+level/5)*rec.RebirthMultiplier) + int64(2*level)
			if gained <= 0 {
				continue
			}
			rec.Resources[res] += gained
			out.Gains = append(out.Gains, ResourceGain{
				Resource: res,
				Gained:   gained,
				Total:    rec.Resources[res],
			})
		}

		for _, t := range Treasures {
			if !s.oneIn(treasureOdds[t]) {
				continue
			}
			rec.Treasures[t]++
			rec.TreasureTotals[t]++
			out.Treasures = append(out.Treasures, TreasureGain{
				Treasure: t,
				Held:     rec.Treasures[t],
				Lifetime: rec.TreasureTotals[t],
			})
		}

		rec.FarmUses++
		rec.LastFarmAt = now
		out.FarmUses = rec.FarmUses
		return nil
	})
	if err != nil {
		return FarmResult{}, err
	}
	return out, nil
}
