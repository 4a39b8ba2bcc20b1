package game

import (
	"context"
	"math"
)

const claimDateLayout = "2006-01-02"

// dailyRoll is one resource's daily reward: a raw roll scaled up by the
// current streak, divided by k so rarer resources grow slower.
type dailyRoll struct {
	lo, hi int
	k      float64
}

// dailyAmount scales a raw roll by the streak bonus and rebirth multiplier,
// rounded to the nearest whole unit.
func dailyAmount(roll, streak, k, mult float64) int64 {
	return int64(math.Round(roll * (1 + streak/k) * mult))
}

var dailyRolls = map[Resource]dailyRoll{
	Wheat:     {2, 5, 2},
	Wood:      {2, 5, 2.5},
	Stone:     {1, 3, 3},
	Hardwood:  {0, 2, 3.5},
	IronOre:   {0, 2, 3.5},
	SilverOre: {0, 2, 4},
	GoldOre:   {0, 2, 4},
}

// ClaimDaily hands out the once-per-UTC-day reward. Claiming on consecutive
// calendar days extends the streak; skipping a day resets it to one. The
// money part of the reward pays debt first.
func (s *Service) ClaimDaily(ctx context.Context, playerID string) (DailyResult, error) {
	var out DailyResult
	err := s.update(ctx, playerID, func(rec *PlayerRecord) error {
		now := s.now().UTC()
		today := now.Format(claimDateLayout)
		if rec.LastClaimDate == today {
			return ErrAlreadyClaimed
		}
		yesterday := now.AddDate(0, 0, -1).Format(claimDateLayout)
		if rec.LastClaimDate == yesterday {
			rec.DailyStreak++
		} else {
			rec.DailyStreak = 1
		}
		rec.LastClaimDate = today
		rec.TotalClaims++
		if rec.DailyStreak > rec.LongestStreak {
			rec.LongestStreak = rec.DailyStreak
		}

		out = DailyResult{}
		streak := float64(rec.DailyStreak)
		for _, res := range Resources {
			if rec.Rebirths < RebirthGate(res) {
				continue
			}
			d := dailyRolls[res]
			roll := s.randInt(d.lo, d.hi)
			gained := dailyAmount(float64(roll), streak, d.k, rec.RebirthMultiplier)
			if gained <= 0 {
				continue
			}
			rec.Resources[res] += gained
			out.Resources = append(out.Resources, ResourceGain{
				Resource: res,
				Gained:   gained,
				Total:    rec.Resources[res],
			})
		}

		money := dailyAmount(50+s.randFloat()*50, streak, 1.5, rec.RebirthMultiplier)
		repaid, _ := credit(rec, money)

		out.Streak = rec.DailyStreak
		out.LongestStreak = rec.LongestStreak
		out.TotalClaims = rec.TotalClaims
		out.Money = money
		out.DebtRepaid = repaid
		return nil
	})
	if err != nil {
		return DailyResult{}, err
	}
	return out, nil
}
