package game

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
)

// offerTTL bounds how long a rebirth confirmation token stays valid.
const offerTTL = 5 * time.Minute

type pendingRebirth struct {
	token    string
	price    int64
	rebirths int
	expires  time.Time
}

// milestones are the rebirth counts that unlock something new.
var milestones = map[int]string{
	5:  "stone unlocked",
	7:  "plinko unlocked",
	10: "hardwood unlocked",
	12: "coinflip unlocked",
	15: "iron ore unlocked",
	20: "silver ore unlocked",
	25: "gold ore unlocked",
}

// PrepareRebirth quotes the next rebirth and issues a single-use confirmation
// token. Issuing a new offer invalidates any previous one for the player.
func (s *Service) PrepareRebirth(ctx context.Context, playerID string) (RebirthOffer, error) {
	rec, err := s.load(ctx, playerID)
	if err != nil {
		return RebirthOffer{}, err
	}
	price := RebirthPrice(rec.Rebirths)
	offer := pendingRebirth{
		token:    uuid.NewString(),
		price:    price,
		rebirths: rec.Rebirths,
		expires:  s.now().Add(offerTTL),
	}

	s.offerMu.Lock()
	s.offers[playerID] = offer
	s.offerMu.Unlock()

	return RebirthOffer{
		Token:      offer.token,
		Price:      price,
		Eligible:   rec.Money >= price,
		Rebirths:   rec.Rebirths,
		Multiplier: rec.RebirthMultiplier,
		Money:      rec.Money,
	}, nil
}

// Rebirth confirms a pending offer. The token is consumed whether or not the
// purchase goes through, and an offer quoted against an older rebirth count
// is rejected rather than re-priced.
func (s *Service) Rebirth(ctx context.Context, playerID, token string) (RebirthResult, error) {
	s.offerMu.Lock()
	offer, ok := s.offers[playerID]
	delete(s.offers, playerID)
	s.offerMu.Unlock()

	if !ok || offer.token != token || s.now().After(offer.expires) {
		return RebirthResult{}, ErrStaleRebirth
	}

	var out RebirthResult
	err := s.update(ctx, playerID, func(rec *PlayerRecord) error {
		if rec.Rebirths != offer.rebirths {
			return ErrStaleRebirth
		}
		if err := spend(rec, offer.price); err != nil {
			return err
		}

		rec.Rebirths++
		rec.RebirthMultiplier = math.Pow(rebirthBonus, float64(rec.Rebirths))

		// The remaining balance survives; everything farmed does not,
		// and outstanding debt is wiped with the rest.
		rec.Debt = 0
		rec.Resources = make(map[Resource]int64, len(Resources))
		rec.Treasures = make(map[Treasure]int64, len(Treasures))
		rec.Milk = 0
		rec.StoredMilk = 0
		rec.YieldLevel = make(map[Resource]int, len(Resources))
		rec.PriceLevel = make(map[Resource]int, len(Resources))
		rec.CooldownLevel = 0
		rec.MilkPriceLevel = 0
		rec.CowOwned = false
		rec.ProductionOn = false
		rec.ProductionAt = nil
		rec.LastFarmAt = time.Time{}

		out = RebirthResult{
			Rebirths:   rec.Rebirths,
			Multiplier: rec.RebirthMultiplier,
			Milestone:  milestones[rec.Rebirths],
			Money:      rec.Money,
		}
		return nil
	})
	if err != nil {
		return RebirthResult{}, err
	}
	if s.producer != nil {
		s.producer.StopProduction(playerID)
	}
	s.log.Info("rebirth completed", "player_id", playerID, "rebirths", out.Rebirths, "multiplier", out.Multiplier)
	return out, nil
}
