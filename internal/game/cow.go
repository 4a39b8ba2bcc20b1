package game

import "context"

// ToggleProduction flips the cow between producing and idle. The scheduler is
// notified only after the new state is durably saved, so a crash between the
// two leaves the record authoritative.
func (s *Service) ToggleProduction(ctx context.Context, playerID string) (ProductionState, error) {
	var out ProductionState
	err := s.update(ctx, playerID, func(rec *PlayerRecord) error {
		if !rec.CowOwned {
			return ErrNoCow
		}
		if rec.ProductionOn {
			rec.ProductionOn = false
			rec.ProductionAt = nil
		} else {
			rec.ProductionOn = true
			now := s.now()
			rec.ProductionAt = &now
		}
		out = productionState(rec)
		return nil
	})
	if err != nil {
		return ProductionState{}, err
	}
	if s.producer != nil {
		if out.ProductionOn {
			s.producer.StartProduction(playerID)
		} else {
			s.producer.StopProduction(playerID)
		}
	}
	s.log.Info("production toggled", "player_id", playerID, "on", out.ProductionOn)
	return out, nil
}

// CollectMilk moves everything the cow has stored into the sellable pail.
// Collecting restarts the production interval, so the next unit arrives a
// full tick after the collect.
func (s *Service) CollectMilk(ctx context.Context, playerID string) (CollectResult, error) {
	var out CollectResult
	err := s.update(ctx, playerID, func(rec *PlayerRecord) error {
		if !rec.CowOwned {
			return ErrNoCow
		}
		collected := rec.StoredMilk
		rec.StoredMilk = 0
		rec.Milk += collected
		rec.TotalMilk += collected
		if rec.ProductionOn {
			now := s.now()
			rec.ProductionAt = &now
		}
		out = CollectResult{
			Collected:    collected,
			Milk:         rec.Milk,
			TotalMilk:    rec.TotalMilk,
			ProductionOn: rec.ProductionOn,
		}
		return nil
	})
	if err != nil {
		return CollectResult{}, err
	}
	if out.ProductionOn && s.producer != nil {
		s.producer.ResetProduction(playerID)
	}
	return out, nil
}

// CowStatus returns the cow and storage view.
func (s *Service) CowStatus(ctx context.Context, playerID string) (ProductionState, error) {
	rec, err := s.load(ctx, playerID)
	if err != nil {
		return ProductionState{}, err
	}
	return productionState(rec), nil
}

// ApplyProductionTick adds one unit of stored milk. It reports whether
// production is still running afterwards: storage filling up turns the cow
// off, and a cow toggled off between ticks produces nothing. The scheduler
// stops the player's loop when stillOn is false.
func (s *Service) ApplyProductionTick(ctx context.Context, playerID string) (stillOn bool, err error) {
	err = s.store.Update(ctx, playerID, func(rec *PlayerRecord) error {
		if rec.Banned || !rec.CowOwned || !rec.ProductionOn {
			rec.ProductionOn = false
			rec.ProductionAt = nil
			stillOn = false
			return nil
		}
		rec.StoredMilk++
		if rec.StoredMilk >= MilkStorageCap {
			rec.StoredMilk = MilkStorageCap
			rec.ProductionOn = false
			rec.ProductionAt = nil
			stillOn = false
			return nil
		}
		stillOn = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if !stillOn {
		s.log.Debug("production stopped", "player_id", playerID)
	}
	return stillOn, nil
}

func productionState(rec *PlayerRecord) ProductionState {
	return ProductionState{
		CowOwned:     rec.CowOwned,
		ProductionOn: rec.ProductionOn,
		StoredMilk:   rec.StoredMilk,
		StorageCap:   MilkStorageCap,
		Milk:         rec.Milk,
		MilkPrice:    MilkPrice(rec.MilkPriceLevel),
	}
}
