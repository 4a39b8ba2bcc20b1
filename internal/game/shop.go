package game

import "context"

// level and bumpLevel map an upgrade kind onto its record field.
func level(rec *PlayerRecord, kind UpgradeKind) int {
	switch kind {
	case UpgradeCooldown:
		return rec.CooldownLevel
	case UpgradeMilkPrice:
		return rec.MilkPriceLevel
	}
	for _, res := range Resources {
		switch kind {
		case YieldUpgrade(res):
			return rec.YieldLevel[res]
		case PriceUpgrade(res):
			return rec.PriceLevel[res]
		}
	}
	return 0
}

func bumpLevel(rec *PlayerRecord, kind UpgradeKind) {
	switch kind {
	case UpgradeCooldown:
		rec.CooldownLevel++
		return
	case UpgradeMilkPrice:
		rec.MilkPriceLevel++
		return
	}
	for _, res := range Resources {
		switch kind {
		case YieldUpgrade(res):
			rec.YieldLevel[res]++
			return
		case PriceUpgrade(res):
			rec.PriceLevel[res]++
			return
		}
	}
}

// upgradeGate returns the rebirth count a track is locked behind. Resource
// tracks unlock together with the resource itself.
func upgradeGate(kind UpgradeKind) int {
	for _, res := range Resources {
		if kind == YieldUpgrade(res) || kind == PriceUpgrade(res) {
			return RebirthGate(res)
		}
	}
	return 0
}

// BuyUpgrade purchases one level of the named track. It is a strict spend:
// no debt, no partial purchase.
func (s *Service) BuyUpgrade(ctx context.Context, playerID string, kind UpgradeKind) (PurchaseResult, error) {
	if _, err := UpgradeCap(kind); err != nil {
		return PurchaseResult{}, err
	}
	var out PurchaseResult
	err := s.update(ctx, playerID, func(rec *PlayerRecord) error {
		if gate := upgradeGate(kind); rec.Rebirths < gate {
			return &RebirthLockedError{Required: gate}
		}
		if kind == UpgradeMilkPrice && !rec.CowOwned {
			return ErrNoCow
		}
		lvl := level(rec, kind)
		cost, err := UpgradeCost(kind, lvl)
		if err != nil {
			return err
		}
		if err := spend(rec, cost); err != nil {
			return err
		}
		bumpLevel(rec, kind)
		next, err := UpgradeCost(kind, lvl+1)
		if err != nil {
			next = 0 // maxed out
		}
		out = PurchaseResult{
			Kind:     kind,
			Level:    lvl + 1,
			Cost:     cost,
			NextCost: next,
			Money:    rec.Money,
		}
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	s.log.Info("upgrade bought", "player_id", playerID, "kind", string(kind), "level", out.Level, "cost", out.Cost)
	return out, nil
}

// BuyCow purchases the single milk cow.
func (s *Service) BuyCow(ctx context.Context, playerID string) (PurchaseResult, error) {
	var out PurchaseResult
	err := s.update(ctx, playerID, func(rec *PlayerRecord) error {
		if rec.CowOwned {
			return ErrCowAlreadyOwned
		}
		if err := spend(rec, CowCost); err != nil {
			return err
		}
		rec.CowOwned = true
		out = PurchaseResult{Kind: "cow", Level: 1, Cost: CowCost, Money: rec.Money}
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	s.log.Info("cow bought", "player_id", playerID)
	return out, nil
}

// Catalog lists every upgrade track with its current level, next cost and
// lock state for the given player.
func (s *Service) Catalog(ctx context.Context, playerID string) ([]UpgradeInfo, error) {
	rec, err := s.load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	kinds := make([]UpgradeKind, 0, 2*len(Resources)+2)
	for _, res := range Resources {
		kinds = append(kinds, YieldUpgrade(res), PriceUpgrade(res))
	}
	kinds = append(kinds, UpgradeCooldown, UpgradeMilkPrice)

	infos := make([]UpgradeInfo, 0, len(kinds))
	for _, kind := range kinds {
		cap, _ := UpgradeCap(kind)
		lvl := level(rec, kind)
		info := UpgradeInfo{Kind: kind, Level: lvl, Cap: cap}
		if gate := upgradeGate(kind); rec.Rebirths < gate {
			info.Locked = true
			info.RequiredRebirths = gate
		}
		if cost, err := UpgradeCost(kind, lvl); err == nil {
			info.NextCost = cost
		} else {
			info.Maxed = true
		}
		infos = append(infos, info)
	}
	return infos, nil
}
