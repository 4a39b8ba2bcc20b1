package game

import "context"

// scaled applies the rebirth multiplier to a sale value.
func scaled(rec *PlayerRecord, value int64) int64 {
	return int64(float64(value) * rec.RebirthMultiplier)
}

// Sell liquidates harvested resources. An empty order list sells the whole
// inventory; an order with amount 0 sells everything held of its resource.
// Earnings pay outstanding debt first.
func (s *Service) Sell(ctx context.Context, playerID string, orders []SellOrder) (SellResult, error) {
	for _, o := range orders {
		if _, ok := sellBase[o.Resource]; !ok {
			return SellResult{}, ErrNothingToSell
		}
		if o.Amount < 0 {
			return SellResult{}, ErrInvalidAmount
		}
	}

	var out SellResult
	err := s.update(ctx, playerID, func(rec *PlayerRecord) error {
		out = SellResult{}
		var gross int64
		sellOne := func(r Resource, n int64) {
			held := rec.Resources[r]
			if n == 0 || n > held {
				n = held
			}
			if n <= 0 {
				return
			}
			earned := scaled(rec, SellPrice(r, rec.PriceLevel[r])*n)
			rec.Resources[r] -= n
			gross += earned
			out.Items = append(out.Items, SoldItem{Name: string(r), Amount: n, Earnings: earned})
		}

		if len(orders) == 0 {
			for _, r := range Resources {
				sellOne(r, 0)
			}
		} else {
			for _, o := range orders {
				sellOne(o.Resource, o.Amount)
			}
		}
		if gross == 0 {
			return ErrNothingToSell
		}

		repaid, _ := credit(rec, gross)
		rec.TotalEarnings += gross
		out.Earnings = gross
		out.DebtRepaid = repaid
		out.Money = rec.Money
		out.Debt = rec.Debt
		return nil
	})
	if err != nil {
		return SellResult{}, err
	}
	return out, nil
}

// SellMilk sells collected milk at the compounding milk price.
func (s *Service) SellMilk(ctx context.Context, playerID string, amount int64) (SellResult, error) {
	if amount < 0 {
		return SellResult{}, ErrInvalidAmount
	}
	var out SellResult
	err := s.update(ctx, playerID, func(rec *PlayerRecord) error {
		n := amount
		if n == 0 || n > rec.Milk {
			n = rec.Milk
		}
		if n <= 0 {
			return ErrNothingToSell
		}
		gross := scaled(rec, MilkPrice(rec.MilkPriceLevel)*n)
		rec.Milk -= n
		repaid, _ := credit(rec, gross)
		rec.TotalEarnings += gross
		out = SellResult{
			Items:      []SoldItem{{Name: "milk", Amount: n, Earnings: gross}},
			Earnings:   gross,
			DebtRepaid: repaid,
			Money:      rec.Money,
			Debt:       rec.Debt,
		}
		return nil
	})
	if err != nil {
		return SellResult{}, err
	}
	return out, nil
}

// SellTreasure sells rare drops at their flat prices. Lifetime totals are
// untouched so milestones that count finds keep counting.
func (s *Service) SellTreasure(ctx context.Context, playerID string, t Treasure, amount int64) (SellResult, error) {
	if _, ok := treasurePrice[t]; !ok {
		return SellResult{}, ErrNothingToSell
	}
	if amount < 0 {
		return SellResult{}, ErrInvalidAmount
	}
	var out SellResult
	err := s.update(ctx, playerID, func(rec *PlayerRecord) error {
		n := amount
		if n == 0 || n > rec.Treasures[t] {
			n = rec.Treasures[t]
		}
		if n <= 0 {
			return ErrNothingToSell
		}
		gross := scaled(rec, treasurePrice[t]*n)
		rec.Treasures[t] -= n
		repaid, _ := credit(rec, gross)
		rec.TotalEarnings += gross
		out = SellResult{
			Items:      []SoldItem{{Name: string(t), Amount: n, Earnings: gross}},
			Earnings:   gross,
			DebtRepaid: repaid,
			Money:      rec.Money,
			Debt:       rec.Debt,
		}
		return nil
	})
	if err != nil {
		return SellResult{}, err
	}
	return out, nil
}
