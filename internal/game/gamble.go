package game

import "context"

// plinkoOutcome is one slot of the drop board. Weights are percentages and
// sum to 100; negative multipliers are penalty slots that cost more than the
// stake itself.
type plinkoOutcome struct {
	label  string
	mult   float64
	weight float64
}

var plinkoBoard = []plinkoOutcome{
	{"25x", 25, 0.1},
	{"10x", 10, 0.4},
	{"5x", 5, 1.5},
	{"3x", 3, 2},
	{"2x", 2, 5},
	{"1.5x", 1.5, 10},
	{"1x", 1, 19},
	{"0.5x", 0.5, 19},
	{"0.2x", 0.2, 33},
	{"0x", 0, 7},
	{"-5x", -5, 3},
}

// pickPlinko picks a board slot by weight.
func (s *Service) pickPlinko() plinkoOutcome {
	roll := s.randFloat() * 100
	for _, o := range plinkoBoard {
		if roll < o.weight {
			return o
		}
		roll -= o.weight
	}
	return plinkoBoard[len(plinkoBoard)-1]
}

// Gamble drops the stake down the plinko board. The stake is always taken;
// the slot multiplier decides what comes back, and the penalty slot takes
// five extra stakes on top, as debt if the balance runs dry.
func (s *Service) Gamble(ctx context.Context, playerID string, stake int64) (GambleResult, error) {
	var out GambleResult
	err := s.update(ctx, playerID, func(rec *PlayerRecord) error {
		if rec.Rebirths < PlinkoRebirths {
			return &RebirthLockedError{Required: PlinkoRebirths}
		}
		if err := validateStake(rec, stake); err != nil {
			return err
		}

		slot := s.pickPlinko()
		payout, net := settlePlinko(rec, stake, slot)
		out.Payout = payout

		rec.TotalWagered += stake
		rec.NetGambled += net
		out.Stake = stake
		out.Outcome = slot.label
		out.Multiplier = slot.mult
		out.Net = net
		out.Money = rec.Money
		out.Debt = rec.Debt
		return nil
	})
	if err != nil {
		return GambleResult{}, err
	}
	return out, nil
}

// settlePlinko books one drop against the record. The stake comes out first;
// a non-negative slot credits stake times the multiplier back, a penalty slot
// debits the full multiple on top of the lost stake.
func settlePlinko(rec *PlayerRecord, stake int64, slot plinkoOutcome) (payout, net int64) {
	debit(rec, stake)
	if slot.mult >= 0 {
		payout = int64(float64(stake) * slot.mult)
		credit(rec, payout)
		return payout, payout - stake
	}
	extra := int64(float64(stake) * -slot.mult)
	debit(rec, extra)
	return 0, -(stake + extra)
}

// coinOdds holds, per call, the percentage chance of each landing.
var coinOdds = map[CoinCall][3]float64{ // heads, tails, side
	CallHeads: {19.99, 80, 0.01},
	CallTails: {80, 19.99, 0.01},
	CallSide:  {50, 49.99, 0.01},
}

const (
	coinWinMult  = 2.5
	sideWinMult  = 1000
	coinLoseMult = 4
	sideLoseMult = 24
)

// Coinflip resolves a rigged coin toss. The stake is taken up front; a win
// pays it back times a flat multiple, a loss adds a penalty multiple on top,
// the whole amount landing in debt if the balance cannot cover it.
func (s *Service) Coinflip(ctx context.Context, playerID string, call CoinCall, stake int64) (CoinflipResult, error) {
	odds, ok := coinOdds[call]
	if !ok {
		return CoinflipResult{}, ErrInvalidAmount
	}
	var out CoinflipResult
	err := s.update(ctx, playerID, func(rec *PlayerRecord) error {
		if rec.Rebirths < CoinflipRebirths {
			return &RebirthLockedError{Required: CoinflipRebirths}
		}
		if err := validateStake(rec, stake); err != nil {
			return err
		}

		roll := s.randFloat() * 100
		var outcome CoinCall
		switch {
		case roll < odds[0]:
			outcome = CallHeads
		case roll < odds[0]+odds[1]:
			outcome = CallTails
		default:
			outcome = CallSide
		}

		won := outcome == call
		debit(rec, stake)
		var net int64
		if won {
			mult := coinWinMult
			if call == CallSide {
				mult = sideWinMult
			}
			payout := int64(float64(stake) * mult)
			credit(rec, payout)
			net = payout - stake
			out.Payout = payout
		} else {
			loseMult := int64(coinLoseMult)
			if call == CallSide {
				loseMult = sideLoseMult
			}
			penalty := stake * loseMult
			debit(rec, penalty)
			net = -(stake + penalty)
			out.Lost = stake + penalty
		}

		rec.TotalWagered += stake
		rec.NetGambled += net
		rec.CoinflipUses++
		out.Call = call
		out.Outcome = outcome
		out.Won = won
		out.Stake = stake
		out.Net = net
		out.Money = rec.Money
		out.Debt = rec.Debt
		return nil
	})
	if err != nil {
		return CoinflipResult{}, err
	}
	return out, nil
}
