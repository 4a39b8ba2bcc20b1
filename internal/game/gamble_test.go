package game

import (
	"math"
	"testing"
)

func TestPlinkoWeightsSumToHundred(t *testing.T) {
	var total float64
	for _, o := range plinkoBoard {
		total += o.weight
	}
	if math.Abs(total-100) > 1e-9 {
		t.Fatalf("board weights sum to %v, want 100", total)
	}
}

func TestPlinkoDistribution(t *testing.T) {
	svc, _ := newTestService(t)

	const samples = 100_000
	counts := map[string]int{}
	for i := 0; i < samples; i++ {
		counts[svc.pickPlinko().label]++
	}

	for _, o := range plinkoBoard {
		got := float64(counts[o.label]) / samples * 100
		if math.Abs(got-o.weight) > 1 {
			t.Errorf("slot %s: observed %.2f%%, want %.2f%%", o.label, got, o.weight)
		}
	}
}

func TestPlinkoSettlement(t *testing.T) {
	tests := []struct {
		name      string
		money     int64
		mult      float64
		payout    int64
		net       int64
		wantMoney int64
		wantDebt  int64
	}{
		{"double", 10_000, 2, 200, 100, 10_100, 0},
		{"break even", 10_000, 1, 100, 0, 10_000, 0},
		{"zero slot", 10_000, 0, 0, -100, 9_900, 0},
		// Penalty slot costs the stake plus five more stakes.
		{"penalty", 10_000, -5, 0, -600, 9_400, 0},
		{"penalty into debt", 200, -5, 0, -600, 0, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewPlayerRecord("p1", "p1")
			rec.Money = tt.money
			payout, net := settlePlinko(rec, 100, plinkoOutcome{mult: tt.mult})
			if payout != tt.payout || net != tt.net {
				t.Fatalf("settle: payout=%d net=%d, want %d %d", payout, net, tt.payout, tt.net)
			}
			if rec.Money != tt.wantMoney || rec.Debt != tt.wantDebt {
				t.Fatalf("balance: money=%d debt=%d, want %d %d", rec.Money, rec.Debt, tt.wantMoney, tt.wantDebt)
			}
		})
	}
}

func TestCoinOddsSumToHundred(t *testing.T) {
	for call, odds := range coinOdds {
		total := odds[0] + odds[1] + odds[2]
		if math.Abs(total-100) > 1e-9 {
			t.Fatalf("call %s: odds sum to %v, want 100", call, total)
		}
	}
}
