package game

import (
	"math"
	"testing"
)

func TestUpgradeCostGrows(t *testing.T) {
	kinds := []UpgradeKind{
		YieldUpgrade(Wheat),
		PriceUpgrade(GoldOre),
		UpgradeCooldown,
		UpgradeMilkPrice,
	}
	for _, kind := range kinds {
		cap, err := UpgradeCap(kind)
		if err != nil {
			t.Fatalf("cap for %s: %v", kind, err)
		}
		levels := cap
		if levels > 40 {
			levels = 40 // steep curves hit astronomically large costs past here
		}
		prev := int64(-1)
		for level := 0; level < levels; level++ {
			cost, err := UpgradeCost(kind, level)
			if err != nil {
				t.Fatalf("%s level %d: %v", kind, level, err)
			}
			if cost <= prev {
				t.Fatalf("%s level %d cost %d did not grow past %d", kind, level, cost, prev)
			}
			prev = cost
		}
		if _, err := UpgradeCost(kind, cap); err != ErrMaxLevelReached {
			t.Fatalf("%s at cap: want ErrMaxLevelReached, got %v", kind, err)
		}
	}
}

func TestUpgradeCostValues(t *testing.T) {
	tests := []struct {
		kind  UpgradeKind
		level int
		want  int64
	}{
		{YieldUpgrade(Wheat), 0, 50},
		{YieldUpgrade(Wheat), 1, 75}, // 50*1.3 + 10
		{PriceUpgrade(Wheat), 0, 50},
		{UpgradeCooldown, 0, 250},
		{UpgradeCooldown, 1, 475}, // 250*1.5 + 100
		{UpgradeMilkPrice, 0, 300},
	}
	for _, tc := range tests {
		got, err := UpgradeCost(tc.kind, tc.level)
		if err != nil {
			t.Fatalf("%s level %d: %v", tc.kind, tc.level, err)
		}
		if got != tc.want {
			t.Fatalf("%s level %d: got %d want %d", tc.kind, tc.level, got, tc.want)
		}
	}
}

func TestUnknownUpgrade(t *testing.T) {
	if _, err := UpgradeCost("turbo", 0); err != ErrUnknownUpgrade {
		t.Fatalf("want ErrUnknownUpgrade, got %v", err)
	}
}

func TestSellPrice(t *testing.T) {
	tests := []struct {
		res   Resource
		level int
		want  int64
	}{
		{Wheat, 0, 1},
		{Wheat, 3, 7},
		{Wood, 0, 5},
		{GoldOre, 0, 2000},
		{GoldOre, 2, 2240},
	}
	for _, tc := range tests {
		if got := SellPrice(tc.res, tc.level); got != tc.want {
			t.Fatalf("%s level %d: got %d want %d", tc.res, tc.level, got, tc.want)
		}
	}
}

func TestMilkPriceCompounds(t *testing.T) {
	tests := []struct {
		level int
		want  int64
	}{
		{0, 150},
		{1, 180},
		{2, 216},
	}
	for _, tc := range tests {
		if got := MilkPrice(tc.level); got != tc.want {
			t.Fatalf("level %d: got %d want %d", tc.level, got, tc.want)
		}
	}
	// Compounding keeps growing all the way to the cap.
	prev := int64(0)
	for level := 0; level <= MaxMilkLevel; level++ {
		p := MilkPrice(level)
		if p <= prev {
			t.Fatalf("milk price at level %d did not grow", level)
		}
		prev = p
	}
}

func TestCooldownSeconds(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{0, 5},
		{10, 3},
		{MaxCooldownLevel, 1},
		{99, 1}, // floored past the cap
	}
	for _, tc := range tests {
		got := CooldownSeconds(tc.level)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("level %d: got %v want %v", tc.level, got, tc.want)
		}
	}
}

func TestRebirthPrice(t *testing.T) {
	tests := []struct {
		rebirths int
		want     int64
	}{
		{0, 100_000},
		{1, 140_000},
		{2, 196_000},
		{3, 274_000}, // 274400 rounded to the nearest 1000
	}
	for _, tc := range tests {
		if got := RebirthPrice(tc.rebirths); got != tc.want {
			t.Fatalf("rebirths=%d got=%d want=%d", tc.rebirths, got, tc.want)
		}
	}
}
