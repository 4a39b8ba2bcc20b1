package game

import "testing"

func TestDailyAmountRoundsToNearest(t *testing.T) {
	tests := []struct {
		name   string
		roll   float64
		streak float64
		k      float64
		mult   float64
		want   int64
	}{
		{"rounds half up", 3, 1, 2, 1, 5},         // 3 * 1.5 = 4.5
		{"rounds down", 1, 1, 3, 1, 1},            // 1 * 1.333...
		{"multiplier applied", 2, 3, 2.5, 1.1, 5}, // 2 * 2.2 * 1.1 = 4.84
		{"money shape", 75, 2, 1.5, 1, 175},       // 75 * (1 + 2/1.5)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dailyAmount(tt.roll, tt.streak, tt.k, tt.mult); got != tt.want {
				t.Fatalf("dailyAmount(%v, %v, %v, %v) = %d, want %d", tt.roll, tt.streak, tt.k, tt.mult, got, tt.want)
			}
		})
	}
}
