package game

import (
	"errors"
	"testing"
)

func TestCreditPaysDebtFirst(t *testing.T) {
	tests := []struct {
		name       string
		money      int64
		debt       int64
		amount     int64
		wantRepaid int64
		wantMoney  int64
		wantDebt   int64
	}{
		{"no debt", 100, 0, 50, 0, 150, 0},
		{"partial repay", 0, 200, 50, 50, 0, 150},
		{"exact repay", 0, 50, 50, 50, 0, 0},
		{"surplus past zero", 10, 30, 100, 30, 80, 0},
		{"zero amount", 10, 30, 0, 0, 10, 30},
	}
	for _, tc := range tests {
		rec := NewPlayerRecord("p1", "")
		rec.Money = tc.money
		rec.Debt = tc.debt
		repaid, _ := credit(rec, tc.amount)
		if repaid != tc.wantRepaid || rec.Money != tc.wantMoney || rec.Debt != tc.wantDebt {
			t.Fatalf("%s: repaid=%d money=%d debt=%d, want %d/%d/%d",
				tc.name, repaid, rec.Money, rec.Debt, tc.wantRepaid, tc.wantMoney, tc.wantDebt)
		}
	}
}

func TestDebitNeverGoesNegative(t *testing.T) {
	rec := NewPlayerRecord("p1", "")
	rec.Money = 100

	debit(rec, 40)
	if rec.Money != 60 || rec.Debt != 0 {
		t.Fatalf("covered debit: money=%d debt=%d", rec.Money, rec.Debt)
	}

	debit(rec, 100)
	if rec.Money != 0 || rec.Debt != 40 {
		t.Fatalf("shortfall debit: money=%d debt=%d", rec.Money, rec.Debt)
	}

	debit(rec, 10)
	if rec.Money != 0 || rec.Debt != 50 {
		t.Fatalf("debit while broke: money=%d debt=%d", rec.Money, rec.Debt)
	}
}

func TestSpendIsStrict(t *testing.T) {
	rec := NewPlayerRecord("p1", "")
	rec.Money = 100
	if err := spend(rec, 150); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if rec.Money != 100 {
		t.Fatalf("failed spend mutated money: %d", rec.Money)
	}
	if err := spend(rec, 100); err != nil {
		t.Fatalf("exact spend: %v", err)
	}
	if rec.Money != 0 {
		t.Fatalf("money after exact spend: %d", rec.Money)
	}
}

func TestValidateStake(t *testing.T) {
	rec := NewPlayerRecord("p1", "")
	rec.Money = 1_000_000

	if err := validateStake(rec, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero stake: %v", err)
	}
	if err := validateStake(rec, DebtBetCeiling*10); err != nil {
		t.Fatalf("solvent player should bet big: %v", err)
	}

	rec.Debt = 1
	var tooLarge *BetTooLargeError
	if err := validateStake(rec, DebtBetCeiling+1); !errors.As(err, &tooLarge) {
		t.Fatalf("ceiling breach: %v", err)
	}
	if err := validateStake(rec, DebtBetCeiling); err != nil {
		t.Fatalf("stake at the ceiling: %v", err)
	}

	rec.Debt = 0
	rec.Money = 0
	if err := validateStake(rec, DebtBetCeiling+1); !errors.As(err, &tooLarge) {
		t.Fatalf("broke player past ceiling: %v", err)
	}
}
