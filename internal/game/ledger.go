package game

// credit applies an earning to the record with debt taking priority: while
// any debt is outstanding the entire amount pays it down, and only the
// surplus past zero reaches the spendable balance. Returns how much debt was
// repaid and how much landed in money.
func credit(rec *PlayerRecord, amount int64) (repaid, toMoney int64) {
	if amount <= 0 {
		return 0, 0
	}
	if rec.Debt == 0 {
		rec.Money += amount
		return 0, amount
	}
	if amount >= rec.Debt {
		repaid = rec.Debt
		toMoney = amount - rec.Debt
		rec.Debt = 0
		rec.Money += toMoney
		return repaid, toMoney
	}
	rec.Debt -= amount
	return amount, 0
}

// debit takes amount from money, converting any shortfall into new debt
// rather than failing. Used for gambling stakes and loss settlement; the
// debt-betting ceiling is enforced by the caller before any mutation.
func debit(rec *PlayerRecord, amount int64) {
	if amount <= 0 {
		return
	}
	if rec.Money >= amount {
		rec.Money -= amount
		return
	}
	rec.Debt += amount - rec.Money
	rec.Money = 0
}

// spend is the strict purchase path: it fails with ErrInsufficientFunds on
// shortfall and never creates debt.
func spend(rec *PlayerRecord, amount int64) error {
	if rec.Money < amount {
		return ErrInsufficientFunds
	}
	rec.Money -= amount
	return nil
}

// validateStake enforces the debt-betting ceiling: once a player is in debt
// or has nothing left, stakes are capped.
func validateStake(rec *PlayerRecord, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if (rec.Debt > 0 || rec.Money <= 0) && amount > DebtBetCeiling {
		return &BetTooLargeError{Ceiling: DebtBetCeiling}
	}
	return nil
}
