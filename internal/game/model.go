package game

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	CowCost          = int64(50_000)
	MilkStorageCap   = int64(300)
	DebtBetCeiling   = int64(25_000)
	PlinkoRebirths   = 7
	CoinflipRebirths = 12

	rebirthBasePrice = 100_000.0
	rebirthGrowth    = 1.4
	rebirthBonus     = 1.1
)

// rebirthGate is the rebirth count required before a resource can be produced
// at all. Zero means available from the start.
var rebirthGate = map[Resource]int{
	Wheat:     0,
	Wood:      0,
	Stone:     5,
	Hardwood:  10,
	IronOre:   15,
	SilverOre: 20,
	GoldOre:   25,
}

// RebirthGate reports the rebirth count required to produce res.
func RebirthGate(res Resource) int { return rebirthGate[res] }

// treasurePrice is the flat sale price per treasure before the rebirth
// multiplier is applied.
var treasurePrice = map[Treasure]int64{
	Cucumber:     5_000,
	Candy:        10_000,
	Weed:         25_000,
	RareArtifact: 50_000,
}

var (
	ErrNotRegistered     = errors.New("player is not registered")
	ErrBanned            = errors.New("player is banned")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrMaxLevelReached   = errors.New("upgrade is already at max level")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrNothingToSell     = errors.New("nothing to sell")
	ErrAlreadyClaimed    = errors.New("daily reward already claimed today")
	ErrCowAlreadyOwned   = errors.New("cow already owned")
	ErrNoCow             = errors.New("no cow owned")
	ErrStaleRebirth      = errors.New("rebirth confirmation is no longer valid")
	ErrUnknownUpgrade    = errors.New("unknown upgrade kind")
	ErrUnknownCategory   = errors.New("unknown leaderboard category")
	ErrStoreUnavailable  = errors.New("player store unavailable")
)

// CooldownError reports a farm attempt inside the cooldown window. Nothing is
// mutated when it is returned.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("farming on cooldown for another %.1fs", e.Remaining.Seconds())
}

// BetTooLargeError reports a stake above the debt-betting ceiling.
type BetTooLargeError struct {
	Ceiling int64
}

func (e *BetTooLargeError) Error() string {
	return fmt.Sprintf("while in debt the maximum bet is %d coins", e.Ceiling)
}

// RebirthLockedError reports an operation gated behind a rebirth count the
// player has not reached.
type RebirthLockedError struct {
	Required int
}

func (e *RebirthLockedError) Error() string {
	return fmt.Sprintf("requires at least %d rebirths", e.Required)
}

// LeaderboardEntry is one row of a leaderboard query.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Value       int64  `json:"value"`
}

// Store is the durable player-record store. Update is the only mutation path:
// it loads the record, runs fn under the player's lock, and persists the
// result atomically before returning. fn returning an error aborts the write.
// Implementations must wrap persistence failures in ErrStoreUnavailable and
// must not block operations on different players against each other.
type Store interface {
	Ensure(ctx context.Context, rec *PlayerRecord) error
	Get(ctx context.Context, playerID string) (*PlayerRecord, error)
	Update(ctx context.Context, playerID string, fn func(*PlayerRecord) error) error
	Top(ctx context.Context, category string, limit int) ([]LeaderboardEntry, error)
	ActiveProducers(ctx context.Context) ([]string, error)
}

// ProductionNotifier is how the engine tells the milk scheduler that a
// player's production state changed. The scheduler registers itself at boot.
type ProductionNotifier interface {
	StartProduction(playerID string)
	StopProduction(playerID string)
	// ResetProduction restarts the player's tick loop so the next unit of
	// milk lands a full interval after the call.
	ResetProduction(playerID string)
}
