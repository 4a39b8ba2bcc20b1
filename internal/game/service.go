package game

import (
	"context"
	"log/slog"
	"maps"
	mathrand "math/rand"
	"strings"
	"sync"
	"time"
)

// Service implements every player-facing operation. It holds no authoritative
// state of its own beyond pending rebirth offers; all player state lives in
// the Store and is mutated only inside Store.Update.
type Service struct {
	store Store
	log   *slog.Logger

	mu   sync.Mutex
	rand *mathrand.Rand
	now  func() time.Time

	producer ProductionNotifier

	offerMu sync.Mutex
	offers  map[string]pendingRebirth
}

func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		log:    logger,
		rand:   mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
		offers: make(map[string]pendingRebirth),
	}
}

// SetProducer registers the milk scheduler. Operations that flip production
// state notify it after the record change has been persisted.
func (s *Service) SetProducer(p ProductionNotifier) {
	s.producer = p
}

// randInt returns a uniform integer in [lo, hi], both bounds inclusive.
func (s *Service) randInt(lo, hi int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rand.Intn(hi-lo+1)
}

func (s *Service) randFloat() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Float64()
}

// oneIn rolls a 1-in-n rare event.
func (s *Service) oneIn(n int) bool {
	return s.randInt(1, n) == 1
}

// guard is the precondition every operation checks before mutating anything.
func guard(rec *PlayerRecord) error {
	if !rec.Registered {
		return ErrNotRegistered
	}
	if rec.Banned {
		return ErrBanned
	}
	return nil
}

// Register creates the player's record, or back-fills an existing one that a
// previous schema left incomplete. It is safe to call repeatedly.
func (s *Service) Register(ctx context.Context, playerID, displayName string) (created bool, err error) {
	playerID = strings.TrimSpace(playerID)
	displayName = strings.TrimSpace(displayName)
	if playerID == "" {
		return false, ErrNotRegistered
	}

	_, err = s.store.Get(ctx, playerID)
	switch {
	case err == nil:
		err = s.store.Update(ctx, playerID, func(rec *PlayerRecord) error {
			if rec.Banned {
				return ErrBanned
			}
			rec.Registered = true
			if displayName != "" {
				rec.DisplayName = displayName
			}
			return nil
		})
		return false, err
	case err == ErrNotRegistered:
		rec := NewPlayerRecord(playerID, displayName)
		if err := s.store.Ensure(ctx, rec); err != nil {
			return false, err
		}
		s.log.Info("player registered", "player_id", playerID, "display_name", displayName)
		return true, nil
	default:
		return false, err
	}
}

// Profile returns the full read-only snapshot of a player.
func (s *Service) Profile(ctx context.Context, playerID string) (Snapshot, error) {
	rec, err := s.load(ctx, playerID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		PlayerID:       rec.PlayerID,
		DisplayName:    rec.DisplayName,
		Rebirths:       rec.Rebirths,
		Multiplier:     rec.RebirthMultiplier,
		Money:          rec.Money,
		Debt:           rec.Debt,
		TotalEarnings:  rec.TotalEarnings,
		TotalUpgrades:  rec.TotalUpgrades(),
		Resources:      maps.Clone(rec.Resources),
		Milk:           rec.Milk,
		Treasures:      maps.Clone(rec.Treasures),
		TreasureTotals: maps.Clone(rec.TreasureTotals),
		CowOwned:       rec.CowOwned,
		Streak: StreakInfo{
			Current:     rec.DailyStreak,
			Longest:     rec.LongestStreak,
			TotalClaims: rec.TotalClaims,
		},
		FarmUses:     rec.FarmUses,
		TotalWagered: rec.TotalWagered,
		NetGambled:   rec.NetGambled,
		CoinflipUses: rec.CoinflipUses,
	}, nil
}

// GetInventory returns the sellable view of a player.
func (s *Service) GetInventory(ctx context.Context, playerID string) (Inventory, error) {
	rec, err := s.load(ctx, playerID)
	if err != nil {
		return Inventory{}, err
	}
	return Inventory{
		Resources: maps.Clone(rec.Resources),
		Milk:      rec.Milk,
		Treasures: maps.Clone(rec.Treasures),
		Money:     rec.Money,
		Debt:      rec.Debt,
	}, nil
}

// Streak returns streak counters only.
func (s *Service) Streak(ctx context.Context, playerID string) (StreakInfo, error) {
	rec, err := s.load(ctx, playerID)
	if err != nil {
		return StreakInfo{}, err
	}
	return StreakInfo{
		Current:     rec.DailyStreak,
		Longest:     rec.LongestStreak,
		TotalClaims: rec.TotalClaims,
	}, nil
}

// Leaderboard returns the top players for a category: rebirths, money or
// daily_streak.
func (s *Service) Leaderboard(ctx context.Context, category string, limit int) ([]LeaderboardEntry, error) {
	switch category {
	case "rebirths", "money", "daily_streak":
	default:
		return nil, ErrUnknownCategory
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.store.Top(ctx, category, limit)
}

// SetBanned flips the ban flag. Banned players fail every operation.
func (s *Service) SetBanned(ctx context.Context, playerID string, banned bool) error {
	err := s.store.Update(ctx, playerID, func(rec *PlayerRecord) error {
		rec.Banned = banned
		return nil
	})
	if err == nil {
		s.log.Info("ban flag changed", "player_id", playerID, "banned", banned)
	}
	return err
}

// load fetches a record and applies the registration/ban guard.
func (s *Service) load(ctx context.Context, playerID string) (*PlayerRecord, error) {
	rec, err := s.store.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := guard(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// update runs fn inside the store's per-player lock after the guard.
func (s *Service) update(ctx context.Context, playerID string, fn func(*PlayerRecord) error) error {
	return s.store.Update(ctx, playerID, func(rec *PlayerRecord) error {
		if err := guard(rec); err != nil {
			return err
		}
		return fn(rec)
	})
}
