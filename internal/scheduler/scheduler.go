// Package scheduler runs the autonomous milk production loops. Each producing
// player gets one goroutine ticking at the configured interval; the loop ends
// when production is toggled off, the storage fills up, or the scheduler
// shuts down.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"farmstead/internal/game"
)

// Ticker is the slice of the engine the scheduler needs.
type Ticker interface {
	ApplyProductionTick(ctx context.Context, playerID string) (bool, error)
}

type Scheduler struct {
	svc      Ticker
	store    game.Store
	log      *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	closed  bool

	wg sync.WaitGroup
}

func New(svc Ticker, store game.Store, logger *slog.Logger, interval time.Duration) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Scheduler{
		svc:      svc,
		store:    store,
		log:      logger,
		interval: interval,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// StartProduction launches the player's tick loop. Starting an already
// running player is a no-op.
func (s *Scheduler) StartProduction(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if _, running := s.cancels[playerID]; running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancels[playerID] = cancel
	s.wg.Add(1)
	go s.run(ctx, playerID)
	s.log.Info("production loop started", "player_id", playerID)
}

// StopProduction cancels the player's loop if one is running.
func (s *Scheduler) StopProduction(playerID string) {
	s.mu.Lock()
	cancel, ok := s.cancels[playerID]
	if ok {
		delete(s.cancels, playerID)
	}
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

// ResetProduction replaces the player's loop with a fresh one, so the next
// tick lands a full interval from now. Collecting milk resets the interval;
// a player with no running loop is left alone.
func (s *Scheduler) ResetProduction(playerID string) {
	s.mu.Lock()
	cancel, ok := s.cancels[playerID]
	if ok {
		delete(s.cancels, playerID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	cancel()
	s.StartProduction(playerID)
}

// Running reports whether the player currently has a tick loop.
func (s *Scheduler) Running(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cancels[playerID]
	return ok
}

// Resume restarts loops for every player whose record says production is on.
// Called once at boot so a restart does not strand producing cows.
func (s *Scheduler) Resume(ctx context.Context) error {
	ids, err := s.store.ActiveProducers(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		s.StartProduction(id)
	}
	if len(ids) > 0 {
		s.log.Info("production loops resumed", "count", len(ids))
	}
	return nil
}

// Shutdown cancels every loop and waits for the goroutines to drain.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	s.closed = true
	for id, cancel := range s.cancels {
		cancel()
		delete(s.cancels, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, playerID string) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stillOn, err := s.svc.ApplyProductionTick(ctx, playerID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.log.Error("production tick failed", "player_id", playerID, "err", err)
				continue
			}
			if !stillOn {
				s.StopProduction(playerID)
				return
			}
		}
	}
}
