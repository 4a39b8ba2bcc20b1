package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"farmstead/internal/game"
)

// fakeEngine counts ticks and reports production off once the budget runs out.
type fakeEngine struct {
	mu     sync.Mutex
	ticks  map[string]int
	budget int
}

func newFakeEngine(budget int) *fakeEngine {
	return &fakeEngine{ticks: make(map[string]int), budget: budget}
}

func (f *fakeEngine) ApplyProductionTick(ctx context.Context, playerID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks[playerID]++
	return f.ticks[playerID] < f.budget, nil
}

func (f *fakeEngine) count(playerID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ticks[playerID]
}

type fakeStore struct {
	producers []string
}

func (s *fakeStore) Ensure(ctx context.Context, rec *game.PlayerRecord) error { return nil }
func (s *fakeStore) Get(ctx context.Context, playerID string) (*game.PlayerRecord, error) {
	return nil, game.ErrNotRegistered
}
func (s *fakeStore) Update(ctx context.Context, playerID string, fn func(*game.PlayerRecord) error) error {
	return game.ErrNotRegistered
}
func (s *fakeStore) Top(ctx context.Context, category string, limit int) ([]game.LeaderboardEntry, error) {
	return nil, nil
}
func (s *fakeStore) ActiveProducers(ctx context.Context) ([]string, error) {
	return s.producers, nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestLoopStopsWhenProductionEnds(t *testing.T) {
	engine := newFakeEngine(3)
	s := New(engine, &fakeStore{}, slog.New(slog.NewTextHandler(io.Discard, nil)), 2*time.Millisecond)
	defer s.Shutdown()

	s.StartProduction("p1")
	if !s.Running("p1") {
		t.Fatal("loop should be running after start")
	}

	waitFor(t, time.Second, func() bool { return !s.Running("p1") })
}

func TestStartIsIdempotent(t *testing.T) {
	engine := newFakeEngine(1 << 30)
	s := New(engine, &fakeStore{}, slog.New(slog.NewTextHandler(io.Discard, nil)), 2*time.Millisecond)
	defer s.Shutdown()

	s.StartProduction("p1")
	s.StartProduction("p1")
	waitFor(t, time.Second, func() bool { return engine.count("p1") >= 4 })

	s.StopProduction("p1")
	if s.Running("p1") {
		t.Fatal("loop still registered after stop")
	}
	settled := engine.count("p1")
	time.Sleep(20 * time.Millisecond)
	if engine.count("p1") > settled+1 {
		t.Fatalf("ticks kept arriving after stop: %d -> %d", settled, engine.count("p1"))
	}
}

func TestResetRestartsInterval(t *testing.T) {
	engine := newFakeEngine(1 << 30)
	s := New(engine, &fakeStore{}, slog.New(slog.NewTextHandler(io.Discard, nil)), 100*time.Millisecond)
	defer s.Shutdown()

	s.StartProduction("p1")
	time.Sleep(60 * time.Millisecond)
	s.ResetProduction("p1")
	if !s.Running("p1") {
		t.Fatal("loop should survive a reset")
	}

	// The original ticker would have fired by now; the fresh one has not.
	time.Sleep(60 * time.Millisecond)
	if n := engine.count("p1"); n != 0 {
		t.Fatalf("tick arrived inside the reset interval: %d", n)
	}
	waitFor(t, time.Second, func() bool { return engine.count("p1") >= 1 })

	// Resetting a player with no loop does not start one.
	s.ResetProduction("p2")
	if s.Running("p2") {
		t.Fatal("reset started a loop for an idle player")
	}
}

func TestResumeStartsActiveProducers(t *testing.T) {
	engine := newFakeEngine(1 << 30)
	st := &fakeStore{producers: []string{"p1", "p2"}}
	s := New(engine, st, slog.New(slog.NewTextHandler(io.Discard, nil)), 2*time.Millisecond)
	defer s.Shutdown()

	if err := s.Resume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if !s.Running("p1") || !s.Running("p2") {
		t.Fatal("resume did not start both producers")
	}
}

func TestShutdownDrainsLoops(t *testing.T) {
	engine := newFakeEngine(1 << 30)
	s := New(engine, &fakeStore{}, slog.New(slog.NewTextHandler(io.Discard, nil)), 2*time.Millisecond)

	s.StartProduction("p1")
	s.StartProduction("p2")
	s.Shutdown()

	if s.Running("p1") || s.Running("p2") {
		t.Fatal("loops survived shutdown")
	}
	// Starting after shutdown is a no-op.
	s.StartProduction("p3")
	if s.Running("p3") {
		t.Fatal("scheduler accepted work after shutdown")
	}
}
