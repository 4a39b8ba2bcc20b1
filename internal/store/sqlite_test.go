package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"farmstead/internal/game"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestEnsureAndGet(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.Get(ctx, "p1"); !errors.Is(err, game.ErrNotRegistered) {
		t.Fatalf("missing player: %v", err)
	}

	rec := game.NewPlayerRecord("p1", "Alice")
	rec.Money = 42
	if err := st.Ensure(ctx, rec); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	got, err := st.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PlayerID != "p1" || got.DisplayName != "Alice" || got.Money != 42 {
		t.Fatalf("round trip: %+v", got)
	}

	// Ensure on an existing player leaves the record alone.
	fresh := game.NewPlayerRecord("p1", "Impostor")
	if err := st.Ensure(ctx, fresh); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	got, err = st.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("get after second ensure: %v", err)
	}
	if got.DisplayName != "Alice" || got.Money != 42 {
		t.Fatalf("second ensure overwrote record: %+v", got)
	}
}

func TestUpdatePersistsAndAborts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Ensure(ctx, game.NewPlayerRecord("p1", "")); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	err := st.Update(ctx, "p1", func(rec *game.PlayerRecord) error {
		rec.Money = 100
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	boom := errors.New("boom")
	err = st.Update(ctx, "p1", func(rec *game.PlayerRecord) error {
		rec.Money = 999
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want fn error back, got %v", err)
	}

	got, err := st.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Money != 100 {
		t.Fatalf("aborted update leaked a write: money=%d", got.Money)
	}
}

func TestUpdateSerializesPerPlayer(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Ensure(ctx, game.NewPlayerRecord("p1", "")); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	const writers = 50
	var wg sync.WaitGroup
	errCh := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- st.Update(ctx, "p1", func(rec *game.PlayerRecord) error {
				rec.Money++
				return nil
			})
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("concurrent update: %v", err)
		}
	}

	got, err := st.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Money != writers {
		t.Fatalf("lost updates: money=%d want %d", got.Money, writers)
	}
}

func TestTopAndActiveProducers(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	seed := []struct {
		id       string
		money    int64
		rebirths int
		banned   bool
		prodOn   bool
	}{
		{"rich", 5_000, 2, false, true},
		{"mid", 1_000, 9, false, false},
		{"banned", 9_999, 99, true, true},
	}
	for _, p := range seed {
		rec := game.NewPlayerRecord(p.id, p.id)
		rec.Money = p.money
		rec.Rebirths = p.rebirths
		rec.Banned = p.banned
		rec.ProductionOn = p.prodOn
		if err := st.Ensure(ctx, rec); err != nil {
			t.Fatalf("ensure %s: %v", p.id, err)
		}
	}

	top, err := st.Top(ctx, "money", 10)
	if err != nil {
		t.Fatalf("top money: %v", err)
	}
	if len(top) != 2 || top[0].PlayerID != "rich" || top[1].PlayerID != "mid" {
		t.Fatalf("money board: %+v", top)
	}

	top, err = st.Top(ctx, "rebirths", 1)
	if err != nil {
		t.Fatalf("top rebirths: %v", err)
	}
	if len(top) != 1 || top[0].PlayerID != "mid" || top[0].Value != 9 {
		t.Fatalf("rebirth board: %+v", top)
	}

	if _, err := st.Top(ctx, "charisma", 10); !errors.Is(err, game.ErrUnknownCategory) {
		t.Fatalf("unknown category: %v", err)
	}

	ids, err := st.ActiveProducers(ctx)
	if err != nil {
		t.Fatalf("active producers: %v", err)
	}
	if len(ids) != 1 || ids[0] != "rich" {
		t.Fatalf("producers: %v", ids)
	}
}
