package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"farmstead/internal/game"
)

// SQLite is the default single-file backend. The full record lives in a JSON
// blob; the columns next to it mirror the handful of fields leaderboards and
// the scheduler query, and are rewritten on every save.
type SQLite struct {
	db    *sqlx.DB
	locks *keyedLocks
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS players (
	player_id     TEXT PRIMARY KEY,
	display_name  TEXT NOT NULL DEFAULT '',
	banned        INTEGER NOT NULL DEFAULT 0,
	money         INTEGER NOT NULL DEFAULT 0,
	rebirths      INTEGER NOT NULL DEFAULT 0,
	daily_streak  INTEGER NOT NULL DEFAULT 0,
	production_on INTEGER NOT NULL DEFAULT 0,
	record        TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_players_money ON players(money);
CREATE INDEX IF NOT EXISTS idx_players_rebirths ON players(rebirths);
CREATE INDEX IF NOT EXISTS idx_players_production ON players(production_on);
`

// OpenSQLite opens or creates the database at path and runs migrations.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY under concurrent Update calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLite{db: db, locks: newKeyedLocks()}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Ensure(ctx context.Context, rec *game.PlayerRecord) error {
	unlock := s.locks.acquire(rec.PlayerID)
	defer unlock()

	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encode record: %v", game.ErrStoreUnavailable, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO players (player_id, display_name, banned, money, rebirths, daily_streak, production_on, record, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO NOTHING`,
		rec.PlayerID, rec.DisplayName, boolInt(rec.Banned), rec.Money, rec.Rebirths,
		rec.DailyStreak, boolInt(rec.ProductionOn), string(blob), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("%w: insert player: %v", game.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, playerID string) (*game.PlayerRecord, error) {
	var blob string
	err := s.db.GetContext(ctx, &blob, `SELECT record FROM players WHERE player_id = ?`, playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNotRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load player: %v", game.ErrStoreUnavailable, err)
	}
	return decodeRecord(blob)
}

func (s *SQLite) Update(ctx context.Context, playerID string, fn func(*game.PlayerRecord) error) error {
	unlock := s.locks.acquire(playerID)
	defer unlock()

	rec, err := s.Get(ctx, playerID)
	if err != nil {
		return err
	}
	if err := fn(rec); err != nil {
		return err
	}

	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encode record: %v", game.ErrStoreUnavailable, err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE players
		SET display_name = ?, banned = ?, money = ?, rebirths = ?, daily_streak = ?, production_on = ?, record = ?, updated_at = ?
		WHERE player_id = ?`,
		rec.DisplayName, boolInt(rec.Banned), rec.Money, rec.Rebirths, rec.DailyStreak,
		boolInt(rec.ProductionOn), string(blob), time.Now().UTC().Format(time.RFC3339), playerID,
	)
	if err != nil {
		return fmt.Errorf("%w: save player: %v", game.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SQLite) Top(ctx context.Context, category string, limit int) ([]game.LeaderboardEntry, error) {
	col, err := leaderboardColumn(category)
	if err != nil {
		return nil, err
	}
	rows := []struct {
		PlayerID    string `db:"player_id"`
		DisplayName string `db:"display_name"`
		Value       int64  `db:"value"`
	}{}
	q := fmt.Sprintf(`SELECT player_id, display_name, %s AS value FROM players WHERE banned = 0 ORDER BY value DESC, player_id ASC LIMIT ?`, col)
	if err := s.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, fmt.Errorf("%w: leaderboard: %v", game.ErrStoreUnavailable, err)
	}
	out := make([]game.LeaderboardEntry, len(rows))
	for i, r := range rows {
		out[i] = game.LeaderboardEntry{Rank: i + 1, PlayerID: r.PlayerID, DisplayName: r.DisplayName, Value: r.Value}
	}
	return out, nil
}

func (s *SQLite) ActiveProducers(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.SelectContext(ctx, &ids, `SELECT player_id FROM players WHERE production_on = 1 AND banned = 0`)
	if err != nil {
		return nil, fmt.Errorf("%w: active producers: %v", game.ErrStoreUnavailable, err)
	}
	return ids, nil
}

// leaderboardColumn maps a category to its mirrored column. The whitelist
// keeps category names out of SQL.
func leaderboardColumn(category string) (string, error) {
	switch category {
	case "money":
		return "money", nil
	case "rebirths":
		return "rebirths", nil
	case "daily_streak":
		return "daily_streak", nil
	}
	return "", game.ErrUnknownCategory
}

func decodeRecord(blob string) (*game.PlayerRecord, error) {
	var rec game.PlayerRecord
	if err := json.Unmarshal([]byte(blob), &rec); err != nil {
		return nil, fmt.Errorf("%w: decode record: %v", game.ErrStoreUnavailable, err)
	}
	rec.Normalize()
	return &rec, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
