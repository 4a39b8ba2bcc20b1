package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"farmstead/internal/game"
)

// Postgres is the shared-deployment backend. Row locks (SELECT ... FOR
// UPDATE) serialize cross-process writers; the in-process lock table keeps
// local callers from piling up transactions on the same row.
type Postgres struct {
	pool  *pgxpool.Pool
	locks *keyedLocks
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS players (
	player_id     TEXT PRIMARY KEY,
	display_name  TEXT NOT NULL DEFAULT '',
	banned        BOOLEAN NOT NULL DEFAULT FALSE,
	money         BIGINT NOT NULL DEFAULT 0,
	rebirths      BIGINT NOT NULL DEFAULT 0,
	daily_streak  BIGINT NOT NULL DEFAULT 0,
	production_on BOOLEAN NOT NULL DEFAULT FALSE,
	record        JSONB NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_players_money ON players(money);
CREATE INDEX IF NOT EXISTS idx_players_rebirths ON players(rebirths);
CREATE INDEX IF NOT EXISTS idx_players_production ON players(production_on);
`

// OpenPostgres connects, pings and migrates.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Postgres{pool: pool, locks: newKeyedLocks()}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) Ensure(ctx context.Context, rec *game.PlayerRecord) error {
	unlock := p.locks.acquire(rec.PlayerID)
	defer unlock()

	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encode record: %v", game.ErrStoreUnavailable, err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO players (player_id, display_name, banned, money, rebirths, daily_streak, production_on, record)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (player_id) DO NOTHING`,
		rec.PlayerID, rec.DisplayName, rec.Banned, rec.Money, rec.Rebirths,
		rec.DailyStreak, rec.ProductionOn, blob,
	)
	if err != nil {
		return fmt.Errorf("%w: insert player: %v", game.ErrStoreUnavailable, err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, playerID string) (*game.PlayerRecord, error) {
	var blob []byte
	err := p.pool.QueryRow(ctx, `SELECT record FROM players WHERE player_id = $1`, playerID).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, game.ErrNotRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load player: %v", game.ErrStoreUnavailable, err)
	}
	return decodeRecord(string(blob))
}

func (p *Postgres) Update(ctx context.Context, playerID string, fn func(*game.PlayerRecord) error) error {
	unlock := p.locks.acquire(playerID)
	defer unlock()

	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", game.ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	var blob []byte
	err = tx.QueryRow(ctx, `SELECT record FROM players WHERE player_id = $1 FOR UPDATE`, playerID).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return game.ErrNotRegistered
	}
	if err != nil {
		return fmt.Errorf("%w: load player: %v", game.ErrStoreUnavailable, err)
	}
	rec, err := decodeRecord(string(blob))
	if err != nil {
		return err
	}
	if err := fn(rec); err != nil {
		return err
	}

	out, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encode record: %v", game.ErrStoreUnavailable, err)
	}
	_, err = tx.Exec(ctx, `
		UPDATE players
		SET display_name = $2, banned = $3, money = $4, rebirths = $5, daily_streak = $6, production_on = $7, record = $8, updated_at = now()
		WHERE player_id = $1`,
		playerID, rec.DisplayName, rec.Banned, rec.Money, rec.Rebirths,
		rec.DailyStreak, rec.ProductionOn, out,
	)
	if err != nil {
		return fmt.Errorf("%w: save player: %v", game.ErrStoreUnavailable, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", game.ErrStoreUnavailable, err)
	}
	return nil
}

func (p *Postgres) Top(ctx context.Context, category string, limit int) ([]game.LeaderboardEntry, error) {
	col, err := leaderboardColumn(category)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT player_id, display_name, %s FROM players WHERE NOT banned ORDER BY %s DESC, player_id ASC LIMIT $1`, col, col)
	rows, err := p.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: leaderboard: %v", game.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []game.LeaderboardEntry
	for rows.Next() {
		var e game.LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.DisplayName, &e.Value); err != nil {
			return nil, fmt.Errorf("%w: leaderboard: %v", game.ErrStoreUnavailable, err)
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: leaderboard: %v", game.ErrStoreUnavailable, err)
	}
	return out, nil
}

func (p *Postgres) ActiveProducers(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT player_id FROM players WHERE production_on AND NOT banned`)
	if err != nil {
		return nil, fmt.Errorf("%w: active producers: %v", game.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: active producers: %v", game.ErrStoreUnavailable, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: active producers: %v", game.ErrStoreUnavailable, err)
	}
	return ids, nil
}
