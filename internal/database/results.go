// internal/database/results.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the shared pool. It stays nil when no DATABASE_URL is configured, in
// which case finished games are not archived.
var DB *pgxpool.Pool

// ErrNotConnected is returned when the archive is used without a pool.
var ErrNotConnected = errors.New("database pool not initialized")

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
	game_id     UUID PRIMARY KEY,
	room_code   TEXT NOT NULL,
	reason      TEXT NOT NULL,
	winner_id   UUID,
	started_at  TIMESTAMPTZ NOT NULL,
	ended_at    TIMESTAMPTZ NOT NULL,
	turns       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS game_result_players (
	game_id     UUID NOT NULL REFERENCES game_results(game_id) ON DELETE CASCADE,
	player_id   UUID NOT NULL,
	name        TEXT NOT NULL,
	is_bot      BOOLEAN NOT NULL,
	place       INTEGER NOT NULL,
	countdown   INTEGER NOT NULL,
	hand_size   INTEGER NOT NULL,
	PRIMARY KEY (game_id, player_id)
);`

// PlayerStanding is one player's final position.
type PlayerStanding struct {
	PlayerID  uuid.UUID
	Name      string
	IsBot     bool
	Place     int
	Countdown int
	HandSize  int
}

// GameResult is the archived outcome of one game.
type GameResult struct {
	GameID    uuid.UUID
	RoomCode  string
	Reason    string    // countdown_zero, last_player, deck_exhausted
	WinnerID  uuid.UUID // uuid.Nil when nobody won
	StartedAt time.Time
	EndedAt   time.Time
	Turns     int
	Standings []PlayerStanding
}

// Connect opens the pool, pings it and creates the results tables.
func Connect(ctx context.Context, url string) error {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return fmt.Errorf("create schema: %w", err)
	}
	DB = pool
	return nil
}

// Close releases the shared pool.
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}

// StoreGameResult writes res and its standings in one transaction.
func StoreGameResult(ctx context.Context, res GameResult) error {
	if DB == nil {
		return ErrNotConnected
	}
	return pgx.BeginFunc(ctx, DB, func(tx pgx.Tx) error {
		var winner *uuid.UUID
		if res.WinnerID != uuid.Nil {
			w := res.WinnerID
			winner = &w
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO game_results (game_id, room_code, reason, winner_id, started_at, ended_at, turns)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			res.GameID, res.RoomCode, res.Reason, winner, res.StartedAt, res.EndedAt, res.Turns)
		if err != nil {
			return fmt.Errorf("insert game %s: %w", res.GameID, err)
		}

		batch := &pgx.Batch{}
		for _, s := range res.Standings {
			batch.Queue(`
				INSERT INTO game_result_players (game_id, player_id, name, is_bot, place, countdown, hand_size)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				res.GameID, s.PlayerID, s.Name, s.IsBot, s.Place, s.Countdown, s.HandSize)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert standings for %s: %w", res.GameID, err)
		}
		return nil
	})
}
