// Package store implements the leaderboard persistence boundary
// (internal/app.Leaderboard) against Postgres, with an optional Redis
// read-through cache in front of the hot "top players" query. Grounded on
// the original's postgres::Database/PlayerRepositoryImpl (exact schema,
// exact ordering) and on MOHCentral-opm-stats-api's direct pgxpool.Pool /
// redis.Client usage pattern (no extra ORM layer).
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Proger1298/gaming-server/internal/app"
)

// MaxRecordsLimit is the hard cap on a single records-table query, matching
// the original's PlayerRepositoryImpl::GetRecordsTable behavior. Callers at
// the HTTP boundary are expected to reject a larger request before it ever
// reaches here (see internal/httpapi), so this package does not re-check it.
const MaxRecordsLimit = 100

// Postgres is a Leaderboard backed by a retired_players table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to dbURL and idempotently creates the retired_players
// table and its ordering index, mirroring the original's constructor, which
// runs the same CREATE TABLE IF NOT EXISTS / CREATE INDEX IF NOT EXISTS pair
// on every startup.
func NewPostgres(ctx context.Context, dbURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS retired_players (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			score INTEGER NOT NULL,
			play_time DOUBLE PRECISION NOT NULL
		);

		CREATE INDEX IF NOT EXISTS retired_players_score_play_time_name_idx
		ON retired_players (score DESC, play_time ASC, name ASC);
	`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// RetirePlayer inserts one retirement record.
func (p *Postgres) RetirePlayer(ctx context.Context, rec app.RetiredPlayer) error {
	_, err := p.pool.Exec(ctx,
		"INSERT INTO retired_players (name, score, play_time) VALUES ($1, $2, $3)",
		rec.Name, rec.Score, rec.PlayTime,
	)
	if err != nil {
		return fmt.Errorf("store: insert retired player: %w", err)
	}
	return nil
}

// TopPlayers returns up to maxItems records ordered by score DESC, play_time
// ASC, name ASC, starting at start.
func (p *Postgres) TopPlayers(ctx context.Context, start, maxItems int) ([]app.RetiredPlayer, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT name, score, play_time FROM retired_players "+
			"ORDER BY score DESC, play_time ASC, name ASC "+
			"LIMIT $1 OFFSET $2",
		maxItems, start,
	)
	if err != nil {
		return nil, fmt.Errorf("store: query records: %w", err)
	}
	defer rows.Close()

	var out []app.RetiredPlayer
	for rows.Next() {
		var rec app.RetiredPlayer
		if err := rows.Scan(&rec.Name, &rec.Score, &rec.PlayTime); err != nil {
			return nil, fmt.Errorf("store: scan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate records: %w", err)
	}
	return out, nil
}
