// Package journal keeps a console-local record of the outcomes an operator
// recorded at the desk. It never talks to the auction backend.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/sqlc-dev/pqtype"

	"github.com/mcdev12/tplauction/go/internal/dbconfig"
	"github.com/mcdev12/tplauction/go/internal/models"
	"github.com/mcdev12/tplauction/go/internal/sqlutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS auction_outcomes (
	id           UUID PRIMARY KEY,
	serial_no    TEXT NOT NULL,
	player_id    TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	team_id      TEXT,
	sold_price   DOUBLE PRECISION,
	announcement JSONB,
	recorded_at  TIMESTAMPTZ NOT NULL
)`

const serialIndex = `CREATE INDEX IF NOT EXISTS auction_outcomes_serial_no_idx ON auction_outcomes (serial_no, recorded_at DESC)`

const insertOutcome = `
INSERT INTO auction_outcomes (id, serial_no, player_id, outcome, team_id, sold_price, announcement, recorded_at)
VALUES (:id, :serial_no, :player_id, :outcome, :team_id, :sold_price, :announcement, :recorded_at)
ON CONFLICT (id) DO NOTHING`

const selectRecent = `
SELECT id, serial_no, player_id, outcome, team_id, sold_price, announcement, recorded_at
FROM auction_outcomes
ORDER BY recorded_at DESC
LIMIT $1`

// Entry is one journaled outcome.
type Entry struct {
	ID         string
	SerialNo   string
	PlayerID   string
	Outcome    models.Outcome
	TeamID     string
	SoldPrice  *float64
	Event      models.AuctionEvent
	RecordedAt time.Time
}

type outcomeRow struct {
	ID           string                `db:"id"`
	SerialNo     string                `db:"serial_no"`
	PlayerID     string                `db:"player_id"`
	Outcome      string                `db:"outcome"`
	TeamID       sql.NullString        `db:"team_id"`
	SoldPrice    sql.NullFloat64       `db:"sold_price"`
	Announcement pqtype.NullRawMessage `db:"announcement"`
	RecordedAt   time.Time             `db:"recorded_at"`
}

func toRow(event models.AuctionEvent) (outcomeRow, error) {
	announcement, err := sqlutil.ToRawJSON(event)
	if err != nil {
		return outcomeRow{}, fmt.Errorf("failed to encode event: %w", err)
	}

	return outcomeRow{
		ID:           event.ID,
		SerialNo:     event.SerialNo,
		PlayerID:     event.PlayerID,
		Outcome:      string(event.Outcome()),
		TeamID:       sqlutil.ToSqlString(event.TeamID),
		SoldPrice:    sqlutil.ToSqlFloat64(event.SoldPrice, event.Type == models.EventPlayerSold),
		Announcement: announcement,
		RecordedAt:   event.OccurredAt.UTC(),
	}, nil
}

func fromRow(row outcomeRow) (Entry, error) {
	entry := Entry{
		ID:         row.ID,
		SerialNo:   row.SerialNo,
		PlayerID:   row.PlayerID,
		Outcome:    models.Outcome(row.Outcome),
		TeamID:     sqlutil.FromSqlString(row.TeamID, ""),
		SoldPrice:  sqlutil.FromSqlFloat64(row.SoldPrice),
		RecordedAt: row.RecordedAt,
	}
	if err := sqlutil.FromRawJSON(row.Announcement, &entry.Event); err != nil {
		return Entry{}, fmt.Errorf("failed to decode event %s: %w", row.ID, err)
	}
	return entry, nil
}

// Repository handles journal database operations
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Open connects to Postgres and makes sure the table exists.
func Open(ctx context.Context, cfg dbconfig.Config) (*Repository, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to journal database: %w", err)
	}

	repo := NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("connected to journal database")
	return repo, nil
}

// Migrate creates the outcomes table and its index.
func (r *Repository) Migrate(ctx context.Context) error {
	return sqlutil.Run(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("failed to create auction_outcomes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, serialIndex); err != nil {
			return fmt.Errorf("failed to create auction_outcomes index: %w", err)
		}
		return nil
	})
}

// Record stores one outcome. Replaying the same event id is a no-op.
func (r *Repository) Record(ctx context.Context, event models.AuctionEvent) error {
	row, err := toRow(event)
	if err != nil {
		return err
	}
	if _, err := r.db.NamedExecContext(ctx, insertOutcome, row); err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

// Recent returns the latest outcomes, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	var rows []outcomeRow
	if err := r.db.SelectContext(ctx, &rows, selectRecent, limit); err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
