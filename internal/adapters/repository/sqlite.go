package repository

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/apexstats/internal/domain/model"
	"github.com/okian/apexstats/pkg/logger"

	_ "modernc.org/sqlite"
)

// Counters are unsigned; they are stored as the int64 with the same bit
// pattern so the full uint64 range round trips. Never aggregate them in SQL.
const sqliteSchema = `CREATE TABLE IF NOT EXISTS observations (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	kills          INTEGER NOT NULL,
	damage         INTEGER NOT NULL,
	squad_position INTEGER NOT NULL,
	character      TEXT    NOT NULL,
	squad          TEXT    NOT NULL,
	notes          TEXT    NOT NULL,
	recorded_at    TEXT    NOT NULL
)`

// SQLiteStore is a Store backed by a single SQLite table. Insertion order is
// the autoincrement id.
type SQLiteStore struct {
	path   string
	sqlDB  *sql.DB
	logger logger.Logger
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// schema.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	const op = "sqlite.open"
	if strings.TrimSpace(path) == "" {
		return nil, ioError(op, path, fmt.Errorf("storage path is required"))
	}
	o := buildOptions(opts)

	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, ioError(op, cleanPath, err)
	}
	// One connection keeps the single-writer model of the log.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, ioError(op, cleanPath, err)
	}
	if _, err := sqlDB.ExecContext(ctx, sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, ioError(op, cleanPath, fmt.Errorf("apply schema: %w", err))
	}
	o.logger.Debug(ctx, "sqlite store opened", logger.String("path", cleanPath))
	return &SQLiteStore{path: cleanPath, sqlDB: sqlDB, logger: o.logger}, nil
}

// Append inserts o as the newest row.
func (s *SQLiteStore) Append(ctx context.Context, o model.Observation) error {
	const op = "sqlite.append"
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO observations (
		   kills, damage, squad_position, character, squad, notes, recorded_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		counterBits(o.Kills),
		counterBits(o.Damage),
		counterBits(o.SquadPosition),
		o.Character.String(),
		o.Squad.String(),
		o.Notes,
		o.RecordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return ioError(op, s.path, err)
	}
	return nil
}

// Records streams rows ordered by id.
func (s *SQLiteStore) Records(ctx context.Context) iter.Seq2[model.Observation, error] {
	const op = "sqlite.records"
	return func(yield func(model.Observation, error) bool) {
		rows, err := s.sqlDB.QueryContext(ctx,
			`SELECT id, kills, damage, squad_position, character, squad, notes, recorded_at
			   FROM observations ORDER BY id`)
		if err != nil {
			yield(model.Observation{}, ioError(op, s.path, err))
			return
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var (
				id                      int64
				kills, damage, position int64
				character, squad        string
				notes, recordedAt       string
			)
			if err := rows.Scan(&id, &kills, &damage, &position, &character, &squad, &notes, &recordedAt); err != nil {
				yield(model.Observation{}, ioError(op, s.path, err))
				return
			}
			o, err := decodeSQLiteRow(kills, damage, position, character, squad, notes, recordedAt)
			if err != nil {
				yield(model.Observation{}, corruptError(op, s.path, int(id), err))
				return
			}
			if !yield(o, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			if ctx.Err() != nil {
				yield(model.Observation{}, ctx.Err())
				return
			}
			yield(model.Observation{}, ioError(op, s.path, err))
		}
	}
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func decodeSQLiteRow(kills, damage, position int64, character, squad, notes, recordedAt string) (model.Observation, error) {
	c, err := model.ParseCharacter(character)
	if err != nil {
		return model.Observation{}, err
	}
	sq, err := model.DecodeSquadComposition(squad)
	if err != nil {
		return model.Observation{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return model.Observation{}, err
	}
	return model.Observation{
		Kills:         uint64(kills),    //nolint:gosec // bit pattern written by counterBits
		Damage:        uint64(damage),   //nolint:gosec // bit pattern written by counterBits
		SquadPosition: uint64(position), //nolint:gosec // bit pattern written by counterBits
		Character:     c,
		Squad:         sq,
		Notes:         notes,
		RecordedAt:    at,
	}, nil
}

func counterBits(n uint64) int64 {
	return int64(n) //nolint:gosec // reinterpreted by decodeSQLiteRow
}
