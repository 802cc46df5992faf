package contract

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported SQL drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type sqlDialect struct {
	create string
	upsert string
	remove string
	scan   string
}

var sqlDialects = map[string]sqlDialect{
	DriverSQLite: {
		create: `CREATE TABLE IF NOT EXISTS kv (k BLOB PRIMARY KEY, v BLOB NOT NULL)`,
		upsert: `INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		remove: `DELETE FROM kv WHERE k = ?`,
		scan:   `SELECT k, v FROM kv`,
	},
	DriverPostgres: {
		create: `CREATE TABLE IF NOT EXISTS kv (k BYTEA PRIMARY KEY, v BYTEA NOT NULL)`,
		upsert: `INSERT INTO kv (k, v) VALUES ($1, $2) ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v`,
		remove: `DELETE FROM kv WHERE k = $1`,
		scan:   `SELECT k, v FROM kv`,
	},
}

// SQLState keeps a read cache in memory and writes every engine call as one SQL transaction.
type SQLState struct {
	*MockState
	db      *sql.DB
	dialect sqlDialect
}

// OpenSQLState connects, creates the kv table if needed and warms the cache.
func OpenSQLState(ctx context.Context, driver, dsn string) (*SQLState, error) {
	dialect, ok := sqlDialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("storage dsn is required")
	}
	if driver == DriverSQLite && dsn != ":memory:" && !strings.Contains(dsn, "?") {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one writer, and :memory: databases are per connection
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, dialect.create); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	s := &SQLState{MockState: NewMockState(), db: db, dialect: dialect}
	if err := s.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLState) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, s.dialect.scan)
	if err != nil {
		return fmt.Errorf("load kv: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var k, v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return fmt.Errorf("scan kv: %w", err)
		}
		s.MockState.db[string(k)] = string(v)
	}
	return rows.Err()
}

// ApplyBatch commits writes in one transaction and updates the cache only after COMMIT succeeded.
func (s *SQLState) ApplyBatch(ctx context.Context, writes []Write) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin kv tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	upsert, err := tx.PrepareContext(ctx, s.dialect.upsert)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer upsert.Close()
	remove, err := tx.PrepareContext(ctx, s.dialect.remove)
	if err != nil {
		return fmt.Errorf("prepare delete: %w", err)
	}
	defer remove.Close()

	for _, w := range writes {
		if w.Value == nil {
			_, err = remove.ExecContext(ctx, []byte(w.Key))
		} else {
			_, err = upsert.ExecContext(ctx, []byte(w.Key), []byte(*w.Value))
		}
		if err != nil {
			return fmt.Errorf("write kv: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit kv tx: %w", err)
	}
	s.MockState.mu.Lock()
	s.MockState.apply(writes)
	s.MockState.mu.Unlock()
	return nil
}

// Close closes the database handle.
func (s *SQLState) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
