package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/GregMSThompson/dashboard-backend/internal/errs"
)

const layoutSchema = `CREATE TABLE IF NOT EXISTS layout_kv (
	owner      TEXT NOT NULL,
	key        TEXT NOT NULL,
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (owner, key)
)`

// sqliteLayoutStore is the single-node durable scope.
type sqliteLayoutStore struct {
	db *sql.DB
}

// NewSQLiteLayoutStore creates the layout table if needed.
func NewSQLiteLayoutStore(ctx context.Context, db *sql.DB) (*sqliteLayoutStore, error) {
	if _, err := db.ExecContext(ctx, layoutSchema); err != nil {
		return nil, errs.NewDatabaseError("write", "failed to create layout table", err)
	}
	return &sqliteLayoutStore{db: db}, nil
}

func (s *sqliteLayoutStore) Get(ctx context.Context, owner, key string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM layout_kv WHERE owner = ? AND key = ?`, owner, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to get layout record", err)
	}
	return []byte(payload), nil
}

func (s *sqliteLayoutStore) Put(ctx context.Context, owner, key string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO layout_kv (owner, key, payload, updated_at) VALUES (?, ?, ?, ?)`,
		owner, key, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errs.NewDatabaseError("write", "failed to write layout record", err)
	}
	return nil
}

func (s *sqliteLayoutStore) Clear(ctx context.Context, owner string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM layout_kv WHERE owner = ?`, owner)
	if err != nil {
		return 0, errs.NewDatabaseError("delete", "failed to delete layout records", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errs.NewDatabaseError("delete", "failed to count deleted layout records", err)
	}
	return int(n), nil
}

// Owners lists every owner that has at least one layout record.
func (s *sqliteLayoutStore) Owners(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT owner FROM layout_kv ORDER BY owner`)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list layout owners", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var o string
		if err := rows.Scan(&o); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to scan layout owner", err)
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list layout owners", err)
	}
	return owners, nil
}
