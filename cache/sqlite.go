package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS namespaces (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS entries (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	namespace INTEGER NOT NULL REFERENCES namespaces(id) ON DELETE CASCADE,
	url       TEXT NOT NULL,
	status    INTEGER NOT NULL,
	header    TEXT NOT NULL,
	body      BLOB NOT NULL,
	UNIQUE (namespace, url)
);`

// SQLiteStorage persists the namespaces in an SQLite database, so the cached assets
// survive a restart. It is safe for concurrent use.
type SQLiteStorage struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// The ":memory:" path opens a private in-memory database.
func OpenSQLite(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// A single connection: the pragmas are per connection and every ":memory:"
	// connection would open a separate database.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range append(pragmas, schema) {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	return &SQLiteStorage{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Open implements Storage.
func (s *SQLiteStorage) Open(ctx context.Context, name string) (Namespace, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO namespaces (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name,
	); err != nil {
		return nil, fmt.Errorf("sqlite: open namespace %s: %w", name, err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT id FROM namespaces WHERE name = ?`, name,
	).Scan(&id); err != nil {
		return nil, fmt.Errorf("sqlite: open namespace %s: %w", name, err)
	}
	return &sqliteNamespace{db: s.db, id: id}, nil
}

// Has implements Storage.
func (s *SQLiteStorage) Has(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM namespaces WHERE name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: has %s: %w", name, err)
	}
	return n > 0, nil
}

// Keys implements Storage.
func (s *SQLiteStorage) Keys(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, s.db, `SELECT name FROM namespaces ORDER BY id`)
}

// Delete implements Storage.
func (s *SQLiteStorage) Delete(ctx context.Context, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM namespaces WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("sqlite: delete %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: delete %s: %w", name, err)
	}
	return n > 0, nil
}

type sqliteNamespace struct {
	db *sql.DB
	id int64
}

func (n *sqliteNamespace) Match(ctx context.Context, key string) (*Entry, error) {
	var (
		e      Entry
		header string
	)
	err := n.db.QueryRowContext(ctx,
		`SELECT status, header, body FROM entries WHERE namespace = ? AND url = ?`, n.id, key,
	).Scan(&e.Status, &header, &e.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: match %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(header), &e.Header); err != nil {
		return nil, fmt.Errorf("sqlite: decode header of %s: %w", key, err)
	}
	return &e, nil
}

func (n *sqliteNamespace) Put(ctx context.Context, key string, e *Entry) error {
	header, err := json.Marshal(e.Header)
	if err != nil {
		return fmt.Errorf("sqlite: encode header of %s: %w", key, err)
	}
	body := e.Body
	if body == nil {
		body = []byte{}
	}
	_, err = n.db.ExecContext(ctx, `
		INSERT INTO entries (namespace, url, status, header, body) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (namespace, url) DO UPDATE SET
			status = excluded.status, header = excluded.header, body = excluded.body`,
		n.id, key, e.Status, string(header), body,
	)
	if err != nil {
		return fmt.Errorf("sqlite: put %s: %w", key, err)
	}
	return nil
}

func (n *sqliteNamespace) Keys(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, n.db, `SELECT url FROM entries WHERE namespace = ? ORDER BY id`, n.id)
}

func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
