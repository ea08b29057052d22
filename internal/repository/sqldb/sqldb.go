// Package sqldb is the relational backend. It works over any database/sql pool;
// the dialect only decides the placeholder syntax.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"repoapi/internal/model"
	"repoapi/internal/repository"
)

// Dialect selects the bind parameter syntax of the target database.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DefaultTimeout bounds a single lookup when no timeout is configured.
const DefaultTimeout = 3 * time.Second

func (d Dialect) placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Scanner is satisfied by *sql.Row.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc maps the selected `id, name` columns to an entity.
type ScanFunc[E any] func(Scanner) (E, error)

// Table looks up entities by primary key in one table.
// It holds no request-scoped state and is safe for concurrent use.
type Table[E any] struct {
	db      *sql.DB
	query   string
	scan    ScanFunc[E]
	timeout time.Duration
}

// NewTable prepares the lookup query for table. A non-positive timeout falls back to DefaultTimeout.
func NewTable[E any](db *sql.DB, dialect Dialect, table string, scan ScanFunc[E], timeout time.Duration) *Table[E] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Table[E]{
		db:      db,
		query:   fmt.Sprintf("SELECT id, name FROM %s WHERE id = %s", table, dialect.placeholder(1)),
		scan:    scan,
		timeout: timeout,
	}
}

var _ repository.Backend[model.User] = (*Table[model.User])(nil)

// Get fetches a single row. sql.ErrNoRows becomes repository.ErrNotFound;
// every other error is returned as is for the boundary to report.
func (t *Table[E]) Get(ctx context.Context, id repository.ID) (E, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	e, err := t.scan(t.db.QueryRowContext(ctx, t.query, id))
	if err != nil {
		var zero E
		if errors.Is(err, sql.ErrNoRows) {
			return zero, repository.ErrNotFound
		}
		return zero, err
	}
	return e, nil
}

// Query returns the SQL text issued by Get.
func (t *Table[E]) Query() string {
	return t.query
}

// Users returns the backend for the Users table.
func Users(db *sql.DB, dialect Dialect, timeout time.Duration) *Table[model.User] {
	return NewTable(db, dialect, "Users", scanUser, timeout)
}

// Items returns the backend for the Items table.
func Items(db *sql.DB, dialect Dialect, timeout time.Duration) *Table[model.Item] {
	return NewTable(db, dialect, "Items", scanItem, timeout)
}

func scanUser(s Scanner) (model.User, error) {
	var u model.User
	if err := s.Scan(&u.ID, &u.Name); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func scanItem(s Scanner) (model.Item, error) {
	var it model.Item
	if err := s.Scan(&it.ID, &it.Name); err != nil {
		return model.Item{}, err
	}
	return it, nil
}
