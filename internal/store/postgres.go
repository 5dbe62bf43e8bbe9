package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"restaurant-menu-service/internal/domain"
)

// Predefined errors for store operations
var (
	ErrNotFound   = errors.New("store: record not found")
	ErrReferenced = errors.New("store: record is still referenced by other records")
)

// PostgreSQL error codes the store distinguishes.
const (
	pqForeignKeyViolation = "23503"
)

// PoolConfig holds connection pool limits applied by Connect.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect opens a PostgreSQL pool, applies the limits and verifies it with a ping.
func Connect(ctx context.Context, dsn string, pool PoolConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	return db, nil
}

// PostgresStore implements ResourceStorer and Pinger using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context, res *domain.Resource) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx, listQuery(res))
	if err != nil {
		return nil, fmt.Errorf("store: List %s failed to query: %w", res.Table, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("store: List %s: %w", res.Table, err)
	}
	return out, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, res *domain.Resource, id int64) (domain.Row, error) {
	rows, err := s.db.QueryContext(ctx, getQuery(res), id)
	if err != nil {
		return nil, fmt.Errorf("store: GetByID %s failed to query: %w", res.Table, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("store: GetByID %s: %w", res.Table, err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out[0], nil
}

func (s *PostgresStore) Create(ctx context.Context, res *domain.Resource, values []domain.Value) (int64, error) {
	query, args, err := insertQuery(res, values)
	if err != nil {
		return 0, err
	}
	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("store: Create %s failed to insert: %w", res.Table, err)
	}
	return id, nil
}

func (s *PostgresStore) Update(ctx context.Context, res *domain.Resource, id int64, values []domain.Value) error {
	query, args, err := updateQuery(res, id, values)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("store: Update %s failed to execute update: %w", res.Table, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: Update %s failed to get rows affected: %w", res.Table, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, res *domain.Resource, id int64) error {
	result, err := s.db.ExecContext(ctx, deleteQuery(res), id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return ErrReferenced
		}
		return fmt.Errorf("store: Delete %s failed to execute delete: %w", res.Table, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: Delete %s failed to get rows affected: %w", res.Table, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping issues a trivial round-trip query.
func (s *PostgresStore) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("store: ping failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// scanRows reads every row into a map keyed by column name. Text columns
// arrive from lib/pq as []byte and are turned into strings.
func scanRows(rows *sql.Rows) ([]domain.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	out := make([]domain.Row, 0)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(domain.Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iteration error: %w", err)
	}
	return out, nil
}
