package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"marketplace/internal/domain"
)

const DefaultTxAttempts = 3

// ErrStaleWrite is returned by conditional writes whose guard no longer
// matches (another request got there first). Store.Transaction retries it.
var ErrStaleWrite = errors.New("stale write")

// Store owns the database handle and runs transactions with a bounded retry
// on transient write conflicts.
type Store struct {
	db       *gorm.DB
	attempts int
	backoff  time.Duration
	logger   *slog.Logger
}

type StoreOption func(*Store)

func WithAttempts(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.attempts = n
		}
	}
}

func WithBackoff(d time.Duration) StoreOption {
	return func(s *Store) { s.backoff = d }
}

func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewStore(db *gorm.DB, opts ...StoreOption) *Store {
	s := &Store{
		db:       db,
		attempts: DefaultTxAttempts,
		backoff:  15 * time.Millisecond,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn in a database transaction. When fn or the commit fails
// with a transient conflict the whole transaction is rerun, up to the
// configured number of attempts. Domain errors are never retried.
func (s *Store) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(fn)
		if err == nil || !IsTransient(err) {
			return err
		}

		s.logger.Warn("transaction conflict", "attempt", attempt, "max_attempts", s.attempts, "error", err)
		if attempt == s.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * s.backoff):
		}
	}
	return fmt.Errorf("transaction failed after %d attempts: %w", s.attempts, err)
}

// IsTransient classifies errors worth rerunning a transaction for.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrStaleWrite) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "sqlite_busy")
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}

// notFound maps gorm's missing-row error onto the domain taxonomy.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Errorf(domain.ErrNotFound, format, args...)
	}
	return err
}
