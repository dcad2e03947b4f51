package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// ErrColumnExists is returned by an additive migration when the column is already in place.
// It is not fatal, the migration is recorded as applied.
var ErrColumnExists = errors.New("column already exists")

// dialect is the sql flavour of the underlying database
type dialect int

const (
	sqliteDialect dialect = iota
	postgresDialect
)

func (d dialect) driver() string {
	if d == postgresDialect {
		return "pgx"
	}
	return "sqlite"
}

func (d dialect) String() string {
	if d == postgresDialect {
		return "postgres"
	}
	return "sqlite"
}

// migration is a single versioned schema change, applied in its own transaction
type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, tx *sqlx.Tx, d dialect) error
}

// migrations are applied in version order, never edit an applied one, add a new version instead
var migrations = []migration{
	{version: 1, name: "create_job", apply: createJobTable},
	{version: 2, name: "add_referral", apply: addReferralColumn},
}

// Migrate brings the schema up to date. Already applied versions are skipped,
// so it is safe to call on every start.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at BIGINT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	versions := []int{}
	if err := s.db.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations`); err != nil {
		return fmt.Errorf("failed to load applied migrations: %w", err)
	}
	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	err = m.apply(ctx, tx, s.dialect)
	switch {
	case errors.Is(err, ErrColumnExists):
		// postgres aborts the transaction on a failed statement, record outside of it
		_ = tx.Rollback()
		log.Printf("[WARN] migration %d %s skipped, %v", m.version, m.name, err)
		return s.recordMigration(ctx, s.db, m)
	case err != nil:
		return fmt.Errorf("migration %d %s failed: %w", m.version, m.name, err)
	}

	if err = s.recordMigration(ctx, tx, m); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
	}
	log.Printf("[INFO] applied migration %d %s", m.version, m.name)
	return nil
}

func (s *Store) recordMigration(ctx context.Context, e sqlx.ExecerContext, m migration) error {
	query := s.db.Rebind(`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`)
	if _, err := e.ExecContext(ctx, query, m.version, m.name, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", m.version, err)
	}
	return nil
}

// createJobTable creates the job table in its legacy shape, without referral
func createJobTable(ctx context.Context, tx *sqlx.Tx, d dialect) error {
	idColumn, tsType := "id INTEGER PRIMARY KEY AUTOINCREMENT", "TIMESTAMP"
	if d == postgresDialect {
		idColumn, tsType = "id BIGSERIAL PRIMARY KEY", "TIMESTAMPTZ"
	}

	_, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS job (
		`+idColumn+`,
		company VARCHAR(100) NOT NULL,
		position VARCHAR(100) NOT NULL,
		status VARCHAR(50) NOT NULL,
		notes TEXT,
		date_added `+tsType+`
	)`)
	return err
}

// addReferralColumn adds the referral flag. Databases created before versioned
// migrations may already have it, this is reported as ErrColumnExists.
func addReferralColumn(ctx context.Context, tx *sqlx.Tx, d dialect) error {
	exists, err := hasColumn(ctx, tx, d, "job", "referral")
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("job.referral: %w", ErrColumnExists)
	}

	if _, err = tx.ExecContext(ctx, `ALTER TABLE job ADD COLUMN referral BOOLEAN NOT NULL DEFAULT FALSE`); err != nil {
		if isDuplicateColumn(err) {
			return fmt.Errorf("job.referral: %w", ErrColumnExists)
		}
		return err
	}
	return nil
}

// hasColumn checks table schema for the named column
func hasColumn(ctx context.Context, q sqlx.QueryerContext, d dialect, table, column string) (bool, error) {
	query := `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`
	if d == postgresDialect {
		query = `SELECT COUNT(*) FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`
	}

	var n int
	if err := sqlx.GetContext(ctx, q, &n, query, table, column); err != nil {
		return false, fmt.Errorf("failed to inspect columns of %s: %w", table, err)
	}
	return n > 0, nil
}

// isDuplicateColumn classifies driver errors for an ALTER adding an existing column
func isDuplicateColumn(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42701" // duplicate_column
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate column")
}
