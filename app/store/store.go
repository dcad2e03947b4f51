package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver
)

// ErrNotFound is returned when a job with the requested id doesn't exist
var ErrNotFound = errors.New("job not found")

// Job represents a single tracked job application
type Job struct {
	ID        int64
	Company   string
	Position  string
	Status    string  // free-form, e.g. Applied, Interviewing, Offer
	Notes     *string // nil when not set
	DateAdded time.Time
	Referral  bool
}

// JobCreate holds fields for a new job. Required fields are pointers so a missing
// value reaches the database as NULL and is rejected by the NOT NULL constraint.
type JobCreate struct {
	Company   *string
	Position  *string
	Status    *string
	Notes     *string
	Referral  bool
	DateAdded time.Time // stamped with current UTC time if zero
}

// JobUpdate holds a partial update. Only fields with Set=true are changed.
// Null on a non-nullable field is ignored, null on Notes clears it.
type JobUpdate struct {
	Company  Optional[string]
	Position Optional[string]
	Status   Optional[string]
	Notes    Optional[string]
	Referral Optional[bool]
}

// Store implements job persistence on top of sqlx
type Store struct {
	db      *sqlx.DB
	dialect dialect
}

// referral is nullable in tables created before the column became NOT NULL
const jobColumns = "id, company, position, status, notes, date_added, COALESCE(referral, FALSE) AS referral"

// jobRow is a scan target for the job table
type jobRow struct {
	ID        int64          `db:"id"`
	Company   string         `db:"company"`
	Position  string         `db:"position"`
	Status    string         `db:"status"`
	Notes     sql.NullString `db:"notes"`
	DateAdded timestamp      `db:"date_added"`
	Referral  bool           `db:"referral"`
}

func (r jobRow) job() Job {
	res := Job{
		ID:        r.ID,
		Company:   r.Company,
		Position:  r.Position,
		Status:    r.Status,
		DateAdded: r.DateAdded.Time,
		Referral:  r.Referral,
	}
	if r.Notes.Valid {
		notes := r.Notes.String
		res.Notes = &notes
	}
	return res
}

// Open connects to the database described by dsn. Supported forms are
// sqlite://path, file:path, a bare path or :memory: for SQLite and
// postgres://... for PostgreSQL.
func Open(ctx context.Context, dsn string) (*Store, error) {
	d, source, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}

	if d == sqliteDialect {
		if dir := sqliteDir(source); dir != "" {
			if err = os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
		source = sqliteDSN(source)
	}

	db, err := sqlx.Open(d.driver(), source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if d == sqliteDialect {
		db.SetMaxOpenConns(1) // single writer, also keeps :memory: database alive
	} else {
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %w (also failed to close db: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("[DEBUG] database opened, driver %s", d.driver())
	return &Store{db: db, dialect: d}, nil
}

// List returns all jobs ordered by id
func (s *Store) List(ctx context.Context) ([]Job, error) {
	rows := []jobRow{}
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+jobColumns+` FROM job ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}

	res := make([]Job, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.job())
	}
	return res, nil
}

// Get returns a job by id, ErrNotFound if missing
func (s *Store) Get(ctx context.Context, id int64) (Job, error) {
	var row jobRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT `+jobColumns+` FROM job WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("failed to get job %d: %w", id, err)
	}
	return row.job(), nil
}

// Create inserts a new job and returns it with the generated id
func (s *Store) Create(ctx context.Context, req JobCreate) (Job, error) {
	return s.create(ctx, s.db, req)
}

func (s *Store) create(ctx context.Context, q sqlx.QueryerContext, req JobCreate) (Job, error) {
	if req.DateAdded.IsZero() {
		req.DateAdded = time.Now()
	}
	// microseconds is what postgres keeps and what the api renders
	req.DateAdded = req.DateAdded.UTC().Truncate(time.Microsecond)

	query := s.db.Rebind(`INSERT INTO job (company, position, status, notes, date_added, referral)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING ` + jobColumns)

	var row jobRow
	err := sqlx.GetContext(ctx, q, &row, query,
		nullString(req.Company), nullString(req.Position), nullString(req.Status), nullString(req.Notes),
		req.DateAdded, req.Referral)
	if err != nil {
		return Job{}, fmt.Errorf("failed to create job: %w", err)
	}
	return row.job(), nil
}

// Update applies a partial update and returns the updated job.
// An update without any fields set returns the job unchanged.
func (s *Store) Update(ctx context.Context, id int64, upd JobUpdate) (Job, error) {
	sets, args := []string{}, []any{}
	addValue := func(column string, val any) {
		sets = append(sets, column+" = ?")
		args = append(args, val)
	}

	if upd.Company.Present() {
		addValue("company", upd.Company.Value)
	}
	if upd.Position.Present() {
		addValue("position", upd.Position.Value)
	}
	if upd.Status.Present() {
		addValue("status", upd.Status.Value)
	}
	if upd.Notes.Set {
		addValue("notes", nullString(upd.Notes.Ptr())) // explicit null clears notes
	}
	if upd.Referral.Present() {
		addValue("referral", upd.Referral.Value)
	}

	if len(sets) == 0 {
		return s.Get(ctx, id)
	}

	query := s.db.Rebind(`UPDATE job SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING ` + jobColumns)
	args = append(args, id)

	var row jobRow
	err := s.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("failed to update job %d: %w", id, err)
	}
	return row.job(), nil
}

// Delete removes a job permanently, ErrNotFound if missing
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM job WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete job %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows for job %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored jobs
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.count(ctx, s.db)
}

func (s *Store) count(ctx context.Context, q sqlx.QueryerContext) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, `SELECT COUNT(*) FROM job`); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// timestamp scans date_added regardless of how the driver returns it.
// pgx and modernc (for declared TIMESTAMP columns) return time.Time, sqlite
// expressions and legacy rows may come back as text.
type timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Scan implements sql.Scanner
func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case int64:
		t.Time = time.Unix(v, 0).UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (t *timestamp) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			t.Time = ts.UTC()
			return nil
		}
	}
	return fmt.Errorf("can't parse timestamp %q", s)
}

// parseDSN detects dialect from the connection string and returns the driver source
func parseDSN(dsn string) (d dialect, source string, err error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return sqliteDialect, "", errors.New("empty database connection string")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgresDialect, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqliteDialect, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "sqlite:"):
		return sqliteDialect, strings.TrimPrefix(dsn, "sqlite:"), nil
	case strings.Contains(dsn, "://"):
		return sqliteDialect, "", fmt.Errorf("unsupported database scheme in %q", dsn)
	}
	return sqliteDialect, dsn, nil
}

// sqliteDSN adds pragmas: busy timeout, WAL journal and a parseable time format
func sqliteDSN(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"
}

// sqliteDir returns the directory of a sqlite database file, empty for in-memory or cwd
func sqliteDir(path string) string {
	path = strings.TrimPrefix(path, "file:")
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	if path == "" || path == ":memory:" {
		return ""
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return ""
	}
	return dir
}
