package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prepStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(t.Context(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(t.Context()))
	return st
}

func strPtr(s string) *string { return &s }

func TestOpen(t *testing.T) {
	t.Run("bare path with missing directory", func(t *testing.T) {
		st, err := Open(t.Context(), filepath.Join(t.TempDir(), "sub", "dir", "jobs.db"))
		require.NoError(t, err)
		assert.Equal(t, sqliteDialect, st.dialect)
		require.NoError(t, st.Close())
	})

	t.Run("sqlite scheme", func(t *testing.T) {
		st, err := Open(t.Context(), "sqlite://"+filepath.Join(t.TempDir(), "jobs.db"))
		require.NoError(t, err)
		require.NoError(t, st.Close())
	})

	t.Run("in memory", func(t *testing.T) {
		st, err := Open(t.Context(), ":memory:")
		require.NoError(t, err)
		defer st.Close()
		require.NoError(t, st.Migrate(t.Context()))
		_, err = st.Create(t.Context(), JobCreate{Company: strPtr("c"), Position: strPtr("p"), Status: strPtr("s")})
		require.NoError(t, err)
		n, err := st.Count(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		st, err := Open(t.Context(), "mysql://localhost/jobs")
		require.Error(t, err)
		assert.Nil(t, st)
	})

	t.Run("empty dsn", func(t *testing.T) {
		_, err := Open(t.Context(), "  ")
		require.Error(t, err)
	})

	t.Run("directory can't be created", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
		st, err := Open(t.Context(), filepath.Join(blocker, "jobs.db"))
		require.Error(t, err)
		assert.Nil(t, st)
	})
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn     string
		dialect dialect
		source  string
		wantErr bool
	}{
		{dsn: "var/jobs.db", dialect: sqliteDialect, source: "var/jobs.db"},
		{dsn: "sqlite://instance/kanban.db", dialect: sqliteDialect, source: "instance/kanban.db"},
		{dsn: "sqlite:jobs.db", dialect: sqliteDialect, source: "jobs.db"},
		{dsn: "file:jobs.db?mode=rwc", dialect: sqliteDialect, source: "file:jobs.db?mode=rwc"},
		{dsn: ":memory:", dialect: sqliteDialect, source: ":memory:"},
		{dsn: "postgres://u:p@localhost/jobs", dialect: postgresDialect, source: "postgres://u:p@localhost/jobs"},
		{dsn: "postgresql://localhost/jobs", dialect: postgresDialect, source: "postgresql://localhost/jobs"},
		{dsn: "mysql://localhost/jobs", wantErr: true},
		{dsn: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			d, source, err := parseDSN(tt.dsn)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, d)
			assert.Equal(t, tt.source, source)
		})
	}
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "file:jobs.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite", sqliteDSN("jobs.db"))
	assert.Equal(t, "file:jobs.db?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite",
		sqliteDSN("file:jobs.db?mode=rwc"))
	assert.Empty(t, sqliteDir(":memory:"))
	assert.Empty(t, sqliteDir("jobs.db"))
	assert.Equal(t, "var", sqliteDir("var/jobs.db"))
	assert.Equal(t, "/tmp/x", sqliteDir("file:/tmp/x/jobs.db?mode=rwc"))
}

func TestStore_CreateAndGet(t *testing.T) {
	st := prepStore(t)
	ctx := t.Context()

	t.Run("defaults", func(t *testing.T) {
		job, err := st.Create(ctx, JobCreate{Company: strPtr("Acme"), Position: strPtr("Engineer"), Status: strPtr("Applied")})
		require.NoError(t, err)
		assert.Positive(t, job.ID)
		assert.Equal(t, "Acme", job.Company)
		assert.Equal(t, "Engineer", job.Position)
		assert.Equal(t, "Applied", job.Status)
		assert.Nil(t, job.Notes)
		assert.False(t, job.Referral)
		assert.WithinDuration(t, time.Now().UTC(), job.DateAdded, 5*time.Second)
		assert.Equal(t, time.UTC, job.DateAdded.Location())

		got, err := st.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, job, got)
	})

	t.Run("all fields", func(t *testing.T) {
		added := time.Date(2024, 3, 15, 10, 30, 45, 123456000, time.UTC)
		job, err := st.Create(ctx, JobCreate{Company: strPtr("Google"), Position: strPtr("SRE"), Status: strPtr("Offer"),
			Notes: strPtr("via friend"), Referral: true, DateAdded: added})
		require.NoError(t, err)
		require.NotNil(t, job.Notes)
		assert.Equal(t, "via friend", *job.Notes)
		assert.True(t, job.Referral)
		assert.True(t, added.Equal(job.DateAdded), "got %v", job.DateAdded)

		got, err := st.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, job, got)
	})

	t.Run("date added truncated to microseconds", func(t *testing.T) {
		added := time.Date(2024, 3, 15, 10, 30, 45, 123456789, time.FixedZone("EST", -5*3600))
		job, err := st.Create(ctx, JobCreate{Company: strPtr("a"), Position: strPtr("b"), Status: strPtr("c"), DateAdded: added})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 15, 15, 30, 45, 123456000, time.UTC), job.DateAdded)

		got, err := st.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, job, got)
	})

	t.Run("empty notes kept as empty string", func(t *testing.T) {
		job, err := st.Create(ctx, JobCreate{Company: strPtr("a"), Position: strPtr("b"), Status: strPtr("c"), Notes: strPtr("")})
		require.NoError(t, err)
		require.NotNil(t, job.Notes)
		assert.Empty(t, *job.Notes)
	})

	t.Run("missing required field rejected by database", func(t *testing.T) {
		before, err := st.Count(ctx)
		require.NoError(t, err)

		_, err = st.Create(ctx, JobCreate{Position: strPtr("Engineer"), Status: strPtr("Applied")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NOT NULL")

		after, err := st.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := st.Get(ctx, 100500)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_List(t *testing.T) {
	st := prepStore(t)
	ctx := t.Context()

	jobs, err := st.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)

	created := make([]Job, 0, 3)
	for _, c := range []string{"a", "b", "c"} {
		job, err := st.Create(ctx, JobCreate{Company: strPtr(c), Position: strPtr("dev"), Status: strPtr("Applied")})
		require.NoError(t, err)
		created = append(created, job)
	}
	require.NoError(t, st.Delete(ctx, created[1].ID))

	jobs, err = st.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Job{created[0], created[2]}, jobs)
}

func TestStore_Update(t *testing.T) {
	st := prepStore(t)
	ctx := t.Context()

	orig, err := st.Create(ctx, JobCreate{Company: strPtr("Acme"), Position: strPtr("Engineer"), Status: strPtr("Applied"),
		Notes: strPtr("first round"), Referral: true})
	require.NoError(t, err)

	t.Run("partial keeps omitted fields", func(t *testing.T) {
		upd, err := st.Update(ctx, orig.ID, JobUpdate{Status: Some("Interviewing")})
		require.NoError(t, err)
		exp := orig
		exp.Status = "Interviewing"
		assert.Equal(t, exp, upd)

		got, err := st.Get(ctx, orig.ID)
		require.NoError(t, err)
		assert.Equal(t, exp, got)
	})

	t.Run("all updatable fields", func(t *testing.T) {
		upd, err := st.Update(ctx, orig.ID, JobUpdate{Company: Some("Initech"), Position: Some("Lead"),
			Status: Some("Offer"), Notes: Some("negotiating"), Referral: Some(false)})
		require.NoError(t, err)
		assert.Equal(t, orig.ID, upd.ID)
		assert.Equal(t, "Initech", upd.Company)
		assert.Equal(t, "Lead", upd.Position)
		assert.Equal(t, "Offer", upd.Status)
		require.NotNil(t, upd.Notes)
		assert.Equal(t, "negotiating", *upd.Notes)
		assert.False(t, upd.Referral)
		assert.Equal(t, orig.DateAdded, upd.DateAdded, "date_added never changes")
	})

	t.Run("null clears notes, ignored for required fields", func(t *testing.T) {
		upd, err := st.Update(ctx, orig.ID, JobUpdate{Notes: Null[string](), Company: Null[string](), Referral: Null[bool]()})
		require.NoError(t, err)
		assert.Nil(t, upd.Notes)
		assert.Equal(t, "Initech", upd.Company)
		assert.False(t, upd.Referral)
	})

	t.Run("empty update returns current", func(t *testing.T) {
		cur, err := st.Get(ctx, orig.ID)
		require.NoError(t, err)
		upd, err := st.Update(ctx, orig.ID, JobUpdate{})
		require.NoError(t, err)
		assert.Equal(t, cur, upd)
	})

	t.Run("missing job", func(t *testing.T) {
		_, err := st.Update(ctx, 100500, JobUpdate{Status: Some("Rejected")})
		require.ErrorIs(t, err, ErrNotFound)
		_, err = st.Update(ctx, 100500, JobUpdate{})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_Delete(t *testing.T) {
	st := prepStore(t)
	ctx := t.Context()

	job, err := st.Create(ctx, JobCreate{Company: strPtr("Acme"), Position: strPtr("Engineer"), Status: strPtr("Applied")})
	require.NoError(t, err)

	require.NoError(t, st.Delete(ctx, job.ID))
	_, err = st.Get(ctx, job.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, st.Delete(ctx, job.ID), ErrNotFound)

	// ids are not reused after delete
	next, err := st.Create(ctx, JobCreate{Company: strPtr("Acme"), Position: strPtr("Engineer"), Status: strPtr("Applied")})
	require.NoError(t, err)
	assert.Greater(t, next.ID, job.ID)
}

func TestTimestamp_Scan(t *testing.T) {
	exp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name string
		src  any
		want time.Time
	}{
		{name: "nil", src: nil, want: time.Time{}},
		{name: "time", src: exp.In(time.FixedZone("x", 3600)), want: exp},
		{name: "unix", src: exp.Unix(), want: exp},
		{name: "sqlite format", src: "2024-01-02 03:04:05+00:00", want: exp},
		{name: "rfc3339", src: []byte("2024-01-02T03:04:05Z"), want: exp},
		{name: "naive legacy", src: "2024-01-02 03:04:05.000000", want: exp},
		{name: "go string", src: "2024-01-02 03:04:05 +0000 UTC", want: exp},
		{name: "empty", src: "", want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts timestamp
			require.NoError(t, ts.Scan(tt.src))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}

	var ts timestamp
	require.Error(t, ts.Scan("not a time"))
	require.Error(t, ts.Scan(3.14))
}

func TestStore_CountAndClose(t *testing.T) {
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(t.Context()))

	n, err := st.Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, st.Close())
	_, err = st.Count(t.Context())
	require.Error(t, err)
}
