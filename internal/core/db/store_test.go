package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/valkeeper/internal/rules"
	"github.com/solatis/valkeeper/internal/types"
)

func openTestStore(t *testing.T) *ReportStore {
	t.Helper()
	dbURL := "sqlite://" + filepath.Join(t.TempDir(), "reports.db")
	store, err := OpenReportStore(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestReportStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	report := rules.Validate(rules.NewNumIValidation().Btwn(0, 10), types.I64(11), types.None())
	require.Len(t, report, 1)

	stored := NewStoredReport("user", report)
	require.NoError(t, store.Save(ctx, stored))

	got, err := store.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, "user", got.Schema)
	assert.False(t, got.Valid)
	assert.True(t, got.CreatedAt.Equal(stored.CreatedAt))
	require.Len(t, got.Violations, 1)
	assert.Equal(t, "btwn", got.Violations[0].Kind)
	assert.Equal(t, []string{"0", "10"}, got.Violations[0].Operands)
	assert.Equal(t, "validation.btwn", got.Violations[0].TranslationKey)
}

func TestReportStore_GetMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), types.NewReportID())
	assert.ErrorIs(t, err, types.ErrReportNotFound)
}

func TestReportStore_ValidReportHasNoViolations(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	stored := NewStoredReport("user", nil)
	require.NoError(t, store.Save(ctx, stored))

	got, err := store.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.True(t, got.Valid)
	assert.Empty(t, got.Violations)
}

func TestReportStore_List(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	for i, schema := range []string{"user", "order", "user", "user"} {
		r := NewStoredReport(schema, nil)
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Save(ctx, r))
	}

	users, err := store.List(ctx, "user", 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.True(t, users[0].CreatedAt.After(users[1].CreatedAt), "newest first")
	assert.True(t, base.Add(3*time.Minute).Equal(users[0].CreatedAt))

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestReportStore_Prune(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		r := NewStoredReport("user", nil)
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.Save(ctx, r))
	}

	removed, err := store.Prune(ctx, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	left, err := store.List(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestMigrations_StatusAndIdempotence(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	// Second run is a no-op
	require.NoError(t, MigrateUp(ctx, store.DB()))

	statuses, err := MigrateStatus(ctx, store.DB())
	require.NoError(t, err)
	require.NotEmpty(t, statuses)
	for _, s := range statuses {
		assert.True(t, s.Applied, s.ID)
		assert.NotNil(t, s.AppliedAt, s.ID)
		assert.Len(t, s.Checksum, 64)
	}
}

func TestMigrations_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.DB().ExecContext(ctx, "UPDATE migrations SET checksum = 'tampered'")
	require.NoError(t, err)

	err = MigrateUp(ctx, store.DB())
	assert.ErrorContains(t, err, "checksum mismatch")
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		url        string
		driver     string
		dataSource string
		wantErr    bool
	}{
		{url: "sqlite://data/reports.db", driver: driverSQLite, dataSource: "data/reports.db?_foreign_keys=on&_journal_mode=WAL"},
		{url: "sqlite:///var/lib/vk.db", driver: driverSQLite, dataSource: "/var/lib/vk.db?_foreign_keys=on&_journal_mode=WAL"},
		{url: "postgres://u:p@localhost:5432/vk?sslmode=disable", driver: driverPostgres, dataSource: "postgres://u:p@localhost:5432/vk?sslmode=disable"},
		{url: "postgresql://localhost/vk", driver: driverPostgres, dataSource: "postgresql://localhost/vk"},
		{url: "mysql://localhost/vk", wantErr: true},
		{url: "sqlite://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			driver, ds, err := parseURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.driver, driver)
			assert.Equal(t, tt.dataSource, ds)
		})
	}
}

func TestSplitStatements(t *testing.T) {
	sql := "-- comment; with semicolon\nCREATE TABLE a (x INT);\n\n-- another\nCREATE INDEX i ON a (x);\n"
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a (x)"}, splitStatements(sql))
}

func TestReportRow_RejectsUnknownKind(t *testing.T) {
	row := reportRow{ID: "r1", Schema: "user", Violations: `[{"kind":"ge","message":"m"}]`}
	got, err := row.toStored()
	require.NoError(t, err)
	assert.Equal(t, "ge", got.Violations[0].Kind)

	row.Violations = `[{"kind":"bogus","message":"m"}]`
	_, err = row.toStored()
	assert.ErrorContains(t, err, `unknown violation kind "bogus"`)
}
