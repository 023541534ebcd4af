package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	db := openTempDB(t)

	migrations := fstest.MapFS{
		"001_turns.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE turns(game_id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE turns;"),
		},
	}

	if err := ApplyMigrations(context.Background(), db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("migration rows = %d, want 1", rows)
	}
	if !tableExists(t, db, "turns") {
		t.Fatal("expected applied table to exist")
	}
}

func TestApplyMigrationsSkipsAlreadyApplied(t *testing.T) {
	db := openTempDB(t)
	ctx := context.Background()

	migrations := fstest.MapFS{
		"001_turns.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE turns(game_id TEXT PRIMARY KEY);"),
		},
	}
	if err := ApplyMigrations(ctx, db, migrations, ""); err != nil {
		t.Fatalf("apply initial migrations: %v", err)
	}
	if err := ApplyMigrations(ctx, db, migrations, ""); err != nil {
		t.Fatalf("re-apply migrations should be idempotent: %v", err)
	}

	names, err := Applied(ctx, db)
	if err != nil {
		t.Fatalf("applied: %v", err)
	}
	if len(names) != 1 || names[0] != "001_turns.sql" {
		t.Fatalf("applied = %v, want [001_turns.sql]", names)
	}
}

func TestApplyMigrationsDoesNotRecordFailedMigration(t *testing.T) {
	db := openTempDB(t)
	ctx := context.Background()

	bad := fstest.MapFS{
		"001_events.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREAT table events(id INT);"),
		},
	}
	if err := ApplyMigrations(ctx, db, bad, ""); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 0 {
		t.Fatalf("failed migration recorded %d rows, want 0", rows)
	}

	good := fstest.MapFS{
		"001_events.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE events(id INTEGER PRIMARY KEY);"),
		},
	}
	if err := ApplyMigrations(ctx, db, good, ""); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("fixed migration rows = %d, want 1", rows)
	}
}

func TestApplyMigrationsRespectsMigrationRoot(t *testing.T) {
	db := openTempDB(t)
	ctx := context.Background()

	migrations := fstest.MapFS{
		"series/001_series.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE series_rows(id TEXT PRIMARY KEY);"),
		},
	}
	if err := ApplyMigrations(ctx, db, migrations, "series"); err != nil {
		t.Fatalf("apply migrations with root: %v", err)
	}

	names, err := Applied(ctx, db)
	if err != nil {
		t.Fatalf("applied: %v", err)
	}
	if len(names) != 1 || names[0] != "series/001_series.sql" {
		t.Fatalf("applied = %v, want root-prefixed key", names)
	}
	if !tableExists(t, db, "series_rows") {
		t.Fatal("expected migrated table in root-based migration")
	}
}

func TestApplyMigrationsHonorsCanceledContext(t *testing.T) {
	db := openTempDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	migrations := fstest.MapFS{
		"001_turns.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE turns(id TEXT);")},
	}
	if err := ApplyMigrations(ctx, db, migrations, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("apply with canceled context = %v, want context.Canceled", err)
	}
}

func TestExtractSections(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a(id INT);\n-- +migrate Down\nDROP TABLE a;\n"

	if got := ExtractUpMigration(content); got != "\nCREATE TABLE a(id INT);\n" {
		t.Fatalf("up = %q", got)
	}
	if got := ExtractDownMigration(content); got != "\nDROP TABLE a;\n" {
		t.Fatalf("down = %q", got)
	}
	if got := ExtractUpMigration("CREATE TABLE b(id INT);"); got != "CREATE TABLE b(id INT);" {
		t.Fatalf("unmarked up = %q", got)
	}
	if got := ExtractDownMigration("CREATE TABLE b(id INT);"); got != "" {
		t.Fatalf("unmarked down = %q, want empty", got)
	}
}

func openTempDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow(query).Scan(&value); err != nil {
		t.Fatalf("query int value: %v", err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, tableName string) bool {
	t.Helper()
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", tableName).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		t.Fatalf("check table exists: %v", err)
	}
	return name == tableName
}
