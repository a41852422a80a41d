package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	redismock "github.com/go-redis/redismock/v9"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"todolist/migrations"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "tasks"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	if err := s.Set(ctx, "tasks", "[]"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := s.Set(ctx, "tasks", `[{"title":"a"}]`); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got, err := s.Get(ctx, "tasks")
	if err != nil || got != `[{"title":"a"}]` {
		t.Fatalf("expected overwritten value got %q err=%v", got, err)
	}
}

func TestRedisStore_GetMissingAndSet(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	s := NewRedisStore(rdb)
	ctx := context.Background()

	mock.ExpectGet("tasks").RedisNil()
	if _, err := s.Get(ctx, "tasks"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}

	mock.ExpectSet("tasks", "[]", 0).SetVal("OK")
	if err := s.Set(ctx, "tasks", "[]"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	mock.ExpectGet("tasks").SetVal("[]")
	got, err := s.Get(ctx, "tasks")
	if err != nil || got != "[]" {
		t.Fatalf("unexpected get: %q err=%v", got, err)
	}

	mock.ExpectGet("tasks").SetErr(errors.New("connection refused"))
	if _, err := s.Get(ctx, "tasks"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected transport error got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}

func TestSQLStore_Mock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()
	s := NewSQLStore(sqlx.NewDb(db, "sqlmock"))
	ctx := context.Background()

	mock.ExpectQuery("SELECT value FROM kv_store").WithArgs("tasks").WillReturnError(sql.ErrNoRows)
	if _, err := s.Get(ctx, "tasks"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}

	mock.ExpectExec("INSERT INTO kv_store").WithArgs("tasks", "[]").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := s.Set(ctx, "tasks", "[]"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	mock.ExpectQuery("SELECT value FROM kv_store").WithArgs("tasks").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("[]"))
	got, err := s.Get(ctx, "tasks")
	if err != nil || got != "[]" {
		t.Fatalf("unexpected get: %q err=%v", got, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSQLStore_SQLite(t *testing.T) {
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	// each pooled connection would otherwise get its own empty in-memory database
	db.SetMaxOpenConns(1)

	if err := migrations.EnsureSchema(db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := migrations.EnsureSchema(db); err != nil {
		t.Fatalf("ensure schema twice: %v", err)
	}

	s := NewSQLStore(db)
	ctx := context.Background()

	if _, err := s.Get(ctx, "tasks"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	if err := s.Set(ctx, "tasks", "[1]"); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := s.Set(ctx, "tasks", "[2]"); err != nil {
		t.Fatalf("second set: %v", err)
	}
	got, err := s.Get(ctx, "tasks")
	if err != nil || got != "[2]" {
		t.Fatalf("expected upserted value got %q err=%v", got, err)
	}
}

func TestCachedStore_Hit(t *testing.T) {
	primary := NewMemoryStore()
	rdb, mock := redismock.NewClientMock()
	s := NewCachedStore(primary, rdb, time.Minute)

	mock.ExpectGet("kv:cache:tasks").SetVal("[]")
	got, err := s.Get(context.Background(), "tasks")
	if err != nil || got != "[]" {
		t.Fatalf("unexpected get: %q err=%v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}

func TestCachedStore_MissPopulates(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	_ = primary.Set(ctx, "tasks", "[]")
	rdb, mock := redismock.NewClientMock()
	s := NewCachedStore(primary, rdb, time.Minute)

	mock.ExpectGet("kv:cache:tasks").RedisNil()
	mock.ExpectSet("kv:cache:tasks", "[]", time.Minute).SetVal("OK")
	got, err := s.Get(ctx, "tasks")
	if err != nil || got != "[]" {
		t.Fatalf("unexpected get: %q err=%v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}

func TestCachedStore_MissAbsent(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	s := NewCachedStore(NewMemoryStore(), rdb, time.Minute)

	mock.ExpectGet("kv:cache:tasks").RedisNil()
	if _, err := s.Get(context.Background(), "tasks"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}

func TestCachedStore_SetWritesThrough(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	rdb, mock := redismock.NewClientMock()
	s := NewCachedStore(primary, rdb, time.Minute)

	mock.ExpectSet("kv:cache:tasks", "[1]", time.Minute).SetVal("OK")
	if err := s.Set(ctx, "tasks", "[1]"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v, _ := primary.Get(ctx, "tasks"); v != "[1]" {
		t.Fatalf("primary not written: %q", v)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}

func TestCachedStore_RefreshFailureDropsEntry(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	_ = primary.Set(ctx, "tasks", "[old]")
	rdb, mock := redismock.NewClientMock()
	s := NewCachedStore(primary, rdb, time.Minute)

	mock.ExpectSet("kv:cache:tasks", "[new]", time.Minute).SetErr(errors.New("redis timeout"))
	mock.ExpectDel("kv:cache:tasks").SetVal(1)
	if err := s.Set(ctx, "tasks", "[new]"); err != nil {
		t.Fatalf("cache refresh failure must not fail the write: %v", err)
	}

	// with the entry dropped the next read goes to the primary
	mock.ExpectGet("kv:cache:tasks").RedisNil()
	mock.ExpectSet("kv:cache:tasks", "[new]", time.Minute).SetVal("OK")
	got, err := s.Get(ctx, "tasks")
	if err != nil || got != "[new]" {
		t.Fatalf("expected primary value [new] got %q err=%v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (string, error) { return "", f.err }
func (f failingStore) Set(context.Context, string, string) error   { return f.err }

func TestCachedStore_PrimaryFailureDropsEntry(t *testing.T) {
	primaryErr := errors.New("db down")
	rdb, mock := redismock.NewClientMock()
	s := NewCachedStore(failingStore{err: primaryErr}, rdb, time.Minute)

	mock.ExpectDel("kv:cache:tasks").SetVal(1)
	if err := s.Set(context.Background(), "tasks", "[new]"); !errors.Is(err, primaryErr) {
		t.Fatalf("expected primary error got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}
