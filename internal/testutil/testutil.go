// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"super-tasks/internal/repository"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())

	db, err := repository.NewDB(dsn, Logger())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Logger discards output.
func Logger() *log.Logger {
	lg := log.New()
	lg.SetOutput(io.Discard)
	return lg
}

// Time parses an RFC 3339 timestamp or fails the test.
func Time(t testing.TB, raw string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return ts
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
