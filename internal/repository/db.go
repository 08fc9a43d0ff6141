package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"super-tasks/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	ErrInUse     = errors.New("record is still referenced")
)

// Models lists every table managed by AutoMigrate.
var Models = []any{
	&model.User{},
	&model.TrainingMenu{},
	&model.TrainingLog{},
	&model.MealMenu{},
	&model.MealLog{},
	&model.StudyGoal{},
	&model.StudyLog{},
	&model.MentorTask{},
	&model.MentorTaskLog{},
}

// NewDB opens PostgreSQL for postgres:// DSNs and SQLite otherwise, then runs migrations.
func NewDB(dsn string, lg *log.Logger) (*gorm.DB, error) {
	db, err := Open(dsn, lg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open connects without migrating.
func Open(dsn string, lg *log.Logger) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "super_tasks.db"
	}
	if lg == nil {
		lg = log.StandardLogger()
	}

	var dialector gorm.Dialector
	if isPostgres(dsn) {
		dialector = postgres.Open(dsn)
	} else {
		if err := ensureDirForSQLite(dsn); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(dsn)
	}

	dbLogger := logger.New(
		lg,
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         dbLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

// translate maps gorm sentinel errors onto repository ones. Driver errors
// other than not-found stay in the chain.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w: %w", op, ErrDuplicate, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// DateRange is an optional inclusive time window.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) apply(q *gorm.DB, column string) *gorm.DB {
	if r.From != nil {
		q = q.Where(column+" >= ?", r.From.UTC())
	}
	if r.To != nil {
		q = q.Where(column+" <= ?", r.To.UTC())
	}
	return q
}

// Instants are stored in UTC so that SQLite's textual comparison orders them.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
