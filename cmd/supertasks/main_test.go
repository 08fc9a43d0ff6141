package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"super-tasks/internal/model"
	"super-tasks/internal/repository"
	"super-tasks/internal/testutil"
)

func setEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dsn := filepath.Join(dir, "supertasks.db")
	t.Setenv("SUPERTASKS_CONFIG", "")
	t.Setenv("SUPERTASKS_ENV_FILE", filepath.Join(dir, "none.env"))
	t.Setenv("DATABASE_URL", dsn)
	t.Setenv("REDIS_URL", "")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	return dsn
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrate(t *testing.T) {
	dsn := setEnv(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated 9 tables")

	db, err := repository.Open(dsn, testutil.Logger())
	require.NoError(t, err)
	defer closeDB(db)
	assert.True(t, db.Migrator().HasTable(&model.MentorTaskLog{}))
	assert.True(t, db.Migrator().HasTable(&model.StudyGoal{}))
}

func TestDigest(t *testing.T) {
	dsn := setEnv(t)
	ctx := context.Background()

	db, err := repository.NewDB(dsn, testutil.Logger())
	require.NoError(t, err)
	user := &model.User{Email: "cli@example.com", PasswordDigest: "x"}
	require.NoError(t, repository.NewUserRepository(db).Create(ctx, user))
	mentor := repository.NewMentorRepository(db)
	task := &model.MentorTask{Name: "Pair review"}
	require.NoError(t, mentor.CreateTask(ctx, task))
	require.NoError(t, mentor.CreateLog(ctx, &model.MentorTaskLog{
		UserID:       user.ID,
		MentorTaskID: task.ID,
		Deadline:     testutil.Ptr(testutil.Time(t, "2024-09-09T10:00:00Z")),
	}))
	closeDB(db)

	out, err := run(t, "digest", "--user-email", "CLI@example.com", "--at", "2024-09-10T12:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "<b>Daily report</b>")
	assert.Contains(t, out, "Pair review")
	assert.Contains(t, out, "<b>overdue</b>")

	_, err = run(t, "digest", "--user-email", "ghost@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = run(t, "digest")
	assert.Error(t, err)

	_, err = run(t, "digest", "--user-email", "cli@example.com", "--at", "yesterday")
	assert.ErrorContains(t, err, "invalid --at")
}

func TestServeRequiresSecret(t *testing.T) {
	setEnv(t)
	_, err := run(t, "serve")
	assert.EqualError(t, err, "SESSION_SECRET is required")
}
