package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"super-tasks/internal/model"
	"super-tasks/internal/repository"
	"super-tasks/internal/testutil"
)

func TestReminderDigest(t *testing.T) {
	db := testutil.NewDB(t)
	user := createUser(t, db, "digest@example.com")
	repo := repository.NewMentorRepository(db)
	ctx := context.Background()
	now := testutil.Time(t, "2024-09-10T12:00:00Z")

	task := createTask(t, repo, "Q&A", testutil.Ptr("talks"))
	add := func(deadline string, done bool) {
		log := &model.MentorTaskLog{UserID: user.ID, MentorTaskID: task.ID, Completed: done}
		if deadline != "" {
			log.Deadline = testutil.Ptr(testutil.Time(t, deadline))
		}
		require.NoError(t, repo.CreateLog(ctx, log))
	}
	add("2024-09-09T10:00:00Z", false)
	add("2024-09-10T20:00:00Z", false)
	add("2024-09-11T10:00:00Z", false)
	add("2024-09-20T10:00:00Z", false)
	add("2024-09-10T09:00:00Z", true)
	add("", false)

	svc := NewReminderService(repo, nil)
	d, err := svc.Collect(ctx, user.ID, now, time.UTC)
	require.NoError(t, err)
	assert.Len(t, d.Overdue, 1)
	assert.Len(t, d.DueToday, 1)
	assert.Len(t, d.Upcoming, 1)

	text, err := svc.DailySummary(ctx, *user, now, time.UTC)
	require.NoError(t, err)
	assert.Contains(t, text, "<b>Daily report</b>")
	assert.Contains(t, text, "Q&amp;A <i>(talks)</i>")
	assert.Contains(t, text, "<b>overdue</b>")
	assert.Less(t, strings.Index(text, "Overdue"), strings.Index(text, "Due today"))
	assert.Less(t, strings.Index(text, "Due today"), strings.Index(text, "Next 48 hours"))

	today, err := svc.Today(ctx, user.ID, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(today, "⏰"))
	assert.Contains(t, today, "✅")

	overdue, err := svc.Overdue(ctx, user.ID, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(overdue, "⏰"))
}

func TestReminderEmptyDigest(t *testing.T) {
	db := testutil.NewDB(t)
	user := createUser(t, db, "idle@example.com")
	svc := NewReminderService(repository.NewMentorRepository(db), nil)
	now := testutil.Time(t, "2024-09-10T12:00:00Z")

	text, err := svc.DailySummary(context.Background(), *user, now, time.UTC)
	require.NoError(t, err)
	assert.Contains(t, text, "Nothing pending")

	overdue, err := svc.Overdue(context.Background(), user.ID, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "Nothing overdue.", overdue)
}
