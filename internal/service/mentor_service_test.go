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
	"super-tasks/internal/schedule"
	"super-tasks/internal/testutil"
)

func newMentorService(t *testing.T) (*MentorService, *repository.MentorRepository, *model.User) {
	t.Helper()
	db := testutil.NewDB(t)
	repo := repository.NewMentorRepository(db)
	return NewMentorService(repo, nil), repo, createUser(t, db, "mentee@example.com")
}

func TestMentorTaskValidation(t *testing.T) {
	svc, _, _ := newMentorService(t)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, MentorTaskInput{Name: model.Some("  ")})
	requireValidation(t, err, "name")

	_, err = svc.CreateTask(ctx, MentorTaskInput{Name: model.Some(strings.Repeat("a", 256))})
	ve := requireValidation(t, err, "name")
	assert.Equal(t, []string{"Name is too long (maximum is 255 characters)"}, ve.Messages())

	task, err := svc.CreateTask(ctx, MentorTaskInput{Name: model.Some("Code review"), Category: model.Some("review")})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, task.ID, MentorTaskInput{Category: model.Null[string]()})
	require.NoError(t, err)
	assert.Equal(t, "Code review", updated.Name)
	assert.Nil(t, updated.Category)
}

func TestMentorCreateLogRequiresExistingTask(t *testing.T) {
	svc, _, user := newMentorService(t)
	ctx := context.Background()
	now := testutil.Time(t, "2024-05-01T10:00:00Z")

	_, err := svc.CreateLog(ctx, user.ID, MentorTaskLogInput{}, now)
	requireValidation(t, err, "mentor_task_id")

	_, err = svc.CreateLog(ctx, user.ID, MentorTaskLogInput{MentorTaskID: model.Some[uint](99)}, now)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMentorCompleteAndReopen(t *testing.T) {
	svc, repo, user := newMentorService(t)
	ctx := context.Background()
	task := createTask(t, repo, "1on1", nil)
	now := testutil.Time(t, "2024-05-01T10:00:00Z")
	deadline := testutil.Time(t, "2024-05-01T09:00:00Z")

	created, err := svc.CreateLog(ctx, user.ID, MentorTaskLogInput{
		MentorTaskID: model.Some(task.ID),
		Deadline:     model.Some(deadline),
	}, now)
	require.NoError(t, err)
	assert.True(t, created.Overdue)
	assert.Nil(t, created.ExecutedAt)

	done, err := svc.Complete(ctx, user.ID, created.ID, now)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.False(t, done.Overdue)
	require.NotNil(t, done.ExecutedAt)
	assert.True(t, done.ExecutedAt.Equal(now))

	later := now.Add(time.Hour)
	again, err := svc.Complete(ctx, user.ID, created.ID, later)
	require.NoError(t, err)
	require.NotNil(t, again.ExecutedAt)
	assert.True(t, again.ExecutedAt.Equal(now), "completing a done log keeps executed_at")

	reopened, err := svc.Reopen(ctx, user.ID, created.ID, later)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.ExecutedAt)
	assert.True(t, reopened.Overdue)

	stored, err := svc.GetLog(ctx, user.ID, created.ID, later)
	require.NoError(t, err)
	assert.False(t, stored.Completed)
	assert.Nil(t, stored.ExecutedAt)
}

func TestMentorUpdateLogCompletion(t *testing.T) {
	svc, repo, user := newMentorService(t)
	ctx := context.Background()
	task := createTask(t, repo, "Pairing", nil)
	now := testutil.Time(t, "2024-05-01T10:00:00Z")

	created, err := svc.CreateLog(ctx, user.ID, MentorTaskLogInput{MentorTaskID: model.Some(task.ID)}, now)
	require.NoError(t, err)

	toggled, err := svc.UpdateLog(ctx, user.ID, created.ID, MentorTaskLogInput{Completed: model.Some(true)}, now)
	require.NoError(t, err)
	require.NotNil(t, toggled.ExecutedAt)
	assert.True(t, toggled.ExecutedAt.Equal(now))

	explicit := testutil.Time(t, "2024-04-30T18:00:00Z")
	_, err = svc.UpdateLog(ctx, user.ID, created.ID, MentorTaskLogInput{Completed: model.Some(false)}, now)
	require.NoError(t, err)
	withTime, err := svc.UpdateLog(ctx, user.ID, created.ID, MentorTaskLogInput{
		Completed:  model.Some(true),
		ExecutedAt: model.Some(explicit),
	}, now)
	require.NoError(t, err)
	require.NotNil(t, withTime.ExecutedAt)
	assert.True(t, withTime.ExecutedAt.Equal(explicit))

	_, err = svc.UpdateLog(ctx, user.ID, created.ID, MentorTaskLogInput{MentorTaskID: model.Some[uint](404)}, now)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMentorLogsAreOwnerScoped(t *testing.T) {
	svc, repo, user := newMentorService(t)
	ctx := context.Background()
	task := createTask(t, repo, "Retro", nil)
	now := testutil.Time(t, "2024-05-01T10:00:00Z")

	created, err := svc.CreateLog(ctx, user.ID, MentorTaskLogInput{MentorTaskID: model.Some(task.ID)}, now)
	require.NoError(t, err)

	other := user.ID + 1
	_, err = svc.GetLog(ctx, other, created.ID, now)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.Complete(ctx, other, created.ID, now)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteLog(ctx, other, created.ID), repository.ErrNotFound)
	assert.NoError(t, svc.DeleteLog(ctx, user.ID, created.ID))
}

func TestMentorListLogsFlagsOverdue(t *testing.T) {
	svc, repo, user := newMentorService(t)
	ctx := context.Background()
	task := createTask(t, repo, "Review", nil)
	now := testutil.Time(t, "2024-05-10T12:00:00Z")

	for _, in := range []MentorTaskLogInput{
		{MentorTaskID: model.Some(task.ID), Deadline: model.Some(testutil.Time(t, "2024-05-09T12:00:00Z"))},
		{MentorTaskID: model.Some(task.ID), Deadline: model.Some(testutil.Time(t, "2024-05-11T12:00:00Z"))},
		{MentorTaskID: model.Some(task.ID), Deadline: model.Some(testutil.Time(t, "2024-05-08T12:00:00Z")), Completed: model.Some(true)},
		{MentorTaskID: model.Some(task.ID)},
	} {
		_, err := svc.CreateLog(ctx, user.ID, in, now)
		require.NoError(t, err)
	}

	all, err := svc.ListLogs(ctx, user.ID, LogQuery{}, now)
	require.NoError(t, err)
	require.Len(t, all, 4)
	var overdue []bool
	for _, v := range all {
		overdue = append(overdue, v.Overdue)
	}
	assert.Equal(t, []bool{false, true, false, false}, overdue)
	assert.Nil(t, all[3].Deadline, "missing deadlines sort last")

	only, err := svc.ListLogs(ctx, user.ID, LogQuery{Overdue: true}, now)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.True(t, only[0].Overdue)

	pending, err := svc.ListLogs(ctx, user.ID, LogQuery{Status: "pending"}, now)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	completed, err := svc.ListLogs(ctx, user.ID, LogQuery{Status: "completed"}, now)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestMentorCalendarMonth(t *testing.T) {
	svc, repo, user := newMentorService(t)
	ctx := context.Background()
	review := createTask(t, repo, "Review", testutil.Ptr("review"))
	coaching := createTask(t, repo, "Coaching", testutil.Ptr("coaching"))
	now := testutil.Time(t, "2024-09-10T12:00:00Z")

	add := func(taskID uint, deadline string, done bool) {
		in := MentorTaskLogInput{MentorTaskID: model.Some(taskID), Completed: model.Some(done)}
		if deadline != "" {
			in.Deadline = model.Some(testutil.Time(t, deadline))
		}
		_, err := svc.CreateLog(ctx, user.ID, in, now)
		require.NoError(t, err)
	}
	add(review.ID, "2024-09-03T08:00:00Z", true)
	add(review.ID, "2024-09-03T10:00:00Z", false)
	add(coaching.ID, "2024-09-03T11:00:00Z", false)
	add(coaching.ID, "2024-10-20T10:00:00Z", false)
	add(coaching.ID, "", false)

	view, err := svc.Calendar(ctx, user.ID, CalendarQuery{
		View:     schedule.ViewMonth,
		Anchor:   testutil.Time(t, "2024-09-15T00:00:00Z"),
		Location: time.UTC,
		Now:      now,
	})
	require.NoError(t, err)
	require.Len(t, view.Days, schedule.MonthGridDays)
	assert.Equal(t, "2024-09-01", view.Days[0].Date)
	assert.Equal(t, "2024-10-12", view.Days[41].Date)
	assert.Equal(t, "2024-08-01", view.Prev)
	assert.Equal(t, "2024-10-01", view.Next)
	assert.Equal(t, schedule.Summary{Total: 3, Done: 1, Undone: 2, Overdue: 2}, view.Summary)

	sep3 := view.Days[2]
	assert.Equal(t, "2024-09-03", sep3.Date)
	assert.True(t, sep3.InPeriod)
	assert.Equal(t, schedule.Summary{Total: 3, Done: 1, Undone: 2, Overdue: 2}, sep3.Summary)
	require.Len(t, sep3.Items, 3)
	assert.False(t, sep3.Items[0].Completed)
	assert.False(t, sep3.Items[1].Completed)
	assert.True(t, sep3.Items[2].Completed)
	assert.True(t, sep3.Items[0].Deadline.Before(*sep3.Items[1].Deadline))

	assert.True(t, view.Days[9].Today)
	assert.False(t, view.Days[30].InPeriod, "October cells are outside the anchor month")

	filtered, err := svc.Calendar(ctx, user.ID, CalendarQuery{
		View:     schedule.ViewMonth,
		Anchor:   testutil.Time(t, "2024-09-15T00:00:00Z"),
		Location: time.UTC,
		Category: "review",
		Now:      now,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, filtered.Days[2].Summary.Total)

	byTask, err := svc.Calendar(ctx, user.ID, CalendarQuery{
		View:     schedule.ViewWeek,
		Anchor:   testutil.Time(t, "2024-09-03T00:00:00Z"),
		Location: time.UTC,
		Category: "review",
		TaskID:   coaching.ID,
		Now:      now,
	})
	require.NoError(t, err)
	require.Len(t, byTask.Days, 7)
	assert.Equal(t, 0, byTask.Summary.Total, "task outside the category matches nothing")
}

func TestMentorCalendarUnknownView(t *testing.T) {
	svc, _, user := newMentorService(t)
	_, err := svc.Calendar(context.Background(), user.ID, CalendarQuery{View: "year", Now: time.Now()})
	assert.ErrorIs(t, err, schedule.ErrUnknownView)
}

func TestMentorDeleteTaskCascades(t *testing.T) {
	svc, repo, user := newMentorService(t)
	ctx := context.Background()
	task := createTask(t, repo, "Demo", nil)
	now := time.Now()

	created, err := svc.CreateLog(ctx, user.ID, MentorTaskLogInput{MentorTaskID: model.Some(task.ID)}, now)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTask(ctx, task.ID))

	_, err = svc.GetLog(ctx, user.ID, created.ID, now)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
