package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"super-tasks/internal/cache"
	"super-tasks/internal/model"
	"super-tasks/internal/repository"
	"super-tasks/internal/schedule"
)

// UpcomingWindow is how far ahead the digest looks for pending deadlines.
const UpcomingWindow = 48 * time.Hour

// Digest splits a user's pending logs into the sections of a daily report.
// A log lands in the first section it qualifies for.
type Digest struct {
	Overdue  []model.MentorTaskLog
	DueToday []model.MentorTaskLog
	Upcoming []model.MentorTaskLog
}

func (d Digest) Empty() bool {
	return len(d.Overdue) == 0 && len(d.DueToday) == 0 && len(d.Upcoming) == 0
}

// ReminderService builds human-readable summaries for daily notifications.
type ReminderService struct {
	repo  *repository.MentorRepository
	cache *cache.Cache
}

func NewReminderService(repo *repository.MentorRepository, c *cache.Cache) *ReminderService {
	return &ReminderService{repo: repo, cache: c}
}

func (s *ReminderService) Collect(ctx context.Context, userID uint, now time.Time, loc *time.Location) (Digest, error) {
	loc = orLocal(loc)
	pending := false
	until := now.Add(UpcomingWindow)
	logs, err := s.repo.ListLogs(ctx, userID, repository.LogFilter{
		Deadline:  repository.DateRange{To: &until},
		Completed: &pending,
	})
	if err != nil {
		return Digest{}, err
	}

	var d Digest
	for _, log := range schedule.Agenda(logs) {
		switch {
		case schedule.IsOverdue(log, now):
			d.Overdue = append(d.Overdue, log)
		case schedule.DueToday(log, now, loc):
			d.DueToday = append(d.DueToday, log)
		default:
			d.Upcoming = append(d.Upcoming, log)
		}
	}
	return d, nil
}

// DailySummary renders the digest as Telegram HTML.
func (s *ReminderService) DailySummary(ctx context.Context, user model.User, now time.Time, loc *time.Location) (string, error) {
	loc = orLocal(loc)
	d, err := s.Collect(ctx, user.ID, now, loc)
	if err != nil {
		return "", err
	}
	names, err := s.taskNames(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("📋 <b>Daily report</b>\n")
	b.WriteString(fmt.Sprintf("🗓 %s\n", now.In(loc).Format("Mon, 02 Jan 2006")))
	if d.Empty() {
		b.WriteString("\n✅ Nothing pending in the next 48 hours.")
		return b.String(), nil
	}

	writeSection(&b, "⚠️ <b>Overdue</b>", d.Overdue, names, now, loc)
	writeSection(&b, "📌 <b>Due today</b>", d.DueToday, names, now, loc)
	writeSection(&b, "⏳ <b>Next 48 hours</b>", d.Upcoming, names, now, loc)
	return strings.TrimSpace(b.String()), nil
}

// Today lists every log whose deadline falls on today's local date, done ones included.
func (s *ReminderService) Today(ctx context.Context, userID uint, now time.Time, loc *time.Location) (string, error) {
	loc = orLocal(loc)
	from, to := schedule.StartOfDay(now, loc), schedule.EndOfDay(now, loc)
	logs, err := s.repo.ListLogs(ctx, userID, repository.LogFilter{
		Deadline: repository.DateRange{From: &from, To: &to},
	})
	if err != nil {
		return "", err
	}
	return s.render(ctx, "📌 <b>Today</b>", schedule.Agenda(logs), "Nothing scheduled for today.", now, loc)
}

func (s *ReminderService) Overdue(ctx context.Context, userID uint, now time.Time, loc *time.Location) (string, error) {
	loc = orLocal(loc)
	logs, err := s.repo.ListLogs(ctx, userID, repository.LogFilter{OverdueAt: &now})
	if err != nil {
		return "", err
	}
	return s.render(ctx, "⚠️ <b>Overdue</b>", logs, "Nothing overdue.", now, loc)
}

func (s *ReminderService) render(ctx context.Context, title string, logs []model.MentorTaskLog, empty string, now time.Time, loc *time.Location) (string, error) {
	if len(logs) == 0 {
		return empty, nil
	}
	names, err := s.taskNames(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	writeSection(&b, title, logs, names, now, loc)
	return strings.TrimSpace(b.String()), nil
}

func (s *ReminderService) taskNames(ctx context.Context) (map[uint]*model.MentorTask, error) {
	tasks, err := cache.Fetch(ctx, s.cache, cache.KeyMentorTasks, s.repo.ListTasks)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]*model.MentorTask, len(tasks))
	for i := range tasks {
		out[tasks[i].ID] = &tasks[i]
	}
	return out, nil
}

func writeSection(b *strings.Builder, title string, logs []model.MentorTaskLog, tasks map[uint]*model.MentorTask, now time.Time, loc *time.Location) {
	if len(logs) == 0 {
		return
	}
	b.WriteString("\n" + title + "\n")
	for _, log := range logs {
		b.WriteString(formatLog(log, tasks[log.MentorTaskID], now, loc))
	}
}

func formatLog(log model.MentorTaskLog, task *model.MentorTask, now time.Time, loc *time.Location) string {
	var sb strings.Builder

	icon := "🟢"
	switch {
	case log.Completed:
		icon = "✅"
	case schedule.IsOverdue(log, now):
		icon = "⚠️"
	case log.Deadline != nil && log.Deadline.Sub(now) <= UpcomingWindow:
		icon = "⏳"
	}

	name := fmt.Sprintf("Task #%d", log.MentorTaskID)
	if task != nil {
		name = strings.TrimSpace(task.Name)
	}
	sb.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(name)))

	if task != nil && task.Category != nil {
		if c := strings.TrimSpace(*task.Category); c != "" {
			sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(c)))
		}
	}

	if log.Deadline != nil {
		d := log.Deadline.In(loc)
		if schedule.IsOverdue(log, now) {
			sb.WriteString(fmt.Sprintf("\n   ⏰ %s · <b>overdue</b>", d.Format("2006-01-02 15:04")))
		} else {
			sb.WriteString(fmt.Sprintf("\n   ⏰ %s", d.Format("2006-01-02 15:04")))
		}
	}

	sb.WriteByte('\n')
	return sb.String()
}
