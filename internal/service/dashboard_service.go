package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"super-tasks/internal/repository"
	"super-tasks/internal/schedule"
)

// Dashboard is the per-user overview. Week counters cover the Sunday-based
// week containing now.
type Dashboard struct {
	WeekFrom         time.Time `json:"week_from"`
	WeekTo           time.Time `json:"week_to"`
	TrainingLogsWeek int64     `json:"training_logs_week"`
	MealLogsWeek     int64     `json:"meal_logs_week"`
	StudyHoursWeek   float64   `json:"study_hours_week"`
	StudyHoursTotal  float64   `json:"study_hours_total"`
	MentorPending    int64     `json:"mentor_pending"`
	MentorOverdue    int64     `json:"mentor_overdue"`
	MentorDueToday   int64     `json:"mentor_due_today"`
	MentorDoneWeek   int64     `json:"mentor_done_week"`
}

type DashboardService struct {
	training *repository.TrainingRepository
	meal     *repository.MealRepository
	study    *repository.StudyRepository
	mentor   *repository.MentorRepository
}

func NewDashboardService(training *repository.TrainingRepository, meal *repository.MealRepository, study *repository.StudyRepository, mentor *repository.MentorRepository) *DashboardService {
	return &DashboardService{training: training, meal: meal, study: study, mentor: mentor}
}

// Build gathers every counter concurrently. The first failing query cancels the rest.
func (s *DashboardService) Build(ctx context.Context, userID uint, now time.Time, loc *time.Location) (*Dashboard, error) {
	loc = orLocal(loc)
	week, err := schedule.RangeFor(schedule.ViewWeek, now, loc)
	if err != nil {
		return nil, err
	}
	window := repository.DateRange{From: &week.From, To: &week.To}
	todayFrom, todayTo := schedule.StartOfDay(now, loc), schedule.EndOfDay(now, loc)
	pending := false

	d := Dashboard{WeekFrom: week.From, WeekTo: week.To}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.TrainingLogsWeek, err = s.training.CountLogs(ctx, userID, window)
		return err
	})
	g.Go(func() (err error) {
		d.MealLogsWeek, err = s.meal.CountLogs(ctx, userID, window)
		return err
	})
	g.Go(func() (err error) {
		d.StudyHoursWeek, err = s.study.SumHours(ctx, userID, window)
		return err
	})
	g.Go(func() (err error) {
		d.StudyHoursTotal, err = s.study.SumHours(ctx, userID, repository.DateRange{})
		return err
	})
	g.Go(func() (err error) {
		d.MentorPending, err = s.mentor.CountLogs(ctx, userID, repository.LogFilter{Completed: &pending})
		return err
	})
	g.Go(func() (err error) {
		d.MentorOverdue, err = s.mentor.CountLogs(ctx, userID, repository.LogFilter{OverdueAt: &now})
		return err
	})
	g.Go(func() (err error) {
		d.MentorDueToday, err = s.mentor.CountLogs(ctx, userID, repository.LogFilter{
			Deadline:  repository.DateRange{From: &todayFrom, To: &todayTo},
			Completed: &pending,
		})
		return err
	})
	g.Go(func() (err error) {
		done := true
		d.MentorDoneWeek, err = s.mentor.CountLogs(ctx, userID, repository.LogFilter{Deadline: window, Completed: &done})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
