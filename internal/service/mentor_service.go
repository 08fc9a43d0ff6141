package service

import (
	"context"
	"fmt"
	"time"

	"super-tasks/internal/cache"
	"super-tasks/internal/model"
	"super-tasks/internal/repository"
	"super-tasks/internal/schedule"
)

const maxTaskNameLength = 255

// MentorTaskInput creates or patches a mentor task. Absent fields are left untouched.
type MentorTaskInput struct {
	Name        model.Optional[string] `json:"name"`
	Description model.Optional[string] `json:"description"`
	Category    model.Optional[string] `json:"category"`
}

func (in MentorTaskInput) apply(task *model.MentorTask) {
	if in.Name.Set {
		task.Name = deref(in.Name.Value)
	}
	in.Description.Apply(&task.Description)
	in.Category.Apply(&task.Category)
}

// MentorTaskLogInput creates or patches a log. Toggling completed without
// an explicit executed_at stamps or clears executed_at.
type MentorTaskLogInput struct {
	MentorTaskID model.Optional[uint]      `json:"mentor_task_id"`
	Deadline     model.Optional[time.Time] `json:"deadline"`
	ExecutedAt   model.Optional[time.Time] `json:"executed_at"`
	Completed    model.Optional[bool]      `json:"completed"`
}

// LogView is a log plus its overdue flag at the request's now.
type LogView struct {
	model.MentorTaskLog
	Overdue bool `json:"overdue"`
}

func NewLogView(log model.MentorTaskLog, now time.Time) LogView {
	return LogView{MentorTaskLog: log, Overdue: schedule.Classify(log, now).Overdue}
}

// LogQuery mirrors the list endpoint's filters.
type LogQuery struct {
	Deadline repository.DateRange
	// Status is "completed", "pending" or empty for both.
	Status  string
	Overdue bool
}

// MentorService wraps mentor task and log business logic.
type MentorService struct {
	repo  *repository.MentorRepository
	cache *cache.Cache
}

func NewMentorService(repo *repository.MentorRepository, c *cache.Cache) *MentorService {
	return &MentorService{repo: repo, cache: c}
}

func (s *MentorService) ListTasks(ctx context.Context) ([]model.MentorTask, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyMentorTasks, s.repo.ListTasks)
}

func (s *MentorService) GetTask(ctx context.Context, id uint) (*model.MentorTask, error) {
	return s.repo.FindTask(ctx, id)
}

func (s *MentorService) CreateTask(ctx context.Context, in MentorTaskInput) (*model.MentorTask, error) {
	var task model.MentorTask
	in.apply(&task)
	if err := validateMentorTask(&task); err != nil {
		return nil, err
	}
	if err := s.repo.CreateTask(ctx, &task); err != nil {
		return nil, err
	}
	s.cache.Evict(ctx, cache.KeyMentorTasks)
	return &task, nil
}

func (s *MentorService) UpdateTask(ctx context.Context, id uint, in MentorTaskInput) (*model.MentorTask, error) {
	task, err := s.repo.FindTask(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(task)
	if err := validateMentorTask(task); err != nil {
		return nil, err
	}
	if err := s.repo.SaveTask(ctx, task); err != nil {
		return nil, err
	}
	s.cache.Evict(ctx, cache.KeyMentorTasks)
	return task, nil
}

// DeleteTask removes the task and every log of it, for all users.
func (s *MentorService) DeleteTask(ctx context.Context, id uint) error {
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.cache.Evict(ctx, cache.KeyMentorTasks)
	return nil
}

func validateMentorTask(task *model.MentorTask) error {
	var v ValidationError
	v.requireString("name", task.Name)
	v.maxLength("name", task.Name, maxTaskNameLength)
	return v.Err()
}

// ListLogs returns the user's logs with overdue computed against now.
func (s *MentorService) ListLogs(ctx context.Context, userID uint, q LogQuery, now time.Time) ([]LogView, error) {
	filter := repository.LogFilter{Deadline: q.Deadline}
	switch q.Status {
	case "completed":
		filter.Completed = ptrTo(true)
	case "pending":
		filter.Completed = ptrTo(false)
	}
	if q.Overdue {
		filter.OverdueAt = &now
	}

	logs, err := s.repo.ListLogs(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return views(logs, now), nil
}

func (s *MentorService) GetLog(ctx context.Context, userID, id uint, now time.Time) (LogView, error) {
	log, err := s.repo.FindLog(ctx, userID, id)
	if err != nil {
		return LogView{}, err
	}
	return NewLogView(*log, now), nil
}

// CreateLog schedules a task for the user. The task may have been created by
// anyone; it only has to exist.
func (s *MentorService) CreateLog(ctx context.Context, userID uint, in MentorTaskLogInput, now time.Time) (LogView, error) {
	log := model.MentorTaskLog{UserID: userID}
	if err := s.applyLogInput(ctx, &log, in, now); err != nil {
		return LogView{}, err
	}
	if err := s.repo.CreateLog(ctx, &log); err != nil {
		return LogView{}, err
	}
	return NewLogView(log, now), nil
}

func (s *MentorService) UpdateLog(ctx context.Context, userID, id uint, in MentorTaskLogInput, now time.Time) (LogView, error) {
	log, err := s.repo.FindLog(ctx, userID, id)
	if err != nil {
		return LogView{}, err
	}
	if err := s.applyLogInput(ctx, log, in, now); err != nil {
		return LogView{}, err
	}
	if err := s.repo.SaveLog(ctx, log); err != nil {
		return LogView{}, err
	}
	return NewLogView(*log, now), nil
}

// Complete moves a pending log to done and stamps executed_at. Done logs are left as they are.
func (s *MentorService) Complete(ctx context.Context, userID, id uint, now time.Time) (LogView, error) {
	return s.transition(ctx, userID, id, true, now)
}

// Reopen moves a done log back to pending and clears executed_at.
func (s *MentorService) Reopen(ctx context.Context, userID, id uint, now time.Time) (LogView, error) {
	return s.transition(ctx, userID, id, false, now)
}

func (s *MentorService) DeleteLog(ctx context.Context, userID, id uint) error {
	return s.repo.DeleteLog(ctx, userID, id)
}

func (s *MentorService) transition(ctx context.Context, userID, id uint, done bool, now time.Time) (LogView, error) {
	log, err := s.repo.FindLog(ctx, userID, id)
	if err != nil {
		return LogView{}, err
	}
	if log.Completed != done {
		setCompleted(log, done, now)
		if err := s.repo.SaveLog(ctx, log); err != nil {
			return LogView{}, err
		}
	}
	return NewLogView(*log, now), nil
}

func (s *MentorService) applyLogInput(ctx context.Context, log *model.MentorTaskLog, in MentorTaskLogInput, now time.Time) error {
	if in.MentorTaskID.Set {
		log.MentorTaskID = deref(in.MentorTaskID.Value)
	}

	var v ValidationError
	v.requireID("mentor_task_id", log.MentorTaskID)
	if err := v.Err(); err != nil {
		return err
	}
	if in.MentorTaskID.Set {
		ok, err := s.repo.TaskExists(ctx, log.MentorTaskID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("mentor task %d: %w", log.MentorTaskID, repository.ErrNotFound)
		}
	}

	in.Deadline.Apply(&log.Deadline)
	if in.Completed.Set {
		done := deref(in.Completed.Value)
		if done != log.Completed && !in.ExecutedAt.Set {
			setCompleted(log, done, now)
		}
		log.Completed = done
	}
	in.ExecutedAt.Apply(&log.ExecutedAt)
	return nil
}

// setCompleted applies the Pending/Done transition and its executed_at side effect.
func setCompleted(log *model.MentorTaskLog, done bool, now time.Time) {
	log.Completed = done
	if done {
		at := now
		log.ExecutedAt = &at
	} else {
		log.ExecutedAt = nil
	}
}

func views(logs []model.MentorTaskLog, now time.Time) []LogView {
	out := make([]LogView, len(logs))
	for i, l := range logs {
		out[i] = NewLogView(l, now)
	}
	return out
}

func ptrTo[T any](v T) *T {
	return &v
}
