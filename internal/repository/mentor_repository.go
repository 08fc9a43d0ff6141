package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"super-tasks/internal/model"
)

// MentorRepository stores mentor tasks (shared) and their per-user logs.
type MentorRepository struct {
	db *gorm.DB
}

func NewMentorRepository(db *gorm.DB) *MentorRepository {
	return &MentorRepository{db: db}
}

func (r *MentorRepository) ListTasks(ctx context.Context) ([]model.MentorTask, error) {
	var tasks []model.MentorTask
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, translate("list mentor tasks", err)
	}
	return tasks, nil
}

func (r *MentorRepository) FindTask(ctx context.Context, id uint) (*model.MentorTask, error) {
	return findByID[model.MentorTask](ctx, r.db, id, "find mentor task")
}

func (r *MentorRepository) TaskExists(ctx context.Context, id uint) (bool, error) {
	ok, err := exists[model.MentorTask](ctx, r.db, id)
	if err != nil {
		return false, translate("check mentor task", err)
	}
	return ok, nil
}

func (r *MentorRepository) CreateTask(ctx context.Context, task *model.MentorTask) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return translate("create mentor task", err)
	}
	return nil
}

func (r *MentorRepository) SaveTask(ctx context.Context, task *model.MentorTask) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return translate("update mentor task", err)
	}
	return nil
}

// DeleteTask removes a task together with every user's logs of it.
func (r *MentorRepository) DeleteTask(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mentor_task_id = ?", id).Delete(&model.MentorTaskLog{}).Error; err != nil {
			return translate("delete mentor task logs", err)
		}
		res := tx.Delete(&model.MentorTask{}, id)
		if res.Error != nil {
			return translate("delete mentor task", res.Error)
		}
		if res.RowsAffected == 0 {
			return translate("delete mentor task", gorm.ErrRecordNotFound)
		}
		return nil
	})
}

// Categories lists the distinct non-empty task categories in name order.
func (r *MentorRepository) Categories(ctx context.Context) ([]string, error) {
	return distinctValues[model.MentorTask](ctx, r.db, "category", "list mentor categories")
}

// TaskIDsInCategory returns the ids of tasks filed under category.
func (r *MentorRepository) TaskIDsInCategory(ctx context.Context, category string) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&model.MentorTask{}).
		Where("category = ?", category).Order("id ASC").Pluck("id", &ids).Error
	if err != nil {
		return nil, translate("list mentor task ids", err)
	}
	return ids, nil
}

// LogFilter narrows a log listing. Zero value lists everything.
type LogFilter struct {
	Deadline  DateRange
	Completed *bool
	// OverdueAt keeps only pending logs whose deadline is before the instant.
	OverdueAt *time.Time
	TaskIDs   []uint
}

func (f LogFilter) apply(q *gorm.DB) *gorm.DB {
	q = f.Deadline.apply(q, "deadline")
	if f.Completed != nil {
		q = q.Where("completed = ?", *f.Completed)
	}
	if f.OverdueAt != nil {
		q = q.Where("completed = ? AND deadline IS NOT NULL AND deadline < ?", false, f.OverdueAt.UTC())
	}
	if f.TaskIDs != nil {
		q = q.Where("mentor_task_id IN ?", f.TaskIDs)
	}
	return q
}

// ListLogs returns a user's logs ordered by deadline (missing last), newest first on ties.
func (r *MentorRepository) ListLogs(ctx context.Context, userID uint, filter LogFilter) ([]model.MentorTaskLog, error) {
	var logs []model.MentorTaskLog
	q := filter.apply(r.db.WithContext(ctx).Where("user_id = ?", userID))
	if err := q.Order("deadline ASC NULLS LAST, created_at DESC").Find(&logs).Error; err != nil {
		return nil, translate("list mentor task logs", err)
	}
	return logs, nil
}

func (r *MentorRepository) CountLogs(ctx context.Context, userID uint, filter LogFilter) (int64, error) {
	var n int64
	q := filter.apply(r.db.WithContext(ctx).Model(&model.MentorTaskLog{}).Where("user_id = ?", userID))
	if err := q.Count(&n).Error; err != nil {
		return 0, translate("count mentor task logs", err)
	}
	return n, nil
}

func (r *MentorRepository) FindLog(ctx context.Context, userID, id uint) (*model.MentorTaskLog, error) {
	return findOwned[model.MentorTaskLog](ctx, r.db, userID, id, "find mentor task log")
}

func (r *MentorRepository) CreateLog(ctx context.Context, log *model.MentorTaskLog) error {
	normalizeLog(log)
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return translate("create mentor task log", err)
	}
	return nil
}

func (r *MentorRepository) SaveLog(ctx context.Context, log *model.MentorTaskLog) error {
	normalizeLog(log)
	if err := r.db.WithContext(ctx).Save(log).Error; err != nil {
		return translate("update mentor task log", err)
	}
	return nil
}

func (r *MentorRepository) DeleteLog(ctx context.Context, userID, id uint) error {
	return deleteOwned[model.MentorTaskLog](ctx, r.db, userID, id, "delete mentor task log")
}

func normalizeLog(log *model.MentorTaskLog) {
	log.Deadline = utcPtr(log.Deadline)
	log.ExecutedAt = utcPtr(log.ExecutedAt)
}
