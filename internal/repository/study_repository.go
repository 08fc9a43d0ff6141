package repository

import (
	"context"

	"gorm.io/gorm"

	"super-tasks/internal/model"
)

// StudyRepository stores per-user study goals and the logs booked against them.
type StudyRepository struct {
	db *gorm.DB
}

func NewStudyRepository(db *gorm.DB) *StudyRepository {
	return &StudyRepository{db: db}
}

func (r *StudyRepository) ListGoals(ctx context.Context, userID uint) ([]model.StudyGoal, error) {
	var goals []model.StudyGoal
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&goals).Error; err != nil {
		return nil, translate("list study goals", err)
	}
	return goals, nil
}

func (r *StudyRepository) FindGoal(ctx context.Context, userID, id uint) (*model.StudyGoal, error) {
	return findOwned[model.StudyGoal](ctx, r.db, userID, id, "find study goal")
}

func (r *StudyRepository) CreateGoal(ctx context.Context, goal *model.StudyGoal) error {
	if err := r.db.WithContext(ctx).Create(goal).Error; err != nil {
		return translate("create study goal", err)
	}
	return nil
}

func (r *StudyRepository) SaveGoal(ctx context.Context, goal *model.StudyGoal) error {
	if err := r.db.WithContext(ctx).Save(goal).Error; err != nil {
		return translate("update study goal", err)
	}
	return nil
}

// DeleteGoal removes a goal and its logs.
func (r *StudyRepository) DeleteGoal(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteOwned[model.StudyGoal](ctx, tx, userID, id, "delete study goal"); err != nil {
			return err
		}
		if err := tx.Where("study_goal_id = ?", id).Delete(&model.StudyLog{}).Error; err != nil {
			return translate("delete study logs", err)
		}
		return nil
	})
}

func (r *StudyRepository) ListLogs(ctx context.Context, userID uint, window DateRange) ([]model.StudyLog, error) {
	var logs []model.StudyLog
	q := window.apply(r.db.WithContext(ctx).Where("user_id = ?", userID), "study_date")
	if err := q.Order("study_date DESC, created_at DESC").Find(&logs).Error; err != nil {
		return nil, translate("list study logs", err)
	}
	return logs, nil
}

// SumHours adds up logged hours in the window; logs without hours count as zero.
func (r *StudyRepository) SumHours(ctx context.Context, userID uint, window DateRange) (float64, error) {
	var total float64
	q := window.apply(r.db.WithContext(ctx).Model(&model.StudyLog{}).Where("user_id = ?", userID), "study_date")
	if err := q.Select("COALESCE(SUM(hours), 0)").Scan(&total).Error; err != nil {
		return 0, translate("sum study hours", err)
	}
	return total, nil
}

func (r *StudyRepository) FindLog(ctx context.Context, userID, id uint) (*model.StudyLog, error) {
	return findOwned[model.StudyLog](ctx, r.db, userID, id, "find study log")
}

func (r *StudyRepository) CreateLog(ctx context.Context, log *model.StudyLog) error {
	log.StudyDate = log.StudyDate.UTC()
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return translate("create study log", err)
	}
	return nil
}

func (r *StudyRepository) SaveLog(ctx context.Context, log *model.StudyLog) error {
	log.StudyDate = log.StudyDate.UTC()
	if err := r.db.WithContext(ctx).Save(log).Error; err != nil {
		return translate("update study log", err)
	}
	return nil
}

func (r *StudyRepository) DeleteLog(ctx context.Context, userID, id uint) error {
	return deleteOwned[model.StudyLog](ctx, r.db, userID, id, "delete study log")
}
