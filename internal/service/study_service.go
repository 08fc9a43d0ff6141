package service

import (
	"context"
	"time"

	"super-tasks/internal/model"
	"super-tasks/internal/repository"
)

type StudyGoalInput struct {
	Name        model.Optional[string] `json:"name"`
	Description model.Optional[string] `json:"description"`
	Category    model.Optional[string] `json:"category"`
	TargetHours model.Optional[int]    `json:"target_hours"`
	Completed   model.Optional[bool]   `json:"completed"`
}

type StudyLogInput struct {
	StudyGoalID model.Optional[uint]      `json:"study_goal_id"`
	Hours       model.Optional[float64]   `json:"hours"`
	StudyDate   model.Optional[time.Time] `json:"study_date"`
}

// StudyService manages goals and logs, both owned by one user.
type StudyService struct {
	repo *repository.StudyRepository
}

func NewStudyService(repo *repository.StudyRepository) *StudyService {
	return &StudyService{repo: repo}
}

func (s *StudyService) ListGoals(ctx context.Context, userID uint) ([]model.StudyGoal, error) {
	return s.repo.ListGoals(ctx, userID)
}

func (s *StudyService) GetGoal(ctx context.Context, userID, id uint) (*model.StudyGoal, error) {
	return s.repo.FindGoal(ctx, userID, id)
}

func (s *StudyService) CreateGoal(ctx context.Context, userID uint, in StudyGoalInput) (*model.StudyGoal, error) {
	goal := model.StudyGoal{UserID: userID}
	in.apply(&goal)
	if err := validateStudyGoal(&goal); err != nil {
		return nil, err
	}
	if err := s.repo.CreateGoal(ctx, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *StudyService) UpdateGoal(ctx context.Context, userID, id uint, in StudyGoalInput) (*model.StudyGoal, error) {
	goal, err := s.repo.FindGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.apply(goal)
	if err := validateStudyGoal(goal); err != nil {
		return nil, err
	}
	if err := s.repo.SaveGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes the goal and its logs.
func (s *StudyService) DeleteGoal(ctx context.Context, userID, id uint) error {
	return s.repo.DeleteGoal(ctx, userID, id)
}

func (in StudyGoalInput) apply(goal *model.StudyGoal) {
	if in.Name.Set {
		goal.Name = deref(in.Name.Value)
	}
	in.Description.Apply(&goal.Description)
	in.Category.Apply(&goal.Category)
	in.TargetHours.Apply(&goal.TargetHours)
	if in.Completed.Set {
		goal.Completed = deref(in.Completed.Value)
	}
}

func validateStudyGoal(goal *model.StudyGoal) error {
	var v ValidationError
	v.requireString("name", goal.Name)
	nonNegative(&v, "target_hours", goal.TargetHours)
	return v.Err()
}

func (s *StudyService) ListLogs(ctx context.Context, userID uint, window repository.DateRange) ([]model.StudyLog, error) {
	return s.repo.ListLogs(ctx, userID, window)
}

func (s *StudyService) GetLog(ctx context.Context, userID, id uint) (*model.StudyLog, error) {
	return s.repo.FindLog(ctx, userID, id)
}

func (s *StudyService) CreateLog(ctx context.Context, userID uint, in StudyLogInput) (*model.StudyLog, error) {
	log := model.StudyLog{UserID: userID}
	if err := s.applyLog(ctx, &log, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateLog(ctx, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

func (s *StudyService) UpdateLog(ctx context.Context, userID, id uint, in StudyLogInput) (*model.StudyLog, error) {
	log, err := s.repo.FindLog(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyLog(ctx, log, in); err != nil {
		return nil, err
	}
	if err := s.repo.SaveLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *StudyService) DeleteLog(ctx context.Context, userID, id uint) error {
	return s.repo.DeleteLog(ctx, userID, id)
}

// applyLog only accepts goals owned by the log's user; any other goal id is not found.
func (s *StudyService) applyLog(ctx context.Context, log *model.StudyLog, in StudyLogInput) error {
	if in.StudyGoalID.Set {
		log.StudyGoalID = deref(in.StudyGoalID.Value)
	}
	in.Hours.Apply(&log.Hours)
	if in.StudyDate.Set {
		log.StudyDate = deref(in.StudyDate.Value)
	}

	var v ValidationError
	v.requireID("study_goal_id", log.StudyGoalID)
	nonNegative(&v, "hours", log.Hours)
	v.requireTime("study_date", log.StudyDate)
	if err := v.Err(); err != nil {
		return err
	}
	if in.StudyGoalID.Set {
		if _, err := s.repo.FindGoal(ctx, log.UserID, log.StudyGoalID); err != nil {
			return err
		}
	}
	return nil
}
