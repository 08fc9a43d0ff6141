package service

import (
	"context"

	"super-tasks/internal/repository"
)

// CategoryOptions are the category values already in use, for form pickers.
type CategoryOptions struct {
	Mentor   []string `json:"mentor"`
	Training []string `json:"training"`
	MealTime []string `json:"meal_time"`
	MealFood []string `json:"meal_food"`
}

// CategoryService provides helpers around categories.
type CategoryService struct {
	mentor   *repository.MentorRepository
	training *repository.TrainingRepository
	meal     *repository.MealRepository
}

func NewCategoryService(mentor *repository.MentorRepository, training *repository.TrainingRepository, meal *repository.MealRepository) *CategoryService {
	return &CategoryService{mentor: mentor, training: training, meal: meal}
}

func (s *CategoryService) List(ctx context.Context) (*CategoryOptions, error) {
	var (
		out CategoryOptions
		err error
	)
	if out.Mentor, err = s.mentor.Categories(ctx); err != nil {
		return nil, err
	}
	if out.Training, err = s.training.Categories(ctx); err != nil {
		return nil, err
	}
	if out.MealTime, err = s.meal.TimeCategories(ctx); err != nil {
		return nil, err
	}
	if out.MealFood, err = s.meal.FoodCategories(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}
