package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"super-tasks/internal/model"
	"super-tasks/internal/repository"
)

func createUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Name: email, Email: email, PasswordDigest: "x"}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createTask(t *testing.T, repo *repository.MentorRepository, name string, category *string) *model.MentorTask {
	t.Helper()
	task := &model.MentorTask{Name: name, Category: category}
	require.NoError(t, repo.CreateTask(context.Background(), task))
	return task
}

func requireValidation(t *testing.T, err error, field string) *ValidationError {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve.Fields, field)
	return ve
}
