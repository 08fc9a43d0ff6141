package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"super-tasks/internal/repository"
	"super-tasks/internal/testutil"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(repository.NewUserRepository(testutil.NewDB(t)), bcrypt.MinCost)
}

func TestSignUpAndAuthenticate(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, SignUpInput{
		Name:                 "Aki",
		Email:                " Aki@Example.com ",
		Password:             "password1",
		PasswordConfirmation: ptr("password1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "aki@example.com", user.Email)
	assert.NotEqual(t, "password1", user.PasswordDigest)

	got, err := svc.Authenticate(ctx, "AKI@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "aki@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "not-an-email", Password: "short", PasswordConfirmation: ptr("other")})
	ve := requireValidation(t, err, "email")
	assert.Equal(t, []string{"is invalid"}, ve.Fields["email"])
	assert.Equal(t, []string{"is too short (minimum is 8 characters)"}, ve.Fields["password"])
	assert.Equal(t, []string{"doesn't match Password"}, ve.Fields["password_confirmation"])

	_, err = svc.SignUp(ctx, SignUpInput{Email: "a@b", Password: strings.Repeat("x", 73)})
	ve = requireValidation(t, err, "password")
	assert.NotContains(t, ve.Fields, "email")

	_, err = svc.SignUp(ctx, SignUpInput{})
	ve = requireValidation(t, err, "email")
	assert.Equal(t, []string{"Email can't be blank", "Password can't be blank"}, ve.Messages())
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "dup@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, SignUpInput{Email: "DUP@example.com", Password: "password1"})
	ve := requireValidation(t, err, "email")
	assert.Equal(t, []string{"has already been taken"}, ve.Fields["email"])
}

func TestLinkTelegram(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, SignUpInput{Email: "bot@example.com", Password: "password1"})
	require.NoError(t, err)

	linked, err := svc.LinkTelegram(ctx, user.ID, ptr[int64](4242))
	require.NoError(t, err)
	require.NotNil(t, linked.TelegramChatID)
	assert.Equal(t, int64(4242), *linked.TelegramChatID)

	unlinked, err := svc.LinkTelegram(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, unlinked.TelegramChatID)

	_, err = svc.LinkTelegram(ctx, user.ID+100, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
