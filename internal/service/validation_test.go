package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessages(t *testing.T) {
	var v ValidationError
	assert.NoError(t, v.Err())

	v.requireString("name", "  ")
	v.requireID("training_menu_id", 0)
	nonNegative(&v, "weight", ptr(-1.0))
	nonNegative(&v, "reps", ptr(3))
	v.maxLength("name", "ab", 1)

	err := v.Err()
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{
		"Name can't be blank",
		"Name is too long (maximum is 1 characters)",
		"Training menu must exist",
		"Weight must be greater than or equal to 0",
	}, ve.Messages())
	assert.Equal(t, []string{"can't be blank", "is too long (maximum is 1 characters)"}, ve.Fields["name"])
}

func ptr[T any](v T) *T { return &v }

func TestValidationErrorFieldMessages(t *testing.T) {
	var v ValidationError
	v.Add("email", "has already been taken")
	v.Add(fieldBase, "Cannot delete record")

	assert.Equal(t, map[string][]string{
		"email": {"Email has already been taken"},
		"base":  {"Cannot delete record"},
	}, v.FieldMessages())
	assert.Equal(t, []string{"Email has already been taken", "Cannot delete record"}, v.Messages())
}
