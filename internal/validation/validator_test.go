package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amish929/Eco-Gamify-Project/internal/apperror"
	"github.com/Amish929/Eco-Gamify-Project/internal/models"
)

func TestStructValid(t *testing.T) {
	v := New()

	err := v.Struct(models.CreateTaskRequest{
		Title:          "Plant a Sapling",
		Points:         20,
		ExpectedLabels: []string{"tree", "plant"},
	})
	assert.NoError(t, err)
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Struct(models.RegisterRequest{
		Name:     "Al",
		Email:    "not-an-email",
		Password: "123",
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	fields := apperror.FieldsOf(err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.NotContains(t, fields, "name")
	assert.Contains(t, fields["password"], "password")
}

func TestStructRequiredMessage(t *testing.T) {
	v := New()

	err := v.Struct(models.LoginRequest{})
	require.Error(t, err)

	fields := apperror.FieldsOf(err)
	assert.Equal(t, "email is required", fields["email"])
	assert.Equal(t, "password is required", fields["password"])
	assert.Equal(t, "email is required; password is required", apperror.MessageOf(err))
}

func TestStructSliceElements(t *testing.T) {
	v := New()

	err := v.Struct(models.CreateTaskRequest{
		Title:          "Recycle",
		Points:         10,
		ExpectedLabels: []string{"bottle", ""},
	})
	require.Error(t, err)
	assert.Contains(t, apperror.FieldsOf(err), "expected_labels[1]")
}

func TestStructReviewStatus(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(models.ReviewSubmissionRequest{Status: "approved"}))
	assert.NoError(t, v.Struct(models.ReviewSubmissionRequest{Status: "rejected"}))

	err := v.Struct(models.ReviewSubmissionRequest{Status: "pending"})
	require.Error(t, err)
	assert.Contains(t, apperror.FieldsOf(err), "status")
}

func TestNotBlank(t *testing.T) {
	type payload struct {
		Note string `json:"note" validate:"notblank"`
	}
	v := New()

	err := v.Struct(payload{Note: "   "})
	require.Error(t, err)
	assert.Equal(t, "note cannot be blank", apperror.FieldsOf(err)["note"])
	assert.NoError(t, v.Struct(payload{Note: "ok"}))
}
