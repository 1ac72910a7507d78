package apperror

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type leaveForm struct {
	LeaveType string `json:"leave_type" validate:"required,oneof=annual sick"`
	Email     string `json:"email" validate:"omitempty,email"`
	Month     int    `form:"month" validate:"omitempty,min=1,max=12"`
	Internal  string `json:"-" validate:"omitempty,len=3"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(tagName)
	return v
}

func TestValidationDetails(t *testing.T) {
	v := newValidator()

	t.Run("Per field messages use wire names", func(t *testing.T) {
		err := v.Struct(leaveForm{Email: "nope", Month: 13})

		details, ok := ValidationDetails(err).([]FieldError)
		if assert.True(t, ok) && assert.Len(t, details, 3) {
			assert.Equal(t, FieldError{Field: "leave_type", Message: "Leave Type is required"}, details[0])
			assert.Equal(t, FieldError{Field: "email", Message: "Email must be a valid email address"}, details[1])
			assert.Equal(t, FieldError{Field: "month", Message: "Month must be at most 12"}, details[2])
		}
	})

	t.Run("Oneof lists the choices", func(t *testing.T) {
		err := v.Struct(leaveForm{LeaveType: "holiday"})

		details := ValidationDetails(err).([]FieldError)
		assert.Equal(t, "Leave Type must be one of: annual, sick", details[0].Message)
	})

	t.Run("Non validator error keeps its text", func(t *testing.T) {
		assert.Equal(t, "unexpected EOF", ValidationDetails(errors.New("unexpected EOF")))
	})
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Check In Date", humanize("check_in_date"))
	assert.Equal(t, "Status", humanize("status"))
}
