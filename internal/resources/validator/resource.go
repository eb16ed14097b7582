package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"reservo/pkg/model"
)

const timeOfDayLayout = "15:04"

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

type ResourceValidator struct {
	validate *validator.Validate
}

func NewResourceValidator() (*ResourceValidator, error) {
	v := validator.New()
	if err := v.RegisterValidation("time_of_day", isTimeOfDay); err != nil {
		return nil, fmt.Errorf("failed to register time_of_day rule: %w", err)
	}
	return &ResourceValidator{validate: v}, nil
}

func isTimeOfDay(fl validator.FieldLevel) bool {
	_, err := time.Parse(timeOfDayLayout, fl.Field().String())
	return err == nil
}

func (v *ResourceValidator) Validate(resource *model.Resource) error {
	if err := v.validate.Struct(resource); err != nil {
		return translate(err)
	}
	return validateBookingConfig(resource.BookingConfig)
}

func (v *ResourceValidator) ValidateUpdate(update *model.ResourceUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		return translate(err)
	}
	return validateBookingConfig(update.BookingConfig)
}

// validateBookingConfig covers the cross-field rule struct tags cannot: a
// fully-bounded daily window must open before it closes.
func validateBookingConfig(cfg *model.BookingConfig) error {
	if cfg == nil || cfg.Daily == nil || cfg.Daily.Start == "" || cfg.Daily.End == "" {
		return nil
	}

	start, err := time.Parse(timeOfDayLayout, cfg.Daily.Start)
	if err != nil {
		return nil // already rejected by the time_of_day tag
	}
	end, err := time.Parse(timeOfDayLayout, cfg.Daily.End)
	if err != nil {
		return nil
	}

	if !start.Before(end) {
		return ValidationErrors{{
			Field:   "Daily",
			Message: fmt.Sprintf("window start %s must be before end %s", cfg.Daily.Start, cfg.Daily.End),
		}}
	}
	return nil
}

func translate(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "uuid4":
		return "must be a valid UUID"
	case "time_of_day":
		return "must be a wall-clock time in HH:MM format"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
