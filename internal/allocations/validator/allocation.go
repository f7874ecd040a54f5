package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type AllocationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAllocationValidator(log *logger.Logger) *AllocationValidator {
	return &AllocationValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *AllocationValidator) Validate(allocation *model.Allocation) error {
	if err := v.validate.Struct(allocation); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *AllocationValidator) ValidatePatch(patch *model.AllocationPatch) error {
	if err := v.validate.Struct(patch); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *AllocationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD form", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

// ParseDate parses a stored or requested allocation date. Dates carry
// no time component; the server-local midnight stands in for the day.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(model.DateLayout, s, time.Local)
}

// IsFutureOrToday reports whether d is today or later by the process
// clock. Create checks the requested date; update and delete check the
// stored one, so past allocations are frozen.
func IsFutureOrToday(d time.Time) bool {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !d.Before(today)
}
