package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MapValidationError converts gin binding failures into a client-facing
// AppError naming the first offending field.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		e := errs[0]
		switch e.Tag() {
		case "required":
			return New(CodeInvalidInput, fmt.Sprintf("%s is required", e.Field()), http.StatusBadRequest)
		default:
			return New(CodeInvalidInput, fmt.Sprintf("%s is invalid", e.Field()), http.StatusBadRequest)
		}
	}
	return New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)
}
