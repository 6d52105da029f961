package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"flashcard_study/internal/model"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes bounds every JSON request body. Backups are the largest.
const MaxBodyBytes = 8 << 20

// DecodeJSONBody decodes the request body into dst and validates it with
// Validator. Unknown fields are rejected. All failures wrap
// model.ErrInvalidInput.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return model.NewAppError("EMPTY_BODY", "Request body is required.", "", model.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return decodeError(err)
	}
	if decoder.More() {
		return model.NewAppError("INVALID_JSON", "Request body must contain a single JSON object.", "", model.ErrInvalidInput)
	}
	return ValidateStruct(dst)
}

// ValidateStruct runs Validator over v and converts failures into an
// *model.AppError.
func ValidateStruct(v any) error {
	if err := Validator.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return NewValidationErrorResponse(verrs)
		}
		return model.NewAppError("VALIDATION_ERROR", err.Error(), "", model.ErrInvalidInput)
	}
	return nil
}

func decodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return model.NewAppError("EMPTY_BODY", "Request body is required.", "", model.ErrInvalidInput)
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return model.NewAppError("INVALID_JSON", "Request body is not valid JSON.", "", model.ErrInvalidInput)
	case errors.As(err, &typeErr):
		return model.NewAppError("INVALID_JSON",
			fmt.Sprintf("%s must be of type %s.", typeErr.Field, typeErr.Type), typeErr.Field, model.ErrInvalidInput)
	case errors.As(err, &maxErr):
		return model.NewAppError("BODY_TOO_LARGE", "Request body is too large.", "", model.ErrInvalidInput)
	default:
		return model.NewAppError("INVALID_JSON", err.Error(), "", model.ErrInvalidInput)
	}
}
