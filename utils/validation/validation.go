// Package validation decodes request bodies and enforces the rules declared
// in struct tags, turning violations into client-readable APIErrors.
package validation

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"barhop-server/utils/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeAndValidate decodes the request body into dst and validates it.
// dst must be a pointer to a struct carrying `validate` tags.
func DecodeAndValidate(r *http.Request, dst any) *errors.APIError {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewAPIError("INVALID_INPUT", "Malformed request body", http.StatusBadRequest, err.Error())
	}
	return Struct(dst)
}

// Struct validates an already-decoded value.
func Struct(dst any) *errors.APIError {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, "INVALID_INPUT", "Invalid request data", http.StatusBadRequest)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" failed on '"+fe.Tag()+"'")
	}
	return errors.NewAPIError("VALIDATION_ERROR", "Invalid request data: "+strings.Join(fields, ", "), http.StatusBadRequest)
}
