package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// requestValidator checks struct tags on decoded request bodies.
var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation. The returned error is either errBadRequestBody or a
// validator.ValidationErrors the responder renders field by field.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadRequestBody
	}
	if err := requestValidator.Struct(dst); err != nil {
		return err
	}
	return nil
}
