package validation

import (
	"encoding/json"
	"fmt"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"
)

var validate = validatorv10.New()

// DecodeAndValidate decodes the JSON request body into out and runs struct-tag
// validation. The returned error is safe to surface to the client.
func DecodeAndValidate(r *http.Request, out interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(out); err != nil {
		if ve, ok := err.(validatorv10.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			return fmt.Errorf("invalid field %s: failed %s validation", fe.Field(), fe.Tag())
		}
		return err
	}
	return nil
}
