package server

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// invalidMessages names the failure for a oneof field. Fields not listed
// fall back to "Invalid <field>".
var invalidMessages = map[string]string{
	"language": "Unsupported language",
	"region":   "Invalid region",
	"kind":     "Unsupported kind",
	"reaction": "Unsupported reaction",
}

// validationMessage turns the first validator failure into a client-facing
// message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return "Missing " + field
	case "oneof":
		if msg, ok := invalidMessages[field]; ok {
			return msg
		}
	}
	return "Invalid " + field
}

// decodeValid decodes the JSON body into v and runs struct validation. An
// empty body decodes as {}. On failure the 400 response has been written.
func decodeValid(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := getValidator().Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}
