package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"lms/api/internal/ids"
)

const objectIDPattern = "^[a-fA-F0-9]{24}$"

var validatorsOnce sync.Once

// registerValidators adds the objectid rule to gin's validator and makes
// field errors report JSON names.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return ids.Valid(fl.Field().String())
		})
	})
}

// validationMessage renders a binding error in the body/<field> style.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldMessage(verrs[0])
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("body/%s must be %s", typeErr.Field, jsonKind(typeErr.Type))
	}

	if errors.Is(err, io.EOF) {
		return "body must be object"
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "Body is not valid JSON"
	}
	return err.Error()
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("body must have required property '%s'", field)
	case "email":
		return fmt.Sprintf("body/%s must match format \"email\"", field)
	case "min":
		return fmt.Sprintf("body/%s must NOT have fewer than %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("body/%s must NOT have more than %s characters", field, fe.Param())
	case "objectid":
		return fmt.Sprintf("body/%s must match pattern \"%s\"", field, objectIDPattern)
	case "url":
		return fmt.Sprintf("body/%s must match format \"uri\"", field)
	default:
		return fmt.Sprintf("body/%s is invalid", field)
	}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Float64, reflect.Float32:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice:
		return "array"
	default:
		return "object"
	}
}
