package apperror

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Init makes gin's validator report fields by their json name
// (leave_type_id rather than LeaveTypeID). Call once at startup.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// FieldError is one entry of the details list of a VALIDATION_ERROR response.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

var titleCaser = cases.Title(language.English)

func humanize(field string) string {
	return titleCaser.String(strings.ReplaceAll(field, "_", " "))
}

// FieldErrors turns a binding error into per-field details. Errors that are
// not validator errors (bad JSON, wrong types) come back as one entry.
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Rule: "malformed", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{
			Field:   e.Field(),
			Rule:    e.Tag(),
			Message: fieldMessage(e),
		})
	}
	return out
}

func fieldMessage(e validator.FieldError) string {
	name := humanize(e.Field())
	switch e.Tag() {
	case "required":
		return name + " is required"
	case "oneof":
		return name + " must be one of: " + e.Param()
	case "datetime":
		return name + " must be a date in " + e.Param() + " format"
	case "max":
		return name + " must be at most " + e.Param() + " characters"
	default:
		return name + " is invalid"
	}
}

// MapValidationError reduces a binding error to a single AppError naming the
// first failing field.
func MapValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		if e.Tag() == "required" {
			return RequiredField(humanize(e.Field()))
		}
		return InvalidField(humanize(e.Field()))
	}
	return New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)
}
