package financereports

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   = newQueryValidator()
	translator ut.Translator
)

// newQueryValidator knows the reportdate rule and names fields after their
// url tags.
func newQueryValidator() *validator.Validate {
	v := validator.New()

	var ok bool
	if translator, ok = ut.New(en.New(), en.New()).GetTranslator("en"); !ok {
		panic("financereports: english locale missing from query validator")
	}
	if err := en_translations.RegisterDefaultTranslations(v, translator); err != nil {
		panic(fmt.Sprintf("financereports: query validator messages: %v", err))
	}
	if err := v.RegisterValidation("reportdate", validReportDate); err != nil {
		panic(fmt.Sprintf("financereports: reportdate rule: %v", err))
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("url"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validReportDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, layout := range []string{dayLayout, monthLayout, yearLayout} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// Validate checks a report query before it is sent. Problems come back as
// FieldErrors keyed by query parameter, e.g. filter[reportDate].
func Validate(query any) error {
	err := validate.Struct(query)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}

	problems := make(FieldErrors, 0, len(invalid))
	for _, fe := range invalid {
		problems = append(problems, FieldError{
			Field: fieldPath(fe.Namespace()),
			Err:   messageFor(fe),
		})
	}
	return problems
}

// fieldPath turns "FinanceReportsQuery.filter.reportDate" into
// "filter[reportDate]".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	path := parts[0]
	for _, p := range parts[1:] {
		path += "[" + p + "]"
	}
	return path
}

// FieldError is one rejected query parameter.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors lists every rejected parameter of a query.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}
	return strings.Join(parts, "; ")
}

// messageFor words a failed rule. Rules without a report specific message
// fall back to the english translation.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "reportdate":
		return "must be YYYY-MM-DD, YYYY-MM or YYYY"
	case "datetime":
		return "must be YYYY-MM"
	default:
		return fe.Translate(translator)
	}
}
