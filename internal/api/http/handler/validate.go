package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodySize = 1 << 20

var (
	hasDigit   = regexp.MustCompile(`\d`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasSpecial = regexp.MustCompile(`[!@#$%^&*]`)
)

// Validator decodes JSON request bodies and validates them with struct tags.
//
// Field names in errors are the json names. A failing rule reports the
// field's `msg_<rule>` or `msg` tag, except `required` which reports
// "<label> is required".
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with the custom password rule registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return hasDigit.MatchString(s) &&
			hasLower.MatchString(s) &&
			hasUpper.MatchString(s) &&
			hasSpecial.MatchString(s)
	})
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= n
	})
	return &Validator{validate: v}
}

// Decode reads r's JSON body into dst and validates it.
func (v *Validator) Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &ValidationError{Fields: []FieldError{{Field: "body", Message: "Request body is required"}}}
		}
		return &ValidationError{Fields: []FieldError{{Field: "body", Message: "Malformed JSON"}}}
	}
	if t, ok := dst.(interface{ trim() }); ok {
		t.trim()
	}
	return v.Struct(dst)
}

// Struct validates s.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	typ := reflect.TypeOf(s)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(typ, fe),
		})
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(typ reflect.Type, fe validator.FieldError) string {
	sf, ok := typ.FieldByName(fe.StructField())
	if !ok {
		return fmt.Sprintf("%s is invalid", fe.Field())
	}

	label := sf.Tag.Get("label")
	if label == "" {
		label = fe.Field()
	}
	if fe.Tag() == "required" {
		return label + " is required"
	}
	if msg := sf.Tag.Get("msg_" + fe.Tag()); msg != "" {
		return msg
	}
	if msg := sf.Tag.Get("msg"); msg != "" {
		return msg
	}
	return fmt.Sprintf("%s is invalid", label)
}
