package gohcl

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	validator "gopkg.in/go-playground/validator.v9"
)

var check = validator.New()

var formatsOnce sync.Once
var formats map[string]string

// checkValidate runs the field's validate tag, if any, against the decoded
// value.
func (d *Decoder) checkValidate(f field, fv reflect.Value, path Path) error {
	if f.validate == "" {
		return nil
	}
	v := fv
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	err := check.Var(v.Interface(), f.validate)
	if err == nil {
		return nil
	}
	return &DecodeError{
		Kind:   CustomDecodeError,
		Path:   path,
		Detail: validationMessage(err),
	}
}

// validationMessage formats the first failed rule in user terms.
func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err.Error()
	}
	formatsOnce.Do(initFormats)
	fe := errs[0]
	format, ok := formats[fe.Tag()]
	if !ok {
		return fmt.Sprintf("value does not satisfy %q", fe.Tag())
	}
	if !strings.Contains(format, "%") {
		return format
	}
	return fmt.Sprintf(format, fe.Param())
}

func initFormats() {
	formats = map[string]string{
		"min":      "must be %v or more",
		"max":      "must be %v or less",
		"gte":      "must be %v or more",
		"gt":       "must be more than %v",
		"lte":      "must be %v or less",
		"lt":       "must be less than %v",
		"oneof":    "must be one of: [%v]",
		"required": "must be set",
	}
}
