package dto

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	safeIDRe   = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)
	safeNameRe = regexp.MustCompile(`^[\p{L}\p{M}0-9 .'\-]+$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("safe_id", validateSafeID)
		_ = v.RegisterValidation("safe_name", validateSafeName)
	}
}

// validateSafeID allows alphanumeric, underscore, dash, and dot.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeIDRe.MatchString(fl.Field().String())
}

// validateSafeName allows letters in any script, digits, spaces, dots,
// apostrophes and dashes.
func validateSafeName(fl validator.FieldLevel) bool {
	return safeNameRe.MatchString(fl.Field().String())
}

// ValidIdempotencyKey reports whether a header value can be used as an
// idempotency key.
func ValidIdempotencyKey(key string) bool {
	return len(key) > 0 && len(key) <= 128 && safeIDRe.MatchString(key)
}

// SanitizeStruct trims whitespace, collapses inner runs of whitespace and drops
// control characters in every exported string field (including *string) of a
// struct pointer.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(sanitize(elem.String()))
			}
		}
	}
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
