package validators

import (
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var hasSpaces = regexp.MustCompile(`\s+`)

// NoWhiteSpaces returns false if the string contains any whitespace
// (rejecting the user input). Used for usernames.
func NoWhiteSpaces(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return !hasSpaces.MatchString(field.String())
}
