package webutil

import (
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator is shared by every request type and by the settings store.
var Validator *validator.Validate

// Trans translates validation errors into messages for API clients.
var Trans ut.Translator

var fieldNameTranslations = map[string]string{
	"username":      "Username",
	"password":      "Password",
	"email":         "Email",
	"name":          "Name",
	"comment":       "Comment",
	"rating":        "Rating",
	"category":      "Category",
	"difficulty":    "Difficulty",
	"timerDuration": "Timer duration",
	"fontSize":      "Font size",
}

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	// Report json names so errors match what the client sent.
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	var found bool
	Trans, found = uni.GetTranslator("en")
	if !found {
		log.Fatal("translator not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	registerTranslation := func(tag, msg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, displayName(fe.Field()), fe.Param())
			return t
		})
	}

	registerTranslation("required", "{0} is required.")
	registerTranslation("email", "{0} must be a valid email address.")
	registerTranslation("oneof", "{0} must be one of [{1}].")
}

func displayName(field string) string {
	if name, ok := fieldNameTranslations[field]; ok {
		return name
	}
	return field
}
