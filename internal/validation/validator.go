// Package validation checks request DTOs against their `validate` tags and
// reports failures with English messages keyed by JSON field name.
package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/Amish929/Eco-Gamify-Project/internal/apperror"
)

var (
	requiredTag  = "required"
	requiredText = "{0} is required"

	notBlankTag  = "notblank"
	notBlankText = "{0} cannot be blank"
)

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New() *Validator {
	validate := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)

	v := &Validator{validate: validate, translator: translator}
	v.registerTranslation(notBlankTag, notBlankText, false)
	v.registerTranslation(requiredTag, requiredText, true)

	return v
}

func (v *Validator) registerTranslation(tag, text string, override bool) {
	_ = v.validate.RegisterTranslation(
		tag, v.translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates s. Failures come back as an apperror validation error whose
// Fields map JSON field names to messages.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.Wrap(apperror.KindValidation, err, "invalid request")
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fieldName(fe)] = fe.Translate(v.translator)
	}

	return apperror.ValidationFields(summarize(fields), fields)
}

// fieldName keeps the index for slice elements, e.g. expected_labels[0].
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func summarize(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fields[k])
	}
	return strings.Join(msgs, "; ")
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}
