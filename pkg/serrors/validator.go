package serrors

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zhtranslations "github.com/go-playground/validator/v10/translations/zh"
)

var translator = func() ut.Translator {
	t, _ := ut.New(zh.New()).GetTranslator("zh")
	return t
}()

// Validator is the shared DTO validator. It reports fields by their json
// names and its messages are rendered in Chinese by ProcessValidatorErrors.
// The translator accepts each default message once, so there is one instance.
var Validator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	if err := zhtranslations.RegisterDefaultTranslations(v, translator); err != nil {
		panic(err)
	}
	return v
})

// RegisterValidation adds a custom tag to Validator with its Chinese message.
// {0} in text is replaced by the field name.
func RegisterValidation(tag string, fn validator.Func, text string) error {
	v := Validator()
	if err := v.RegisterValidation(tag, fn); err != nil {
		return err
	}
	return v.RegisterTranslation(tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}

// message prefers the registered translation and falls back to describe.
func message(err validator.FieldError) string {
	if msg := err.Translate(translator); msg != "" && msg != err.Error() {
		return msg
	}
	return describe(err)
}
