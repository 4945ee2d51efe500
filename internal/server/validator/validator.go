package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/nulzo/llm-translate/internal/provider"
)

// ProviderTag validates a string field against the known provider IDs.
const ProviderTag = "provider_id"

var trans ut.Translator

// InitValidator configures gin's validator engine: JSON field names in
// messages, English translations and the provider_id tag.
func InitValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(ProviderTag, func(fl validator.FieldLevel) bool {
		return provider.ID(fl.Field().String()).Valid()
	})

	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)
}

// ParseValidationError converts binding errors into a field -> message map
// keyed by JSON path, e.g. "credentials[deepl]".
func ParseValidationError(err error) map[string]string {
	errMap := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errMap["body"] = "invalid request body: expected a JSON object"
		return errMap
	}

	for _, e := range validationErrors {
		ns := e.Namespace()
		if i := strings.Index(ns, "."); i != -1 {
			ns = ns[i+1:]
		}
		errMap[ns] = message(e)
	}
	return errMap
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case ProviderTag:
		return fmt.Sprintf("must be one of [%s]", strings.Join(providerNames(), ", "))
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", strings.ReplaceAll(e.Param(), " ", ", "))
	}
	if trans == nil {
		return e.Error()
	}
	return e.Translate(trans)
}

func providerNames() []string {
	ids := provider.IDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
