package client

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New()
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("client: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})
}

// Config is the resolved, immutable client configuration.
type Config struct {
	// UserAgent identifies the caller to the SEC, which requires a name
	// and contact email, e.g. "Sample Company admin@sample.com".
	UserAgent string `json:"userAgent" validate:"required"`
	// BaseURL replaces the "https://" prefix of every request URL.
	BaseURL string `json:"baseURL" validate:"required,startswith=http"`
	// RateLimit requests are admitted per RatePeriod.
	RateLimit  int           `json:"rateLimit" validate:"gte=1"`
	RatePeriod time.Duration `json:"ratePeriod" validate:"gt=0"`
	// PageConcurrency bounds concurrent history page fetches in AllFilings.
	PageConcurrency int `json:"pageConcurrency" validate:"gte=1"`
}

// Validate checks the config against its declared tags.
func (cfg Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		var verrors validator.ValidationErrors
		if !errors.As(err, &verrors) {
			return err
		}

		var fields FieldErrors
		for _, verror := range verrors {
			fields = append(fields, FieldError{
				Field: verror.Field(),
				Err:   customErrForTag(verror.Tag(), verror),
			})
		}
		return fields
	}

	return nil
}

// FieldError represents a single validation error for a specific field.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors represents a collection of field errors.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}
	return strings.Join(parts, "; ")
}

func customErrForTag(tag string, verror validator.FieldError) string {
	switch tag {
	case "required":
		return "This field is required"
	case "startswith":
		return "must be an http or https URL prefix"
	default:
		return verror.Translate(translator)
	}
}
