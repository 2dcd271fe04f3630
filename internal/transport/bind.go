package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const maxBodyBytes = 1 << 16

// BindError is a malformed or invalid request.
type BindError struct {
	Field   string
	Message string
}

func (e *BindError) Error() string {
	return e.Message
}

// Binder decodes JSON bodies and validates them with struct tags.
type Binder struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewBinder creates a Binder with English validation messages.
func NewBinder() (*Binder, error) {
	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("register validator translations: %w", err)
	}
	return &Binder{validate: v, translator: trans}, nil
}

// Decode reads one JSON document from r into dst and validates it.
func (b *Binder) Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &BindError{Message: "empty body"}
		}
		return &BindError{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if dec.More() {
		return &BindError{Message: "unexpected trailing data"}
	}
	return b.Struct(dst)
}

func (b *Binder) Struct(v any) error {
	return b.translate(b.validate.Struct(v), "")
}

// Var validates a single value, e.g. a query parameter.
func (b *Binder) Var(field string, v any, tag string) error {
	return b.translate(b.validate.Var(v, tag), field)
}

func (b *Binder) translate(err error, field string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := fe.Translate(b.translator)
		if field != "" {
			msg = field + strings.TrimPrefix(msg, fe.Field())
		}
		name := fe.Field()
		if name == "" {
			name = field
		}
		return &BindError{Field: name, Message: msg}
	}
	return &BindError{Field: field, Message: err.Error()}
}
