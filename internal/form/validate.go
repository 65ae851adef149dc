package form

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrValidation - форма заполнена неверно, отправка заблокирована
var ErrValidation = errors.New("form validation failed")

// ValidationError содержит сообщения по каждому неверному полю
type ValidationError struct {
	Fields map[string]string // ключ поля -> сообщение
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Допустимые форматы даты при вводе
var dateLayouts = []string{"2006-01-02", "02.01.2006"}

// Сообщения по тегам валидации
var tagMessages = map[string]string{
	"required": "%s: поле не должно быть пустым",
	"clock":    "%s: укажите время в формате ЧЧ:ММ",
	"day":      "%s: укажите дату в формате ГГГГ-ММ-ДД или ДД.ММ.ГГГГ",
	"nonneg":   "%s: должно быть неотрицательным целым числом",
	"posint":   "%s: должно быть положительным целым числом",
}

// Пользовательские теги валидации формы
var customValidations = map[string]validator.Func{
	"clock": func(fl validator.FieldLevel) bool {
		_, err := parseClock(fl.Field().String())
		return err == nil
	},
	"day": func(fl validator.FieldLevel) bool {
		_, err := parseDate(fl.Field().String())
		return err == nil
	},
	"nonneg": func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= 0
	},
	"posint": func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n > 0
	},
}

var validate = mustValidator(customValidations)

// newValidator создает валидатор и регистрирует теги
func newValidator(tags map[string]validator.Func) (*validator.Validate, error) {
	v := validator.New()
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("register validation %q: %w", tag, err)
		}
	}
	return v, nil
}

func mustValidator(tags map[string]validator.Func) *validator.Validate {
	v, err := newValidator(tags)
	if err != nil {
		panic(err)
	}
	return v
}

// parseClock принимает ЧЧ:ММ и ЧЧ:ММ:СС
func parseClock(s string) (time.Time, error) {
	if t, err := time.Parse("15:04", s); err == nil {
		return t, nil
	}
	return time.Parse("15:04:05", s)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown date format %q", s)
}

// Validate проверяет все поля формы
func Validate(v Values) error {
	v = v.trimmed()
	return toValidationError(validate.Struct(&v))
}

// ValidateField проверяет одно поле, не трогая остальные
func ValidateField(key, value string) error {
	f, ok := FieldByKey(key)
	if !ok {
		return fmt.Errorf("unknown form field %q", key)
	}

	var v Values
	if err := v.Set(key, strings.TrimSpace(value)); err != nil {
		return err
	}
	return toValidationError(validate.StructPartial(&v, f.Struct))
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, e := range verrs {
		f, ok := fieldByStruct(e.StructField())
		if !ok {
			out.Fields[e.StructField()] = e.Error()
			continue
		}
		// первое сообщение по полю - самое полезное (обычно required)
		if _, seen := out.Fields[f.Key]; seen {
			continue
		}
		out.Fields[f.Key] = message(f.Label, e.Tag())
	}
	return out
}

func message(label, tag string) string {
	if tpl, ok := tagMessages[tag]; ok {
		return fmt.Sprintf(tpl, label)
	}
	return fmt.Sprintf("%s: неверное значение", label)
}
