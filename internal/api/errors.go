package api

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport - сеть недоступна или сервер ответил не 2xx
	ErrTransport = errors.New("api transport failure")
	// ErrShapeMismatch - тело ответа не соответствует схеме эндпоинта
	ErrShapeMismatch = errors.New("api response shape mismatch")
)

// TransportError описывает неудачный HTTP вызов. Повторов клиент не делает.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int    // 0, если ответа не было вовсе
	Body       string // начало тела ответа для логов
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func shapeError(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrShapeMismatch, what, err)
}
