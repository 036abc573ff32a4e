package errs

import (
	"errors"
	"net/http"
)

// Классы ошибок, по которым транспорт выбирает статус ответа.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// Error: ошибка с сообщением для клиента; errors.Is срабатывает по её классу.
type Error struct {
	kind error
	msg  string
}

func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func Invalid(msg string) *Error   { return New(ErrInvalidInput, msg) }
func Forbidden(msg string) *Error { return New(ErrForbidden, msg) }
func NotFound(msg string) *Error  { return New(ErrNotFound, msg) }

func ToHTTP(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message возвращает текст, безопасный для отдачи клиенту.
// Внутренние ошибки наружу не раскрываются.
func Message(err error) string {
	if ToHTTP(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return err.Error()
}
