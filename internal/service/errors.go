package service

import (
	"errors"
	"fmt"
)

// ErrorKind clasifica las fallas del chat. En HTTP todas salvo validación colapsan en 500,
// pero los llamadores y los tests pueden distinguir la causa.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindStorage
	KindGeneration
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindStorage:
		return "storage"
	case KindGeneration:
		return "generation"
	default:
		return "unknown"
	}
}

var (
	ErrChatServiceNotConfigured = errors.New("chat service not configured")
	ErrUsernameRequired         = errors.New("username is required")
	ErrMessageRequired          = errors.New("message is required")
)

// ChatError envuelve la causa original con su tipo y la operación que falló.
type ChatError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *ChatError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ChatError) Unwrap() error {
	return e.Err
}

func newChatError(kind ErrorKind, op string, err error) *ChatError {
	return &ChatError{Kind: kind, Op: op, Err: err}
}

// KindOf devuelve el tipo de un error de chat, o KindUnknown si err no es un *ChatError.
func KindOf(err error) ErrorKind {
	var ce *ChatError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}
