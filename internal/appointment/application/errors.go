package application

import "fmt"

// Kind clasifica los errores que los casos de uso exponen hacia la capa HTTP.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindNotFound
)

// Error envuelve errores de dominio traducidos en la frontera del caso de
// uso. Los errores de infraestructura (broker, almacenamiento) NO se
// envuelven: se propagan tal cual y acaban como 500.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func badRequest(message string, err error) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Err: err}
}

func notFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}
