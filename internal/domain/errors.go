package domain

import "errors"

// Kind classifies errors so the transport layer can pick a response code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindNotFound
	KindRetrieval
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindRetrieval:
		return "retrieval"
	default:
		return "internal"
	}
}

// Error is a classified error carrying a caller-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrUserExists         = &Error{Kind: KindConflict, Message: "user with this email already exists"}
	ErrInvalidCredentials = &Error{Kind: KindAuth, Message: "invalid credentials"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrRetrieval          = &Error{Kind: KindRetrieval, Message: "failed to fetch news"}
)

// NewValidationError reports a malformed request payload.
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
