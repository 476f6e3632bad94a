package retry

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can switch on behavior instead of
// matching error strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindTransient     // timeout / rate limit / 5xx-equivalent, safe to retry
	KindContentPolicy // service refused on policy grounds, never retried
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindTransient:
		return "transient"
	case KindContentPolicy:
		return "content_policy"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(op string, err error) error      { return &Error{Kind: KindNotFound, Op: op, Err: err} }
func Validation(op string, err error) error    { return &Error{Kind: KindValidation, Op: op, Err: err} }
func Transient(op string, err error) error     { return &Error{Kind: KindTransient, Op: op, Err: err} }
func ContentPolicy(op string, err error) error { return &Error{Kind: KindContentPolicy, Op: op, Err: err} }
func Storage(op string, err error) error       { return &Error{Kind: KindStorage, Op: op, Err: err} }

// KindOf extracts the classification of err, or KindUnknown for unclassified
// errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsTransient(err error) bool { return KindOf(err) == KindTransient }
