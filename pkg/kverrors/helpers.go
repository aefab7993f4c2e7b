package kverrors

import "errors"

// Of extracts the *Error from err's chain, if present.
func Of(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindUnexpected if err is not (or does
// not wrap) a kverrors.Error.
func KindOf(err error) Kind {
	if e, ok := Of(err); ok {
		return e.kind
	}
	return KindUnexpected
}

// IsKeyNotFound reports whether err is (or wraps) a KindKeyNotFound Error.
func IsKeyNotFound(err error) bool { return errors.Is(err, ErrKeyNotFound) }

// IsIo reports whether err is (or wraps) a KindIo Error.
func IsIo(err error) bool { return errors.Is(err, ErrIo) }

// IsSerde reports whether err is (or wraps) a KindSerde Error.
func IsSerde(err error) bool { return errors.Is(err, ErrSerde) }

// IsBackend reports whether err is (or wraps) a KindBackend Error.
func IsBackend(err error) bool { return errors.Is(err, ErrBackend) }
