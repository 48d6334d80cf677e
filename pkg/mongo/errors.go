package mongo

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection is the root of every connection establishment or liveness failure.
	ErrConnection = errors.New("mongo connection failed")
	// ErrTimeout marks a connection failure caused by the connect timeout elapsing.
	ErrTimeout = errors.New("mongo connection timed out")
	// ErrAuth marks a connection failure caused by rejected credentials.
	ErrAuth = errors.New("mongo authentication rejected")
	// ErrNetwork marks any other connection failure.
	ErrNetwork = errors.New("mongo network error")

	ErrNotConnected      = errors.New("mongo handle is not ready")
	ErrAlreadyConnected  = errors.New("mongo manager is already connected")
	ErrClosed            = errors.New("mongo manager is closed")
	ErrInvalidConfig     = errors.New("invalid mongo configuration")
	ErrHealthcheckFailed = errors.New("mongo healthcheck failed")
)

// Kind classifies a ConnectionError.
type Kind string

const (
	KindTimeout Kind = "timeout"
	KindAuth    Kind = "auth"
	KindNetwork Kind = "network"
)

// ConnectionError reports a failed connect or ping. It matches ErrConnection
// and the sentinel of its Kind with errors.Is.
type ConnectionError struct {
	Kind  Kind
	Cause error
}

func (e *ConnectionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", ErrConnection, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", ErrConnection, e.Kind, e.Cause)
}

func (e *ConnectionError) Unwrap() []error {
	errs := []error{ErrConnection, e.kindErr()}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func (e *ConnectionError) kindErr() error {
	switch e.Kind {
	case KindTimeout:
		return ErrTimeout
	case KindAuth:
		return ErrAuth
	default:
		return ErrNetwork
	}
}
