package middleware

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/cocoexperiments/pokett-be/internal/apperr"
)

// ToConnectError maps an application error to a Connect error. Errors that
// already are Connect errors pass through unchanged.
func ToConnectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch {
	case errors.Is(err, apperr.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, errors.New(apperr.Message(err)))
	case errors.Is(err, apperr.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, errors.New(apperr.Message(err)))
	case errors.Is(err, apperr.ErrUnauthenticated):
		return connect.NewError(connect.CodeUnauthenticated, errors.New(apperr.Message(err)))
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
