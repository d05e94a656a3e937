package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/hearth/internal/middleware"
	"github.com/mmynk/hearth/internal/models"
	"github.com/mmynk/hearth/pkg/api/apiconnect"
)

// errInternal replaces infrastructure errors on the wire.
var errInternal = errors.New("internal error")

// connectError converts an error from the ledger or store into a Connect
// error. Domain errors keep their kind, code and message as an error detail;
// anything else becomes an opaque Internal error.
func connectError(err error) error {
	if de, ok := models.AsDomainError(err); ok {
		return apiconnect.NewError(codeFor(de), de, apiconnect.ErrorDetail{
			Kind:    string(de.Kind),
			Code:    de.Code,
			Message: de.Message,
		})
	}
	switch {
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	return connect.NewError(connect.CodeInternal, errInternal)
}

func codeFor(de *models.DomainError) connect.Code {
	switch de.Kind {
	case models.KindValidation:
		return connect.CodeInvalidArgument
	case models.KindState:
		if de.Is(models.ErrConflict) {
			return connect.CodeAlreadyExists
		}
		return connect.CodeFailedPrecondition
	case models.KindImmutable:
		return connect.CodeFailedPrecondition
	case models.KindNotFound:
		return connect.CodeNotFound
	case models.KindPermission:
		return connect.CodePermissionDenied
	default:
		return connect.CodeInternal
	}
}

// currentUser returns the authenticated user ID or an Unauthenticated error.
func currentUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errors.New("authentication required"))
	}
	return userID, nil
}
