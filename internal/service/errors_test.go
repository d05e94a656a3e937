package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/hearth/internal/models"
	"github.com/mmynk/hearth/pkg/api/apiconnect"
)

func TestConnectError(t *testing.T) {
	tests := []struct {
		err  error
		code connect.Code
	}{
		{models.ErrShareMismatch, connect.CodeInvalidArgument},
		{models.ErrConflict.Wrapf("open settlement s1"), connect.CodeAlreadyExists},
		{models.ErrInvalidState, connect.CodeFailedPrecondition},
		{models.ErrNothingToSettle, connect.CodeFailedPrecondition},
		{models.ErrImmutableExpense, connect.CodeFailedPrecondition},
		{fmt.Errorf("lookup: %w", models.ErrNotFound), connect.CodeNotFound},
		{models.ErrPermissionDenied, connect.CodePermissionDenied},
		{context.Canceled, connect.CodeCanceled},
		{errors.New("disk I/O error"), connect.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got := connectError(tt.err)
			if code := connect.CodeOf(got); code != tt.code {
				t.Errorf("expected %v, got %v", tt.code, code)
			}
		})
	}
}

func TestConnectError_Detail(t *testing.T) {
	err := connectError(models.ErrImmutableExpense.Wrapf("expense e1 was settled"))
	info, ok := apiconnect.ErrorInfo(err)
	if !ok {
		t.Fatal("expected error detail")
	}
	if info.Kind != "immutable" || info.Code != "IMMUTABLE_EXPENSE" || info.Message != "expense e1 was settled" {
		t.Errorf("unexpected detail: %+v", info)
	}
}

func TestConnectError_HidesInfrastructure(t *testing.T) {
	err := connectError(errors.New("database is locked"))
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected *connect.Error, got %T", err)
	}
	if connectErr.Message() != "internal error" {
		t.Errorf("expected opaque message, got %q", connectErr.Message())
	}
	if _, ok := apiconnect.ErrorInfo(err); ok {
		t.Error("infrastructure errors carry no detail")
	}
}
