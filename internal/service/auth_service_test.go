package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/hearth/pkg/api"
)

func TestAuthService(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	registered, err := s.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "Dana@Example.com",
		DisplayName: "Dana",
		Password:    "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if registered.Msg.Token == "" {
		t.Error("expected a token")
	}
	if registered.Msg.User.Email != "dana@example.com" {
		t.Errorf("email: expected normalized address, got %s", registered.Msg.User.Email)
	}

	t.Run("login", func(t *testing.T) {
		resp, err := s.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "dana@example.com", Password: "correct-horse"}))
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Msg.User.ID != registered.Msg.User.ID {
			t.Errorf("logged in as %s, want %s", resp.Msg.User.ID, registered.Msg.User.ID)
		}
	})

	t.Run("current user", func(t *testing.T) {
		resp, err := s.auth.GetCurrentUser(ctx, as(registered.Msg.User.ID, &api.GetCurrentUserRequest{}))
		if err != nil {
			t.Fatalf("GetCurrentUser failed: %v", err)
		}
		if resp.Msg.User.DisplayName != "Dana" {
			t.Errorf("display name: expected Dana, got %s", resp.Msg.User.DisplayName)
		}
	})

	tests := []struct {
		name string
		call func() error
		code connect.Code
	}{
		{
			name: "duplicate email",
			call: func() error {
				_, err := s.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "dana@example.com", DisplayName: "D", Password: "another-pass"}))
				return err
			},
			code: connect.CodeAlreadyExists,
		},
		{
			name: "weak password",
			call: func() error {
				_, err := s.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "eve@example.com", DisplayName: "Eve", Password: "short"}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "missing display name",
			call: func() error {
				_, err := s.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "eve@example.com", Password: "long-enough"}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "wrong password",
			call: func() error {
				_, err := s.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "dana@example.com", Password: "wrong-horse"}))
				return err
			},
			code: connect.CodeUnauthenticated,
		},
		{
			name: "unknown email",
			call: func() error {
				_, err := s.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "nobody@example.com", Password: "whatever1"}))
				return err
			},
			code: connect.CodeUnauthenticated,
		},
		{
			name: "anonymous current user",
			call: func() error {
				_, err := s.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
				return err
			},
			code: connect.CodeUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, tt.call(), tt.code, "")
		})
	}
}
