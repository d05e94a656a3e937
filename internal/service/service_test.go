package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/hearth/internal/auth"
	"github.com/mmynk/hearth/internal/ledger"
	"github.com/mmynk/hearth/internal/middleware"
	"github.com/mmynk/hearth/internal/models"
	"github.com/mmynk/hearth/internal/storage/sqlite"
	"github.com/mmynk/hearth/pkg/api/apiconnect"
)

// testUserHeader names the user a test request acts as.
const testUserHeader = "X-Test-User"

// testAuthInterceptor stands in for RequireAuth: it trusts the
// X-Test-User header and leaves the context anonymous when it is absent.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID := req.Header().Get(testUserHeader); userID != "" {
				ctx = middleware.WithUser(ctx, userID, userID+"@example.com")
			}
			return next(ctx, req)
		}
	}
}

type testServer struct {
	store       *sqlite.SQLiteStore
	settlements apiconnect.SettlementServiceClient
	expenses    apiconnect.ExpenseServiceClient
	households  apiconnect.HouseholdServiceClient
	auth        apiconnect.AuthServiceClient
}

// setupTestServer starts all four services over a fresh database with the
// users alice, bob, carol and mallory.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "hearth-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for _, id := range []string{"alice", "bob", "carol", "mallory"} {
		u := models.NewUser(id+"@example.com", id, "hash")
		u.ID = id
		if err := store.CreateUser(context.Background(), u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := ledger.New(store, ledger.WithLogger(logger))
	guard := NewGuard(store, time.Minute)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store, bcrypt.MinCost)

	opts := connect.WithInterceptors(testAuthInterceptor())
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewSettlementServiceHandler(NewSettlementService(l, guard, logger), opts))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(l, guard, logger), opts))
	mux.Handle(apiconnect.NewHouseholdServiceHandler(NewHouseholdService(store, guard, logger), opts))
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), opts))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		store:       store,
		settlements: apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL),
		expenses:    apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		households:  apiconnect.NewHouseholdServiceClient(http.DefaultClient, server.URL),
		auth:        apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
	}
}

// as builds a request made by userID.
func as[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHeader, userID)
	return req
}

// expectError fails unless err has the Connect code and, when detailCode is
// set, the domain error code.
func expectError(t *testing.T, err error, code connect.Code, detailCode string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", code)
	}
	if got := connect.CodeOf(err); got != code {
		t.Fatalf("code: expected %v, got %v (%v)", code, got, err)
	}
	if detailCode == "" {
		return
	}
	info, ok := apiconnect.ErrorInfo(err)
	if !ok {
		t.Fatalf("expected error detail on %v", err)
	}
	if info.Code != detailCode {
		t.Errorf("detail code: expected %s, got %s", detailCode, info.Code)
	}
}
