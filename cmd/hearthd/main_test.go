package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestCorsMiddleware(t *testing.T) {
	called := false
	handler := corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/household.v1.SettlementService/GetBalances", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("preflight: expected 200, got %d", rec.Code)
	}
	if called {
		t.Error("preflight should not reach the handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin: expected *, got %q", got)
	}

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	if !called {
		t.Error("expected POST to reach the handler")
	}
}

func TestStaticHandler(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("index"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("app"), 0o644); err != nil {
		t.Fatal(err)
	}
	handler := staticHandler(dir)

	tests := []struct {
		path string
		code int
		body string
	}{
		{"/", http.StatusOK, "index"},
		{"/app.js", http.StatusOK, "app"},
		{"/households/42", http.StatusOK, "index"},
		{"/household.v1.ExpenseService/Nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if tt.body == "" {
				return
			}
			body, _ := io.ReadAll(rec.Body)
			if string(body) != tt.body {
				t.Errorf("expected %q, got %q", tt.body, body)
			}
		})
	}
}
