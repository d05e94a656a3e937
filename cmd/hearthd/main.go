package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/hearth/internal/auth"
	"github.com/mmynk/hearth/internal/calculator"
	"github.com/mmynk/hearth/internal/config"
	"github.com/mmynk/hearth/internal/ledger"
	"github.com/mmynk/hearth/internal/metrics"
	"github.com/mmynk/hearth/internal/middleware"
	"github.com/mmynk/hearth/internal/service"
	"github.com/mmynk/hearth/internal/storage/sqlite"
	"github.com/mmynk/hearth/pkg/api/apiconnect"
	"github.com/mmynk/hearth/pkg/logging"
)

// rpcPrefix is shared by every Connect procedure path.
const rpcPrefix = "/household.v1."

func main() {
	if err := run(); err != nil {
		slog.Error("hearthd failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	calculator.DisplayCurrency = strings.ToUpper(cfg.Display.Currency)

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.Database.Path)

	m := metrics.New()
	l := ledger.New(store,
		ledger.WithRecorder(m),
		ledger.WithHistoryLimit(cfg.Settlements.HistoryLimit),
		ledger.WithLogger(logger),
	)
	guard := service.NewGuard(store, cfg.Cache.MemberTTL)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store, 0)

	publicProcedures := []string{
		apiconnect.AuthServiceRegisterProcedure,
		apiconnect.AuthServiceLoginProcedure,
	}
	interceptors := connect.WithInterceptors(
		m.Interceptor(),
		middleware.RateLimit(cfg.Auth.LoginRatePerMinute, publicProcedures...),
		middleware.RequireAuth(jwtManager, publicProcedures...),
		middleware.LoggingInterceptor(logger),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(apiconnect.NewHouseholdServiceHandler(
		service.NewHouseholdService(store, guard, logger), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(
		service.NewExpenseService(l, guard, logger), interceptors))
	mux.Handle(apiconnect.NewSettlementServiceHandler(
		service.NewSettlementService(l, guard, logger), interceptors))
	mux.Handle("/metrics", m.Handler())

	if cfg.Server.StaticPath != "" {
		staticDir, err := filepath.Abs(cfg.Server.StaticPath)
		if err != nil {
			return fmt.Errorf("failed to resolve static path: %w", err)
		}
		logger.Info("Serving static files", "path", staticDir)
		mux.Handle("/", staticHandler(staticDir))
	}

	// h2c serves HTTP/2 without TLS for Connect and gRPC clients.
	handler := h2c.NewHandler(loggingMiddleware(logger, corsMiddleware(mux)), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// staticHandler serves files from dir, falling back to index.html for
// unknown paths. RPC paths are never served from disk.
func staticHandler(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, rpcPrefix) {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(dir, filepath.Clean("/"+urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		logger.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
