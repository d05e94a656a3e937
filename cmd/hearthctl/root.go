package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/hearth/pkg/api/apiconnect"
)

var (
	flagServer    string
	flagHousehold string
	flagTimeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "hearthctl",
	Short:         "Household expense ledger client",
	Long:          "Record shared expenses, check balances and settle up with a hearth server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Server URL (default from config, then "+defaultServer+")")
	rootCmd.PersistentFlags().StringVarP(&flagHousehold, "household", "H", "", "Household ID (default from config)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Request timeout")
}

// clients bundles the four service clients for one invocation.
type clients struct {
	cfg         clientConfig
	auth        apiconnect.AuthServiceClient
	households  apiconnect.HouseholdServiceClient
	expenses    apiconnect.ExpenseServiceClient
	settlements apiconnect.SettlementServiceClient
}

func newClients() (*clients, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if flagServer != "" {
		cfg.Server = flagServer
	}
	server := strings.TrimRight(cfg.Server, "/")

	httpClient := &http.Client{Timeout: flagTimeout}
	opts := connect.WithInterceptors(bearer(cfg.Token))
	return &clients{
		cfg:         cfg,
		auth:        apiconnect.NewAuthServiceClient(httpClient, server, opts),
		households:  apiconnect.NewHouseholdServiceClient(httpClient, server, opts),
		expenses:    apiconnect.NewExpenseServiceClient(httpClient, server, opts),
		settlements: apiconnect.NewSettlementServiceClient(httpClient, server, opts),
	}, nil
}

// household resolves the household to act on.
func (c *clients) household() (string, error) {
	if flagHousehold != "" {
		return flagHousehold, nil
	}
	if c.cfg.Household != "" {
		return c.cfg.Household, nil
	}
	return "", errors.New("no household selected: pass --household or run `hearthctl household use ID`")
}

// bearer attaches the saved token to every request.
func bearer(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token != "" && req.Spec().IsClient {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}

// describe turns an RPC failure into a one-line message.
func describe(err error) error {
	if info, ok := apiconnect.ErrorInfo(err); ok {
		return fmt.Errorf("%s: %s", info.Code, info.Message)
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		if connectErr.Code() == connect.CodeUnauthenticated {
			return fmt.Errorf("%s (run `hearthctl login`)", connectErr.Message())
		}
		return fmt.Errorf("%s: %s", connectErr.Code(), connectErr.Message())
	}
	return err
}
