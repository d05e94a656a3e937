package main

import (
	"errors"
	"fmt"
	"os"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmynk/hearth/pkg/api"
)

var (
	flagEmail    string
	flagName     string
	flagPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session token",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session token",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&flagEmail, "email", "", "Account email")
		c.Flags().StringVar(&flagPassword, "password", "", "Account password (default $HEARTH_PASSWORD)")
		_ = c.MarkFlagRequired("email")
	}
	registerCmd.Flags().StringVar(&flagName, "name", "", "Display name")
	_ = registerCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
}

// password comes from --password, then HEARTH_PASSWORD, then a prompt when
// stdin is a terminal.
func password() (string, error) {
	if flagPassword != "" {
		return flagPassword, nil
	}
	if p := os.Getenv("HEARTH_PASSWORD"); p != "" {
		return p, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("password required: pass --password or set HEARTH_PASSWORD")
	}
	fmt.Fprint(os.Stderr, "  Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}
	pw, err := password()
	if err != nil {
		return err
	}

	resp, err := c.auth.Register(cmd.Context(), connect.NewRequest(&api.RegisterRequest{
		Email:       flagEmail,
		DisplayName: flagName,
		Password:    pw,
	}))
	if err != nil {
		return describe(err)
	}
	return saveSession(c.cfg, resp.Msg.User, resp.Msg.Token)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}
	pw, err := password()
	if err != nil {
		return err
	}

	resp, err := c.auth.Login(cmd.Context(), connect.NewRequest(&api.LoginRequest{
		Email:    flagEmail,
		Password: pw,
	}))
	if err != nil {
		return describe(err)
	}
	return saveSession(c.cfg, resp.Msg.User, resp.Msg.Token)
}

func saveSession(cfg clientConfig, user *api.User, token string) error {
	if flagServer != "" {
		cfg.Server = flagServer
	}
	cfg.Token = token
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Printf("  Logged in as %s <%s>\n", user.DisplayName, user.Email)
	return nil
}

func runLogout(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Token = ""
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Println("  Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}
	resp, err := c.auth.GetCurrentUser(cmd.Context(), connect.NewRequest(&api.GetCurrentUserRequest{}))
	if err != nil {
		return describe(err)
	}
	u := resp.Msg.User
	fmt.Printf("  %s <%s>\n  ID: %s\n", u.DisplayName, u.Email, u.ID)
	return nil
}
