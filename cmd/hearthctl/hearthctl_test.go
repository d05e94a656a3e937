package main

import (
	"errors"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/hearth/pkg/api/apiconnect"
)

func TestParseCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"90", 9000, false},
		{"90.00", 9000, false},
		{"12.5", 1250, false},
		{"$3.07", 307, false},
		{" 0.01 ", 1, false},
		{"1.005", 0, true},
		{"0", 0, true},
		{"-5", 0, true},
		{"1e30", 0, true},
		{"92233720368547758.08", 0, true},
		{"92233720368547758.07", 9223372036854775807, false},
		{"ten", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCents(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestParseShare(t *testing.T) {
	member, cents, err := parseShare("bob=40.25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if member != "bob" || cents != 4025 {
		t.Errorf("got %s=%d, want bob=4025", member, cents)
	}

	member, cents, err = parseShare("carol=0")
	if err != nil {
		t.Fatalf("zero share rejected: %v", err)
	}
	if member != "carol" || cents != 0 {
		t.Errorf("got %s=%d, want carol=0", member, cents)
	}

	for _, bad := range []string{"bob", "=10", "bob=", "bob=x", "bob=-1", "bob=1e30"} {
		if _, _, err := parseShare(bad); err == nil {
			t.Errorf("parseShare(%q): expected error", bad)
		}
	}
}

func TestConfigRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HEARTH_TOKEN", "")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Server != defaultServer || cfg.Token != "" {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	cfg.Token = "tok"
	cfg.Household = "h1"
	if err := saveConfig(cfg); err != nil {
		t.Fatalf("saveConfig failed: %v", err)
	}

	got, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if got != cfg {
		t.Errorf("expected %+v, got %+v", cfg, got)
	}

	t.Setenv("HEARTH_TOKEN", "from-env")
	got, err = loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if got.Token != "from-env" {
		t.Errorf("expected HEARTH_TOKEN to win, got %q", got.Token)
	}
}

func TestDescribe(t *testing.T) {
	withDetail := apiconnect.NewError(connect.CodeAlreadyExists, errors.New("x"), apiconnect.ErrorDetail{
		Kind: "state", Code: "CONFLICT", Message: "an open settlement already exists",
	})
	if got := describe(withDetail).Error(); got != "CONFLICT: an open settlement already exists" {
		t.Errorf("unexpected message %q", got)
	}

	plain := connect.NewError(connect.CodeUnavailable, errors.New("connection refused"))
	if got := describe(plain).Error(); got != "unavailable: connection refused" {
		t.Errorf("unexpected message %q", got)
	}
}
