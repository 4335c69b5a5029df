package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TWILIO_VERIFY_SID", "VA123")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.WagerPolicy != WagerPolicySingle {
		t.Errorf("expected single wager policy, got %q", cfg.App.WagerPolicy)
	}
	if cfg.Realtime.Source != RealtimeSourcePostgres {
		t.Errorf("expected postgres realtime source, got %q", cfg.Realtime.Source)
	}
	if cfg.App.SessionTTL != 30*24*time.Hour {
		t.Errorf("unexpected session ttl %s", cfg.App.SessionTTL)
	}
	if !strings.HasPrefix(cfg.GetDSN(), "postgres://postgres:@localhost:5432/monkeybets") {
		t.Errorf("unexpected dsn %q", cfg.GetDSN())
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TWILIO_ACCOUNT_SID", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without Twilio credentials")
	}
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WAGER_POLICY", "sometimes")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown wager policy")
	}
}

func TestSQLiteDefaultsToLocalRealtime(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("WAGER_POLICY", "MULTIPLE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Realtime.Source != RealtimeSourceLocal {
		t.Errorf("expected local realtime source, got %q", cfg.Realtime.Source)
	}
	if cfg.App.WagerPolicy != WagerPolicyMultiple {
		t.Errorf("expected multiple policy, got %q", cfg.App.WagerPolicy)
	}
	if cfg.GetDSN() != "monkeybets.db" {
		t.Errorf("unexpected sqlite dsn %q", cfg.GetDSN())
	}

	t.Setenv("REALTIME_SOURCE", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for postgres realtime on sqlite")
	}
}
