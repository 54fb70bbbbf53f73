package config

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"LISTEN_ADDR", "DATABASE_URL", "CORS_ORIGINS", "WEATHER_API_URL", "WEATHER_API_KEY",
		"WEATHER_TIMEOUT_SECONDS", "WEATHER_PREFETCH_SECONDS", "WEATHER_PREFETCH_DAYS", "TICKET_SECRET"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":8080" || cfg.DatabaseURL != "sqlite://meals.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.WeatherTimeout != 10*time.Second || cfg.PrefetchInterval != 0 || cfg.PrefetchDays != 3 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("origins = %v", cfg.CORSOrigins)
	}
	if cfg.TicketsEnabled() {
		t.Fatal("tickets enabled without a secret")
	}
}

func TestInvalidNumber(t *testing.T) {
	t.Setenv("WEATHER_PREFETCH_SECONDS", "soon")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error")
	}
}

func TestTicketSecretFromFile(t *testing.T) {
	secret := bytes.Repeat([]byte{7}, 32)
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte(base64.StdEncoding.EncodeToString(secret)+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TICKET_SECRET", path)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.TicketHashKey) != 64 || len(cfg.TicketBlockKey) != 32 {
		t.Fatalf("key sizes = %d, %d", len(cfg.TicketHashKey), len(cfg.TicketBlockKey))
	}

	h, b, _ := DeriveTicketKeys(secret)
	if !bytes.Equal(h, cfg.TicketHashKey) || !bytes.Equal(b, cfg.TicketBlockKey) {
		t.Fatal("derivation is not deterministic")
	}
}

func TestTicketSecretTooShort(t *testing.T) {
	t.Setenv("TICKET_SECRET", base64.StdEncoding.EncodeToString([]byte("short")))
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error")
	}
}
