package config

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/hkdf"
)

type Config struct {
	ListenAddr  string
	DatabaseURL string
	CORSOrigins []string

	// weather
	WeatherAPIURL    string
	WeatherAPIKey    string
	WeatherTimeout   time.Duration
	PrefetchInterval time.Duration // 0 disables the prefetcher
	PrefetchDays     int

	// check-in tickets; both nil when TICKET_SECRET is unset
	TicketHashKey  []byte
	TicketBlockKey []byte
}

// FromEnv reads configuration from the environment, after loading a .env
// file from the working directory if one exists.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:   getenv("DATABASE_URL", "sqlite://meals.db"),
		CORSOrigins:   splitCSV(getenv("CORS_ORIGINS", "*")),
		WeatherAPIURL: getenv("WEATHER_API_URL", "https://api.openweathermap.org/data/2.5"),
		WeatherAPIKey: os.Getenv("WEATHER_API_KEY"),
	}

	timeoutSec, err := strconv.Atoi(getenv("WEATHER_TIMEOUT_SECONDS", "10"))
	if err != nil || timeoutSec < 1 {
		return Config{}, fmt.Errorf("invalid WEATHER_TIMEOUT_SECONDS")
	}
	cfg.WeatherTimeout = time.Duration(timeoutSec) * time.Second

	prefetchSec, err := strconv.Atoi(getenv("WEATHER_PREFETCH_SECONDS", "0"))
	if err != nil || prefetchSec < 0 {
		return Config{}, fmt.Errorf("invalid WEATHER_PREFETCH_SECONDS")
	}
	cfg.PrefetchInterval = time.Duration(prefetchSec) * time.Second

	cfg.PrefetchDays, err = strconv.Atoi(getenv("WEATHER_PREFETCH_DAYS", "3"))
	if err != nil || cfg.PrefetchDays < 0 {
		return Config{}, fmt.Errorf("invalid WEATHER_PREFETCH_DAYS")
	}

	if secret := os.Getenv("TICKET_SECRET"); secret != "" {
		raw, err := decodeB64(secret)
		if err != nil {
			return Config{}, fmt.Errorf("TICKET_SECRET: %w", err)
		}
		if len(raw) < 32 {
			return Config{}, fmt.Errorf("TICKET_SECRET must decode to at least 32 bytes")
		}
		cfg.TicketHashKey, cfg.TicketBlockKey, err = DeriveTicketKeys(raw)
		if err != nil {
			return Config{}, fmt.Errorf("TICKET_SECRET: %w", err)
		}
	}

	return cfg, nil
}

// TicketsEnabled reports whether ticket keys are configured.
func (c Config) TicketsEnabled() bool {
	return len(c.TicketHashKey) > 0 && len(c.TicketBlockKey) > 0
}

// DeriveTicketKeys expands secret into a 64 byte HMAC key and a 32 byte
// AES key with HKDF-SHA256.
func DeriveTicketKeys(secret []byte) (hashKey, blockKey []byte, err error) {
	r := hkdf.New(sha256.New, secret, nil, []byte("mealsd ticket keys v1"))
	hashKey = make([]byte, 64)
	blockKey = make([]byte, 32)
	if _, err := io.ReadFull(r, hashKey); err != nil {
		return nil, nil, err
	}
	if _, err := io.ReadFull(r, blockKey); err != nil {
		return nil, nil, err
	}
	return hashKey, blockKey, nil
}

func decodeB64(s string) ([]byte, error) {
	b, err := os.ReadFile(s)
	if err == nil {
		// allow pointing to file path for k8s secret mounts
		s = string(b)
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
