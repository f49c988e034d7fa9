package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr   string
	BaseURL      string
	DirectoryURL string
	DatabaseURL  string

	// optional redis-backed directory snapshot cache
	RedisAddr     string
	RedisUsername string
	RedisPassword string
	SnapshotTTL   time.Duration

	CookieHashKey  []byte // base64
	CookieBlockKey []byte // base64
	TokenEncKey    []byte // 32 bytes for AES-256-GCM, base64

	// tokens for the non-UI commands; the web UI stores per-user tokens
	// in postgres instead
	DirectoryToken string
	AdminToken     string

	DevMode bool
}

// FromEnv loads configuration from the environment (and a .env file when one
// is present). Only DIRECTORY_URL is required here; the serve command checks
// its additional requirements via ValidateServe.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:     envDefault("LISTEN_ADDR", ":8080"),
		BaseURL:        envDefault("BASE_URL", "http://localhost:8080"),
		DirectoryURL:   strings.TrimSpace(os.Getenv("DIRECTORY_URL")),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:      strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisUsername:  os.Getenv("REDIS_USERNAME"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		SnapshotTTL:    envDuration("SNAPSHOT_TTL", 30*time.Second),
		DirectoryToken: strings.TrimSpace(os.Getenv("DIRECTORY_TOKEN")),
		AdminToken:     strings.TrimSpace(os.Getenv("ADMIN_TOKEN")),
		DevMode:        strings.TrimSpace(os.Getenv("DEV_MODE")) == "1",
	}
	if cfg.DirectoryURL == "" {
		return cfg, fmt.Errorf("DIRECTORY_URL is required")
	}

	// key material is optional until a command that needs it validates
	cfg.CookieHashKey = optionalB64("COOKIE_HASH_KEY")
	cfg.CookieBlockKey = optionalB64("COOKIE_BLOCK_KEY")
	cfg.TokenEncKey = optionalB64("TOKEN_ENC_KEY")

	return cfg, nil
}

// ValidateServe checks the extra requirements of the web UI: postgres,
// session cookie keys, and the token encryption key.
func (c Config) ValidateServe() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if len(c.CookieHashKey) == 0 || len(c.CookieBlockKey) == 0 {
		return fmt.Errorf("COOKIE_HASH_KEY and COOKIE_BLOCK_KEY are required (base64; run `slotbook keys`)")
	}
	if len(c.TokenEncKey) != 32 {
		return fmt.Errorf("TOKEN_ENC_KEY must decode to 32 bytes (got %d)", len(c.TokenEncKey))
	}
	return nil
}

func envDefault(k, d string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	return v
}

func envDuration(k string, d time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	if parsed, err := time.ParseDuration(v); err == nil {
		return parsed
	}
	return d
}

func optionalB64(k string) []byte {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return nil
	}
	if b, err := base64.StdEncoding.DecodeString(v); err == nil {
		return b
	}
	b, err := base64.RawStdEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	return b
}
