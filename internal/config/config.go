package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config represents application configuration
type Config struct {
	BankName         string
	AuditThreshold   decimal.Decimal
	SeedDemoAccounts bool

	ServerAddr     string
	RequestTimeout time.Duration

	// DatabaseURL selects the postgres audit store; empty keeps it in memory.
	DatabaseURL string

	// KafkaBrokers enables TransferFlagged publishing when not empty.
	KafkaBrokers []string
	KafkaTopic   string

	LogLevel  string
	LogFormat string
	LogDev    bool
}

var (
	ErrInvalidThreshold = errors.New("AUDIT_THRESHOLD must be a non-negative decimal")
	ErrInvalidTimeout   = errors.New("REQUEST_TIMEOUT must be a positive duration")
	ErrMissingBankName  = errors.New("BANK_NAME must not be empty")
)

// Load reads configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the environment only.
func FromEnv() (*Config, error) {
	threshold, err := decimal.NewFromString(getEnvOrDefault("AUDIT_THRESHOLD", "1000"))
	if err != nil || threshold.IsNegative() {
		return nil, ErrInvalidThreshold
	}

	timeout, err := time.ParseDuration(getEnvOrDefault("REQUEST_TIMEOUT", "5s"))
	if err != nil || timeout <= 0 {
		return nil, ErrInvalidTimeout
	}

	seed, err := getEnvBool("SEED_DEMO_ACCOUNTS", false)
	if err != nil {
		return nil, err
	}
	logDev, err := getEnvBool("LOG_DEV", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BankName:         strings.TrimSpace(getEnvOrDefault("BANK_NAME", "Bradesco")),
		AuditThreshold:   threshold,
		SeedDemoAccounts: seed,
		ServerAddr:       getEnvOrDefault("SERVER_ADDR", ":8080"),
		RequestTimeout:   timeout,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:       getEnvOrDefault("KAFKA_TOPIC", "transfer_flagged"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        getEnvOrDefault("LOG_FORMAT", "json"),
		LogDev:           logDev,
	}

	if cfg.BankName == "" {
		return nil, ErrMissingBankName
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
