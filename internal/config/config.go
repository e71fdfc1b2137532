package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Server
	ServerPort string
	BaseURL    string

	// Storage
	// DatabaseURLが空の場合はインメモリストアで動作する。
	DatabaseURL string

	// Catalog
	// CatalogPathが指定された場合は埋め込みシードの代わりにそのJSONを読み込む。
	CatalogPath string

	// Session Log
	SessionLogCapacity int

	// Rate Limit（req/min/user）
	RateLimitGeneral  int
	RateLimitPurchase int

	// News Importer
	NewsFeedURLs       []string
	NewsFetchInterval  time.Duration
	FetchTimeout       time.Duration
	FetchMaxSize       int64
	FetchMaxConcurrent int

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// すべての項目にデフォルト値があるため、未設定の環境変数はエラーにしない。
// 不正なセッションログ容量のみエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "https://rightsguardian.app")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.CatalogPath = os.Getenv("CATALOG_PATH")

	cfg.SessionLogCapacity = getEnvInt("SESSION_LOG_CAPACITY", 100)
	if cfg.SessionLogCapacity <= 0 {
		return nil, fmt.Errorf("SESSION_LOG_CAPACITY must be positive, got %d", cfg.SessionLogCapacity)
	}

	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitPurchase = getEnvInt("RATE_LIMIT_PURCHASE", 10)

	cfg.NewsFeedURLs = getEnvStringSlice("NEWS_FEED_URLS")
	cfg.NewsFetchInterval = getEnvDuration("NEWS_FETCH_INTERVAL", 30*time.Minute)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.FetchMaxSize = getEnvInt64("FETCH_MAX_SIZE", 5242880)
	cfg.FetchMaxConcurrent = getEnvInt("FETCH_MAX_CONCURRENT", 4)

	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

// getEnvStringSlice はカンマ区切りの環境変数をスライスとして読み込む。
// 空要素は除去する。
func getEnvStringSlice(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
