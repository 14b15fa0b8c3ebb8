package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ivanoskov/balance_bot/internal/model"
	"github.com/joho/godotenv"
)

// Публичные RPC без API-ключей; второй URL - резервный
var (
	DefaultEthereum = model.Network{
		Name:      "Ethereum Mainnet",
		Symbol:    "ETH",
		Decimals:  18,
		Endpoints: []string{"https://ethereum.publicnode.com", "https://rpc.ankr.com/eth"},
	}
	DefaultBase = model.Network{
		Name:      "Base Network",
		Symbol:    "ETH",
		Decimals:  18,
		Endpoints: []string{"https://base.publicnode.com", "https://mainnet.base.org"},
	}
)

type Config struct {
	TelegramToken   string
	LogLevel        string
	HTTPAddr        string
	PublicURL       string
	RPCTimeout      time.Duration
	RPCRateLimit    float64
	Networks        []model.Network
	StateStore      string
	RedisAddr       string
	SupabaseURL     string
	SupabaseKey     string
	SQLitePath      string
	BalanceCacheTTL time.Duration
	OtelEndpoint    string
	SendChart       bool
}

// EnvSource - источник переменных окружения (в тестах подменяется EnvMap)
type EnvSource interface {
	Lookup(key string) (string, bool)
}

type EnvMap map[string]string

func (e EnvMap) Lookup(key string) (string, bool) {
	value, ok := e[key]
	return value, ok
}

type osEnv struct{}

func (osEnv) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// LoadConfig читает .env (если есть) и переменные окружения
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return Load(osEnv{})
}

func Load(source EnvSource) (*Config, error) {
	if source == nil {
		return nil, errors.New("env source is required")
	}

	rpcTimeout, err := parseDuration(source, "RPC_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration(source, "BALANCE_CACHE_TTL", 0)
	if err != nil {
		return nil, err
	}
	rateLimit, err := parseFloat(source, "RPC_RATE_LIMIT", 0)
	if err != nil {
		return nil, err
	}
	sendChart, err := parseBool(source, "SEND_CHART", true)
	if err != nil {
		return nil, err
	}

	networks := []model.Network{cloneNetwork(DefaultEthereum), cloneNetwork(DefaultBase)}
	if path := get(source, "NETWORKS_FILE", ""); path != "" {
		networks, err = LoadNetworksFile(path)
		if err != nil {
			return nil, err
		}
	}
	if urls := parseList(source, "ETHEREUM_RPC_URLS"); len(urls) > 0 {
		networks[0].Endpoints = urls
	}
	if urls := parseList(source, "BASE_RPC_URLS"); len(urls) > 0 {
		networks[1].Endpoints = urls
	}

	return &Config{
		TelegramToken:   get(source, "TELEGRAM_TOKEN", ""),
		LogLevel:        get(source, "LOG_LEVEL", "info"),
		HTTPAddr:        get(source, "HTTP_ADDR", ":8080"),
		PublicURL:       get(source, "PUBLIC_URL", "localhost"),
		RPCTimeout:      rpcTimeout,
		RPCRateLimit:    rateLimit,
		Networks:        networks,
		StateStore:      strings.ToLower(get(source, "STATE_STORE", "memory")),
		RedisAddr:       get(source, "REDIS_ADDR", ""),
		SupabaseURL:     get(source, "SUPABASE_URL", ""),
		SupabaseKey:     get(source, "SUPABASE_KEY", ""),
		SQLitePath:      get(source, "SQLITE_PATH", "balance_bot.db"),
		BalanceCacheTTL: cacheTTL,
		OtelEndpoint:    get(source, "OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		SendChart:       sendChart,
	}, nil
}

// RequireToken проверяет наличие токена для режимов, где нужен Telegram
func (c *Config) RequireToken() error {
	if strings.TrimSpace(c.TelegramToken) == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}
	return nil
}

func get(source EnvSource, key, defaultValue string) string {
	value, ok := source.Lookup(key)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return defaultValue
	}
	return value
}

func parseDuration(source EnvSource, key string, defaultValue time.Duration) (time.Duration, error) {
	raw := get(source, key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func parseFloat(source EnvSource, key string, defaultValue float64) (float64, error) {
	raw := get(source, key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return value, nil
}

func parseBool(source EnvSource, key string, defaultValue bool) (bool, error) {
	raw := get(source, key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func parseList(source EnvSource, key string) []string {
	raw := get(source, key, "")
	if raw == "" {
		return nil
	}
	var values []string
	for _, item := range strings.Split(raw, ",") {
		if value := strings.TrimSpace(item); value != "" {
			values = append(values, value)
		}
	}
	return values
}

func cloneNetwork(n model.Network) model.Network {
	n.Endpoints = append([]string(nil), n.Endpoints...)
	return n
}
