package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
	Chains   ChainsConfig   `mapstructure:"chains"`
	Fees     FeesConfig     `mapstructure:"fees"`
	Cleanup  CleanupConfig  `mapstructure:"cleanup"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// SecretsConfig configures the secret store.
// Posture "production" refuses to start without a valid key; "development"
// generates a throwaway key and logs loudly.
type SecretsConfig struct {
	AESKey  string `mapstructure:"aes_key"` // 32-byte hex-encoded key for AES-256
	Posture string `mapstructure:"posture"` // production, development
}

// ChainConfig holds per-chain RPC settings. Endpoints are interchangeable;
// the clients fail over between them in order.
type ChainConfig struct {
	Endpoints         []string      `mapstructure:"endpoints"`
	ConfirmationDepth int64         `mapstructure:"confirmation_depth"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	ReceiptWait       time.Duration `mapstructure:"receipt_wait"` // account chains only
	ChainID           int64         `mapstructure:"chain_id"`     // account chains only
	FeeRateSatPerVB   int64         `mapstructure:"fee_rate_sat_per_vb"`
}

type ChainsConfig struct {
	BTC ChainConfig `mapstructure:"btc"`
	LTC ChainConfig `mapstructure:"ltc"`
	ETH ChainConfig `mapstructure:"eth"`
}

// ForSymbol returns the chain config backing a coin symbol.
func (c ChainsConfig) ForSymbol(symbol string) (ChainConfig, bool) {
	switch strings.ToUpper(symbol) {
	case "BTC":
		return c.BTC, true
	case "LTC":
		return c.LTC, true
	case "ETH", "USDT":
		return c.ETH, true
	}
	return ChainConfig{}, false
}

type FeesConfig struct {
	PlatformPercent   float64 `mapstructure:"platform_percent"`
	GasSafetyPercent  int64   `mapstructure:"gas_safety_percent"` // >= 20
	FallbackGasGwei   int64   `mapstructure:"fallback_gas_gwei"`
	PlatformBTCWallet string  `mapstructure:"platform_btc_wallet"`
	PlatformETHWallet string  `mapstructure:"platform_eth_wallet"`
}

// PlatformWallet returns the fee payout address for a coin family.
func (f FeesConfig) PlatformWallet(symbol string) string {
	switch strings.ToUpper(symbol) {
	case "ETH", "USDT":
		return f.PlatformETHWallet
	default:
		return f.PlatformBTCWallet
	}
}

type CleanupConfig struct {
	Interval       time.Duration `mapstructure:"interval"`
	AbandonedAfter time.Duration `mapstructure:"abandoned_after"` // no buyer
	ExpiredAfter   time.Duration `mapstructure:"expired_after"`   // stuck pending
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: ECG_ (Escrow Custody
// Gateway). Nested keys use underscore: ECG_DATABASE_HOST, ECG_SECRETS_AES_KEY.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "escrow_gateway")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "escrow-custody-gateway")
	v.SetDefault("secrets.aes_key", "")
	v.SetDefault("secrets.posture", "production")
	v.SetDefault("chains.btc.endpoints", []string{"https://blockstream.info/api"})
	v.SetDefault("chains.btc.confirmation_depth", 2)
	v.SetDefault("chains.btc.request_timeout", "15s")
	v.SetDefault("chains.btc.fee_rate_sat_per_vb", 12)
	v.SetDefault("chains.ltc.endpoints", []string{"https://litecoinspace.org/api"})
	v.SetDefault("chains.ltc.confirmation_depth", 4)
	v.SetDefault("chains.ltc.request_timeout", "15s")
	v.SetDefault("chains.ltc.fee_rate_sat_per_vb", 2)
	v.SetDefault("chains.eth.endpoints", []string{"https://eth.llamarpc.com"})
	v.SetDefault("chains.eth.confirmation_depth", 6)
	v.SetDefault("chains.eth.request_timeout", "15s")
	v.SetDefault("chains.eth.receipt_wait", "90s")
	v.SetDefault("chains.eth.chain_id", 1)
	v.SetDefault("fees.platform_percent", 1.0)
	v.SetDefault("fees.gas_safety_percent", 20)
	v.SetDefault("fees.fallback_gas_gwei", 40)
	v.SetDefault("fees.platform_btc_wallet", "")
	v.SetDefault("fees.platform_eth_wallet", "")
	v.SetDefault("cleanup.interval", "10m")
	v.SetDefault("cleanup.abandoned_after", "48h")
	v.SetDefault("cleanup.expired_after", "168h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: ECG_DATABASE_HOST -> database.host
	v.SetEnvPrefix("ECG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional; env vars can suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
