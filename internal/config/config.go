// Package config loads the bot configuration from environment variables.
// envconfig maps the variables onto one Config struct.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds ALL application settings.
type Config struct {
	// --- Discord ---
	DiscordBotToken string `envconfig:"DISCORD_BOT_TOKEN" required:"true"`
	CommandPrefix   string `envconfig:"COMMAND_PREFIX" default:"!"`

	// --- Database ---
	// Inside docker "localhost" is almost always wrong; default to the
	// compose service name and override DB_HOST=localhost for local runs.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"carfigures"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Operator ---
	OperatorPasswordHash string        `envconfig:"OPERATOR_PASSWORD_HASH" required:"true"`
	OperatorSessionTTL   time.Duration `envconfig:"OPERATOR_SESSION_TTL" default:"24h"`

	// --- Spawning ---
	SpawnMessageThreshold int           `envconfig:"SPAWN_MESSAGE_THRESHOLD" default:"25"`
	SpawnMinMembers       int           `envconfig:"SPAWN_MIN_MEMBERS" default:"5"`
	SpawnCooldown         time.Duration `envconfig:"SPAWN_COOLDOWN" default:"3m"`
	CatchRewardBase       int64         `envconfig:"CATCH_REWARD_BASE" default:"50"`
	CatchBonusMin         int64         `envconfig:"CATCH_BONUS_MIN" default:"-10"`
	CatchBonusMax         int64         `envconfig:"CATCH_BONUS_MAX" default:"25"`

	// --- Economy ---
	DailyClaimAmount       int64 `envconfig:"DAILY_CLAIM_AMOUNT" default:"100"`
	EconomyStartingBalance int64 `envconfig:"ECONOMY_STARTING_BALANCE" default:"0"`

	// --- Casino ---
	CasinoMinBet       int64         `envconfig:"CASINO_MIN_BET" default:"10"`
	CasinoSlotsMaxBet  int64         `envconfig:"CASINO_SLOTS_MAX_BET" default:"10000"`
	CasinoFlipMaxBet   int64         `envconfig:"CASINO_FLIP_MAX_BET" default:"5000"`
	CasinoDiceMaxBet   int64         `envconfig:"CASINO_DICE_MAX_BET" default:"2000"`
	CasinoRouletteMax  int64         `envconfig:"CASINO_ROULETTE_MAX_BET" default:"1000"`
	CasinoBlackjackMax int64         `envconfig:"CASINO_BLACKJACK_MAX_BET" default:"5000"`
	BlackjackTimeout   time.Duration `envconfig:"BLACKJACK_TIMEOUT" default:"120s"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Feature Flags ---
	FeatureCasinoEnabled bool `envconfig:"FEATURE_CASINO_ENABLED" default:"true"`
	FeatureSpawnsEnabled bool `envconfig:"FEATURE_SPAWNS_ENABLED" default:"true"`
	FeaturePacksEnabled  bool `envconfig:"FEATURE_PACKS_ENABLED" default:"true"`
}

// DatabaseDSN returns the PostgreSQL connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("invalid DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.SpawnMessageThreshold <= 0 {
		return fmt.Errorf("SPAWN_MESSAGE_THRESHOLD must be > 0")
	}
	if c.CatchBonusMin > c.CatchBonusMax {
		return fmt.Errorf("CATCH_BONUS_MIN must not exceed CATCH_BONUS_MAX")
	}
	if c.CasinoMinBet <= 0 {
		return fmt.Errorf("CASINO_MIN_BET must be > 0")
	}
	if c.BlackjackTimeout <= 0 {
		return fmt.Errorf("BLACKJACK_TIMEOUT must be > 0")
	}
	return nil
}

// Load reads the environment and fills the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
