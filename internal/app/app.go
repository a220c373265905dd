// Package app initializes every component. app.go is the assembly
// point: DB pool, repositories, services, handlers, the bot and the
// job scheduler.
package app

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/joelcarspotz/carfigures/internal/bot"
	"github.com/joelcarspotz/carfigures/internal/bot/middleware"
	"github.com/joelcarspotz/carfigures/internal/config"
	"github.com/joelcarspotz/carfigures/internal/db/postgres"
	"github.com/joelcarspotz/carfigures/internal/features/blackjack"
	"github.com/joelcarspotz/carfigures/internal/features/casino"
	"github.com/joelcarspotz/carfigures/internal/features/economy"
	"github.com/joelcarspotz/carfigures/internal/features/garage"
	"github.com/joelcarspotz/carfigures/internal/features/operator"
	"github.com/joelcarspotz/carfigures/internal/features/packs"
	"github.com/joelcarspotz/carfigures/internal/features/players"
	"github.com/joelcarspotz/carfigures/internal/features/spawn"
	"github.com/joelcarspotz/carfigures/internal/jobs"
	"github.com/joelcarspotz/carfigures/internal/random"
)

// App holds every long-lived component.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	Limiter   *middleware.RateLimiter
	Session   *discordgo.Session
}

// New builds the application. Initialization order matters: components
// depend on the ones built before them.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Database ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("migrations failed: %w", err)
	}

	// === 2. Discord session ===
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("discord session failed: %w", err)
	}

	// === 3. Repositories ===
	playersRepo := players.NewRepository(pool)
	economyRepo := economy.NewRepository(pool)
	garageRepo := garage.NewRepository(pool)
	packsRepo := packs.NewRepository(pool)
	casinoRepo := casino.NewRepository(pool)
	operatorRepo := operator.NewRepository(pool)

	// === 4. Services ===
	rng := random.New()
	playersService := players.NewService(playersRepo)
	economyService := economy.NewService(economyRepo, cfg)
	garageService := garage.NewService(garageRepo)
	spawnService := spawn.NewService(garageService, cfg, rng)
	packsService := packs.NewService(packsRepo, packs.NewResolver(random.New()), economyService, garageService, playersService)
	casinoService := casino.NewService(casinoRepo, economyService, cfg, random.New())
	blackjackService := blackjack.NewService(blackjack.NewRegistry(), economyService, casinoService, cfg, random.New())
	operatorService := operator.NewService(operatorRepo, cfg)

	// === 5. Handlers ===
	tracker := spawn.NewTracker(cfg.SpawnMessageThreshold, cfg.SpawnMinMembers, cfg.SpawnCooldown)
	handlers := bot.Handlers{
		Economy:   economy.NewHandler(economyService, session),
		Garage:    garage.NewHandler(garageService, session),
		Spawn:     spawn.NewHandler(spawnService, tracker, economyService, playersService, session),
		Packs:     packs.NewHandler(packsService, session),
		Casino:    casino.NewHandler(casinoService, session),
		Blackjack: blackjack.NewHandler(blackjackService, casinoService, session),
		Operator:  operator.NewHandler(operatorService, economyService, packsService, session),
	}

	// === 6. Bot ===
	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	b := bot.New(session, cfg, limiter, playersService, handlers)

	// === 7. Job scheduler ===
	scheduler, err := jobs.NewScheduler(packsService)
	if err != nil {
		return nil, fmt.Errorf("scheduler setup failed: %w", err)
	}

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		Limiter:   limiter,
		Session:   session,
	}, nil
}

// runMigrations applies every SQL migration in order.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.InitMigrations(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Players},
		{2, migration002Economy},
		{3, migration003Garage},
		{4, migration004Packs},
		{5, migration005Casino},
		{6, migration006Operator},
		{7, migration007Seed},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		log.Infof("Migration %d applied", m.version)
	}

	return nil
}

// SQL migrations are embedded so the binary deploys on its own.

var migration001Players = `
CREATE TABLE IF NOT EXISTS players (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(32) UNIQUE NOT NULL,
    username VARCHAR(255),
    cars_caught INTEGER DEFAULT 0,
    packs_opened INTEGER DEFAULT 0,
    total_coins_earned BIGINT DEFAULT 0,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_players_user_id ON players(user_id);
`

var migration002Economy = `
CREATE TABLE IF NOT EXISTS balances (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(32) UNIQUE NOT NULL,
    balance BIGINT DEFAULT 0,
    lifetime_earned BIGINT DEFAULT 0,
    lifetime_spent BIGINT DEFAULT 0,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    from_user_id VARCHAR(32),
    to_user_id VARCHAR(32),
    amount BIGINT NOT NULL,
    transaction_type VARCHAR(50) NOT NULL,
    description TEXT,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transactions_from_user ON transactions(from_user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_to_user ON transactions(to_user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at DESC);
CREATE TABLE IF NOT EXISTS daily_claims (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(32) NOT NULL,
    claim_date DATE NOT NULL,
    amount_claimed BIGINT NOT NULL,
    streak_count INTEGER DEFAULT 1,
    created_at TIMESTAMP DEFAULT NOW(),
    UNIQUE (user_id, claim_date)
);
`

var migration003Garage = `
CREATE TABLE IF NOT EXISTS cars (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    model VARCHAR(255) NOT NULL,
    year INTEGER NOT NULL,
    horsepower INTEGER DEFAULT 0,
    weight INTEGER DEFAULT 0,
    rarity DOUBLE PRECISION NOT NULL,
    car_type VARCHAR(64) DEFAULT 'sedan',
    is_exclusive BOOLEAN DEFAULT FALSE,
    image_url TEXT,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_cars_rarity ON cars(rarity);
CREATE INDEX IF NOT EXISTS idx_cars_name ON cars(name);
CREATE TABLE IF NOT EXISTS owned_cars (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(32) NOT NULL,
    car_id BIGINT NOT NULL REFERENCES cars(id),
    caught_at TIMESTAMP DEFAULT NOW(),
    catch_bonus BIGINT DEFAULT 0,
    is_shiny BOOLEAN DEFAULT FALSE,
    is_favorite BOOLEAN DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_owned_cars_user_id ON owned_cars(user_id);
`

var migration004Packs = `
CREATE TABLE IF NOT EXISTS packs (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    description TEXT,
    price BIGINT NOT NULL,
    guaranteed_cars INTEGER NOT NULL DEFAULT 3,
    chance_legendary DOUBLE PRECISION DEFAULT 0,
    chance_epic DOUBLE PRECISION DEFAULT 0,
    chance_rare DOUBLE PRECISION DEFAULT 0,
    is_active BOOLEAN DEFAULT TRUE,
    available_from TIMESTAMP,
    available_until TIMESTAMP,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS pack_entries (
    id BIGSERIAL PRIMARY KEY,
    pack_id BIGINT NOT NULL REFERENCES packs(id) ON DELETE CASCADE,
    car_id BIGINT NOT NULL REFERENCES cars(id),
    drop_weight DOUBLE PRECISION NOT NULL DEFAULT 1,
    UNIQUE (pack_id, car_id)
);
CREATE INDEX IF NOT EXISTS idx_pack_entries_pack_id ON pack_entries(pack_id);
CREATE TABLE IF NOT EXISTS user_packs (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(32) NOT NULL,
    pack_id BIGINT NOT NULL REFERENCES packs(id),
    purchased_at TIMESTAMP DEFAULT NOW(),
    opened_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_user_packs_user_id ON user_packs(user_id);
`

var migration005Casino = `
CREATE TABLE IF NOT EXISTS casino_games (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(32) NOT NULL,
    game VARCHAR(50) NOT NULL,
    bet BIGINT NOT NULL,
    payout BIGINT DEFAULT 0,
    detail TEXT,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_casino_games_user_id ON casino_games(user_id);
CREATE TABLE IF NOT EXISTS casino_stats (
    user_id VARCHAR(32) PRIMARY KEY,
    games_played BIGINT DEFAULT 0,
    total_wagered BIGINT DEFAULT 0,
    total_won BIGINT DEFAULT 0,
    biggest_win BIGINT DEFAULT 0,
    slots_played BIGINT DEFAULT 0,
    flips_played BIGINT DEFAULT 0,
    dice_played BIGINT DEFAULT 0,
    spins_played BIGINT DEFAULT 0,
    blackjack_played BIGINT DEFAULT 0
);
`

var migration006Operator = `
CREATE TABLE IF NOT EXISTS operator_sessions (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(32) NOT NULL,
    session_token VARCHAR(255) UNIQUE,
    authenticated_at TIMESTAMP DEFAULT NOW(),
    expires_at TIMESTAMP,
    last_activity TIMESTAMP DEFAULT NOW(),
    is_active BOOLEAN DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS idx_operator_sessions_user_id ON operator_sessions(user_id);
CREATE TABLE IF NOT EXISTS operator_login_attempts (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(32) NOT NULL,
    attempt_time TIMESTAMP DEFAULT NOW(),
    success BOOLEAN DEFAULT FALSE
);
`

// A small starter catalog and one pack so a fresh install is playable.
var migration007Seed = `
INSERT INTO cars (name, model, year, horsepower, weight, rarity, car_type) VALUES
    ('Civic', 'Type R', 2023, 315, 1430, 8.0, 'hatchback'),
    ('Golf', 'GTI', 2022, 241, 1390, 8.5, 'hatchback'),
    ('Mustang', 'GT', 2024, 480, 1750, 6.0, 'muscle'),
    ('Supra', 'MK5', 2023, 382, 1540, 4.5, 'sports'),
    ('911', 'Carrera S', 2023, 443, 1565, 3.0, 'sports'),
    ('R8', 'V10 Performance', 2022, 602, 1670, 1.8, 'supercar'),
    ('Aventador', 'SVJ', 2021, 759, 1525, 0.9, 'supercar'),
    ('F40', 'Classic', 1990, 471, 1100, 0.4, 'legend')
ON CONFLICT DO NOTHING;

INSERT INTO packs (name, description, price, guaranteed_cars, chance_legendary, chance_epic, chance_rare)
SELECT 'Starter Pack', 'Three cars to get your garage going', 500, 3, 1.0, 4.0, 15.0
WHERE NOT EXISTS (SELECT 1 FROM packs WHERE name = 'Starter Pack');

INSERT INTO pack_entries (pack_id, car_id, drop_weight)
SELECT p.id, c.id, GREATEST(c.rarity, 0.5)
FROM packs p, cars c
WHERE p.name = 'Starter Pack'
ON CONFLICT DO NOTHING;
`
