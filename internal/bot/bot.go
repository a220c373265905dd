// Package bot wires the Discord gateway to the feature handlers: one
// MessageCreate listener, middleware in front, a command router behind.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/joelcarspotz/carfigures/internal/bot/middleware"
	"github.com/joelcarspotz/carfigures/internal/config"
	"github.com/joelcarspotz/carfigures/internal/features/blackjack"
	"github.com/joelcarspotz/carfigures/internal/features/casino"
	"github.com/joelcarspotz/carfigures/internal/features/economy"
	"github.com/joelcarspotz/carfigures/internal/features/garage"
	"github.com/joelcarspotz/carfigures/internal/features/operator"
	"github.com/joelcarspotz/carfigures/internal/features/packs"
	"github.com/joelcarspotz/carfigures/internal/features/players"
	"github.com/joelcarspotz/carfigures/internal/features/spawn"
)

// Handlers bundles every feature's command handler.
type Handlers struct {
	Economy   *economy.Handler
	Garage    *garage.Handler
	Spawn     *spawn.Handler
	Packs     *packs.Handler
	Casino    *casino.Handler
	Blackjack *blackjack.Handler
	Operator  *operator.Handler
}

// Bot owns the gateway session and routes messages.
type Bot struct {
	session  *discordgo.Session
	cfg      *config.Config
	limiter  *middleware.RateLimiter
	players  *players.Service
	handlers Handlers
}

// New creates the bot around an already-configured discordgo session.
func New(session *discordgo.Session, cfg *config.Config, limiter *middleware.RateLimiter, playersService *players.Service, handlers Handlers) *Bot {
	return &Bot{
		session:  session,
		cfg:      cfg,
		limiter:  limiter,
		players:  playersService,
		handlers: handlers,
	}
}

// Start registers the listeners and opens the gateway connection.
func (b *Bot) Start() error {
	b.session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		log.WithField("username", r.User.Username).Info("Bot connected to Discord")
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer middleware.RecoverFromPanic()

	if m.Author == nil || m.Author.Bot {
		return
	}

	middleware.LogMessage(m)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := b.players.EnsurePlayer(ctx, m.Author.ID, m.Author.Username); err != nil {
		log.WithError(err).WithField("user_id", m.Author.ID).Error("player registration failed")
	}

	if !strings.HasPrefix(m.Content, b.cfg.CommandPrefix) {
		// Ordinary chatter feeds the spawner.
		if m.GuildID != "" && b.cfg.FeatureSpawnsEnabled {
			b.handlers.Spawn.OnGuildMessage(ctx, m.GuildID, m.ChannelID, m.Author.ID)
		}
		return
	}

	if !b.limiter.Allow(m.Author.ID) {
		log.WithField("user_id", m.Author.ID).Debug("rate limited")
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, b.cfg.CommandPrefix))
	if len(fields) == 0 {
		return
	}
	command := strings.ToLower(fields[0])
	args := fields[1:]

	b.route(ctx, m, command, args)
}

func (b *Bot) route(ctx context.Context, m *discordgo.MessageCreate, command string, args []string) {
	var (
		channelID = m.ChannelID
		userID    = m.Author.ID
		username  = m.Author.Username
		isDM      = m.GuildID == ""
	)

	switch command {
	// economy
	case "daily":
		b.handlers.Economy.HandleDaily(ctx, channelID, userID, username)
	case "balance", "bal":
		b.handlers.Economy.HandleBalance(ctx, channelID, userID, username)
	case "pay":
		b.handlers.Economy.HandlePay(ctx, channelID, userID, args)
	case "transactions":
		b.handlers.Economy.HandleTransactions(ctx, channelID, userID)
	case "leaderboard", "lb":
		b.handlers.Economy.HandleLeaderboard(ctx, channelID)

	// garage
	case "garage":
		b.handlers.Garage.HandleGarage(ctx, channelID, userID, username)
	case "info":
		b.handlers.Garage.HandleInfo(ctx, channelID, args)

	// spawning
	case "catch":
		if !b.cfg.FeatureSpawnsEnabled {
			return
		}
		b.handlers.Spawn.HandleCatch(ctx, channelID, userID, username, args)

	// packs
	case "shop":
		if !b.cfg.FeaturePacksEnabled {
			return
		}
		b.handlers.Packs.HandleShop(ctx, channelID)
	case "buy":
		if !b.cfg.FeaturePacksEnabled {
			return
		}
		b.handlers.Packs.HandleBuy(ctx, channelID, userID, args)
	case "inventory", "inv":
		if !b.cfg.FeaturePacksEnabled {
			return
		}
		b.handlers.Packs.HandleInventory(ctx, channelID, userID, username)
	case "open":
		if !b.cfg.FeaturePacksEnabled {
			return
		}
		b.handlers.Packs.HandleOpen(ctx, channelID, userID, username, args)

	// casino
	case "slots":
		b.handlers.Casino.HandleSlots(ctx, channelID, userID, args)
	case "coinflip", "flip":
		b.handlers.Casino.HandleCoinflip(ctx, channelID, userID, args)
	case "dice":
		b.handlers.Casino.HandleDice(ctx, channelID, userID, args)
	case "roulette":
		b.handlers.Casino.HandleRoulette(ctx, channelID, userID, args)
	case "casinostats":
		b.handlers.Casino.HandleStats(ctx, channelID, userID, username)
	case "casinolb":
		b.handlers.Casino.HandleLeaderboard(ctx, channelID)

	// blackjack
	case "blackjack", "bj":
		b.handlers.Blackjack.HandleBlackjack(ctx, channelID, userID, username, args)
	case "hit":
		b.handlers.Blackjack.HandleHit(ctx, channelID, userID, username)
	case "stand":
		b.handlers.Blackjack.HandleStand(ctx, channelID, userID, username)
	case "double":
		b.handlers.Blackjack.HandleDouble(ctx, channelID, userID, username)

	// operator
	case "operator":
		b.handlers.Operator.HandleLogin(ctx, channelID, userID, isDM, args)
	case "logout":
		b.handlers.Operator.HandleLogout(ctx, channelID, userID)
	case "grant":
		b.handlers.Operator.HandleGrant(ctx, channelID, userID, args)
	case "packadmin":
		b.handlers.Operator.HandlePackAdmin(ctx, channelID, userID, args)

	case "help":
		b.sendHelp(channelID)
	}
}

func (b *Bot) sendHelp(channelID string) {
	p := b.cfg.CommandPrefix
	help := strings.Join([]string{
		"**🚗 Cars**",
		p + "catch <name> — catch a spawned car",
		p + "garage — your collection",
		p + "info <name> — car details",
		"",
		"**💰 Economy**",
		p + "daily — daily reward (streak bonus!)",
		p + "balance, " + p + "pay <@user> <amount>, " + p + "transactions, " + p + "leaderboard",
		"",
		"**📦 Packs**",
		p + "shop, " + p + "buy <pack>, " + p + "inventory, " + p + "open [pack]",
		"",
		"**🎰 Casino**",
		p + "slots <bet>, " + p + "coinflip <bet> <heads|tails>, " + p + "dice <bet> <1-6>",
		p + "roulette <bet> <call>, " + p + "blackjack <bet> (then " + p + "hit/" + p + "stand/" + p + "double)",
		p + "casinostats, " + p + "casinolb",
	}, "\n")

	if _, err := b.session.ChannelMessageSend(channelID, help); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Error("failed to send help")
	}
}
