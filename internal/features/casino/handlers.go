// Package casino — handlers.go turns the casino commands into replies.
package casino

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/joelcarspotz/carfigures/internal/common"
)

// Handler handles casino commands.
type Handler struct {
	service *Service
	session *discordgo.Session
}

// NewHandler creates a casino handler.
func NewHandler(service *Service, session *discordgo.Session) *Handler {
	return &Handler{service: service, session: session}
}

// parseBet reads the bet argument and maps the common failures to a
// usage reply. Returns -1 when the handler already replied.
func (h *Handler) parseBet(channelID, game, arg string) int64 {
	bet, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || bet <= 0 {
		h.sendText(channelID, "❌ Bet must be a positive number")
		return -1
	}
	return bet
}

func (h *Handler) replyBetError(channelID, game string, err error) bool {
	switch {
	case errors.Is(err, common.ErrCasinoDisabled):
		h.sendText(channelID, "🚧 The casino is temporarily closed")
	case errors.Is(err, common.ErrBetOutOfRange):
		minBet, maxBet := h.service.BetBounds(game)
		h.sendText(channelID, fmt.Sprintf("❌ Bets on %s run from %s to %s",
			game, common.FormatCoins(minBet), common.FormatCoins(maxBet)))
	case errors.Is(err, common.ErrInsufficientBalance):
		h.sendText(channelID, "❌ You don't have enough coins for that bet")
	case errors.Is(err, common.ErrInvalidGuess):
		// The caller replies with its own usage line.
		return false
	case err != nil:
		log.WithError(err).WithField("game", game).Error("casino round failed")
		h.sendText(channelID, "❌ Something went wrong, the round was not played")
	default:
		return false
	}
	return true
}

// HandleSlots handles !slots <bet>.
func (h *Handler) HandleSlots(ctx context.Context, channelID, userID string, args []string) {
	if len(args) < 1 {
		h.sendText(channelID, "Usage: !slots <bet>")
		return
	}
	bet := h.parseBet(channelID, GameSlots, args[0])
	if bet < 0 {
		return
	}

	res, lucky, err := h.service.Slots(ctx, userID, bet)
	if h.replyBetError(channelID, GameSlots, err) {
		return
	}

	reels := strings.Join(res.Reels[:], " | ")
	embed := &discordgo.MessageEmbed{
		Title:       "🎰 Slots",
		Description: fmt.Sprintf("**[ %s ]**", reels),
	}
	switch {
	case res.Payout > 0:
		embed.Color = 0x2ecc71
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Result", Value: fmt.Sprintf("%s match! You won **%s**", res.Matched, common.FormatCoins(res.Payout))},
		}
	default:
		embed.Color = 0xe74c3c
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Result", Value: fmt.Sprintf("No match. You lost %s", common.FormatCoins(bet))},
		}
	}
	if lucky {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "🍀 Lucky game of the day: +10% winnings!"}
	}
	h.sendEmbed(channelID, embed)
}

// HandleCoinflip handles !coinflip <bet> <heads|tails>.
func (h *Handler) HandleCoinflip(ctx context.Context, channelID, userID string, args []string) {
	if len(args) < 2 {
		h.sendText(channelID, "Usage: !coinflip <bet> <heads|tails>")
		return
	}
	bet := h.parseBet(channelID, GameCoinflip, args[0])
	if bet < 0 {
		return
	}

	res, lucky, err := h.service.Coinflip(ctx, userID, bet, args[1])
	if err != nil && !h.replyBetError(channelID, GameCoinflip, err) {
		h.sendText(channelID, "Usage: !coinflip <bet> <heads|tails>")
		return
	}
	if err != nil {
		return
	}

	h.sendResult(channelID, fmt.Sprintf("🪙 The coin landed on **%s**!", res.Side), res.Won, bet, res.Payout, lucky)
}

// HandleDice handles !dice <bet> <1-6>.
func (h *Handler) HandleDice(ctx context.Context, channelID, userID string, args []string) {
	if len(args) < 2 {
		h.sendText(channelID, "Usage: !dice <bet> <1-6>")
		return
	}
	bet := h.parseBet(channelID, GameDice, args[0])
	if bet < 0 {
		return
	}
	guess, convErr := strconv.Atoi(args[1])
	if convErr != nil {
		h.sendText(channelID, "Usage: !dice <bet> <1-6>")
		return
	}

	res, lucky, err := h.service.Dice(ctx, userID, bet, guess)
	if err != nil && !h.replyBetError(channelID, GameDice, err) {
		h.sendText(channelID, "❌ Guess a number between 1 and 6")
		return
	}
	if err != nil {
		return
	}

	h.sendResult(channelID, fmt.Sprintf("🎲 The die shows **%d**!", res.Rolled), res.Won, bet, res.Payout, lucky)
}

// HandleRoulette handles !roulette <bet> <call>.
func (h *Handler) HandleRoulette(ctx context.Context, channelID, userID string, args []string) {
	if len(args) < 2 {
		h.sendText(channelID, "Usage: !roulette <bet> <number|red|black|odd|even|low|high>")
		return
	}
	bet := h.parseBet(channelID, GameRoulette, args[0])
	if bet < 0 {
		return
	}

	res, lucky, err := h.service.Roulette(ctx, userID, bet, args[1])
	if err != nil && !h.replyBetError(channelID, GameRoulette, err) {
		h.sendText(channelID, "❌ Call a number 0-36, red/black, odd/even or low/high")
		return
	}
	if err != nil {
		return
	}

	h.sendResult(channelID,
		fmt.Sprintf("🎡 The ball landed on **%d %s**!", res.Number, res.Color),
		res.Won, bet, res.Payout, lucky)
}

// HandleStats handles !casinostats.
func (h *Handler) HandleStats(ctx context.Context, channelID, userID, username string) {
	stats, err := h.service.Stats(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("casino stats failed")
		h.sendText(channelID, "❌ Could not read your stats")
		return
	}
	if stats == nil {
		h.sendText(channelID, "🎰 You haven't gambled yet. The house is waiting!")
		return
	}

	profit := stats.TotalWon - stats.TotalWagered
	h.sendEmbed(channelID, &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎰 %s's Casino Record", username),
		Color: 0x8e44ad,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Games Played", Value: common.FormatNumber(stats.GamesPlayed), Inline: true},
			{Name: "Total Wagered", Value: common.FormatCoins(stats.TotalWagered), Inline: true},
			{Name: "Total Won", Value: common.FormatCoins(stats.TotalWon), Inline: true},
			{Name: "Biggest Win", Value: common.FormatCoins(stats.BiggestWin), Inline: true},
			{Name: "Net Profit", Value: common.FormatSigned(profit), Inline: true},
			{Name: "Rounds", Value: fmt.Sprintf("🎰 %d • 🪙 %d • 🎲 %d • 🎡 %d • 🃏 %d",
				stats.SlotsPlayed, stats.FlipsPlayed, stats.DicePlayed, stats.SpinsPlayed, stats.BlackjackPlayed), Inline: false},
		},
	})
}

// HandleLeaderboard handles !casinolb.
func (h *Handler) HandleLeaderboard(ctx context.Context, channelID string) {
	entries, err := h.service.Leaderboard(ctx, 10)
	if err != nil {
		log.WithError(err).Error("casino leaderboard failed")
		h.sendText(channelID, "❌ Could not read the leaderboard")
		return
	}
	if len(entries) == 0 {
		h.sendText(channelID, "🎰 Nobody has won anything yet!")
		return
	}

	var sb strings.Builder
	for i, e := range entries {
		name := e.Username
		if name == "" {
			name = "User " + e.UserID
		}
		sb.WriteString(fmt.Sprintf("%d. **%s** — won %s (net %s)\n",
			i+1, name, common.FormatCoins(e.TotalWon), common.FormatSigned(e.Profit)))
	}

	h.sendEmbed(channelID, &discordgo.MessageEmbed{
		Title:       "🏆 Casino Leaderboard",
		Description: sb.String(),
		Color:       0x8e44ad,
		Footer:      &discordgo.MessageEmbedFooter{Text: "🍀 Lucky game today: " + h.service.LuckyGameToday()},
	})
}

func (h *Handler) sendResult(channelID, headline string, won bool, bet, payout int64, lucky bool) {
	embed := &discordgo.MessageEmbed{Description: headline}
	if won {
		embed.Color = 0x2ecc71
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Result", Value: "You won **" + common.FormatCoins(payout) + "**!"},
		}
	} else {
		embed.Color = 0xe74c3c
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Result", Value: "You lost " + common.FormatCoins(bet)},
		}
	}
	if lucky {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "🍀 Lucky game of the day: +10% winnings!"}
	}
	h.sendEmbed(channelID, embed)
}

func (h *Handler) sendText(channelID, text string) {
	if _, err := h.session.ChannelMessageSend(channelID, text); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Error("failed to send message")
	}
}

func (h *Handler) sendEmbed(channelID string, embed *discordgo.MessageEmbed) {
	if _, err := h.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Error("failed to send embed")
	}
}
