// Package blackjack — handlers.go turns !blackjack, !hit, !stand and
// !double into replies.
package blackjack

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/joelcarspotz/carfigures/internal/common"
	"github.com/joelcarspotz/carfigures/internal/features/casino"
)

// Handler handles blackjack commands.
type Handler struct {
	service *Service
	casino  *casino.Service
	session *discordgo.Session
}

// NewHandler creates a blackjack handler and wires the timeout
// announcement back into the channel the game started in.
func NewHandler(service *Service, casinoService *casino.Service, session *discordgo.Session) *Handler {
	h := &Handler{service: service, casino: casinoService, session: session}
	service.OnTimeout = h.announceTimeout
	return h
}

// HandleBlackjack handles !blackjack <bet>.
func (h *Handler) HandleBlackjack(ctx context.Context, channelID, userID, username string, args []string) {
	if len(args) < 1 {
		h.sendText(channelID, "Usage: !blackjack <bet>")
		return
	}
	bet, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || bet <= 0 {
		h.sendText(channelID, "❌ Bet must be a positive number")
		return
	}

	_, res, err := h.service.Start(ctx, userID, channelID, bet)
	switch {
	case errors.Is(err, common.ErrCasinoDisabled):
		h.sendText(channelID, "🚧 The casino is temporarily closed")
		return
	case errors.Is(err, common.ErrBetOutOfRange):
		minBet, maxBet := h.casino.BetBounds(casino.GameBlackjack)
		h.sendText(channelID, fmt.Sprintf("❌ Blackjack bets run from %s to %s",
			common.FormatCoins(minBet), common.FormatCoins(maxBet)))
		return
	case errors.Is(err, common.ErrGameInProgress):
		h.sendText(channelID, "❌ Finish your current game first (!hit, !stand or !double)")
		return
	case errors.Is(err, common.ErrInsufficientBalance):
		h.sendText(channelID, "❌ You don't have enough coins for that bet")
		return
	case err != nil:
		log.WithError(err).WithField("user_id", userID).Error("blackjack start failed")
		h.sendText(channelID, "❌ Could not start the game")
		return
	}

	if res.Finished {
		h.sendEmbed(channelID, h.resultEmbed(username, res))
		return
	}
	h.sendEmbed(channelID, h.tableEmbed(username, res))
}

// HandleHit handles !hit.
func (h *Handler) HandleHit(ctx context.Context, channelID, userID, username string) {
	res, err := h.service.Hit(ctx, userID)
	if h.replyGameError(channelID, err) {
		return
	}

	if res.Finished {
		h.sendEmbed(channelID, h.resultEmbed(username, res))
		return
	}
	h.sendEmbed(channelID, h.tableEmbed(username, res))
}

// HandleStand handles !stand.
func (h *Handler) HandleStand(ctx context.Context, channelID, userID, username string) {
	res, err := h.service.Stand(ctx, userID)
	if h.replyGameError(channelID, err) {
		return
	}
	h.sendEmbed(channelID, h.resultEmbed(username, res))
}

// HandleDouble handles !double.
func (h *Handler) HandleDouble(ctx context.Context, channelID, userID, username string) {
	res, err := h.service.DoubleDown(ctx, userID)
	if errors.Is(err, ErrInsufficientFunds) {
		h.sendText(channelID, "❌ You can't cover the second wager")
		return
	}
	if errors.Is(err, ErrAlreadyDoubled) {
		h.sendText(channelID, "❌ You already doubled down this game")
		return
	}
	if h.replyGameError(channelID, err) {
		return
	}
	h.sendEmbed(channelID, h.resultEmbed(username, res))
}

func (h *Handler) replyGameError(channelID string, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrGameNotFound), errors.Is(err, ErrGameOver):
		h.sendText(channelID, "❌ You have no game running. Start one with !blackjack <bet>")
	case errors.Is(err, ErrNotYourGame):
		h.sendText(channelID, "❌ That game belongs to someone else")
	default:
		log.WithError(err).Error("blackjack transition failed")
		h.sendText(channelID, "❌ Something went wrong")
	}
	return true
}

// tableEmbed shows a running game: the dealer's hole card stays hidden.
func (h *Handler) tableEmbed(username string, res Result) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🃏 Blackjack",
		Color: 0x2c3e50,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   fmt.Sprintf("%s — %d", username, res.PlayerScore),
				Value:  HandString(res.Player),
				Inline: true,
			},
			{
				Name:   "Dealer",
				Value:  res.Dealer[0].String() + " 🂠",
				Inline: true,
			},
			{
				Name:  "Wager",
				Value: common.FormatCoins(res.Wager),
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "!hit, !stand or !double"},
	}
}

func (h *Handler) resultEmbed(username string, res Result) *discordgo.MessageEmbed {
	var headline string
	var color int
	switch res.Outcome {
	case OutcomeBlackjack:
		headline = fmt.Sprintf("♠️ BLACKJACK! You win **%s**!", common.FormatCoins(res.Payout))
		color = 0xf1c40f
	case OutcomeWin:
		headline = fmt.Sprintf("🎉 You win **%s**!", common.FormatCoins(res.Payout))
		color = 0x2ecc71
	case OutcomePush:
		headline = "🤝 Push. Your wager comes back."
		color = 0x95a5a6
	default:
		headline = fmt.Sprintf("💥 You lose %s.", common.FormatCoins(res.Wager))
		color = 0xe74c3c
	}

	return &discordgo.MessageEmbed{
		Title:       "🃏 Blackjack",
		Description: headline,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   fmt.Sprintf("%s — %d", username, res.PlayerScore),
				Value:  HandString(res.Player),
				Inline: true,
			},
			{
				Name:   fmt.Sprintf("Dealer — %d", res.DealerScore),
				Value:  HandString(res.Dealer),
				Inline: true,
			},
		},
	}
}

func (h *Handler) announceTimeout(settled Settled) {
	h.sendEmbed(settled.ChannelID, &discordgo.MessageEmbed{
		Title:       "🃏 Blackjack — time's up",
		Description: fmt.Sprintf("<@%s> walked away from the table, so the dealer played the hand out.", settled.UserID),
		Color:       0x95a5a6,
		Fields: []*discordgo.MessageEmbedField{
			{Name: fmt.Sprintf("Player — %d", settled.Result.PlayerScore), Value: HandString(settled.Result.Player), Inline: true},
			{Name: fmt.Sprintf("Dealer — %d", settled.Result.DealerScore), Value: HandString(settled.Result.Dealer), Inline: true},
			{Name: "Outcome", Value: string(settled.Result.Outcome)},
		},
	})
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
