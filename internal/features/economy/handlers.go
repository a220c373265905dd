// Package economy — handlers.go turns the !daily, !balance, !pay,
// !transactions and !leaderboard commands into replies.
package economy

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

// Handler handles economy commands.
type Handler struct {
	service *Service
	session *discordgo.Session
}

// NewHandler creates an economy handler.
func NewHandler(service *Service, session *discordgo.Session) *Handler {
	return &Handler{service: service, session: session}
}

// HandleDaily handles !daily.
func (h *Handler) HandleDaily(ctx context.Context, channelID, userID, username string) {
	amount, streak, err := h.service.ClaimDaily(ctx, userID)
	if errors.Is(err, common.ErrAlreadyClaimed) {
		h.sendEmbed(channelID, &discordgo.MessageEmbed{
			Title:       "❌ Already Claimed",
			Description: "You have already claimed your daily reward today!\nCome back tomorrow for more coins.",
			Color:       0xff0000,
		})
		return
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("daily claim failed")
		h.sendText(channelID, "❌ Something went wrong claiming your reward")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "💰 Daily Reward Claimed!",
		Description: fmt.Sprintf("You received **%s**!", common.FormatCoins(amount)),
		Color:       0x00ff00,
	}
	if streak > 1 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "🔥 Streak Bonus",
			Value: fmt.Sprintf("Day %d streak! (+%d%% bonus)", streak, min(streak*5, 50)),
		})
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Claim daily to build up your streak for bonus coins!"}
	h.sendEmbed(channelID, embed)
}

// HandleBalance handles !balance [@user].
func (h *Handler) HandleBalance(ctx context.Context, channelID, userID, username string) {
	balance, err := h.service.GetBalance(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("balance lookup failed")
		h.sendText(channelID, "❌ Could not read your balance")
		return
	}

	h.sendEmbed(channelID, &discordgo.MessageEmbed{
		Title: fmt.Sprintf("💰 %s's Wallet", username),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Current Balance", Value: "🪙 " + common.FormatCoins(balance), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Earn coins by catching cars and claiming daily rewards!"},
	})
}

// HandlePay handles !pay <@user> <amount>.
func (h *Handler) HandlePay(ctx context.Context, channelID, userID string, args []string) {
	if len(args) < 2 {
		h.sendText(channelID, "Usage: !pay <@user> <amount>")
		return
	}

	target := parseMention(args[0])
	if target == "" {
		h.sendText(channelID, "❌ Mention the user you want to pay")
		return
	}

	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount <= 0 {
		h.sendText(channelID, "❌ Amount must be a positive number")
		return
	}

	switch err := h.service.Transfer(ctx, userID, target, amount); {
	case errors.Is(err, common.ErrSelfTransfer):
		h.sendText(channelID, "❌ You cannot pay yourself")
	case errors.Is(err, common.ErrInsufficientBalance):
		h.sendText(channelID, "❌ You don't have enough coins for that")
	case err != nil:
		log.WithError(err).Error("transfer failed")
		h.sendText(channelID, "❌ Transfer failed")
	default:
		h.sendText(channelID, fmt.Sprintf("✅ Sent %s to <@%s>", common.FormatCoins(amount), target))
	}
}

// HandleTransactions handles !transactions — the last 10 ledger entries.
func (h *Handler) HandleTransactions(ctx context.Context, channelID, userID string) {
	transactions, err := h.service.GetTransactions(ctx, userID, 10)
	if err != nil {
		log.WithError(err).Error("transaction history failed")
		h.sendText(channelID, "❌ Could not read your transactions")
		return
	}
	if len(transactions) == 0 {
		h.sendText(channelID, "📋 You have no transactions yet")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Your last %d transactions:\n\n", len(transactions)))
	for i, tx := range transactions {
		sign := "+"
		if tx.FromUserID != nil && *tx.FromUserID == userID {
			sign = "-"
		}
		sb.WriteString(fmt.Sprintf("%d. %s | %s%s | %s\n",
			i+1,
			common.FormatDateTime(tx.CreatedAt),
			sign,
			common.FormatCoins(tx.Amount),
			tx.Description,
		))
	}
	h.sendText(channelID, sb.String())
}

// HandleLeaderboard handles !leaderboard.
func (h *Handler) HandleLeaderboard(ctx context.Context, channelID string) {
	entries, err := h.service.GetLeaderboard(ctx, 10)
	if err != nil {
		log.WithError(err).Error("leaderboard failed")
		h.sendText(channelID, "❌ Could not read the leaderboard")
		return
	}
	if len(entries) == 0 {
		h.sendText(channelID, "No users found with coins yet!")
		return
	}

	var sb strings.Builder
	for i, e := range entries {
		name := e.Username
		if name == "" {
			name = "User " + e.UserID
		}
		sb.WriteString(fmt.Sprintf("%s **%s** - %s\n", medal(i+1), name, common.FormatCoins(e.Balance)))
	}

	h.sendEmbed(channelID, &discordgo.MessageEmbed{
		Title:       "🏆 Coin Leaderboard",
		Description: sb.String(),
		Color:       0xffd700,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Keep catching cars and claiming daily rewards to climb the leaderboard!"},
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

// parseMention extracts the user id from <@123> / <@!123>, or returns
// the argument unchanged when it is already a bare id.
func parseMention(arg string) string {
	arg = strings.TrimSuffix(strings.TrimPrefix(arg, "<@"), ">")
	arg = strings.TrimPrefix(arg, "!")
	for _, r := range arg {
		if r < '0' || r > '9' {
			return ""
		}
	}
	if arg == "" {
		return ""
	}
	return arg
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return fmt.Sprintf("#%d", rank)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
