// Package packs — handlers.go turns !shop, !buy, !inventory and !open
// into replies.
package packs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/joelcarspotz/carfigures/internal/common"
	"github.com/joelcarspotz/carfigures/internal/features/garage"
)

// Handler handles pack commands.
type Handler struct {
	service *Service
	session *discordgo.Session
}

// NewHandler creates a packs handler.
func NewHandler(service *Service, session *discordgo.Session) *Handler {
	return &Handler{service: service, session: session}
}

// HandleShop handles !shop.
func (h *Handler) HandleShop(ctx context.Context, channelID string) {
	packs, err := h.service.Shop(ctx)
	if err != nil {
		log.WithError(err).Error("shop lookup failed")
		h.sendText(channelID, "❌ Could not read the shop")
		return
	}
	if len(packs) == 0 {
		h.sendText(channelID, "🏪 The shop is empty right now, check back later!")
		return
	}

	var sb strings.Builder
	for _, p := range packs {
		sb.WriteString(fmt.Sprintf("**%s** — %s (%d cars)\n", p.Name, common.FormatCoins(p.Price), p.GuaranteedCars))
		if p.Description != "" {
			sb.WriteString("  " + p.Description + "\n")
		}
		if p.AvailableUntil != nil {
			sb.WriteString("  ⏳ Available until " + common.FormatDateTime(*p.AvailableUntil) + "\n")
		}
	}

	h.sendEmbed(channelID, &discordgo.MessageEmbed{
		Title:       "🏪 Pack Shop",
		Description: sb.String(),
		Color:       0x9b59b6,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Buy with !buy <pack name>, open with !open"},
	})
}

// HandleBuy handles !buy <pack name>.
func (h *Handler) HandleBuy(ctx context.Context, channelID, userID string, args []string) {
	if len(args) == 0 {
		h.sendText(channelID, "Usage: !buy <pack name>")
		return
	}
	name := strings.Join(args, " ")

	pack, err := h.service.Buy(ctx, userID, name)
	switch {
	case errors.Is(err, common.ErrPackNotFound):
		h.sendText(channelID, fmt.Sprintf("❌ No pack matching **%s** is on sale", name))
	case errors.Is(err, common.ErrPackExpired):
		h.sendText(channelID, "❌ That pack is no longer available")
	case errors.Is(err, common.ErrInsufficientBalance):
		h.sendText(channelID, "❌ You don't have enough coins for that pack")
	case err != nil:
		log.WithError(err).WithField("user_id", userID).Error("pack purchase failed")
		h.sendText(channelID, "❌ Purchase failed")
	default:
		h.sendText(channelID, fmt.Sprintf("✅ Bought **%s** for %s! Open it with `!open %s`",
			pack.Name, common.FormatCoins(pack.Price), pack.Name))
	}
}

// HandleInventory handles !inventory — unopened packs.
func (h *Handler) HandleInventory(ctx context.Context, channelID, userID, username string) {
	unopened, err := h.service.Inventory(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("inventory lookup failed")
		h.sendText(channelID, "❌ Could not read your inventory")
		return
	}
	if len(unopened) == 0 {
		h.sendText(channelID, "🎒 You have no unopened packs. Visit the !shop!")
		return
	}

	counts := make(map[string]int)
	var order []string
	for _, u := range unopened {
		if counts[u.Pack.Name] == 0 {
			order = append(order, u.Pack.Name)
		}
		counts[u.Pack.Name]++
	}

	var sb strings.Builder
	for _, name := range order {
		sb.WriteString(fmt.Sprintf("🎁 **%s** × %d\n", name, counts[name]))
	}

	h.sendEmbed(channelID, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎒 %s's Packs", username),
		Description: sb.String(),
		Color:       0x9b59b6,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Open one with !open <pack name>"},
	})
}

// HandleOpen handles !open [pack name].
func (h *Handler) HandleOpen(ctx context.Context, channelID, userID, username string, args []string) {
	name := strings.Join(args, " ")

	pack, drawn, err := h.service.Open(ctx, userID, name)
	switch {
	case errors.Is(err, common.ErrPackNotFound):
		h.sendText(channelID, "❌ You have no unopened pack like that")
		return
	case errors.Is(err, common.ErrPackAlreadyOpened):
		h.sendText(channelID, "❌ That pack was already opened")
		return
	case errors.Is(err, ErrBadPackConfig):
		log.WithError(err).WithField("user_id", userID).Error("pack opening hit a bad definition")
		h.sendText(channelID, "❌ This pack is misconfigured, ping an operator")
		return
	case err != nil:
		log.WithError(err).WithField("user_id", userID).Error("pack opening failed")
		h.sendText(channelID, "❌ Opening failed")
		return
	}

	if len(drawn) == 0 {
		h.sendText(channelID, fmt.Sprintf("📦 **%s** opened... and it was empty. Unlucky!", pack.Name))
		return
	}

	var sb strings.Builder
	for _, d := range drawn {
		carName := d.Entry.CarName
		if d.Shiny {
			carName = "✨ " + carName + " ✨"
		}
		sb.WriteString(fmt.Sprintf("%s **%s** (%d)\n", garage.RarityEmojiFor(d.Entry.CarRarity), carName, d.Entry.CarYear))
	}

	h.sendEmbed(channelID, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📦 %s opened %s!", username, pack.Name),
		Description: sb.String(),
		Color:       0xf1c40f,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d cars added to your garage", len(drawn))},
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
