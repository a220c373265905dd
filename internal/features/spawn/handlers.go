// Package spawn — handlers.go announces spawns and resolves !catch.
package spawn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/joelcarspotz/carfigures/internal/common"
	"github.com/joelcarspotz/carfigures/internal/features/economy"
	"github.com/joelcarspotz/carfigures/internal/features/players"
)

// Handler handles the spawn lifecycle on the Discord side.
type Handler struct {
	service *Service
	tracker *Tracker
	economy *economy.Service
	players *players.Service
	session *discordgo.Session
}

// NewHandler creates a spawn handler.
func NewHandler(service *Service, tracker *Tracker, economyService *economy.Service, playersService *players.Service, session *discordgo.Session) *Handler {
	return &Handler{
		service: service,
		tracker: tracker,
		economy: economyService,
		players: playersService,
		session: session,
	}
}

// OnGuildMessage feeds one message into the tracker and spawns a car
// when the channel has earned one. Called for every non-command guild
// message.
func (h *Handler) OnGuildMessage(ctx context.Context, guildID, channelID, authorID string) {
	if !h.tracker.Record(guildID, authorID, time.Now()) {
		return
	}

	spawn, err := h.service.Spawn(ctx, channelID)
	if err != nil {
		log.WithError(err).WithField("guild_id", guildID).Error("spawn failed")
		return
	}
	if spawn == nil {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       h.service.AnnounceLine(),
		Description: "Type `!catch <name>` to add it to your garage!",
		Color:       0xe67e22,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Hint", Value: fmt.Sprintf("%s • %d hp • %d", spawn.Car.CarType, spawn.Car.Horsepower, spawn.Car.Year), Inline: false},
		},
	}
	if spawn.Car.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: spawn.Car.ImageURL}
	}
	h.sendEmbed(channelID, embed)
}

// HandleCatch handles !catch <name>.
func (h *Handler) HandleCatch(ctx context.Context, channelID, userID, username string, args []string) {
	if len(args) == 0 {
		h.sendText(channelID, "Usage: !catch <car name>")
		return
	}
	if !h.service.HasActive(channelID) {
		h.sendText(channelID, "👀 There is nothing to catch here right now.")
		return
	}

	guess := strings.Join(args, " ")
	result, matched, err := h.service.TryCatch(ctx, channelID, userID, guess)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("catch failed")
		h.sendText(channelID, "❌ Something went wrong, the car got away")
		return
	}
	if !matched {
		h.sendText(channelID, h.service.Taunt())
		return
	}

	if result.Reward > 0 {
		if err := h.economy.AddCoins(ctx, userID, result.Reward, "catch_reward", "Caught "+result.Car.Name); err != nil {
			log.WithError(err).WithField("user_id", userID).Error("catch reward payout failed")
		}
	}
	if err := h.players.RecordCatch(ctx, userID, result.Reward); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("catch stats update failed")
	}

	name := result.Car.Name
	if result.Shiny {
		name = "✨ SHINY " + name + " ✨"
	}
	embed := &discordgo.MessageEmbed{
		Title:       "🎉 Caught!",
		Description: fmt.Sprintf("**%s** caught **%s**!", username, name),
		Color:       0x2ecc71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Rarity", Value: result.Car.RarityLabel(), Inline: true},
			{Name: "Reward", Value: "🪙 " + common.FormatCoins(result.Reward), Inline: true},
		},
	}
	if result.Bonus != 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Catch Bonus", Value: common.FormatSigned(result.Bonus), Inline: true,
		})
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
