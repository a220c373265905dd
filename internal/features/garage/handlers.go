// Package garage — handlers.go turns !garage and !info into replies.
package garage

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const garagePageSize = 15

// Handler handles garage commands.
type Handler struct {
	service *Service
	session *discordgo.Session
}

// NewHandler creates a garage handler.
func NewHandler(service *Service, session *discordgo.Session) *Handler {
	return &Handler{service: service, session: session}
}

// HandleGarage handles !garage — the player's collection.
func (h *Handler) HandleGarage(ctx context.Context, channelID, userID, username string) {
	owned, err := h.service.Collection(ctx, userID, garagePageSize)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("garage lookup failed")
		h.sendText(channelID, "❌ Could not read your garage")
		return
	}
	if len(owned) == 0 {
		h.sendText(channelID, "🚗 Your garage is empty! Catch cars when they spawn, or open packs.")
		return
	}

	total, err := h.service.CollectionSize(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("garage count failed")
		total = len(owned)
	}

	var sb strings.Builder
	for i, o := range owned {
		name := o.Car.Name
		if o.IsShiny {
			name = "✨ " + name
		}
		sb.WriteString(fmt.Sprintf("%d. %s **%s** (%d)\n", i+1, o.Car.RarityEmoji(), name, o.Car.Year))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🏠 %s's Garage", username),
		Description: sb.String(),
		Color:       0x3498db,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d cars total", total)},
	}
	h.sendEmbed(channelID, embed)
}

// HandleInfo handles !info <car name> — a catalog card.
func (h *Handler) HandleInfo(ctx context.Context, channelID string, args []string) {
	if len(args) == 0 {
		h.sendText(channelID, "Usage: !info <car name>")
		return
	}
	name := strings.Join(args, " ")

	car, err := h.service.FindCar(ctx, name)
	if err != nil {
		log.WithError(err).Error("car lookup failed")
		h.sendText(channelID, "❌ Could not look up that car")
		return
	}
	if car == nil {
		h.sendText(channelID, fmt.Sprintf("❌ No car matching **%s** found", name))
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🚗 %s %s", car.Name, car.Model),
		Color: 0x3498db,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Year", Value: fmt.Sprintf("%d", car.Year), Inline: true},
			{Name: "Horsepower", Value: fmt.Sprintf("%d hp", car.Horsepower), Inline: true},
			{Name: "Weight", Value: fmt.Sprintf("%d kg", car.Weight), Inline: true},
			{Name: "Type", Value: car.CarType, Inline: true},
			{Name: "Rarity", Value: car.RarityLabel(), Inline: true},
		},
	}
	if car.IsExclusive {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Availability", Value: "🎁 Pack exclusive", Inline: true,
		})
	}
	if car.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: car.ImageURL}
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
