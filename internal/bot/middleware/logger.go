// Package middleware holds the cross-cutting handlers: message logging,
// panic recovery and rate limiting.
package middleware

import (
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// LogMessage logs an incoming message: author, channel and the first 50
// characters of the text.
func LogMessage(m *discordgo.MessageCreate) {
	if m == nil || m.Author == nil {
		return
	}

	text := m.Content
	if len(text) > 50 {
		text = text[:50] + "..."
	}

	log.WithFields(log.Fields{
		"user_id":    m.Author.ID,
		"channel_id": m.ChannelID,
		"guild_id":   m.GuildID,
		"username":   m.Author.Username,
		"text":       text,
		"time":       time.Now().Format("15:04:05"),
	}).Debug("Incoming message")
}
