// Package operator — handlers.go turns the privileged commands into
// replies. Login happens over DM so the password never hits a guild
// channel.
package operator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/joelcarspotz/carfigures/internal/common"
	"github.com/joelcarspotz/carfigures/internal/features/economy"
	"github.com/joelcarspotz/carfigures/internal/features/packs"
)

// Handler handles operator commands.
type Handler struct {
	service *Service
	economy *economy.Service
	packs   *packs.Service
	session *discordgo.Session
}

// NewHandler creates an operator handler.
func NewHandler(service *Service, economyService *economy.Service, packsService *packs.Service, session *discordgo.Session) *Handler {
	return &Handler{service: service, economy: economyService, packs: packsService, session: session}
}

// HandleLogin handles !operator <password>, DM only.
func (h *Handler) HandleLogin(ctx context.Context, channelID, userID string, isDM bool, args []string) {
	if !isDM {
		h.sendText(channelID, "🔒 Log in over DM, never in a public channel")
		return
	}
	if len(args) < 1 {
		h.sendText(channelID, "Usage: !operator <password>")
		return
	}

	switch err := h.service.Login(ctx, userID, strings.Join(args, " ")); {
	case errors.Is(err, common.ErrTooManyAttempts):
		h.sendText(channelID, "🚫 Too many failed attempts. Try again in an hour.")
	case errors.Is(err, common.ErrWrongPassword):
		h.sendText(channelID, "❌ Wrong password")
	case err != nil:
		log.WithError(err).WithField("user_id", userID).Error("operator login failed")
		h.sendText(channelID, "❌ Login failed")
	default:
		h.sendText(channelID, "✅ Logged in. Operator commands are unlocked.")
	}
}

// HandleLogout handles !logout.
func (h *Handler) HandleLogout(ctx context.Context, channelID, userID string) {
	if err := h.service.Logout(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("operator logout failed")
		h.sendText(channelID, "❌ Logout failed")
		return
	}
	h.sendText(channelID, "👋 Logged out")
}

// HandleGrant handles !grant <@user> <amount>.
func (h *Handler) HandleGrant(ctx context.Context, channelID, userID string, args []string) {
	if !h.requireOperator(ctx, channelID, userID) {
		return
	}
	if len(args) < 2 {
		h.sendText(channelID, "Usage: !grant <@user> <amount>")
		return
	}

	target := parseMention(args[0])
	if target == "" {
		h.sendText(channelID, "❌ Mention the user to grant coins to")
		return
	}
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount <= 0 {
		h.sendText(channelID, "❌ Amount must be a positive number")
		return
	}

	if err := h.economy.AddCoins(ctx, target, amount, "operator_grant", "Grant by operator "+userID); err != nil {
		log.WithError(err).Error("grant failed")
		h.sendText(channelID, "❌ Grant failed")
		return
	}

	log.WithFields(log.Fields{
		"operator": userID,
		"target":   target,
		"amount":   amount,
	}).Warn("Operator grant issued")

	h.sendText(channelID, fmt.Sprintf("✅ Granted %s to <@%s>", common.FormatCoins(amount), target))
}

// HandlePackAdmin handles !packadmin create|list|toggle.
func (h *Handler) HandlePackAdmin(ctx context.Context, channelID, userID string, args []string) {
	if !h.requireOperator(ctx, channelID, userID) {
		return
	}
	if len(args) < 1 {
		h.sendText(channelID, "Usage: !packadmin <create|list|toggle> ...")
		return
	}

	switch args[0] {
	case "create":
		h.packCreate(ctx, channelID, userID, args[1:])
	case "list":
		h.packList(ctx, channelID)
	case "toggle":
		h.packToggle(ctx, channelID, userID, args[1:])
	default:
		h.sendText(channelID, "Usage: !packadmin <create|list|toggle> ...")
	}
}

// packCreate: !packadmin create <name> <price> <cars> <leg%> <epic%> <rare%>
func (h *Handler) packCreate(ctx context.Context, channelID, userID string, args []string) {
	if len(args) < 6 {
		h.sendText(channelID, "Usage: !packadmin create <name> <price> <cars> <legendary%> <epic%> <rare%>")
		return
	}

	price, err1 := strconv.ParseInt(args[1], 10, 64)
	cars, err2 := strconv.Atoi(args[2])
	leg, err3 := strconv.ParseFloat(args[3], 64)
	epic, err4 := strconv.ParseFloat(args[4], 64)
	rare, err5 := strconv.ParseFloat(args[5], 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		h.sendText(channelID, "❌ Could not parse the pack numbers")
		return
	}

	pack := &packs.Pack{
		Name:            args[0],
		Price:           price,
		GuaranteedCars:  cars,
		ChanceLegendary: leg,
		ChanceEpic:      epic,
		ChanceRare:      rare,
		IsActive:        true,
	}

	id, err := h.packs.CreatePack(ctx, pack)
	if errors.Is(err, packs.ErrBadPackConfig) {
		h.sendText(channelID, "❌ Invalid pack definition: check the counts and chances")
		return
	}
	if err != nil {
		log.WithError(err).Error("pack creation failed")
		h.sendText(channelID, "❌ Pack creation failed")
		return
	}

	log.WithFields(log.Fields{
		"operator": userID,
		"pack_id":  id,
		"name":     pack.Name,
	}).Warn("Pack created")

	h.sendText(channelID, fmt.Sprintf("✅ Pack **%s** created with id %d. Add cars to its loot table, then it can be bought.", pack.Name, id))
}

func (h *Handler) packList(ctx context.Context, channelID string) {
	list, err := h.packs.AllPacks(ctx)
	if err != nil {
		log.WithError(err).Error("pack list failed")
		h.sendText(channelID, "❌ Could not list packs")
		return
	}
	if len(list) == 0 {
		h.sendText(channelID, "No packs defined yet")
		return
	}

	var sb strings.Builder
	for _, p := range list {
		state := "🟢"
		if !p.IsActive {
			state = "🔴"
		}
		sb.WriteString(fmt.Sprintf("%s #%d **%s** — %s, %d cars (L %.1f%% / E %.1f%% / R %.1f%%)\n",
			state, p.ID, p.Name, common.FormatCoins(p.Price), p.GuaranteedCars,
			p.ChanceLegendary, p.ChanceEpic, p.ChanceRare))
	}
	h.sendText(channelID, sb.String())
}

func (h *Handler) packToggle(ctx context.Context, channelID, userID string, args []string) {
	if len(args) < 1 {
		h.sendText(channelID, "Usage: !packadmin toggle <pack id>")
		return
	}
	packID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendText(channelID, "Usage: !packadmin toggle <pack id>")
		return
	}

	list, err := h.packs.AllPacks(ctx)
	if err != nil {
		log.WithError(err).Error("pack toggle failed")
		h.sendText(channelID, "❌ Toggle failed")
		return
	}
	var active bool
	found := false
	for _, p := range list {
		if p.ID == packID {
			active = p.IsActive
			found = true
			break
		}
	}
	if !found {
		h.sendText(channelID, fmt.Sprintf("❌ No pack with id %d", packID))
		return
	}

	if _, err := h.packs.SetActive(ctx, packID, !active); err != nil {
		log.WithError(err).Error("pack toggle failed")
		h.sendText(channelID, "❌ Toggle failed")
		return
	}

	log.WithFields(log.Fields{
		"operator": userID,
		"pack_id":  packID,
		"active":   !active,
	}).Warn("Pack toggled")

	state := "enabled"
	if active {
		state = "disabled"
	}
	h.sendText(channelID, fmt.Sprintf("✅ Pack %d %s", packID, state))
}

func (h *Handler) requireOperator(ctx context.Context, channelID, userID string) bool {
	err := h.service.Require(ctx, userID)
	if errors.Is(err, common.ErrNotOperator) {
		h.sendText(channelID, "🔒 Operators only. Log in with !operator over DM.")
		return false
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("operator check failed")
		h.sendText(channelID, "❌ Could not verify your session")
		return false
	}
	return true
}

func (h *Handler) sendText(channelID, text string) {
	if _, err := h.session.ChannelMessageSend(channelID, text); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Error("failed to send message")
	}
}

func parseMention(arg string) string {
	arg = strings.TrimSuffix(strings.TrimPrefix(arg, "<@"), ">")
	arg = strings.TrimPrefix(arg, "!")
	if arg == "" {
		return ""
	}
	for _, r := range arg {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return arg
}
