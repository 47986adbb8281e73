package bot

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/ad/telegram-username-battle/internal/config"
	"github.com/ad/telegram-username-battle/internal/domain"
	"github.com/ad/telegram-username-battle/internal/locale"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// BotHandler handles all Telegram bot interactions
type BotHandler struct {
	client    telegramClient
	registrar *domain.Registrar
	settings  domain.SettingsRepository
	channels  domain.ChannelRepository
	users     domain.UserRepository
	sessions  *AdminSessionStore
	config    *config.Config
	logger    domain.Logger
	localizer locale.Localizer
}

// NewBotHandler creates a new BotHandler with all dependencies
func NewBotHandler(
	client telegramClient,
	registrar *domain.Registrar,
	settings domain.SettingsRepository,
	channels domain.ChannelRepository,
	users domain.UserRepository,
	sessions *AdminSessionStore,
	cfg *config.Config,
	logger domain.Logger,
	localizer locale.Localizer,
) *BotHandler {
	return &BotHandler{
		client:    client,
		registrar: registrar,
		settings:  settings,
		channels:  channels,
		users:     users,
		sessions:  sessions,
		config:    cfg,
		logger:    logger,
		localizer: localizer,
	}
}

// isAdmin checks if a user ID is in the admin list
func (h *BotHandler) isAdmin(userID int64) bool {
	for _, adminID := range h.config.AdminUserIDs {
		if adminID == userID {
			return true
		}
	}
	return false
}

func (h *BotHandler) send(ctx context.Context, chatID int64, text string) {
	h.sendWith(ctx, chatID, text, "", nil)
}

func (h *BotHandler) sendHTML(ctx context.Context, chatID int64, text string) {
	h.sendWith(ctx, chatID, text, models.ParseModeHTML, nil)
}

func (h *BotHandler) sendKeyboard(ctx context.Context, chatID int64, text string, kb *models.ReplyKeyboardMarkup) {
	h.sendWith(ctx, chatID, text, "", kb)
}

func (h *BotHandler) sendWith(ctx context.Context, chatID int64, text string, parseMode models.ParseMode, kb *models.ReplyKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if parseMode != "" {
		params.ParseMode = parseMode
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := h.client.SendMessage(ctx, params); err != nil {
		h.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

// HandleStart handles the /start command
func (h *BotHandler) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if h.isAdmin(update.Message.From.ID) {
		h.sendKeyboard(ctx, chatID, h.localizer.MustLocalize(locale.AdminPanelTitle), adminKeyboard())
		return
	}

	name := update.Message.From.FirstName
	if name == "" {
		name = "👤"
	}
	h.sendHTML(ctx, chatID, h.localizer.MustLocalizeWithTemplate(locale.Welcome, html.EscapeString(name)))
}

// HandleStat handles the public /stat command
func (h *BotHandler) HandleStat(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendStatistics(ctx, update.Message.Chat.ID)
}

// HandleMessage is the catch-all text handler. Priority order: admin menu
// label, then admin session-mode input, then the registration pipeline.
// Exactly one branch fires per message.
func (h *BotHandler) HandleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	if h.isAdmin(userID) {
		if h.handleAdminMenu(ctx, userID, chatID, text) {
			return
		}
		if h.handleAdminInput(ctx, userID, chatID, text) {
			return
		}
	}

	h.handleRegistration(ctx, userID, chatID, update.Message.From.Username, text)
}

// handleAdminMenu dispatches exact menu-label matches. Only Back clears
// session modes; the other actions leave them untouched.
func (h *BotHandler) handleAdminMenu(ctx context.Context, adminID, chatID int64, text string) bool {
	switch text {
	case LabelStartBattle:
		if err := h.settings.Set(ctx, domain.SettingBattleStatus, domain.StatusOn); err != nil {
			h.logger.Error("failed to start battle", "admin_id", adminID, "error", err)
			h.send(ctx, chatID, h.localizer.MustLocalize(locale.ErrorGeneric))
			return true
		}
		h.logger.Info("battle started", "admin_id", adminID)
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.BattleStarted))

	case LabelStopBattle:
		if err := h.settings.Set(ctx, domain.SettingBattleStatus, domain.StatusOff); err != nil {
			h.logger.Error("failed to stop battle", "admin_id", adminID, "error", err)
			h.send(ctx, chatID, h.localizer.MustLocalize(locale.ErrorGeneric))
			return true
		}
		h.logger.Info("battle stopped", "admin_id", adminID)
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.BattleStopped))

	case LabelSetTemplate:
		h.sessions.Enter(adminID, ModeAwaitTemplate)
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.TemplatePrompt))

	case LabelSubscriptions:
		h.sendKeyboard(ctx, chatID, h.localizer.MustLocalize(locale.SubscriptionsTitle), subscriptionsKeyboard())

	case LabelStatistics:
		h.sendStatistics(ctx, chatID)

	case LabelBack:
		h.sessions.Reset(adminID)
		h.sendKeyboard(ctx, chatID, h.localizer.MustLocalize(locale.MainMenuTitle), adminKeyboard())

	case LabelAddChannel:
		h.sessions.Enter(adminID, ModeAwaitAddChannel)
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.AddChannelPrompt))

	case LabelDeleteChannel:
		h.promptDeleteChannel(ctx, adminID, chatID)

	default:
		return false
	}
	return true
}

// promptDeleteChannel lists the registry and enters delete mode. With an
// empty registry the admin stays in their current mode: there is nothing
// to delete, so no input is expected.
func (h *BotHandler) promptDeleteChannel(ctx context.Context, adminID, chatID int64) {
	channels, err := h.channels.List(ctx)
	if err != nil {
		h.logger.Error("failed to list channels", "admin_id", adminID, "error", err)
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.ErrorGeneric))
		return
	}
	if len(channels) == 0 {
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.ChannelListEmpty))
		return
	}

	var sb strings.Builder
	sb.WriteString(h.localizer.MustLocalize(locale.ChannelListTitle) + "\n\n")
	for _, ch := range channels {
		sb.WriteString(fmt.Sprintf("%d. %s\n", ch.ID, ch.Name))
	}
	sb.WriteString("\n" + h.localizer.MustLocalize(locale.ChannelDeleteAsk))

	h.sessions.Enter(adminID, ModeAwaitDeleteChannel)
	h.send(ctx, chatID, sb.String())
}

// handleAdminInput consumes one text message in a non-idle session mode.
// The action resets the mode whether it succeeds or fails; only malformed
// numeric input in delete mode keeps the mode active and reprompts.
func (h *BotHandler) handleAdminInput(ctx context.Context, adminID, chatID int64, text string) bool {
	switch h.sessions.Get(adminID) {
	case ModeAwaitTemplate:
		h.sessions.Reset(adminID)
		if err := h.settings.Set(ctx, domain.SettingTemplate, text); err != nil {
			h.logger.Error("failed to update template", "admin_id", adminID, "error", err)
			h.send(ctx, chatID, h.localizer.MustLocalize(locale.ErrorGeneric))
			return true
		}
		h.logger.Info("announcement template updated", "admin_id", adminID)
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.TemplateUpdated))

	case ModeAwaitAddChannel:
		h.sessions.Reset(adminID)
		id, err := h.channels.Add(ctx, text)
		if err != nil {
			h.logger.Error("failed to add channel", "admin_id", adminID, "channel", text, "error", err)
			h.send(ctx, chatID, h.localizer.MustLocalize(locale.ErrorGeneric))
			return true
		}
		h.logger.Info("force channel added", "admin_id", adminID, "channel", text, "id", id)
		h.send(ctx, chatID, h.localizer.MustLocalizeWithTemplate(locale.ChannelAdded, text))

	case ModeAwaitDeleteChannel:
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			// keep the mode, ask again
			h.send(ctx, chatID, h.localizer.MustLocalize(locale.DeleteNumericOnly))
			return true
		}
		h.sessions.Reset(adminID)
		removed, err := h.channels.Delete(ctx, id)
		if err != nil {
			h.logger.Error("failed to delete channel", "admin_id", adminID, "id", id, "error", err)
			h.send(ctx, chatID, h.localizer.MustLocalize(locale.ErrorGeneric))
			return true
		}
		if !removed {
			h.send(ctx, chatID, h.localizer.MustLocalize(locale.ChannelNotFound))
			return true
		}
		h.logger.Info("force channel deleted", "admin_id", adminID, "id", id)
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.ChannelDeleted))

	default:
		return false
	}
	return true
}

// handleRegistration runs the pipeline and maps its result to a reply.
func (h *BotHandler) handleRegistration(ctx context.Context, userID, chatID int64, ownHandle, text string) {
	result := h.registrar.Register(ctx, userID, ownHandle, text)

	switch result.Kind {
	case domain.ResultClosed:
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.BattleClosed))
	case domain.ResultBadFormat:
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.InvalidFormat))
	case domain.ResultNoHandle:
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.NoOwnUsername))
	case domain.ResultNotYours:
		h.sendHTML(ctx, chatID, h.localizer.MustLocalizeWithTemplate(locale.NotYourUsername, html.EscapeString(result.RealHandle)))
	case domain.ResultJoinRequired:
		h.send(ctx, chatID, h.localizer.MustLocalizeWithTemplate(locale.JoinChannelPrompt, result.InviteLink))
	case domain.ResultCheckFailed:
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.MembershipCheckFailed))
	case domain.ResultAlreadyRegistered:
		h.send(ctx, chatID, h.localizer.MustLocalizeWithTemplate(locale.AlreadyRegistered, strconv.FormatInt(result.Number, 10)))
	case domain.ResultRegistered:
		if !result.Announced {
			h.send(ctx, chatID, h.localizer.MustLocalize(locale.RegisteredNotPosted))
			return
		}
		h.send(ctx, chatID, h.localizer.MustLocalizeWithTemplate(locale.SuccessReply,
			strconv.FormatInt(result.Number, 10), h.config.ChannelID))
	default:
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.RegistrationFailed))
	}
}

func (h *BotHandler) sendStatistics(ctx context.Context, chatID int64) {
	total, err := h.users.Count(ctx)
	if err != nil {
		h.logger.Error("failed to count users", "error", err)
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.ErrorGeneric))
		return
	}

	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	today, err := h.users.CountSince(ctx, midnight)
	if err != nil {
		h.logger.Error("failed to count today's users", "error", err)
		h.send(ctx, chatID, h.localizer.MustLocalize(locale.ErrorGeneric))
		return
	}

	h.sendHTML(ctx, chatID, h.localizer.MustLocalizeWithTemplate(locale.Statistics,
		strconv.FormatInt(total, 10), strconv.FormatInt(today, 10)))
}
