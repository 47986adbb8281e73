package bot

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ChannelAnnouncer implements domain.Announcer by posting to the
// configured public channel with HTML formatting.
type ChannelAnnouncer struct {
	client    telegramClient
	channelID string
}

// NewChannelAnnouncer creates a new ChannelAnnouncer
func NewChannelAnnouncer(client telegramClient, channelID string) *ChannelAnnouncer {
	return &ChannelAnnouncer{
		client:    client,
		channelID: channelID,
	}
}

// Announce posts text to the channel. One attempt, no retry.
func (a *ChannelAnnouncer) Announce(ctx context.Context, text string) error {
	_, err := a.client.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatRef(a.channelID),
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	return err
}
