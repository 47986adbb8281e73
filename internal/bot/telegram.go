package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// telegramClient is the slice of the Telegram API this package uses.
// *bot.Bot satisfies it; tests substitute a recorder.
type telegramClient interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error)
}

// chatRef converts "-100..." style identifiers to int64 so the API
// receives a numeric chat_id; "@handle" identifiers stay as strings.
func chatRef(channel string) any {
	if strings.HasPrefix(channel, "-") {
		if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
			return id
		}
	}
	return channel
}
