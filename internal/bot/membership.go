package bot

import (
	"context"

	"github.com/ad/telegram-username-battle/internal/domain"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MembershipVerifier implements domain.MembershipVerifier over the
// Telegram getChatMember call.
type MembershipVerifier struct {
	client telegramClient
	logger domain.Logger
}

// NewMembershipVerifier creates a new MembershipVerifier
func NewMembershipVerifier(client telegramClient, logger domain.Logger) *MembershipVerifier {
	return &MembershipVerifier{
		client: client,
		logger: logger,
	}
}

// CheckMembership classifies the user's standing in channel. Owner,
// administrator and member count as subscribed; restricted, left and
// banned do not. A transport error is returned as-is so the caller can
// distinguish "not subscribed" from "could not check".
func (v *MembershipVerifier) CheckMembership(ctx context.Context, channel string, userID int64) (domain.MembershipStatus, error) {
	member, err := v.client.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: chatRef(channel),
		UserID: userID,
	})
	if err != nil {
		return domain.MembershipNotSubscribed, err
	}

	switch member.Type {
	case models.ChatMemberTypeOwner,
		models.ChatMemberTypeAdministrator,
		models.ChatMemberTypeMember:
		return domain.MembershipSubscribed, nil
	default:
		v.logger.Debug("user not subscribed", "channel", channel, "user_id", userID, "status", member.Type)
		return domain.MembershipNotSubscribed, nil
	}
}
