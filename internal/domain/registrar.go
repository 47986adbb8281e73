package domain

import (
	"context"
	"strings"
)

// Announcement constants. These are fixed promotional numbers, not
// measured quantities.
const (
	AnnounceStars    = 5
	AnnounceReaction = 1
	AnnounceBoost    = 15
)

// ResultKind classifies the outcome of a registration attempt.
type ResultKind int

const (
	ResultClosed ResultKind = iota
	ResultBadFormat
	ResultNoHandle
	ResultNotYours
	ResultJoinRequired
	ResultCheckFailed
	ResultRegistered
	ResultAlreadyRegistered
	ResultFailed
)

// Result is what the transport layer turns into a user-facing reply.
type Result struct {
	Kind       ResultKind
	Number     int64  // battle number for Registered / AlreadyRegistered
	RealHandle string // sender's actual handle for NotYours
	InviteLink string // join reference for JoinRequired
	Announced  bool   // whether the channel post went out
}

// Registrar runs the registration pipeline: validation, membership gate,
// ledger insert, templated announcement. Each gate stops processing on
// failure; channel checks run strictly in registry order.
type Registrar struct {
	settings  SettingsRepository
	channels  ChannelRepository
	users     UserRepository
	verifier  MembershipVerifier
	announcer Announcer
	boostLink string
	logger    Logger
}

// NewRegistrar creates a Registrar with all dependencies
func NewRegistrar(
	settings SettingsRepository,
	channels ChannelRepository,
	users UserRepository,
	verifier MembershipVerifier,
	announcer Announcer,
	boostLink string,
	logger Logger,
) *Registrar {
	return &Registrar{
		settings:  settings,
		channels:  channels,
		users:     users,
		verifier:  verifier,
		announcer: announcer,
		boostLink: boostLink,
		logger:    logger,
	}
}

// Register processes one submitted username from userID, whose own
// Telegram handle is ownHandle ("" when the account has none set).
func (r *Registrar) Register(ctx context.Context, userID int64, ownHandle, text string) Result {
	status, err := r.settings.Get(ctx, SettingBattleStatus)
	if err != nil {
		r.logger.Error("failed to read battle status", "error", err)
		return Result{Kind: ResultFailed}
	}
	if status != StatusOn {
		return Result{Kind: ResultClosed}
	}

	text = strings.TrimSpace(text)
	if !ValidUsername(text) {
		return Result{Kind: ResultBadFormat}
	}

	if ownHandle == "" {
		return Result{Kind: ResultNoHandle}
	}

	expected := "@" + ownHandle
	if !strings.EqualFold(text, expected) {
		return Result{Kind: ResultNotYours, RealHandle: expected}
	}

	channels, err := r.channels.List(ctx)
	if err != nil {
		r.logger.Error("failed to list force channels", "error", err)
		return Result{Kind: ResultFailed}
	}
	for _, ch := range channels {
		membership, err := r.verifier.CheckMembership(ctx, ch.Name, userID)
		if err != nil {
			r.logger.Warn("force channel check error", "channel", ch.Name, "user_id", userID, "error", err)
			return Result{Kind: ResultCheckFailed}
		}
		if membership != MembershipSubscribed {
			return Result{Kind: ResultJoinRequired, InviteLink: InviteLink(ch.Name)}
		}
	}

	number, created, err := r.users.RegisterOrGet(ctx, userID, NormalizeUsername(text))
	if err != nil {
		r.logger.Error("failed to register user", "user_id", userID, "error", err)
		return Result{Kind: ResultFailed}
	}
	if !created {
		// Resubmission keeps the original battle number and the channel
		// post is not repeated.
		r.logger.Info("duplicate registration", "user_id", userID, "number", number)
		return Result{Kind: ResultAlreadyRegistered, Number: number}
	}

	tmpl, err := r.settings.Get(ctx, SettingTemplate)
	if err != nil {
		r.logger.Error("failed to read announcement template", "error", err)
	}
	if tmpl == "" {
		tmpl = DefaultTemplate
	}

	msg := RenderAnnouncement(tmpl, AnnouncementValues{
		Num:       number,
		Username:  text,
		Stars:     AnnounceStars,
		Reaction:  AnnounceReaction,
		Boost:     AnnounceBoost,
		BoostLink: r.boostLink,
	})

	if err := r.announcer.Announce(ctx, msg); err != nil {
		r.logger.Error("channel post failed", "user_id", userID, "number", number, "error", err)
		return Result{Kind: ResultRegistered, Number: number, Announced: false}
	}

	r.logger.Info("user registered", "user_id", userID, "number", number)
	return Result{Kind: ResultRegistered, Number: number, Announced: true}
}
