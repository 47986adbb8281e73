package domain

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Logger interface for structured logging
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
}

// Well-known settings keys
const (
	SettingBattleStatus = "battle_status"
	SettingTemplate     = "template"
)

// Battle status values
const (
	StatusOn  = "on"
	StatusOff = "off"
)

// DefaultTemplate is the announcement template seeded into settings on
// first start. Admins can replace it through the panel.
const DefaultTemplate = `📢 #{num} — Yangi ishtirokchi!

👤 Foydalanuvchi: {username}
⭐ Yulduzlar: {stars}
💬 Reaksiya: {reaction}
🚀 Boost: {boost}
🔗 Boost linki: {boost_link}
`

// UserEntry is one accepted username in the ledger. ID is assigned at
// insert and doubles as the public battle number.
type UserEntry struct {
	ID         int64
	TelegramID int64
	Username   string // normalized: lower case, leading "@"
	CreatedAt  time.Time
}

// ForceChannel is a channel the submitter must belong to before
// registration succeeds.
type ForceChannel struct {
	ID   int64
	Name string // "@handle" or a numeric chat id as free text
}

// MembershipStatus classifies a membership check outcome.
type MembershipStatus int

const (
	MembershipNotSubscribed MembershipStatus = iota
	MembershipSubscribed
)

// MembershipVerifier asks the transport whether a user belongs to a channel.
// A non-nil error means the check itself failed, not that the user is absent.
type MembershipVerifier interface {
	CheckMembership(ctx context.Context, channel string, userID int64) (MembershipStatus, error)
}

// Announcer posts a rendered announcement to the public channel.
type Announcer interface {
	Announce(ctx context.Context, text string) error
}

// SettingsRepository provides key/value persisted configuration.
// Get returns "" without an error when the key is absent.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// ChannelRepository manages the ordered force-channel registry.
type ChannelRepository interface {
	Add(ctx context.Context, name string) (int64, error)
	List(ctx context.Context) ([]*ForceChannel, error)
	// Delete reports whether a channel with that id existed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// UserRepository is the append-only ledger of accepted usernames.
type UserRepository interface {
	// RegisterOrGet inserts username and returns its new id, or returns
	// the existing id with created=false when it is already registered.
	RegisterOrGet(ctx context.Context, telegramID int64, username string) (id int64, created bool, err error)
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, t time.Time) (int64, error)
}

var usernameRe = regexp.MustCompile(`^@[A-Za-z0-9_]{5,}$`)

// ValidUsername reports whether text is a well-formed @username submission.
func ValidUsername(text string) bool {
	return usernameRe.MatchString(text)
}

// NormalizeUsername lower-cases a submitted username for ledger storage.
func NormalizeUsername(text string) string {
	return strings.ToLower(text)
}

// InviteLink derives a join reference from a channel identifier: handles
// become t.me links, anything else is passed through verbatim.
func InviteLink(channel string) string {
	if strings.HasPrefix(channel, "@") {
		return "https://t.me/" + strings.TrimPrefix(channel, "@")
	}
	return channel
}
