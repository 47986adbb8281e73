package locale

// Message key constants for localization.
// All user-facing reply texts go through these; admin menu button labels
// deliberately do not (they are an exact-match command contract, see bot).
const (
	// Public flow
	Welcome               = "Welcome"
	BattleClosed          = "BattleClosed"
	InvalidFormat         = "InvalidFormat"
	NoOwnUsername         = "NoOwnUsername"
	NotYourUsername       = "NotYourUsername"
	JoinChannelPrompt     = "JoinChannelPrompt"
	MembershipCheckFailed = "MembershipCheckFailed"
	RegistrationFailed    = "RegistrationFailed"
	RegisteredNotPosted   = "RegisteredNotPosted"
	SuccessReply          = "SuccessReply"
	AlreadyRegistered     = "AlreadyRegistered"
	Statistics            = "Statistics"

	// Admin panel
	AdminPanelTitle    = "AdminPanelTitle"
	MainMenuTitle      = "MainMenuTitle"
	SubscriptionsTitle = "SubscriptionsTitle"
	BattleStarted      = "BattleStarted"
	BattleStopped      = "BattleStopped"
	TemplatePrompt     = "TemplatePrompt"
	TemplateUpdated    = "TemplateUpdated"
	AddChannelPrompt   = "AddChannelPrompt"
	ChannelAdded       = "ChannelAdded"
	ChannelListTitle   = "ChannelListTitle"
	ChannelDeleteAsk   = "ChannelDeleteAsk"
	ChannelListEmpty   = "ChannelListEmpty"
	ChannelDeleted     = "ChannelDeleted"
	ChannelNotFound    = "ChannelNotFound"
	DeleteNumericOnly  = "DeleteNumericOnly"

	// Shared
	ErrorGeneric = "ErrorGeneric"
)

// AllKeys lists every message id; the locale tests check that each one
// resolves in every bundled language.
var AllKeys = []string{
	Welcome,
	BattleClosed,
	InvalidFormat,
	NoOwnUsername,
	NotYourUsername,
	JoinChannelPrompt,
	MembershipCheckFailed,
	RegistrationFailed,
	RegisteredNotPosted,
	SuccessReply,
	AlreadyRegistered,
	Statistics,
	AdminPanelTitle,
	MainMenuTitle,
	SubscriptionsTitle,
	BattleStarted,
	BattleStopped,
	TemplatePrompt,
	TemplateUpdated,
	AddChannelPrompt,
	ChannelAdded,
	ChannelListTitle,
	ChannelDeleteAsk,
	ChannelListEmpty,
	ChannelDeleted,
	ChannelNotFound,
	DeleteNumericOnly,
	ErrorGeneric,
}
