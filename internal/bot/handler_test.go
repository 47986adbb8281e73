package bot

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"

	"github.com/ad/telegram-username-battle/internal/config"
	"github.com/ad/telegram-username-battle/internal/domain"
	"github.com/ad/telegram-username-battle/internal/locale"
	"github.com/ad/telegram-username-battle/internal/storage"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	_ "modernc.org/sqlite"
)

const (
	testAdminID   = int64(1)
	testChannelID = "@battle_channel"
)

type mockLogger struct{}

func (m *mockLogger) Info(msg string, args ...interface{})  {}
func (m *mockLogger) Error(msg string, args ...interface{}) {}
func (m *mockLogger) Debug(msg string, args ...interface{}) {}
func (m *mockLogger) Warn(msg string, args ...interface{})  {}

// fakeTelegram records outgoing messages and serves membership checks
// from a fixed chat-member type.
type fakeTelegram struct {
	mu         sync.Mutex
	sent       []*tgbot.SendMessageParams
	memberType models.ChatMemberType
	memberErr  error
	checked    []any
}

func (f *fakeTelegram) SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, params)
	return &models.Message{}, nil
}

func (f *fakeTelegram) GetChatMember(ctx context.Context, params *tgbot.GetChatMemberParams) (*models.ChatMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, params.ChatID)
	if f.memberErr != nil {
		return nil, f.memberErr
	}
	return &models.ChatMember{Type: f.memberType}, nil
}

// sentTo returns the texts of all messages sent to chatID, in order.
func (f *fakeTelegram) sentTo(chatID any) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var texts []string
	for _, p := range f.sent {
		if p.ChatID == chatID {
			texts = append(texts, p.Text)
		}
	}
	return texts
}

func (f *fakeTelegram) lastTo(t *testing.T, chatID any) string {
	t.Helper()
	texts := f.sentTo(chatID)
	if len(texts) == 0 {
		t.Fatalf("Expected a message to chat %v, got none", chatID)
	}
	return texts[len(texts)-1]
}

type handlerFixture struct {
	tg       *fakeTelegram
	handler  *BotHandler
	sessions *AdminSessionStore
	settings *storage.SettingsRepository
	channels *storage.ChannelRepository
	users    *storage.UserRepository
	loc      locale.Localizer
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)

	queue := storage.NewDBQueue(db)
	if err := storage.InitSchema(queue); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}
	t.Cleanup(func() {
		queue.Close()
		_ = db.Close()
	})

	settings := storage.NewSettingsRepository(queue)
	channels := storage.NewChannelRepository(queue)
	users := storage.NewUserRepository(queue)

	ctx := context.Background()
	err = settings.EnsureDefaults(ctx, map[string]string{
		domain.SettingBattleStatus: domain.StatusOn,
		domain.SettingTemplate:     domain.DefaultTemplate,
	})
	if err != nil {
		t.Fatalf("Failed to seed settings: %v", err)
	}

	loc, err := locale.NewLocalizer(locale.Uz)
	if err != nil {
		t.Fatalf("Failed to build localizer: %v", err)
	}

	logger := &mockLogger{}
	tg := &fakeTelegram{memberType: models.ChatMemberTypeMember}
	verifier := NewMembershipVerifier(tg, logger)
	announcer := NewChannelAnnouncer(tg, testChannelID)
	registrar := domain.NewRegistrar(settings, channels, users, verifier, announcer,
		"https://t.me/boost/battle_channel", logger)
	sessions := NewAdminSessionStore()

	cfg := &config.Config{
		AdminUserIDs: []int64{testAdminID},
		ChannelID:    testChannelID,
		BoostLink:    "https://t.me/boost/battle_channel",
	}

	handler := NewBotHandler(tg, registrar, settings, channels, users, sessions, cfg, logger, loc)

	return &handlerFixture{
		tg:       tg,
		handler:  handler,
		sessions: sessions,
		settings: settings,
		channels: channels,
		users:    users,
		loc:      loc,
	}
}

func message(userID int64, username, text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			From: &models.User{ID: userID, Username: username, FirstName: "Test"},
			Chat: models.Chat{ID: userID},
			Text: text,
		},
	}
}

func TestHandleStartAdminShowsPanel(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.handler.HandleStart(ctx, nil, message(testAdminID, "admin_user", "/start"))

	if len(f.tg.sent) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(f.tg.sent))
	}
	params := f.tg.sent[0]
	if params.Text != f.loc.MustLocalize(locale.AdminPanelTitle) {
		t.Errorf("Expected admin panel title, got: %s", params.Text)
	}
	kb, ok := params.ReplyMarkup.(*models.ReplyKeyboardMarkup)
	if !ok {
		t.Fatalf("Expected a reply keyboard, got %T", params.ReplyMarkup)
	}
	if len(kb.Keyboard) != 4 {
		t.Errorf("Expected 4 keyboard rows, got %d", len(kb.Keyboard))
	}
	if kb.Keyboard[0][0].Text != LabelStartBattle || kb.Keyboard[0][1].Text != LabelStopBattle {
		t.Errorf("Expected battle toggles in first row, got %+v", kb.Keyboard[0])
	}
}

func TestHandleStartUserGetsWelcome(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	update := message(500, "alice_99", "/start")
	update.Message.From.FirstName = "Alice <3"
	f.handler.HandleStart(ctx, nil, update)

	if len(f.tg.sent) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(f.tg.sent))
	}
	params := f.tg.sent[0]
	if params.ParseMode != models.ParseModeHTML {
		t.Errorf("Expected HTML parse mode, got: %s", params.ParseMode)
	}
	if strings.Contains(params.Text, "<3") {
		t.Errorf("Expected first name to be escaped, got: %s", params.Text)
	}
	if !strings.Contains(params.Text, "Alice &lt;3") {
		t.Errorf("Expected escaped first name in welcome, got: %s", params.Text)
	}
}

func TestRegistrationHappyPath(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.handler.HandleMessage(ctx, nil, message(500, "alice_99", "@alice_99"))

	reply := f.tg.lastTo(t, int64(500))
	expected := f.loc.MustLocalizeWithTemplate(locale.SuccessReply, "1", testChannelID)
	if reply != expected {
		t.Errorf("Expected success reply:\n%s\ngot:\n%s", expected, reply)
	}

	posts := f.tg.sentTo(testChannelID)
	if len(posts) != 1 {
		t.Fatalf("Expected 1 channel post, got %d", len(posts))
	}
	if !strings.Contains(posts[0], "@alice_99") || !strings.Contains(posts[0], "#1") {
		t.Errorf("Expected announcement with username and number, got:\n%s", posts[0])
	}
}

func TestRegistrationClosedBattle(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", LabelStopBattle))
	f.handler.HandleMessage(ctx, nil, message(500, "alice_99", "@alice_99"))

	reply := f.tg.lastTo(t, int64(500))
	if reply != f.loc.MustLocalize(locale.BattleClosed) {
		t.Errorf("Expected closed-battle reply, got: %s", reply)
	}
	if posts := f.tg.sentTo(testChannelID); len(posts) != 0 {
		t.Errorf("Expected no channel posts, got %d", len(posts))
	}
}

func TestRegistrationJoinRequired(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	if _, err := f.channels.Add(ctx, "@partner_one"); err != nil {
		t.Fatalf("Failed to add channel: %v", err)
	}
	f.tg.memberType = models.ChatMemberTypeLeft

	f.handler.HandleMessage(ctx, nil, message(500, "alice_99", "@alice_99"))

	reply := f.tg.lastTo(t, int64(500))
	expected := f.loc.MustLocalizeWithTemplate(locale.JoinChannelPrompt, "https://t.me/partner_one")
	if reply != expected {
		t.Errorf("Expected join prompt:\n%s\ngot:\n%s", expected, reply)
	}
	if posts := f.tg.sentTo(testChannelID); len(posts) != 0 {
		t.Errorf("Expected no channel posts, got %d", len(posts))
	}
}

func TestRegistrationForeignUsernameReply(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.handler.HandleMessage(ctx, nil, message(500, "alice_99", "@someone_else"))

	reply := f.tg.lastTo(t, int64(500))
	if !strings.Contains(reply, "@alice_99") {
		t.Errorf("Expected reply to name the real handle, got: %s", reply)
	}
}

func TestRegistrationDuplicateReply(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.handler.HandleMessage(ctx, nil, message(500, "alice_99", "@alice_99"))
	f.handler.HandleMessage(ctx, nil, message(500, "alice_99", "@alice_99"))

	reply := f.tg.lastTo(t, int64(500))
	expected := f.loc.MustLocalizeWithTemplate(locale.AlreadyRegistered, "1")
	if reply != expected {
		t.Errorf("Expected duplicate reply:\n%s\ngot:\n%s", expected, reply)
	}
	if posts := f.tg.sentTo(testChannelID); len(posts) != 1 {
		t.Errorf("Expected a single channel post, got %d", len(posts))
	}
}

func TestAdminIdleTextFallsThroughToPipeline(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", "@admin_user"))

	reply := f.tg.lastTo(t, testAdminID)
	expected := f.loc.MustLocalizeWithTemplate(locale.SuccessReply, "1", testChannelID)
	if reply != expected {
		t.Errorf("Expected admin registration to go through the pipeline, got: %s", reply)
	}
}

func TestMenuLabelBeatsSessionMode(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", LabelSetTemplate))
	if f.sessions.Get(testAdminID) != ModeAwaitTemplate {
		t.Fatalf("Expected template mode after Set Template")
	}

	// An exact menu label is a command, not template text.
	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", LabelStopBattle))

	reply := f.tg.lastTo(t, testAdminID)
	if reply != f.loc.MustLocalize(locale.BattleStopped) {
		t.Errorf("Expected battle-stopped reply, got: %s", reply)
	}
	tmpl, err := f.settings.Get(ctx, domain.SettingTemplate)
	if err != nil {
		t.Fatalf("Failed to read template: %v", err)
	}
	if tmpl == LabelStopBattle {
		t.Errorf("Expected menu label to not be stored as template")
	}
}

func TestSetTemplateFlow(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", LabelSetTemplate))
	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", "Yangi g'olib: {username} #{num}"))

	if f.sessions.Get(testAdminID) != ModeIdle {
		t.Errorf("Expected mode reset after template input")
	}
	reply := f.tg.lastTo(t, testAdminID)
	if reply != f.loc.MustLocalize(locale.TemplateUpdated) {
		t.Errorf("Expected template-updated reply, got: %s", reply)
	}

	tmpl, err := f.settings.Get(ctx, domain.SettingTemplate)
	if err != nil {
		t.Fatalf("Failed to read template: %v", err)
	}
	if tmpl != "Yangi g'olib: {username} #{num}" {
		t.Errorf("Expected stored template, got: %s", tmpl)
	}

	// Next registration must use the new template.
	f.handler.HandleMessage(ctx, nil, message(500, "alice_99", "@alice_99"))
	posts := f.tg.sentTo(testChannelID)
	if len(posts) != 1 {
		t.Fatalf("Expected 1 channel post, got %d", len(posts))
	}
	if !strings.Contains(posts[0], "Yangi g'olib: @alice_99 #1") {
		t.Errorf("Expected post rendered from the new template, got: %s", posts[0])
	}
}

func TestAddChannelFlow(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", LabelAddChannel))
	if f.sessions.Get(testAdminID) != ModeAwaitAddChannel {
		t.Fatalf("Expected add-channel mode")
	}

	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", "@partner_one"))

	if f.sessions.Get(testAdminID) != ModeIdle {
		t.Errorf("Expected mode reset after channel input")
	}
	channels, err := f.channels.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list channels: %v", err)
	}
	if len(channels) != 1 || channels[0].Name != "@partner_one" {
		t.Errorf("Expected @partner_one in registry, got: %+v", channels)
	}
	reply := f.tg.lastTo(t, testAdminID)
	expected := f.loc.MustLocalizeWithTemplate(locale.ChannelAdded, "@partner_one")
	if reply != expected {
		t.Errorf("Expected channel-added reply:\n%s\ngot:\n%s", expected, reply)
	}
}

func TestDeleteChannelFlow(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	id, err := f.channels.Add(ctx, "@partner_one")
	if err != nil {
		t.Fatalf("Failed to add channel: %v", err)
	}

	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", LabelDeleteChannel))
	if f.sessions.Get(testAdminID) != ModeAwaitDeleteChannel {
		t.Fatalf("Expected delete mode")
	}
	listing := f.tg.lastTo(t, testAdminID)
	if !strings.Contains(listing, "@partner_one") {
		t.Errorf("Expected listing to show the channel, got: %s", listing)
	}

	// Non-numeric input keeps the mode and reprompts.
	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", "not a number"))
	if f.sessions.Get(testAdminID) != ModeAwaitDeleteChannel {
		t.Errorf("Expected delete mode kept after malformed input")
	}
	if reply := f.tg.lastTo(t, testAdminID); reply != f.loc.MustLocalize(locale.DeleteNumericOnly) {
		t.Errorf("Expected numeric-only reprompt, got: %s", reply)
	}

	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", "1"))
	if f.sessions.Get(testAdminID) != ModeIdle {
		t.Errorf("Expected mode reset after numeric input")
	}
	if reply := f.tg.lastTo(t, testAdminID); reply != f.loc.MustLocalize(locale.ChannelDeleted) {
		t.Errorf("Expected channel-deleted reply, got: %s", reply)
	}

	channels, err := f.channels.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list channels: %v", err)
	}
	if len(channels) != 0 {
		t.Errorf("Expected empty registry, got %d channels (deleted id was %d)", len(channels), id)
	}
}

func TestDeleteChannelUnknownID(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	if _, err := f.channels.Add(ctx, "@partner_one"); err != nil {
		t.Fatalf("Failed to add channel: %v", err)
	}

	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", LabelDeleteChannel))
	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", "999"))

	if f.sessions.Get(testAdminID) != ModeIdle {
		t.Errorf("Expected mode reset after unknown id")
	}
	if reply := f.tg.lastTo(t, testAdminID); reply != f.loc.MustLocalize(locale.ChannelNotFound) {
		t.Errorf("Expected not-found reply, got: %s", reply)
	}
}

func TestDeleteChannelEmptyRegistry(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", LabelDeleteChannel))

	if f.sessions.Get(testAdminID) != ModeIdle {
		t.Errorf("Expected no mode entered for an empty registry")
	}
	if reply := f.tg.lastTo(t, testAdminID); reply != f.loc.MustLocalize(locale.ChannelListEmpty) {
		t.Errorf("Expected empty-registry reply, got: %s", reply)
	}
}

func TestStatisticsReply(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.handler.HandleMessage(ctx, nil, message(500, "alice_99", "@alice_99"))
	f.handler.HandleMessage(ctx, nil, message(501, "bob_2024", "@bob_2024"))

	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", LabelStatistics))

	reply := f.tg.lastTo(t, testAdminID)
	expected := f.loc.MustLocalizeWithTemplate(locale.Statistics, "2", "2")
	if reply != expected {
		t.Errorf("Expected statistics reply:\n%s\ngot:\n%s", expected, reply)
	}
}

func TestStatCommandIsPublic(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.handler.HandleMessage(ctx, nil, message(500, "alice_99", "@alice_99"))
	f.handler.HandleStat(ctx, nil, message(501, "bob_2024", "/stat"))

	reply := f.tg.lastTo(t, int64(501))
	expected := f.loc.MustLocalizeWithTemplate(locale.Statistics, "1", "1")
	if reply != expected {
		t.Errorf("Expected statistics for a regular user, got: %s", reply)
	}
}

func TestSubscriptionsMenuAndBack(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", LabelSubscriptions))

	params := f.tg.sent[len(f.tg.sent)-1]
	kb, ok := params.ReplyMarkup.(*models.ReplyKeyboardMarkup)
	if !ok {
		t.Fatalf("Expected a reply keyboard, got %T", params.ReplyMarkup)
	}
	if kb.Keyboard[0][0].Text != LabelAddChannel || kb.Keyboard[0][1].Text != LabelDeleteChannel {
		t.Errorf("Expected subscriptions row, got %+v", kb.Keyboard[0])
	}

	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", LabelAddChannel))
	f.handler.HandleMessage(ctx, nil, message(testAdminID, "admin_user", LabelBack))

	if f.sessions.Get(testAdminID) != ModeIdle {
		t.Errorf("Expected Back to clear the session mode")
	}
	if reply := f.tg.lastTo(t, testAdminID); reply != f.loc.MustLocalize(locale.MainMenuTitle) {
		t.Errorf("Expected main menu title, got: %s", reply)
	}
}

func TestMembershipVerifierClassification(t *testing.T) {
	testCases := []struct {
		memberType models.ChatMemberType
		expected   domain.MembershipStatus
	}{
		{models.ChatMemberTypeOwner, domain.MembershipSubscribed},
		{models.ChatMemberTypeAdministrator, domain.MembershipSubscribed},
		{models.ChatMemberTypeMember, domain.MembershipSubscribed},
		{models.ChatMemberTypeRestricted, domain.MembershipNotSubscribed},
		{models.ChatMemberTypeLeft, domain.MembershipNotSubscribed},
		{models.ChatMemberTypeBanned, domain.MembershipNotSubscribed},
	}

	for _, tc := range testCases {
		tg := &fakeTelegram{memberType: tc.memberType}
		verifier := NewMembershipVerifier(tg, &mockLogger{})

		status, err := verifier.CheckMembership(context.Background(), "@partner_one", 500)
		if err != nil {
			t.Fatalf("Expected no error for type %v, got: %v", tc.memberType, err)
		}
		if status != tc.expected {
			t.Errorf("Expected %v for type %v, got %v", tc.expected, tc.memberType, status)
		}
	}
}

func TestChatRef(t *testing.T) {
	testCases := []struct {
		channel  string
		expected any
	}{
		{"@battle_channel", "@battle_channel"},
		{"-1001234567890", int64(-1001234567890)},
		{"-not-a-number", "-not-a-number"},
	}

	for _, tc := range testCases {
		if got := chatRef(tc.channel); got != tc.expected {
			t.Errorf("chatRef(%q) = %v (%T), expected %v (%T)", tc.channel, got, got, tc.expected, tc.expected)
		}
	}
}
