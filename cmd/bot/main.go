package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ad/telegram-username-battle/internal/bot"
	"github.com/ad/telegram-username-battle/internal/config"
	"github.com/ad/telegram-username-battle/internal/domain"
	"github.com/ad/telegram-username-battle/internal/locale"
	"github.com/ad/telegram-username-battle/internal/logger"
	"github.com/ad/telegram-username-battle/internal/storage"

	tgbot "github.com/go-telegram/bot"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

func main() {
	// Load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.ParseLevel(cfg.LogLevel))
	log.Info("Starting Username Battle bot", "log_level", cfg.LogLevel, "channel", cfg.ChannelID)

	localizer, err := locale.NewLocalizer(cfg.Locale)
	if err != nil {
		log.Error("Failed to load translations", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		log.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		log.Error("Failed to enable WAL mode", "error", err)
		os.Exit(1)
	}

	log.Info("Database opened", "path", cfg.DatabasePath)

	dbQueue := storage.NewDBQueue(db)
	defer dbQueue.Close()

	if err := storage.InitSchema(dbQueue); err != nil {
		log.Error("Failed to initialize database schema", "error", err)
		os.Exit(1)
	}

	settingsRepo := storage.NewSettingsRepository(dbQueue)
	channelRepo := storage.NewChannelRepository(dbQueue)
	userRepo := storage.NewUserRepository(dbQueue)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := settingsRepo.EnsureDefaults(ctx, map[string]string{
		domain.SettingBattleStatus: domain.StatusOn,
		domain.SettingTemplate:     domain.DefaultTemplate,
	}); err != nil {
		log.Error("Failed to seed default settings", "error", err)
		os.Exit(1)
	}

	log.Info("Storage ready")

	b, err := tgbot.New(cfg.TelegramToken)
	if err != nil {
		log.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	verifier := bot.NewMembershipVerifier(b, log)
	announcer := bot.NewChannelAnnouncer(b, cfg.ChannelID)
	registrar := domain.NewRegistrar(settingsRepo, channelRepo, userRepo, verifier, announcer, cfg.BoostLink, log)
	sessions := bot.NewAdminSessionStore()

	handler := bot.NewBotHandler(b, registrar, settingsRepo, channelRepo, userRepo, sessions, cfg, log, localizer)

	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypePrefix, handler.HandleStart)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/stat", tgbot.MatchTypeExact, handler.HandleStat)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "", tgbot.MatchTypePrefix, handler.HandleMessage)

	log.Info("Handlers registered")

	go func() {
		log.Info("Starting bot polling")
		b.Start(ctx)
	}()

	log.Info("Bot is running. Press Ctrl+C to stop.")

	<-ctx.Done()

	log.Info("Shutdown signal received, stopping bot")
}
