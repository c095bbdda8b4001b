package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"trip-planner/internal/bootstrap"
	"trip-planner/internal/config"
	"trip-planner/internal/render"
	"trip-planner/internal/scheduler"
	"trip-planner/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if cfg.TelegramBotToken == "" {
		log.Fatalf("TELEGRAM_BOT_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeKV, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to load trips: %v", err)
	}
	defer closeKV()

	r := render.New(cfg.Language, cfg.CurrencySuffix)
	bot, err := telegram.New(cfg.TelegramBotToken, store, r, cfg.MessageParseMode)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	if cfg.ReminderChatID != 0 {
		sched := scheduler.New(cfg.ReminderCron, cfg.Location())
		sched.SetDigestFunction(func(ctx context.Context) error {
			return bot.SendDigest(ctx, cfg.ReminderChatID)
		})
		if err := sched.Start(); err != nil {
			log.Printf("❌ failed to start scheduler: %v", err)
		} else {
			defer sched.Stop()
		}
	}

	log.Printf("🚀 Trip bot started with %d trips", store.Len())
	bot.Start(ctx)
	log.Printf("👋 Trip bot stopped")
}
