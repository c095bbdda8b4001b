package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"trip-planner/internal/render"
	"trip-planner/internal/trips"
)

const (
	confirmDeletePrefix = "del:"
	cancelDeletePrefix  = "cancel:"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	s         sender
	store     *trips.Store
	render    *render.Renderer
	parseMode string
}

func New(botToken string, store *trips.Store, r *render.Renderer, parseMode string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	log.Printf("🤖 Authorized on account @%s", api.Self.UserName)
	return &Bot{
		api:       api,
		s:         botAPISender{api: api},
		store:     store,
		render:    r,
		parseMode: parseMode,
	}, nil
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil {
		b.handleIncomingMessage(ctx, update.Message)
		return
	}
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

// SendDigest pushes the upcoming-trip reminder to chatID. Nothing is sent
// when no trip is upcoming.
func (b *Bot) SendDigest(ctx context.Context, chatID int64) error {
	text, ok := b.render.Digest(b.store.Sorted(), b.store.Countdown)
	if !ok {
		log.Printf("📅 No upcoming trips, digest skipped")
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = b.parseMode
	_, err := b.s.Send(msg)
	return err
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = b.parseMode
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

// sendList re-renders the whole collection; it follows every completed
// mutation.
func (b *Bot) sendList(chatID int64) {
	b.sendMessage(chatID, b.render.List(b.store.Sorted(), b.store.Countdown))
}
