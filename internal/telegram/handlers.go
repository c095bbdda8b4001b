package telegram

import (
	"context"
	"html"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"trip-planner/internal/trips"
)

const helpText = `✈️ 旅行プランナー

/add 目的地 | 開始日 | 終了日 | 予算 | メモ
  例: /add 京都 | 2025-05-01 | 2025-05-03 | 50000 | 寺巡り
  予算とメモは省略できます
/list 旅行一覧
/delete ID 旅行を削除`

// handleIncomingMessage routes commands; any other text gets the help.
func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From != nil {
		log.Printf("Incoming message from %d (@%s): %q", msg.From.ID, msg.From.UserName, msg.Text)
	}
	if !msg.IsCommand() {
		b.sendMessage(msg.Chat.ID, helpText)
		return
	}
	b.handleCommand(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.sendMessage(msg.Chat.ID, helpText)
	case "add":
		b.handleAdd(ctx, msg)
	case "list":
		b.sendList(msg.Chat.ID)
	case "delete":
		b.handleDeleteRequest(msg)
	default:
		b.sendMessage(msg.Chat.ID, "不明なコマンドです。/help を参照してください")
	}
}

func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message) {
	trip, err := b.store.Create(ctx, parseCandidate(msg.CommandArguments()))
	if err != nil {
		b.reportError(msg.Chat.ID, "create", err)
		return
	}
	log.Printf("✅ Trip %d created: %q", trip.ID, trip.Destination)
	b.sendList(msg.Chat.ID)
}

// handleDeleteRequest is the first step of deletion: it shows the trip and
// asks for confirmation. Nothing is removed until the confirm callback.
func (b *Bot) handleDeleteRequest(msg *tgbotapi.Message) {
	id, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil {
		b.sendMessage(msg.Chat.ID, "使い方: /delete ID")
		return
	}
	trip, ok := b.store.Get(id)
	if !ok {
		b.sendMessage(msg.Chat.ID, "指定された旅行が見つかりません")
		return
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("削除する", confirmDeletePrefix+strconv.FormatInt(id, 10)),
			tgbotapi.NewInlineKeyboardButtonData("キャンセル", cancelDeletePrefix+strconv.FormatInt(id, 10)),
		),
	)
	out := tgbotapi.NewMessage(msg.Chat.ID, "この旅行を削除しますか？\n\n"+b.render.Card(trip, b.store.Countdown(trip)))
	out.ParseMode = b.parseMode
	out.ReplyMarkup = kb
	if _, err := b.s.Send(out); err != nil {
		log.Printf("failed to send delete confirmation: %v", err)
	}
}

// handleCallback answers the delete confirmation buttons. Only a del: callback
// removes a trip.
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.s.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("failed to answer callback: %v", err)
	}
	if cb.Message == nil {
		return
	}
	chatID, messageID := cb.Message.Chat.ID, cb.Message.MessageID

	switch {
	case strings.HasPrefix(cb.Data, confirmDeletePrefix):
		id, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, confirmDeletePrefix), 10, 64)
		if err != nil {
			log.Printf("bad delete callback %q: %v", cb.Data, err)
			return
		}
		if err := b.store.Delete(ctx, id); err != nil {
			b.reportError(chatID, "delete", err)
			return
		}
		log.Printf("🗑️ Trip %d deleted", id)
		b.editMessage(chatID, messageID, "削除しました")
		b.sendList(chatID)
	case strings.HasPrefix(cb.Data, cancelDeletePrefix):
		b.editMessage(chatID, messageID, "削除をキャンセルしました")
	}
}

func (b *Bot) editMessage(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = b.parseMode
	if _, err := b.s.Send(edit); err != nil {
		log.Printf("failed to edit message: %v", err)
	}
}

// reportError replies with the localized validation text, or a generic
// notice for storage failures. The collection is unchanged either way.
func (b *Bot) reportError(chatID int64, op string, err error) {
	if text, ok := b.render.ValidationMessage(err); ok {
		b.sendMessage(chatID, text)
		return
	}
	log.Printf("❌ Trip %s failed: %v", op, err)
	if trips.IsStorage(err) {
		b.sendMessage(chatID, "保存に失敗しました。しばらくしてから再度お試しください")
		return
	}
	b.sendMessage(chatID, "エラーが発生しました: "+html.EscapeString(err.Error()))
}

// parseCandidate splits "/add" arguments on '|'. Missing trailing fields stay
// empty and are left to validation; extra separators belong to the notes.
func parseCandidate(args string) trips.Candidate {
	parts := strings.SplitN(args, "|", 5)
	field := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}
	return trips.Candidate{
		Destination: field(0),
		StartDate:   field(1),
		EndDate:     field(2),
		Budget:      field(3),
		Notes:       field(4),
	}
}
