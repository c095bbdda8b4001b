package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"trip-planner/internal/kv"
	"trip-planner/internal/render"
	"trip-planner/internal/trips"
)

type fakeSender struct {
	sent      []string
	edits     []string
	keyboards int
	requests  int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		f.sent = append(f.sent, m.Text)
		if m.ReplyMarkup != nil {
			f.keyboards++
		}
	case tgbotapi.EditMessageTextConfig:
		f.edits = append(f.edits, m.Text)
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

func newTestBot(t *testing.T) (*Bot, *fakeSender, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	now := time.Date(2025, 4, 28, 9, 0, 0, 0, time.UTC)
	store, err := trips.New(context.Background(), mem, trips.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	fs := &fakeSender{}
	return &Bot{s: fs, store: store, render: render.New("ja", "円"), parseMode: "HTML"}, fs, mem
}

func command(chatID int64, text string) *tgbotapi.Message {
	name := strings.SplitN(text, " ", 2)[0]
	return &tgbotapi.Message{
		From:     &tgbotapi.User{ID: 1, UserName: "traveler"},
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func callback(chatID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: 1},
		Message: &tgbotapi.Message{MessageID: 5, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}
}

func TestAdd_CreatesAndRerenders(t *testing.T) {
	b, fs, _ := newTestBot(t)
	b.handleIncomingMessage(context.Background(), command(10, "/add 京都 | 2025-05-01 | 2025-05-03 | 50000 | 寺巡り"))

	if b.store.Len() != 1 {
		t.Fatalf("trip not created")
	}
	out := fs.last()
	for _, want := range []string{"<b>京都</b>", "50,000円", "2025/5/1", "3日", "寺巡り"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list missing %q: %q", want, out)
		}
	}
}

func TestAdd_ValidationErrorIsReported(t *testing.T) {
	b, fs, mem := newTestBot(t)
	b.handleIncomingMessage(context.Background(), command(10, "/add 京都 | 2025-05-03 | 2025-05-01"))

	if b.store.Len() != 0 || mem.SetCalls() != 0 {
		t.Fatalf("invalid trip persisted")
	}
	if fs.last() != "開始日は終了日より前である必要があります" {
		t.Fatalf("unexpected reply: %q", fs.last())
	}
}

func TestAdd_StorageErrorIsReported(t *testing.T) {
	b, fs, mem := newTestBot(t)
	mem.FailWrites(errors.New("quota exceeded"))
	b.handleIncomingMessage(context.Background(), command(10, "/add 京都 | 2025-05-01 | 2025-05-03"))

	if b.store.Len() != 0 {
		t.Fatalf("trip kept despite failed write")
	}
	if !strings.Contains(fs.last(), "保存に失敗しました") {
		t.Fatalf("unexpected reply: %q", fs.last())
	}
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	b, fs, _ := newTestBot(t)
	trip, err := b.store.Create(context.Background(), trips.Candidate{Destination: "Kyoto", StartDate: "2025-05-01", EndDate: "2025-05-03"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := strconv.FormatInt(trip.ID, 10)

	b.handleIncomingMessage(context.Background(), command(10, "/delete "+id))
	if b.store.Len() != 1 {
		t.Fatalf("deleted before confirmation")
	}
	if fs.keyboards != 1 || !strings.Contains(fs.last(), "削除しますか") {
		t.Fatalf("confirmation prompt not sent: %+v", fs.sent)
	}

	b.handleCallback(context.Background(), callback(10, cancelDeletePrefix+id))
	if b.store.Len() != 1 {
		t.Fatalf("cancel removed the trip")
	}

	b.handleCallback(context.Background(), callback(10, confirmDeletePrefix+id))
	if b.store.Len() != 0 {
		t.Fatalf("confirm did not delete")
	}
	if len(fs.edits) != 2 || fs.edits[1] != "削除しました" {
		t.Fatalf("unexpected edits: %+v", fs.edits)
	}
	if fs.last() != "まだ旅行が登録されていません" {
		t.Fatalf("list not re-rendered: %q", fs.last())
	}
	if fs.requests != 2 {
		t.Fatalf("callbacks not answered: %d", fs.requests)
	}
}

func TestDelete_UnknownAndMalformedID(t *testing.T) {
	b, fs, _ := newTestBot(t)
	b.handleIncomingMessage(context.Background(), command(10, "/delete 999"))
	if fs.last() != "指定された旅行が見つかりません" {
		t.Fatalf("unexpected reply: %q", fs.last())
	}
	b.handleIncomingMessage(context.Background(), command(10, "/delete abc"))
	if !strings.Contains(fs.last(), "/delete") {
		t.Fatalf("usage not shown: %q", fs.last())
	}
	// a stale confirm for a trip that no longer exists is a no-op
	b.handleCallback(context.Background(), callback(10, confirmDeletePrefix+"999"))
	if len(fs.edits) != 1 {
		t.Fatalf("stale confirm should still acknowledge: %+v", fs.edits)
	}
}

func TestSendDigest(t *testing.T) {
	b, fs, _ := newTestBot(t)
	if err := b.SendDigest(context.Background(), 10); err != nil {
		t.Fatalf("digest: %v", err)
	}
	if len(fs.sent) != 0 {
		t.Fatalf("empty digest should not be sent")
	}
	if _, err := b.store.Create(context.Background(), trips.Candidate{Destination: "Kyoto", StartDate: "2025-05-01", EndDate: "2025-05-03"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := b.SendDigest(context.Background(), 10); err != nil {
		t.Fatalf("digest: %v", err)
	}
	if !strings.Contains(fs.last(), "旅行リマインダー") || !strings.Contains(fs.last(), "Kyoto") {
		t.Fatalf("unexpected digest: %q", fs.last())
	}
}

func TestParseCandidate(t *testing.T) {
	c := parseCandidate(" Naha | 2025-07-10|2025-07-12 |  | beach | snorkel ")
	if c.Destination != "Naha" || c.StartDate != "2025-07-10" || c.EndDate != "2025-07-12" || c.Budget != "" {
		t.Fatalf("unexpected candidate: %+v", c)
	}
	if c.Notes != "beach | snorkel" {
		t.Fatalf("notes = %q", c.Notes)
	}
	if c := parseCandidate(""); c != (trips.Candidate{}) {
		t.Fatalf("empty args: %+v", c)
	}
}

func TestNonCommandShowsHelp(t *testing.T) {
	b, fs, _ := newTestBot(t)
	b.handleIncomingMessage(context.Background(), &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, Text: "hello"})
	if !strings.Contains(fs.last(), "/add") {
		t.Fatalf("help not shown: %q", fs.last())
	}
}
