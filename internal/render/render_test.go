package render

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"trip-planner/internal/kv"
	"trip-planner/internal/trips"
)

func amount(n int64) *trips.Amount {
	a := trips.Amount(n)
	return &a
}

func TestBudget(t *testing.T) {
	r := New("ja", "円")
	if got := r.Budget(amount(50000)); got != "50,000円" {
		t.Fatalf("budget = %q", got)
	}
	if got := r.Budget(amount(0)); got != "0円" {
		t.Fatalf("zero budget = %q", got)
	}
	if got := r.Budget(nil); got != "未設定" {
		t.Fatalf("unset budget = %q", got)
	}
}

func TestCountdownTexts(t *testing.T) {
	r := New("ja", "円")
	if r.Countdown(trips.Countdown{Kind: trips.CountdownPast, Days: -2}) != "終了済み" {
		t.Fatalf("past text")
	}
	if r.Countdown(trips.Countdown{Kind: trips.CountdownToday}) != "今日出発！" {
		t.Fatalf("today text")
	}
	if got := r.Countdown(trips.Countdown{Kind: trips.CountdownUpcoming, Days: 3}); got != "3日" {
		t.Fatalf("upcoming text = %q", got)
	}
}

func TestCard_EscapesUserText(t *testing.T) {
	r := New("ja", "円")
	trip := trips.Trip{
		ID:          7,
		Destination: "<script>alert(1)</script>",
		StartDate:   trips.Date{Year: 2025, Month: time.May, Day: 1},
		EndDate:     trips.Date{Year: 2025, Month: time.May, Day: 3},
		Budget:      amount(50000),
		Notes:       "a & b",
	}
	card := r.Card(trip, trips.Countdown{Kind: trips.CountdownUpcoming, Days: 3})
	if strings.Contains(card, "<script>") {
		t.Fatalf("destination not escaped: %q", card)
	}
	for _, want := range []string{"&lt;script&gt;", "2025/5/1", "2025/5/3", "50,000円", "3日", "a &amp; b", "<code>7</code>"} {
		if !strings.Contains(card, want) {
			t.Fatalf("card missing %q: %q", want, card)
		}
	}
}

func TestListAndDigest(t *testing.T) {
	r := New("ja", "円")
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	s, err := trips.New(context.Background(), kv.NewMemoryStore(), trips.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	countdown := s.Countdown

	if got := r.List(nil, countdown); got != "まだ旅行が登録されていません" {
		t.Fatalf("empty list = %q", got)
	}
	if _, ok := r.Digest(nil, countdown); ok {
		t.Fatalf("empty digest should be skipped")
	}

	for _, c := range []trips.Candidate{
		{Destination: "Past", StartDate: "2025-04-01", EndDate: "2025-04-02"},
		{Destination: "Today", StartDate: "2025-05-01", EndDate: "2025-05-02"},
		{Destination: "Soon", StartDate: "2025-05-04", EndDate: "2025-05-05"},
	} {
		if _, err := s.Create(context.Background(), c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	list := r.List(s.Sorted(), countdown)
	if strings.Count(list, "<b>") != 3 || strings.Index(list, "Past") > strings.Index(list, "Soon") {
		t.Fatalf("unexpected list: %q", list)
	}
	digest, ok := r.Digest(s.Sorted(), countdown)
	if !ok {
		t.Fatalf("digest expected")
	}
	if strings.Contains(digest, "Past") || !strings.Contains(digest, "今日出発！") || !strings.Contains(digest, "3日") {
		t.Fatalf("unexpected digest: %q", digest)
	}
}

func TestValidationMessage(t *testing.T) {
	r := New("ja", "円")
	s, _ := trips.New(context.Background(), kv.NewMemoryStore())
	_, err := s.Create(context.Background(), trips.Candidate{Destination: " "})
	msg, ok := r.ValidationMessage(err)
	if !ok || msg != "目的地を入力してください" {
		t.Fatalf("message = %q ok=%v", msg, ok)
	}
	if _, ok := r.ValidationMessage(errors.New("boom")); ok {
		t.Fatalf("non-validation error mapped")
	}
}
