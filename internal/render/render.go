// Package render turns trips into Telegram HTML cards and maps countdowns
// and validation failures to user-facing text.
package render

import (
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"trip-planner/internal/trips"
)

const (
	textUnsetBudget = "未設定"
	textNoTrips     = "まだ旅行が登録されていません"
	textPast        = "終了済み"
	textToday       = "今日出発！"
)

var validationTexts = map[trips.Reason]string{
	trips.ReasonMissingDestination: "目的地を入力してください",
	trips.ReasonMissingDates:       "開始日と終了日を入力してください",
	trips.ReasonInvalidDate:        "日付は YYYY-MM-DD 形式で入力してください",
	trips.ReasonInvalidDateRange:   "開始日は終了日より前である必要があります",
	trips.ReasonInvalidBudget:      "予算は0以上の数値で入力してください",
}

type Renderer struct {
	printer        *message.Printer
	currencySuffix string
}

// New builds a renderer for a BCP 47 language tag such as "ja". Unknown tags
// fall back to Japanese.
func New(lang, currencySuffix string) *Renderer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Japanese
	}
	return &Renderer{
		printer:        message.NewPrinter(tag),
		currencySuffix: currencySuffix,
	}
}

// Budget formats an amount with locale digit grouping, e.g. "50,000円".
func (r *Renderer) Budget(b *trips.Amount) string {
	if b == nil {
		return textUnsetBudget
	}
	return r.printer.Sprintf("%d", int64(*b)) + r.currencySuffix
}

func (r *Renderer) Date(d trips.Date) string {
	return fmt.Sprintf("%d/%d/%d", d.Year, int(d.Month), d.Day)
}

func (r *Renderer) Countdown(c trips.Countdown) string {
	switch c.Kind {
	case trips.CountdownPast:
		return textPast
	case trips.CountdownToday:
		return textToday
	default:
		return fmt.Sprintf("%d日", c.Days)
	}
}

// Card renders one trip. All user-supplied text is escaped.
func (r *Renderer) Card(t trips.Trip, c trips.Countdown) string {
	var b strings.Builder
	b.WriteString("<b>" + html.EscapeString(t.Destination) + "</b>\n")
	b.WriteString("開始日: " + r.Date(t.StartDate) + "\n")
	b.WriteString("終了日: " + r.Date(t.EndDate) + "\n")
	b.WriteString("予算: " + r.Budget(t.Budget) + "\n")
	b.WriteString("あと: " + r.Countdown(c) + "\n")
	if t.Notes != "" {
		b.WriteString("<i>" + html.EscapeString(t.Notes) + "</i>\n")
	}
	b.WriteString(fmt.Sprintf("ID: <code>%d</code>", t.ID))
	return b.String()
}

// List renders trips in the given order, separated by blank lines.
func (r *Renderer) List(ts []trips.Trip, countdown func(trips.Trip) trips.Countdown) string {
	if len(ts) == 0 {
		return textNoTrips
	}
	cards := make([]string, 0, len(ts))
	for _, t := range ts {
		cards = append(cards, r.Card(t, countdown(t)))
	}
	return strings.Join(cards, "\n\n")
}

// Digest lists trips that have not started yet or start today. ok is false
// when there is nothing to remind about.
func (r *Renderer) Digest(ts []trips.Trip, countdown func(trips.Trip) trips.Countdown) (string, bool) {
	var b strings.Builder
	for _, t := range ts {
		c := countdown(t)
		if c.Kind == trips.CountdownPast {
			continue
		}
		if b.Len() == 0 {
			b.WriteString("⏰ <b>旅行リマインダー</b>\n")
		}
		b.WriteString(fmt.Sprintf("• <b>%s</b> (%s): %s\n", html.EscapeString(t.Destination), r.Date(t.StartDate), r.Countdown(c)))
	}
	if b.Len() == 0 {
		return "", false
	}
	return strings.TrimRight(b.String(), "\n"), true
}

// ValidationMessage maps a validation failure to the text shown to the user.
// ok is false for errors that are not validation errors.
func (r *Renderer) ValidationMessage(err error) (string, bool) {
	ve, ok := trips.AsValidation(err)
	if !ok {
		return "", false
	}
	if s, found := validationTexts[ve.Reason]; found {
		return s, true
	}
	return string(ve.Reason), true
}
