package trips

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) IsZero() bool { return d == Date{} }

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Amount is a non-negative budget in whole currency units.
type Amount int64

// ParseAmount parses a user-entered budget. Empty input means unset and
// yields nil. Thousands separators are accepted.
func ParseAmount(s string) (*Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	s = strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if n < 0 {
		return nil, fmt.Errorf("negative amount %d", n)
	}
	a := Amount(n)
	return &a, nil
}

// Trip is a single planned journey.
type Trip struct {
	ID          int64     `json:"id"`
	Destination string    `json:"destination"`
	StartDate   Date      `json:"startDate"`
	EndDate     Date      `json:"endDate"`
	Budget      *Amount   `json:"budget,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UnmarshalJSON accepts budgets written either as numbers or as the numeric
// strings older page versions stored ("" meaning unset).
func (t *Trip) UnmarshalJSON(data []byte) error {
	type plain Trip
	aux := struct {
		*plain
		Budget json.RawMessage `json:"budget,omitempty"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	b, err := decodeBudget(aux.Budget)
	if err != nil {
		return fmt.Errorf("trip %d: %w", t.ID, err)
	}
	t.Budget = b
	return nil
}

func decodeBudget(raw json.RawMessage) (*Amount, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return ParseAmount(s)
	}
	return ParseAmount(string(raw))
}

// Candidate holds raw field values collected by a UI before validation.
type Candidate struct {
	Destination string
	StartDate   string
	EndDate     string
	Budget      string
	Notes       string
}

// validate checks the candidate in order and returns the parsed trip
// without ID or CreatedAt. The first failing rule wins.
func (c Candidate) validate() (Trip, error) {
	dest := strings.TrimSpace(c.Destination)
	if dest == "" {
		return Trip{}, &ValidationError{Field: "destination", Reason: ReasonMissingDestination}
	}
	startRaw, endRaw := strings.TrimSpace(c.StartDate), strings.TrimSpace(c.EndDate)
	if startRaw == "" || endRaw == "" {
		return Trip{}, &ValidationError{Field: "dates", Reason: ReasonMissingDates}
	}
	start, err := ParseDate(startRaw)
	if err != nil {
		return Trip{}, &ValidationError{Field: "startDate", Reason: ReasonInvalidDate, Err: err}
	}
	end, err := ParseDate(endRaw)
	if err != nil {
		return Trip{}, &ValidationError{Field: "endDate", Reason: ReasonInvalidDate, Err: err}
	}
	if start.After(end) {
		return Trip{}, &ValidationError{Field: "dates", Reason: ReasonInvalidDateRange}
	}
	budget, err := ParseAmount(c.Budget)
	if err != nil {
		return Trip{}, &ValidationError{Field: "budget", Reason: ReasonInvalidBudget, Err: err}
	}
	return Trip{
		Destination: dest,
		StartDate:   start,
		EndDate:     end,
		Budget:      budget,
		Notes:       strings.TrimSpace(c.Notes),
	}, nil
}
