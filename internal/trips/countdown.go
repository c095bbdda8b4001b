package trips

import "time"

type CountdownKind int

const (
	CountdownPast CountdownKind = iota
	CountdownToday
	CountdownUpcoming
)

// Countdown is the display category of a trip's start relative to now.
// Days is the calendar day count, negative for trips already past.
type Countdown struct {
	Kind CountdownKind
	Days int
}

// DaysUntil counts calendar days from now's date, in now's location, to
// start: a trip starting today counts as today and one starting tomorrow
// counts as one day away. Both dates are compared at UTC midnight so a DST
// change in between does not shift the count.
func DaysUntil(now time.Time, start Date) Countdown {
	diff := start.In(time.UTC).Sub(DateOf(now).In(time.UTC))
	days := int(diff.Hours() / 24)
	switch {
	case days < 0:
		return Countdown{Kind: CountdownPast, Days: days}
	case days == 0:
		return Countdown{Kind: CountdownToday}
	default:
		return Countdown{Kind: CountdownUpcoming, Days: days}
	}
}
