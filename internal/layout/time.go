package layout

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Minutes is a time of day expressed as minutes since local midnight.
type Minutes int

// Day-grid constants shared by every renderer.
const (
	MinutesPerDay         = 24 * 60
	SlotMinutes           = 30
	SlotHeight            = 40
	ColumnWidth           = 80
	EndOfDay      Minutes = MinutesPerDay - 1
	EndOfDayLabel         = "11:59 PM"
)

// String renders m as a 12-hour clock label.
func (m Minutes) String() string {
	return FormatClock(m)
}

// FormatClock renders m as "h:mm AM|PM" with no leading zero on the hour.
func FormatClock(m Minutes) string {
	m = ((m % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	h, mm := int(m)/60, int(m)%60
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, mm, period)
}

// Kind discriminates the two representations a stored time may take.
type Kind uint8

const (
	KindClock Kind = iota + 1
	KindInstant
)

// Time is either a wall-clock reading (no date, no zone) or an absolute
// instant. The zero value is invalid.
type Time struct {
	kind    Kind
	clock   Minutes
	instant time.Time
}

// Clock returns a wall-clock Time.
func Clock(m Minutes) Time {
	return Time{kind: KindClock, clock: m}
}

// Instant returns an absolute Time.
func Instant(t time.Time) Time {
	return Time{kind: KindInstant, instant: t}
}

// Kind reports which representation t holds.
func (t Time) Kind() Kind { return t.kind }

// IsZero reports whether t was never set.
func (t Time) IsZero() bool { return t.kind == 0 }

// Minutes reduces t to minutes since midnight. Instants are converted into
// loc first; a nil loc means UTC.
func (t Time) Minutes(loc *time.Location) Minutes {
	switch t.kind {
	case KindClock:
		return t.clock
	case KindInstant:
		if loc == nil {
			loc = time.UTC
		}
		local := t.instant.In(loc)
		return Minutes(local.Hour()*60 + local.Minute())
	default:
		return 0
	}
}

// On anchors t on the calendar day of date in loc. Instants are returned
// unchanged.
func (t Time) On(date time.Time, loc *time.Location) time.Time {
	if t.kind == KindInstant {
		return t.instant
	}
	if loc == nil {
		loc = time.UTC
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, int(t.clock)/60, int(t.clock)%60, 0, 0, loc)
}

// String renders clocks as "h:mm AM" and instants as RFC 3339 in UTC.
func (t Time) String() string {
	switch t.kind {
	case KindClock:
		return FormatClock(t.clock)
	case KindInstant:
		return t.instant.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

// ErrUnparseable is returned by ParseTime for input that is neither a clock
// reading nor a timestamp.
var ErrUnparseable = errors.New("layout: unparseable time")

var (
	clock12Re = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])$`)
	clock24Re = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// Zone-less layouts are read as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

// ParseTime resolves s into a Time. Accepted forms are "h:mm AM|PM",
// 24-hour "HH:MM", and full timestamps.
func ParseTime(s string) (Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Time{}, ErrUnparseable
	}

	if m := clock12Re.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if h < 1 || h > 12 || mm > 59 {
			return Time{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
		}
		h %= 12
		if strings.EqualFold(m[3], "PM") {
			h += 12
		}
		return Clock(Minutes(h*60 + mm)), nil
	}

	if m := clock24Re.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if h > 23 || mm > 59 {
			return Time{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
		}
		return Clock(Minutes(h*60 + mm)), nil
	}

	for _, l := range instantLayouts {
		if ts, err := time.Parse(l, s); err == nil {
			return Instant(ts), nil
		}
	}
	return Time{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
}

// ToMinutes converts s to minutes since midnight in loc. Unparseable input
// yields 0; callers must not treat 0 as meaningful.
func ToMinutes(s string, loc *time.Location) Minutes {
	t, err := ParseTime(s)
	if err != nil {
		return 0
	}
	return t.Minutes(loc)
}

// Duration returns the elapsed minutes from start to end, wrapping past
// midnight when end precedes start.
func Duration(start, end Minutes) Minutes {
	if end < start {
		end += MinutesPerDay
	}
	return end - start
}
