package layout

import (
	"errors"
	"testing"
	"time"
)

func TestToMinutes_Clock(t *testing.T) {
	tests := []struct {
		in   string
		want Minutes
	}{
		{"12:00 AM", 0},
		{"12:00 PM", 720},
		{"11:59 PM", 1439},
		{"1:30 PM", 810},
		{"07:00 AM", 420},
		{"9:05 am", 545},
		{"18:45", 1125},
	}
	for _, tt := range tests {
		if got := ToMinutes(tt.in, nil); got != tt.want {
			t.Errorf("ToMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestToMinutes_FailSoft(t *testing.T) {
	for _, in := range []string{"", "noon", "13:00 PM", "9:75 AM", "25:00"} {
		if got := ToMinutes(in, nil); got != 0 {
			t.Errorf("ToMinutes(%q) = %d, want 0", in, got)
		}
	}
}

func TestToMinutes_InstantUsesLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	const ts = "2024-01-15T08:30:00Z"
	if got := ToMinutes(ts, nil); got != 8*60+30 {
		t.Errorf("UTC minutes = %d", got)
	}
	if got := ToMinutes(ts, paris); got != 9*60+30 {
		t.Errorf("Paris minutes = %d, want %d", got, 9*60+30)
	}
	if got := ToMinutes("2024-01-15 08:30:00+00", paris); got != 9*60+30 {
		t.Errorf("short-offset minutes = %d, want %d", got, 9*60+30)
	}
}

func TestParseTime_Kinds(t *testing.T) {
	c, err := ParseTime("2:15 PM")
	if err != nil {
		t.Fatal(err)
	}
	if c.Kind() != KindClock || c.String() != "2:15 PM" {
		t.Errorf("clock = %v (%d)", c, c.Kind())
	}

	i, err := ParseTime("2024-03-01T10:00:00.000Z")
	if err != nil {
		t.Fatal(err)
	}
	if i.Kind() != KindInstant {
		t.Errorf("kind = %d, want instant", i.Kind())
	}

	if _, err := ParseTime("later"); !errors.Is(err, ErrUnparseable) {
		t.Errorf("err = %v, want ErrUnparseable", err)
	}
}

func TestTimeOn_AnchorsClockOnDate(t *testing.T) {
	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	got := Clock(810).On(date, time.UTC)
	want := time.Date(2024, 5, 2, 13, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("On = %v, want %v", got, want)
	}
}

func TestFormatClock(t *testing.T) {
	tests := map[Minutes]string{
		0:        "12:00 AM",
		30:       "12:30 AM",
		720:      "12:00 PM",
		810:      "1:30 PM",
		EndOfDay: EndOfDayLabel,
	}
	for m, want := range tests {
		if got := FormatClock(m); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", m, got, want)
		}
	}
}

func TestDuration_WrapsMidnight(t *testing.T) {
	if got := Duration(23*60, 60); got != 120 {
		t.Errorf("Duration = %d, want 120", got)
	}
	if got := Duration(60, 90); got != 30 {
		t.Errorf("Duration = %d, want 30", got)
	}
}
