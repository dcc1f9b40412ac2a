package layout

// SlotCount is the number of half-hour slots in a day, excluding the
// terminal 11:59 PM sentinel.
const SlotCount = MinutesPerDay / SlotMinutes

// Slots returns every slot boundary from 12:00 AM through 11:30 PM followed
// by the 11:59 PM sentinel.
func Slots() []Minutes {
	out := make([]Minutes, 0, SlotCount+1)
	for i := 0; i < SlotCount; i++ {
		out = append(out, Minutes(i*SlotMinutes))
	}
	return append(out, EndOfDay)
}

// SlotLabels returns Slots rendered as clock labels.
func SlotLabels(slots []Minutes) []string {
	out := make([]string, len(slots))
	for i, m := range slots {
		out[i] = FormatClock(m)
	}
	return out
}

// IsSlot reports whether m is a slot boundary.
func IsSlot(m Minutes) bool {
	return SlotIndex(m) >= 0
}

// SlotIndex returns the position of m in Slots, or -1.
func SlotIndex(m Minutes) int {
	if m == EndOfDay {
		return SlotCount
	}
	if m < 0 || m >= MinutesPerDay || m%SlotMinutes != 0 {
		return -1
	}
	return int(m) / SlotMinutes
}
