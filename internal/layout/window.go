package layout

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Window is the visible sub-range of the day grid.
type Window struct {
	Start Minutes `json:"start"`
	End   Minutes `json:"end"`
}

// Default display bounds.
const (
	DefaultStartLabel = "7:00 AM"
	DefaultEndLabel   = "10:00 PM"
)

// DefaultWindow returns 7:00 AM – 10:00 PM.
func DefaultWindow() Window {
	return Window{Start: 7 * 60, End: 22 * 60}
}

// ParseWindow builds a Window from two clock strings and validates it.
func ParseWindow(start, end string) (Window, error) {
	s, err := parseSlot(start)
	if err != nil {
		return Window{}, fmt.Errorf("start: %w", err)
	}
	e, err := parseSlot(end)
	if err != nil {
		return Window{}, fmt.Errorf("end: %w", err)
	}
	w := Window{Start: s, End: e}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

func parseSlot(s string) (Minutes, error) {
	t, err := ParseTime(s)
	if err != nil {
		return 0, err
	}
	if t.Kind() != KindClock {
		return 0, fmt.Errorf("%q is not a clock time", s)
	}
	return t.Minutes(nil), nil
}

// Validate checks that both bounds lie on the slot grid and Start <= End.
func (w Window) Validate() error {
	if err := validation.ValidateStruct(&w,
		validation.Field(&w.Start, validation.By(onSlotGrid)),
		validation.Field(&w.End, validation.By(onSlotGrid)),
	); err != nil {
		return err
	}
	if w.Start > w.End {
		return errors.New("start must not be after end")
	}
	return nil
}

func onSlotGrid(value any) error {
	m, _ := value.(Minutes)
	if !IsSlot(m) {
		return fmt.Errorf("%d is not a slot boundary", int(m))
	}
	return nil
}

// StartLabel renders the window start as a slot label.
func (w Window) StartLabel() string { return FormatClock(w.Start) }

// EndLabel renders the window end as a slot label.
func (w Window) EndLabel() string { return FormatClock(w.End) }

// Slots returns the slot minutes rendered for w, both bounds included.
func (w Window) Slots() []Minutes {
	all := Slots()
	from, to := SlotIndex(w.Start), SlotIndex(w.End)
	if from < 0 || to < 0 || from > to {
		return nil
	}
	return all[from : to+1]
}

// Height is the pixel height of the grid rendered for w.
func (w Window) Height() int {
	return len(w.Slots()) * SlotHeight
}
