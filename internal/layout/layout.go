// Package layout positions time-ranged items on a half-hour day grid.
//
// Items are reduced to minutes since midnight before they reach this
// package. Overlapping items are spread into side-by-side columns and every
// item is mapped to pixel geometry relative to a display Window.
package layout

import (
	"cmp"
	"slices"
)

// Item is a time-ranged record as seen by the grid.
type Item struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Color string  `json:"color,omitempty"`
	Notes string  `json:"notes,omitempty"`
	Start Minutes `json:"start"`
	End   Minutes `json:"end"`
}

// Geometry is the pixel placement of an item inside the grid.
type Geometry struct {
	Top    int `json:"top"`
	Height int `json:"height"`
}

// Positioned is an Item with its column and geometry resolved.
type Positioned struct {
	Item
	Geometry
	Column int `json:"column"`
	// TotalColumns is always 1; width is whatever remains right of Left.
	TotalColumns int `json:"total_columns"`
	Left         int `json:"left"`
}

// Overlaps reports whether a and b intersect as half-open intervals.
// Touching endpoints do not overlap.
func Overlaps(a, b Item) bool {
	return a.Start < b.End && a.End > b.Start
}

// AssignColumns stable-sorts items by start and gives each one a column
// inside the first earlier group it overlaps. Groups are never merged, so an
// item bridging two groups only joins the first. The result is in sorted
// order and the input is not modified.
func AssignColumns(items []Item) []Positioned {
	out := make([]Positioned, len(items))
	for i, it := range items {
		out[i] = Positioned{Item: it, TotalColumns: 1}
	}
	slices.SortStableFunc(out, func(a, b Positioned) int {
		return cmp.Compare(a.Start, b.Start)
	})

	var groups [][]Item
	for i := range out {
		g := firstOverlapping(groups, out[i].Item)
		if g < 0 {
			groups = append(groups, nil)
			g = len(groups) - 1
		}
		out[i].Column = len(groups[g])
		groups[g] = append(groups[g], out[i].Item)
	}
	return out
}

func firstOverlapping(groups [][]Item, it Item) int {
	for i, g := range groups {
		for _, member := range g {
			if Overlaps(it, member) {
				return i
			}
		}
	}
	return -1
}

// ComputePosition maps it onto the grid rendered for w. Overnight items and
// items ending at the 11:59 PM sentinel are clipped to the window end, and
// the height never drops below one slot.
func ComputePosition(it Item, w Window) Geometry {
	start, end := it.Start, it.End

	var effEnd Minutes
	switch {
	case end == EndOfDay:
		effEnd = w.End
	case end < start:
		effEnd = min(end+MinutesPerDay, w.End)
	default:
		effEnd = min(end, w.End)
	}
	effStart := max(start, w.Start)

	relative := int(effStart - w.Start)
	duration := int(effEnd - effStart)

	height := SlotHeight
	if duration > 0 {
		height = max(SlotHeight, ceilDiv(duration, SlotMinutes)*SlotHeight)
	}
	return Geometry{
		Top:    floorDiv(relative, SlotMinutes) * SlotHeight,
		Height: height,
	}
}

// IsVisible reports whether it intersects w. Overnight items are compared on
// raw minutes, so their tail past midnight is not considered.
func IsVisible(it Item, w Window) bool {
	return it.Start < w.End && it.End > w.Start
}

// Layout filters items to those visible in w, assigns columns among the
// survivors and computes their geometry.
func Layout(items []Item, w Window) []Positioned {
	visible := make([]Item, 0, len(items))
	for _, it := range items {
		if IsVisible(it, w) {
			visible = append(visible, it)
		}
	}
	out := AssignColumns(visible)
	for i := range out {
		out[i].Geometry = ComputePosition(out[i].Item, w)
		out[i].Left = out[i].Column * ColumnWidth
	}
	return out
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
