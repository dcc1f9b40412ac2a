package mcpserver

// TimeFormatContract tells LLM consumers which date and time strings the
// tools accept and how they are interpreted.
const TimeFormatContract = `# Habits Time Format

## Dates

Calendar days are always ` + "`" + `YYYY-MM-DD` + "`" + ` (e.g. ` + "`" + `2024-03-04` + "`" + `).

## Times

` + "`" + `start_time` + "`" + ` and ` + "`" + `end_time` + "`" + ` accept any of:

- 12-hour clock: ` + "`" + `9:00 AM` + "`" + `, ` + "`" + `12:30 PM` + "`" + ` (case-insensitive, leading zero optional)
- 24-hour clock: ` + "`" + `21:15` + "`" + `
- RFC 3339 timestamp: ` + "`" + `2024-03-04T09:00:00Z` + "`" + `

Clock times on activities are anchored on the activity date in the server time zone
and stored as UTC timestamps. Plans keep their clock strings.

## Overnight

An end time earlier than the start time means the item runs past midnight
(e.g. ` + "`" + `11:00 PM` + "`" + ` to ` + "`" + `1:00 AM` + "`" + ` is two hours). On the day grid it is cut at the
bottom of the visible window.

## Day grid

- The day is split into 30-minute slots from ` + "`" + `12:00 AM` + "`" + ` to ` + "`" + `11:30 PM` + "`" + `, plus a
  final ` + "`" + `11:59 PM` + "`" + ` end-of-day marker.
- The visible window (default ` + "`" + `7:00 AM` + "`" + ` to ` + "`" + `10:00 PM` + "`" + `) must start and end on a slot.
- Overlapping items are placed in side-by-side columns.

## Recurring plans

` + "`" + `recurrence` + "`" + ` is an RFC 5545 RRULE without the ` + "`" + `RRULE:` + "`" + ` prefix, for example
` + "`" + `FREQ=WEEKLY;BYDAY=MO,WE,FR` + "`" + ` or ` + "`" + `FREQ=DAILY;COUNT=10` + "`" + `. The plan date is the first
occurrence. Marking a recurring plan finished marks the whole series.
`
