package usage

import "time"

// DateFor resolves the logical usage date for an instant. The day rolls over
// at resetHour in loc, not at midnight: before resetHour the previous
// calendar day is still "today".
func DateFor(t time.Time, loc *time.Location, resetHour int) string {
	local := t.In(loc)
	if local.Hour() < resetHour {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format("2006-01-02")
}
