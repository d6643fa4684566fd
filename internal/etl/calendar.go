package etl

import "time"

// BuildCalendar synthesizes the date dimension for a cleaned batch: one row
// per calendar day from the earliest to the latest sale date, inclusive,
// with no gaps even when interior days have zero transactions. Week numbers
// follow ISO 8601. An empty batch yields no rows.
func BuildCalendar(records []CleanedRecord) []CalendarRow {
	if len(records) == 0 {
		return nil
	}

	minDate, maxDate := dateOnly(records[0].SaleDate), dateOnly(records[0].SaleDate)
	for _, r := range records[1:] {
		d := dateOnly(r.SaleDate)
		if d.Before(minDate) {
			minDate = d
		}
		if d.After(maxDate) {
			maxDate = d
		}
	}

	var rows []CalendarRow
	for d := minDate; !d.After(maxDate); d = d.AddDate(0, 0, 1) {
		_, week := d.ISOWeek()
		wd := d.Weekday()

		rows = append(rows, CalendarRow{
			DateKey:       DateKey(d),
			FullDate:      d,
			Year:          d.Year(),
			Quarter:       (int(d.Month())-1)/3 + 1,
			MonthNumber:   int(d.Month()),
			MonthName:     d.Month().String(),
			WeekNumber:    week,
			DayOfMonth:    d.Day(),
			DayOfWeekName: wd.String(),
			IsWeekend:     wd == time.Saturday || wd == time.Sunday,
		})
	}

	return rows
}

// dateOnly truncates a timestamp to midnight UTC so day stepping is not
// affected by time-of-day or zone offsets in the source data.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
