package webhttp

import "fmt"

var weekdayNames = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
var monthNames = [...]string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// HTTPDate formats a Unix timestamp as an IMF-fixdate, e.g.
// "Sun, 06 Nov 1994 08:49:37 GMT". The conversion is done with plain
// calendar arithmetic (Howard Hinnant's civil_from_days algorithm) rather
// than the platform's time-formatting facilities, so the result never
// depends on a system locale or timezone database.
func HTTPDate(unixSeconds int64) string {
	days, secondsOfDay := floorDivMod(unixSeconds, 86400)

	hour := secondsOfDay / 3600
	minute := (secondsOfDay % 3600) / 60
	second := secondsOfDay % 60

	weekday := ((days%7)+11)%7 // 1970-01-01 (days=0) is Thursday, index 4.
	year, month, day := civilFromDays(days)

	return fmt.Sprintf("%s, %02d %s %04d %02d:%02d:%02d GMT",
		weekdayNames[weekday], day, monthNames[month], year, hour, minute, second)
}

// floorDivMod returns (a div b, a mod b) using floor semantics, so both
// results are consistent for negative a (timestamps before 1970).
func floorDivMod(a, b int64) (int64, int64) {
	q := a / b
	r := a % b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}

// civilFromDays converts a day count since 1970-01-01 (the Unix epoch) into
// a proleptic-Gregorian (year, month, day) triple. See Howard Hinnant's
// "chrono-Compatible Low-Level Date Algorithms" for the derivation.
func civilFromDays(z int64) (year int64, month int, day int) {
	z += 719468
	var era int64
	if z >= 0 {
		era = z / 146097
	} else {
		era = (z - 146096) / 146097
	}
	doe := z - era*146097                                   // [0, 146096]
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365    // [0, 399]
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)                 // [0, 365]
	mp := (5*doy + 2) / 153                                  // [0, 11]
	d := doy - (153*mp+2)/5 + 1                               // [1, 31]
	var m int64
	if mp < 10 {
		m = mp + 3
	} else {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return y, int(m), int(d)
}
