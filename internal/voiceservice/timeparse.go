package voiceservice

import (
	"strconv"
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// resolveDate turns an extracted date value ("tomorrow", "next friday",
// "january 15", "2024-03-01", ...) into the midnight of the target day in
// ref's location. The second return is false for unrecognized values.
func resolveDate(value string, ref time.Time) (time.Time, bool) {
	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, ref.Location())
	}

	switch value {
	case "today":
		return day(ref), true
	case "tomorrow":
		return day(ref.AddDate(0, 0, 1)), true
	case "yesterday":
		return day(ref.AddDate(0, 0, -1)), true
	case "next week":
		return day(ref.AddDate(0, 0, 7)), true
	case "next month":
		return day(ref.AddDate(0, 1, 0)), true
	}

	if name, ok := strings.CutPrefix(value, "next "); ok {
		if wd, known := weekdays[name]; known {
			return day(nextWeekday(ref, wd, true)), true
		}
	}
	if wd, known := weekdays[value]; known {
		return day(nextWeekday(ref, wd, false)), true
	}

	if name, rest, found := strings.Cut(value, " "); found {
		if m, known := months[name]; known {
			if d, err := strconv.Atoi(rest); err == nil && d >= 1 && d <= 31 {
				t := time.Date(ref.Year(), m, d, 0, 0, 0, 0, ref.Location())
				if t.Before(day(ref)) {
					t = t.AddDate(1, 0, 0)
				}
				return t, true
			}
		}
	}

	if t, err := time.ParseInLocation("2006-01-02", value, ref.Location()); err == nil {
		return t, true
	}

	return time.Time{}, false
}

// nextWeekday finds the next occurrence of wd after ref. A bare weekday
// name means the coming one (possibly today); "next <weekday>" always
// skips into the following week.
func nextWeekday(ref time.Time, wd time.Weekday, skipCurrentWeek bool) time.Time {
	days := (int(wd) - int(ref.Weekday()) + 7) % 7
	if skipCurrentWeek || days == 0 {
		days += 7
	}
	return ref.AddDate(0, 0, days)
}

// resolveClock turns an extracted time value ("2 pm", "14:30", "noon", ...)
// into hour and minute. The third return is false for unrecognized values.
func resolveClock(value string) (hour, minute int, ok bool) {
	switch value {
	case "noon":
		return 12, 0, true
	case "midnight":
		return 0, 0, true
	}

	meridiem := ""
	v := value
	for _, m := range []string{"am", "pm"} {
		if rest, found := strings.CutSuffix(v, m); found {
			meridiem = m
			v = strings.TrimSpace(rest)
			break
		}
	}

	if h, m, found := strings.Cut(v, ":"); found {
		hh, err1 := strconv.Atoi(h)
		mm, err2 := strconv.Atoi(m)
		if err1 != nil || err2 != nil || hh > 23 || mm > 59 {
			return 0, 0, false
		}
		hour, minute = hh, mm
	} else {
		hh, err := strconv.Atoi(v)
		if err != nil || hh > 23 {
			return 0, 0, false
		}
		hour = hh
	}

	switch meridiem {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour, minute, true
}

// resolveDuration turns an extracted duration value ("30 minutes",
// "2 hours", "half an hour", ...) into a time.Duration. "all day" has no
// fixed span and returns false; callers treat it as an all-day flag.
func resolveDuration(value string) (time.Duration, bool) {
	switch value {
	case "half an hour":
		return 30 * time.Minute, true
	case "an hour":
		return time.Hour, true
	case "all day":
		return 0, false
	}

	num, unit, found := strings.Cut(value, " ")
	if !found {
		// Tolerate the no-space form ("30min").
		i := 0
		for i < len(value) && value[i] >= '0' && value[i] <= '9' {
			i++
		}
		num, unit = value[:i], value[i:]
	}
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return 0, false
	}
	switch {
	case strings.HasPrefix(unit, "min"):
		return time.Duration(n) * time.Minute, true
	case strings.HasPrefix(unit, "h"):
		return time.Duration(n) * time.Hour, true
	}
	return 0, false
}
