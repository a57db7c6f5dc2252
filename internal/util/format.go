package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	isoDate     = "2006-01-02"
	displayDate = "02.01.2006"
	arrivalISO  = "2006-01-02 15:04"
)

// FormatDate formats an ISO date (YYYY-MM-DD) as DD.MM.YYYY. Text that is
// not an ISO date is returned unchanged.
func FormatDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}
	t, err := time.Parse(isoDate, date)
	if err != nil {
		return date
	}
	return t.Format(displayDate)
}

// FormatArrival formats a stored arrival time for display.
func FormatArrival(arrival string) string {
	arrival = strings.TrimSpace(arrival)
	if arrival == "" {
		return ""
	}
	t, err := time.Parse(arrivalISO, arrival)
	if err != nil {
		return arrival
	}
	return t.Format("02.01. 15:04")
}

// ParseDateInput parses user input in day-first or ISO form and normalizes
// it to ISO (YYYY-MM-DD). Empty input is allowed and returns "".
func ParseDateInput(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", nil
	}

	layouts := []string{
		isoDate,
		displayDate,
		"2.1.2006",
		"2. 1. 2006",
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate), nil
		}
	}

	return "", fmt.Errorf("invalid date %q, use DD.MM.YYYY", s)
}

// AgeOn returns the age in whole years of someone born on the ISO date dob
// at the given moment.
func AgeOn(dob string, at time.Time) (int, error) {
	t, err := time.Parse(isoDate, dob)
	if err != nil {
		return 0, fmt.Errorf("invalid date of birth: %w", err)
	}
	age := at.Year() - t.Year()
	if at.YearDay() < t.YearDay() {
		age--
	}
	return age, nil
}

// TruncateString truncates s to maxWidth terminal cells, adding "..." when
// something was cut.
func TruncateString(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// OrDash returns s, or an em dash when s is blank.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
