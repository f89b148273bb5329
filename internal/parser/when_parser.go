package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseWhen parses various date/time formats
// Supported formats:
// - dd/mm/yyyy (e.g., "15/12/2026")
// - X minutes (e.g., "30 minutes")
// - X hours (e.g., "24 hours", "1 hour")
// - X days (e.g., "3 days", "1 day")
// - X weeks (e.g., "2 weeks", "1 week")
func ParseWhen(input string) (*time.Time, error) {
	if input == "" {
		return nil, nil
	}

	input = strings.TrimSpace(input)

	// Try dd/mm/yyyy format first
	if when, err := parseDateFormat(input); err == nil {
		return when, nil
	}

	// Try relative time formats
	if when, err := parseRelativeTime(input); err == nil {
		return when, nil
	}

	return nil, fmt.Errorf("invalid date format. Use: dd/mm/yyyy, X minutes, X hours, X days, or X weeks")
}

// parseDateFormat parses dd/mm/yyyy format
func parseDateFormat(input string) (*time.Time, error) {
	dateRegex := regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	matches := dateRegex.FindStringSubmatch(input)

	if len(matches) != 4 {
		return nil, fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if day < 1 || day > 31 {
		return nil, fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 2024 || year > 2100 {
		return nil, fmt.Errorf("year must be between 2024 and 2100")
	}

	when := time.Date(year, time.Month(month), day, 23, 59, 59, 0, time.Local)

	// Check if date is valid (handles leap years, etc.)
	if when.Day() != day || when.Month() != time.Month(month) || when.Year() != year {
		return nil, fmt.Errorf("invalid date")
	}

	return &when, nil
}

// parseRelativeTime parses relative formats like "3 days", "24 hours", etc.
func parseRelativeTime(input string) (*time.Time, error) {
	input = strings.ToLower(input)

	relativeRegex := regexp.MustCompile(`^(\d+)\s+(minute|minutes|hour|hours|day|days|week|weeks)$`)
	matches := relativeRegex.FindStringSubmatch(input)

	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid relative time format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid number")
	}

	unit := matches[2]
	now := time.Now()

	switch unit {
	case "minute", "minutes":
		if amount < 1 || amount > 1440 {
			return nil, fmt.Errorf("minutes must be between 1 and 1440")
		}
		when := now.Add(time.Duration(amount) * time.Minute)
		return &when, nil

	case "hour", "hours":
		if amount < 1 || amount > 8760 { // Max 1 year in hours
			return nil, fmt.Errorf("hours must be between 1 and 8760")
		}
		when := now.Add(time.Duration(amount) * time.Hour)
		return &when, nil

	case "day", "days":
		if amount < 1 || amount > 365 {
			return nil, fmt.Errorf("days must be between 1 and 365")
		}
		// End of day (23:59:59) on the target date
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		when := today.AddDate(0, 0, amount).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		return &when, nil

	case "week", "weeks":
		if amount < 1 || amount > 52 {
			return nil, fmt.Errorf("weeks must be between 1 and 52")
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		when := today.AddDate(0, 0, amount*7).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		return &when, nil

	default:
		return nil, fmt.Errorf("unsupported time unit")
	}
}

// FormatDue formats a due date for display
func FormatDue(due *time.Time) string {
	if due == nil {
		return ""
	}

	now := time.Now()

	// Calendar days difference
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location())
	daysDiff := int(dueDay.Sub(today).Hours() / 24)

	dateStr := due.Format("02/01/2006")

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("OVERDUE (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("due today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("due tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("due %s (in %d days)", dateStr, daysDiff)
	default:
		return fmt.Sprintf("due %s", dateStr)
	}
}
