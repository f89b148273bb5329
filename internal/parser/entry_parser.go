package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParsedEntry represents a session or task description parsed from
// natural syntax
type ParsedEntry struct {
	Description string
	Project     string
	Tags        []string
	Priority    int // 0 when not given
	Due         *time.Time
	Errors      []string
}

// ParseEntry extracts metadata from a description using natural syntax
// Syntax: "Fix the login flow #bug,auth @webapp +2 due:3 days"
func ParseEntry(input string) ParsedEntry {
	result := ParsedEntry{
		Description: input,
		Tags:        []string{},
		Errors:      []string{},
	}

	// Extract tags (#tag1,tag2 or #tag1 #tag2)
	tagRegex := regexp.MustCompile(`#([a-zA-Z0-9_,-]+)`)
	tagMatches := tagRegex.FindAllStringSubmatch(input, -1)
	for _, match := range tagMatches {
		if len(match) > 1 {
			// Split by comma in case of #tag1,tag2
			for _, tag := range strings.Split(match[1], ",") {
				tag = strings.TrimSpace(tag)
				if tag != "" {
					result.Tags = append(result.Tags, tag)
				}
			}
		}
	}
	input = tagRegex.ReplaceAllString(input, "")

	// Extract project (@project-name)
	projectRegex := regexp.MustCompile(`@([a-zA-Z0-9_-]+)`)
	projectMatches := projectRegex.FindStringSubmatch(input)
	if len(projectMatches) > 1 {
		result.Project = projectMatches[1]
		input = projectRegex.ReplaceAllString(input, "")
	}

	// Extract priority (+1 through +9, 1 = most important)
	priorityRegex := regexp.MustCompile(`\+(\d)`)
	priorityMatches := priorityRegex.FindStringSubmatch(input)
	if len(priorityMatches) > 1 {
		priority, _ := strconv.Atoi(priorityMatches[1])
		if priority >= 1 && priority <= 9 {
			result.Priority = priority
		} else {
			result.Errors = append(result.Errors, "Invalid priority '+"+priorityMatches[1]+"'. Use 1-9")
		}
		input = priorityRegex.ReplaceAllString(input, "")
	}

	// Extract due date (due:3 days, due:15/12/2026, etc.)
	dueRegex := regexp.MustCompile(`due:(\d+ \w+|[^\s]+)`)
	dueMatches := dueRegex.FindStringSubmatch(input)
	if len(dueMatches) > 1 {
		due, err := ParseWhen(dueMatches[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid due date '"+dueMatches[1]+"': "+err.Error())
		} else {
			result.Due = due
		}
		input = dueRegex.ReplaceAllString(input, "")
	}

	// Clean up the description (remove extra spaces)
	result.Description = strings.Join(strings.Fields(input), " ")

	return result
}
