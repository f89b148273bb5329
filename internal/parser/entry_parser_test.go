package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntryFullSyntax(t *testing.T) {
	parsed := ParseEntry("Fix the login flow #bug,auth @webapp +2")

	assert.Equal(t, "Fix the login flow", parsed.Description)
	assert.Equal(t, "webapp", parsed.Project)
	assert.Equal(t, []string{"bug", "auth"}, parsed.Tags)
	assert.Equal(t, 2, parsed.Priority)
	assert.Empty(t, parsed.Errors)
}

func TestParseEntrySeparateTags(t *testing.T) {
	parsed := ParseEntry("Review docs #writing #review")

	assert.Equal(t, "Review docs", parsed.Description)
	assert.Equal(t, []string{"writing", "review"}, parsed.Tags)
}

func TestParseEntryPlainDescription(t *testing.T) {
	parsed := ParseEntry("Just a plain description")

	assert.Equal(t, "Just a plain description", parsed.Description)
	assert.Empty(t, parsed.Tags)
	assert.Empty(t, parsed.Project)
	assert.Zero(t, parsed.Priority)
	assert.Nil(t, parsed.Due)
}

func TestParseEntryInvalidPriority(t *testing.T) {
	parsed := ParseEntry("Oops +0")

	assert.Equal(t, "Oops", parsed.Description)
	assert.Zero(t, parsed.Priority)
	require.Len(t, parsed.Errors, 1)
	assert.Contains(t, parsed.Errors[0], "priority")
}

func TestParseEntryDueDate(t *testing.T) {
	parsed := ParseEntry("Renew passport due:15/12/2026")

	assert.Equal(t, "Renew passport", parsed.Description)
	require.NotNil(t, parsed.Due)
	assert.Equal(t, 2026, parsed.Due.Year())
	assert.Equal(t, time.December, parsed.Due.Month())
	assert.Equal(t, 15, parsed.Due.Day())
}

func TestParseEntryRelativeDue(t *testing.T) {
	parsed := ParseEntry("Follow up due:3 days")

	assert.Equal(t, "Follow up", parsed.Description)
	require.NotNil(t, parsed.Due)
	assert.True(t, parsed.Due.After(time.Now()))
}

func TestParseEntryBadDue(t *testing.T) {
	parsed := ParseEntry("Broken due:whenever")

	assert.Equal(t, "Broken", parsed.Description)
	assert.Nil(t, parsed.Due)
	require.Len(t, parsed.Errors, 1)
}
