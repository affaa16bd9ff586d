package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestFullName(t *testing.T) {
	p := &CandidateProfile{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", p.FullName())

	p = &CandidateProfile{FirstName: "Cher"}
	assert.Equal(t, "Cher", p.FullName())
}

func TestTotalYears(t *testing.T) {
	now := date(2026, time.June)

	tests := []struct {
		name     string
		entries  []WorkExperience
		expected int
	}{
		{
			name:     "no experience",
			entries:  nil,
			expected: 0,
		},
		{
			name: "single closed role",
			entries: []WorkExperience{
				{StartDate: date(2020, time.January), EndDate: ptr(date(2023, time.January))},
			},
			expected: 3,
		},
		{
			name: "ongoing role measured against now",
			entries: []WorkExperience{
				{StartDate: date(2022, time.June), IsCurrent: true},
			},
			expected: 4,
		},
		{
			name: "current flag wins over stale end date",
			entries: []WorkExperience{
				{StartDate: date(2022, time.June), EndDate: ptr(date(2023, time.June)), IsCurrent: true},
			},
			expected: 4,
		},
		{
			name: "partial years sum across roles",
			entries: []WorkExperience{
				{StartDate: date(2020, time.January), EndDate: ptr(date(2020, time.July))},
				{StartDate: date(2021, time.January), EndDate: ptr(date(2021, time.July))},
			},
			expected: 1,
		},
		{
			name: "inverted range counts zero",
			entries: []WorkExperience{
				{StartDate: date(2024, time.January), EndDate: ptr(date(2023, time.January))},
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TotalYears(tt.entries, now))
		})
	}
}

func TestMonthsBetween(t *testing.T) {
	assert.Equal(t, 12, monthsBetween(date(2020, time.March), date(2021, time.March)))
	assert.Equal(t, 0, monthsBetween(date(2021, time.March), date(2021, time.March)))
	assert.Equal(t, 0, monthsBetween(date(2022, time.March), date(2021, time.March)))
}
