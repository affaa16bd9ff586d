// Candidate profile used as the fill source for every platform strategy.
// The coordinator fetches it from the backend once per run; strategies only read it.

package profile

import (
	"strings"
	"time"
)

type CandidateProfile struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	LinkedInURL  string `json:"linkedin_url,omitempty"`
	GitHubURL    string `json:"github_url,omitempty"`
	PortfolioURL string `json:"portfolio_url,omitempty"`

	WorkExperience []WorkExperience `json:"work_experience"`
	Education      []Education      `json:"education"`
	Skills         []Skill          `json:"skills"`

	CoverLetter    string `json:"cover_letter,omitempty"`
	ResumeFile     []byte `json:"resume_file,omitempty"`
	ResumeFileName string `json:"resume_file_name,omitempty"`

	//opaque demographic answers the user explicitly provided (never guessed)
	Demographics map[string]string `json:"demographics,omitempty"`

	//job-specific question answers keyed by question text, from the
	//application template
	CustomAnswers map[string]string `json:"custom_answers,omitempty"`
}

type WorkExperience struct {
	Company   string     `json:"company"`
	Title     string     `json:"title"`
	Location  string     `json:"location"`
	StartDate time.Time  `json:"start_date"`
	//EndDate must be nil when IsCurrent is true; IsCurrent is the
	//authoritative signal for an ongoing role, not EndDate alone
	EndDate      *time.Time `json:"end_date,omitempty"`
	IsCurrent    bool       `json:"is_current"`
	Description  string     `json:"description,omitempty"`
	Achievements []string   `json:"achievements,omitempty"`
}

type Education struct {
	Institution  string     `json:"institution"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"field_of_study"`
	Location     string     `json:"location,omitempty"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	GPA          *float64   `json:"gpa,omitempty"`
}

type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

func (p *CandidateProfile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// TotalYears sums the whole-month span of every work entry and converts to
// whole years. Ongoing roles (IsCurrent) are measured against now, never
// against a stored end date. Used to answer "years of experience" questions.
func TotalYears(entries []WorkExperience, now time.Time) int {
	months := 0
	for _, e := range entries {
		end := now
		if !e.IsCurrent && e.EndDate != nil {
			end = *e.EndDate
		}
		months += monthsBetween(e.StartDate, end)
	}
	return months / 12
}

func monthsBetween(start, end time.Time) int {
	m := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if m < 0 {
		return 0
	}
	return m
}
