package taleo

import (
	"context"
	"log"
	"strings"
	"time"

	"go-autofill-automation/internal/config"
	"go-autofill-automation/internal/dom"
	"go-autofill-automation/internal/profile"
	"go-autofill-automation/internal/strategy"
	"go-autofill-automation/utils"

	"github.com/playwright-community/playwright-go"
)

// TaleoStrategy handles Taleo's multi-step wizard: every page load shows one
// step of the application, so the adapter first classifies the current step
// from heading text and field-name patterns, then runs only that step's
// filler. An unclassifiable step falls back to filling whatever recognizable
// fields are visible.
type TaleoStrategy struct {
	cfg *config.Config
}

// Step is the wizard page the adapter believes it is looking at.
type Step string

const (
	StepProfile       Step = "profile"
	StepExperience    Step = "experience"
	StepEducation     Step = "education"
	StepQuestionnaire Step = "questionnaire"
	StepAttachments   Step = "attachments"
	StepUnknown       Step = "unknown"
)

func New(cfg *config.Config) *TaleoStrategy {
	return &TaleoStrategy{cfg: cfg}
}

func (s *TaleoStrategy) Name() strategy.Platform {
	return strategy.Taleo
}

func (s *TaleoStrategy) Detect(page playwright.Page) bool {
	host := strings.ToLower(page.URL())
	if strings.Contains(host, "taleo.net") {
		return true
	}
	n, err := page.Locator(`form[name="frm"], #tbe_form, input[name^="requisition"]`).Count()
	return err == nil && n > 0
}

func (s *TaleoStrategy) Autofill(ctx context.Context, page playwright.Page, p *profile.CandidateProfile) *strategy.Result {
	run := strategy.NewRun(strategy.Taleo)

	if dom.WaitForElement(page, "form", dom.DefaultWaitTimeout) == nil {
		return run.Failure("wizard form not found", nil)
	}

	step := ClassifyStep(currentHeading(page), fieldNames(page))
	log.Printf("📋 Filling Taleo wizard step: %s", step)

	filled := 0
	switch step {
	case StepProfile:
		filled = s.fillProfile(page, p, run)
	case StepExperience:
		filled = s.fillExperienceStep(page, p, run)
	case StepEducation:
		filled = s.fillEducationStep(page, p, run)
	case StepQuestionnaire:
		filled = strategy.FillCustomQuestions(page, "form", s.policy(), p, time.Now())
	case StepAttachments:
		if len(p.ResumeFile) > 0 {
			if !dom.UploadFile(page, `input[type="file"]`, p.ResumeFile, p.ResumeFileName) {
				return run.Failure("attachment input not found", nil)
			}
			filled = 1
		}
	default:
		//step unclassified: best-effort over everything recognizable
		filled = s.fillProfile(page, p, run)
		filled += s.fillExperienceStep(page, p, run)
		filled += s.fillEducationStep(page, p, run)
		filled += strategy.FillCustomQuestions(page, "form", s.policy(), p, time.Now())
	}

	if s.cfg.AutoSubmit && run.Misses() == 0 {
		utils.RandomDelay(300, 800)
		if dom.Click(page, `input[type="submit"], #et-ef-submit, button[type="submit"]`) {
			log.Println("📨 Wizard step submitted (auto-submit enabled)")
			run.MarkSubmitted()
		}
	}

	return run.Success(filled)
}

func (s *TaleoStrategy) policy() strategy.Policy {
	return strategy.Policy{
		WorkAuthorization: s.cfg.WorkAuthorizationAnswer,
		Sponsorship:       s.cfg.SponsorshipAnswer,
	}
}

// ClassifyStep decides which wizard page is showing. Heading text wins;
// field-name patterns break ties when headings are unhelpful.
func ClassifyStep(heading string, names []string) Step {
	h := strings.ToLower(heading)
	switch {
	case strings.Contains(h, "personal information"), strings.Contains(h, "general information"), strings.Contains(h, "profile"):
		return StepProfile
	case strings.Contains(h, "work experience"), strings.Contains(h, "employment"):
		return StepExperience
	case strings.Contains(h, "education"):
		return StepEducation
	case strings.Contains(h, "question"):
		return StepQuestionnaire
	case strings.Contains(h, "attach"), strings.Contains(h, "resume"), strings.Contains(h, "documents"):
		return StepAttachments
	}

	for _, name := range names {
		n := strings.ToLower(name)
		switch {
		case strings.Contains(n, "firstname"), strings.Contains(n, "first_name"):
			return StepProfile
		case strings.Contains(n, "employer"), strings.Contains(n, "jobtitle"):
			return StepExperience
		case strings.Contains(n, "school"), strings.Contains(n, "degree"):
			return StepEducation
		case strings.Contains(n, "question"):
			return StepQuestionnaire
		case strings.Contains(n, "resume"), strings.Contains(n, "attachment"):
			return StepAttachments
		}
	}
	return StepUnknown
}

func currentHeading(page playwright.Page) string {
	heading := page.Locator("h1, h2, .stepTitle, .pagetitle").First()
	if n, err := heading.Count(); err != nil || n == 0 {
		return ""
	}
	text, err := heading.TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(1000),
	})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func fieldNames(page playwright.Page) []string {
	controls, err := page.Locator("input[name], select[name], textarea[name]").All()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(controls))
	for _, c := range controls {
		if name, err := c.GetAttribute("name"); err == nil && name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (s *TaleoStrategy) fillProfile(page playwright.Page, p *profile.CandidateProfile, run *strategy.Run) int {
	filled := 0
	fill := func(selector, value, name string) {
		if value == "" {
			return
		}
		if n, err := page.Locator(selector).Count(); err != nil || n == 0 {
			//profile fields may legitimately live on another step
			return
		}
		if dom.FillText(page, selector, value) {
			filled++
		} else {
			run.FieldError("%s field not found", name)
		}
	}

	fill(`input[name*="firstName" i], input[name*="first_name" i]`, p.FirstName, "first name")
	fill(`input[name*="lastName" i], input[name*="last_name" i]`, p.LastName, "last name")
	fill(`input[name*="email" i]`, p.Email, "email")
	fill(`input[name*="phone" i]`, p.Phone, "phone")
	fill(`input[name*="city" i], input[name*="location" i]`, p.Location, "location")
	return filled
}

func (s *TaleoStrategy) fillExperienceStep(page playwright.Page, p *profile.CandidateProfile, run *strategy.Run) int {
	employers, err := page.Locator(`input[name*="employer" i]`).All()
	if err != nil || len(employers) == 0 {
		return 0
	}
	titles, _ := page.Locator(`input[name*="jobTitle" i], input[name*="title" i]`).All()

	filled := 0
	for i, exp := range p.WorkExperience {
		if i >= len(employers) {
			run.FieldError("no row for experience entry %d", i+1)
			break
		}
		if dom.FillLocator(employers[i], exp.Company) {
			filled++
		}
		if i < len(titles) && dom.FillLocator(titles[i], exp.Title) {
			filled++
		}
	}
	return filled
}

func (s *TaleoStrategy) fillEducationStep(page playwright.Page, p *profile.CandidateProfile, run *strategy.Run) int {
	schools, err := page.Locator(`input[name*="school" i], input[name*="institution" i]`).All()
	if err != nil || len(schools) == 0 {
		return 0
	}
	degrees, _ := page.Locator(`select[name*="degree" i]`).All()

	filled := 0
	for i, edu := range p.Education {
		if i >= len(schools) {
			run.FieldError("no row for education entry %d", i+1)
			break
		}
		if dom.FillLocator(schools[i], edu.Institution) {
			filled++
		}
		if i < len(degrees) && edu.Degree != "" && dom.SelectLocator(degrees[i], edu.Degree) {
			filled++
		}
	}
	return filled
}
