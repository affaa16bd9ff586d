package workday

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go-autofill-automation/internal/config"
	"go-autofill-automation/internal/dom"
	"go-autofill-automation/internal/profile"
	"go-autofill-automation/internal/strategy"
	"go-autofill-automation/utils"

	"github.com/playwright-community/playwright-go"
)

// WorkdayStrategy drives the Workday apply flow. Workday stamps every field
// with a stable data-automation-id, so no label heuristics are needed; the
// cost is repeatable sections that only render a new block after the "Add"
// control is clicked.
type WorkdayStrategy struct {
	cfg *config.Config
}

func New(cfg *config.Config) *WorkdayStrategy {
	return &WorkdayStrategy{cfg: cfg}
}

func (s *WorkdayStrategy) Name() strategy.Platform {
	return strategy.Workday
}

func (s *WorkdayStrategy) Detect(page playwright.Page) bool {
	host := strings.ToLower(page.URL())
	if strings.Contains(host, "myworkdayjobs.com") || strings.Contains(host, "workday.com") {
		return true
	}
	n, err := page.Locator(`[data-automation-id="applyFlowPage"], [data-automation-id="jobApplication"]`).Count()
	return err == nil && n > 0
}

func auto(id string) string {
	return fmt.Sprintf(`[data-automation-id="%s"]`, id)
}

func (s *WorkdayStrategy) Autofill(ctx context.Context, page playwright.Page, p *profile.CandidateProfile) *strategy.Result {
	run := strategy.NewRun(strategy.Workday)
	log.Println("📋 Filling Workday application...")

	if dom.WaitForElement(page, auto("applyFlowPage")+", "+auto("jobApplication")+", form", dom.DefaultWaitTimeout) == nil {
		return run.Failure("apply flow did not render", nil)
	}

	filled := 0
	fill := func(id, value, name string) {
		if value == "" {
			return
		}
		if dom.FillText(page, "input"+auto(id), value) {
			filled++
		} else {
			run.FieldError("%s field not found", name)
		}
	}

	//personal + contact info
	fill("legalNameSection_firstName", p.FirstName, "first name")
	fill("legalNameSection_lastName", p.LastName, "last name")
	fill("email", p.Email, "email")
	fill("phone-number", p.Phone, "phone")
	fill("addressSection_city", p.Location, "city")

	filled += s.fillExperience(page, p, run)
	filled += s.fillEducation(page, p, run)

	//social links are attribute-addressed on Workday, not label-matched
	fill("linkedinQuestion", p.LinkedInURL, "linkedin url")
	fill("website", p.PortfolioURL, "website url")

	if len(p.ResumeFile) > 0 {
		if !dom.UploadFile(page, "input"+auto("file-upload-input-ref"), p.ResumeFile, p.ResumeFileName) {
			return run.Failure("resume upload input not found", nil)
		}
		filled++
	}

	if s.cfg.AutoSubmit && run.Misses() == 0 {
		utils.RandomDelay(300, 800)
		if dom.Click(page, "button"+auto("bottom-navigation-next-button")) {
			log.Println("📨 Application submitted (auto-submit enabled)")
			run.MarkSubmitted()
		}
	}

	return run.Success(filled)
}

// fillExperience fills each work entry at its positional index, clicking the
// section's add control before every entry after the first so the next block
// exists before it is addressed.
func (s *WorkdayStrategy) fillExperience(page playwright.Page, p *profile.CandidateProfile, run *strategy.Run) int {
	if len(p.WorkExperience) == 0 {
		return 0
	}
	section := page.Locator(auto("workExperienceSection"))
	if n, err := section.Count(); err != nil || n == 0 {
		run.FieldError("work experience section not found")
		return 0
	}

	filled := 0
	for i, exp := range p.WorkExperience {
		if i > 0 {
			add := section.Locator("button" + auto("add-button")).First()
			if err := add.Click(playwright.LocatorClickOptions{
				Timeout: playwright.Float(2000),
			}); err != nil {
				run.FieldError("add control for experience entry %d not clickable", i+1)
				break
			}
		}
		blocks := dom.WaitForElements(page, auto("workExperienceSection")+` [data-automation-id^="workExperience-"]`, i+1, dom.DefaultWaitTimeout)
		if len(blocks) <= i {
			run.FieldError("experience block %d did not render", i+1)
			break
		}
		filled += s.fillExperienceBlock(blocks[i], exp, run)
	}
	return filled
}

func (s *WorkdayStrategy) fillExperienceBlock(block playwright.Locator, exp profile.WorkExperience, run *strategy.Run) int {
	filled := 0
	fill := func(id, value, name string) {
		if value == "" {
			return
		}
		target := block.Locator("input"+auto(id)+", textarea"+auto(id)).First()
		if n, err := target.Count(); err != nil || n == 0 {
			run.FieldError("experience %s field not found", name)
			return
		}
		if dom.FillLocator(target, value) {
			filled++
		} else {
			run.FieldError("experience %s fill failed", name)
		}
	}

	fill("company", exp.Company, "company")
	fill("jobTitle", exp.Title, "title")
	fill("location", exp.Location, "location")
	fill("startDate-dateSectionMonth-input", exp.StartDate.Format("01"), "start month")
	fill("startDate-dateSectionYear-input", exp.StartDate.Format("2006"), "start year")

	if exp.IsCurrent {
		cb := block.Locator("input" + auto("currentlyWorkHere")).First()
		if n, err := cb.Count(); err == nil && n > 0 {
			if checked, err := cb.IsChecked(); err == nil && !checked {
				if cb.SetChecked(true, playwright.LocatorSetCheckedOptions{
					Timeout: playwright.Float(2000),
				}) == nil {
					filled++
				}
			}
		}
	} else if exp.EndDate != nil {
		fill("endDate-dateSectionMonth-input", exp.EndDate.Format("01"), "end month")
		fill("endDate-dateSectionYear-input", exp.EndDate.Format("2006"), "end year")
	}

	description := exp.Description
	if len(exp.Achievements) > 0 {
		description = strings.TrimSpace(description + "\n• " + strings.Join(exp.Achievements, "\n• "))
	}
	fill("description", description, "description")

	return filled
}

func (s *WorkdayStrategy) fillEducation(page playwright.Page, p *profile.CandidateProfile, run *strategy.Run) int {
	if len(p.Education) == 0 {
		return 0
	}
	section := page.Locator(auto("educationSection"))
	if n, err := section.Count(); err != nil || n == 0 {
		run.FieldError("education section not found")
		return 0
	}

	filled := 0
	for i, edu := range p.Education {
		if i > 0 {
			add := section.Locator("button" + auto("add-button")).First()
			if err := add.Click(playwright.LocatorClickOptions{
				Timeout: playwright.Float(2000),
			}); err != nil {
				run.FieldError("add control for education entry %d not clickable", i+1)
				break
			}
		}
		blocks := dom.WaitForElements(page, auto("educationSection")+` [data-automation-id^="education-"]`, i+1, dom.DefaultWaitTimeout)
		if len(blocks) <= i {
			run.FieldError("education block %d did not render", i+1)
			break
		}
		filled += s.fillEducationBlock(blocks[i], edu, run)
	}
	return filled
}

func (s *WorkdayStrategy) fillEducationBlock(block playwright.Locator, edu profile.Education, run *strategy.Run) int {
	filled := 0
	fill := func(id, value, name string) {
		if value == "" {
			return
		}
		target := block.Locator("input" + auto(id)).First()
		if n, err := target.Count(); err != nil || n == 0 {
			run.FieldError("education %s field not found", name)
			return
		}
		if dom.FillLocator(target, value) {
			filled++
		}
	}

	fill("school", edu.Institution, "school")
	fill("fieldOfStudy", edu.FieldOfStudy, "field of study")
	if edu.GPA != nil {
		fill("gpa", fmt.Sprintf("%.2f", *edu.GPA), "gpa")
	}

	//degree renders as a select
	degree := block.Locator("select" + auto("degree")).First()
	if n, err := degree.Count(); err == nil && n > 0 && edu.Degree != "" {
		if dom.SelectLocator(degree, edu.Degree) {
			filled++
		} else {
			run.FieldError("education degree option %q not found", edu.Degree)
		}
	}

	return filled
}
