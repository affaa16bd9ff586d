package lever

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

// LeverStrategy fills the minimal name-attribute-driven Lever form. The EEO
// block (gender, race/ethnicity, veteran status) is never touched: demographic
// questions are a hard privacy invariant, not a heuristic miss.
type LeverStrategy struct {
	cfg *config.Config
}

func New(cfg *config.Config) *LeverStrategy {
	return &LeverStrategy{cfg: cfg}
}

func (s *LeverStrategy) Name() strategy.Platform {
	return strategy.Lever
}

func (s *LeverStrategy) Detect(page playwright.Page) bool {
	host := strings.ToLower(page.URL())
	if strings.Contains(host, "lever.co") {
		return true
	}
	n, err := page.Locator(`.application-form, form[action*="lever"]`).Count()
	return err == nil && n > 0
}

func (s *LeverStrategy) Autofill(ctx context.Context, page playwright.Page, p *profile.CandidateProfile) *strategy.Result {
	run := strategy.NewRun(strategy.Lever)
	log.Println("📋 Filling Lever application...")

	if dom.WaitForElement(page, ".application-form, form", dom.DefaultWaitTimeout) == nil {
		return run.Failure("application form not found", nil)
	}

	filled := 0
	fill := func(selector, value, name string) {
		if value == "" {
			return
		}
		if dom.FillText(page, selector, value) {
			filled++
		} else {
			run.FieldError("%s field not found", name)
		}
	}

	fill(`input[name="name"]`, p.FullName(), "full name")
	fill(`input[name="email"]`, p.Email, "email")
	fill(`input[name="phone"]`, p.Phone, "phone")
	fill(`input[name="location"]`, p.Location, "location")
	fill(`input[name="org"]`, currentCompany(p), "current company")
	fill(`input[name="urls[LinkedIn]"]`, p.LinkedInURL, "linkedin url")
	fill(`input[name="urls[GitHub]"]`, p.GitHubURL, "github url")
	fill(`input[name="urls[Portfolio]"]`, p.PortfolioURL, "portfolio url")

	//additional information doubles as the cover letter slot
	if p.CoverLetter != "" {
		if !dom.FillText(page, `textarea[name="comments"]`, p.CoverLetter) {
			return run.Failure("cover letter field not found", nil)
		}
		filled++
	}

	if len(p.ResumeFile) > 0 {
		if !dom.UploadFile(page, `input[name="resume"]`, p.ResumeFile, p.ResumeFileName) {
			return run.Failure("resume upload input not found", nil)
		}
		filled++
	}

	//custom question cards; the shared heuristic already refuses demographic
	//labels, which keeps the EEO selects (name="eeo[...]") untouched
	policy := strategy.Policy{
		WorkAuthorization: s.cfg.WorkAuthorizationAnswer,
		Sponsorship:       s.cfg.SponsorshipAnswer,
	}
	filled += strategy.FillCustomQuestions(page, ".application-question, .custom-question", policy, p, time.Now())

	if s.cfg.AutoSubmit && run.Misses() == 0 {
		utils.RandomDelay(300, 800)
		if dom.Click(page, `button[type="submit"], .template-btn-submit`) {
			log.Println("📨 Application submitted (auto-submit enabled)")
			run.MarkSubmitted()
		}
	}

	return run.Success(filled)
}

func currentCompany(p *profile.CandidateProfile) string {
	for _, e := range p.WorkExperience {
		if e.IsCurrent {
			return e.Company
		}
	}
	if len(p.WorkExperience) > 0 {
		return p.WorkExperience[0].Company
	}
	return ""
}
