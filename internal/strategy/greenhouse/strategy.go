package greenhouse

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

// GreenhouseStrategy fills the flat single-page Greenhouse application form.
// Fields carry plain semantic ids; generated custom questions are resolved
// through the shared label heuristic.
type GreenhouseStrategy struct {
	cfg *config.Config
}

func New(cfg *config.Config) *GreenhouseStrategy {
	return &GreenhouseStrategy{cfg: cfg}
}

func (s *GreenhouseStrategy) Name() strategy.Platform {
	return strategy.Greenhouse
}

func (s *GreenhouseStrategy) Detect(page playwright.Page) bool {
	host := strings.ToLower(page.URL())
	if strings.Contains(host, "greenhouse.io") {
		return true
	}
	//white-labeled boards keep the form markup even on custom domains
	n, err := page.Locator("#application_form, form#application-form, #main_fields").Count()
	return err == nil && n > 0
}

func (s *GreenhouseStrategy) Autofill(ctx context.Context, page playwright.Page, p *profile.CandidateProfile) *strategy.Result {
	run := strategy.NewRun(strategy.Greenhouse)
	log.Println("📋 Filling Greenhouse application...")

	if dom.WaitForElement(page, "#application_form, form#application-form, #main_fields", dom.DefaultWaitTimeout) == nil {
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

	//personal + contact info
	fill("#first_name", p.FirstName, "first name")
	fill("#last_name", p.LastName, "last name")
	fill("#email", p.Email, "email")
	fill("#phone", p.Phone, "phone")
	if p.Location != "" {
		if dom.FillText(page, "#candidate-location", p.Location) ||
			dom.FillText(page, "#job_application_location", p.Location) {
			filled++
		} else {
			run.FieldError("location field not found")
		}
	}

	//cover letter: structural absence is fatal only when text was supplied
	if p.CoverLetter != "" {
		if !dom.FillText(page, "#cover_letter_text", p.CoverLetter) {
			return run.Failure("cover letter field not found", nil)
		}
		filled++
	}

	//resume upload, same early-failure rule
	if len(p.ResumeFile) > 0 {
		if !dom.UploadFile(page, "#resume", p.ResumeFile, p.ResumeFileName) &&
			!dom.UploadFile(page, `input[type="file"]`, p.ResumeFile, p.ResumeFileName) {
			return run.Failure("resume upload input not found", nil)
		}
		filled++
	}

	//generated custom questions via the label heuristic
	policy := strategy.Policy{
		WorkAuthorization: s.cfg.WorkAuthorizationAnswer,
		Sponsorship:       s.cfg.SponsorshipAnswer,
	}
	filled += strategy.FillCustomQuestions(page, "form", policy, p, time.Now())

	if s.cfg.AutoSubmit && run.Misses() == 0 {
		//brief human-like pause before the irreversible click
		utils.RandomDelay(300, 800)
		if dom.Click(page, `#submit_app, input[type="submit"]`) {
			log.Println("📨 Application submitted (auto-submit enabled)")
			run.MarkSubmitted()
		}
	}

	return run.Success(filled)
}
