// Heuristic matching of ATS custom questions. There is no stable schema for
// generated question fields, so labels are normalized and pattern-matched
// against a prioritized rule table; "no rule matched" is an explicit terminal
// outcome, never a default guess.

package strategy

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go-autofill-automation/internal/dom"
	"go-autofill-automation/internal/profile"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type QuestionCategory string

const (
	CategoryDemographic QuestionCategory = "demographic"
	CategoryWorkAuth    QuestionCategory = "work-authorization"
	CategorySponsorship QuestionCategory = "sponsorship"
	CategoryYears       QuestionCategory = "years-of-experience"
	CategoryLinkedIn    QuestionCategory = "linkedin"
	CategoryGitHub      QuestionCategory = "github"
	CategoryPortfolio   QuestionCategory = "portfolio"
	CategoryNone        QuestionCategory = "none"
)

// Policy carries the reviewable answers for heuristic questions. These are
// product choices loaded from config, not engineering constants.
type Policy struct {
	WorkAuthorization string
	Sponsorship       string
}

//evaluated in order; demographic first so it always wins
var questionRules = []struct {
	category   QuestionCategory
	substrings []string
}{
	{CategoryDemographic, []string{"gender", "race", "ethnicity", "veteran", "disability", "sexual orientation", "pronoun"}},
	{CategoryWorkAuth, []string{"authorized to work", "legally authorized", "work authorization", "right to work", "eligible to work"}},
	{CategorySponsorship, []string{"sponsorship", "sponsor", "require a visa", "visa status"}},
	{CategoryYears, []string{"years of experience", "years experience", "how many years"}},
	{CategoryLinkedIn, []string{"linkedin"}},
	{CategoryGitHub, []string{"github"}},
	{CategoryPortfolio, []string{"portfolio", "personal website", "website url"}},
}

// Classify maps a question label onto a category, or CategoryNone.
func Classify(label string) QuestionCategory {
	text := NormalizeLabel(label)
	for _, rule := range questionRules {
		for _, sub := range rule.substrings {
			if strings.Contains(text, sub) {
				return rule.category
			}
		}
	}
	return CategoryNone
}

// NormalizeLabel lowercases and strips diacritics so accented label text
// still matches the rule table.
func NormalizeLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return strings.ToLower(result)
}

// AnswerFor resolves the fill value for a classified question. ok is false
// when the profile/policy has nothing to say, in which case the field is
// left untouched.
func AnswerFor(cat QuestionCategory, policy Policy, p *profile.CandidateProfile, now time.Time) (string, bool) {
	switch cat {
	case CategoryWorkAuth:
		return policy.WorkAuthorization, policy.WorkAuthorization != ""
	case CategorySponsorship:
		return policy.Sponsorship, policy.Sponsorship != ""
	case CategoryYears:
		return strconv.Itoa(profile.TotalYears(p.WorkExperience, now)), true
	case CategoryLinkedIn:
		return p.LinkedInURL, p.LinkedInURL != ""
	case CategoryGitHub:
		return p.GitHubURL, p.GitHubURL != ""
	case CategoryPortfolio:
		return p.PortfolioURL, p.PortfolioURL != ""
	}
	return "", false
}

// FillCustomQuestions walks the labels under container, resolves each label's
// control (for attribute first, nearest ancestor block second) and fills the
// ones a rule matches. Returns the number of fields filled.
func FillCustomQuestions(page playwright.Page, container string, policy Policy, p *profile.CandidateProfile, now time.Time) int {
	//container may be a comma list of alternatives
	parts := strings.Split(container, ",")
	selectors := make([]string, 0, len(parts))
	for _, part := range parts {
		selectors = append(selectors, strings.TrimSpace(part)+" label")
	}
	labels, err := page.Locator(strings.Join(selectors, ", ")).All()
	if err != nil || len(labels) == 0 {
		return 0
	}

	filled := 0
	for _, label := range labels {
		text, err := label.TextContent(playwright.LocatorTextContentOptions{
			Timeout: playwright.Float(1000),
		})
		if err != nil {
			continue
		}

		var answer string
		var ok bool
		cat := Classify(text)
		switch cat {
		case CategoryDemographic:
			//demographic answers are never guessed, hard invariant; the
			//only permitted source is one the user explicitly provided
			answer, ok = answerByKey(text, p.Demographics)
			if !ok {
				log.Printf("    🔒 Skipping demographic question: %s", strings.TrimSpace(text))
				continue
			}
		default:
			//a job-specific template answer wins over the rule table
			if answer, ok = answerByKey(text, p.CustomAnswers); !ok {
				if cat == CategoryNone {
					continue
				}
				answer, ok = AnswerFor(cat, policy, p, now)
			}
		}
		if !ok {
			continue
		}

		ctrl := controlForLabel(page, label)
		if ctrl == nil {
			continue
		}
		if fillControl(page, ctrl, answer) {
			if cat == CategoryNone {
				log.Printf("    ✅ Answered question from template: %s", strings.TrimSpace(text))
			} else {
				log.Printf("    ✅ Answered %s question", cat)
			}
			filled++
		}
	}
	return filled
}

// answerByKey resolves a label against user-provided answers keyed by question
// text: the normalized label must contain the normalized key.
func answerByKey(label string, answers map[string]string) (string, bool) {
	if len(answers) == 0 {
		return "", false
	}
	text := NormalizeLabel(label)
	for key, value := range answers {
		if value != "" && strings.Contains(text, NormalizeLabel(key)) {
			return value, true
		}
	}
	return "", false
}

// controlForLabel finds the form control a label describes.
func controlForLabel(page playwright.Page, label playwright.Locator) playwright.Locator {
	if forAttr, err := label.GetAttribute("for"); err == nil && forAttr != "" {
		ctrl := page.Locator(fmt.Sprintf(`[id="%s"]`, forAttr)).First()
		if n, err := ctrl.Count(); err == nil && n > 0 {
			return ctrl
		}
	}

	//fall back to the nearest ancestor block holding a control
	block := label.Locator("xpath=ancestor::*[self::div or self::fieldset or self::li][1]")
	ctrl := block.Locator("input, select, textarea").First()
	if n, err := ctrl.Count(); err == nil && n > 0 {
		return ctrl
	}
	return nil
}

func fillControl(page playwright.Page, ctrl playwright.Locator, answer string) bool {
	tag, err := ctrl.Evaluate("el => el.tagName.toLowerCase()", nil)
	if err != nil {
		return false
	}

	switch tag {
	case "select":
		return dom.SelectLocator(ctrl, answer)
	case "textarea":
		return dom.FillLocator(ctrl, answer)
	case "input":
		typ, _ := ctrl.GetAttribute("type")
		switch typ {
		case "radio":
			name, _ := ctrl.GetAttribute("name")
			if name == "" {
				return false
			}
			return dom.FillRadio(page, name, answer)
		case "checkbox":
			want := strings.EqualFold(answer, "yes") || strings.EqualFold(answer, "true")
			cur, err := ctrl.IsChecked()
			if err != nil {
				return false
			}
			if cur == want {
				return true
			}
			return ctrl.SetChecked(want, playwright.LocatorSetCheckedOptions{
				Timeout: playwright.Float(2000),
			}) == nil
		default:
			return dom.FillLocator(ctrl, answer)
		}
	}
	return false
}
