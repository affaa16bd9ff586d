// Generic, platform-agnostic form manipulation on top of Playwright locators.
// Every primitive is best-effort: a missing element is logged and reported as
// a false return, never an error, so a strategy can keep filling the rest of
// the form.

package dom

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	//fixed polling interval for the wait family
	pollInterval = 100 * time.Millisecond

	//short action timeout so a stale locator fails fast instead of
	//eating into the run
	actionTimeoutMs = 2000
)

// DefaultWaitTimeout bounds a single element wait. An autofill run has no
// timeout of its own; resilience comes from every wait being bounded.
const DefaultWaitTimeout = 5 * time.Second

// FillText sets the value of a text input or textarea and dispatches the
// events reactive frameworks listen for, so the page observes the change.
func FillText(page playwright.Page, selector, value string) bool {
	loc := resolve(page, selector)
	if loc == nil {
		return false
	}
	return FillLocator(loc, value)
}

// FillLocator is FillText for an already-resolved locator (scoped fills
// inside repeatable sections).
func FillLocator(loc playwright.Locator, value string) bool {
	if err := loc.Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(actionTimeoutMs),
	}); err != nil {
		log.Printf("    ⚠️ fill failed: %v", err)
		return false
	}
	//commit the value so frameworks that persist on change/blur pick it up
	_ = loc.DispatchEvent("input", nil)
	_ = loc.DispatchEvent("change", nil)
	_ = loc.Blur(playwright.LocatorBlurOptions{Timeout: playwright.Float(actionTimeoutMs)})
	return true
}

// FillSelect picks an option by exact value, exact label, then
// case-insensitive substring of the label. Returns false when nothing matches.
func FillSelect(page playwright.Page, selector, value string) bool {
	loc := resolve(page, selector)
	if loc == nil {
		return false
	}
	return SelectLocator(loc, value)
}

// SelectLocator is FillSelect for an already-resolved locator.
func SelectLocator(loc playwright.Locator, value string) bool {
	options, err := loc.Locator("option").All()
	if err != nil || len(options) == 0 {
		log.Printf("    ⚠️ select has no options")
		return false
	}

	match := -1
	lower := strings.ToLower(strings.TrimSpace(value))
	for i, opt := range options {
		val, _ := opt.GetAttribute("value")
		label, _ := opt.TextContent()
		label = strings.TrimSpace(label)
		if val == value || label == value {
			match = i
			break
		}
		if match < 0 && lower != "" && strings.Contains(strings.ToLower(label), lower) {
			match = i
		}
	}
	if match < 0 {
		return false
	}

	if _, err := loc.SelectOption(playwright.SelectOptionValues{
		Indexes: &[]int{match},
	}, playwright.LocatorSelectOptionOptions{
		Timeout: playwright.Float(actionTimeoutMs),
	}); err != nil {
		log.Printf("    ⚠️ select option failed: %v", err)
		return false
	}
	_ = loc.DispatchEvent("change", nil)
	return true
}

// FillRadio checks the first radio in the named group matching by value or by
// a data-label attribute.
func FillRadio(page playwright.Page, groupName, value string) bool {
	radios, err := page.Locator(fmt.Sprintf(`input[type="radio"][name="%s"]`, groupName)).All()
	if err != nil || len(radios) == 0 {
		log.Printf("    ⚠️ radio group %q not found", groupName)
		return false
	}
	for _, r := range radios {
		v, _ := r.GetAttribute("value")
		label, _ := r.GetAttribute("data-label")
		if strings.EqualFold(v, value) || (label != "" && strings.EqualFold(label, value)) {
			if err := r.Check(playwright.LocatorCheckOptions{
				Timeout: playwright.Float(actionTimeoutMs),
			}); err != nil {
				log.Printf("    ⚠️ radio check failed: %v", err)
				return false
			}
			_ = r.DispatchEvent("change", nil)
			return true
		}
	}
	return false
}

// FillCheckbox sets the checkbox only when the current state differs, so a
// repeated call emits no redundant change event.
func FillCheckbox(page playwright.Page, selector string, checked bool) bool {
	loc := resolve(page, selector)
	if loc == nil {
		return false
	}
	current, err := loc.IsChecked()
	if err != nil {
		log.Printf("    ⚠️ checkbox state read failed: %v", err)
		return false
	}
	if current == checked {
		return true
	}
	if err := loc.SetChecked(checked, playwright.LocatorSetCheckedOptions{
		Timeout: playwright.Float(actionTimeoutMs),
	}); err != nil {
		log.Printf("    ⚠️ checkbox set failed: %v", err)
		return false
	}
	return true
}

// UploadFile assigns a file to a file input. Fails when the target is absent
// or is not a file input.
func UploadFile(page playwright.Page, selector string, data []byte, filename string) bool {
	loc := resolve(page, selector)
	if loc == nil {
		return false
	}
	typ, _ := loc.GetAttribute("type")
	if typ != "file" {
		log.Printf("    ⚠️ %q is not a file input", selector)
		return false
	}
	if err := loc.SetInputFiles([]playwright.InputFile{{
		Name:     filename,
		MimeType: mimeFor(filename),
		Buffer:   data,
	}}, playwright.LocatorSetInputFilesOptions{
		Timeout: playwright.Float(actionTimeoutMs),
	}); err != nil {
		log.Printf("    ⚠️ file upload failed: %v", err)
		return false
	}
	_ = loc.DispatchEvent("change", nil)
	return true
}

// WaitForElement polls until the selector resolves or the timeout elapses.
// Returns nil on timeout, never an error.
func WaitForElement(page playwright.Page, selector string, timeout time.Duration) playwright.Locator {
	deadline := time.Now().Add(timeout)
	for {
		loc := page.Locator(selector).First()
		if n, err := loc.Count(); err == nil && n > 0 {
			return loc
		}
		if time.Now().After(deadline) {
			log.Printf("    ⚠️ timed out waiting for %q", selector)
			return nil
		}
		time.Sleep(pollInterval)
	}
}

// WaitForElements polls until at least minCount elements match. Returns the
// matches found so far on timeout (possibly empty).
func WaitForElements(page playwright.Page, selector string, minCount int, timeout time.Duration) []playwright.Locator {
	deadline := time.Now().Add(timeout)
	for {
		locs, err := page.Locator(selector).All()
		if err == nil && len(locs) >= minCount {
			return locs
		}
		if time.Now().After(deadline) {
			log.Printf("    ⚠️ timed out waiting for %d × %q", minCount, selector)
			if err != nil {
				return nil
			}
			return locs
		}
		time.Sleep(pollInterval)
	}
}

// Click clicks the first match, best-effort.
func Click(page playwright.Page, selector string) bool {
	loc := resolve(page, selector)
	if loc == nil {
		return false
	}
	if err := loc.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(actionTimeoutMs),
	}); err != nil {
		log.Printf("    ⚠️ click failed: %v", err)
		return false
	}
	return true
}

// ScrollIntoView scrolls the first match into the viewport, best-effort.
func ScrollIntoView(page playwright.Page, selector string) bool {
	loc := resolve(page, selector)
	if loc == nil {
		return false
	}
	if err := loc.ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{
		Timeout: playwright.Float(actionTimeoutMs),
	}); err != nil {
		log.Printf("    ⚠️ scroll failed: %v", err)
		return false
	}
	return true
}

func resolve(page playwright.Page, selector string) playwright.Locator {
	loc := page.Locator(selector).First()
	n, err := loc.Count()
	if err != nil || n == 0 {
		log.Printf("    ⚠️ element not found: %q", selector)
		return nil
	}
	return loc
}

func mimeFor(filename string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(strings.ToLower(filename), ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
