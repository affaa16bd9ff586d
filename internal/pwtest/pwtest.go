// Shared browser harness for tests that exercise real DOM behavior.

package pwtest

import (
	"testing"

	"github.com/playwright-community/playwright-go"
)

// NewPage launches a headless Chromium page for the test, skipping when no
// Playwright runtime is installed (CI without browsers). Everything is torn
// down via t.Cleanup.
func NewPage(t *testing.T) playwright.Page {
	t.Helper()

	pw, err := playwright.Run()
	if err != nil {
		t.Skipf("playwright not available: %v", err)
	}
	t.Cleanup(func() { pw.Stop() })

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Skipf("could not launch browser: %v", err)
	}
	t.Cleanup(func() { browser.Close() })

	page, err := browser.NewPage()
	if err != nil {
		t.Fatalf("could not create page: %v", err)
	}
	return page
}
