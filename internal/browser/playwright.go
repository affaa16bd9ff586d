package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Manager owns the Playwright runtime and the browser instance for the
// lifetime of the process.
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewManager(headless bool) (*Manager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	return &Manager{pw: pw, browser: browser}, nil
}

// NewContext creates a browser context, seeding session cookies when given.
func (m *Manager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	ctx, err := m.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	if len(cookies) > 0 {
		if err := ctx.AddCookies(cookies); err != nil {
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return ctx, nil
}

func (m *Manager) Close() error {
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			return err
		}
	}
	return m.pw.Stop()
}
