// Small harness that opens a URL and prints which ATS platform the page
// resolves to. Useful when onboarding a new job board.

package main

import (
	"flag"
	"fmt"
	"log"

	"go-autofill-automation/internal/browser"
	"go-autofill-automation/internal/config"
	"go-autofill-automation/internal/strategy"
	"go-autofill-automation/internal/strategy/greenhouse"
	"go-autofill-automation/internal/strategy/lever"
	"go-autofill-automation/internal/strategy/taleo"
	"go-autofill-automation/internal/strategy/workday"

	"github.com/playwright-community/playwright-go"
)

func main() {
	urlFlag := flag.String("url", "", "page URL to classify")
	flag.Parse()
	if *urlFlag == "" {
		log.Fatal("-url is required")
	}

	cfg := config.Default()

	mgr, err := browser.NewManager(cfg.Headless)
	if err != nil {
		log.Fatalf("❌ Failed to start browser: %v", err)
	}
	defer mgr.Close()

	ctx, err := mgr.NewContext(nil)
	if err != nil {
		log.Fatalf("❌ Failed to create browser context: %v", err)
	}
	page, err := ctx.NewPage()
	if err != nil {
		log.Fatalf("❌ Failed to create page: %v", err)
	}

	log.Printf("🔍 Opening %s", *urlFlag)
	if _, err := page.Goto(*urlFlag, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		log.Fatalf("❌ Failed to open page: %v", err)
	}

	registry := strategy.NewRegistry(
		workday.New(cfg),
		greenhouse.New(cfg),
		lever.New(cfg),
		taleo.New(cfg),
	)
	_, platform := registry.Resolve(page, page.URL())
	fmt.Println(platform)
}
