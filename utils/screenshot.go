package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ScreenshotDebugger captures debug screenshots of failed runs
type ScreenshotDebugger struct {
	dir string
}

func NewScreenshotDebugger(dir string) *ScreenshotDebugger {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("⚠️ Failed to create screenshots directory: %v", err)
	}
	return &ScreenshotDebugger{dir: dir}
}

// CaptureAndLog saves a full-page screenshot and logs the given message.
func (d *ScreenshotDebugger) CaptureAndLog(page playwright.Page, name, message string) {
	log.Println(message)

	filename := fmt.Sprintf("%s-%s.png", name, time.Now().Format("20060102-150405"))
	path := filepath.Join(d.dir, filename)

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		log.Printf("⚠️ Failed to capture screenshot: %v", err)
		return
	}
	log.Printf("📸 Screenshot saved: %s", path)
}
