package strategy

import (
	"log"
	"net/url"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Registry holds the strategies in a fixed priority order and picks the
// active one for a page.
type Registry struct {
	strategies []Strategy
}

func NewRegistry(strategies ...Strategy) *Registry {
	return &Registry{strategies: strategies}
}

// Resolve tries each strategy's detector in order; the first positive wins.
// When every detector declines, a URL-pattern fallback table is consulted.
// DOM checks and URL checks are deliberately redundant: ATS vendors
// white-label their hosting domains, so either signal alone can miss.
func (r *Registry) Resolve(page playwright.Page, pageURL string) (Strategy, Platform) {
	for _, s := range r.strategies {
		if s.Detect(page) {
			log.Printf("🔎 Platform detected: %s", s.Name())
			return s, s.Name()
		}
	}

	if p := PlatformFromURL(pageURL); p != Unknown {
		for _, s := range r.strategies {
			if s.Name() == p {
				log.Printf("🔎 Platform resolved via URL fallback: %s", p)
				return s, p
			}
		}
	}

	log.Printf("❓ No strategy recognized the page")
	return nil, Unknown
}

var urlFallback = []struct {
	pattern  string
	platform Platform
}{
	{"myworkdayjobs.com", Workday},
	{"workday.com", Workday},
	{"greenhouse.io", Greenhouse},
	{"lever.co", Lever},
	{"taleo.net", Taleo},
}

// PlatformFromURL maps a page URL onto a platform by hostname substring.
func PlatformFromURL(raw string) Platform {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return Unknown
	}
	host := strings.ToLower(parsed.Host)
	for _, f := range urlFallback {
		if strings.Contains(host, f.pattern) {
			return f.platform
		}
	}
	return Unknown
}
