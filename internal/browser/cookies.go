package browser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
)

//Cookie represents a browser cookie exported to a JSON file
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// LoadCookies reads a cookies JSON export for seeding a browser context.
func LoadCookies(path string) ([]playwright.OptionalCookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, err
	}

	pwCookies := make([]playwright.OptionalCookie, len(cookies))
	for i, c := range cookies {
		pwCookies[i] = c.ToPlaywright()
	}
	return pwCookies, nil
}

// LoadPlatformCookies loads the per-platform cookie file, e.g.
// cookies-workday.json. Missing files are not an error for the caller to
// treat as fatal; ATS boards usually work logged out.
func LoadPlatformCookies(dir, platform string) ([]playwright.OptionalCookie, error) {
	return LoadCookies(filepath.Join(dir, fmt.Sprintf("cookies-%s.json", platform)))
}

func (c Cookie) ToPlaywright() playwright.OptionalCookie {
	cookie := playwright.OptionalCookie{
		Name:   c.Name,
		Value:  c.Value,
		Domain: playwright.String(c.Domain),
		Path:   playwright.String(c.Path),
	}

	if c.Expires > 0 {
		cookie.Expires = playwright.Float(c.Expires)
	}
	if c.HTTPOnly {
		cookie.HttpOnly = playwright.Bool(true)
	}
	if c.Secure {
		cookie.Secure = playwright.Bool(true)
	}

	switch c.SameSite {
	case "Lax":
		cookie.SameSite = playwright.SameSiteAttributeLax
	case "Strict":
		cookie.SameSite = playwright.SameSiteAttributeStrict
	case "None":
		cookie.SameSite = playwright.SameSiteAttributeNone
	}

	return cookie
}
