// Page agent: the per-page context that owns the strategy registry. It
// resolves the platform once per page load and serves detect/fill requests
// from the coordinator.

package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-autofill-automation/internal/bus"
	"go-autofill-automation/internal/profile"
	"go-autofill-automation/internal/strategy"
	"go-autofill-automation/utils"

	"github.com/playwright-community/playwright-go"
)

type Agent struct {
	page     playwright.Page
	registry *strategy.Registry
	shots    *utils.ScreenshotDebugger

	//resolved once per page load; unknown is terminal
	active   strategy.Strategy
	platform strategy.Platform
}

func New(page playwright.Page, registry *strategy.Registry, b *bus.Bus) *Agent {
	a := &Agent{page: page, registry: registry}
	a.resolve()
	b.Handle(bus.KindDetectPlatform, a.handleDetect)
	b.Handle(bus.KindAutofillData, a.handleAutofill)
	return a
}

// WithScreenshots enables debug screenshots of failed runs.
func (a *Agent) WithScreenshots(shots *utils.ScreenshotDebugger) *Agent {
	a.shots = shots
	return a
}

// Platform returns the cached identifier for the current page.
func (a *Agent) Platform() strategy.Platform {
	return a.platform
}

func (a *Agent) resolve() {
	pageURL := ""
	if a.page != nil {
		pageURL = a.page.URL()
	}
	a.active, a.platform = a.registry.Resolve(a.page, pageURL)
}

func (a *Agent) handleDetect(ctx context.Context, payload interface{}) (interface{}, error) {
	return a.platform, nil
}

func (a *Agent) handleAutofill(ctx context.Context, payload interface{}) (interface{}, error) {
	prof, ok := payload.(*profile.CandidateProfile)
	if !ok {
		return nil, fmt.Errorf("autofill-data: unexpected payload %T", payload)
	}

	//unknown platform: refuse outright instead of a blind best-effort fill
	if a.platform == strategy.Unknown || a.active == nil {
		run := strategy.NewRun(strategy.Unknown)
		return run.Failure("cannot autofill", strategy.ErrUnknownPlatform), nil
	}

	a.toast("Autofill started…")
	result := strategy.SafeAutofill(ctx, a.active, a.page, prof)
	if result.Success {
		a.toast(fmt.Sprintf("Autofill complete: %d fields filled", result.FieldsFilled))
	} else {
		a.toast("Autofill failed: " + result.Message)
		if a.shots != nil && a.page != nil {
			a.shots.CaptureAndLog(a.page, string(result.Platform),
				fmt.Sprintf("📸 Capturing failed %s run", result.Platform))
		}
	}
	log.Printf("🏁 [%s] run finished: success=%v fields=%d elapsed=%s",
		result.Platform, result.Success, result.FieldsFilled, result.Elapsed.Round(time.Millisecond))
	return result, nil
}

// toast shows a transient on-page notification, best-effort.
func (a *Agent) toast(message string) {
	if a.page == nil {
		return
	}
	script := `(msg) => {
		const el = document.createElement('div');
		el.textContent = msg;
		el.style.cssText = 'position:fixed;top:16px;right:16px;z-index:2147483647;' +
			'background:#1a1a2e;color:#fff;padding:10px 16px;border-radius:6px;' +
			'font:14px sans-serif;box-shadow:0 2px 8px rgba(0,0,0,.3)';
		document.body.appendChild(el);
		setTimeout(() => el.remove(), 4000);
	}`
	if _, err := a.page.Evaluate(script, message); err != nil {
		log.Printf("    ⚠️ toast failed: %v", err)
	}
}
