// Entry point for the autofill agent: it boots the coordinator, opens the
// target application page in a browser, and serves the control API until
// interrupted.

package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go-autofill-automation/internal/agent"
	"go-autofill-automation/internal/backend"
	"go-autofill-automation/internal/browser"
	"go-autofill-automation/internal/bus"
	"go-autofill-automation/internal/config"
	"go-autofill-automation/internal/control"
	"go-autofill-automation/internal/coordinator"
	"go-autofill-automation/internal/notify"
	"go-autofill-automation/internal/store"
	"go-autofill-automation/internal/strategy"
	"go-autofill-automation/internal/strategy/greenhouse"
	"go-autofill-automation/internal/strategy/lever"
	"go-autofill-automation/internal/strategy/taleo"
	"go-autofill-automation/internal/strategy/workday"
	"go-autofill-automation/utils"

	"github.com/playwright-community/playwright-go"
)

func main() {
	urlFlag := flag.String("url", "", "application page URL (overrides config target_url)")
	versionFlag := flag.String("version", "", "resume version id to request from the backend")
	flag.Parse()

	cfg := config.Load()
	if *urlFlag != "" {
		cfg.TargetURL = *urlFlag
	}
	if cfg.TargetURL == "" {
		log.Fatal("target URL is required (-url flag or target_url in config)")
	}
	if *versionFlag != "" {
		cfg.DefaultResumeVersion = *versionFlag
	}

	st := store.Open(cfg.StorePath, cfg.BackendURL)
	api := backend.NewClient(cfg.BackendURL)

	var notifier coordinator.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		reporter, err := notify.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram notifications disabled: %v", err)
		} else {
			notifier = reporter
			log.Println("📨 Telegram notifications enabled")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bus.New()
	coord := coordinator.New(cfg, b, api, st, notifier)
	go coord.Run(ctx)

	mgr, err := browser.NewManager(cfg.Headless)
	if err != nil {
		log.Fatalf("❌ Failed to start browser: %v", err)
	}
	defer mgr.Close()

	//seed every enabled platform's session cookies; boards usually work
	//logged out so a missing file is only a warning
	var cookies []playwright.OptionalCookie
	for _, platform := range []string{"workday", "greenhouse", "lever", "taleo"} {
		if !cfg.PlatformEnabled(platform) {
			continue
		}
		loaded, err := browser.LoadPlatformCookies(cfg.CookiesPath, platform)
		if err != nil {
			log.Printf("⚠️ No cookies for %s: %v", platform, err)
			continue
		}
		cookies = append(cookies, loaded...)
		log.Printf("🔑 Loaded %d cookies for %s", len(loaded), platform)
	}

	browserCtx, err := mgr.NewContext(cookies)
	if err != nil {
		log.Fatalf("❌ Failed to create browser context: %v", err)
	}
	page, err := browserCtx.NewPage()
	if err != nil {
		log.Fatalf("❌ Failed to create page: %v", err)
	}

	log.Printf("🔍 Opening %s", cfg.TargetURL)
	if _, err := page.Goto(cfg.TargetURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		log.Fatalf("❌ Failed to open target page: %v", err)
	}

	var strategies []strategy.Strategy
	for _, s := range []strategy.Strategy{
		workday.New(cfg),
		greenhouse.New(cfg),
		lever.New(cfg),
		taleo.New(cfg),
	} {
		if cfg.PlatformEnabled(string(s.Name())) {
			strategies = append(strategies, s)
		}
	}
	registry := strategy.NewRegistry(strategies...)

	a := agent.New(page, registry, b).
		WithScreenshots(utils.NewScreenshotDebugger(cfg.ScreenshotsPath))
	log.Printf("📋 Page agent ready, platform: %s", a.Platform())

	srv := control.New(b, st)
	go func() {
		log.Printf("🚀 Control surface listening on %s", cfg.ListenAddr)
		if err := srv.Run(cfg.ListenAddr); err != nil {
			log.Fatalf("❌ Control surface failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🏁 Shutting down")
}
