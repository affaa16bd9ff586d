// Long-lived coordinator bridging the control surface and the page agent.
// It owns the auth-token lifecycle, fetches the candidate profile, dispatches
// fill requests, and records every outcome in the activity log.

package coordinator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go-autofill-automation/internal/backend"
	"go-autofill-automation/internal/bus"
	"go-autofill-automation/internal/config"
	"go-autofill-automation/internal/store"
	"go-autofill-automation/internal/strategy"
)

// State is the coordinator's lifecycle phase.
type State string

const (
	StateIdle            State = "idle"
	StateAuthenticated   State = "authenticated"
	StateFetchingProfile State = "fetching-profile"
	StateDispatching     State = "dispatching"
	StateAwaitingResult  State = "awaiting-result"
)

const keepAliveInterval = 25 * time.Second

// StartRequest is the autofill-start payload from the control surface.
// JobID selects job-specific generated content from the backend.
type StartRequest struct {
	URL       string `json:"url,omitempty"`
	VersionID string `json:"version_id,omitempty"`
	JobID     string `json:"job_id,omitempty"`
}

// Notifier receives run summaries; nil disables notifications.
type Notifier interface {
	RunSummary(res *strategy.Result, pageURL string) error
	RunError(err error) error
}

type Coordinator struct {
	cfg      *config.Config
	bus      *bus.Bus
	api      *backend.Client
	store    *store.Store
	notifier Notifier

	mu    sync.Mutex
	state State
}

// New rehydrates auth state from the store (the coordinator may be restarted
// at any time and assumes nothing about its previous memory) and registers
// its bus handlers.
func New(cfg *config.Config, b *bus.Bus, api *backend.Client, st *store.Store, notifier Notifier) *Coordinator {
	c := &Coordinator{
		cfg:      cfg,
		bus:      b,
		api:      api,
		store:    st,
		notifier: notifier,
		state:    StateIdle,
	}

	if token := st.Token(); token != "" {
		api.SetToken(token)
		c.state = StateAuthenticated
		log.Println("🔑 Restored auth token from store")
	}

	//persisted settings are the runtime truth and survive restarts; they
	//override whatever the static config said
	c.applySettings(st.Settings())

	b.Handle(bus.KindAutofillStart, c.handleAutofillStart)
	b.Handle(bus.KindGetSettings, c.handleGetSettings)
	b.Handle(bus.KindUpdateSettings, c.handleUpdateSettings)
	b.Handle(bus.KindLogActivity, c.handleLogActivity)
	return c
}

// State reports the current lifecycle phase.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Run keeps the coordinator alive until ctx is cancelled. The periodic tick
// refreshes the last-sync stamp so the process is observably healthy while
// idle.
func (c *Coordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.store.SetLastSync(time.Now())
		}
	}
}

// applySettings pushes the stored flags into the shared config the adapters
// read at fill time. Runs are serialized by the control surface, so the
// adapters never observe a mid-run flip.
func (c *Coordinator) applySettings(settings store.Settings) {
	c.cfg.AutoSubmit = settings.AutoSubmit
	if len(settings.Platforms) > 0 {
		if c.cfg.Platforms == nil {
			c.cfg.Platforms = make(map[string]bool)
		}
		for name, enabled := range settings.Platforms {
			c.cfg.Platforms[name] = enabled
		}
	}
}

func (c *Coordinator) handleAutofillStart(ctx context.Context, payload interface{}) (interface{}, error) {
	req, ok := payload.(StartRequest)
	if !ok {
		return nil, fmt.Errorf("autofill-start: unexpected payload %T", payload)
	}

	//a platform the user disabled in settings never gets a fill dispatched
	if reply, err := c.bus.Request(ctx, bus.KindDetectPlatform, nil); err == nil {
		if platform, ok := reply.(strategy.Platform); ok && platform != strategy.Unknown {
			if !c.store.Settings().PlatformEnabled(string(platform)) {
				err := fmt.Errorf("autofill for %s is disabled in settings", platform)
				c.recordError(req.URL, err)
				return nil, err
			}
		}
	}

	if err := c.ensureAuthenticated(ctx); err != nil {
		c.recordError(req.URL, err)
		c.setState(StateIdle)
		return nil, err
	}

	c.setState(StateFetchingProfile)
	versionID := req.VersionID
	if versionID == "" {
		versionID = c.store.Settings().DefaultResumeVersion
	}
	if versionID == "" {
		versionID = c.cfg.DefaultResumeVersion
	}
	prof, err := c.api.ResumeData(ctx, versionID)
	if err != nil {
		c.recordError(req.URL, fmt.Errorf("profile fetch failed: %w", err))
		c.setState(StateIdle)
		return nil, err
	}
	log.Printf("👤 Profile fetched for %s", prof.FullName())

	//job-specific generated content overrides the generic profile
	if req.JobID != "" {
		tpl, err := c.api.ApplicationTemplate(ctx, req.JobID)
		if err != nil {
			log.Printf("⚠️ No application template for job %s: %v", req.JobID, err)
		} else {
			if tpl.CoverLetter != "" {
				prof.CoverLetter = tpl.CoverLetter
			}
			if len(tpl.Answers) > 0 {
				prof.CustomAnswers = tpl.Answers
			}
			log.Printf("📝 Applied application template for job %s", req.JobID)
		}
	}

	c.setState(StateDispatching)
	c.setState(StateAwaitingResult)
	reply, err := c.bus.Request(ctx, bus.KindAutofillData, prof)
	if err != nil {
		c.recordError(req.URL, fmt.Errorf("page agent unreachable: %w", err))
		c.setState(StateIdle)
		return nil, err
	}
	result, ok := reply.(*strategy.Result)
	if !ok {
		c.setState(StateIdle)
		return nil, fmt.Errorf("autofill-data: unexpected reply %T", reply)
	}

	c.recordResult(req.URL, result)
	c.setState(StateIdle)
	return result, nil
}

func (c *Coordinator) ensureAuthenticated(ctx context.Context) error {
	if c.api.Token() != "" {
		return nil
	}
	token, err := c.api.Login(ctx, c.cfg.BackendEmail, c.cfg.BackendPassword)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	c.store.SetToken(token)
	c.setState(StateAuthenticated)
	log.Println("🔑 Authenticated against backend")
	return nil
}

// recordResult appends the outcome locally, forwards it to the backend
// best-effort, and notifies. Nothing is silently dropped.
func (c *Coordinator) recordResult(pageURL string, result *strategy.Result) {
	entry := store.ActivityEntry{
		Timestamp:       time.Now(),
		Platform:        string(result.Platform),
		URL:             pageURL,
		Action:          "autofill",
		Result:          outcomeOf(result),
		FieldsCompleted: result.FieldsFilled,
		TotalFields:     result.FieldsFilled + len(result.FieldErrors),
		Error:           result.Message,
	}
	c.store.AppendActivity(entry)
	c.forward(entry)

	if result.Submitted {
		submit := entry
		submit.Action = "submit"
		submit.Error = ""
		c.store.AppendActivity(submit)
		c.forward(submit)
	}

	c.store.SetLastSync(time.Now())

	if c.notifier != nil {
		if err := c.notifier.RunSummary(result, pageURL); err != nil {
			log.Printf("⚠️ Failed to send run summary: %v", err)
		}
	}
}

func (c *Coordinator) recordError(pageURL string, cause error) {
	log.Printf("❌ Autofill run failed: %v", cause)
	entry := store.ActivityEntry{
		Timestamp: time.Now(),
		Platform:  string(strategy.Unknown),
		URL:       pageURL,
		Action:    "error",
		Result:    "failure",
		Error:     cause.Error(),
	}
	c.store.AppendActivity(entry)
	c.forward(entry)

	if c.notifier != nil {
		if err := c.notifier.RunError(cause); err != nil {
			log.Printf("⚠️ Failed to send error notification: %v", err)
		}
	}
}

func (c *Coordinator) forward(entry store.ActivityEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.api.LogActivity(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to forward activity to backend: %v", err)
	}
}

func outcomeOf(result *strategy.Result) string {
	switch {
	case !result.Success:
		return "failure"
	case len(result.FieldErrors) > 0:
		return "partial"
	default:
		return "success"
	}
}

func (c *Coordinator) handleGetSettings(ctx context.Context, payload interface{}) (interface{}, error) {
	return c.store.Settings(), nil
}

func (c *Coordinator) handleUpdateSettings(ctx context.Context, payload interface{}) (interface{}, error) {
	settings, ok := payload.(store.Settings)
	if !ok {
		return nil, fmt.Errorf("update-settings: unexpected payload %T", payload)
	}
	c.store.UpdateSettings(settings)
	c.applySettings(settings)
	if err := c.api.UpdateSettings(ctx, settings); err != nil {
		log.Printf("⚠️ Failed to sync settings to backend: %v", err)
	}
	return settings, nil
}

func (c *Coordinator) handleLogActivity(ctx context.Context, payload interface{}) (interface{}, error) {
	entry, ok := payload.(store.ActivityEntry)
	if !ok {
		return nil, fmt.Errorf("log-activity: unexpected payload %T", payload)
	}
	c.store.AppendActivity(entry)
	c.forward(entry)
	return nil, nil
}
