// Define an interface for all platform strategies
// Ensure consistency

package strategy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-autofill-automation/internal/profile"

	"github.com/playwright-community/playwright-go"
)

// Platform is the closed set of supported ATS identifiers. Unknown is
// terminal for a page load: no strategy runs against it.
type Platform string

const (
	Workday    Platform = "workday"
	Greenhouse Platform = "greenhouse"
	Lever      Platform = "lever"
	Taleo      Platform = "taleo"
	Unknown    Platform = "unknown"
)

// ErrUnknownPlatform is the cause attached to a refusal when no strategy
// recognizes the page.
var ErrUnknownPlatform = errors.New("unrecognized platform")

// Result is produced exactly once per autofill invocation and never mutated
// afterwards.
type Result struct {
	Success      bool          `json:"success"`
	Platform     Platform      `json:"platform"`
	FieldsFilled int           `json:"fields_filled"`
	Elapsed      time.Duration `json:"elapsed"`
	Message      string        `json:"message,omitempty"`
	FieldErrors  []string      `json:"field_errors,omitempty"`
	Submitted    bool          `json:"submitted,omitempty"`
}

//Strategy defines the interface that all platform adapters must implement
type Strategy interface {
	//Detect reports whether this strategy recognizes the current page,
	//combining URL checks with platform-distinctive selectors
	Detect(page playwright.Page) bool

	//Autofill fills the page from the profile. Failure paths return a
	//failure result; they never escape as errors or panics
	Autofill(ctx context.Context, page playwright.Page, p *profile.CandidateProfile) *Result

	//Name is the platform identifier (workday, greenhouse, ...)
	Name() Platform
}

// Run tracks one autofill invocation and stamps platform and elapsed time
// into whichever result it ends with.
type Run struct {
	platform    Platform
	started     time.Time
	fieldErrors []string
	submitted   bool
}

func NewRun(p Platform) *Run {
	return &Run{platform: p, started: time.Now()}
}

// FieldError records a non-fatal element-not-found style miss.
func (r *Run) FieldError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("    ⚠️ [%s] %s", r.platform, msg)
	r.fieldErrors = append(r.fieldErrors, msg)
}

// Misses is the number of field errors recorded so far.
func (r *Run) Misses() int {
	return len(r.fieldErrors)
}

// MarkSubmitted records that the adapter clicked the platform's submit
// control (auto-submit opt-in only).
func (r *Run) MarkSubmitted() {
	r.submitted = true
}

func (r *Run) Success(count int) *Result {
	return &Result{
		Success:      true,
		Platform:     r.platform,
		FieldsFilled: count,
		Elapsed:      time.Since(r.started),
		FieldErrors:  r.fieldErrors,
		Submitted:    r.submitted,
	}
}

func (r *Run) Failure(message string, cause error) *Result {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &Result{
		Success:     false,
		Platform:    r.platform,
		Elapsed:     time.Since(r.started),
		Message:     message,
		FieldErrors: r.fieldErrors,
	}
}

// SafeAutofill runs a strategy and converts any panic into a failure result,
// so nothing leaks to the page agent's message handler.
func SafeAutofill(ctx context.Context, s Strategy, page playwright.Page, p *profile.CandidateProfile) (res *Result) {
	run := NewRun(s.Name())
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("❌ [%s] fill sequence panicked: %v", s.Name(), rec)
			res = run.Failure(fmt.Sprintf("unexpected error during fill: %v", rec), nil)
		}
	}()
	return s.Autofill(ctx, page, p)
}
