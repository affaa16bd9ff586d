package strategy

import (
	"context"
	"testing"
	"time"

	"go-autofill-automation/internal/profile"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
)

func TestRunSuccess(t *testing.T) {
	run := NewRun(Greenhouse)
	run.FieldError("phone field not found")
	res := run.Success(7)

	assert.True(t, res.Success)
	assert.Equal(t, Greenhouse, res.Platform)
	assert.Equal(t, 7, res.FieldsFilled)
	assert.Equal(t, []string{"phone field not found"}, res.FieldErrors)
	assert.False(t, res.Submitted)
	assert.GreaterOrEqual(t, res.Elapsed, time.Duration(0))
}

func TestRunFailure(t *testing.T) {
	run := NewRun(Workday)
	res := run.Failure("apply flow did not render", nil)

	assert.False(t, res.Success)
	assert.Equal(t, Workday, res.Platform)
	assert.Equal(t, "apply flow did not render", res.Message)
	assert.Equal(t, 0, res.FieldsFilled)

	res = run.Failure("profile fetch failed", assert.AnError)
	assert.Contains(t, res.Message, "profile fetch failed: ")
	assert.Contains(t, res.Message, assert.AnError.Error())
}

func TestRunMisses(t *testing.T) {
	run := NewRun(Lever)
	assert.Equal(t, 0, run.Misses())
	run.FieldError("field %d missing", 1)
	run.FieldError("field %d missing", 2)
	assert.Equal(t, 2, run.Misses())
}

func TestRunMarkSubmitted(t *testing.T) {
	run := NewRun(Taleo)
	run.MarkSubmitted()
	assert.True(t, run.Success(1).Submitted)
}

type panickingStrategy struct{}

func (p *panickingStrategy) Name() Platform                   { return Workday }
func (p *panickingStrategy) Detect(page playwright.Page) bool { return true }
func (p *panickingStrategy) Autofill(ctx context.Context, page playwright.Page, prof *profile.CandidateProfile) *Result {
	panic("nil locator dereference")
}

// a panicking adapter must surface as a failure result, never escape
func TestSafeAutofillRecoversPanic(t *testing.T) {
	res := SafeAutofill(context.Background(), &panickingStrategy{}, nil, &profile.CandidateProfile{})

	assert.False(t, res.Success)
	assert.Equal(t, Workday, res.Platform)
	assert.Contains(t, res.Message, "nil locator dereference")
}

func TestSafeAutofillPassesThrough(t *testing.T) {
	ok := &fakeStrategy{name: Lever, detects: true}
	res := SafeAutofill(context.Background(), ok, nil, &profile.CandidateProfile{})

	assert.True(t, res.Success)
	assert.Equal(t, Lever, res.Platform)
}
