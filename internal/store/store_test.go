package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOpenSeedsDefaults(t *testing.T) {
	s := Open(t.TempDir(), "https://tracker.example.com")

	settings := s.Settings()
	assert.False(t, settings.AutoSubmit, "auto-submit must default off")
	assert.Equal(t, "https://tracker.example.com", settings.BackendURL)
	for _, platform := range []string{"workday", "greenhouse", "lever", "taleo"} {
		assert.True(t, settings.Platforms[platform], platform)
	}
}

func TestSettingsPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s := Open(dir, "https://tracker.example.com")
	settings := s.Settings()
	settings.AutoSubmit = true
	settings.Platforms["taleo"] = false
	s.UpdateSettings(settings)
	s.SetToken("tok-123")

	reopened := Open(dir, "https://other.example.com")
	got := reopened.Settings()
	assert.True(t, got.AutoSubmit)
	assert.False(t, got.Platforms["taleo"])
	//existing settings win over the seed URL
	assert.Equal(t, "https://tracker.example.com", got.BackendURL)
	assert.Equal(t, "tok-123", reopened.Token())
}

func TestSettingsPlatformEnabled(t *testing.T) {
	var settings Settings
	assert.True(t, settings.PlatformEnabled("workday"), "unlisted platforms default to enabled")

	settings.Platforms = map[string]bool{"lever": false, "taleo": true}
	assert.False(t, settings.PlatformEnabled("lever"))
	assert.True(t, settings.PlatformEnabled("taleo"))
	assert.True(t, settings.PlatformEnabled("greenhouse"))
}

func TestAppendActivityCap(t *testing.T) {
	s := Open(t.TempDir(), "https://tracker.example.com")

	for i := 0; i < MaxActivityEntries+1; i++ {
		s.AppendActivity(ActivityEntry{
			Timestamp: time.Now(),
			Platform:  "greenhouse",
			URL:       fmt.Sprintf("https://boards.greenhouse.io/acme/%d", i),
			Action:    "autofill",
			Result:    "success",
		})
	}

	activity := s.Activity()
	assert.Len(t, activity, MaxActivityEntries)
	//the oldest entry was evicted, entry 1 is now first
	assert.Equal(t, "https://boards.greenhouse.io/acme/1", activity[0].URL)
	assert.Equal(t, fmt.Sprintf("https://boards.greenhouse.io/acme/%d", MaxActivityEntries), activity[len(activity)-1].URL)
}

func TestActivityReturnsCopy(t *testing.T) {
	s := Open(t.TempDir(), "https://tracker.example.com")
	s.AppendActivity(ActivityEntry{Platform: "lever", Action: "autofill", Result: "success"})

	activity := s.Activity()
	activity[0].Platform = "mutated"

	assert.Equal(t, "lever", s.Activity()[0].Platform)
}

func TestReset(t *testing.T) {
	s := Open(t.TempDir(), "https://tracker.example.com")

	settings := s.Settings()
	settings.AutoSubmit = true
	s.UpdateSettings(settings)
	s.SetToken("tok-123")
	s.AppendActivity(ActivityEntry{Platform: "workday", Action: "autofill", Result: "success"})

	s.Reset()

	assert.False(t, s.Settings().AutoSubmit)
	assert.Equal(t, "https://tracker.example.com", s.Settings().BackendURL)
	assert.Empty(t, s.Token())
	assert.Empty(t, s.Activity())
}

func TestLastSync(t *testing.T) {
	s := Open(t.TempDir(), "https://tracker.example.com")
	assert.True(t, s.LastSync().IsZero())

	now := time.Now()
	s.SetLastSync(now)
	assert.WithinDuration(t, now, s.LastSync(), time.Second)
}
