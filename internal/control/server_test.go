package control

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go-autofill-automation/internal/bus"
	"go-autofill-automation/internal/store"
	"go-autofill-automation/internal/strategy"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*httptest.Server, *bus.Bus, *store.Store) {
	gin.SetMode(gin.TestMode)
	b := bus.New()
	st := store.Open(t.TempDir(), "https://tracker.example.com")
	srv := httptest.NewServer(New(b, st).Router())
	t.Cleanup(srv.Close)
	return srv, b, st
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPlatformEndpoint(t *testing.T) {
	srv, b, _ := newServer(t)
	b.Handle(bus.KindDetectPlatform, func(ctx context.Context, payload interface{}) (interface{}, error) {
		return strategy.Greenhouse, nil
	})

	resp, err := http.Get(srv.URL + "/platform")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "greenhouse", body["platform"])
}

func TestActivityEndpoint(t *testing.T) {
	srv, _, st := newServer(t)
	st.AppendActivity(store.ActivityEntry{Platform: "lever", Action: "autofill", Result: "success"})

	resp, err := http.Get(srv.URL + "/activity")
	require.NoError(t, err)
	defer resp.Body.Close()

	var entries []store.ActivityEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "lever", entries[0].Platform)
}

func TestAutofillEndpoint(t *testing.T) {
	srv, b, _ := newServer(t)
	b.Handle(bus.KindAutofillStart, func(ctx context.Context, payload interface{}) (interface{}, error) {
		return strategy.NewRun(strategy.Workday).Success(4), nil
	})

	resp, err := http.Post(srv.URL+"/autofill", "application/json", strings.NewReader(`{"url":"https://acme.myworkdayjobs.com/job/1"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result strategy.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.Equal(t, 4, result.FieldsFilled)
}

// a second trigger while a run is outstanding must get 409, not a second run
func TestAutofillEndpointConcurrentRunRejected(t *testing.T) {
	srv, b, _ := newServer(t)

	release := make(chan struct{})
	started := make(chan struct{})
	b.Handle(bus.KindAutofillStart, func(ctx context.Context, payload interface{}) (interface{}, error) {
		close(started)
		<-release
		return strategy.NewRun(strategy.Lever).Success(1), nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		resp, err := http.Post(srv.URL+"/autofill", "application/json", nil)
		if err == nil {
			resp.Body.Close()
		}
	}()

	<-started
	resp, err := http.Post(srv.URL+"/autofill", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	close(release)
	wg.Wait()
}

func TestSettingsRoundTrip(t *testing.T) {
	srv, b, st := newServer(t)
	b.Handle(bus.KindGetSettings, func(ctx context.Context, payload interface{}) (interface{}, error) {
		return st.Settings(), nil
	})
	b.Handle(bus.KindUpdateSettings, func(ctx context.Context, payload interface{}) (interface{}, error) {
		settings := payload.(store.Settings)
		st.UpdateSettings(settings)
		return settings, nil
	})

	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/settings",
		strings.NewReader(`{"platforms":{"taleo":false},"auto_submit":true,"backend_url":"https://tracker.example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/settings")
	require.NoError(t, err)
	defer resp.Body.Close()

	var settings store.Settings
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&settings))
	assert.True(t, settings.AutoSubmit)
	assert.False(t, settings.Platforms["taleo"])
}
