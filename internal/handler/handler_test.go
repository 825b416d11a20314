package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cloudwego/hertz/pkg/app"
	hconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	ri "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CommunitySpaces/internal/cache"
	"CommunitySpaces/internal/onboarding"
	"CommunitySpaces/internal/service"
	"CommunitySpaces/pkg/errors"
	"CommunitySpaces/storage/redis"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string                 `json:"code"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func newOnboardingEngine(t *testing.T) *route.Engine {
	t.Helper()

	mr := miniredis.RunT(t)
	client := ri.NewClient(&ri.Options{Addr: mr.Addr()})
	redis.SetClient(client)
	t.Cleanup(func() { _ = client.Close() })

	svc := service.NewOnboardingService(service.OnboardingDeps{
		Sessions:     cache.NewOnboardingSessionStore(time.Hour),
		NewSessionID: func() string { return "sess-h" },
	})
	prev := onboardingService
	onboardingService = func() *service.OnboardingService { return svc }
	t.Cleanup(func() { onboardingService = prev })

	engine := route.NewEngine(hconfig.NewOptions([]hconfig.Option{}))
	g := engine.Group("/v1/onboarding")
	g.POST("", StartOnboarding)
	g.GET("/:session_id", GetOnboardingProgress)
	g.PATCH("/:session_id/draft", MergeOnboardingDraft)
	g.POST("/:session_id/interests/toggle", ToggleOnboardingInterest)
	g.POST("/:session_id/advance", AdvanceOnboarding)
	g.POST("/:session_id/cancel", CancelOnboarding)
	return engine
}

func jsonBody(s string) *ut.Body {
	return &ut.Body{Body: bytes.NewBufferString(s), Len: len(s)}
}

var contentJSON = ut.Header{Key: "Content-Type", Value: "application/json"}

func TestStartAndAdvance(t *testing.T) {
	engine := newOnboardingEngine(t)

	w := ut.PerformRequest(engine, http.MethodPost, "/v1/onboarding", nil)
	resp := w.Result()
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	var progress struct {
		SessionID   string `json:"session_id"`
		CurrentStep string `json:"current_step"`
		StepIndex   int    `json:"step_index"`
		TotalSteps  int    `json:"total_steps"`
	}
	require.NoError(t, json.Unmarshal(decode(t, resp.Body()).Data, &progress))
	assert.Equal(t, "sess-h", progress.SessionID)
	assert.Equal(t, "welcome", progress.CurrentStep)
	assert.Equal(t, 5, progress.TotalSteps)

	w = ut.PerformRequest(engine, http.MethodPost, "/v1/onboarding/sess-h/advance", nil)
	resp = w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.NoError(t, json.Unmarshal(decode(t, resp.Body()).Data, &progress))
	assert.Equal(t, "profile", progress.CurrentStep)
	assert.Equal(t, 1, progress.StepIndex)
}

func TestAdvanceBlocked(t *testing.T) {
	engine := newOnboardingEngine(t)
	ut.PerformRequest(engine, http.MethodPost, "/v1/onboarding", nil)
	ut.PerformRequest(engine, http.MethodPost, "/v1/onboarding/sess-h/advance", nil)

	w := ut.PerformRequest(engine, http.MethodPost, "/v1/onboarding/sess-h/advance", nil)
	resp := w.Result()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode())

	env := decode(t, resp.Body())
	assert.Equal(t, "ONBOARDING_STEP_BLOCKED", env.Error.Code)
	assert.Equal(t, "profile", env.Error.Details["step"])
	assert.NotEmpty(t, env.Error.Details["violations"])
}

func TestMergeDraft(t *testing.T) {
	engine := newOnboardingEngine(t)
	ut.PerformRequest(engine, http.MethodPost, "/v1/onboarding", nil)

	w := ut.PerformRequest(engine, http.MethodPatch, "/v1/onboarding/sess-h/draft",
		jsonBody(`{"name":"Jane Doe","handle":"jane"}`), contentJSON)
	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode())

	var progress struct {
		Draft onboarding.Draft `json:"draft"`
	}
	require.NoError(t, json.Unmarshal(decode(t, resp.Body()).Data, &progress))
	assert.Equal(t, "Jane Doe", progress.Draft.Name)
	assert.Equal(t, "jane", progress.Draft.Handle)

	w = ut.PerformRequest(engine, http.MethodPatch, "/v1/onboarding/sess-h/draft",
		jsonBody(`{"name":`), contentJSON)
	resp = w.Result()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, "INVALID_REQUEST", decode(t, resp.Body()).Error.Code)
}

func TestToggleUnknownInterest(t *testing.T) {
	engine := newOnboardingEngine(t)
	ut.PerformRequest(engine, http.MethodPost, "/v1/onboarding", nil)

	w := ut.PerformRequest(engine, http.MethodPost, "/v1/onboarding/sess-h/interests/toggle",
		jsonBody(`{"interest":"Underwater Basket Weaving"}`), contentJSON)
	resp := w.Result()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, "INTEREST_UNKNOWN", decode(t, resp.Body()).Error.Code)
}

func TestCancelAtWelcome(t *testing.T) {
	engine := newOnboardingEngine(t)
	ut.PerformRequest(engine, http.MethodPost, "/v1/onboarding", nil)

	w := ut.PerformRequest(engine, http.MethodPost, "/v1/onboarding/sess-h/cancel", nil)
	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode())

	var result struct {
		Cancelled bool `json:"cancelled"`
	}
	require.NoError(t, json.Unmarshal(decode(t, resp.Body()).Data, &result))
	assert.True(t, result.Cancelled)

	w = ut.PerformRequest(engine, http.MethodGet, "/v1/onboarding/sess-h", nil)
	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode())
}

func TestWriteError_ValidationDetails(t *testing.T) {
	c := app.NewContext(0)

	writeError(context.Background(), c, &service.ValidationError{
		Def:        errors.ProfileInvalid,
		Violations: []onboarding.Violation{{Field: "name", Message: "Name is required"}},
	})

	require.Equal(t, http.StatusUnprocessableEntity, c.Response.StatusCode())
	env := decode(t, c.Response.Body())
	assert.Equal(t, "PROFILE_INVALID", env.Error.Code)
	assert.Len(t, env.Error.Details["violations"], 1)
}
