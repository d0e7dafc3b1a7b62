package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Toshiki-Isokawa/Trainora/internal/backend"
	"github.com/Toshiki-Isokawa/Trainora/internal/models"
	"github.com/Toshiki-Isokawa/Trainora/internal/onboarding"
)

type stubOnboardingBackend struct {
	profileJSON   string
	profileFound  bool
	probeErr      error
	summary       *models.SummaryResponse
	submitErr     error
	lastPayload   models.RegisterPayload
	lastUpdate    bool
	registerCalls int
}

func (s *stubOnboardingBackend) FetchProfile(_ context.Context, _ string) (*models.RemoteProfile, json.RawMessage, bool, error) {
	if s.probeErr != nil {
		return nil, nil, false, s.probeErr
	}
	if !s.profileFound {
		return nil, nil, false, nil
	}
	var profile models.RemoteProfile
	if err := json.Unmarshal([]byte(s.profileJSON), &profile); err != nil {
		return nil, nil, false, err
	}
	return &profile, json.RawMessage(s.profileJSON), true, nil
}

func (s *stubOnboardingBackend) RegisterProfile(_ context.Context, payload models.RegisterPayload, update bool) (*models.SummaryResponse, error) {
	s.registerCalls++
	s.lastPayload = payload
	s.lastUpdate = update
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return s.summary, nil
}

func newOnboardingApp(store onboarding.DraftStore, b *stubOnboardingBackend, uploader onboarding.Uploader) *fiber.App {
	handler := NewOnboardingHandler(store, b, uploader)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "u1")
		return c.Next()
	})
	ob := app.Group("/api/v1/onboarding")
	ob.Get("/context", handler.Context)
	ob.Post("/summary", handler.Summary)
	ob.Get("/:step", handler.GetStep)
	ob.Patch("/:step", handler.UpdateStep)
	ob.Post("/:step/next", handler.NextStep)
	ob.Post("/:step/back", handler.BackStep)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	resp.Body.Close()
	return resp, payload
}

func TestFreshUserWalksAllStepsAndSubmits(t *testing.T) {
	store := onboarding.NewMemoryStore()
	b := &stubOnboardingBackend{
		summary: &models.SummaryResponse{Summary: models.CalorieSummary{BMR: 1500, TDEE: 2000, RecommendedCalories: 1700}},
	}
	app := newOnboardingApp(store, b, nil)

	resp, payload := doJSON(t, app, http.MethodGet, "/api/v1/onboarding/context", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if payload["mode"] != "create" {
		t.Fatalf("expected create mode, got %v", payload["mode"])
	}

	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/onboarding/registration",
		`{"name":"Aki","birthDate":"1990-01-01","gender":"male","height":"170","weight":"65"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("registration patch: expected 200, got %d", resp.StatusCode)
	}

	resp, payload = doJSON(t, app, http.MethodPost, "/api/v1/onboarding/registration/next", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("registration next: expected 200, got %d", resp.StatusCode)
	}
	if payload["next"] != "activity" {
		t.Fatalf("expected next=activity, got %v", payload["next"])
	}

	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/onboarding/activity",
		`{"workStyle":"desk","highIntensity":"1-2","lowIntensity":"3-4"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("activity patch: expected 200, got %d", resp.StatusCode)
	}
	resp, payload = doJSON(t, app, http.MethodPost, "/api/v1/onboarding/activity/next", "")
	if resp.StatusCode != http.StatusOK || payload["next"] != "goal" {
		t.Fatalf("activity next: got %d %v", resp.StatusCode, payload)
	}

	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/onboarding/goal",
		`{"goalType":"lose_fat","duration":"3-4"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("goal patch: expected 200, got %d", resp.StatusCode)
	}
	resp, payload = doJSON(t, app, http.MethodPost, "/api/v1/onboarding/goal/next", "")
	if resp.StatusCode != http.StatusOK || payload["next"] != "summary" {
		t.Fatalf("goal next: got %d %v", resp.StatusCode, payload)
	}

	resp, payload = doJSON(t, app, http.MethodPost, "/api/v1/onboarding/summary", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d %v", resp.StatusCode, payload)
	}
	summary, ok := payload["summary"].(map[string]any)
	if !ok {
		t.Fatalf("expected summary object, got %v", payload)
	}
	if summary["recommendedCalories"] != float64(1700) {
		t.Fatalf("expected recommendedCalories 1700, got %v", summary["recommendedCalories"])
	}

	if b.registerCalls != 1 || b.lastUpdate {
		t.Fatalf("expected one POST submission, got calls=%d update=%v", b.registerCalls, b.lastUpdate)
	}
	if b.lastPayload.Profile.Weight != "65" || b.lastPayload.Activity.WorkStyle != "desk" {
		t.Fatalf("unexpected consolidated payload: %+v", b.lastPayload)
	}

	ctx := context.Background()
	for _, key := range []string{models.RegistrationDraftKey, models.ActivityDraftKey, models.GoalDraftKey} {
		if _, found, _ := store.Load(ctx, "u1", key); found {
			t.Fatalf("expected draft %s to be cleared after submission", key)
		}
	}
}

func TestExistingUserSeedsFromProfileAndSubmitsUpdate(t *testing.T) {
	store := onboarding.NewMemoryStore()
	b := &stubOnboardingBackend{
		profileFound: true,
		profileJSON: `{
			"user": {"userId":"u1","name":"Aki","dateOfBirth":"1990-01-01","gender":"male","height":170},
			"latestWeight": {"date":"2026-08-30","weight":65},
			"activity": {"workStyle":"desk","highIntensity":"1-2","lowIntensity":"3-4"},
			"goal": {"goalType":"healthy_body","duration":"5-6"}
		}`,
		summary: &models.SummaryResponse{Summary: models.CalorieSummary{BMR: 1480, TDEE: 1950, RecommendedCalories: 1800}},
	}
	app := newOnboardingApp(store, b, nil)

	resp, payload := doJSON(t, app, http.MethodGet, "/api/v1/onboarding/registration", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if payload["mode"] != "edit" {
		t.Fatalf("expected edit mode, got %v", payload["mode"])
	}
	draft := payload["draft"].(map[string]any)
	if draft["name"] != "Aki" || draft["weight"] != "65" {
		t.Fatalf("expected seeded draft, got %v", draft)
	}
	if draft["tempSaved"] != true {
		t.Fatalf("expected seeded draft to be tempSaved, got %v", draft)
	}

	// Change only the weight, then pass the gate.
	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/onboarding/registration", `{"weight":"70"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d", resp.StatusCode)
	}
	resp, payload = doJSON(t, app, http.MethodPost, "/api/v1/onboarding/registration/next", "")
	if resp.StatusCode != http.StatusOK || payload["next"] != "activity" {
		t.Fatalf("next: got %d %v", resp.StatusCode, payload)
	}
	stored := payload["draft"].(map[string]any)
	if stored["tempSaved"] != false || stored["weight"] != "70" || stored["name"] != "Aki" {
		t.Fatalf("expected confirmed draft with single changed field, got %v", stored)
	}

	// Activity and goal seed from the profile, so their gates pass directly.
	if resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/onboarding/activity/next", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("activity next: expected 200, got %d", resp.StatusCode)
	}
	if resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/onboarding/goal/next", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("goal next: expected 200, got %d", resp.StatusCode)
	}

	if resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/onboarding/summary", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d", resp.StatusCode)
	}
	if !b.lastUpdate {
		t.Fatal("expected edit mode submission to use update")
	}
}

func TestNextRejectsInvalidStepDraft(t *testing.T) {
	store := onboarding.NewMemoryStore()
	app := newOnboardingApp(store, &stubOnboardingBackend{}, nil)

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/onboarding/registration/next", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if payload["error"] != "name is required" {
		t.Fatalf("expected first failing rule, got %v", payload["error"])
	}
}

func TestMalformedStoredDraftFallsBackToEmpty(t *testing.T) {
	store := onboarding.NewMemoryStore()
	if err := store.Save(context.Background(), "u1", models.ActivityDraftKey, []byte(`{broken`)); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	app := newOnboardingApp(store, &stubOnboardingBackend{}, nil)

	resp, payload := doJSON(t, app, http.MethodGet, "/api/v1/onboarding/activity", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	draft := payload["draft"].(map[string]any)
	if draft["tempSaved"] != true || draft["workStyle"] != "" {
		t.Fatalf("expected empty fallback draft, got %v", draft)
	}
}

func TestProbeFailureFallsOpenToCreate(t *testing.T) {
	b := &stubOnboardingBackend{probeErr: errors.New("backend down")}
	app := newOnboardingApp(onboarding.NewMemoryStore(), b, nil)

	resp, payload := doJSON(t, app, http.MethodGet, "/api/v1/onboarding/context", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if payload["mode"] != "create" {
		t.Fatalf("expected fail-open create mode, got %v", payload["mode"])
	}
}

func TestSummaryRelaysBackendErrorVerbatim(t *testing.T) {
	store := onboarding.NewMemoryStore()
	seedDraft := func(key string, draft any) {
		payload, _ := json.Marshal(draft)
		_ = store.Save(context.Background(), "u1", key, payload)
	}
	seedDraft(models.RegistrationDraftKey, models.RegistrationDraft{Name: "Aki", BirthDate: "1990-01-01", Gender: "male", Height: "170", Weight: "65"})
	seedDraft(models.ActivityDraftKey, models.ActivityDraft{WorkStyle: "desk", HighIntensity: "1-2", LowIntensity: "3-4"})
	seedDraft(models.GoalDraftKey, models.GoalDraft{GoalType: "lose_fat", Duration: "3-4"})

	b := &stubOnboardingBackend{
		submitErr: &backend.Error{StatusCode: http.StatusUnprocessableEntity, Body: []byte(`{"error":"invalid goal"}`)},
	}
	app := newOnboardingApp(store, b, nil)

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/onboarding/summary", "")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 relay, got %d", resp.StatusCode)
	}
	if payload["error"] != "invalid goal" {
		t.Fatalf("expected upstream body verbatim, got %v", payload)
	}

	// Drafts survive the failed submission.
	for _, key := range []string{models.RegistrationDraftKey, models.ActivityDraftKey, models.GoalDraftKey} {
		if _, found, _ := store.Load(context.Background(), "u1", key); !found {
			t.Fatalf("expected draft %s to survive failure", key)
		}
	}
}

func TestSummaryRefusesIncompleteDrafts(t *testing.T) {
	app := newOnboardingApp(onboarding.NewMemoryStore(), &stubOnboardingBackend{}, nil)

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/onboarding/summary", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	errMsg, _ := payload["error"].(string)
	if !strings.Contains(errMsg, "profile information is incomplete") {
		t.Fatalf("expected profile group named first, got %q", errMsg)
	}
}

func TestBackStepReportsPreviousStep(t *testing.T) {
	app := newOnboardingApp(onboarding.NewMemoryStore(), &stubOnboardingBackend{}, nil)

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/onboarding/goal/back", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if payload["previous"] != "activity" {
		t.Fatalf("expected previous=activity, got %v", payload["previous"])
	}
}

func TestUnknownStepIs404(t *testing.T) {
	app := newOnboardingApp(onboarding.NewMemoryStore(), &stubOnboardingBackend{}, nil)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/onboarding/nutrition", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
