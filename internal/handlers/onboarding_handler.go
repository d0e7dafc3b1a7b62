package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Toshiki-Isokawa/Trainora/internal/backend"
	"github.com/Toshiki-Isokawa/Trainora/internal/models"
	"github.com/Toshiki-Isokawa/Trainora/internal/onboarding"
)

type onboardingBackend interface {
	onboarding.ProfileProber
	onboarding.ProfileSubmitter
}

// OnboardingHandler drives the three-step draft flow and the final summary
// submission. Each request resolves create/edit mode with its own single
// probe before touching step state.
type OnboardingHandler struct {
	store    onboarding.DraftStore
	backend  onboardingBackend
	uploader onboarding.Uploader
}

func NewOnboardingHandler(store onboarding.DraftStore, b onboardingBackend, uploader onboarding.Uploader) *OnboardingHandler {
	return &OnboardingHandler{
		store:    store,
		backend:  b,
		uploader: uploader,
	}
}

func (h *OnboardingHandler) resolveMode(ctx context.Context, userID string) onboarding.Mode {
	return onboarding.NewResolver(h.backend).Resolve(ctx, userID)
}

// Context reports the resolved mode and, in edit mode, the probe response
// body unchanged, so the frontend can branch without re-probing.
func (h *OnboardingHandler) Context(c *fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	mode := h.resolveMode(c.Context(), userID)
	resp := fiber.Map{"mode": string(mode.Kind)}
	if mode.Kind == onboarding.ModeEdit {
		resp["profile"] = mode.Raw
	}
	return c.JSON(resp)
}

// GetStep returns the hydrated draft for one step.
func (h *OnboardingHandler) GetStep(c *fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	step := onboarding.Step(c.Params("step"))
	mode := h.resolveMode(c.Context(), userID)

	var draft any
	switch step {
	case onboarding.StepRegistration:
		draft = onboarding.NewRegistrationController(h.store, h.uploader, userID, mode).Hydrate(c.Context())
	case onboarding.StepActivity:
		draft = onboarding.NewActivityController(h.store, userID, mode).Hydrate(c.Context())
	case onboarding.StepGoal:
		draft = onboarding.NewGoalController(h.store, userID, mode).Hydrate(c.Context())
	default:
		return unknownStep(c)
	}

	return c.JSON(fiber.Map{
		"step":  string(step),
		"mode":  string(mode.Kind),
		"draft": draft,
	})
}

// UpdateStep shallow-merges a patch into the step's draft and persists it.
func (h *OnboardingHandler) UpdateStep(c *fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	step := onboarding.Step(c.Params("step"))
	mode := h.resolveMode(c.Context(), userID)

	var (
		draft any
		err   error
	)
	switch step {
	case onboarding.StepRegistration:
		var patch models.RegistrationPatch
		if err := c.BodyParser(&patch); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		ctrl := onboarding.NewRegistrationController(h.store, h.uploader, userID, mode)
		ctrl.Hydrate(c.Context())
		draft, err = ctrl.Update(c.Context(), patch)
	case onboarding.StepActivity:
		var patch models.ActivityPatch
		if err := c.BodyParser(&patch); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		ctrl := onboarding.NewActivityController(h.store, userID, mode)
		ctrl.Hydrate(c.Context())
		draft, err = ctrl.Update(c.Context(), patch)
	case onboarding.StepGoal:
		var patch models.GoalPatch
		if err := c.BodyParser(&patch); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		ctrl := onboarding.NewGoalController(h.store, userID, mode)
		ctrl.Hydrate(c.Context())
		draft, err = ctrl.Update(c.Context(), patch)
	default:
		return unknownStep(c)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save draft"})
	}

	return c.JSON(fiber.Map{
		"step":  string(step),
		"draft": draft,
	})
}

// NextStep runs the step's gate: validation, the registration image side
// effect, the TempSaved flip and the forward navigation. A validation failure
// answers 400 with the message and leaves the draft as is.
func (h *OnboardingHandler) NextStep(c *fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	step := onboarding.Step(c.Params("step"))
	mode := h.resolveMode(c.Context(), userID)

	var (
		next    onboarding.Step
		message string
		draft   any
		err     error
	)
	switch step {
	case onboarding.StepRegistration:
		ctrl := onboarding.NewRegistrationController(h.store, h.uploader, userID, mode)
		ctrl.Hydrate(c.Context())
		next, message, err = ctrl.Next(c.Context(), formImage(c))
		draft = ctrl.Draft()
	case onboarding.StepActivity:
		ctrl := onboarding.NewActivityController(h.store, userID, mode)
		ctrl.Hydrate(c.Context())
		next, message, err = ctrl.Next(c.Context())
		draft = ctrl.Draft()
	case onboarding.StepGoal:
		ctrl := onboarding.NewGoalController(h.store, userID, mode)
		ctrl.Hydrate(c.Context())
		next, message, err = ctrl.Next(c.Context())
		draft = ctrl.Draft()
	default:
		return unknownStep(c)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save"})
	}
	if message != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
	}

	return c.JSON(fiber.Map{
		"next":  string(next),
		"draft": draft,
	})
}

// BackStep reports the previous step. Drafts and TempSaved are untouched.
func (h *OnboardingHandler) BackStep(c *fiber.Ctx) error {
	var previous onboarding.Step
	switch step := onboarding.Step(c.Params("step")); step {
	case onboarding.StepRegistration:
		previous = onboarding.StepRegistration
	case onboarding.StepActivity:
		previous = onboarding.StepRegistration
	case onboarding.StepGoal:
		previous = onboarding.StepActivity
	default:
		return unknownStep(c)
	}

	return c.JSON(fiber.Map{"previous": string(previous)})
}

// Summary runs the aggregator: re-verify all drafts, submit once, clear the
// drafts on success. Backend failures relay the upstream status and body
// verbatim so the user can retry with drafts intact.
func (h *OnboardingHandler) Summary(c *fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	mode := h.resolveMode(c.Context(), userID)

	aggregator := onboarding.NewAggregator(h.store, h.backend)
	summary, message, err := aggregator.Submit(c.Context(), userID, mode)
	if message != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
	}
	if err != nil {
		var backendErr *backend.Error
		if errors.As(err, &backendErr) {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(backendErr.StatusCode).Send(backendErr.Body)
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to submit onboarding data"})
	}

	return c.JSON(fiber.Map{"summary": summary})
}

func formImage(c *fiber.Ctx) *onboarding.ImageUpload {
	fileHeader, err := c.FormFile("image")
	if err != nil || fileHeader == nil {
		return nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil
	}
	return &onboarding.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     file,
	}
}

func userIDFromLocals(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("user_id").(string)
	return userID, ok && userID != ""
}

func unknownStep(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown onboarding step"})
}
