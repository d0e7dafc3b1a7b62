package onboarding

import (
	"context"
	"fmt"
	"io"

	"github.com/Toshiki-Isokawa/Trainora/internal/models"
)

// Step identifies one onboarding page.
type Step string

const (
	StepRegistration Step = "registration"
	StepActivity     Step = "activity"
	StepGoal         Step = "goal"
	StepSummary      Step = "summary"
)

// Uploader stores a profile image and returns the object key to record in the
// draft.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, content io.Reader) (key string, err error)
}

// ImageUpload is a locally selected profile image to push to object storage
// during the registration Next transition.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// RegistrationController owns the basic-info step's draft.
type RegistrationController struct {
	store  DraftStore
	upload Uploader
	userID string
	mode   Mode
	draft  models.RegistrationDraft
}

func NewRegistrationController(store DraftStore, upload Uploader, userID string, mode Mode) *RegistrationController {
	return &RegistrationController{
		store:  store,
		upload: upload,
		userID: userID,
		mode:   mode,
		draft:  models.NewRegistrationDraft(),
	}
}

// Hydrate loads the stored draft. When no usable draft exists and the user is
// editing an existing profile, the draft is seeded from the remote profile
// instead; otherwise it stays empty. Either way TempSaved starts true for a
// fresh draft.
func (c *RegistrationController) Hydrate(ctx context.Context) models.RegistrationDraft {
	c.draft = models.NewRegistrationDraft()
	if loadDraft(ctx, c.store, c.userID, models.RegistrationDraftKey, &c.draft) {
		return c.draft
	}
	if c.mode.Kind == ModeEdit && c.mode.Profile != nil {
		c.draft = seedRegistration(c.mode.Profile)
	}
	return c.draft
}

// Update shallow-merges the patch and persists the merged draft immediately.
func (c *RegistrationController) Update(ctx context.Context, patch models.RegistrationPatch) (models.RegistrationDraft, error) {
	patch.Apply(&c.draft)
	return c.draft, saveDraft(ctx, c.store, c.userID, models.RegistrationDraftKey, c.draft)
}

// Back returns the previous step. Registration is the first step, so it stays
// put. TempSaved is never touched here.
func (c *RegistrationController) Back() Step {
	return StepRegistration
}

// Next validates the draft and, on success, uploads the optional image,
// marks the draft confirmed (TempSaved=false), persists it, and advances.
// A failed upload aborts the transition with the draft and step unchanged.
func (c *RegistrationController) Next(ctx context.Context, image *ImageUpload) (Step, string, error) {
	if msg := ValidateRegistration(c.draft); msg != "" {
		return StepRegistration, msg, nil
	}

	if image != nil {
		if c.upload == nil {
			return StepRegistration, "", fmt.Errorf("image upload is not configured")
		}
		key, err := c.upload.Upload(ctx, image.Filename, image.ContentType, image.Content)
		if err != nil {
			return StepRegistration, "", fmt.Errorf("upload profile image: %w", err)
		}
		c.draft.ImageKey = key
	}

	c.draft.TempSaved = false
	if err := saveDraft(ctx, c.store, c.userID, models.RegistrationDraftKey, c.draft); err != nil {
		return StepRegistration, "", err
	}
	return StepActivity, "", nil
}

func (c *RegistrationController) Draft() models.RegistrationDraft {
	return c.draft
}

func seedRegistration(p *models.RemoteProfile) models.RegistrationDraft {
	d := models.NewRegistrationDraft()
	d.Name = p.User.Name
	d.BirthDate = p.User.DateOfBirth
	d.Gender = p.User.Gender
	d.Height = p.User.Height.String()
	if p.LatestWeight != nil {
		d.Weight = p.LatestWeight.Weight.String()
	}
	d.BodyFat = string(p.User.BodyFat)
	d.MuscleMass = string(p.User.MuscleMass)
	d.ImageKey = p.User.Profile.ImageKey
	return d
}

// ActivityController owns the daily-activity step's draft.
type ActivityController struct {
	store  DraftStore
	userID string
	mode   Mode
	draft  models.ActivityDraft
}

func NewActivityController(store DraftStore, userID string, mode Mode) *ActivityController {
	return &ActivityController{
		store:  store,
		userID: userID,
		mode:   mode,
		draft:  models.NewActivityDraft(),
	}
}

func (c *ActivityController) Hydrate(ctx context.Context) models.ActivityDraft {
	c.draft = models.NewActivityDraft()
	if loadDraft(ctx, c.store, c.userID, models.ActivityDraftKey, &c.draft) {
		return c.draft
	}
	if c.mode.Kind == ModeEdit && c.mode.Profile != nil && c.mode.Profile.Activity != nil {
		c.draft.WorkStyle = c.mode.Profile.Activity.WorkStyle
		c.draft.HighIntensity = c.mode.Profile.Activity.HighIntensity
		c.draft.LowIntensity = c.mode.Profile.Activity.LowIntensity
	}
	return c.draft
}

func (c *ActivityController) Update(ctx context.Context, patch models.ActivityPatch) (models.ActivityDraft, error) {
	patch.Apply(&c.draft)
	return c.draft, saveDraft(ctx, c.store, c.userID, models.ActivityDraftKey, c.draft)
}

func (c *ActivityController) Back() Step {
	return StepRegistration
}

func (c *ActivityController) Next(ctx context.Context) (Step, string, error) {
	if msg := ValidateActivity(c.draft); msg != "" {
		return StepActivity, msg, nil
	}
	c.draft.TempSaved = false
	if err := saveDraft(ctx, c.store, c.userID, models.ActivityDraftKey, c.draft); err != nil {
		return StepActivity, "", err
	}
	return StepGoal, "", nil
}

func (c *ActivityController) Draft() models.ActivityDraft {
	return c.draft
}

// GoalController owns the goal step's draft.
type GoalController struct {
	store  DraftStore
	userID string
	mode   Mode
	draft  models.GoalDraft
}

func NewGoalController(store DraftStore, userID string, mode Mode) *GoalController {
	return &GoalController{
		store:  store,
		userID: userID,
		mode:   mode,
		draft:  models.NewGoalDraft(),
	}
}

func (c *GoalController) Hydrate(ctx context.Context) models.GoalDraft {
	c.draft = models.NewGoalDraft()
	if loadDraft(ctx, c.store, c.userID, models.GoalDraftKey, &c.draft) {
		return c.draft
	}
	if c.mode.Kind == ModeEdit && c.mode.Profile != nil && c.mode.Profile.Goal != nil {
		c.draft.GoalType = c.mode.Profile.Goal.GoalType
		c.draft.Duration = c.mode.Profile.Goal.Duration
	}
	return c.draft
}

func (c *GoalController) Update(ctx context.Context, patch models.GoalPatch) (models.GoalDraft, error) {
	patch.Apply(&c.draft)
	return c.draft, saveDraft(ctx, c.store, c.userID, models.GoalDraftKey, c.draft)
}

func (c *GoalController) Back() Step {
	return StepActivity
}

func (c *GoalController) Next(ctx context.Context) (Step, string, error) {
	if msg := ValidateGoal(c.draft); msg != "" {
		return StepGoal, msg, nil
	}
	c.draft.TempSaved = false
	if err := saveDraft(ctx, c.store, c.userID, models.GoalDraftKey, c.draft); err != nil {
		return StepGoal, "", err
	}
	return StepSummary, "", nil
}

func (c *GoalController) Draft() models.GoalDraft {
	return c.draft
}
