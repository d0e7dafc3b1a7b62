package onboarding

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Toshiki-Isokawa/Trainora/internal/models"
)

// ProfileSubmitter sends the consolidated onboarding payload to the
// calculation backend. update selects PUT (edit) over POST (create).
type ProfileSubmitter interface {
	RegisterProfile(ctx context.Context, payload models.RegisterPayload, update bool) (*models.SummaryResponse, error)
}

// Aggregator assembles the final submission from the three step drafts.
type Aggregator struct {
	store   DraftStore
	backend ProfileSubmitter
}

func NewAggregator(store DraftStore, backend ProfileSubmitter) *Aggregator {
	return &Aggregator{store: store, backend: backend}
}

// Submit re-verifies every step (drafts are not trusted via TempSaved),
// builds the consolidated payload and issues exactly one create or update
// call. On success all three drafts are cleared and the computed summary
// returned. A validation gap or a backend failure leaves every draft intact;
// the former is reported through the message return, the latter through err.
func (a *Aggregator) Submit(ctx context.Context, userID string, mode Mode) (*models.CalorieSummary, string, error) {
	reg := models.NewRegistrationDraft()
	act := models.NewActivityDraft()
	goal := models.NewGoalDraft()
	loadDraft(ctx, a.store, userID, models.RegistrationDraftKey, &reg)
	loadDraft(ctx, a.store, userID, models.ActivityDraftKey, &act)
	loadDraft(ctx, a.store, userID, models.GoalDraftKey, &goal)

	if ValidateRegistration(reg) != "" {
		return nil, "profile information is incomplete, please start over", nil
	}
	if ValidateActivity(act) != "" {
		return nil, "activity information is incomplete", nil
	}
	if ValidateGoal(goal) != "" {
		return nil, "goal information is incomplete", nil
	}

	payload := models.RegisterPayload{
		UserID:      userID,
		Name:        reg.Name,
		DateOfBirth: reg.BirthDate,
		Profile: models.RegisterProfile{
			Height:    reg.Height,
			Weight:    reg.Weight,
			BirthDate: reg.BirthDate,
			Gender:    reg.Gender,
			ImageKey:  reg.ImageKey,
		},
		Activity: models.RegisterActivity{
			WorkStyle:     act.WorkStyle,
			HighIntensity: act.HighIntensity,
			LowIntensity:  act.LowIntensity,
		},
		Goal: models.RegisterGoal{
			GoalType: goal.GoalType,
			Duration: goal.Duration,
		},
	}

	resp, err := a.backend.RegisterProfile(ctx, payload, mode.Kind == ModeEdit)
	if err != nil {
		return nil, "", err
	}

	// Submission is confirmed; the drafts have served their purpose. A
	// failed clear is logged but does not fail the flow.
	for _, key := range []string{models.RegistrationDraftKey, models.ActivityDraftKey, models.GoalDraftKey} {
		if err := a.store.Clear(ctx, userID, key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("failed to clear draft after submission")
		}
	}

	return &resp.Summary, "", nil
}
