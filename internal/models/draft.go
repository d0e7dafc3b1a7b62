package models

// Draft store keys, one per onboarding step. Handlers and controllers must
// reference these constants, never the literals.
const (
	RegistrationDraftKey = "onboarding:registration:draft"
	ActivityDraftKey     = "onboarding:activity:draft"
	GoalDraftKey         = "onboarding:goal:draft"
)

// RegistrationDraft holds the in-progress basic-info step. Numeric fields are
// kept as entered (strings) until the final submission. TempSaved stays true
// until the step passes its required-field gate.
type RegistrationDraft struct {
	Name       string `json:"name"`
	BirthDate  string `json:"birthDate"` // YYYY-MM-DD
	Gender     string `json:"gender"`    // male, female, other; empty while unset
	Height     string `json:"height"`    // cm
	Weight     string `json:"weight"`    // kg
	BodyFat    string `json:"bodyFat,omitempty"`
	MuscleMass string `json:"muscleMass,omitempty"`
	ImageKey   string `json:"imageKey,omitempty"`
	TempSaved  bool   `json:"tempSaved"`
}

type ActivityDraft struct {
	WorkStyle     string `json:"workStyle"`     // standing, desk
	HighIntensity string `json:"highIntensity"` // 1-2, 3-4, more
	LowIntensity  string `json:"lowIntensity"`  // 1-2, 3-4, more
	TempSaved     bool   `json:"tempSaved"`
}

type GoalDraft struct {
	GoalType  string `json:"goalType"` // gain_both, gain_muscle, healthy_body, lose_fat
	Duration  string `json:"duration"` // 3-4, 5-6, 6-7, 7plus (months)
	TempSaved bool   `json:"tempSaved"`
}

func NewRegistrationDraft() RegistrationDraft {
	return RegistrationDraft{TempSaved: true}
}

func NewActivityDraft() ActivityDraft {
	return ActivityDraft{TempSaved: true}
}

func NewGoalDraft() GoalDraft {
	return GoalDraft{TempSaved: true}
}

// RegistrationPatch is a partial update to a RegistrationDraft. Nil fields are
// left untouched.
type RegistrationPatch struct {
	Name       *string `json:"name"`
	BirthDate  *string `json:"birthDate"`
	Gender     *string `json:"gender"`
	Height     *string `json:"height"`
	Weight     *string `json:"weight"`
	BodyFat    *string `json:"bodyFat"`
	MuscleMass *string `json:"muscleMass"`
	ImageKey   *string `json:"imageKey"`
}

func (p RegistrationPatch) Apply(d *RegistrationDraft) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.BirthDate != nil {
		d.BirthDate = *p.BirthDate
	}
	if p.Gender != nil {
		d.Gender = *p.Gender
	}
	if p.Height != nil {
		d.Height = *p.Height
	}
	if p.Weight != nil {
		d.Weight = *p.Weight
	}
	if p.BodyFat != nil {
		d.BodyFat = *p.BodyFat
	}
	if p.MuscleMass != nil {
		d.MuscleMass = *p.MuscleMass
	}
	if p.ImageKey != nil {
		d.ImageKey = *p.ImageKey
	}
}

type ActivityPatch struct {
	WorkStyle     *string `json:"workStyle"`
	HighIntensity *string `json:"highIntensity"`
	LowIntensity  *string `json:"lowIntensity"`
}

func (p ActivityPatch) Apply(d *ActivityDraft) {
	if p.WorkStyle != nil {
		d.WorkStyle = *p.WorkStyle
	}
	if p.HighIntensity != nil {
		d.HighIntensity = *p.HighIntensity
	}
	if p.LowIntensity != nil {
		d.LowIntensity = *p.LowIntensity
	}
}

type GoalPatch struct {
	GoalType *string `json:"goalType"`
	Duration *string `json:"duration"`
}

func (p GoalPatch) Apply(d *GoalDraft) {
	if p.GoalType != nil {
		d.GoalType = *p.GoalType
	}
	if p.Duration != nil {
		d.Duration = *p.Duration
	}
}
