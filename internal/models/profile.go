package models

import "encoding/json"

// RemoteProfile is the calculation backend's profile response, fetched when
// probing for an existing user. Numbers are kept as json.Number so draft
// seeding can reuse the backend's own formatting.
type RemoteProfile struct {
	User struct {
		UserID      string      `json:"userId"`
		Name        string      `json:"name"`
		DateOfBirth string      `json:"dateOfBirth"`
		Gender      string      `json:"gender"`
		Height      json.Number `json:"height"`
		BodyFat     json.Number `json:"bodyFat"`
		MuscleMass  json.Number `json:"muscleMass"`
		Profile     struct {
			ImageKey       string `json:"imageKey"`
			SignedImageURL string `json:"signedImageUrl"`
		} `json:"profile"`
	} `json:"user"`
	LatestWeight *struct {
		Date   string      `json:"date"`
		Weight json.Number `json:"weight"`
	} `json:"latestWeight"`
	Activity *struct {
		WorkStyle     string `json:"workStyle"`
		HighIntensity string `json:"highIntensity"`
		LowIntensity  string `json:"lowIntensity"`
	} `json:"activity"`
	Goal *struct {
		GoalType string `json:"goalType"`
		Duration string `json:"duration"`
	} `json:"goal"`
}

// RegisterPayload is the consolidated onboarding submission: flattened user
// info plus the nested per-step groups.
type RegisterPayload struct {
	UserID      string           `json:"userId"`
	Name        string           `json:"name"`
	DateOfBirth string           `json:"dateOfBirth"`
	Profile     RegisterProfile  `json:"profile"`
	Activity    RegisterActivity `json:"activity"`
	Goal        RegisterGoal     `json:"goal"`
}

type RegisterProfile struct {
	Height    string `json:"height"`
	Weight    string `json:"weight"`
	BirthDate string `json:"birthDate"`
	Gender    string `json:"gender"`
	ImageKey  string `json:"imageKey,omitempty"`
}

type RegisterActivity struct {
	WorkStyle     string `json:"workStyle"`
	HighIntensity string `json:"highIntensity"`
	LowIntensity  string `json:"lowIntensity"`
}

type RegisterGoal struct {
	GoalType string `json:"goalType"`
	Duration string `json:"duration"`
}

// CalorieSummary is the backend's computed result for a completed onboarding.
type CalorieSummary struct {
	BMR                 float64 `json:"bmr"`
	TDEE                float64 `json:"tdee"`
	RecommendedCalories float64 `json:"recommendedCalories"`
}

type SummaryResponse struct {
	Summary CalorieSummary `json:"summary"`
}
