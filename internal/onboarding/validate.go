package onboarding

import (
	"strconv"
	"strings"

	"github.com/Toshiki-Isokawa/Trainora/internal/models"
)

var allowedGenders = map[string]struct{}{
	"male":   {},
	"female": {},
	"other":  {},
}

var allowedWorkStyles = map[string]struct{}{
	"standing": {},
	"desk":     {},
}

var allowedFrequencies = map[string]struct{}{
	"1-2":  {},
	"3-4":  {},
	"more": {},
}

var allowedGoalTypes = map[string]struct{}{
	"gain_both":    {},
	"gain_muscle":  {},
	"healthy_body": {},
	"lose_fat":     {},
}

var allowedDurations = map[string]struct{}{
	"3-4":   {},
	"5-6":   {},
	"6-7":   {},
	"7plus": {},
}

// ValidateRegistration returns the first failing rule's message, or "" when
// the draft is ready to advance.
func ValidateRegistration(d models.RegistrationDraft) string {
	if strings.TrimSpace(d.Name) == "" {
		return "name is required"
	}
	if d.BirthDate == "" {
		return "birth date is required"
	}
	if _, ok := allowedGenders[d.Gender]; !ok {
		return "gender must be one of: male, female, other"
	}
	if !positiveNumber(d.Height) {
		return "height must be a number greater than 0"
	}
	if !positiveNumber(d.Weight) {
		return "weight must be a number greater than 0"
	}
	return ""
}

func ValidateActivity(d models.ActivityDraft) string {
	if _, ok := allowedWorkStyles[d.WorkStyle]; !ok {
		return "work style must be one of: standing, desk"
	}
	if _, ok := allowedFrequencies[d.HighIntensity]; !ok {
		return "high intensity frequency must be one of: 1-2, 3-4, more"
	}
	if _, ok := allowedFrequencies[d.LowIntensity]; !ok {
		return "low intensity frequency must be one of: 1-2, 3-4, more"
	}
	return ""
}

func ValidateGoal(d models.GoalDraft) string {
	if _, ok := allowedGoalTypes[d.GoalType]; !ok {
		return "goal type must be one of: gain_both, gain_muscle, healthy_body, lose_fat"
	}
	if _, ok := allowedDurations[d.Duration]; !ok {
		return "duration must be one of: 3-4, 5-6, 6-7, 7plus"
	}
	return ""
}

func positiveNumber(s string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && v > 0
}
