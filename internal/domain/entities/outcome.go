package entities

// ValidationOutcome is the verdict on a single ingredient.
type ValidationOutcome struct {
	IsValid bool   `json:"is_valid"`
	Reason  string `json:"reason,omitempty"`
}

// VerificationOutcome records which parsed ingredients could be found in the
// source page text.
type VerificationOutcome struct {
	VerifiedIngredients   []Ingredient `json:"verified_ingredients"`
	UnverifiedIngredients []Ingredient `json:"unverified_ingredients"`
	VerificationScore     int          `json:"verification_score"`
	Notes                 []string     `json:"notes,omitempty"`
}
