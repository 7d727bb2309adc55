package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadGoldenRecipes reads and parses a golden recipe set from a JSON file.
// HTMLFile paths are resolved against the file's directory.
func LoadGoldenRecipes(path string) ([]GoldenRecipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden recipes file: %w", err)
	}

	var recipes []GoldenRecipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse golden recipes: %w", err)
	}

	dir := filepath.Dir(path)
	for i := range recipes {
		if recipes[i].HTMLFile != "" && !filepath.IsAbs(recipes[i].HTMLFile) {
			recipes[i].HTMLFile = filepath.Join(dir, recipes[i].HTMLFile)
		}
	}

	return recipes, nil
}

// ValidateGoldenRecipes checks that all golden recipes have required fields and valid values.
func ValidateGoldenRecipes(recipes []GoldenRecipe) error {
	seen := make(map[string]struct{}, len(recipes))

	for i, r := range recipes {
		if r.ID == "" {
			return fmt.Errorf("recipe at index %d: missing id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("recipe at index %d: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = struct{}{}

		if r.HTMLFile == "" {
			return fmt.Errorf("recipe %q: missing html_file", r.ID)
		}
		if len(r.ExpectedIngredients) == 0 && r.ExpectedError == "" {
			return fmt.Errorf("recipe %q: needs expected_ingredients or expected_error", r.ID)
		}
		if len(r.ExpectedIngredients) > 0 && r.ExpectedError != "" {
			return fmt.Errorf("recipe %q: expected_ingredients and expected_error are exclusive", r.ID)
		}
		if !r.Difficulty.IsValid() {
			return fmt.Errorf("recipe %q: invalid difficulty %q (must be easy/medium/hard)", r.ID, r.Difficulty)
		}
	}

	return nil
}
