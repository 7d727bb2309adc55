package extraction

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/html"
)

// StructuredRecipe is the recipe found in a page's JSON-LD metadata.
type StructuredRecipe struct {
	Name        string
	Ingredients []string
}

// FindStructuredRecipe scans JSON-LD blocks for a Recipe object with a
// non-empty ingredient list. Malformed blocks are skipped.
func FindStructuredRecipe(blocks []string) (*StructuredRecipe, bool) {
	for _, block := range blocks {
		var data interface{}
		if err := json.Unmarshal([]byte(block), &data); err != nil {
			continue
		}
		if recipe := findRecipe(data, 0); recipe != nil {
			return recipe, true
		}
	}
	return nil, false
}

// findRecipe walks top-level arrays, @graph members and nested objects.
func findRecipe(data interface{}, depth int) *StructuredRecipe {
	if depth > 4 {
		return nil
	}
	switch v := data.(type) {
	case []interface{}:
		for _, item := range v {
			if recipe := findRecipe(item, depth+1); recipe != nil {
				return recipe
			}
		}
	case map[string]interface{}:
		if recipe := recipeFromMap(v); recipe != nil {
			return recipe
		}
		if graph, ok := v["@graph"]; ok {
			return findRecipe(graph, depth+1)
		}
		if entity, ok := v["mainEntity"]; ok {
			return findRecipe(entity, depth+1)
		}
	}
	return nil
}

func recipeFromMap(obj map[string]interface{}) *StructuredRecipe {
	isRecipe := isRecipeType(obj["@type"])
	rawIngredients, hasIngredients := obj["recipeIngredient"]
	if !hasIngredients && isRecipe {
		// Older markup uses "ingredients".
		rawIngredients = obj["ingredients"]
	}
	if !isRecipe && !hasIngredients {
		return nil
	}

	recipe := &StructuredRecipe{}
	if name, ok := obj["name"].(string); ok {
		recipe.Name = norm(html.UnescapeString(name))
	} else if headline, ok := obj["headline"].(string); ok {
		recipe.Name = norm(html.UnescapeString(headline))
	}

	switch v := rawIngredients.(type) {
	case []interface{}:
		for _, ing := range v {
			if s, ok := ing.(string); ok {
				if line := StripTags(html.UnescapeString(s)); line != "" {
					recipe.Ingredients = append(recipe.Ingredients, line)
				}
			}
		}
	case string:
		for _, s := range strings.Split(v, "\n") {
			if line := StripTags(html.UnescapeString(s)); line != "" {
				recipe.Ingredients = append(recipe.Ingredients, line)
			}
		}
	}

	if len(recipe.Ingredients) == 0 {
		return nil
	}
	return recipe
}

func isRecipeType(typeVal interface{}) bool {
	switch v := typeVal.(type) {
	case string:
		return strings.EqualFold(v, "Recipe")
	case []interface{}:
		for _, t := range v {
			if s, ok := t.(string); ok && strings.EqualFold(s, "Recipe") {
				return true
			}
		}
	}
	return false
}
