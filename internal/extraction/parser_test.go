package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
)

func TestParser_Parse_FiveLineCorpus(t *testing.T) {
	corpus := "2 cups all-purpose flour\n1 cup granulated sugar\n3 large eggs\n1/2 cup milk\n2 tablespoons butter"

	ingredients, ok := NewParser(3).Parse(corpus)
	require.True(t, ok)
	require.Len(t, ingredients, 5)

	assert.Equal(t, entities.Ingredient{Name: "all-purpose flour", Amount: 2, Unit: "cups"}, ingredients[0])
	assert.Equal(t, entities.Ingredient{Name: "granulated sugar", Amount: 1, Unit: "cup"}, ingredients[1])
	assert.Equal(t, entities.Ingredient{Name: "eggs", Amount: 3, Unit: "large"}, ingredients[2])
	assert.Equal(t, entities.Ingredient{Name: "milk", Amount: 0.5, Unit: "cup"}, ingredients[3])
	assert.Equal(t, entities.Ingredient{Name: "butter", Amount: 2, Unit: "tablespoons"}, ingredients[4])
}

func TestParser_Parse_BelowMinimum(t *testing.T) {
	ingredients, ok := NewParser(3).Parse("2 cups flour\nWelcome to my blog\n1 cup sugar")
	assert.False(t, ok)
	assert.Nil(t, ingredients)
}

func TestParser_Parse_SkipsTruncationMarker(t *testing.T) {
	ingredients, ok := NewParser(2).Parse("2 cups flour\n1 cup sugar\n" + TruncationMarker)
	require.True(t, ok)
	assert.Len(t, ingredients, 2)
}

func TestParser_ParseLine(t *testing.T) {
	testCases := []struct {
		line     string
		expected entities.Ingredient
	}{
		{"2-3 cloves garlic", entities.Ingredient{Name: "garlic", Amount: 3, Unit: "cloves"}},
		{"2 to 3 cups broth", entities.Ingredient{Name: "broth", Amount: 3, Unit: "cups"}},
		{"1 (14 ounce) can diced tomatoes", entities.Ingredient{Name: "diced tomatoes", Amount: 1, Unit: "can"}},
		{"1 1/2 cups milk", entities.Ingredient{Name: "milk", Amount: 1.5, Unit: "cups"}},
		{"• 1½ cups milk", entities.Ingredient{Name: "milk", Amount: 1.5, Unit: "cups"}},
		{"¾ tsp salt", entities.Ingredient{Name: "salt", Amount: 0.75, Unit: "tsp"}},
		{"1. 2 cups flour", entities.Ingredient{Name: "flour", Amount: 2, Unit: "cups"}},
		{"2 c. sugar", entities.Ingredient{Name: "sugar", Amount: 2, Unit: "c"}},
		{"pinch of salt", entities.Ingredient{Name: "salt", Amount: 1, Unit: "pinch"}},
		{"large eggs", entities.Ingredient{Name: "large eggs", Amount: 1}},
		{"2 leeks", entities.Ingredient{Name: "leeks", Amount: 2}},
		{"Salt and pepper to taste", entities.Ingredient{Name: "Salt and pepper to taste", Amount: 1}},
		{"chicken breasts, cut into strips", entities.Ingredient{Name: "chicken breasts", Amount: 1}},
		{"4 cups of water", entities.Ingredient{Name: "water", Amount: 4, Unit: "cups"}},
		{"2 garlic cloves, minced", entities.Ingredient{Name: "garlic", Amount: 2, Unit: "cloves"}},
		{"3 Celery Stalks", entities.Ingredient{Name: "Celery", Amount: 3, Unit: "stalks"}},
		{"2 bay leaves", entities.Ingredient{Name: "bay leaves", Amount: 2}},
	}

	parser := NewParser(3)
	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			got, ok := parser.ParseLine(tc.line)
			require.True(t, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParser_ParseLine_Rejects(t *testing.T) {
	parser := NewParser(3)

	for _, line := range []string{
		"",
		"Ingredients",
		"For the dough:",
		TruncationMarker,
		"2 cups flour; display:flex;",
		"12345",
	} {
		t.Run(line, func(t *testing.T) {
			_, ok := parser.ParseLine(line)
			assert.False(t, ok)
		})
	}
}
