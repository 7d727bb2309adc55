package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
)

const cakePage = "Simple Cake\nIngredients\n2 cups flour\n1 cup sugar\n½ cup milk\nBake for 30 minutes."

func TestVerifier_ExactPhrases(t *testing.T) {
	ings := []entities.Ingredient{
		{Name: "flour", Amount: 2, Unit: "cups"},
		{Name: "sugar", Amount: 1, Unit: "cups"},
		{Name: "milk", Amount: 0.5, Unit: "cups"},
	}

	out := NewVerifier(nil).Verify(ings, cakePage)
	assert.Len(t, out.VerifiedIngredients, 3)
	assert.Empty(t, out.UnverifiedIngredients)
	assert.Equal(t, 100, out.VerificationScore)
	assert.Empty(t, out.Notes)
}

func TestVerifier_TwoOfThreeIsSixtySix(t *testing.T) {
	ings := []entities.Ingredient{
		{Name: "flour", Amount: 2, Unit: "cups"},
		{Name: "sugar", Amount: 1, Unit: "cups"},
		{Name: "saffron threads", Amount: 1},
	}

	out := NewVerifier(nil).Verify(ings, cakePage)
	require.Len(t, out.UnverifiedIngredients, 1)
	assert.Equal(t, "saffron threads", out.UnverifiedIngredients[0].Name)
	assert.Equal(t, 66, out.VerificationScore)
	require.Len(t, out.Notes, 1)
	assert.Contains(t, out.Notes[0], "saffron threads")

	warning, err := DefaultPolicy().CheckVerification(out.VerificationScore)
	require.NoError(t, err)
	assert.NotEmpty(t, warning)
}

func TestVerifier_AbbreviatedUnits(t *testing.T) {
	source := "2 tbsp. olive oil\n1 oz parmesan\n3 Tbsp of honey"
	ings := []entities.Ingredient{
		{Name: "olive oil", Amount: 2, Unit: "tablespoons"},
		{Name: "parmesan", Amount: 1, Unit: "ounces"},
		{Name: "honey", Amount: 3, Unit: "tablespoons"},
	}

	v := NewVerifier(nil)
	text := prepareSource(source)
	for _, ing := range ings {
		assert.True(t, v.exactMatch(ing, ing.Name, text), ing.Name)
	}
}

func TestVerifier_EmptyListScoresZero(t *testing.T) {
	out := NewVerifier(nil).Verify(nil, cakePage)
	assert.Equal(t, 0, out.VerificationScore)
	assert.Empty(t, out.VerifiedIngredients)
	assert.Empty(t, out.UnverifiedIngredients)
}

func TestVerificationScore(t *testing.T) {
	assert.Equal(t, 0, VerificationScore(0, 0))
	assert.Equal(t, 66, VerificationScore(2, 3))
	assert.Equal(t, 33, VerificationScore(1, 3))
	assert.Equal(t, 100, VerificationScore(4, 4))
}

func TestProximityMatch(t *testing.T) {
	text := prepareSource("Scatter the parsley (about 2 handfuls) over the top.")

	assert.True(t, proximityMatch("parsley", text))
	assert.False(t, proximityMatch("parsley", prepareSource("Scatter the parsley over the top.")))
	assert.False(t, proximityMatch("chives", text))
}

func TestFuzzyMatch(t *testing.T) {
	text := prepareSource("Garnish with basil leaves and sweet paprika.")

	assert.True(t, fuzzyMatch("fresh basil leaves", text))
	assert.True(t, fuzzyMatch("smoked paprika", text))
	assert.False(t, fuzzyMatch("smoked salmon fillets", text))
	assert.False(t, fuzzyMatch("ox", text))
}

func TestAmountSpellings(t *testing.T) {
	assert.Equal(t, []string{"2"}, amountSpellings(2))
	assert.Equal(t, []string{"0.5", "1/2"}, amountSpellings(0.5))
	assert.Equal(t, []string{"1.5", "1 1/2", "1-1/2"}, amountSpellings(1.5))
	assert.Equal(t, []string{"0.33", "1/3"}, amountSpellings(0.33))
}
