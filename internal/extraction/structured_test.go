package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonLDRecipePage = `<!DOCTYPE html>
<html>
<head>
<title>Best Cake Ever</title>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Recipe","name":"Simple Cake",
 "recipeIngredient":["2 cups flour","1 cup sugar","3 large eggs"]}
</script>
</head>
<body><p>Welcome to my kitchen.</p></body>
</html>`

func TestFindStructuredRecipe_RecipeBlock(t *testing.T) {
	page, err := NewPage([]byte(jsonLDRecipePage))
	require.NoError(t, err)
	require.Len(t, page.JSONLD, 1)
	assert.Equal(t, "Best Cake Ever", page.Title)

	recipe, ok := FindStructuredRecipe(page.JSONLD)
	require.True(t, ok)
	assert.Equal(t, "Simple Cake", recipe.Name)
	assert.Equal(t, []string{"2 cups flour", "1 cup sugar", "3 large eggs"}, recipe.Ingredients)

	ingredients := NewParser(3).ParseLines(recipe.Ingredients)
	require.Len(t, ingredients, 3)
	assert.Equal(t, "flour", ingredients[0].Name)
	assert.Equal(t, 2.0, ingredients[0].Amount)
	assert.Equal(t, "cups", ingredients[0].Unit)
}

func TestFindStructuredRecipe_GraphAndTypeArray(t *testing.T) {
	block := `{"@context":"https://schema.org","@graph":[
		{"@type":"WebPage","name":"Stew page"},
		{"@type":["Recipe","NewsArticle"],"name":"Beef Stew","recipeIngredient":["1 lb beef","2 carrots"]}
	]}`

	recipe, ok := FindStructuredRecipe([]string{block})
	require.True(t, ok)
	assert.Equal(t, "Beef Stew", recipe.Name)
	assert.Len(t, recipe.Ingredients, 2)
}

func TestFindStructuredRecipe_TopLevelArray(t *testing.T) {
	block := `[{"@type":"Organization","name":"Site"},{"@type":"Recipe","name":"Soup","recipeIngredient":["4 cups stock"]}]`

	recipe, ok := FindStructuredRecipe([]string{block})
	require.True(t, ok)
	assert.Equal(t, "Soup", recipe.Name)
}

func TestFindStructuredRecipe_IngredientKeyWithoutType(t *testing.T) {
	block := `{"name":"Untyped","recipeIngredient":["1 cup rice"]}`

	recipe, ok := FindStructuredRecipe([]string{block})
	require.True(t, ok)
	assert.Equal(t, []string{"1 cup rice"}, recipe.Ingredients)
}

func TestFindStructuredRecipe_DecodesEntities(t *testing.T) {
	block := `{"@type":"Recipe","name":"Mac &amp; Cheese","recipeIngredient":["1 cup half &amp; half","2 cups <b>macaroni</b>"]}`

	recipe, ok := FindStructuredRecipe([]string{block})
	require.True(t, ok)
	assert.Equal(t, "Mac & Cheese", recipe.Name)
	assert.Equal(t, []string{"1 cup half & half", "2 cups macaroni"}, recipe.Ingredients)
}

func TestFindStructuredRecipe_NoneFound(t *testing.T) {
	testCases := map[string][]string{
		"no blocks":         nil,
		"malformed json":    {`{"@type": "Recipe", `},
		"not a recipe":      {`{"@type":"Article","name":"News"}`},
		"empty ingredients": {`{"@type":"Recipe","name":"Empty","recipeIngredient":[]}`},
	}

	for name, blocks := range testCases {
		t.Run(name, func(t *testing.T) {
			recipe, ok := FindStructuredRecipe(blocks)
			assert.False(t, ok)
			assert.Nil(t, recipe)
		})
	}
}

func TestFindStructuredRecipe_SkipsMalformedBlock(t *testing.T) {
	blocks := []string{
		`{broken`,
		`{"@type":"Recipe","recipeIngredient":["1 tsp salt"]}`,
	}

	recipe, ok := FindStructuredRecipe(blocks)
	require.True(t, ok)
	assert.Equal(t, []string{"1 tsp salt"}, recipe.Ingredients)
}

func TestNewPage_OpenGraphTitle(t *testing.T) {
	page, err := NewPage([]byte(`<html><head><title>Site | Soup</title><meta property="og:title" content="Tomato Soup"></head><body></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", page.Title)
}
