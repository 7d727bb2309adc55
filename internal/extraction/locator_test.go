package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
)

func TestIsNoise(t *testing.T) {
	testCases := []struct {
		line  string
		noise bool
	}{
		{"Ingredients display:flex;", true},
		{".recipe-card .title { color: red }", true},
		{"@media (max-width: 600px)", true},
		{"window.dataLayer = window.dataLayer || [];", true},
		{"function() { return 1 }", true},
		{"2 cups all-purpose flour", false},
		{"Ingredients:", false},
		{"1 tbsp olive oil; extra for drizzling", false},
	}

	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			assert.Equal(t, tc.noise, IsNoise(tc.line))
		})
	}
}

func TestHasMeasurement(t *testing.T) {
	assert.True(t, HasMeasurement("2 cups flour"))
	assert.True(t, HasMeasurement("1/2 tsp salt"))
	assert.True(t, HasMeasurement("½ cup milk"))
	assert.True(t, HasMeasurement("2-3 cloves garlic"))
	assert.True(t, HasMeasurement("3 large eggs"))
	assert.True(t, HasMeasurement("1 (14 ounce) can tomatoes"))
	assert.False(t, HasMeasurement("2 carrots"))
	assert.False(t, HasMeasurement("Serves 4 people"))
}

func TestLocator_CSSDenylistTakesPrecedence(t *testing.T) {
	page := NewTextPage(strings.Join([]string{
		".recipe-card { display:flex; }",
		"Ingredients display:flex;",
		"Ingredients: 2 cups flour; color: red;",
		"1 cup sugar",
		"2 cups flour",
	}, "\n"))

	for _, s := range NewLocator(DefaultLocatorOptions()).Strategies() {
		lines := s.Locate(page)
		assert.NotContains(t, lines, "Ingredients display:flex;", string(s.Method))
		for _, l := range lines {
			assert.NotContains(t, l, "display:flex", string(s.Method))
			assert.NotContains(t, l, "color: red", string(s.Method))
		}
	}
}

func TestLocator_StructuralListWins(t *testing.T) {
	html := `<html><body>
<h1>Pancakes</h1>
<ul class="nav"><li>Home</li><li>About</li></ul>
<h2>Ingredients</h2>
<ul class="ingredients"><li>1 1/2 cups flour</li><li>2 tablespoons sugar</li><li>1 cup milk</li></ul>
<ol><li>Mix everything together until smooth and let the batter rest.</li><li>Cook on a hot griddle.</li></ol>
</body></html>`

	page, err := NewPage([]byte(html))
	require.NoError(t, err)

	corpus, ok := NewLocator(DefaultLocatorOptions()).Locate(page)
	require.True(t, ok)
	assert.Equal(t, entities.MethodStructuralList, corpus.Method)
	assert.Equal(t, []string{"1 1/2 cups flour", "2 tablespoons sugar", "1 cup milk"}, corpus.Lines)
	assert.False(t, corpus.Truncated)
}

func TestLocator_PositionalSection(t *testing.T) {
	html := `<html><body>
<p>My grandmother's recipe is the best one around.</p>
<h2>Ingredients</h2>
<p>2 cups flour</p>
<p>1 cup sugar</p>
<p>Pinch of salt</p>
<h2>Instructions</h2>
<p>Mix 2 cups water with the flour.</p>
</body></html>`

	page, err := NewPage([]byte(html))
	require.NoError(t, err)

	corpus, ok := NewLocator(DefaultLocatorOptions()).Locate(page)
	require.True(t, ok)
	assert.Equal(t, entities.MethodPositionalSection, corpus.Method)
	assert.Equal(t, []string{"2 cups flour", "1 cup sugar"}, corpus.Lines)
}

func TestLocator_AggressiveScanFallback(t *testing.T) {
	page := NewTextPage("Grab 2 cups flour from the pantry\nAdd 3 eggs\nEnjoy the result")

	corpus, ok := NewLocator(DefaultLocatorOptions()).Locate(page)
	require.True(t, ok)
	assert.Equal(t, entities.MethodAggressiveScan, corpus.Method)
	assert.Equal(t, []string{"Grab 2 cups flour from the pantry", "Add 3 eggs"}, corpus.Lines)
}

func TestLocator_NothingFound(t *testing.T) {
	page := NewTextPage("Welcome to my blog\nThanks for reading")

	_, ok := NewLocator(DefaultLocatorOptions()).Locate(page)
	assert.False(t, ok)
}

func TestPositionalSection_GapCapClosesSection(t *testing.T) {
	page := NewTextPage(strings.Join([]string{
		"Ingredients:",
		"2 cups flour",
		"Lorem ipsum",
		"Dolor sit amet",
		"Consectetur",
		"1 cup sugar",
	}, "\n"))

	assert.Equal(t, []string{"2 cups flour"}, PositionalSection(page, 3))
	assert.Equal(t, []string{"2 cups flour", "1 cup sugar"}, PositionalSection(page, 40))
}

func TestPositionalSection_InlineFirstLine(t *testing.T) {
	page := NewTextPage("Ingredients: 2 cups flour\n1 cup sugar\nMethod\n3 cups water")

	assert.Equal(t, []string{"2 cups flour", "1 cup sugar"}, PositionalSection(page, 40))
}

func TestLocator_TruncatesToBudget(t *testing.T) {
	page := NewTextPage("Ingredients:\n2 cups flour\n1 cup sugar\n3 cups milk")

	corpus, ok := NewLocator(LocatorOptions{MinLines: 2, MaxGap: 40, MaxChars: 20}).Locate(page)
	require.True(t, ok)
	assert.True(t, corpus.Truncated)
	assert.Equal(t, []string{"2 cups flour"}, corpus.Lines)
	assert.True(t, strings.HasSuffix(corpus.Text(), TruncationMarker))
}
