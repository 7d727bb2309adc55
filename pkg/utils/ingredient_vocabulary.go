package utils

// DefaultNormalizationConfig returns the built-in ingredient vocabulary.
// Each call returns a fresh copy that callers may modify.
func DefaultNormalizationConfig() *NormalizationConfig {
	return &NormalizationConfig{
		UnitAliases: map[string]string{
			"cup": "cups", "c": "cups", "cp": "cups",
			"tablespoon": "tablespoons", "tbsp": "tablespoons", "tbsps": "tablespoons",
			"tbs": "tablespoons", "tbl": "tablespoons", "tblsp": "tablespoons",
			"teaspoon": "teaspoons", "tsp": "teaspoons", "tsps": "teaspoons", "t": "teaspoons",
			"ounce": "ounces", "oz": "ounces",
			"fluid ounce": "fluid ounces", "fl oz": "fluid ounces", "fl. oz": "fluid ounces",
			"pound": "pounds", "lb": "pounds", "lbs": "pounds",
			"gram": "grams", "g": "grams", "gr": "grams", "grs": "grams",
			"kilogram": "kilograms", "kg": "kilograms", "kgs": "kilograms", "kilo": "kilograms", "kilos": "kilograms",
			"milligram": "milligrams", "mg": "milligrams",
			"milliliter": "milliliters", "millilitre": "milliliters", "millilitres": "milliliters",
			"ml": "milliliters", "mls": "milliliters",
			"liter": "liters", "litre": "liters", "litres": "liters", "l": "liters",
			"quart": "quarts", "qt": "quarts", "qts": "quarts",
			"pint": "pints", "pt": "pints", "pts": "pints",
			"gallon": "gallons", "gal": "gallons",
			"clove": "cloves",
			"slice": "slices",
			"can": "cans", "tin": "cans", "tins": "cans",
			"jar": "jars",
			"bottle": "bottles",
			"package": "packages", "pkg": "packages", "pkgs": "packages",
			"packet": "packages", "packets": "packages", "pack": "packages", "packs": "packages",
			"bag": "bags",
			"bunch": "bunches",
			"head": "heads",
			"stick": "sticks",
			"pinch": "pinches",
			"dash": "dashes",
			"sprig": "sprigs",
			"stalk": "stalks",
			"leaf": "leaves",
			"fillet": "fillets",
			"box": "boxes",
			"container": "containers",
			"loaf": "loaves",
			"sheet": "sheets",
			"handful": "handfuls",
		},
		SingularUnits: map[string]string{
			"cups": "cup", "tablespoons": "tablespoon", "teaspoons": "teaspoon",
			"ounces": "ounce", "fluid ounces": "fluid ounce", "pounds": "pound",
			"grams": "gram", "kilograms": "kilogram", "milligrams": "milligram",
			"milliliters": "milliliter", "liters": "liter",
			"quarts": "quart", "pints": "pint", "gallons": "gallon",
			"cloves": "clove", "slices": "slice", "cans": "can", "jars": "jar",
			"bottles": "bottle", "packages": "package", "bags": "bag",
			"bunches": "bunch", "heads": "head", "sticks": "stick",
			"pinches": "pinch", "dashes": "dash", "sprigs": "sprig",
			"stalks": "stalk", "leaves": "leaf", "fillets": "fillet",
			"boxes": "box", "containers": "container", "loaves": "loaf",
			"sheets": "sheet", "handfuls": "handful",
		},
		CountUnits: []string{"piece", "pieces", "pc", "pcs", "whole", "each", "ea", "item", "items"},
		SizeWords:  []string{"small", "medium", "large", "extra large", "extra-large", "jumbo", "big"},
		SizeDefiningItems: []string{
			"egg", "shrimp", "prawn", "scallop", "tortilla", "marshmallow", "olive",
		},
		PrepWords: []string{
			"chopped", "diced", "minced", "sliced", "grated", "shredded", "peeled",
			"seeded", "deseeded", "cored", "pitted", "crushed", "julienned", "cubed",
			"halved", "quartered", "trimmed", "rinsed", "washed", "drained", "beaten",
			"whisked", "sifted", "softened", "melted", "cooked", "uncooked", "boiled",
			"roasted", "toasted", "fried", "steamed", "sauteed", "sautéed", "blanched",
			"mashed", "pureed", "zested", "juiced", "torn", "separated", "chilled",
			"thawed", "fresh", "freshly", "finely", "coarsely", "roughly", "thinly",
			"thickly", "lightly", "very", "ripe",
		},
		PrepPhrases: []string{
			"to taste", "for serving", "for garnish", "for the pan", "for greasing",
			"as needed", "if desired", "at room temperature", "room temperature",
			"divided", "optional", "firmly packed", "loosely packed", "packed",
		},
		TruncatePhrases: []string{"cut into", "such as", "plus more", "or more", "or to taste"},
		CategoryKeywords: map[string][]string{
			"Produce": {
				"onion", "garlic", "shallot", "scallion", "green onion", "leek", "tomato",
				"potato", "sweet potato", "carrot", "celery", "lettuce", "spinach", "kale",
				"cabbage", "broccoli", "cauliflower", "zucchini", "cucumber", "eggplant",
				"mushroom", "bell pepper", "jalapeno", "jalapeño", "chili pepper", "avocado",
				"lemon", "lime", "orange", "apple", "banana", "berry", "berries",
				"strawberry", "strawberries", "blueberry", "blueberries", "grape", "peach",
				"pear", "mango", "pineapple", "ginger", "cilantro", "parsley", "basil",
				"mint", "thyme", "rosemary", "dill", "chive", "corn", "pea", "green bean",
				"asparagus", "squash", "pumpkin", "radish", "beet",
			},
			"Meat & Seafood": {
				"chicken", "beef", "pork", "lamb", "turkey", "bacon", "sausage", "steak",
				"ground beef", "ground turkey", "shrimp", "prawn", "salmon", "tuna", "cod",
				"tilapia", "fish", "scallop", "crab", "lobster", "mussel", "clam", "veal",
				"duck", "chorizo",
			},
			"Deli": {"ham", "salami", "prosciutto", "pepperoni", "pastrami", "deli", "hummus"},
			"Bakery": {
				"bread", "bun", "baguette", "tortilla", "pita", "roll", "croissant",
				"bagel", "breadcrumb", "bread crumb", "panko", "brioche",
			},
			"Frozen": {"frozen", "ice cream", "puff pastry", "pie crust"},
			"Pantry": {
				"flour", "sugar", "brown sugar", "salt", "pepper", "black pepper",
				"peppercorn", "oil", "olive oil", "vinegar", "rice", "pasta", "noodle",
				"baking powder", "baking soda", "yeast", "vanilla", "cinnamon", "cumin",
				"paprika", "oregano", "chili powder", "garlic powder", "onion powder",
				"ground ginger", "honey", "maple syrup", "soy sauce", "broth", "stock",
				"chicken broth", "chicken stock", "beef broth", "canned tomato",
				"tomato paste", "tomato sauce", "bean", "lentil", "chickpea", "oat",
				"peanut butter", "nut", "almond", "walnut", "pecan", "chocolate",
				"cocoa", "cornstarch", "coconut milk", "mustard", "ketchup", "mayonnaise",
				"salsa", "cornmeal", "raisin",
			},
			"Dairy": {
				"milk", "butter", "cheese", "cream", "heavy cream", "sour cream",
				"cream cheese", "yogurt", "yoghurt", "buttermilk", "parmesan", "mozzarella",
				"cheddar", "ricotta", "feta", "egg", "half-and-half",
			},
			"Beverages": {
				"wine", "red wine", "white wine", "beer", "soda", "coffee", "tea",
				"sparkling water", "club soda", "orange juice", "apple juice",
			},
		},
	}
}
