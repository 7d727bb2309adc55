package entities

// ExtractionMethod identifies which stage of the pipeline produced a result.
type ExtractionMethod string

const (
	MethodStructuredData    ExtractionMethod = "structured_data"
	MethodStructuralList    ExtractionMethod = "structural_list"
	MethodPositionalSection ExtractionMethod = "positional_section"
	MethodAggressiveScan    ExtractionMethod = "aggressive_scan"
	MethodLLM               ExtractionMethod = "llm"
	MethodCache             ExtractionMethod = "cache"
)

// Recipe is the outcome of one extraction attempt for a source URL.
type Recipe struct {
	SourceURL    string       `json:"source_url"`
	Name         string       `json:"name,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
	Parsed       bool         `json:"parsed"`
	ParsingError string       `json:"parsing_error,omitempty"`
}

// ParseResult is produced once per pipeline run and is the unit stored in
// the cache.
type ParseResult struct {
	Recipe            Recipe           `json:"recipe"`
	Success           bool             `json:"success"`
	Error             string           `json:"error,omitempty"`
	ErrorType         string           `json:"error_type,omitempty"`
	Method            ExtractionMethod `json:"method,omitempty"`
	Confidence        int              `json:"confidence"`
	VerificationScore int              `json:"verification_score"`
	Warnings          []string         `json:"warnings,omitempty"`
	FromCache         bool             `json:"from_cache,omitempty"`
}

// FailedResult builds the terminal unparsed state for sourceURL.
func FailedResult(sourceURL, errorType, message string) ParseResult {
	return ParseResult{
		Recipe: Recipe{
			SourceURL:    sourceURL,
			Ingredients:  []Ingredient{},
			ParsingError: message,
		},
		Success:   false,
		Error:     message,
		ErrorType: errorType,
	}
}

// Clone returns a deep copy so cached results can be handed out by value.
func (r ParseResult) Clone() ParseResult {
	out := r
	out.Recipe.Ingredients = append([]Ingredient(nil), r.Recipe.Ingredients...)
	if out.Recipe.Ingredients == nil {
		out.Recipe.Ingredients = []Ingredient{}
	}
	out.Warnings = append([]string(nil), r.Warnings...)
	return out
}
