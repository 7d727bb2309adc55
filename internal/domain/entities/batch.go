package entities

// BatchItem is the outcome for one URL of a batch, tagged with its position
// in the submitted list because items arrive in completion order.
type BatchItem struct {
	Index  int         `json:"index"`
	URL    string      `json:"url"`
	Result ParseResult `json:"result"`
}

// BatchResult aggregates the outcomes of URLs submitted together.
type BatchResult struct {
	ID          string       `json:"id"`
	Items       []BatchItem  `json:"items"`
	Ingredients []Ingredient `json:"ingredients"`
	Succeeded   int          `json:"succeeded"`
	Failed      int          `json:"failed"`
	SuccessRate float64      `json:"success_rate"`
	Acceptable  bool         `json:"acceptable"`
	Errors      []string     `json:"errors,omitempty"`
}

// Total returns the number of URLs in the batch.
func (b *BatchResult) Total() int {
	return b.Succeeded + b.Failed
}

// ComputeSuccessRate returns succeeded/total, or 0 for an empty batch.
func ComputeSuccessRate(succeeded, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(succeeded) / float64(total)
}
