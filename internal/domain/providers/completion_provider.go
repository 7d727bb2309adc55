package providers

import "context"

// CompletionProvider sends a prompt to a language model and returns the raw
// text of its reply.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
