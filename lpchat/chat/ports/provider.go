package chatports

import "context"

// Options controls sampling and output limits for a completion call.
type Options struct {
	Temperature float32
	MaxTokens   int
}

// Provider is the abstraction for the completion backend. Complete blocks
// until the provider responds or errors; there is no streaming path.
type Provider interface {
	Complete(ctx context.Context, turns []Turn, opts Options) (string, error)
}
