package chatports

import "context"

// Retriever turns a free-text query into candidate context documents.
//
// Search is best-effort: implementations absorb transport and status failures
// and return an empty slice, so retrieval trouble degrades to "no context"
// instead of failing the exchange. The error return is reserved for callers
// that want to distinguish genuinely broken configurations.
type Retriever interface {
	// Probe checks connectivity to the search backend. Failures are
	// non-fatal at startup and only logged.
	Probe(ctx context.Context) error

	Search(ctx context.Context, query string, limit int) ([]string, error)
}
