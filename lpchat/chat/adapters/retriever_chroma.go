package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	ports "github.com/loanworks-dev/lpchat/lpchat/chat/ports"
)

const maxErrorBodyBytes = 1024

// ChromaRetriever queries a ChromaDB HTTP service for loan-document context.
// Search failures are absorbed: any transport or non-200 outcome degrades to
// an empty result, never an error surfaced to the exchange.
type ChromaRetriever struct {
	baseURL    string
	collection string
	http       *http.Client
	log        zerolog.Logger
}

// NewChromaRetriever builds a retriever for host:port (host carries the
// scheme, e.g. "http://localhost").
func NewChromaRetriever(host string, port int, collection string, log zerolog.Logger) *ChromaRetriever {
	return &ChromaRetriever{
		baseURL:    fmt.Sprintf("%s:%d", strings.TrimRight(host, "/"), port),
		collection: collection,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log.With().Str("component", "chroma_retriever").Logger(),
	}
}

// Probe checks connectivity with GET /collections. Callers treat a failure
// as non-fatal and log it.
func (r *ChromaRetriever) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/collections", nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("connect to chroma at %s: %w", r.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chroma probe returned %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	r.log.Debug().Str("url", r.baseURL).Msg("chroma connection successful")
	return nil
}

// Search posts the query and returns up to limit document contents in
// service order. The error return is always nil; failures are logged and
// yield an empty slice.
func (r *ChromaRetriever) Search(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("collection_name", r.collection)
	params.Set("query_text", query)
	params.Set("n_results", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/query?"+params.Encode(), nil)
	if err != nil {
		r.log.Error().Err(err).Msg("build query request")
		return nil, nil
	}

	resp, err := r.http.Do(req)
	if err != nil {
		r.log.Error().Err(err).Msg("error searching chroma")
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.Error().
			Int("status", resp.StatusCode).
			Str("body", readErrorBody(resp.Body)).
			Msg("error searching chroma")
		return nil, nil
	}

	var results []struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		r.log.Error().Err(err).Msg("decode chroma results")
		return nil, nil
	}

	docs := make([]string, 0, len(results))
	for _, res := range results {
		docs = append(docs, res.Content)
	}
	r.log.Debug().Int("documents", len(docs)).Msg("chroma query completed")
	return docs, nil
}

func readErrorBody(body io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

var _ ports.Retriever = (*ChromaRetriever)(nil)
