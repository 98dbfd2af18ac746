package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRetriever(t *testing.T, handler http.Handler) *ChromaRetriever {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return NewChromaRetriever("http://"+u.Hostname(), port, "loandocuments", zerolog.Nop())
}

func TestChromaRetriever_Search(t *testing.T) {
	var gotQuery url.Values
	retriever := newTestRetriever(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		gotQuery = r.URL.Query()

		json.NewEncoder(w).Encode([]map[string]string{
			{"content": "doc one"},
			{"content": "doc two"},
		})
	}))

	docs, err := retriever.Search(context.Background(), "5-year fixed advance", 3)

	require.NoError(t, err)
	assert.Equal(t, []string{"doc one", "doc two"}, docs)
	assert.Equal(t, "loandocuments", gotQuery.Get("collection_name"))
	assert.Equal(t, "5-year fixed advance", gotQuery.Get("query_text"))
	assert.Equal(t, "3", gotQuery.Get("n_results"))
}

func TestChromaRetriever_SearchNonOKDegradesToEmpty(t *testing.T) {
	retriever := newTestRetriever(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "collection not found", http.StatusInternalServerError)
	}))

	docs, err := retriever.Search(context.Background(), "anything", 3)

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestChromaRetriever_SearchBadBodyDegradesToEmpty(t *testing.T) {
	retriever := newTestRetriever(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))

	docs, err := retriever.Search(context.Background(), "anything", 3)

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestChromaRetriever_SearchUnreachableDegradesToEmpty(t *testing.T) {
	// Port 1 is a safe bet for a refused connection.
	retriever := NewChromaRetriever("http://127.0.0.1", 1, "loandocuments", zerolog.Nop())

	docs, err := retriever.Search(context.Background(), "anything", 3)

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestChromaRetriever_Probe(t *testing.T) {
	retriever := newTestRetriever(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/collections", r.URL.Path)
		json.NewEncoder(w).Encode([]string{"loandocuments"})
	}))

	assert.NoError(t, retriever.Probe(context.Background()))
}

func TestChromaRetriever_ProbeFailure(t *testing.T) {
	retriever := newTestRetriever(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))

	err := retriever.Probe(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
