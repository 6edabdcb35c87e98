package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
)

type recorded struct {
	method string
	path   string
	body   string
}

// fakeES answers like an Elasticsearch node, including the product header
// the v8 client checks.
func fakeES(t *testing.T, searchReply string) (*elasticsearch.Client, func() []recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{r.Method, r.URL.Path, string(b)})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/_search") {
			_, _ = io.WriteString(w, searchReply)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), reqs...)
	}
}

func TestESIndex_IndexWritesDocumentByID(t *testing.T) {
	es, requests := fakeES(t, `{}`)
	idx := NewESIndex(es, "accounts")

	ref := "c2f0b9f4-0000-4000-8000-000000000000"
	err := idx.Index(context.Background(), entity.AccountSummary{ID: "acc-1", Name: "Ana", Email: "ana@x.com", AvatarRef: &ref})
	require.NoError(t, err)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].method)
	assert.Equal(t, "/accounts/_doc/acc-1", reqs[0].path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(reqs[0].body), &doc))
	assert.Equal(t, "ana@x.com", doc["email"])
	assert.Equal(t, ref, doc["avatar_ref"])
}

func TestESIndex_SearchParsesHits(t *testing.T) {
	es, requests := fakeES(t, `{"hits":{"hits":[
		{"_id":"acc-1","_source":{"id":"acc-1","name":"Ana","email":"ana@x.com","avatar_ref":null}},
		{"_id":"acc-2","_source":{"id":"acc-2","name":"Anabel","email":"anabel@x.com","avatar_ref":null}}
	]}}`)
	idx := NewESIndex(es, "accounts")

	got, err := idx.Search(context.Background(), "ana", 500)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "acc-1", got[0].ID)
	assert.Equal(t, "Anabel", got[1].Name)
	assert.Nil(t, got[0].AvatarRef)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/accounts/_search", reqs[0].path)
	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(reqs[0].body), &q))
	assert.EqualValues(t, DefaultSize, q["size"])
}

func TestNoop(t *testing.T) {
	var n Noop
	assert.NoError(t, n.Index(context.Background(), entity.AccountSummary{ID: "x"}))
	got, err := n.Search(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
