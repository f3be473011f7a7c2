package elastic_search

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/olivere/elastic/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entityStub string

func (e entityStub) Slug() string { return string(e) }

func newTestClient(t *testing.T, handler http.Handler) *elastic.Client {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client, err := elastic.NewClient(elastic.SetURL(ts.URL), elastic.SetSniff(false), elastic.SetHealthcheck(false))
	require.NoError(t, err)

	return client
}

func TestInstallMappings_CreatesMissingIndices(t *testing.T) {
	var mu sync.Mutex
	created := make(map[string]bool)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		name := r.URL.Path[1:]
		switch r.Method {
		case http.MethodHead:
			if name == EventIndex.Get() && created[name] {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			created[name] = true
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"acknowledged":true,"shards_acknowledged":true,"index":"` + name + `"}`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "event.json"), []byte(`{"mappings":{}}`), 0o600))

	es := NewWithClient(client, "false", 10)
	require.NoError(t, es.InstallMappings(dir))
	require.NoError(t, es.InstallMappings(dir))

	assert.True(t, created[EventIndex.Get()])
	assert.Len(t, created, 1)
}

func TestInstallMappings_MissingDirectory(t *testing.T) {
	es := NewWithClient(newTestClient(t, http.NotFoundHandler()), "false", 10)

	assert.Error(t, es.InstallMappings(filepath.Join(t.TempDir(), "missing")))
}

func TestRequests_BufferBySlug(t *testing.T) {
	es := NewWithClient(newTestClient(t, http.NotFoundHandler()), "false", 10)

	es.AddIndexRequest("a", entityStub("one"), "ItemListed")
	es.AddIndexRequest("a", entityStub("one"), "ItemListed")
	es.AddIndexRequest("b", entityStub("two"), "ItemBought")

	assert.Len(t, es.GetRequests(), 2)
	assert.Len(t, es.GetEntitiesByIndex("a"), 1)
	assert.Nil(t, es.GetRequest("three"))
	assert.False(t, es.BatchPersist())

	es.ClearRequests()
	assert.Empty(t, es.GetRequests())
}
