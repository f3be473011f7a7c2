package indexer

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ZilDuck/lazy-marketplace/internal/elastic_search"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/event"
	"github.com/ethereum/go-ethereum/common"
	"github.com/olivere/elastic/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bulkServer struct {
	mu     sync.Mutex
	bodies []string
	fail   bool
}

func (s *bulkServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.bodies = append(s.bodies, string(body))
	fail := s.fail
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"unavailable"}`))
		return
	}
	_, _ = w.Write([]byte(`{"took":1,"errors":false,"items":[]}`))
}

func newIndexer(t *testing.T, server *bulkServer) (EventIndexer, elastic_search.Index) {
	t.Helper()

	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)

	client, err := elastic.NewClient(
		elastic.SetURL(ts.URL),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
		elastic.SetMaxRetries(0),
	)
	require.NoError(t, err)

	es := elastic_search.NewWithClient(client, "false", 100)

	return NewEventIndexer(es), es
}

func listed(tokenId uint64, txId string) *entity.ItemListed {
	e := entity.NewItemListed(entity.Listing{Collection: common.HexToAddress("0xc0"), TokenId: tokenId, Owner: common.HexToAddress("0xa1")})
	e.Stamp(txId, 0, e.Time)
	return e
}

func TestEventIndexer_BuffersUntilFlush(t *testing.T) {
	server := &bulkServer{}
	idx, es := newIndexer(t, server)

	idx.Index(listed(1, "tx-1"))
	idx.Index(listed(2, "tx-2"))

	assert.Len(t, es.GetRequests(), 2)
	assert.Empty(t, server.bodies)

	assert.Equal(t, 2, idx.Flush())
	assert.Empty(t, es.GetRequests())

	require.Len(t, server.bodies, 1)
	lines := strings.Split(strings.TrimSpace(server.bodies[0]), "\n")
	require.Len(t, lines, 4)

	var action map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &action))
	assert.Equal(t, elastic_search.EventIndex.Get(), action["index"]["_index"])
}

func TestEventIndexer_KeepsRequestsWhenPersistFails(t *testing.T) {
	server := &bulkServer{fail: true}
	idx, es := newIndexer(t, server)

	idx.Index(listed(1, "tx-1"))

	assert.Equal(t, 0, idx.Flush())
	assert.Len(t, es.GetRequests(), 1)

	server.mu.Lock()
	server.fail = false
	server.mu.Unlock()

	assert.Equal(t, 1, idx.Flush())
	assert.Empty(t, es.GetRequests())
}

func TestEventIndexer_SameEventIsIndexedOnce(t *testing.T) {
	idx, es := newIndexer(t, &bulkServer{})

	e := listed(1, "tx-1")
	idx.Index(e)
	idx.Index(e)

	assert.Len(t, es.GetRequests(), 1)
	assert.True(t, es.HasRequest(e))
	assert.NotNil(t, es.GetRequest(e.Slug()))
}

func TestEventIndexer_SubscribesToSettlementEvents(t *testing.T) {
	idx, es := newIndexer(t, &bulkServer{})

	manager := event.NewManager()
	idx.Subscribe(manager)

	bought := entity.NewNftLockChanged(4, common.HexToAddress("0xa1"), false)
	bought.Stamp("tx-9", 1, bought.Time)
	manager.EmitEvent(bought.Type(), bought)
	manager.EmitEvent(event.ItemListedEvent, "not an event")
	manager.Wait()

	requests := es.GetRequests()
	require.Len(t, requests, 1)
	assert.Equal(t, elastic_search.RequestAction(event.NftLockChangedEvent), requests[0].Action)
	assert.Len(t, es.GetEntitiesByIndex(elastic_search.EventIndex.Get()), 1)
}
