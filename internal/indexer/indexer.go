package indexer

import (
	"github.com/ZilDuck/lazy-marketplace/internal/elastic_search"
	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ZilDuck/lazy-marketplace/internal/event"
	"go.uber.org/zap"
)

type EventIndexer interface {
	Install(mappingDir string) error
	Subscribe(manager *event.Manager)
	Index(e entity.Event)
	Flush() int
}

type eventIndexer struct {
	elastic elastic_search.Index
	index   string
}

func NewEventIndexer(elastic elastic_search.Index) EventIndexer {
	return eventIndexer{elastic: elastic, index: elastic_search.EventIndex.Get()}
}

func (i eventIndexer) Install(mappingDir string) error {
	return i.elastic.InstallMappings(mappingDir)
}

func (i eventIndexer) Subscribe(manager *event.Manager) {
	for _, eventType := range event.SettlementEvents {
		manager.AddEventListener(eventType, i.handle)
	}
}

// Index buffers the event and persists the buffer once it is large enough.
func (i eventIndexer) Index(e entity.Event) {
	zap.L().With(zap.String("type", string(e.Type())), zap.String("slug", e.Slug())).Debug("EventIndexer: Index event")

	i.elastic.AddIndexRequest(i.index, e, elastic_search.RequestAction(e.Type()))
	i.elastic.BatchPersist()
}

func (i eventIndexer) Flush() int {
	return i.elastic.Persist()
}

func (i eventIndexer) handle(msg interface{}) {
	e, ok := msg.(entity.Event)
	if !ok {
		zap.L().Warn("EventIndexer: Unexpected message")
		return
	}

	i.Index(e)
}
